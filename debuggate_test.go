package debuggate_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuggate/debuggate"
	"github.com/debuggate/debuggate/findings"
	"github.com/debuggate/debuggate/ir"
	"github.com/debuggate/debuggate/unitfile"
)

func loadFixture(t *testing.T) []*ir.Unit {
	t.Helper()
	units, err := unitfile.LoadTxtar("testdata/basic.txtar")
	require.NoError(t, err)
	require.Len(t, units, 3)
	return units
}

func pick(units []*ir.Unit, names ...string) []*ir.Unit {
	var out []*ir.Unit
	for _, u := range units {
		for _, n := range names {
			if u.Name == n {
				out = append(out, u)
			}
		}
	}
	return out
}

func countByKind(fs []findings.Finding) map[findings.Kind]int {
	counts := make(map[findings.Kind]int)
	for _, f := range fs {
		counts[f.Kind]++
	}
	return counts
}

func TestGoodAccessPatternsProduceNoFindings(t *testing.T) {
	t.Parallel()

	units := pick(loadFixture(t), "lib", "good")
	fs, err := debuggate.Check(context.Background(), units)
	require.NoError(t, err)
	assert.Empty(t, fs)
}

func TestBadAccessPatterns(t *testing.T) {
	t.Parallel()

	units := loadFixture(t)
	fs, err := debuggate.Check(context.Background(), units)
	require.NoError(t, err)

	counts := countByKind(fs)
	assert.Equal(t, 19, counts[findings.Violation],
		"one violation per distinct ungated access, two for the compound assignment and two for the cascade")
	assert.Equal(t, 1, counts[findings.UnsafeOverride])
	assert.Zero(t, counts[findings.InputError])

	// Every violation sits in the ungated consumer; the gated consumer
	// contributes nothing.
	for _, f := range fs {
		if f.Kind == findings.Violation {
			assert.Equal(t, "bad", f.Loc.Unit)
		}
	}
}

func TestUnsafeOverrideNeedsNoCallSites(t *testing.T) {
	t.Parallel()

	units := pick(loadFixture(t), "lib", "bad")
	// Strip the consumer function, leaving only the marker-dropping
	// override declaration.
	for _, u := range units {
		if u.Name != "bad" {
			continue
		}
		var decls []ir.Decl
		for _, d := range u.Decls {
			if _, isFunc := d.(*ir.Func); !isFunc {
				decls = append(decls, d)
			}
		}
		u.Decls = decls
	}

	fs, err := debuggate.Check(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, findings.UnsafeOverride, fs[0].Kind)
	assert.Equal(t, "DropsMarker.mrun", fs[0].Symbol)
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	units := loadFixture(t)
	first, err := debuggate.Check(context.Background(), units)
	require.NoError(t, err)
	second, err := debuggate.Check(context.Background(), units)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeterminismUnderShuffledSubmission(t *testing.T) {
	t.Parallel()

	units := loadFixture(t)
	baseline, err := debuggate.Check(context.Background(), units, debuggate.WithParallelism(1))
	require.NoError(t, err)
	require.NotEmpty(t, baseline)

	for seed := int64(0); seed < 8; seed++ {
		shuffled := make([]*ir.Unit, len(units))
		copy(shuffled, units)
		rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		fs, err := debuggate.Check(context.Background(), shuffled, debuggate.WithParallelism(4))
		require.NoError(t, err)
		assert.Equal(t, baseline, fs, "seed %d", seed)
	}
}

func TestCancellationAbortsWithoutFindings(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs, err := debuggate.Check(ctx, loadFixture(t))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, fs)
}

func TestCustomMarkerAndGate(t *testing.T) {
	t.Parallel()

	units := []*ir.Unit{
		{Name: "lib", Decls: []ir.Decl{
			&ir.Container{Kind: ir.KindClass, Name: "Thing", Annotations: []string{"devOnly"}, Members: []*ir.Member{
				{Kind: ir.KindMethod, Name: "poke", Result: "void"},
			}},
		}},
		{Name: "app", Decls: []ir.Decl{
			&ir.Func{Name: "f", Body: []ir.Stmt{
				&ir.ExprStmt{E: &ir.Call{
					Fun:  &ir.Access{Recv: &ir.Ident{Name: "x", Type: "Thing"}, Name: "poke"},
					Args: nil,
				}},
				&ir.ExprStmt{E: &ir.Call{
					Fun: &ir.Ident{Name: "verify"},
					Args: []ir.Expr{&ir.Call{Fun: &ir.Closure{Result: "bool", Body: []ir.Stmt{
						&ir.ExprStmt{E: &ir.Call{Fun: &ir.Access{Recv: &ir.Ident{Name: "x", Type: "Thing"}, Name: "poke"}}},
					}}}},
				}},
			}},
		}},
	}

	// Default marker ignores the devOnly annotation entirely.
	fs, err := debuggate.Check(context.Background(), units,
		debuggate.WithGateFunctions("verify"))
	require.NoError(t, err)
	assert.Empty(t, fs)

	// With the custom marker and gate, the ungated call violates and the
	// verify-gated one does not.
	fs, err = debuggate.Check(context.Background(), units,
		debuggate.WithMarker("devOnly"),
		debuggate.WithGateFunctions("verify"),
	)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, findings.Violation, fs[0].Kind)
	assert.Equal(t, "Thing.poke", fs[0].Symbol)
}
