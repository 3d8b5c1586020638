package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuggate/debuggate/findings"
	"github.com/debuggate/debuggate/internal/index"
	"github.com/debuggate/debuggate/ir"
)

func marker(a string) bool { return a == "debugAssert" }

func buildOne(t *testing.T, u *ir.Unit) *index.Table {
	t.Helper()
	return index.Merge([]*index.UnitTable{index.BuildUnit(u, marker)})
}

func TestBuildUnitMarking(t *testing.T) {
	t.Parallel()

	table := buildOne(t, &ir.Unit{
		Name: "lib",
		Decls: []ir.Decl{
			&ir.Container{Kind: ir.KindClass, Name: "Blanket", Annotations: []string{"debugAssert"}, Members: []*ir.Member{
				{Kind: ir.KindField, Name: "f"},
				{Kind: ir.KindField, Name: "s", Static: true},
			}},
			&ir.Container{Kind: ir.KindClass, Name: "Plain", Members: []*ir.Member{
				{Kind: ir.KindMethod, Name: "m", Annotations: []string{"debugAssert"}},
				{Kind: ir.KindMethod, Name: "other", Annotations: []string{"visibleForTesting"}},
			}},
			&ir.Func{Name: "debugFn", Annotations: []string{"debugAssert"}},
			&ir.Var{Name: "counter", Type: "int"},
		},
	})

	require.Empty(t, table.Findings)

	blanket, ok := table.ContainerByName("Blanket")
	require.True(t, ok)
	assert.True(t, blanket.Marked)
	assert.True(t, blanket.Members[0].Blanketed, "instance field stays under the container blanket")
	assert.False(t, blanket.Members[1].Blanketed, "static members carry only their own marking")

	plain, ok := table.ContainerByName("Plain")
	require.True(t, ok)
	assert.True(t, plain.Members[0].Marked)
	assert.False(t, plain.Members[1].Marked, "foreign annotations are not the marker")

	require.Contains(t, table.TopLevel, "debugFn")
	assert.True(t, table.TopLevel["debugFn"].Marked)
	require.Contains(t, table.TopLevel, "counter")
	assert.False(t, table.TopLevel["counter"].Marked)
}

func TestOperatorArity(t *testing.T) {
	t.Parallel()

	table := buildOne(t, &ir.Unit{
		Name: "lib",
		Decls: []ir.Decl{
			&ir.Container{Kind: ir.KindClass, Name: "Ops", Members: []*ir.Member{
				{Kind: ir.KindOperator, Name: "+", Params: 1},
				{Kind: ir.KindOperator, Name: "~", Params: 2, Pos: ir.Pos{Unit: "lib", Line: 7, Col: 3}},
				{Kind: ir.KindOperator, Name: "[]", Params: 1},
			}},
		},
	})

	require.Len(t, table.Findings, 1)
	f := table.Findings[0]
	assert.Equal(t, findings.InputError, f.Kind)
	assert.Equal(t, "Ops.~", f.Symbol)
	assert.Equal(t, findings.Loc{Unit: "lib", Line: 7, Col: 3}, f.Loc)

	// The malformed operator is still indexed; the defect is a finding,
	// not a crash or a hole in resolution.
	ops, ok := table.ContainerByName("Ops")
	require.True(t, ok)
	assert.Len(t, ops.Members, 3)
}

func TestEnumSynthesizesValuesAccessor(t *testing.T) {
	t.Parallel()

	table := buildOne(t, &ir.Unit{
		Name: "lib",
		Decls: []ir.Decl{
			&ir.Container{Kind: ir.KindEnum, Name: "Choice", Members: []*ir.Member{
				{Kind: ir.KindEnumValue, Name: "a"},
				{Kind: ir.KindEnumValue, Name: "b"},
			}},
		},
	})

	choice, ok := table.ContainerByName("Choice")
	require.True(t, ok)

	values := table.ResolveStatic(choice, "values", index.NeedRead)
	require.NotNil(t, values)
	assert.True(t, values.Blanketed, "the synthesized accessor is markable through the enum")
	assert.Equal(t, "List<Choice>", values.Result)

	a := table.ResolveStatic(choice, "a", index.NeedRead)
	require.NotNil(t, a)
	assert.True(t, a.Static)
	assert.True(t, a.Blanketed, "enum values stay under the enum blanket")
}

func TestMergeReportsDuplicatesAndMissingEdges(t *testing.T) {
	t.Parallel()

	a := index.BuildUnit(&ir.Unit{Name: "a", Decls: []ir.Decl{
		&ir.Container{Kind: ir.KindClass, Name: "Dup"},
		&ir.Container{Kind: ir.KindClass, Name: "Orphan", Extends: "Nowhere"},
	}}, marker)
	b := index.BuildUnit(&ir.Unit{Name: "b", Decls: []ir.Decl{
		&ir.Container{Kind: ir.KindClass, Name: "Dup"},
	}}, marker)

	table := index.Merge([]*index.UnitTable{a, b})

	var kinds []findings.Kind
	var symbols []string
	for _, f := range table.Findings {
		kinds = append(kinds, f.Kind)
		symbols = append(symbols, f.Symbol)
	}
	assert.Equal(t, []findings.Kind{findings.InputError, findings.InputError}, kinds)
	assert.ElementsMatch(t, []string{"Dup", "Orphan"}, symbols)

	orphan, ok := table.ContainerByName("Orphan")
	require.True(t, ok)
	assert.True(t, orphan.Broken)
}

func TestResolveInstanceLookupOrder(t *testing.T) {
	t.Parallel()

	table := buildOne(t, &ir.Unit{
		Name: "lib",
		Decls: []ir.Decl{
			&ir.Container{Kind: ir.KindClass, Name: "Base", Members: []*ir.Member{
				{Kind: ir.KindMethod, Name: "run", Result: "void"},
				{Kind: ir.KindMethod, Name: "baseOnly"},
			}},
			&ir.Container{Kind: ir.KindMixin, Name: "M1", Members: []*ir.Member{
				{Kind: ir.KindMethod, Name: "run", Result: "int"},
			}},
			&ir.Container{Kind: ir.KindMixin, Name: "M2", Members: []*ir.Member{
				{Kind: ir.KindMethod, Name: "run", Result: "bool"},
			}},
			&ir.Container{Kind: ir.KindClass, Name: "C", Extends: "Base", With: []string{"M1", "M2"}},
			&ir.Container{Kind: ir.KindClass, Name: "Own", Extends: "Base", Members: []*ir.Member{
				{Kind: ir.KindMethod, Name: "run", Result: "Own"},
			}},
		},
	})

	c, _ := table.ContainerByName("C")
	m, complete := table.ResolveInstance(c, "run", index.NeedRead)
	require.True(t, complete)
	require.NotNil(t, m)
	assert.Equal(t, "bool", m.Result, "the last applied mixin wins over earlier mixins and the base")

	m, _ = table.ResolveInstance(c, "baseOnly", index.NeedRead)
	require.NotNil(t, m)
	assert.Equal(t, "Base.baseOnly", table.SymbolName(m))

	own, _ := table.ContainerByName("Own")
	m, _ = table.ResolveInstance(own, "run", index.NeedRead)
	require.NotNil(t, m)
	assert.Equal(t, "Own", m.Result, "own declarations shadow everything inherited")
}

func TestGetterSetterPairResolvesByNeed(t *testing.T) {
	t.Parallel()

	table := buildOne(t, &ir.Unit{
		Name: "lib",
		Decls: []ir.Decl{
			&ir.Container{Kind: ir.KindClass, Name: "C", Members: []*ir.Member{
				{Kind: ir.KindGetter, Name: "view", Result: "int"},
				{Kind: ir.KindSetter, Name: "view", Annotations: []string{"debugAssert"}},
			}},
		},
	})

	c, _ := table.ContainerByName("C")
	get, _ := table.ResolveInstance(c, "view", index.NeedRead)
	set, _ := table.ResolveInstance(c, "view", index.NeedWrite)
	require.NotNil(t, get)
	require.NotNil(t, set)
	assert.Equal(t, ir.KindGetter, get.Kind)
	assert.Equal(t, ir.KindSetter, set.Kind)
	assert.False(t, get.Marked)
	assert.True(t, set.Marked)
}

func TestExtensionResolution(t *testing.T) {
	t.Parallel()

	table := buildOne(t, &ir.Unit{
		Name: "lib",
		Decls: []ir.Decl{
			&ir.Container{Kind: ir.KindExtension, Name: "IntDebug", OnType: "int", Annotations: []string{"debugAssert"}, Members: []*ir.Member{
				{Kind: ir.KindMethod, Name: "dbg", Result: "int"},
			}},
		},
	})

	m := table.ResolveExtension("int", "dbg", index.NeedRead)
	require.NotNil(t, m)
	assert.Equal(t, "IntDebug.dbg", table.SymbolName(m))
	assert.Nil(t, table.ResolveExtension("double", "dbg", index.NeedRead))
}
