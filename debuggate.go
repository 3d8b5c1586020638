// Package debuggate checks a "debug-only API" discipline over parsed
// source units: declarations carrying the debug-only marker may be
// referenced only from inside a debug-gated region, the literal
// immediately-invoked bool-returning closure argument of the gating
// construct.
//
// The checker is a library. A front end hands it already-parsed ir.Unit
// trees plus a marker predicate; it returns an ordered list of findings.
// File discovery and report formatting belong to the caller.
package debuggate

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/debuggate/debuggate/findings"
	"github.com/debuggate/debuggate/internal/gate"
	"github.com/debuggate/debuggate/internal/index"
	"github.com/debuggate/debuggate/internal/propagate"
	"github.com/debuggate/debuggate/internal/scan"
	"github.com/debuggate/debuggate/ir"
)

// Check runs the whole analysis over the given units and returns the
// sorted, deduplicated finding list. The run is an atomic batch: on
// cancellation it returns ctx.Err() and no findings. The result is
// independent of the order units are passed in.
func Check(ctx context.Context, units []*ir.Unit, opts ...Option) ([]findings.Finding, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Phase 1: index every unit on its own worker. The propagation pass
	// needs the complete cross-unit table, so this is a full barrier.
	unitTables := make([]*index.UnitTable, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			unitTables[i] = index.BuildUnit(u, index.Marker(cfg.marker))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in unit-name order so the arena layout, and with it every
	// downstream ID, is independent of submission order.
	sort.SliceStable(unitTables, func(i, j int) bool {
		return unitTables[i].Unit < unitTables[j].Unit
	})
	table := index.Merge(unitTables)

	// Phase 2: propagation is global and serial.
	all := append(table.Findings, propagate.Resolve(table)...)

	// Phase 3: scan every unit on its own worker against the now
	// read-only table.
	classifier := gate.NewClassifier(cfg.gates)
	perUnit := make([][]findings.Finding, len(units))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perUnit[i] = scan.Unit(u, table, classifier)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fs := range perUnit {
		all = append(all, fs...)
	}
	findings.Sort(all)
	return findings.Dedupe(all), nil
}
