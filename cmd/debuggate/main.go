// Command debuggate checks debug-only API discipline over YAML unit files
// (or txtar bundles of them) named on the command line. It exits non-zero
// exactly when the finding list is non-empty.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/debuggate/debuggate"
	"github.com/debuggate/debuggate/ir"
	"github.com/debuggate/debuggate/unitfile"
)

var (
	marker   = flag.String("marker", debuggate.DefaultMarker, "annotation name treated as the debug-only marker")
	gates    = flag.String("gates", debuggate.DefaultGate, "comma-separated gating construct names")
	parallel = flag.Int("parallel", 0, "worker bound for the parallel phases (0 = GOMAXPROCS)")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: debuggate [flags] unit.yaml... bundle.txtar...")
		os.Exit(2)
	}

	var units []*ir.Unit
	for _, path := range flag.Args() {
		loaded, err := load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "debuggate:", err)
			os.Exit(2)
		}
		units = append(units, loaded...)
	}

	opts := []debuggate.Option{
		debuggate.WithMarker(*marker),
		debuggate.WithGateFunctions(strings.Split(*gates, ",")...),
	}
	if *parallel > 0 {
		opts = append(opts, debuggate.WithParallelism(*parallel))
	}

	fs, err := debuggate.Check(context.Background(), units, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "debuggate:", err)
		os.Exit(2)
	}

	for _, f := range fs {
		fmt.Println(f)
	}
	if len(fs) > 0 {
		os.Exit(1)
	}
}

func load(path string) ([]*ir.Unit, error) {
	if strings.HasSuffix(path, ".txtar") {
		return unitfile.LoadTxtar(path)
	}
	u, err := unitfile.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return []*ir.Unit{u}, nil
}
