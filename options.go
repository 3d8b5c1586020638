package debuggate

import "runtime"

// DefaultMarker is the annotation name recognized as the debug-only
// marker when no option overrides it.
const DefaultMarker = "debugAssert"

// DefaultGate is the gating construct recognized when no option overrides
// it.
const DefaultGate = "assert"

type config struct {
	marker      func(string) bool
	gates       []string
	parallelism int
}

func defaultConfig() config {
	return config{
		marker:      func(a string) bool { return a == DefaultMarker },
		gates:       []string{DefaultGate},
		parallelism: runtime.GOMAXPROCS(0),
	}
}

// Option configures a Check run.
type Option func(*config)

// WithMarker recognizes the given annotation name as the debug-only
// marker instead of DefaultMarker.
func WithMarker(name string) Option {
	return func(c *config) {
		c.marker = func(a string) bool { return a == name }
	}
}

// WithMarkerPredicate installs an arbitrary predicate over annotation
// strings. The front end decides what an annotation string looks like;
// the checker only asks the predicate.
func WithMarkerPredicate(pred func(annotation string) bool) Option {
	return func(c *config) {
		if pred != nil {
			c.marker = pred
		}
	}
}

// WithGateFunctions replaces the set of gating construct names. Only the
// literal immediately-invoked bool closure argument of these opens a
// debug-gated region.
func WithGateFunctions(names ...string) Option {
	return func(c *config) {
		if len(names) > 0 {
			c.gates = names
		}
	}
}

// WithParallelism bounds the worker count of the parallel index and scan
// phases. Values below one fall back to a single worker.
func WithParallelism(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.parallelism = n
	}
}
