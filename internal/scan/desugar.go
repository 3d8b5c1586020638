package scan

// The desugaring table maps surface operator syntax to the operator symbol
// declared on the receiver's type. The table is closed: operators outside
// it resolve to no symbol and only their operands are scanned.
var (
	binaryOperators = map[string]string{
		"+": "+",
	}
	prefixOperators = map[string]string{
		"~": "~",
	}
)

// indexOperator is the symbol indexing expressions desugar to, for both
// the read and the write half of a compound index assignment.
const indexOperator = "[]"
