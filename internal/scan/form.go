package scan

// AccessForm classifies how a reference site touches its symbol. A
// compound assignment produces two accesses (a read-shaped and a
// write-shaped one), each checked independently.
type AccessForm int

const (
	FormRead AccessForm = iota
	FormWrite
	FormCall
	FormNullRead
	FormCascadeCall
	FormCascadeRead
	FormCascadeWrite
	FormOperator
	FormIndexRead
	FormIndexWrite
)

// verb is the past-tense phrase used in violation messages.
func (f AccessForm) verb() string {
	switch f {
	case FormWrite:
		return "written"
	case FormCall:
		return "called"
	case FormNullRead:
		return "read through a null-aware access"
	case FormCascadeCall:
		return "called through a cascade"
	case FormCascadeRead:
		return "read through a cascade"
	case FormCascadeWrite:
		return "written through a cascade"
	case FormOperator:
		return "invoked through operator desugaring"
	case FormIndexRead:
		return "read through an index expression"
	case FormIndexWrite:
		return "written through an index expression"
	default:
		return "read"
	}
}
