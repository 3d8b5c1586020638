package ir

// Unit is a single parsed source unit. Units are independent for indexing
// and scanning; containers declared in one unit may extend or mix in
// containers declared in another.
type Unit struct {
	Name  string
	Decls []Decl
}

// Decl is implemented by all top-level declaration nodes.
type Decl interface {
	isDecl()
	Position() Pos
}

// ContainerKind discriminates the container declaration forms.
type ContainerKind int

const (
	KindClass ContainerKind = iota
	KindMixin
	KindExtension
	KindEnum
)

func (k ContainerKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMixin:
		return "mixin"
	case KindExtension:
		return "extension"
	case KindEnum:
		return "enum"
	default:
		return "container"
	}
}

// MemberKind discriminates the member declaration forms.
type MemberKind int

const (
	KindField MemberKind = iota
	KindMethod
	KindGetter
	KindSetter
	KindOperator
	KindEnumValue
)

func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindGetter:
		return "getter"
	case KindSetter:
		return "setter"
	case KindOperator:
		return "operator"
	case KindEnumValue:
		return "enum value"
	default:
		return "member"
	}
}

// Container declares a class, mixin, extension, or enum together with the
// members it declares textually. Members reached only through inheritance
// are not listed here.
type Container struct {
	Pos         Pos
	Kind        ContainerKind
	Name        string
	Annotations []string

	// Extends names the base container, if any. Only classes and enums
	// carry a base.
	Extends string

	// With lists applied mixins in application order.
	With []string

	// OnType names the extension target type. Only extensions carry one.
	OnType string

	Members []*Member
}

// Member declares a single member textually inside a container.
type Member struct {
	Pos         Pos
	Kind        MemberKind
	Name        string
	Annotations []string
	Static      bool

	// Result is the static type produced by reading or calling the member.
	// Empty when the front end did not resolve one.
	Result string

	// Params is the declared parameter count. Operators are validated
	// against it (binary + takes one, prefix ~ none, [] one).
	Params int

	// Body holds the member's statements when it has executable code.
	// Member bodies are consumer code and are scanned like any other.
	Body []Stmt
}

// Func declares a top-level function.
type Func struct {
	Pos         Pos
	Name        string
	Annotations []string
	Result      string
	Body        []Stmt
}

// Var declares a top-level variable.
type Var struct {
	Pos         Pos
	Name        string
	Annotations []string
	Type        string
	Init        Expr
}

func (*Container) isDecl() {}
func (*Func) isDecl()      {}
func (*Var) isDecl()       {}

func (d *Container) Position() Pos { return d.Pos }
func (d *Func) Position() Pos      { return d.Pos }
func (d *Var) Position() Pos       { return d.Pos }
