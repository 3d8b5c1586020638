package ir

// Expr is implemented by all expression nodes. The set is closed: the
// scanner dispatches over these forms through an explicit type switch
// rather than any dynamic member resolution.
type Expr interface {
	isExpr()
	Position() Pos
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	isStmt()
}

// Ident references a name. With Type set it is a local binding (parameter
// or local variable) of that static type; with Type empty it references a
// top-level symbol or a container by name.
type Ident struct {
	Pos  Pos
	Name string
	Type string
}

// Access is a member access a.b, or a?.b when NullAware is set. Wrapping an
// Access in a Call makes it a call-form access; a bare Access used as a
// value is a bound reference and resolves identically.
type Access struct {
	Pos       Pos
	Recv      Expr
	Name      string
	NullAware bool
}

// StaticRef is a Container.member access: static members, enum values, and
// the synthesized enum values accessor. It resolves against the declaring
// container regardless of any receiver instance.
type StaticRef struct {
	Pos       Pos
	Container string
	Name      string
}

// Assign writes to Target. Op is "=" for a plain assignment; a compound op
// such as "+=" makes the assignment both a read and a write of the target.
type Assign struct {
	Pos    Pos
	Target Expr
	Op     string
	Value  Expr
}

// Call invokes Fun with Args.
type Call struct {
	Pos  Pos
	Fun  Expr
	Args []Expr
}

// Cascade is a cascade chain a..b()..c = d: every element accesses the
// same receiver, whose static type is resolved once and shared.
type Cascade struct {
	Pos   Pos
	Recv  Expr
	Elems []CascadeElem
}

// CascadeElem is one element of a cascade chain.
type CascadeElem interface {
	isCascadeElem()
	Position() Pos
}

// CascadeCall is a ..name(args) cascade element.
type CascadeCall struct {
	Pos  Pos
	Name string
	Args []Expr
}

// CascadeSet is a ..name = value (or compound ..name += value) cascade
// element.
type CascadeSet struct {
	Pos   Pos
	Name  string
	Op    string
	Value Expr
}

// Binary is an infix operator application x <op> y. Ops covered by the
// desugaring table resolve to the operator member declared on x's type.
type Binary struct {
	Pos Pos
	Op  string
	X   Expr
	Y   Expr
}

// Unary is a prefix operator application <op> x.
type Unary struct {
	Pos Pos
	Op  string
	X   Expr
}

// Index is an indexing access recv[arg], desugaring to the [] operator on
// the receiver's type.
type Index struct {
	Pos  Pos
	Recv Expr
	Arg  Expr
}

// Closure is a function literal. A zero-parameter bool-returning closure
// invoked immediately as the direct argument of a gating construct opens a
// debug-gated region.
type Closure struct {
	Pos    Pos
	Params []Param
	Result string
	Body   []Stmt
}

// Param is a closure parameter with its static type.
type Param struct {
	Name string
	Type string
}

// Lit is an opaque literal of a known static type. It references no
// declared symbol.
type Lit struct {
	Pos  Pos
	Type string
}

func (*Ident) isExpr()     {}
func (*Access) isExpr()    {}
func (*StaticRef) isExpr() {}
func (*Assign) isExpr()    {}
func (*Call) isExpr()      {}
func (*Cascade) isExpr()   {}
func (*Binary) isExpr()    {}
func (*Unary) isExpr()     {}
func (*Index) isExpr()     {}
func (*Closure) isExpr()   {}
func (*Lit) isExpr()       {}

func (e *Ident) Position() Pos     { return e.Pos }
func (e *Access) Position() Pos    { return e.Pos }
func (e *StaticRef) Position() Pos { return e.Pos }
func (e *Assign) Position() Pos    { return e.Pos }
func (e *Call) Position() Pos      { return e.Pos }
func (e *Cascade) Position() Pos   { return e.Pos }
func (e *Binary) Position() Pos    { return e.Pos }
func (e *Unary) Position() Pos     { return e.Pos }
func (e *Index) Position() Pos     { return e.Pos }
func (e *Closure) Position() Pos   { return e.Pos }
func (e *Lit) Position() Pos       { return e.Pos }

func (*CascadeCall) isCascadeElem() {}
func (*CascadeSet) isCascadeElem()  {}

func (e *CascadeCall) Position() Pos { return e.Pos }
func (e *CascadeSet) Position() Pos  { return e.Pos }

// ExprStmt evaluates an expression for effect.
type ExprStmt struct {
	E Expr
}

// VarStmt declares a local variable. The scanner only cares about the
// initializer; idents referencing the variable carry their own type.
type VarStmt struct {
	Pos  Pos
	Name string
	Type string
	Init Expr
}

// Return returns from the enclosing function. E may be nil.
type Return struct {
	Pos Pos
	E   Expr
}

// If is a conditional statement. Else may be empty.
type If struct {
	Pos  Pos
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (*ExprStmt) isStmt() {}
func (*VarStmt) isStmt()  {}
func (*Return) isStmt()   {}
func (*If) isStmt()       {}
