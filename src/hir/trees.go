package hir

import "loomc/src/name"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// LitKind discriminates the literal forms an Exp may carry directly.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
)

// Lit is a constant value attached to an ExpLit node.
type Lit struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Type  Type
}

// ExpKind discriminates the cases of Exp. The set mirrors the front end's expression grammar
// after type checking: every node already carries the Type it produces.
type ExpKind int

const (
	ExpNewArray ExpKind = iota
	ExpArrayLit
	ExpArrayLoad
	ExpArrayLength
	ExpLit
	ExpCall
	ExpVar
	ExpGlobal
	ExpFunction
	ExpBinary
	ExpUnary
	ExpSeq
	ExpLet
	ExpLambda
	ExpApply
	ExpStructLit
	ExpStructLoad
	ExpBox
	ExpUnbox
	ExpCast

	// ExpLambdaCC and ExpApplyCC belong to the HIR/CC dialect that package cc produces: a Root
	// containing either is, by construction, one that closure conversion has already visited.
	// ExpLambda and ExpApply never appear in such a tree, and ExpLambdaCC/ExpApplyCC never
	// appear before closure conversion runs.
	ExpLambdaCC
	ExpApplyCC
)

// Field pairs a field Param with the expression initializing it, used by StructLit.
type Field struct {
	Param Param
	Exp   Exp
}

// Exp is the tagged union of HIR expression nodes. As with Type, only the fields relevant to Kind
// are meaningful; Exp is immutable once built and safe to share by value.
type Exp struct {
	Kind Kind2
	Typ  Type

	// ExpNewArray: Len is the element count; the element type is Typ.Elem.
	Len *Exp

	// ExpArrayLit: Elems are the initial contents.
	Elems []Exp

	// ExpArrayLoad, ExpArrayLength: Array is the array-valued operand.
	Array *Exp
	// ExpArrayLoad: Index is the element index.
	Index *Exp

	// ExpLit.
	LitVal *Lit

	// ExpCall: Fun names the callee (by Name, monomorphic — no indirection), Args the actuals.
	Fun  name.Name
	Args []Exp

	// ExpVar, ExpGlobal, ExpFunction: Name identifies the binding.
	Name name.Name

	// ExpBinary, ExpUnary: Op plus operands. The taxonomy itself lives in package lir; at the
	// HIR level operators are named informally by source-level spelling, carried as a string,
	// since HIR has not yet been lowered to the monomorphic LIR taxonomy.
	Op          string
	Left, Right *Exp // Binary
	Operand     *Exp // Unary

	// ExpSeq: Exps evaluated in order, value is that of the last.
	Exps []Exp

	// ExpLet: Bindings are evaluated in parallel (none sees any other's binding; see FV), then
	// Body is evaluated with all of them in scope.
	Bindings []Field
	Body     *Exp

	// ExpLambda: Params and Body of the closure; Lambda nodes do not survive past package lift.
	Params []Param

	// ExpApply: Closure is the callee value and Args the actuals. Before closure conversion runs,
	// Closure evaluates to a function value; package lift rewrites every call through a closure
	// record into an ExpApply whose Closure is the bare, already-projected function value instead,
	// with the record's env field appended as a trailing actual argument.
	Closure *Exp

	// ExpStructLit: Fields give the struct's contents.
	StructFields []Field

	// ExpStructLoad: Struct is the struct-valued operand, FieldName the field to project.
	Struct    *Exp
	FieldName name.Name

	// ExpBox, ExpUnbox, ExpCast: Inner is the operand; Cast also uses Typ as the target type.
	Inner *Exp

	// ExpLambdaCC: like ExpLambda, but Body has already had every captured variable substituted
	// for a StructLoad off EnvParam, and EnvType gives EnvParam's true, fully-typed layout (as
	// opposed to the erased ExternalEnvType every caller sees). Params excludes the env.
	EnvParam name.Name
	EnvType  Type

	// ExpApplyCC: shares Closure and Args with ExpApply. Closure evaluates to a closure record
	// (a two-field struct: fun, env) rather than to a bare function value.
}

// Kind2 is Exp's discriminant. Named Kind2 to avoid shadowing Type's Kind field when both are
// embedded in debugging output; callers normally just write hir.ExpLit etc.
type Kind2 = ExpKind

// ---------------------
// ----- constructors -----
// ---------------------

func Var(n name.Name, t Type) Exp    { return Exp{Kind: ExpVar, Typ: t, Name: n} }
func Global(n name.Name, t Type) Exp { return Exp{Kind: ExpGlobal, Typ: t, Name: n} }
func Function(n name.Name, t Type) Exp {
	return Exp{Kind: ExpFunction, Typ: t, Name: n}
}
func IntLit(v int64, t Type) Exp {
	return Exp{Kind: ExpLit, Typ: t, LitVal: &Lit{Kind: LitInt, Int: v, Type: t}}
}
func Let(bindings []Field, body Exp) Exp {
	return Exp{Kind: ExpLet, Typ: body.Typ, Bindings: bindings, Body: &body}
}
func Lambda(params []Param, body Exp, t Type) Exp {
	return Exp{Kind: ExpLambda, Typ: t, Params: params, Body: &body}
}
func Apply(closure Exp, args []Exp, result Type) Exp {
	return Exp{Kind: ExpApply, Typ: result, Closure: &closure, Args: args}
}
func StructLit(fields []Field, t Type) Exp {
	return Exp{Kind: ExpStructLit, Typ: t, StructFields: fields}
}
func StructLoad(s Exp, field name.Name, t Type) Exp {
	return Exp{Kind: ExpStructLoad, Typ: t, Struct: &s, FieldName: field}
}
func Cast(t Type, inner Exp) Exp {
	return Exp{Kind: ExpCast, Typ: t, Inner: &inner}
}
func Box(inner Exp) Exp {
	return Exp{Kind: ExpBox, Typ: Type{Kind: BoxT}, Inner: &inner}
}
func Unbox(inner Exp, t Type) Exp {
	return Exp{Kind: ExpUnbox, Typ: t, Inner: &inner}
}

// LambdaCC builds a closure-converted lambda: body must already be closed with respect to
// params plus envParam (see package cc).
func LambdaCC(params []Param, envParam name.Name, envType Type, body Exp, t Type) Exp {
	return Exp{Kind: ExpLambdaCC, Typ: t, Params: params, EnvParam: envParam, EnvType: envType, Body: &body}
}

// ApplyCC applies a closure record (not a bare function) to args.
func ApplyCC(closure Exp, args []Exp, result Type) Exp {
	return Exp{Kind: ExpApplyCC, Typ: result, Closure: &closure, Args: args}
}

// ---------------------
// ----- StmKind -----
// ---------------------

// StmKind discriminates the cases of Stm, HIR's statement-level node.
type StmKind int

const (
	StmIfElse StmKind = iota
	StmIfThen
	StmWhile
	StmReturn
	StmBlock
	StmEval
	StmAssign
	StmArrayAssign
	StmStructAssign
)

// Stm is the tagged union of HIR statement nodes.
type Stm struct {
	Kind StmKind

	// StmIfElse, StmIfThen, StmWhile: Cond plus branches/body.
	Cond       *Exp
	Then, Else []Stm
	Body       []Stm

	// StmReturn: Val is nil for a bare return.
	Val *Exp

	// StmBlock: Stms in sequence, own no new scope beyond what its Stms introduce individually.
	Stms []Stm

	// StmEval: Exp evaluated for effect, value discarded.
	Exp *Exp

	// StmAssign: Lhs := Rhs.
	Lhs  name.Name
	Rhs  *Exp

	// StmArrayAssign: Array[Index] := Rhs.
	AArray *Exp
	AIndex *Exp
	ARhs   *Exp

	// StmStructAssign: Struct.Field := Rhs.
	SStruct *Exp
	SField  name.Name
	SRhs    *Exp
}

// ---------------------
// ----- Def / Root -----
// ---------------------

// DefKind discriminates the cases of Def, a top-level declaration.
type DefKind int

const (
	DefVar DefKind = iota
	DefFun
	DefExtern
)

// Def is a top-level declaration: a global variable, a defined function, or an external
// function signature supplied by the runtime/linker.
type Def struct {
	Kind DefKind
	Name name.Name
	Type Type

	// DefVar: Init is the initial value.
	Init *Exp

	// DefFun: Params and Body. Body is a statement block; the functional core (Let, Lambda,
	// Apply, ...) appears inside it wherever an Exp is expected (Return values, Assign
	// right-hand sides, and so on).
	Params []Param
	Body   []Stm

	// DefExtern carries no body; Type.(Fun) gives its signature.
}

// Root is a whole compilation unit: the ordered list of top-level declarations a front end
// produced. Lambda lifting consumes a Root and returns one with Defs containing no Lambda nodes.
type Root struct {
	Defs []Def
}
