package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loomc/src/name"
)

func TestFV_ClosedExpressionHasNoFreeVars(t *testing.T) {
	e := IntLit(42, Type{Kind: I32})
	assert.Equal(t, 0, FV(e).Len())
}

func TestFV_VarIsItsOwnFreeVariable(t *testing.T) {
	in := name.NewInterner()
	x := in.New("x")
	e := Var(x, Type{Kind: I32})

	fv := FV(e)
	assert.True(t, fv.Has(x))
	assert.Equal(t, 1, fv.Len())
}

func TestFV_LetBindingsAreParallelNotRecursive(t *testing.T) {
	// let x = x in x -- the bound x's initializer refers to an outer, still-free x; Let does
	// not bring its own name into scope for its own right-hand side.
	in := name.NewInterner()
	x := in.New("x")
	body := Var(x, Type{Kind: I32})
	e := Let([]Field{{Param: Param{Name: x, Type: Type{Kind: I32}}, Exp: Var(x, Type{Kind: I32})}}, body)

	fv := FV(e)
	assert.True(t, fv.Has(x), "x must remain free: Let's own binding does not shadow its initializer")
}

func TestFV_LambdaExcludesItsParameters(t *testing.T) {
	in := name.NewInterner()
	x := in.New("x")
	y := in.New("y")
	body := Exp{Kind: ExpBinary, Typ: Type{Kind: I32}, Op: "+",
		Left:  ref(Var(x, Type{Kind: I32})),
		Right: ref(Var(y, Type{Kind: I32})),
	}
	lam := Lambda([]Param{{Name: x, Type: Type{Kind: I32}}}, body, FunT(Type{Kind: I32}, []Type{{Kind: I32}}))

	fv := FV(lam)
	assert.False(t, fv.Has(x), "x is bound by the lambda's own parameter list")
	assert.True(t, fv.Has(y), "y is captured from the enclosing scope")
	assert.Equal(t, 1, fv.Len())
}

func TestFVStm_AssignCountsLhsAsFree(t *testing.T) {
	in := name.NewInterner()
	x := in.New("x")
	s := Stm{Kind: StmAssign, Lhs: x, Rhs: ref(IntLit(1, Type{Kind: I32}))}

	fv := FVStm(s)
	assert.True(t, fv.Has(x), "assigning to x is a use of x's storage location")
}

func ref(e Exp) *Exp { return &e }
