package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loomc/src/hir"
	"loomc/src/name"
)

func TestConvertLambda_NoCaptures(t *testing.T) {
	in := name.NewInterner()
	c := New(in)

	x := in.New("x")
	body := hir.Var(x, hir.Type{Kind: hir.I32})
	lam := hir.Lambda([]hir.Param{{Name: x, Type: hir.Type{Kind: hir.I32}}}, body,
		hir.FunT(hir.Type{Kind: hir.I32}, []hir.Type{{Kind: hir.I32}}))

	converted := c.convertExp(lam)
	require.Equal(t, hir.ExpStructLit, converted.Kind)
	require.Len(t, converted.StructFields, 2)

	lamCC := converted.StructFields[0].Exp
	require.Equal(t, hir.ExpLambdaCC, lamCC.Kind)
	assert.Equal(t, 0, hir.FV(lamCC).Len())
}

func TestConvertLambda_OneCapture(t *testing.T) {
	in := name.NewInterner()
	c := New(in)

	y := in.New("y")
	x := in.New("x")
	body := hir.Exp{
		Kind: hir.ExpBinary, Typ: hir.Type{Kind: hir.I32}, Op: "+",
		Left:  ref(hir.Var(x, hir.Type{Kind: hir.I32})),
		Right: ref(hir.Var(y, hir.Type{Kind: hir.I32})),
	}
	lam := hir.Lambda([]hir.Param{{Name: x, Type: hir.Type{Kind: hir.I32}}}, body,
		hir.FunT(hir.Type{Kind: hir.I32}, []hir.Type{{Kind: hir.I32}}))

	converted := c.convertExp(lam)
	require.Equal(t, hir.ExpStructLit, converted.Kind)

	lamCC := converted.StructFields[0].Exp
	require.Equal(t, hir.ExpLambdaCC, lamCC.Kind)

	// y no longer appears as a free Var: every reference to it now routes through the env.
	assert.False(t, hir.FV(lamCC).Has(y))

	envVal := converted.StructFields[1].Exp
	require.Equal(t, hir.ExpCast, envVal.Kind)
	require.Equal(t, hir.ExpStructLit, envVal.Inner.Kind)
	require.Len(t, envVal.Inner.StructFields, 1)
	assert.True(t, envVal.Inner.StructFields[0].Param.Name.Equal(y))
}

func ref(e hir.Exp) *hir.Exp { return &e }
