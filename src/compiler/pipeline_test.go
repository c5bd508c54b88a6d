package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loomc/src/hir"
)

// containsLambda walks e looking for any surviving Lambda, LambdaCC, or ApplyCC node -- the
// postcondition LowerClosures must establish over every definition it processes.
func containsLambda(e hir.Exp) bool {
	if e.Kind == hir.ExpLambda || e.Kind == hir.ExpLambdaCC || e.Kind == hir.ExpApplyCC {
		return true
	}
	found := false
	visit := func(child *hir.Exp) {
		if child != nil && containsLambda(*child) {
			found = true
		}
	}
	visit(e.Len)
	for _, c := range e.Elems {
		visit(&c)
	}
	visit(e.Array)
	visit(e.Index)
	for _, a := range e.Args {
		visit(&a)
	}
	visit(e.Left)
	visit(e.Right)
	visit(e.Operand)
	for _, c := range e.Exps {
		visit(&c)
	}
	for _, bd := range e.Bindings {
		visit(&bd.Exp)
	}
	visit(e.Body)
	visit(e.Closure)
	for _, f := range e.StructFields {
		visit(&f.Exp)
	}
	visit(e.Struct)
	visit(e.Inner)
	return found
}

func TestLowerClosures_EliminatesEveryLambda(t *testing.T) {
	u := NewUnit()
	in := u.Interner

	x := in.New("x")
	y := in.New("y")
	adder := hir.Lambda([]hir.Param{{Name: x, Type: hir.Type{Kind: hir.I32}}},
		hir.Exp{Kind: hir.ExpBinary, Typ: hir.Type{Kind: hir.I32}, Op: "+",
			Left: refExp(hir.Var(x, hir.Type{Kind: hir.I32})), Right: refExp(hir.Var(y, hir.Type{Kind: hir.I32}))},
		hir.FunT(hir.Type{Kind: hir.I32}, []hir.Type{{Kind: hir.I32}}))

	root := hir.Root{Defs: []hir.Def{
		{Kind: hir.DefVar, Name: in.New("y"), Type: hir.Type{Kind: hir.I32}, Init: refExp(hir.IntLit(1, hir.Type{Kind: hir.I32}))},
		{Kind: hir.DefVar, Name: in.New("adder"), Type: adder.Typ, Init: refExp(adder)},
	}}

	lowered := u.LowerClosures(root)

	require.True(t, len(lowered.Defs) > len(root.Defs), "lifting must hoist at least one new top-level function")
	for _, d := range lowered.Defs {
		if d.Init != nil {
			assert.False(t, containsLambda(*d.Init), "def %s still contains a lambda after lowering", d.Name)
		}
		for _, s := range d.Body {
			if s.Val != nil {
				assert.False(t, containsLambda(*s.Val), "def %s's body still contains a lambda after lowering", d.Name)
			}
		}
	}
}

func refExp(e hir.Exp) *hir.Exp { return &e }
