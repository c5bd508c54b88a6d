package lift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loomc/src/cc"
	"loomc/src/hir"
	"loomc/src/name"
)

// noLambda reports whether e or any of its descendants is a Lambda or LambdaCC node, the
// postcondition lambda lifting must establish.
func noLambda(e hir.Exp) bool {
	if e.Kind == hir.ExpLambda || e.Kind == hir.ExpLambdaCC || e.Kind == hir.ExpApplyCC {
		return false
	}
	ok := true
	walkExpChildren(e, func(c hir.Exp) {
		if !noLambda(c) {
			ok = false
		}
	})
	return ok
}

func walkExpChildren(e hir.Exp, f func(hir.Exp)) {
	deref := func(p *hir.Exp) {
		if p != nil {
			f(*p)
		}
	}
	deref(e.Len)
	for _, c := range e.Elems {
		f(c)
	}
	deref(e.Array)
	deref(e.Index)
	for _, a := range e.Args {
		f(a)
	}
	deref(e.Left)
	deref(e.Right)
	deref(e.Operand)
	for _, c := range e.Exps {
		f(c)
	}
	for _, b := range e.Bindings {
		f(b.Exp)
	}
	deref(e.Body)
	deref(e.Closure)
	for _, sf := range e.StructFields {
		f(sf.Exp)
	}
	deref(e.Struct)
	deref(e.Inner)
}

func TestLift_NoCaptureLambdaBecomesTopLevelFunction(t *testing.T) {
	in := name.NewInterner()
	converter := cc.New(in)
	lifter := New(in)

	x := in.New("x")
	f := in.New("f")
	body := hir.Var(x, hir.Type{Kind: hir.I32})
	lam := hir.Lambda([]hir.Param{{Name: x, Type: hir.Type{Kind: hir.I32}}}, body,
		hir.FunT(hir.Type{Kind: hir.I32}, []hir.Type{{Kind: hir.I32}}))

	root := hir.Root{Defs: []hir.Def{{
		Kind: hir.DefVar, Name: f, Type: lam.Typ, Init: ref(lam),
	}}}

	ccRoot := converter.ConvertRoot(root)
	liftedRoot := lifter.LiftRoot(ccRoot)

	require.Len(t, liftedRoot.Defs, 2, "the lambda must be hoisted to its own top-level def")
	main := liftedRoot.Defs[0]
	hoisted := liftedRoot.Defs[1]

	assert.Equal(t, hir.DefFun, hoisted.Kind)
	assert.True(t, noLambda(*main.Init))

	// The hoisted function takes one extra, trailing env parameter.
	require.Len(t, hoisted.Params, 2)
	assert.Equal(t, hir.ExternalEnvType(), hoisted.Params[1].Type)
}

func ref(e hir.Exp) *hir.Exp { return &e }
