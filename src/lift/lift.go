// Package lift implements lambda lifting: given a HIR/CC tree (package cc's output, containing
// LambdaCC and ApplyCC nodes but no ordinary Lambda/Apply), it hoists every LambdaCC to a fresh
// top-level function definition and rewrites every ApplyCC into a direct call through a closure
// record's fun/env fields. The result is an ordinary HIR tree containing neither Lambda nor
// LambdaCC: every function in it is already top-level.
package lift

import (
	"loomc/src/hir"
	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Lifter accumulates the function definitions lambda lifting invents while walking a Root, plus
// the Name source needed to mint them. Like cc.Converter, a Lifter is single-compilation state
// and must not be shared across concurrently running compilations.
type Lifter struct {
	in    *name.Interner
	decls []hir.Def
}

// ---------------------
// ----- functions -----
// ---------------------

// New returns a Lifter that mints fresh names from in.
func New(in *name.Interner) *Lifter {
	return &Lifter{in: in}
}

// LiftRoot lifts every definition in root and appends the functions it hoisted out of lambdas to
// the end of the returned Root's Defs, in the order their lifting finished: a lambda nested inside
// another is appended before the lambda that encloses it.
func (l *Lifter) LiftRoot(root hir.Root) hir.Root {
	defs := make([]hir.Def, len(root.Defs))
	for i, d := range root.Defs {
		defs[i] = l.liftDef(d)
	}
	return hir.Root{Defs: append(defs, l.decls...)}
}

func (l *Lifter) liftDef(d hir.Def) hir.Def {
	switch d.Kind {
	case hir.DefVar:
		if d.Init != nil {
			v := l.liftExp(*d.Init)
			d.Init = &v
		}
	case hir.DefFun:
		d.Body = l.liftStms(d.Body)
	}
	return d
}

func (l *Lifter) liftStms(stms []hir.Stm) []hir.Stm {
	out := make([]hir.Stm, len(stms))
	for i, s := range stms {
		out[i] = l.liftStm(s)
	}
	return out
}

func (l *Lifter) liftStm(s hir.Stm) hir.Stm {
	switch s.Kind {
	case hir.StmIfElse:
		c := l.liftExp(*s.Cond)
		s.Cond = &c
		s.Then, s.Else = l.liftStms(s.Then), l.liftStms(s.Else)
	case hir.StmIfThen:
		c := l.liftExp(*s.Cond)
		s.Cond = &c
		s.Then = l.liftStms(s.Then)
	case hir.StmWhile:
		c := l.liftExp(*s.Cond)
		s.Cond = &c
		s.Body = l.liftStms(s.Body)
	case hir.StmReturn:
		if s.Val != nil {
			v := l.liftExp(*s.Val)
			s.Val = &v
		}
	case hir.StmBlock:
		s.Stms = l.liftStms(s.Stms)
	case hir.StmEval:
		v := l.liftExp(*s.Exp)
		s.Exp = &v
	case hir.StmAssign:
		v := l.liftExp(*s.Rhs)
		s.Rhs = &v
	case hir.StmArrayAssign:
		a, i, r := l.liftExp(*s.AArray), l.liftExp(*s.AIndex), l.liftExp(*s.ARhs)
		s.AArray, s.AIndex, s.ARhs = &a, &i, &r
	case hir.StmStructAssign:
		st, r := l.liftExp(*s.SStruct), l.liftExp(*s.SRhs)
		s.SStruct, s.SRhs = &st, &r
	}
	return s
}

// liftExp is the homomorphic lambda-lifting pass; ExpLambdaCC and ExpApplyCC are its only two
// interesting cases.
func (l *Lifter) liftExp(e hir.Exp) hir.Exp {
	switch e.Kind {
	case hir.ExpNewArray:
		ln := l.liftExp(*e.Len)
		e.Len = &ln
		return e
	case hir.ExpArrayLit:
		e.Elems = l.liftExps(e.Elems)
		return e
	case hir.ExpArrayLoad:
		a, i := l.liftExp(*e.Array), l.liftExp(*e.Index)
		e.Array, e.Index = &a, &i
		return e
	case hir.ExpArrayLength:
		a := l.liftExp(*e.Array)
		e.Array = &a
		return e
	case hir.ExpLit, hir.ExpVar, hir.ExpGlobal, hir.ExpFunction:
		return e
	case hir.ExpCall:
		e.Args = l.liftExps(e.Args)
		return e
	case hir.ExpBinary:
		left, right := l.liftExp(*e.Left), l.liftExp(*e.Right)
		e.Left, e.Right = &left, &right
		return e
	case hir.ExpUnary:
		o := l.liftExp(*e.Operand)
		e.Operand = &o
		return e
	case hir.ExpSeq:
		e.Exps = l.liftExps(e.Exps)
		return e
	case hir.ExpLet:
		newBindings := make([]hir.Field, len(e.Bindings))
		for i, b := range e.Bindings {
			newBindings[i] = hir.Field{Param: b.Param, Exp: l.liftExp(b.Exp)}
		}
		body := l.liftExp(*e.Body)
		e.Bindings, e.Body = newBindings, &body
		return e
	case hir.ExpStructLit:
		fields := make([]hir.Field, len(e.StructFields))
		for i, f := range e.StructFields {
			fields[i] = hir.Field{Param: f.Param, Exp: l.liftExp(f.Exp)}
		}
		e.StructFields = fields
		return e
	case hir.ExpStructLoad:
		st := l.liftExp(*e.Struct)
		e.Struct = &st
		return e
	case hir.ExpBox, hir.ExpUnbox, hir.ExpCast:
		in := l.liftExp(*e.Inner)
		e.Inner = &in
		return e
	case hir.ExpLambdaCC:
		return l.liftLambda(e)
	case hir.ExpApplyCC:
		return l.liftApply(e)
	default:
		return e
	}
}

func (l *Lifter) liftExps(es []hir.Exp) []hir.Exp {
	out := make([]hir.Exp, len(es))
	for i, e := range es {
		out[i] = l.liftExp(e)
	}
	return out
}

// liftLambda hoists e (an ExpLambdaCC) to a fresh top-level FunDef taking an extra, trailing,
// erased-environment parameter, and returns a reference to that function in place of the lambda.
// The hoisted function's first action is to recover its typed environment by casting the erased
// parameter back to the internal struct layout closure conversion built for it; every StructLoad
// that conversion wrote into the body already expects exactly that cast-back value under
// e.EnvParam's name.
func (l *Lifter) liftLambda(e hir.Exp) hir.Exp {
	body := l.liftExp(*e.Body)

	f := l.in.Fresh("lambda")
	envPtr := l.in.Fresh("env.ptr")

	argTypes := make([]hir.Type, len(e.Params)+1)
	defParams := make([]hir.Param, len(e.Params)+1)
	for i, p := range e.Params {
		argTypes[i] = p.Type
		defParams[i] = p
	}
	argTypes[len(e.Params)] = hir.ExternalEnvType()
	defParams[len(e.Params)] = hir.Param{Name: envPtr, Type: hir.ExternalEnvType()}

	retType := e.Typ // e.Typ is the lambda's own Fun(ret,args) type; the hoisted def's return
	if retType.Kind == hir.Fun {
		retType = *retType.Ret
	}
	funType := hir.FunT(retType, argTypes)

	envRebind := hir.Cast(e.EnvType, hir.Var(envPtr, hir.ExternalEnvType()))
	wrapped := hir.Let([]hir.Field{{Param: hir.Param{Name: e.EnvParam, Type: e.EnvType}, Exp: envRebind}}, body)

	l.decls = append(l.decls, hir.Def{
		Kind:   hir.DefFun,
		Name:   f,
		Type:   funType,
		Params: defParams,
		Body:   []hir.Stm{{Kind: hir.StmReturn, Val: &wrapped}},
	})

	return hir.Function(f, funType)
}

// liftApply rewrites e (an ExpApplyCC) into a direct call: the closure value is bound once so a
// closure expression with side effects is not evaluated twice, then called through its own fun
// field with the env field appended to the argument list.
func (l *Lifter) liftApply(e hir.Exp) hir.Exp {
	closure := l.liftExp(*e.Closure)
	args := l.liftExps(e.Args)

	closureTmp := l.in.Fresh("closure")
	closureVar := hir.Var(closureTmp, closure.Typ)

	funName := l.in.New("fun")
	envName := l.in.New("env")
	var funType, envType hir.Type
	if closure.Typ.Kind == hir.Struct {
		for _, f := range closure.Typ.Fields {
			switch {
			case f.Name.Equal(funName):
				funType = f.Type
			case f.Name.Equal(envName):
				envType = f.Type
			}
		}
	}

	funVal := hir.StructLoad(closureVar, funName, funType)
	envVal := hir.StructLoad(closureVar, envName, envType)
	call := hir.Apply(funVal, append(append([]hir.Exp{}, args...), envVal), e.Typ)

	return hir.Let([]hir.Field{{Param: hir.Param{Name: closureTmp, Type: closure.Typ}, Exp: closure}}, call)
}
