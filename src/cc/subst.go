// Package cc implements closure conversion: the rewrite that turns a HIR tree containing Lambda
// and Apply nodes into the HIR/CC dialect (LambdaCC/ApplyCC), where every lambda's free variables
// have been made explicit as loads out of a struct environment passed alongside the function
// pointer. Converted trees no longer close over their defining scope by the host language's own
// means; everything a lifted function needs arrives through its parameter list.
package cc

import (
	"loomc/src/hir"
	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Subst maps a Name to the HIR/CC expression that should replace every free occurrence of it.
// Closure conversion builds one Subst per lambda, mapping each captured variable to a StructLoad
// off that lambda's environment parameter.
type Subst map[name.Name]hir.Exp

// ---------------------
// ----- functions -----
// ---------------------

// clone returns a shallow copy of s, safe to mutate (by deleting entries for newly bound names)
// without affecting the caller's map.
func (s Subst) clone() Subst {
	out := make(Subst, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (s Subst) without(ns ...name.Name) Subst {
	if len(s) == 0 {
		return s
	}
	out := s.clone()
	for _, n := range ns {
		delete(out, n)
	}
	return out
}

// substExp applies s to e, respecting binders: a Let's bindings and a Lambda/LambdaCC's
// parameters (plus, for LambdaCC, its env parameter) shadow s for whatever they scope over. Let
// is parallel, exactly as in FV: a binding's own initializer is substituted under the OUTER s,
// never the narrowed one, since it cannot see names Let itself introduces.
func substExp(e hir.Exp, s Subst) hir.Exp {
	if len(s) == 0 {
		return e
	}
	switch e.Kind {
	case hir.ExpVar:
		if repl, ok := s[e.Name]; ok {
			return repl
		}
		return e
	case hir.ExpNewArray:
		l := substExp(*e.Len, s)
		e.Len = &l
		return e
	case hir.ExpArrayLit:
		e.Elems = substExps(e.Elems, s)
		return e
	case hir.ExpArrayLoad:
		a, i := substExp(*e.Array, s), substExp(*e.Index, s)
		e.Array, e.Index = &a, &i
		return e
	case hir.ExpArrayLength:
		a := substExp(*e.Array, s)
		e.Array = &a
		return e
	case hir.ExpLit, hir.ExpGlobal, hir.ExpFunction:
		return e
	case hir.ExpCall:
		e.Args = substExps(e.Args, s)
		return e
	case hir.ExpBinary:
		l, r := substExp(*e.Left, s), substExp(*e.Right, s)
		e.Left, e.Right = &l, &r
		return e
	case hir.ExpUnary:
		o := substExp(*e.Operand, s)
		e.Operand = &o
		return e
	case hir.ExpSeq:
		e.Exps = substExps(e.Exps, s)
		return e
	case hir.ExpLet:
		bound := make([]name.Name, len(e.Bindings))
		newBindings := make([]hir.Field, len(e.Bindings))
		for i, b := range e.Bindings {
			bound[i] = b.Param.Name
			newBindings[i] = hir.Field{Param: b.Param, Exp: substExp(b.Exp, s)}
		}
		body := substExp(*e.Body, s.without(bound...))
		e.Bindings, e.Body = newBindings, &body
		return e
	case hir.ExpLambda:
		bound := make([]name.Name, len(e.Params))
		for i, p := range e.Params {
			bound[i] = p.Name
		}
		body := substExp(*e.Body, s.without(bound...))
		e.Body = &body
		return e
	case hir.ExpLambdaCC:
		bound := make([]name.Name, len(e.Params)+1)
		for i, p := range e.Params {
			bound[i] = p.Name
		}
		bound[len(e.Params)] = e.EnvParam
		body := substExp(*e.Body, s.without(bound...))
		e.Body = &body
		return e
	case hir.ExpApply, hir.ExpApplyCC:
		c := substExp(*e.Closure, s)
		e.Closure = &c
		e.Args = substExps(e.Args, s)
		return e
	case hir.ExpStructLit:
		fields := make([]hir.Field, len(e.StructFields))
		for i, f := range e.StructFields {
			fields[i] = hir.Field{Param: f.Param, Exp: substExp(f.Exp, s)}
		}
		e.StructFields = fields
		return e
	case hir.ExpStructLoad:
		st := substExp(*e.Struct, s)
		e.Struct = &st
		return e
	case hir.ExpBox, hir.ExpUnbox, hir.ExpCast:
		in := substExp(*e.Inner, s)
		e.Inner = &in
		return e
	default:
		return e
	}
}

func substExps(es []hir.Exp, s Subst) []hir.Exp {
	out := make([]hir.Exp, len(es))
	for i, e := range es {
		out[i] = substExp(e, s)
	}
	return out
}

// substStm applies s to every Exp reachable from stm.
func substStm(stm hir.Stm, s Subst) hir.Stm {
	if len(s) == 0 {
		return stm
	}
	switch stm.Kind {
	case hir.StmIfElse:
		c := substExp(*stm.Cond, s)
		stm.Cond = &c
		stm.Then, stm.Else = substStms(stm.Then, s), substStms(stm.Else, s)
	case hir.StmIfThen:
		c := substExp(*stm.Cond, s)
		stm.Cond = &c
		stm.Then = substStms(stm.Then, s)
	case hir.StmWhile:
		c := substExp(*stm.Cond, s)
		stm.Cond = &c
		stm.Body = substStms(stm.Body, s)
	case hir.StmReturn:
		if stm.Val != nil {
			v := substExp(*stm.Val, s)
			stm.Val = &v
		}
	case hir.StmBlock:
		stm.Stms = substStms(stm.Stms, s)
	case hir.StmEval:
		v := substExp(*stm.Exp, s)
		stm.Exp = &v
	case hir.StmAssign:
		v := substExp(*stm.Rhs, s)
		stm.Rhs = &v
	case hir.StmArrayAssign:
		a, i, r := substExp(*stm.AArray, s), substExp(*stm.AIndex, s), substExp(*stm.ARhs, s)
		stm.AArray, stm.AIndex, stm.ARhs = &a, &i, &r
	case hir.StmStructAssign:
		st, r := substExp(*stm.SStruct, s), substExp(*stm.SRhs, s)
		stm.SStruct, stm.SRhs = &st, &r
	}
	return stm
}

func substStms(stms []hir.Stm, s Subst) []hir.Stm {
	out := make([]hir.Stm, len(stms))
	for i, stm := range stms {
		out[i] = substStm(stm, s)
	}
	return out
}
