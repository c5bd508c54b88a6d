package cc

import (
	"loomc/src/hir"
	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Converter holds the state closure conversion needs across a whole compilation unit: a Name
// source for the env parameters and lifted-closure scaffolding it invents. A Converter must not
// be shared between compilations running concurrently; see package name's Interner.
type Converter struct {
	in *name.Interner
}

// ---------------------
// ----- functions -----
// ---------------------

// New returns a Converter that mints fresh names from in.
func New(in *name.Interner) *Converter {
	return &Converter{in: in}
}

// ConvertRoot closure-converts every definition in root. The result's Lambda nodes have all
// become LambdaCC; Apply sites that applied a (formerly) Lambda-valued expression have become
// ApplyCC. Lambda lifting (package lift) consumes exactly this shape.
func (c *Converter) ConvertRoot(root hir.Root) hir.Root {
	out := hir.Root{Defs: make([]hir.Def, len(root.Defs))}
	for i, d := range root.Defs {
		out.Defs[i] = c.convertDef(d)
	}
	return out
}

func (c *Converter) convertDef(d hir.Def) hir.Def {
	switch d.Kind {
	case hir.DefVar:
		if d.Init != nil {
			v := c.convertExp(*d.Init)
			d.Init = &v
		}
	case hir.DefFun:
		d.Body = c.convertStms(d.Body)
	}
	return d
}

func (c *Converter) convertStms(stms []hir.Stm) []hir.Stm {
	out := make([]hir.Stm, len(stms))
	for i, s := range stms {
		out[i] = c.convertStm(s)
	}
	return out
}

func (c *Converter) convertStm(s hir.Stm) hir.Stm {
	switch s.Kind {
	case hir.StmIfElse:
		cond := c.convertExp(*s.Cond)
		s.Cond = &cond
		s.Then, s.Else = c.convertStms(s.Then), c.convertStms(s.Else)
	case hir.StmIfThen:
		cond := c.convertExp(*s.Cond)
		s.Cond = &cond
		s.Then = c.convertStms(s.Then)
	case hir.StmWhile:
		cond := c.convertExp(*s.Cond)
		s.Cond = &cond
		s.Body = c.convertStms(s.Body)
	case hir.StmReturn:
		if s.Val != nil {
			v := c.convertExp(*s.Val)
			s.Val = &v
		}
	case hir.StmBlock:
		s.Stms = c.convertStms(s.Stms)
	case hir.StmEval:
		v := c.convertExp(*s.Exp)
		s.Exp = &v
	case hir.StmAssign:
		v := c.convertExp(*s.Rhs)
		s.Rhs = &v
	case hir.StmArrayAssign:
		a, i, r := c.convertExp(*s.AArray), c.convertExp(*s.AIndex), c.convertExp(*s.ARhs)
		s.AArray, s.AIndex, s.ARhs = &a, &i, &r
	case hir.StmStructAssign:
		st, r := c.convertExp(*s.SStruct), c.convertExp(*s.SRhs)
		s.SStruct, s.SRhs = &st, &r
	}
	return s
}

// convertExp is the homomorphic closure-conversion pass: every case but ExpLambda and ExpApply
// simply recurses into its children. ExpApply is only special in that its Closure operand, once
// converted, evaluates to a closure record rather than a bare function pointer, so the node
// becomes ApplyCC; no other rewriting happens there (package lift does the rest).
func (c *Converter) convertExp(e hir.Exp) hir.Exp {
	switch e.Kind {
	case hir.ExpNewArray:
		l := c.convertExp(*e.Len)
		e.Len = &l
		return e
	case hir.ExpArrayLit:
		e.Elems = c.convertExps(e.Elems)
		return e
	case hir.ExpArrayLoad:
		a, i := c.convertExp(*e.Array), c.convertExp(*e.Index)
		e.Array, e.Index = &a, &i
		return e
	case hir.ExpArrayLength:
		a := c.convertExp(*e.Array)
		e.Array = &a
		return e
	case hir.ExpLit, hir.ExpVar, hir.ExpGlobal, hir.ExpFunction:
		return e
	case hir.ExpCall:
		e.Args = c.convertExps(e.Args)
		return e
	case hir.ExpBinary:
		l, r := c.convertExp(*e.Left), c.convertExp(*e.Right)
		e.Left, e.Right = &l, &r
		return e
	case hir.ExpUnary:
		o := c.convertExp(*e.Operand)
		e.Operand = &o
		return e
	case hir.ExpSeq:
		e.Exps = c.convertExps(e.Exps)
		return e
	case hir.ExpLet:
		newBindings := make([]hir.Field, len(e.Bindings))
		for i, b := range e.Bindings {
			newBindings[i] = hir.Field{Param: b.Param, Exp: c.convertExp(b.Exp)}
		}
		body := c.convertExp(*e.Body)
		e.Bindings, e.Body = newBindings, &body
		return e
	case hir.ExpApply:
		closure := c.convertExp(*e.Closure)
		args := c.convertExps(e.Args)
		return hir.ApplyCC(closure, args, e.Typ)
	case hir.ExpStructLit:
		fields := make([]hir.Field, len(e.StructFields))
		for i, f := range e.StructFields {
			fields[i] = hir.Field{Param: f.Param, Exp: c.convertExp(f.Exp)}
		}
		e.StructFields = fields
		return e
	case hir.ExpStructLoad:
		st := c.convertExp(*e.Struct)
		e.Struct = &st
		return e
	case hir.ExpBox, hir.ExpUnbox, hir.ExpCast:
		in := c.convertExp(*e.Inner)
		e.Inner = &in
		return e
	case hir.ExpLambda:
		return c.convertLambda(e)
	default:
		return e
	}
}

func (c *Converter) convertExps(es []hir.Exp) []hir.Exp {
	out := make([]hir.Exp, len(es))
	for i, e := range es {
		out[i] = c.convertExp(e)
	}
	return out
}

// convertLambda is the heart of closure conversion. captured is the lambda's free variables, computed
// on the UNCONVERTED node (Lambda's params are already excluded by FV). Every captured variable
// is boxed in the environment regardless of its real type — see the design note on typed
// environments; this sacrifices one load+unbox of indirection per capture in exchange for a
// single, uniform environment layout that every call site can agree on without a dedicated
// per-closure external type.
func (c *Converter) convertLambda(e hir.Exp) hir.Exp {
	captured := hir.FV(e).Slice()

	env := c.in.Fresh("env")
	envFields := make([]hir.Param, len(captured))
	s := make(Subst, len(captured))
	for i, v := range captured {
		envFields[i] = hir.Param{Name: v, Type: hir.Type{Kind: hir.BoxT}}
		vt, ok := findVarType(*e.Body, v)
		if !ok {
			vt = hir.Type{Kind: hir.BoxT}
		}
		loaded := hir.StructLoad(hir.Var(env, internalEnvType(envFields)), v, hir.Type{Kind: hir.BoxT})
		s[v] = hir.Unbox(loaded, vt)
	}
	internalEnv := internalEnvType(envFields)

	body := c.convertExp(*e.Body)
	body = substExp(body, s)

	lam := hir.LambdaCC(e.Params, env, internalEnv, body, e.Typ)

	envValueFields := make([]hir.Field, len(captured))
	for i, v := range captured {
		vt, ok := findVarType(*e.Body, v)
		if !ok {
			vt = hir.Type{Kind: hir.BoxT}
		}
		envValueFields[i] = hir.Field{
			Param: hir.Param{Name: v, Type: hir.Type{Kind: hir.BoxT}},
			Exp:   hir.Box(hir.Var(v, vt)),
		}
	}
	envValue := hir.Cast(hir.ExternalEnvType(), hir.StructLit(envValueFields, internalEnv))

	funName := c.in.New("fun")
	envName := c.in.New("env")
	closureTy := closureType(funName, envName, lam.Typ)
	closureFields := []hir.Field{
		{Param: closureTy.Fields[0], Exp: lam},
		{Param: closureTy.Fields[1], Exp: envValue},
	}
	return hir.StructLit(closureFields, closureTy)
}

func internalEnvType(fields []hir.Param) hir.Type {
	return hir.StructT(fields)
}

// closureType is the struct type of a closure record: a function pointer typed to accept the
// erased external environment, paired with that erased environment value itself. fun and env are
// the field names the matching StructLit (and every later StructLoad of this closure) uses.
func closureType(fun, env name.Name, lambdaType hir.Type) hir.Type {
	funType := lambdaType
	if lambdaType.Kind == hir.Fun {
		args := append(append([]hir.Type{}, lambdaType.Args...), hir.ExternalEnvType())
		funType = hir.FunT(*lambdaType.Ret, args)
	}
	return hir.StructT([]hir.Param{
		{Name: fun, Type: funType},
		{Name: env, Type: hir.ExternalEnvType()},
	})
}

// findVarType searches e for an occurrence of an ExpVar bound to target and returns its
// recorded type. Every well-formed HIR tree records the same type at every occurrence of a given
// Name (see the HIR consistency invariant), so the first occurrence found is authoritative.
func findVarType(e hir.Exp, target name.Name) (hir.Type, bool) {
	if e.Kind == hir.ExpVar && e.Name.Equal(target) {
		return e.Typ, true
	}
	for _, child := range expChildren(e) {
		if t, ok := findVarType(child, target); ok {
			return t, true
		}
	}
	return hir.Type{}, false
}

// expChildren returns the immediate Exp children of e, for generic tree walks like findVarType
// that don't need per-case semantics.
func expChildren(e hir.Exp) []hir.Exp {
	var out []hir.Exp
	deref := func(p *hir.Exp) {
		if p != nil {
			out = append(out, *p)
		}
	}
	deref(e.Len)
	out = append(out, e.Elems...)
	deref(e.Array)
	deref(e.Index)
	out = append(out, e.Args...)
	deref(e.Left)
	deref(e.Right)
	deref(e.Operand)
	out = append(out, e.Exps...)
	for _, b := range e.Bindings {
		out = append(out, b.Exp)
	}
	deref(e.Body)
	deref(e.Closure)
	for _, f := range e.StructFields {
		out = append(out, f.Exp)
	}
	deref(e.Struct)
	deref(e.Inner)
	return out
}
