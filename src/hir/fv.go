package hir

import (
	"github.com/benbjohnson/immutable"

	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// nameHasher adapts name.Name to immutable.Hasher so free-variable sets can be backed by a
// persistent hash set instead of copying a map at every union, which is what an ordinary
// map[name.Name]struct{} union would require.
type nameHasher struct{}

func (nameHasher) Hash(n name.Name) uint32 {
	id := n.ID()
	return uint32(id) ^ uint32(id>>32)
}

func (nameHasher) Equal(a, b name.Name) bool { return a.Equal(b) }

// FVSet is an immutable set of Names, the result of a free-variable computation. Union adds the
// other set's members into a persistent set that shares structure with its receiver, so neither
// operand is copied, which matters because FV is computed bottom-up over every Let and Lambda in
// a tree during closure conversion.
type FVSet struct {
	s *immutable.Set[name.Name]
}

// ---------------------
// ----- functions -----
// ---------------------

// EmptyFVSet is the free-variable set of a closed expression.
func EmptyFVSet() FVSet {
	return FVSet{s: immutable.NewSet[name.Name](nameHasher{})}
}

func singletonFVSet(n name.Name) FVSet {
	s := immutable.NewSet[name.Name](nameHasher{})
	return FVSet{s: s.Add(n)}
}

// Has reports whether n is a member of fv.
func (fv FVSet) Has(n name.Name) bool {
	if fv.s == nil {
		return false
	}
	return fv.s.Has(n)
}

// Union returns the set union of fv and o, sharing structure with both where possible.
func (fv FVSet) Union(o FVSet) FVSet {
	if fv.s == nil {
		return o
	}
	if o.s == nil {
		return fv
	}
	result := fv.s
	itr := o.s.Iterator()
	for !itr.Done() {
		n := itr.Next()
		result = result.Add(n)
	}
	return FVSet{s: result}
}

// Remove returns fv with n removed, if present.
func (fv FVSet) Remove(n name.Name) FVSet {
	if fv.s == nil {
		return fv
	}
	return FVSet{s: fv.s.Delete(n)}
}

// RemoveAll returns fv with every Name in ns removed.
func (fv FVSet) RemoveAll(ns []name.Name) FVSet {
	result := fv
	for _, n := range ns {
		result = result.Remove(n)
	}
	return result
}

// Slice returns the members of fv in unspecified order, for callers that need to range over it
// (e.g. to build an environment struct's field list).
func (fv FVSet) Slice() []name.Name {
	if fv.s == nil {
		return nil
	}
	out := make([]name.Name, 0, fv.s.Len())
	itr := fv.s.Iterator()
	for !itr.Done() {
		n := itr.Next()
		out = append(out, n)
	}
	return out
}

// Len returns the number of members of fv.
func (fv FVSet) Len() int {
	if fv.s == nil {
		return 0
	}
	return fv.s.Len()
}

func unionAll(sets ...FVSet) FVSet {
	result := EmptyFVSet()
	for _, s := range sets {
		result = result.Union(s)
	}
	return result
}

// FV computes the free variables of e. The one non-obvious equation is ExpLet: a binding's
// initializer is evaluated in the scope BEFORE that binding takes effect, so Let's bindings are
// parallel, not recursive (no binding's right-hand side can see any of the names Let introduces,
// including its own) — mirrored exactly in package cc's substExp and in closure conversion's
// environment construction.
func FV(e Exp) FVSet {
	switch e.Kind {
	case ExpNewArray:
		return FV(*e.Len)
	case ExpArrayLit:
		result := EmptyFVSet()
		for _, el := range e.Elems {
			result = result.Union(FV(el))
		}
		return result
	case ExpArrayLoad:
		return FV(*e.Array).Union(FV(*e.Index))
	case ExpArrayLength:
		return FV(*e.Array)
	case ExpLit:
		return EmptyFVSet()
	case ExpCall:
		// e.Fun names a top-level function, which, like ExpFunction below, is never captured.
		result := EmptyFVSet()
		for _, a := range e.Args {
			result = result.Union(FV(a))
		}
		return result
	case ExpVar:
		return singletonFVSet(e.Name)
	case ExpGlobal, ExpFunction:
		// Globals and top-level functions are not captured by closures: they need no
		// environment slot because every lifted function can reference them directly.
		return EmptyFVSet()
	case ExpBinary:
		return FV(*e.Left).Union(FV(*e.Right))
	case ExpUnary:
		return FV(*e.Operand)
	case ExpSeq:
		result := EmptyFVSet()
		for _, el := range e.Exps {
			result = result.Union(FV(el))
		}
		return result
	case ExpLet:
		result := EmptyFVSet()
		for _, b := range e.Bindings {
			result = result.Union(FV(b.Exp))
		}
		bound := make([]name.Name, len(e.Bindings))
		for i, b := range e.Bindings {
			bound[i] = b.Param.Name
		}
		return result.Union(FV(*e.Body).RemoveAll(bound))
	case ExpLambda:
		bound := make([]name.Name, len(e.Params))
		for i, p := range e.Params {
			bound[i] = p.Name
		}
		return FV(*e.Body).RemoveAll(bound)
	case ExpApply, ExpApplyCC:
		result := FV(*e.Closure)
		for _, a := range e.Args {
			result = result.Union(FV(a))
		}
		return result
	case ExpLambdaCC:
		bound := make([]name.Name, len(e.Params)+1)
		for i, p := range e.Params {
			bound[i] = p.Name
		}
		bound[len(e.Params)] = e.EnvParam
		return FV(*e.Body).RemoveAll(bound)
	case ExpStructLit:
		result := EmptyFVSet()
		for _, f := range e.StructFields {
			result = result.Union(FV(f.Exp))
		}
		return result
	case ExpStructLoad:
		return FV(*e.Struct)
	case ExpBox, ExpUnbox, ExpCast:
		return FV(*e.Inner)
	default:
		return EmptyFVSet()
	}
}

// FVStm computes the free variables of a statement sequence, in the same sense as FV for
// expressions. Assign's free variables include its own lhs Name, since assignment reads the
// binding's storage location as well as writing it — an assigned-to variable that is otherwise
// unused in a function body is still a use of that variable, and closure conversion must capture
// it for the assignment to observably affect the outer binding.
func FVStm(s Stm) FVSet {
	switch s.Kind {
	case StmIfElse:
		return unionAll(FV(*s.Cond), FVStms(s.Then), FVStms(s.Else))
	case StmIfThen:
		return unionAll(FV(*s.Cond), FVStms(s.Then))
	case StmWhile:
		return unionAll(FV(*s.Cond), FVStms(s.Body))
	case StmReturn:
		if s.Val == nil {
			return EmptyFVSet()
		}
		return FV(*s.Val)
	case StmBlock:
		return FVStms(s.Stms)
	case StmEval:
		return FV(*s.Exp)
	case StmAssign:
		return singletonFVSet(s.Lhs).Union(FV(*s.Rhs))
	case StmArrayAssign:
		return unionAll(FV(*s.AArray), FV(*s.AIndex), FV(*s.ARhs))
	case StmStructAssign:
		return unionAll(FV(*s.SStruct), FV(*s.SRhs))
	default:
		return EmptyFVSet()
	}
}

// FVStms is FVStm folded (unioned) over a statement sequence.
func FVStms(stms []Stm) FVSet {
	result := EmptyFVSet()
	for _, s := range stms {
		result = result.Union(FVStm(s))
	}
	return result
}
