package lir

import (
	"fmt"

	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// TempDecl names one Temp a procedure's entry block must allocate stack storage for, paired with
// its single, consistent Type.
type TempDecl struct {
	Name name.Name
	Type Type
}

// ---------------------
// ----- functions -----
// ---------------------

// TempsOf walks every Stm in proc.Body and returns the (name, type) pair for each distinct Temp
// it assigns, in first-encountered order -- mirroring the reference backend's pre-pass that
// allocates one stack slot per temp before emitting any instruction, so later loads and stores
// never have to reason about whether a slot already exists. A Temp named consistently at two
// different Types is a structural defect in the input, reported as IllFormedIR rather than
// silently picking one.
func TempsOf(proc Proc) ([]TempDecl, error) {
	seen := make(map[name.Name]Type)
	var order []name.Name

	record := func(n name.Name, t Type) error {
		if prior, ok := seen[n]; ok {
			if !prior.Equal(t) {
				return fmt.Errorf("temp %s assigned at both %s and %s", n, prior, t)
			}
			return nil
		}
		seen[n] = t
		order = append(order, n)
		return nil
	}

	isParam := make(map[name.Name]bool, len(proc.Params))
	for _, p := range proc.Params {
		isParam[p] = true
	}

	for _, s := range proc.Body {
		switch s.Kind {
		case SMove:
			if err := record(s.Dst, s.Src.Type); err != nil {
				return nil, err
			}
		case SLoad:
			if err := record(s.Dst, derefType(s.Src.Type)); err != nil {
				return nil, err
			}
		case SCall:
			if s.DstValid {
				if err := record(s.Dst, retType(s.Fn.Type)); err != nil {
					return nil, err
				}
			}
		case SBinary:
			if err := record(s.Dst, resultType(s.BOp, s.Left.Type)); err != nil {
				return nil, err
			}
		case SUnary:
			if err := record(s.Dst, s.Operand.Type); err != nil {
				return nil, err
			}
		case SCast:
			t := s.Src.Type
			switch s.CastOp {
			case Trunc_i64_i32, FPToSI_f32_i32, FPToUI_f32_i32, Bitcast_f32_i32:
				t = Type{Kind: I32}
			case Sext_i32_i64, Zext_i32_i64, FPToSI_f64_i64, FPToUI_f64_i64, Bitcast_f64_i64:
				t = Type{Kind: I64}
			case Demote_f64_f32, SIToFP_i32_f32, UIToFP_i32_f32, Bitcast_i32_f32:
				t = Type{Kind: F32}
			case Promote_f32_f64, SIToFP_i64_f64, UIToFP_i64_f64, Bitcast_i64_f64:
				t = Type{Kind: F64}
			}
			if err := record(s.Dst, t); err != nil {
				return nil, err
			}
		case SGetStructElementAddr:
			if s.Base.Type.Kind == Ptr && s.Base.Type.Elem.Kind == Struct {
				if err := record(s.Dst, PtrT(s.Base.Type.Elem.Flds[s.Field])); err != nil {
					return nil, err
				}
			}
		case SGetArrayElementAddr:
			if s.Base.Type.Kind == Ptr && s.Base.Type.Elem.Kind == Array {
				if err := record(s.Dst, PtrT(*s.Base.Type.Elem.Elem)); err != nil {
					return nil, err
				}
			}
		case SGetArrayLengthAddr:
			if err := record(s.Dst, PtrT(Type{Kind: Word})); err != nil {
				return nil, err
			}
		}
	}

	out := make([]TempDecl, 0, len(order))
	for _, n := range order {
		if isParam[n] {
			continue
		}
		out = append(out, TempDecl{Name: n, Type: seen[n]})
	}
	return out, nil
}

func derefType(t Type) Type {
	if t.Kind == Ptr {
		return *t.Elem
	}
	return t
}

func retType(t Type) Type {
	if t.Kind == Fun {
		return *t.Ret
	}
	return t
}

// resultType returns the type a binary operator's result carries: the same as its operands for
// every arithmetic/bitwise entry in Bop, but always i1 for a comparison, regardless of operand
// width.
func resultType(op Bop, operandType Type) Type {
	if isComparison(op) {
		return Type{Kind: I1}
	}
	return operandType
}

func isComparison(op Bop) bool {
	return op >= Eq_i32 && op <= Oge_f64
}

// IsTerminator reports whether s ends a basic block: no fall-through successor exists once one
// of these has executed.
func IsTerminator(s Stm) bool {
	switch s.Kind {
	case SJump, SCJump, SRet:
		return true
	default:
		return false
	}
}
