package lir

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Bop is the closed taxonomy of binary operators LIR can express. Every entry maps to exactly
// one native SSA instruction or exactly one intrinsic call; there is no polymorphic or
// virtually-dispatched operator. An entry with no corresponding emission in package codegen/llvm
// is a deliberately unsupported one (see that package's UnsupportedOperator cases), not a gap to
// be filled by a fallback path.
type Bop int

const (
	Add_i32 Bop = iota
	Add_i64
	Sub_i32
	Sub_i64
	Mul_i32
	Mul_i64
	SDiv_i32
	SDiv_i64
	UDiv_i32
	UDiv_i64
	SRem_i32
	SRem_i64
	URem_i32
	URem_i64

	Add_word
	Sub_word
	Mul_word

	Add_f32
	Add_f64
	Sub_f32
	Sub_f64
	Mul_f32
	Mul_f64
	Div_f32
	Div_f64
	Rem_f32
	Rem_f64

	And_i32
	And_i64
	Or_i32
	Or_i64
	Xor_i32
	Xor_i64
	Shl_i32
	Shl_i64
	LShr_i32
	LShr_i64
	AShr_i32
	AShr_i64

	Rotl_i32
	Rotl_i64
	Rotr_i32
	Rotr_i64

	Eq_i32
	Ne_i32
	Slt_i32
	Sle_i32
	Sgt_i32
	Sge_i32
	Ult_i32
	Ule_i32
	Ugt_i32
	Uge_i32
	Eq_i64
	Ne_i64
	Slt_i64
	Sle_i64
	Sgt_i64
	Sge_i64
	Ult_i64
	Ule_i64
	Ugt_i64
	Uge_i64

	Oeq_f32
	One_f32
	Olt_f32
	Ole_f32
	Ogt_f32
	Oge_f32
	Oeq_f64
	One_f64
	Olt_f64
	Ole_f64
	Ogt_f64
	Oge_f64

	Min_f32
	Min_f64
	Max_f32
	Max_f64
	Copysign_f32
	Copysign_f64

	And_z
	Or_z

	Atan2_f32
	Atan2_f64
)

var bopNames = [...]string{
	"add.i32", "add.i64", "sub.i32", "sub.i64", "mul.i32", "mul.i64",
	"sdiv.i32", "sdiv.i64", "udiv.i32", "udiv.i64", "srem.i32", "srem.i64", "urem.i32", "urem.i64",
	"add.word", "sub.word", "mul.word",
	"add.f32", "add.f64", "sub.f32", "sub.f64", "mul.f32", "mul.f64", "div.f32", "div.f64", "rem.f32", "rem.f64",
	"and.i32", "and.i64", "or.i32", "or.i64", "xor.i32", "xor.i64",
	"shl.i32", "shl.i64", "lshr.i32", "lshr.i64", "ashr.i32", "ashr.i64",
	"rotl.i32", "rotl.i64", "rotr.i32", "rotr.i64",
	"eq.i32", "ne.i32", "slt.i32", "sle.i32", "sgt.i32", "sge.i32", "ult.i32", "ule.i32", "ugt.i32", "uge.i32",
	"eq.i64", "ne.i64", "slt.i64", "sle.i64", "sgt.i64", "sge.i64", "ult.i64", "ule.i64", "ugt.i64", "uge.i64",
	"oeq.f32", "one.f32", "olt.f32", "ole.f32", "ogt.f32", "oge.f32",
	"oeq.f64", "one.f64", "olt.f64", "ole.f64", "ogt.f64", "oge.f64",
	"min.f32", "min.f64", "max.f32", "max.f64", "copysign.f32", "copysign.f64",
	"and.z", "or.z",
	"atan2.f32", "atan2.f64",
}

func (b Bop) String() string {
	if b < 0 || int(b) >= len(bopNames) {
		return fmt.Sprintf("Bop(%d)", int(b))
	}
	return bopNames[b]
}

// Uop is the closed taxonomy of unary operators.
type Uop int

const (
	Neg_i32 Uop = iota
	Neg_i64
	Not_i32
	Not_i64
	FNeg_f32
	FNeg_f64

	Sqrt_f32
	Sqrt_f64
	Sin_f32
	Sin_f64
	Cos_f32
	Cos_f64
	Tan_f32
	Tan_f64
	Asin_f32
	Asin_f64
	Acos_f32
	Acos_f64
	Atan_f32
	Atan_f64
	Sinh_f32
	Sinh_f64
	Cosh_f32
	Cosh_f64
	Tanh_f32
	Tanh_f64
	Exp_f32
	Exp_f64
	Log_f32
	Log_f64
	Log2_f32
	Log2_f64
	Log10_f32
	Log10_f64
	Pow_f32
	Pow_f64
	Logb_f32
	Logb_f64
	Abs_f32
	Abs_f64
	Ceil_f32
	Ceil_f64
	Floor_f32
	Floor_f64
	Nearest_f32
	Nearest_f64
	Not_z
	Eqz_i1

	IsNan_f32
	IsNan_f64
	IsInf_f32
	IsInf_f64
	IsDenormalized_f32
	IsDenormalized_f64
	IsNegativeZero_f32
	IsNegativeZero_f64
	IsIEEE_f32
	IsIEEE_f64

	Trunc_i64_i32
	Sext_i32_i64
	Zext_i32_i64
	Demote_f64_f32
	Promote_f32_f64
	FPToSI_f32_i32
	FPToSI_f64_i64
	FPToUI_f32_i32
	FPToUI_f64_i64
	SIToFP_i32_f32
	SIToFP_i64_f64
	UIToFP_i32_f32
	UIToFP_i64_f64
	Bitcast_i32_f32
	Bitcast_f32_i32
	Bitcast_i64_f64
	Bitcast_f64_i64
)

var uopNames = [...]string{
	"neg.i32", "neg.i64", "not.i32", "not.i64", "fneg.f32", "fneg.f64",
	"sqrt.f32", "sqrt.f64", "sin.f32", "sin.f64", "cos.f32", "cos.f64", "tan.f32", "tan.f64",
	"asin.f32", "asin.f64", "acos.f32", "acos.f64", "atan.f32", "atan.f64",
	"sinh.f32", "sinh.f64", "cosh.f32", "cosh.f64", "tanh.f32", "tanh.f64",
	"exp.f32", "exp.f64", "log.f32", "log.f64", "log2.f32", "log2.f64", "log10.f32", "log10.f64",
	"pow.f32", "pow.f64", "logb.f32", "logb.f64",
	"abs.f32", "abs.f64", "ceil.f32", "ceil.f64", "floor.f32", "floor.f64", "nearest.f32", "nearest.f64", "not.z", "eqz.i1",
	"isnan.f32", "isnan.f64", "isinf.f32", "isinf.f64",
	"isdenormalized.f32", "isdenormalized.f64", "isnegativezero.f32", "isnegativezero.f64",
	"isieee.f32", "isieee.f64",
	"trunc.i64.i32", "sext.i32.i64", "zext.i32.i64", "demote.f64.f32", "promote.f32.f64",
	"fptosi.f32.i32", "fptosi.f64.i64", "fptoui.f32.i32", "fptoui.f64.i64",
	"sitofp.i32.f32", "sitofp.i64.f64", "uitofp.i32.f32", "uitofp.i64.f64",
	"bitcast.i32.f32", "bitcast.f32.i32", "bitcast.i64.f64", "bitcast.f64.i64",
}

func (u Uop) String() string {
	if u < 0 || int(u) >= len(uopNames) {
		return fmt.Sprintf("Uop(%d)", int(u))
	}
	return uopNames[u]
}

// Unsupported lists the Uop entries package codegen/llvm deliberately declines to emit: every
// trigonometric and classification intrinsic the reference LLVM target has no single-instruction
// or well-known-intrinsic mapping for. A compilation hitting one of these fails with
// UnsupportedOperator rather than silently degrading to a software-emulated sequence.
var Unsupported = map[Uop]bool{
	Asin_f32: true, Asin_f64: true,
	Acos_f32: true, Acos_f64: true,
	Atan_f32: true, Atan_f64: true,
	Sinh_f32: true, Sinh_f64: true,
	Cosh_f32: true, Cosh_f64: true,
	Tanh_f32: true, Tanh_f64: true,
	Logb_f32: true, Logb_f64: true,
	IsNan_f32: true, IsNan_f64: true,
	IsInf_f32: true, IsInf_f64: true,
	IsDenormalized_f32: true, IsDenormalized_f64: true,
	IsNegativeZero_f32: true, IsNegativeZero_f64: true,
	IsIEEE_f32: true, IsIEEE_f64: true,
}

// UnsupportedBop is Bop's analogue of Unsupported: atan2 has no single-instruction or
// well-known-intrinsic LLVM mapping either.
var UnsupportedBop = map[Bop]bool{
	Atan2_f32: true,
	Atan2_f64: true,
}
