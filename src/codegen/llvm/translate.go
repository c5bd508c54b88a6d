// Package llvmgen lowers a lir.Root to a native SSA module through tinygo.org/x/go-llvm, the same
// cgo binding the reference backend speaks. This is the one stage in the pipeline permitted to
// reach outside the process's own data model: everything upstream of here (package hir, package
// cc, package lift, package lir) is pure, serializable Go data, and everything here is a thin,
// mechanical walk that hands that data to an external, opaque SSA builder.
package llvmgen

import (
	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"

	"loomc/src/compiler"
	"loomc/src/lir"
	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Translate drives the whole-module lowering: one llvm.Context and llvm.Module per compilation
// unit, matching the single-threaded, synchronous pass model the rest of this pipeline uses --
// deliberately not the reference backend's goroutine-per-procedure scheme, since an llvm.Context
// is not safe to share across goroutines and nothing here requires the parallelism.
type Translate struct {
	ctx     llvm.Context
	mod     llvm.Module
	builder llvm.Builder

	globals map[name.Name]llvm.Value
	funcs   map[name.Name]llvm.Value
	funcTys map[name.Name]lir.Type
}

// ---------------------
// ----- functions -----
// ---------------------

// New creates a Translate targeting a fresh module named moduleName.
func New(moduleName string) *Translate {
	ctx := llvm.NewContext()
	return &Translate{
		ctx:     ctx,
		mod:     ctx.NewModule(moduleName),
		builder: ctx.NewBuilder(),
		globals: make(map[name.Name]llvm.Value),
		funcs:   make(map[name.Name]llvm.Value),
		funcTys: make(map[name.Name]lir.Type),
	}
}

// Dispose releases the underlying LLVM context, module, and builder.
func (t *Translate) Dispose() {
	t.builder.Dispose()
	t.mod.Dispose()
	t.ctx.Dispose()
}

// Module translates root and returns the resulting llvm.Module. On error the module is left
// partially built and should not be used; the caller's compilation unit has failed.
func (t *Translate) Module(root lir.Root) (llvm.Module, error) {
	for _, g := range root.Globals {
		t.declareGlobal(g)
	}
	for _, p := range root.Procs {
		t.declareProc(p)
	}
	for _, p := range root.Procs {
		if err := t.translateProc(p); err != nil {
			return t.mod, errors.Wrapf(err, "procedure %s", p.Name)
		}
	}
	return t.mod, nil
}

func (t *Translate) declareGlobal(g lir.Global) {
	ty := t.toType(g.Type)
	gv := llvm.AddGlobal(t.mod, ty, g.Name.String())
	if g.Init != nil {
		gv.SetInitializer(t.constOf(*g.Init))
	} else {
		gv.SetInitializer(llvm.ConstNull(ty))
	}
	t.globals[g.Name] = gv
}

func (t *Translate) declareProc(p lir.Proc) {
	fnTy := t.toFuncType(p.Type)
	fn := llvm.AddFunction(t.mod, p.Name.String(), fnTy)
	t.funcs[p.Name] = fn
	t.funcTys[p.Name] = p.Type
}

// toType maps a lir.Type to its llvm.Type, exactly the reference backend's genType/to_type
// table, extended with the array-as-{length,body} struct layout package lir's ArrayLayout
// documents.
func (t *Translate) toType(ty lir.Type) llvm.Type {
	switch ty.Kind {
	case lir.I1:
		return t.ctx.Int1Type()
	case lir.I32:
		return t.ctx.Int32Type()
	case lir.I64:
		return t.ctx.Int64Type()
	case lir.F32:
		return t.ctx.FloatType()
	case lir.F64:
		return t.ctx.DoubleType()
	case lir.Word:
		return t.ctx.Int64Type()
	case lir.Void:
		return t.ctx.VoidType()
	case lir.Ptr:
		return llvm.PointerType(t.toType(*ty.Elem), 0)
	case lir.Array:
		st := t.ctx.StructCreateNamed("")
		st.StructSetBody(
			[]llvm.Type{t.ctx.Int64Type(), llvm.ArrayType(t.toType(*ty.Elem), ty.Len)}, false)
		return st
	case lir.Struct:
		fields := make([]llvm.Type, len(ty.Flds))
		for i, f := range ty.Flds {
			fields[i] = t.toType(f)
		}
		return t.ctx.StructType(fields, false)
	case lir.Fun:
		return llvm.PointerType(t.toFuncType(ty), 0)
	default:
		return t.ctx.VoidType()
	}
}

func (t *Translate) toFuncType(ty lir.Type) llvm.Type {
	args := make([]llvm.Type, len(ty.Args))
	for i, a := range ty.Args {
		args[i] = t.toType(a)
	}
	return llvm.FunctionType(t.toType(*ty.Ret), args, false)
}

func (t *Translate) constOf(l lir.Lit) llvm.Value {
	switch l.Type.Kind {
	case lir.F32, lir.F64:
		return llvm.ConstFloat(t.toType(l.Type), l.Float)
	default:
		return llvm.ConstInt(t.toType(l.Type), uint64(l.Int), true)
	}
}

// translateProc builds one procedure's body via a bodyTranslator, following the reference
// backend's genFuncBody/genFuncHeader split: declaration and definition are separate passes so
// that a call to a procedure not yet translated can still resolve against its declared signature.
func (t *Translate) translateProc(p lir.Proc) error {
	fn := t.funcs[p.Name]
	entry := llvm.AddBasicBlock(fn, "entry")
	t.builder.SetInsertPointAtEnd(entry)

	temps, err := lir.TempsOf(p)
	if err != nil {
		return compiler.Wrap(&compiler.IllFormedIR{Stage: "lir.TempsOf", Detail: err.Error()}, "translateProc")
	}

	bt := &bodyTranslator{
		t:      t,
		fn:     fn,
		labels: make(map[name.Name]llvm.BasicBlock),
		slots:  make(map[name.Name]llvm.Value),
		params: make(map[name.Name]llvm.Value),
	}
	for i, pn := range p.Params {
		v := fn.Param(i)
		bt.params[pn] = v
	}
	for _, decl := range temps {
		bt.slots[decl.Name] = t.builder.CreateAlloca(t.toType(decl.Type), decl.Name.String())
	}

	return bt.translate(p.Body)
}

// bodyTranslator holds the state needed to translate one procedure's flat statement sequence,
// mirroring the reference backend's BodyTranslator: lazily-created basic blocks per label, a
// stack slot per non-parameter temp (so that mem2reg, not this package, produces true SSA), and
// the incoming parameter values.
type bodyTranslator struct {
	t      *Translate
	fn     llvm.Value
	labels map[name.Name]llvm.BasicBlock
	slots  map[name.Name]llvm.Value
	params map[name.Name]llvm.Value
}

func (bt *bodyTranslator) blockFor(n name.Name) llvm.BasicBlock {
	if bb, ok := bt.labels[n]; ok {
		return bb
	}
	bb := llvm.AddBasicBlock(bt.fn, n.String())
	bt.labels[n] = bb
	return bb
}

// translate emits every Stm in body in order, inserting a fall-through branch whenever a label
// is encountered that was not immediately preceded by a terminator, and synthesizing an
// unreachable instruction if the procedure's last statement is not itself a terminator. A Jump or
// CJump to a label that body never declares is reported as IllFormedIR.
func (bt *bodyTranslator) translate(body []lir.Stm) error {
	lastWasTerminator := false
	declared := make(map[name.Name]bool)
	for _, s := range body {
		if s.Kind == lir.SLabel {
			declared[s.Target] = true
			bb := bt.blockFor(s.Target)
			if !lastWasTerminator {
				bt.t.builder.CreateBr(bb)
			}
			bt.t.builder.SetInsertPointAtEnd(bb)
			lastWasTerminator = false
			continue
		}
		if err := bt.translateStm(s); err != nil {
			return err
		}
		lastWasTerminator = lir.IsTerminator(s)
	}
	if !lastWasTerminator {
		bt.t.builder.CreateUnreachable()
	}
	for n := range bt.labels {
		if !declared[n] {
			return &compiler.IllFormedIR{Stage: "codegen/llvm", Detail: "jump to undeclared label " + n.String()}
		}
	}
	return nil
}

func (bt *bodyTranslator) toValue(e lir.Exp) llvm.Value {
	switch e.Kind {
	case lir.EGlobal:
		return bt.t.globals[e.Name]
	case lir.EFunction:
		return bt.t.funcs[e.Name]
	case lir.ETemp:
		if v, ok := bt.params[e.Name]; ok {
			return v
		}
		return bt.t.builder.CreateLoad(bt.t.toType(e.Type), bt.slots[e.Name], "")
	case lir.ELit:
		return bt.t.constOf(e.Lit)
	default:
		return llvm.Value{}
	}
}

// addrOf returns the stack slot backing the Temp named n, used by statements that write through a
// Temp (SMove, SLoad's destination) rather than read its current value.
func (bt *bodyTranslator) addrOf(n name.Name) llvm.Value {
	return bt.slots[n]
}

func (bt *bodyTranslator) translateStm(s lir.Stm) error {
	b := bt.t.builder
	switch s.Kind {
	case lir.SNop:
		return nil
	case lir.SJump:
		b.CreateBr(bt.blockFor(s.Target))
		return nil
	case lir.SCJump:
		b.CreateCondBr(bt.toValue(s.Cond), bt.blockFor(s.IfTrue), bt.blockFor(s.IfFalse))
		return nil
	case lir.SRet:
		if s.Val == nil {
			b.CreateRetVoid()
		} else {
			b.CreateRet(bt.toValue(*s.Val))
		}
		return nil
	case lir.SMove:
		b.CreateStore(bt.toValue(s.Src), bt.addrOf(s.Dst))
		return nil
	case lir.SLoad:
		v := b.CreateLoad(bt.t.toType(s.Src.Type).ElementType(), bt.toValue(s.Src), "")
		b.CreateStore(v, bt.addrOf(s.Dst))
		return nil
	case lir.SStore:
		b.CreateStore(bt.toValue(*s.Val), bt.toValue(s.Addr))
		return nil
	case lir.SCall:
		fnTy := bt.t.toFuncType(retFnType(s.Fn, bt.t))
		args := make([]llvm.Value, len(s.Args))
		for i, a := range s.Args {
			args[i] = bt.toValue(a)
		}
		result := b.CreateCall(fnTy, bt.toValue(s.Fn), args, "")
		if s.DstValid {
			b.CreateStore(result, bt.addrOf(s.Dst))
		}
		return nil
	case lir.SBinary:
		v, err := bt.binary(s.BOp, bt.toValue(s.Left), bt.toValue(s.Right))
		if err != nil {
			return err
		}
		b.CreateStore(v, bt.addrOf(s.Dst))
		return nil
	case lir.SUnary:
		v, err := bt.unary(s.UOp, bt.toValue(s.Operand))
		if err != nil {
			return err
		}
		b.CreateStore(v, bt.addrOf(s.Dst))
		return nil
	case lir.SCast:
		v, err := bt.unary(s.CastOp, bt.toValue(s.Src))
		if err != nil {
			return err
		}
		b.CreateStore(v, bt.addrOf(s.Dst))
		return nil
	case lir.SGetStructElementAddr:
		base := bt.toValue(s.Base)
		structTy := bt.t.toType(*s.Base.Type.Elem)
		addr := b.CreateStructGEP(structTy, base, s.Field, "")
		b.CreateStore(addr, bt.addrOf(s.Dst))
		return nil
	case lir.SGetArrayElementAddr:
		base := bt.toValue(s.Base)
		arrTy := bt.t.toType(*s.Base.Type.Elem)
		zero := llvm.ConstInt(bt.t.ctx.Int32Type(), 0, false)
		idx := bt.toValue(s.Index)
		addr := b.CreateGEP(arrTy, base, []llvm.Value{zero,
			llvm.ConstInt(bt.t.ctx.Int32Type(), uint64(lir.ArrayLayout.BodyOffset), false), idx}, "")
		b.CreateStore(addr, bt.addrOf(s.Dst))
		return nil
	case lir.SGetArrayLengthAddr:
		base := bt.toValue(s.Base)
		arrTy := bt.t.toType(*s.Base.Type.Elem)
		addr := b.CreateStructGEP(arrTy, base, lir.ArrayLayout.LengthOffset, "")
		b.CreateStore(addr, bt.addrOf(s.Dst))
		return nil
	default:
		return compiler.Internal("unhandled Stm kind %d", s.Kind)
	}
}

func retFnType(fn lir.Exp, t *Translate) lir.Type {
	if fn.Kind == lir.EFunction {
		if ty, ok := t.funcTys[fn.Name]; ok {
			return ty
		}
	}
	return fn.Type
}

// intrinsic returns (declaring if necessary) the external function for a well-known LLVM
// intrinsic name such as "llvm.sqrt.f64", resolved the same way any other external call target
// is: a name lookup against the module, falling back to declaration on first use.
func (t *Translate) intrinsic(name string, retTy llvm.Type, argTys ...llvm.Type) llvm.Value {
	if fn := t.mod.NamedFunction(name); !fn.IsNil() {
		return fn
	}
	fnTy := llvm.FunctionType(retTy, argTys, false)
	return llvm.AddFunction(t.mod, name, fnTy)
}

func (bt *bodyTranslator) callIntrinsic(name string, retTy llvm.Type, args ...llvm.Value) llvm.Value {
	argTys := make([]llvm.Type, len(args))
	for i, a := range args {
		argTys[i] = a.Type()
	}
	fn := bt.t.intrinsic(name, retTy, argTys...)
	fnTy := llvm.FunctionType(retTy, argTys, false)
	return bt.t.builder.CreateCall(fnTy, fn, args, "")
}
