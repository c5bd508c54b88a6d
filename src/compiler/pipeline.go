package compiler

import (
	"loomc/src/cc"
	"loomc/src/hir"
	"loomc/src/lift"
	"loomc/src/name"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Unit is one compilation unit's worth of pipeline state: its own Name interner, shared by
// closure conversion and lambda lifting so that field names like "fun" and "env" resolve to the
// same identity across both passes. A Unit must not be reused across, or shared between,
// concurrently running compilations -- see package name's design note on instanced interners.
type Unit struct {
	Interner *name.Interner
}

// ---------------------
// ----- functions -----
// ---------------------

// NewUnit returns a Unit ready to run one compilation through closure conversion and lambda
// lifting.
func NewUnit() *Unit {
	return &Unit{Interner: name.NewInterner()}
}

// LowerClosures runs closure conversion followed immediately by lambda lifting, returning a HIR
// tree with no Lambda, LambdaCC, or ApplyCC node anywhere in it -- every function is already
// top-level, and every former closure call is a direct call through a fun/env pair. This is
// components B through E of the pipeline; lowering the result further to LIR and on to native SSA
// (package lir, package codegen/llvm) happens downstream of here.
func (u *Unit) LowerClosures(root hir.Root) hir.Root {
	converted := cc.New(u.Interner).ConvertRoot(root)
	return lift.New(u.Interner).LiftRoot(converted)
}
