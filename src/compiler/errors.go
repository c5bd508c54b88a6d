// Package compiler wires closure conversion and lambda lifting into one pipeline step
// (Unit.LowerClosures) and defines the error taxonomy every stage reports through. Native SSA
// emission lives in package codegen/llvm and is not driven from here. Every error this package
// exports is fatal to the compilation unit that produced it: there is no recovery path back into
// the pipeline once one is raised, only a decision by the caller to move on to the next unit.
package compiler

import (
	"fmt"

	"github.com/pkg/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// IllFormedIR reports that an input tree violated one of its dialect's structural invariants --
// a Temp assigned at two incompatible types, a jump to an undeclared label, and so on. It is
// always a bug in whatever produced the IR,
// never in the pass that detected it.
type IllFormedIR struct {
	Stage  string // the pass that detected the violation, e.g. "lir.TempsOf".
	Detail string
}

func (e *IllFormedIR) Error() string {
	return fmt.Sprintf("ill-formed IR in %s: %s", e.Stage, e.Detail)
}

// UnsupportedOperator reports that the operator taxonomy names an entry (see package lir's Bop
// and Uop) which package codegen/llvm has no emission for, by design -- not a missing case that
// should be filled in, but one the reference target genuinely cannot express as a single
// instruction or a well-known intrinsic.
type UnsupportedOperator struct {
	Op string
}

func (e *UnsupportedOperator) Error() string {
	return fmt.Sprintf("unsupported operator: %s", e.Op)
}

// Internal reports that a pass hit a code path its own invariants should have made unreachable.
// Seeing one means a bug in the pass itself, not in its input; it carries a stack trace via
// github.com/pkg/errors so the top-level driver can report where the invariant actually broke.
func Internal(format string, args ...interface{}) error {
	return errors.Errorf("internal invariant violation: "+format, args...)
}

// Wrap annotates err with a stage label while preserving its identity for errors.As, using
// github.com/pkg/errors so the original call site's stack trace survives into the driver's
// diagnostic output.
func Wrap(err error, stage string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, stage)
}
