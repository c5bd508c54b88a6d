// Package name provides the interned, globally unique identifier used by every dialect of the
// intermediate representation. A Name compares and hashes in O(1) because it carries its own
// integer identity; the string it was built from is kept only for diagnostics and rendering.
package name

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Name is an interned identifier. Two Names are the same binding if and only if their id fields
// are equal; the text and synth fields exist purely for printing.
type Name struct {
	id     uint64
	text   string
	synth  bool // true if this Name was produced by Fresh rather than New.
}

// Interner hands out Names for a single compilation. Interner.New with the same string always
// returns the same Name within one Interner; Interner.Fresh never repeats. The spec requires the
// freshness counter to be monotonic within a compilation and instanced per compilation rather
// than a process-wide singleton, so Interner carries its own state and must not be shared
// between concurrently running compilations.
type Interner struct {
	byText map[string]Name
	next   uint64
}

// ---------------------
// ----- functions -----
// ---------------------

// NewInterner returns an empty Interner ready to mint Names for one compilation.
func NewInterner() *Interner {
	return &Interner{byText: make(map[string]Name, 64)}
}

// New returns the Name for s, minting it on first use and returning the cached Name on every
// subsequent call with the same string.
func (in *Interner) New(s string) Name {
	if n, ok := in.byText[s]; ok {
		return n
	}
	n := Name{id: in.next, text: s}
	in.next++
	in.byText[s] = n
	return n
}

// Fresh returns a Name guaranteed not to equal any Name previously produced by this Interner.
// prefix is used only when rendering the Name; it plays no role in equality.
func (in *Interner) Fresh(prefix string) Name {
	n := Name{id: in.next, text: prefix, synth: true}
	in.next++
	return n
}

// String renders a fresh Name as "prefix.N" and a named Name as its original text.
func (n Name) String() string {
	if n.synth {
		return fmt.Sprintf("%s.%d", n.text, n.id)
	}
	return n.text
}

// Equal reports whether n and o refer to the same binding.
func (n Name) Equal(o Name) bool {
	return n.id == o.id
}

// ID returns the interned identity of n, suitable for use as a map key where Name itself
// (which is already comparable) would be less explicit about what is being compared.
func (n Name) ID() uint64 {
	return n.id
}
