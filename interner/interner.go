// Package interner maps identifier text to small integer handles.
package interner

import "fmt"

// Handle identifies an interned string. Handles are assigned in allocation
// order starting at 0 and are never reused.
type Handle uint32

// Interner is an append-only table of identifier names. Identical text is
// always given the same handle, so every use of a label name resolves to the
// same symbol.
type Interner struct {
	names  []string
	byName map[string]Handle
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{byName: map[string]Handle{}}
}

// Intern returns the handle for text, allocating a new one on first use.
func (in *Interner) Intern(text string) Handle {
	if h, ok := in.byName[text]; ok {
		return h
	}
	h := Handle(len(in.names))
	in.names = append(in.names, text)
	in.byName[text] = h
	return h
}

// Lookup returns the handle for text without allocating one.
func (in *Interner) Lookup(text string) (Handle, bool) {
	h, ok := in.byName[text]
	return h, ok
}

// Resolve returns the text for a handle issued by this Interner. Resolving a
// handle from anywhere else is a programming error and panics.
func (in *Interner) Resolve(h Handle) string {
	if int(h) >= len(in.names) {
		panic(fmt.Sprintf("interner: unknown handle %d", h))
	}
	return in.names[h]
}

// Len returns the number of distinct names.
func (in *Interner) Len() int {
	return len(in.names)
}

// Names returns the interned names indexed by handle.
func (in *Interner) Names() []string {
	out := make([]string, len(in.names))
	copy(out, in.names)
	return out
}
