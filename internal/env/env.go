// Package env implements the nested-scope environment that scope
// analysis binds identifiers against. It is grounded on
// CWBudde-go-dws/internal/semantic/symbol_table.go's frame-chain Resolve
// and pass_context.go's Scope/ScopeStack, reshaped so entries live in an
// arena and are addressed by stable index: a VarSet can then be a bitset
// over entry ids instead of a map.
package env

import "github.com/cwbudde/go-minic/internal/types"

// Entry is a resolved binding: a declared name, its type, and the stack
// slot codegen assigns it. Entries are allocated once in the arena and
// never freed until the whole AST (and its Env) is dropped.
type Entry struct {
	Name string
	Type *types.Type
	ID   int

	// Slot is the frame offset in bytes below %ebp (a multiple of the
	// word size) assigned by codegen.
	// Zero until codegen runs.
	Slot int

	// Error marks a synthetic entry created for recovery after an
	// UndeclaredId diagnostic, so later phases can proceed without
	// cascading failures.
	Error bool
}

// frame maps a name to the arena index of its entry, for one lexical
// scope (block or the global scope).
type frame map[string]int

// Env is a stack of frames over a shared, append-only arena of entries.
type Env struct {
	arena  []*Entry
	frames []frame
}

// New creates an environment with a single (global) frame.
func New() *Env {
	return &Env{frames: []frame{make(frame)}}
}

// PushFrame opens a new nested scope (e.g. on Block entry).
func (e *Env) PushFrame() {
	e.frames = append(e.frames, make(frame))
}

// PopFrame discards the innermost scope (e.g. on Block exit). Popping is
// guaranteed to happen on every exit path, including error paths, by the
// caller (Block traversal wraps its recursive walk so the pop always
// runs — see scopecheck).
func (e *Env) PopFrame() {
	if len(e.frames) <= 1 {
		panic("env: cannot pop the global frame")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

// DeclaredInCurrentFrame reports whether name is already bound in the
// innermost scope (used to detect DuplicateDecl).
func (e *Env) DeclaredInCurrentFrame(name string) bool {
	_, ok := e.frames[len(e.frames)-1][name]
	return ok
}

// Declare adds a new entry for name in the innermost frame and returns
// it. Callers must check DeclaredInCurrentFrame first if duplicate
// detection is required.
func (e *Env) Declare(name string, t *types.Type) *Entry {
	entry := &Entry{Name: name, Type: t, ID: len(e.arena)}
	e.arena = append(e.arena, entry)
	e.frames[len(e.frames)-1][name] = entry.ID
	return entry
}

// Resolve looks up name from the innermost frame outward. It returns
// (entry, true) on success.
func (e *Env) Resolve(name string) (*Entry, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if idx, ok := e.frames[i][name]; ok {
			return e.arena[idx], true
		}
	}
	return nil, false
}

// DeclareError binds name to a synthetic error-entry in the innermost
// frame, so later phases treat it as in-scope and do not cascade an
// UndeclaredId into further diagnostics at every use site.
func (e *Env) DeclareError(name string) *Entry {
	entry := &Entry{Name: name, Type: nil, ID: len(e.arena), Error: true}
	e.arena = append(e.arena, entry)
	e.frames[len(e.frames)-1][name] = entry.ID
	return entry
}

// NumEntries returns the number of entries allocated so far, i.e. the
// universe size a VarSet bitset over this arena must be sized to.
func (e *Env) NumEntries() int {
	return len(e.arena)
}
