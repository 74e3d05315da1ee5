// Package diag formats and accumulates compiler diagnostics. It follows
// the shape of CWBudde-go-dws/internal/errors: an Error carrying a code,
// a position and a message (no source excerpt or caret is rendered),
// plus a Reporter that phases append to rather than
// aborting on first failure, so one pass can report every problem it
// finds instead of stopping at the first one.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/cwbudde/go-minic/internal/token"
)

// Code identifies the taxonomy of diagnostic kinds a phase can raise.
type Code string

const (
	InvalidLValue Code = "InvalidLValue"
	DuplicateDecl Code = "DuplicateDecl"
	UndeclaredId  Code = "UndeclaredId"
	TypeMismatch  Code = "TypeMismatch"
	UseBeforeInit Code = "UseBeforeInit"
	InternalError Code = "InternalError"
)

// Error is a single diagnostic with source position and a human-readable
// message. It implements the standard error interface.
type Error struct {
	Code    Code
	Message string
	Pos     token.Position
}

func New(code Code, pos token.Position, format string, args ...any) *Error {
	return &Error{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Format(false)
}

// Format renders "code at pos: message", optionally colored.
func (e *Error) Format(useColor bool) string {
	var sb strings.Builder
	if useColor {
		sb.WriteString(color.New(color.FgRed, color.Bold).Sprint(string(e.Code)))
	} else {
		sb.WriteString(string(e.Code))
	}
	fmt.Fprintf(&sb, " at %s: %s", e.Pos, e.Message)
	return sb.String()
}

// Reporter accumulates diagnostics across a phase (or the whole pipeline)
// rather than aborting on the first failure. InternalError is still fatal
// in the sense that it marks the run critical; it is never swallowed.
type Reporter struct {
	errors []*Error
}

func NewReporter() *Reporter {
	return &Reporter{}
}

// Report records a diagnostic.
func (r *Reporter) Report(code Code, pos token.Position, format string, args ...any) {
	r.errors = append(r.errors, New(code, pos, format, args...))
}

// HasErrors reports whether any diagnostic was recorded.
func (r *Reporter) HasErrors() bool {
	return len(r.errors) > 0
}

// Errors returns the accumulated diagnostics in report order.
func (r *Reporter) Errors() []*Error {
	return r.errors
}

// FormatAll renders every diagnostic, one per line.
func (r *Reporter) FormatAll(useColor bool) string {
	if len(r.errors) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range r.errors {
		sb.WriteString(e.Format(useColor))
		if i < len(r.errors)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
