// Package errutil formats evaluator and parser errors as a single
// position-aware line, narrowed from the teacher's multi-line
// CompilerError: runtime expression errors have no surrounding source file
// to list context lines from, so there is no caret-diagram or ANSI-color
// variant here, only the "kind: message (at line:col)" form the HTTP layer
// turns into its error envelope.
package errutil

import (
	"fmt"

	"github.com/cwbudde/skillet/internal/token"
)

// PositionedError is implemented by errors that carry an optional source
// position (evaluator.Error and parser.ParseError both satisfy it).
type PositionedError interface {
	error
	Position() *token.Position
}

// Format renders err as "kind: message (at line:col)", or "kind: message"
// if no position is available. kind is typically an error Kind's String().
func Format(kind, message string, pos *token.Position) string {
	if pos == nil {
		return fmt.Sprintf("%s: %s", kind, message)
	}
	return fmt.Sprintf("%s: %s (at %s)", kind, message, pos.String())
}
