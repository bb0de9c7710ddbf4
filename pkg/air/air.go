// Copyright 2025 Certen Protocol
//
// Package air defines Algebraic Intermediate Representations for the
// constraint systems the stark package proves and verifies: Fibonacci,
// Sum, Multiplication, and Range. A Trace is column-major — Trace[c][r]
// is column c, row r — matching the layout the trace builders below
// produce directly.
package air

import (
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// Trace is a column-major execution trace: one []field.Element per
// column, all of equal length (the trace height).
type Trace [][]field.Element

// Height returns the number of rows, or 0 for an empty trace.
func (t Trace) Height() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Width returns the number of columns.
func (t Trace) Width() int { return len(t) }

// AIR is implemented by every constraint system this package defines.
// EvaluateConstraints returns, for a given row, the constraint residuals
// that must all equal zero for the trace to be valid at that row; a
// transition constraint that does not apply at the final row (or at
// boundary rows) is simply omitted from the returned slice rather than
// padded with a placeholder zero. MaxRowOffset bounds how far ahead of
// row EvaluateConstraints ever reads (0 for AIRs with no transition
// constraint), so a verifier holding only a window of opened rows knows
// exactly how many neighboring rows it must also open.
type AIR interface {
	Width() int
	MaxRowOffset() int
	EvaluateConstraints(t Trace, row int) []field.Element
}

// Check evaluates every row of t against air and reports the first
// violated constraint, if any, as an error. A valid trace returns nil.
func Check(a AIR, t Trace) error {
	if t.Width() != a.Width() {
		return zkerrors.InvalidWitness("trace width %d does not match AIR width %d", t.Width(), a.Width())
	}
	for row := 0; row < t.Height(); row++ {
		for _, residual := range a.EvaluateConstraints(t, row) {
			if residual != field.Zero() {
				return zkerrors.InvalidWitness("constraint violated at row %d", row)
			}
		}
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
