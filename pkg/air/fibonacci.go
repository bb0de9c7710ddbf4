// Copyright 2025 Certen Protocol

package air

import (
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// FibonacciAIR constrains a 2-column shift-register trace: column 0
// tracks F(i), column 1 tracks F(i+1). Boundary: a[0]=0, b[0]=1.
// Transition: a[i+1]=b[i], b[i+1]=a[i]+b[i]. At row n-1 the trace
// directly exposes F(n-1) (column 0) and F(n) (column 1), so a
// verifier can bind both without any out-of-band recomputation.
type FibonacciAIR struct{}

func (FibonacciAIR) Width() int        { return 2 }
func (FibonacciAIR) MaxRowOffset() int { return 1 }

func (FibonacciAIR) EvaluateConstraints(t Trace, row int) []field.Element {
	var out []field.Element
	if row == 0 {
		out = append(out, t[0][0].Sub(field.Zero()))
		out = append(out, t[1][0].Sub(field.One()))
	}
	if row+1 < t.Height() {
		out = append(out, t[0][row+1].Sub(t[1][row]))
		out = append(out, t[1][row+1].Sub(t[0][row].Add(t[1][row])))
	}
	return out
}

// BuildFibonacciTrace builds a length-row 2-column trace with a[0]=0,
// b[0]=1; length must be a power of two and at least 2.
func BuildFibonacciTrace(length int) (Trace, error) {
	if !isPowerOfTwo(length) {
		return nil, zkerrors.InvalidWitness("trace length must be a power of 2: %d", length)
	}
	if length < 2 {
		return nil, zkerrors.InvalidWitness("trace length must be at least 2: %d", length)
	}
	colA := make([]field.Element, length)
	colB := make([]field.Element, length)
	colA[0] = field.Zero()
	colB[0] = field.One()
	for i := 1; i < length; i++ {
		colA[i] = colB[i-1]
		colB[i] = colA[i-1].Add(colB[i-1])
	}
	return Trace{colA, colB}, nil
}
