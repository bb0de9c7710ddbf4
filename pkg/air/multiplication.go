// Copyright 2025 Certen Protocol

package air

import (
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// MultiplicationAIR constrains a 3-column trace where column 2 is the
// per-row product of columns 0 and 1. Its constraint has degree 2,
// unlike Sum/Fibonacci's degree 1, since FRI's folding factor must
// accommodate the highest-degree constraint among all AIR types mixed
// into a batch.
type MultiplicationAIR struct{}

func (MultiplicationAIR) Width() int        { return 3 }
func (MultiplicationAIR) MaxRowOffset() int { return 0 }

func (MultiplicationAIR) EvaluateConstraints(t Trace, row int) []field.Element {
	expected := t[0][row].Mul(t[1][row])
	return []field.Element{t[2][row].Sub(expected)}
}

// BuildMultiplicationTrace builds a 3-column trace [a, b, a*b] from
// equal-length input vectors.
func BuildMultiplicationTrace(a, b []uint64) (Trace, error) {
	if len(a) != len(b) {
		return nil, zkerrors.InvalidWitness("array lengths do not match: a=%d, b=%d", len(a), len(b))
	}
	colA := make([]field.Element, len(a))
	colB := make([]field.Element, len(b))
	colProd := make([]field.Element, len(a))
	for i := range a {
		colA[i] = field.New(a[i])
		colB[i] = field.New(b[i])
		colProd[i] = colA[i].Mul(colB[i])
	}
	return Trace{colA, colB, colProd}, nil
}
