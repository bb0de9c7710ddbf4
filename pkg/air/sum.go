// Copyright 2025 Certen Protocol

package air

import (
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// SumAIR constrains a 3-column trace where column 2 is the per-row sum
// of columns 0 and 1.
type SumAIR struct{}

func (SumAIR) Width() int        { return 3 }
func (SumAIR) MaxRowOffset() int { return 0 }

func (SumAIR) EvaluateConstraints(t Trace, row int) []field.Element {
	expected := t[0][row].Add(t[1][row])
	return []field.Element{t[2][row].Sub(expected)}
}

// BuildSumTrace builds a 3-column trace [a, b, a+b] from equal-length
// input vectors.
func BuildSumTrace(a, b []uint64) (Trace, error) {
	if len(a) != len(b) {
		return nil, zkerrors.InvalidWitness("array lengths do not match: a=%d, b=%d", len(a), len(b))
	}
	colA := make([]field.Element, len(a))
	colB := make([]field.Element, len(b))
	colSum := make([]field.Element, len(a))
	for i := range a {
		colA[i] = field.New(a[i])
		colB[i] = field.New(b[i])
		colSum[i] = colA[i].Add(colB[i])
	}
	return Trace{colA, colB, colSum}, nil
}
