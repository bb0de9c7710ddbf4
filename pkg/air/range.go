// Copyright 2025 Certen Protocol

package air

import (
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// RangeBits is the default bit width for range-proof traces.
const RangeBits = 32

// MaxRangeValue bounds both value and threshold in a range proof so
// that value-threshold can never wrap around in the field and always
// fits in NumBits bits.
const MaxRangeValue = uint64(1) << RangeBits

// RangeAIR proves value >= threshold without revealing value, via a
// bit-decomposed difference column layout: [bit_0..bit_{n-1}, value,
// threshold, diff].
type RangeAIR struct {
	NumBits int
}

// NewRangeAIR returns a RangeAIR using the default 32-bit width.
func NewRangeAIR() RangeAIR { return RangeAIR{NumBits: RangeBits} }

// WithBits returns a RangeAIR using a caller-chosen bit width.
func WithBits(numBits int) RangeAIR { return RangeAIR{NumBits: numBits} }

func (a RangeAIR) Width() int        { return a.NumBits + 3 }
func (a RangeAIR) MaxRowOffset() int { return 0 }

// ValueIdx, ThresholdIdx, and DiffIdx expose the trace-column layout so
// that a verifier re-checking the public threshold binding against an
// opened row knows which column to read.
func (a RangeAIR) ValueIdx() int     { return a.NumBits }
func (a RangeAIR) ThresholdIdx() int { return a.NumBits + 1 }
func (a RangeAIR) DiffIdx() int      { return a.NumBits + 2 }

func (a RangeAIR) EvaluateConstraints(t Trace, row int) []field.Element {
	out := make([]field.Element, 0, a.NumBits+2)

	one := field.One()
	for i := 0; i < a.NumBits; i++ {
		bit := t[i][row]
		out = append(out, bit.Mul(one.Sub(bit)))
	}

	value := t[a.ValueIdx()][row]
	threshold := t[a.ThresholdIdx()][row]
	diff := t[a.DiffIdx()][row]
	out = append(out, diff.Sub(value.Sub(threshold)))

	reconstructed := field.Zero()
	power := field.One()
	for i := 0; i < a.NumBits; i++ {
		reconstructed = reconstructed.Add(t[i][row].Mul(power))
		power = power.Add(power)
	}
	out = append(out, reconstructed.Sub(diff))

	return out
}

// BuildRangeProofTrace builds a 2-row (duplicated, so the trace height
// is a power of two) trace proving value >= threshold. Both value and
// threshold must be strictly less than MaxRangeValue, and value must be
// at least threshold; violating either is an attempted field-overflow
// or unsatisfiable-constraint attack and is rejected here rather than
// left for the verifier to catch.
func BuildRangeProofTrace(value, threshold uint64) (Trace, error) {
	return WithBits(RangeBits).buildRangeProofTrace(value, threshold)
}

func (a RangeAIR) buildRangeProofTrace(value, threshold uint64) (Trace, error) {
	maxValue := uint64(1) << a.NumBits
	if value >= maxValue {
		return nil, zkerrors.InvalidWitness("value %d exceeds maximum %d for range proofs", value, maxValue-1)
	}
	if threshold >= maxValue {
		return nil, zkerrors.InvalidWitness("threshold %d exceeds maximum %d for range proofs", threshold, maxValue-1)
	}
	if value < threshold {
		return nil, zkerrors.InvalidWitness("value %d is less than threshold %d", value, threshold)
	}
	diff := value - threshold

	cols := make([][]field.Element, a.Width())
	remaining := diff
	for i := 0; i < a.NumBits; i++ {
		bit := remaining & 1
		cols[i] = []field.Element{field.New(bit), field.New(bit)}
		remaining >>= 1
	}
	cols[a.ValueIdx()] = []field.Element{field.New(value), field.New(value)}
	cols[a.ThresholdIdx()] = []field.Element{field.New(threshold), field.New(threshold)}
	cols[a.DiffIdx()] = []field.Element{field.New(diff), field.New(diff)}

	return Trace(cols), nil
}

// BuildRangeInBoundsTrace proves min <= value <= max by building two
// independent range proofs: value >= min, and max >= value.
func BuildRangeInBoundsTrace(value, min, max uint64) (lower, upper Trace, err error) {
	lower, err = BuildRangeProofTrace(value, min)
	if err != nil {
		return nil, nil, err
	}
	upper, err = BuildRangeProofTrace(max, value)
	if err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}
