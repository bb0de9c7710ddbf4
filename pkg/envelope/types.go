// Copyright 2025 Certen Protocol
//
// Package envelope implements the MTD-bound proof envelope (C6): it
// binds a STARK proof produced by pkg/stark to the epoch and
// WarpingParams active when it was produced, so a captured proof
// cannot be replayed under a different epoch, seed, or AIR type.
package envelope

import (
	"fmt"

	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/mtd"
	"github.com/certen/zkmtd/pkg/stark"
)

// AIRType tags which constraint system a proof was generated against.
// It is the first byte absorbed into the binding hash, which prevents
// a proof produced for one AIR from being re-tagged as another.
type AIRType uint8

const (
	AIRFibonacci AIRType = iota + 1
	AIRSum
	AIRMultiplication
	AIRRange
)

func (t AIRType) String() string {
	switch t {
	case AIRFibonacci:
		return "fibonacci"
	case AIRSum:
		return "sum"
	case AIRMultiplication:
		return "multiplication"
	case AIRRange:
		return "range"
	default:
		return fmt.Sprintf("air_type(%d)", uint8(t))
	}
}

// Witness is a finite ordered sequence of field-sized witness values.
// Its contents must never be logged or rendered; Zeroize clears the
// backing array and must be called on every exit path by callers that
// construct one directly (ProveRange, the one entry point in this
// package that builds a Witness, zeroizes it when it returns).
type Witness struct {
	values []uint64
}

// NewWitness copies in into a new Witness.
func NewWitness(in []uint64) *Witness {
	w := &Witness{values: make([]uint64, len(in))}
	copy(w.values, in)
	return w
}

// Values returns the witness's backing slice. Callers must not retain
// it past the witness's lifetime without their own copy.
func (w *Witness) Values() []uint64 { return w.values }

// Len returns the number of values in the witness.
func (w *Witness) Len() int { return len(w.values) }

// Zeroize overwrites every value with zero. Idempotent.
func (w *Witness) Zeroize() {
	for i := range w.values {
		w.values[i] = 0
	}
}

// String deliberately omits witness contents.
func (w *Witness) String() string {
	return fmt.Sprintf("Witness{len=%d}", len(w.values))
}

// PublicInputs is a finite ordered sequence of field-sized values that
// are not secret and may be logged or transmitted in the clear.
type PublicInputs []uint64

// IntegratedProof is the proof envelope: an inner STARK proof bound via
// BindingHash to the epoch, WarpingParams, AIR type, and committed
// public values active when it was produced.
type IntegratedProof struct {
	StarkProof   *stark.Proof
	AIRType      AIRType
	Epoch        epoch.Epoch
	Params       mtd.WarpingParams
	BindingHash  [32]byte
	Committed    CommittedPublicInputs
	PublicValues []uint64

	salt *[32]byte
}

// NumRows returns the inner proof's claimed trace height, the
// RealProof.num_rows of the data model.
func (p *IntegratedProof) NumRows() int {
	if p.StarkProof == nil {
		return 0
	}
	return p.StarkProof.TraceHeight
}

// Salt returns the envelope's pv-salt; ok reports whether the salt is
// still present (it is false once EraseSalt has run).
// A caller must not treat the returned value as valid when ok is false.
func (p *IntegratedProof) Salt() (salt [32]byte, ok bool) {
	if p.salt == nil {
		return [32]byte{}, false
	}
	return *p.salt, true
}

// EraseSalt zeroizes the envelope's optional pv-salt, making its
// commitment irreversible. Idempotent; the envelope remains verifiable
// via Verify afterward — only VerifyWithSalt requires the salt and
// fails once it is erased.
func (p *IntegratedProof) EraseSalt() {
	if p.salt == nil {
		return
	}
	for i := range p.salt {
		(*p.salt)[i] = 0
	}
	p.salt = nil
}
