// Copyright 2025 Certen Protocol
//
// Package epoch implements the 3600-second epoch scalar that indexes
// MTD parameter rotation.
package epoch

import "github.com/certen/zkmtd/pkg/zkerrors"

// DurationSecs is the width of one epoch window in seconds.
const DurationSecs uint64 = 3600

// Max is the largest representable epoch value. next() on Max fails.
const Max uint64 = 1<<64 - 2

// Tolerance is the default validate-timestamp slack, in seconds.
const Tolerance uint64 = 300

// Epoch is an unsigned 64-bit scalar in [0, Max].
type Epoch struct {
	value uint64
}

// New constructs an Epoch, panicking if v exceeds Max. Callers that
// cannot guarantee this invariant must use TryNew instead.
func New(v uint64) Epoch {
	e, err := TryNew(v)
	if err != nil {
		panic(err)
	}
	return e
}

// TryNew constructs an Epoch, returning an error if v exceeds Max.
func TryNew(v uint64) (Epoch, error) {
	if v > Max {
		return Epoch{}, zkerrors.InvalidEpoch(v, "epoch value exceeds maximum %d", Max)
	}
	return Epoch{value: v}, nil
}

// FromTimestamp maps wall-clock seconds to the epoch containing it.
func FromTimestamp(t uint64) Epoch {
	return Epoch{value: t / DurationSecs}
}

// Value returns the raw epoch scalar.
func (e Epoch) Value() uint64 { return e.value }

// Next returns e+1, failing when e is already Max.
func (e Epoch) Next() (Epoch, error) {
	if e.value == Max {
		return Epoch{}, zkerrors.InvalidEpoch(e.value, "epoch already at maximum, cannot advance")
	}
	return Epoch{value: e.value + 1}, nil
}

// Prev returns e-1, failing when e is already 0.
func (e Epoch) Prev() (Epoch, error) {
	if e.value == 0 {
		return Epoch{}, zkerrors.InvalidEpoch(e.value, "epoch already at zero, cannot go backwards")
	}
	return Epoch{value: e.value - 1}, nil
}

// Advance returns e+k using checked addition, failing on overflow past Max.
func (e Epoch) Advance(k uint64) (Epoch, error) {
	sum := e.value + k
	if sum < e.value || sum > Max {
		return Epoch{}, zkerrors.InvalidEpoch(e.value, "advancing by %d overflows maximum epoch", k)
	}
	return Epoch{value: sum}, nil
}

// StartTimestamp returns the first wall-clock second of this epoch.
func (e Epoch) StartTimestamp() uint64 { return e.value * DurationSecs }

// EndTimestamp returns the last wall-clock second of this epoch.
func (e Epoch) EndTimestamp() uint64 { return (e.value+1)*DurationSecs - 1 }

// ContainsTimestamp reports whether t falls within this epoch's window.
func (e Epoch) ContainsTimestamp(t uint64) bool {
	return FromTimestamp(t) == e
}

// ValidateTimestamp reports whether t falls within this epoch's window
// widened by Tolerance seconds on each side.
func (e Epoch) ValidateTimestamp(t uint64) bool {
	start := e.StartTimestamp()
	end := e.EndTimestamp()
	var lower uint64
	if start > Tolerance {
		lower = start - Tolerance
	}
	upper := end + Tolerance
	return t >= lower && t <= upper
}

// Distance returns the absolute difference between two epochs.
func (e Epoch) Distance(o Epoch) uint64 {
	if e.value >= o.value {
		return e.value - o.value
	}
	return o.value - e.value
}

// ToBytes encodes the epoch as 8 little-endian bytes.
func (e Epoch) ToBytes() [8]byte {
	var out [8]byte
	v := e.value
	for i := 0; i < 8; i++ {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// FromBytes decodes 8 little-endian bytes into an Epoch.
func FromBytes(b [8]byte) Epoch {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return Epoch{value: v}
}
