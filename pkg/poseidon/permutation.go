// Copyright 2025 Certen Protocol
//
// Package poseidon implements the Poseidon2 permutation over the
// Goldilocks field in sponge mode, the system's sole hash primitive.
package poseidon

import (
	"sync"

	"github.com/certen/zkmtd/pkg/field"
)

const (
	// Width is the permutation's state size in field elements.
	Width = 16
	// Rate is the number of state cells used for absorption/squeezing.
	Rate = 8
	// Capacity is the number of state cells reserved for security margin.
	Capacity = Width - Rate

	numFullRounds    = 8
	numPartialRounds = 22

	// spongeSeed initializes the single process-wide sponge permutation
	// instance. Fixed, never re-seeded at runtime.
	spongeSeed uint64 = 0x5A4B4D54445F5032
	// starkSeed initializes the STARK backend's independent permutation
	// instance. Must differ from spongeSeed.
	starkSeed uint64 = 0x53544152464B5F32
)

// permutation holds the deterministic round constants and MDS matrix
// derived from a fixed 64-bit seed. Immutable after construction.
type permutation struct {
	roundConstants [][Width]field.Element
	mds            [Width][Width]field.Element
}

// splitmix64 deterministically expands a 64-bit seed into a stream of
// 64-bit words, used only to derive round constants and the MDS matrix
// at process start — never touches message data.
type splitmix64 struct{ state uint64 }

func newSplitmix64(seed uint64) *splitmix64 { return &splitmix64{state: seed} }

func (s *splitmix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z
}

func newPermutation(seed uint64) *permutation {
	rng := newSplitmix64(seed)

	totalRounds := numFullRounds + numPartialRounds
	rc := make([][Width]field.Element, totalRounds)
	for r := 0; r < totalRounds; r++ {
		for i := 0; i < Width; i++ {
			rc[r][i] = field.New(rng.next())
		}
	}

	// MDS matrix via a Cauchy construction: M[i][j] = 1/(x_i - y_j),
	// with x_i = i and y_j = Width+j so all x_i, y_j are pairwise
	// distinct and x_i != y_j for every i, j — guaranteeing the
	// matrix is invertible (Cauchy matrices are always full rank).
	var mds [Width][Width]field.Element
	for i := 0; i < Width; i++ {
		xi := field.New(uint64(i))
		for j := 0; j < Width; j++ {
			yj := field.New(uint64(Width + j))
			diff := xi.Sub(yj)
			mds[i][j] = diff.Inv()
		}
	}

	return &permutation{roundConstants: rc, mds: mds}
}

func (p *permutation) addRoundConstants(state *[Width]field.Element, round int) {
	rc := p.roundConstants[round]
	for i := range state {
		state[i] = state[i].Add(rc[i])
	}
}

func (p *permutation) applyMDS(state *[Width]field.Element) {
	var out [Width]field.Element
	for i := 0; i < Width; i++ {
		acc := field.Zero()
		for j := 0; j < Width; j++ {
			acc = acc.Add(p.mds[i][j].Mul(state[j]))
		}
		out[i] = acc
	}
	*state = out
}

// permute runs the full Poseidon2 round schedule in place: half the
// full rounds, then the partial rounds (S-box on the first cell only),
// then the remaining full rounds.
func (p *permutation) permute(state *[Width]field.Element) {
	round := 0
	half := numFullRounds / 2

	for i := 0; i < half; i++ {
		p.addRoundConstants(state, round)
		for j := range state {
			state[j] = state[j].Sq7()
		}
		p.applyMDS(state)
		round++
	}

	for i := 0; i < numPartialRounds; i++ {
		p.addRoundConstants(state, round)
		state[0] = state[0].Sq7()
		p.applyMDS(state)
		round++
	}

	for i := 0; i < half; i++ {
		p.addRoundConstants(state, round)
		for j := range state {
			state[j] = state[j].Sq7()
		}
		p.applyMDS(state)
		round++
	}
}

var (
	spongePermOnce sync.Once
	spongePermInst *permutation

	starkPermOnce sync.Once
	starkPermInst *permutation
)

// spongePermutation returns the lazily-initialized, immutable
// process-wide sponge permutation instance.
func spongePermutation() *permutation {
	spongePermOnce.Do(func() {
		spongePermInst = newPermutation(spongeSeed)
	})
	return spongePermInst
}

// StarkPermutation returns the lazily-initialized, immutable
// process-wide STARK-backend permutation instance. Distinct from the
// sponge instance used by Hash/Combine.
func StarkPermutation() *permutation {
	starkPermOnce.Do(func() {
		starkPermInst = newPermutation(starkSeed)
	})
	return starkPermInst
}

// Permute applies the STARK-backend permutation (StarkPermutation) to
// state in place. The stark package's Fiat-Shamir transcript does not
// call it; it hashes through Hash.
func Permute(state *[Width]field.Element) {
	StarkPermutation().permute(state)
}
