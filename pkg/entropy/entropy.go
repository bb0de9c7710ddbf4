// Copyright 2025 Certen Protocol
//
// Package entropy provides the EntropySource contract and its three
// implementations: the OS CSPRNG, a chain-slot-derived source, and an
// insecure deterministic source reserved for tests.
package entropy

import (
	"crypto/rand"

	"github.com/certen/zkmtd/pkg/poseidon"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// Source exposes cryptographically relevant randomness to the MTD
// manager. Construction of an MTDManager fails when given a Source
// whose IsCryptographicallySecure returns false.
type Source interface {
	FillBytes(out []byte) error
	EntropyBits() int
	IsCryptographicallySecure() bool
}

// OSSource draws randomness from the operating system CSPRNG.
type OSSource struct{}

func NewOSSource() *OSSource { return &OSSource{} }

func (s *OSSource) FillBytes(out []byte) error {
	if _, err := rand.Read(out); err != nil {
		return zkerrors.EntropyError("OS entropy source failed: %v", err)
	}
	return nil
}

func (s *OSSource) EntropyBits() int { return 256 }

func (s *OSSource) IsCryptographicallySecure() bool { return true }

// ChainSlotSource derives entropy from a chain slot hash, a program ID,
// and a monotonic counter, mixed through Poseidon2 under a dedicated
// domain tag. It is secure because its inputs are chain-consensus
// artifacts outside any single party's control, not because the mixing
// step itself adds entropy.
type ChainSlotSource struct {
	SlotHash  [32]byte
	ProgramID [32]byte
	counter   uint64
}

func NewChainSlotSource(slotHash, programID [32]byte) *ChainSlotSource {
	return &ChainSlotSource{SlotHash: slotHash, ProgramID: programID}
}

func (s *ChainSlotSource) FillBytes(out []byte) error {
	produced := 0
	for produced < len(out) {
		buf := make([]byte, 0, 72)
		buf = append(buf, s.SlotHash[:]...)
		buf = append(buf, s.ProgramID[:]...)
		var counterBytes [8]byte
		c := s.counter
		for i := 0; i < 8; i++ {
			counterBytes[i] = byte(c)
			c >>= 8
		}
		buf = append(buf, counterBytes[:]...)
		s.counter++

		digest := poseidon.Hash(buf, poseidon.DomainChainEntropy)
		n := copy(out[produced:], digest[:])
		produced += n
	}
	return nil
}

func (s *ChainSlotSource) EntropyBits() int { return 256 }

func (s *ChainSlotSource) IsCryptographicallySecure() bool { return true }

// DeterministicSource is an insecure linear-congruential generator for
// tests only. MTDManager construction must reject it.
type DeterministicSource struct {
	state uint64
}

func NewDeterministicSource(seed uint64) *DeterministicSource {
	return &DeterministicSource{state: seed}
}

func (s *DeterministicSource) FillBytes(out []byte) error {
	for i := range out {
		// 64-bit LCG constants from Knuth's MMIX generator.
		s.state = s.state*6364136223846793005 + 1442695040888963407
		out[i] = byte(s.state >> 56)
	}
	return nil
}

func (s *DeterministicSource) EntropyBits() int { return 0 }

func (s *DeterministicSource) IsCryptographicallySecure() bool { return false }
