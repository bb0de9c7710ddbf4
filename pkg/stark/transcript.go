// Copyright 2025 Certen Protocol

package stark

import (
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/poseidon"
)

// transcript is a Fiat-Shamir transcript: every value the prover
// commits to is absorbed before the next challenge is drawn, so the
// verifier can reproduce every challenge independently from the same
// public commitments.
type transcript struct {
	state   [32]byte
	counter uint64
}

func newTranscript(friSeed [32]byte, publicInputHash [32]byte) *transcript {
	buf := make([]byte, 0, 64)
	buf = append(buf, friSeed[:]...)
	buf = append(buf, publicInputHash[:]...)
	return &transcript{state: poseidon.Hash(buf, poseidon.DomainFRITranscript)}
}

func (tr *transcript) absorb(data [32]byte) {
	buf := make([]byte, 0, 64)
	buf = append(buf, tr.state[:]...)
	buf = append(buf, data[:]...)
	tr.state = poseidon.Hash(buf, poseidon.DomainFRITranscript)
}

func (tr *transcript) next() [32]byte {
	var counterBytes [8]byte
	c := tr.counter
	for i := 0; i < 8; i++ {
		counterBytes[i] = byte(c)
		c >>= 8
	}
	buf := make([]byte, 0, 40)
	buf = append(buf, tr.state[:]...)
	buf = append(buf, counterBytes[:]...)
	tr.counter++
	tr.state = poseidon.Hash(buf, poseidon.DomainFRITranscript)
	return tr.state
}

func (tr *transcript) fieldChallenge() field.Element {
	b := tr.next()
	return field.FromBytesLE(b[:8])
}

func (tr *transcript) indexChallenge(mod int) int {
	if mod <= 0 {
		return 0
	}
	b := tr.next()
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return int(v % uint64(mod))
}
