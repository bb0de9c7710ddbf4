// Copyright 2025 Certen Protocol

package envelope

import (
	"testing"

	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/stark"
)

var scenarioSeed = []byte("scenario-seed")
var scenarioEpoch = epoch.New(100)
var scenarioSalt = [32]byte{
	42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42,
	42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42,
}

func newTestProver(t *testing.T) *Prover {
	t.Helper()
	p, err := NewProverWithEpoch(scenarioSeed, stark.TestingConfig(), scenarioEpoch)
	if err != nil {
		t.Fatalf("NewProverWithEpoch: %v", err)
	}
	return p
}

func TestFibonacci8Completeness(t *testing.T) {
	p := newTestProver(t)
	proof, err := p.ProveFibonacci(8, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveFibonacci: %v", err)
	}
	want := []uint64{0, 1, 13, 21}
	if !uint64SliceEqual(proof.PublicValues, want) {
		t.Fatalf("public values = %v, want %v", proof.PublicValues, want)
	}
	v := NewVerifierFromProver(p)
	if !v.Verify(proof) {
		t.Fatalf("Verify() = false, want true")
	}
}

func TestFibonacci16(t *testing.T) {
	p := newTestProver(t)
	proof, err := p.ProveFibonacci(16, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveFibonacci: %v", err)
	}
	want := []uint64{0, 1, 610, 987}
	if !uint64SliceEqual(proof.PublicValues, want) {
		t.Fatalf("public values = %v, want %v", proof.PublicValues, want)
	}
	v := NewVerifierFromProver(p)
	if !v.Verify(proof) {
		t.Fatalf("Verify() = false, want true")
	}
}

func TestBindingTamperRejected(t *testing.T) {
	p := newTestProver(t)
	proof, err := p.ProveFibonacci(8, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveFibonacci: %v", err)
	}
	proof.BindingHash[0] ^= 0xFF

	v := NewVerifierFromProver(p)
	if v.Verify(proof) {
		t.Fatalf("Verify() = true after binding tamper, want false")
	}
}

func TestSaltErasurePreservesValidity(t *testing.T) {
	p := newTestProver(t)
	proof, err := p.ProveFibonacci(8, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveFibonacci: %v", err)
	}
	v := NewVerifierFromProver(p)

	proof.EraseSalt()
	proof.EraseSalt() // idempotent

	if !v.Verify(proof) {
		t.Fatalf("Verify() = false after salt erasure, want true")
	}
	if v.VerifyWithSalt(proof, proof.PublicValues, scenarioSalt) {
		t.Fatalf("VerifyWithSalt() = true after salt erasure, want false")
	}
	if _, ok := proof.Salt(); ok {
		t.Fatalf("Salt() ok = true after erasure, want false")
	}
}

func TestRangeProofBoundary(t *testing.T) {
	p := newTestProver(t)

	if _, err := p.ProveRange((uint64(1)<<32)-1, 0, scenarioSalt); err != nil {
		t.Fatalf("ProveRange(2^32-1, 0) unexpectedly failed: %v", err)
	}
	if _, err := p.ProveRange(uint64(1)<<32, 0, scenarioSalt); err == nil {
		t.Fatalf("ProveRange(2^32, 0) unexpectedly succeeded")
	}
}

func TestBatchMerkleSoundness(t *testing.T) {
	p := newTestProver(t)
	var proofs []*IntegratedProof
	for _, n := range []int{2, 4, 8} {
		proof, err := p.ProveFibonacci(n, scenarioSalt)
		if err != nil {
			t.Fatalf("ProveFibonacci(%d): %v", n, err)
		}
		proofs = append(proofs, proof)
	}

	batch, err := CreateProofBatch(proofs, scenarioEpoch)
	if err != nil {
		t.Fatalf("CreateProofBatch: %v", err)
	}
	v := NewVerifierFromProver(p)
	if !VerifyBatch(v, batch) {
		t.Fatalf("VerifyBatch() = false, want true")
	}

	batch.MerkleRoot = [32]byte{99, 99, 99}
	if VerifyBatch(v, batch) {
		t.Fatalf("VerifyBatch() = true after root tamper, want false")
	}
}

func TestCrossEpochSoundness(t *testing.T) {
	p := newTestProver(t)
	proof, err := p.ProveFibonacci(8, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveFibonacci: %v", err)
	}

	otherEpoch, _ := scenarioEpoch.Next()
	v, err := NewVerifier(scenarioSeed, otherEpoch, stark.TestingConfig())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if v.Verify(proof) {
		t.Fatalf("Verify() = true under a different epoch, want false")
	}
}

func TestCrossSeedSoundness(t *testing.T) {
	p := newTestProver(t)
	proof, err := p.ProveFibonacci(8, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveFibonacci: %v", err)
	}

	v, err := NewVerifier([]byte("a-different-seed"), scenarioEpoch, stark.TestingConfig())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if v.Verify(proof) {
		t.Fatalf("Verify() = true under a different seed, want false")
	}
}

func TestAIRTypeSoundness(t *testing.T) {
	p := newTestProver(t)
	proof, err := p.ProveFibonacci(8, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveFibonacci: %v", err)
	}
	proof.AIRType = AIRSum

	v := NewVerifierFromProver(p)
	if v.Verify(proof) {
		t.Fatalf("Verify() = true after AIR-type re-tag, want false")
	}
}

func TestEnvelopeCompleteness(t *testing.T) {
	p := newTestProver(t)
	v := NewVerifierFromProver(p)

	sumProof, err := p.ProveSum([]uint64{1, 2, 3}, []uint64{4, 5, 6}, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveSum: %v", err)
	}
	if !v.Verify(sumProof) {
		t.Fatalf("sum proof failed to verify")
	}

	mulProof, err := p.ProveMultiplication([]uint64{2, 3}, []uint64{5, 7}, scenarioSalt)
	if err != nil {
		t.Fatalf("ProveMultiplication: %v", err)
	}
	if !v.Verify(mulProof) {
		t.Fatalf("multiplication proof failed to verify")
	}
}

func TestTransportRoundTrip(t *testing.T) {
	payload := []byte("opaque proof bytes")
	encoded, err := EncodeTransport(100, payload)
	if err != nil {
		t.Fatalf("EncodeTransport: %v", err)
	}
	e, data, err := DecodeTransport(encoded)
	if err != nil {
		t.Fatalf("DecodeTransport: %v", err)
	}
	if e != 100 {
		t.Fatalf("epoch = %d, want 100", e)
	}
	if string(data) != string(payload) {
		t.Fatalf("data = %q, want %q", data, payload)
	}
}

func TestTransportRejectsOversizedPayload(t *testing.T) {
	oversized := make([]byte, MaxTransportDataLen+1)
	if _, err := EncodeTransport(1, oversized); err == nil {
		t.Fatalf("EncodeTransport accepted an oversized payload")
	}
}

func uint64SliceEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
