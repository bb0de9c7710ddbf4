// Copyright 2025 Certen Protocol
//
// Package onchain implements the lightweight verification path (C8):
// a compact proof record and a verifier that checks only a commitment,
// Merkle inclusion, and an epoch-tolerance window, for callers where
// full STARK verification is infeasible (e.g. on-chain compute
// budgets).
package onchain

import (
	"github.com/certen/zkmtd/pkg/envelope"
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/merkle"
	"github.com/certen/zkmtd/pkg/poseidon"
)

// DefaultEpochTolerance is the default number of epochs a lightweight
// proof may lag the verifier's current epoch and still be accepted.
const DefaultEpochTolerance uint64 = 1

// LightweightProof is the compact on-chain verification surface: a
// commitment, a Merkle root (equal to the commitment for a standalone
// proof, by the convention preserved from the reference
// implementation — see §9), an epoch, a wall-clock timestamp, the
// plaintext public values, and the committed-values hash.
type LightweightProof struct {
	Commitment      [32]byte
	MerkleRoot      [32]byte
	Epoch           epoch.Epoch
	Timestamp       uint64
	PublicValues    []uint64
	CommittedValues [32]byte

	// MerklePath is present for batch members: an inclusion proof
	// binding Commitment into MerkleRoot. nil for standalone proofs,
	// where MerkleRoot == Commitment by convention.
	MerklePath *merkle.InclusionProof
}

// FromIntegratedProof derives a standalone LightweightProof from a
// full envelope.IntegratedProof, for submission to a compute-budget
// verifier that does not run the inner STARK check.
func FromIntegratedProof(p *envelope.IntegratedProof, timestamp uint64) LightweightProof {
	return LightweightProof{
		Commitment:      p.Committed.Commitment,
		MerkleRoot:      p.Committed.Commitment,
		Epoch:           p.Epoch,
		Timestamp:       timestamp,
		PublicValues:    append([]uint64{}, p.PublicValues...),
		CommittedValues: p.Committed.Commitment,
	}
}

// ProofCommitment tags a lightweight proof with a fingerprint of the
// seed that produced it, without revealing the seed itself:
// Poseidon2(seed || "SEED_FINGERPRINT", DOMAIN_SEED_FINGERPRINT).
type ProofCommitment struct {
	Commitment      [32]byte
	SeedFingerprint [32]byte
}

// NewProofCommitment derives a ProofCommitment from public values, a
// salt, and the seed that produced the underlying proof.
func NewProofCommitment(publicValues []uint64, salt [32]byte, seed []byte) ProofCommitment {
	committed := envelope.CommitPublicInputs(publicValues, salt)
	fpInput := make([]byte, 0, len(seed)+len("SEED_FINGERPRINT"))
	fpInput = append(fpInput, seed...)
	fpInput = append(fpInput, "SEED_FINGERPRINT"...)
	return ProofCommitment{
		Commitment:      committed.Commitment,
		SeedFingerprint: poseidon.Hash(fpInput, poseidon.DomainSeedFingerprint),
	}
}

// VerificationStatus is the outcome of an OnchainVerifier check. It is
// never an error type: every adversarial outcome (stale epoch, wrong
// commitment, failed Merkle inclusion, mismatched expected values) is
// represented as a rejection reason here, not a Go error.
type VerificationStatus struct {
	Accepted bool
	Reason   string
}

func accept() VerificationStatus { return VerificationStatus{Accepted: true} }
func reject(reason string) VerificationStatus {
	return VerificationStatus{Accepted: false, Reason: reason}
}

// OnchainVerifier checks LightweightProofs against a trusted current
// epoch, an epoch tolerance window, and (optionally) expected
// committed/public values — the compute-constrained verification
// policy of §4.8.
type OnchainVerifier struct {
	currentEpoch      epoch.Epoch
	epochTolerance    uint64
	expectedPublic    []uint64
	hasExpectedPV     bool
	expectedCommitted [32]byte
}

// NewOnchainVerifier constructs an OnchainVerifier anchored to
// currentEpoch and expectedCommittedValues, with the default epoch
// tolerance.
func NewOnchainVerifier(currentEpoch epoch.Epoch, expectedCommittedValues [32]byte) *OnchainVerifier {
	return &OnchainVerifier{
		currentEpoch:      currentEpoch,
		epochTolerance:    DefaultEpochTolerance,
		expectedCommitted: expectedCommittedValues,
	}
}

// WithEpochTolerance overrides the default epoch tolerance window.
func (v *OnchainVerifier) WithEpochTolerance(tolerance uint64) *OnchainVerifier {
	v.epochTolerance = tolerance
	return v
}

// WithExpectedValues additionally requires the proof's plaintext
// public values to length- and content-match values.
func (v *OnchainVerifier) WithExpectedValues(values []uint64) *OnchainVerifier {
	v.expectedPublic = append([]uint64{}, values...)
	v.hasExpectedPV = true
	return v
}

// Verify applies the §4.8 policy in order: epoch window, commitment
// vs. Merkle-root coupling (with Merkle inclusion for batch members),
// expected public values (if configured), expected committed values.
func (v *OnchainVerifier) Verify(p LightweightProof) VerificationStatus {
	if p.Epoch.Value() > v.currentEpoch.Value() {
		return reject("proof epoch is in the future")
	}
	if v.currentEpoch.Value()-p.Epoch.Value() > v.epochTolerance {
		return reject("proof epoch exceeds tolerance window")
	}

	zeroRoot := [32]byte{}
	switch {
	case p.MerkleRoot == p.Commitment:
		// Singleton convention: root equals commitment directly.
	case p.MerkleRoot == zeroRoot:
		// Batch indicator: Merkle membership must be verified
		// separately via MerklePath.
		if p.MerklePath == nil {
			return reject("batch proof missing merkle inclusion path")
		}
		ok, err := p.MerklePath.VerifyAgainst(p.Commitment[:])
		if err != nil || !ok {
			return reject("merkle inclusion check failed")
		}
	default:
		return reject("commitment does not match merkle root")
	}

	if v.hasExpectedPV {
		if !uint64SliceEqual(p.PublicValues, v.expectedPublic) {
			return reject("public values do not match expected")
		}
	}

	if !poseidon.ConstantTimeEqFixed(p.CommittedValues, v.expectedCommitted) {
		return reject("committed values do not match expected")
	}

	return accept()
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
