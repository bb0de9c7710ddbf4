// Copyright 2025 Certen Protocol

package onchain

import (
	"testing"

	"github.com/certen/zkmtd/pkg/envelope"
	"github.com/certen/zkmtd/pkg/epoch"
)

func TestEpochWindow(t *testing.T) {
	salt := [32]byte{1}
	values := []uint64{1, 2, 3}
	committed := envelope.CommitPublicInputs(values, salt)

	current := epoch.New(100)
	cases := []struct {
		name     string
		proof    epoch.Epoch
		accepted bool
	}{
		{"current epoch", epoch.New(100), true},
		{"within tolerance", epoch.New(99), true},
		{"beyond tolerance", epoch.New(98), false},
		{"future epoch", epoch.New(101), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := NewOnchainVerifier(current, committed.Commitment)
			p := LightweightProof{
				Commitment:      committed.Commitment,
				MerkleRoot:      committed.Commitment,
				Epoch:           c.proof,
				PublicValues:    values,
				CommittedValues: committed.Commitment,
			}
			status := v.Verify(p)
			if status.Accepted != c.accepted {
				t.Fatalf("Verify() accepted = %v, want %v (reason: %s)", status.Accepted, c.accepted, status.Reason)
			}
		})
	}
}

func TestExpectedValuesMismatchRejected(t *testing.T) {
	salt := [32]byte{1}
	values := []uint64{1, 2, 3}
	committed := envelope.CommitPublicInputs(values, salt)
	current := epoch.New(100)

	v := NewOnchainVerifier(current, committed.Commitment).WithExpectedValues([]uint64{9, 9, 9})
	p := LightweightProof{
		Commitment:      committed.Commitment,
		MerkleRoot:      committed.Commitment,
		Epoch:           current,
		PublicValues:    values,
		CommittedValues: committed.Commitment,
	}
	if v.Verify(p).Accepted {
		t.Fatalf("Verify() accepted a proof with mismatched expected values")
	}
}

func TestCommitmentMerkleRootCouplingRejectsMismatch(t *testing.T) {
	salt := [32]byte{1}
	values := []uint64{1, 2, 3}
	committed := envelope.CommitPublicInputs(values, salt)
	current := epoch.New(100)

	v := NewOnchainVerifier(current, committed.Commitment)
	p := LightweightProof{
		Commitment:      committed.Commitment,
		MerkleRoot:      [32]byte{7, 7, 7},
		Epoch:           current,
		PublicValues:    values,
		CommittedValues: committed.Commitment,
	}
	if v.Verify(p).Accepted {
		t.Fatalf("Verify() accepted a proof whose root neither matches nor is zero")
	}
}
