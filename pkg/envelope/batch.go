// Copyright 2025 Certen Protocol

package envelope

import (
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/merkle"
	"github.com/certen/zkmtd/pkg/poseidon"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// ProofBatch groups a set of IntegratedProofs that all share one epoch
// under a single Merkle root, for cheap aggregate submission.
type ProofBatch struct {
	Proofs     []*IntegratedProof
	MerkleRoot [32]byte
	Epoch      epoch.Epoch
}

func leafFor(p *IntegratedProof) []byte {
	h := poseidon.Hash(p.BindingHash[:], poseidon.DomainMerkle)
	return h[:]
}

// ProveBatch proves every witness-bearing closure in builders against
// the same prover state and assembles a ProofBatch over the results.
// Each builder is called once, in order; MAX_BATCH_SIZE bounds len.
func ProveBatch(p *Prover, builders []func(*Prover) (*IntegratedProof, error)) (*ProofBatch, error) {
	if len(builders) == 0 {
		return nil, zkerrors.BatchError("cannot prove an empty batch")
	}
	if len(builders) > merkle.MaxBatchSize {
		return nil, zkerrors.BatchError("batch of %d exceeds maximum size %d", len(builders), merkle.MaxBatchSize)
	}

	proofs := make([]*IntegratedProof, len(builders))
	for i, build := range builders {
		proof, err := build(p)
		if err != nil {
			return nil, zkerrors.BatchError("building proof %d: %v", i, err)
		}
		proofs[i] = proof
	}
	return CreateProofBatch(proofs, p.MTD().CurrentEpoch())
}

// CreateProofBatch builds the Merkle tree over an already-produced set
// of proofs, requiring every proof to carry the batch's epoch.
func CreateProofBatch(proofs []*IntegratedProof, e epoch.Epoch) (*ProofBatch, error) {
	if len(proofs) == 0 {
		return nil, zkerrors.BatchError("cannot create a batch from zero proofs")
	}
	if len(proofs) > merkle.MaxBatchSize {
		return nil, zkerrors.BatchError("batch of %d exceeds maximum size %d", len(proofs), merkle.MaxBatchSize)
	}

	leaves := make([][]byte, len(proofs))
	for i, p := range proofs {
		if p.Epoch != e {
			return nil, zkerrors.BatchError("proof %d carries epoch %d, batch epoch is %d", i, p.Epoch.Value(), e.Value())
		}
		leaves[i] = leafFor(p)
	}

	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return nil, zkerrors.BatchError("building batch merkle tree: %v", err)
	}
	var root [32]byte
	copy(root[:], tree.Root())

	return &ProofBatch{Proofs: proofs, MerkleRoot: root, Epoch: e}, nil
}

// VerifyBatch checks: non-empty, every proof's epoch matches the
// batch's, the recomputed Merkle root equals the batch's (constant
// time), and every contained proof individually verifies.
func VerifyBatch(v *Verifier, b *ProofBatch) bool {
	if b == nil || len(b.Proofs) == 0 {
		return false
	}
	if len(b.Proofs) > merkle.MaxBatchSize {
		return false
	}

	leaves := make([][]byte, len(b.Proofs))
	for i, p := range b.Proofs {
		if p.Epoch != b.Epoch {
			return false
		}
		leaves[i] = leafFor(p)
	}

	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return false
	}
	root := tree.Root()
	if !poseidon.ConstantTimeEq(root, b.MerkleRoot[:]) {
		return false
	}

	for _, p := range b.Proofs {
		if !v.Verify(p) {
			return false
		}
	}
	return true
}

// VerifySingleInBatch checks one proof against a batch's recorded
// Merkle root via an explicit inclusion proof, without re-verifying
// every other proof in the batch — the cheap path for a party that
// only cares about one entry.
func VerifySingleInBatch(v *Verifier, b *ProofBatch, index int) bool {
	if b == nil || index < 0 || index >= len(b.Proofs) {
		return false
	}
	p := b.Proofs[index]
	if p.Epoch != b.Epoch {
		return false
	}

	leaves := make([][]byte, len(b.Proofs))
	for i, bp := range b.Proofs {
		leaves[i] = leafFor(bp)
	}
	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return false
	}
	proof, err := tree.GenerateProof(index)
	if err != nil {
		return false
	}
	ok, err := proof.VerifyAgainst(b.MerkleRoot[:])
	if err != nil || !ok {
		return false
	}
	return v.Verify(p)
}
