// Copyright 2025 Certen Protocol

package envelope

import (
	"github.com/certen/zkmtd/pkg/air"
	"github.com/certen/zkmtd/pkg/entropy"
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/mtd"
	"github.com/certen/zkmtd/pkg/stark"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// Prover owns an MTDManager and a STARK configuration, and produces
// IntegratedProof envelopes for each of the four catalog AIRs. It
// exclusively owns its MTDManager; a Verifier is lent a copy of the
// manager's state by value on demand (see NewVerifierFromProver).
type Prover struct {
	mgr *mtd.Manager
	cfg stark.Config
}

// NewProver constructs a Prover whose MTDManager seeds its epoch from
// the wall clock and auto-advances; src must be a cryptographically
// secure entropy source (required by mtd.New, even though the seed
// itself is caller-supplied — the entropy source guards auxiliary
// randomness such as salts a caller draws before calling Prove*).
func NewProver(seed []byte, cfg stark.Config, src entropy.Source) (*Prover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mgr, err := mtd.New(seed, src)
	if err != nil {
		return nil, err
	}
	return &Prover{mgr: mgr, cfg: cfg}, nil
}

// NewProverWithEpoch constructs a Prover pinned to an explicit epoch,
// with MTD auto-advance disabled.
func NewProverWithEpoch(seed []byte, cfg stark.Config, e epoch.Epoch) (*Prover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mgr, err := mtd.WithEpoch(seed, e)
	if err != nil {
		return nil, err
	}
	return &Prover{mgr: mgr, cfg: cfg}, nil
}

// MTD exposes the prover's MTDManager for epoch control
// (CurrentEpoch, Advance, Sync, GetParams, ...).
func (p *Prover) MTD() *mtd.Manager { return p.mgr }

// Config returns the prover's STARK configuration.
func (p *Prover) Config() stark.Config { return p.cfg }

func (p *Prover) seal(airType AIRType, starkProof *stark.Proof, publicValues []uint64, salt [32]byte) *IntegratedProof {
	params := p.mgr.CurrentParams()
	committed := CommitPublicInputs(publicValues, salt)
	binding := computeBindingHash(airType, publicValues, committed, p.mgr.CurrentEpoch(), params)
	saltCopy := salt
	return &IntegratedProof{
		StarkProof:   starkProof,
		AIRType:      airType,
		Epoch:        p.mgr.CurrentEpoch(),
		Params:       params,
		BindingHash:  binding,
		Committed:    committed,
		PublicValues: append([]uint64{}, publicValues...),
		salt:         &saltCopy,
	}
}

// ProveFibonacci proves that the Fibonacci recurrence holds over a
// trace of numRows rows starting from (0, 1), per §4.4/§4.5. numRows
// must be a power of two, >= 2. Public values are [0, 1, F(numRows-1)
// mod p, F(numRows) mod p], read directly off the trace's boundary
// rows rather than recomputed independently of it.
func (p *Prover) ProveFibonacci(numRows int, salt [32]byte) (*IntegratedProof, error) {
	trace, err := air.BuildFibonacciTrace(numRows)
	if err != nil {
		return nil, err
	}
	a := air.FibonacciAIR{}

	last := numRows - 1
	publicValues := []uint64{
		trace[0][0].Uint64(), trace[1][0].Uint64(),
		trace[0][last].Uint64(), trace[1][last].Uint64(),
	}

	params := p.mgr.CurrentParams()
	starkProof, err := stark.Prove(a, trace, publicValues, p.cfg, params.FriSeed)
	if err != nil {
		return nil, zkerrors.ProofGenerationFailed("fibonacci: %v", err)
	}
	return p.seal(AIRFibonacci, starkProof, publicValues, salt), nil
}

// ProveSum proves that c[i] = a[i] + b[i] for every row, with public
// values caller-supplied as (a, b) flattened: [a..., b...].
func (p *Prover) ProveSum(a, b []uint64, salt [32]byte) (*IntegratedProof, error) {
	trace, err := air.BuildSumTrace(a, b)
	if err != nil {
		return nil, err
	}
	publicValues := make([]uint64, 0, len(a)+len(b))
	publicValues = append(publicValues, a...)
	publicValues = append(publicValues, b...)

	params := p.mgr.CurrentParams()
	starkProof, err := stark.Prove(air.SumAIR{}, trace, publicValues, p.cfg, params.FriSeed)
	if err != nil {
		return nil, zkerrors.ProofGenerationFailed("sum: %v", err)
	}
	return p.seal(AIRSum, starkProof, publicValues, salt), nil
}

// ProveMultiplication proves that c[i] = a[i] * b[i] for every row.
func (p *Prover) ProveMultiplication(a, b []uint64, salt [32]byte) (*IntegratedProof, error) {
	trace, err := air.BuildMultiplicationTrace(a, b)
	if err != nil {
		return nil, err
	}
	publicValues := make([]uint64, 0, len(a)+len(b))
	publicValues = append(publicValues, a...)
	publicValues = append(publicValues, b...)

	params := p.mgr.CurrentParams()
	starkProof, err := stark.Prove(air.MultiplicationAIR{}, trace, publicValues, p.cfg, params.FriSeed)
	if err != nil {
		return nil, zkerrors.ProofGenerationFailed("multiplication: %v", err)
	}
	return p.seal(AIRMultiplication, starkProof, publicValues, salt), nil
}

// ProveRange proves value >= threshold without revealing value, per
// §4.4. Public values are [threshold] (value itself stays hidden
// behind the STARK and the committed public inputs); callers that also
// want the threshold committed rather than plaintext should commit it
// separately via CommitPublicInputs.
func (p *Prover) ProveRange(value, threshold uint64, salt [32]byte) (*IntegratedProof, error) {
	witness := NewWitness([]uint64{value})
	defer witness.Zeroize()

	trace, err := air.BuildRangeProofTrace(witness.Values()[0], threshold)
	if err != nil {
		return nil, err
	}
	publicValues := []uint64{threshold}

	params := p.mgr.CurrentParams()
	starkProof, err := stark.Prove(air.NewRangeAIR(), trace, publicValues, p.cfg, params.FriSeed)
	if err != nil {
		return nil, zkerrors.ProofGenerationFailed("range: %v", err)
	}
	return p.seal(AIRRange, starkProof, publicValues, salt), nil
}
