// Copyright 2025 Certen Protocol

package envelope

import (
	"github.com/certen/zkmtd/pkg/air"
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/mtd"
	"github.com/certen/zkmtd/pkg/poseidon"
	"github.com/certen/zkmtd/pkg/stark"
)

// Verifier checks IntegratedProof envelopes against a trusted epoch and
// WarpingParams anchor — typically a Manager synchronized to the same
// seed as the prover, or explicit values read from chain state.
type Verifier struct {
	mgr *mtd.Manager
	cfg stark.Config
}

// NewVerifierFromProver lends a Verifier a by-value copy of the
// prover's current epoch/params anchor. Operations against the
// returned Verifier never mutate the issuing Prover.
func NewVerifierFromProver(p *Prover) *Verifier {
	mgr := *p.mgr
	mgr.ClearCache()
	return &Verifier{mgr: &mgr, cfg: p.cfg}
}

// NewVerifier constructs a Verifier anchored to an explicit seed and
// epoch (e.g. a verifier reconstructing trusted params from chain
// state rather than holding a live Prover handle).
func NewVerifier(seed []byte, e epoch.Epoch, cfg stark.Config) (*Verifier, error) {
	mgr, err := mtd.WithEpoch(seed, e)
	if err != nil {
		return nil, err
	}
	return &Verifier{mgr: mgr, cfg: cfg}, nil
}

// MTD exposes the verifier's MTDManager.
func (v *Verifier) MTD() *mtd.Manager { return v.mgr }

// Verify checks an envelope in the order specified by §4.6: epoch
// match, params match (constant-time), recomputed binding hash match
// (constant-time), public-values consistency, then inner STARK
// verification. Every step short-circuits to false on the first
// failure — adversarial outcomes never return an error.
func (v *Verifier) Verify(p *IntegratedProof) bool {
	return v.verifyAgainst(p, v.mgr.CurrentEpoch(), v.mgr.CurrentParams())
}

// VerifyWithParams lets the caller supply the trusted epoch/params
// anchor explicitly, rather than reading it from the Verifier's own
// MTDManager — the path a verifier reading anchors from chain state
// would take.
func (v *Verifier) VerifyWithParams(p *IntegratedProof, expectedEpoch epoch.Epoch, expectedParams mtd.WarpingParams) bool {
	return v.verifyAgainst(p, expectedEpoch, expectedParams)
}

// VerifyWithSalt additionally recomputes the committed-public-inputs
// commitment from candidateValues and salt and compares it to the
// envelope's commitment, before running the ordinary Verify checks.
// It returns false once the envelope's salt has been erased (see
// EraseSalt), whatever salt the caller supplies.
func (v *Verifier) VerifyWithSalt(p *IntegratedProof, candidateValues []uint64, salt [32]byte) bool {
	if p == nil || p.salt == nil {
		return false
	}
	if !p.Committed.Verify(candidateValues, salt) {
		return false
	}
	return v.Verify(p)
}

func (v *Verifier) verifyAgainst(p *IntegratedProof, expectedEpoch epoch.Epoch, expectedParams mtd.WarpingParams) bool {
	if p == nil || p.StarkProof == nil {
		return false
	}

	// 1. Envelope epoch == verifier's current epoch.
	if p.Epoch != expectedEpoch {
		return false
	}

	// 2. Envelope params == verifier's current params, constant-time.
	ours := expectedParams.ToBytes()
	theirs := p.Params.ToBytes()
	if !poseidon.ConstantTimeEq(ours[:], theirs[:]) {
		return false
	}

	// 3. Recomputed binding == envelope's binding, constant-time.
	recomputed := computeBindingHash(p.AIRType, p.PublicValues, p.Committed, p.Epoch, p.Params)
	if !poseidon.ConstantTimeEqFixed(recomputed, p.BindingHash) {
		return false
	}

	// 4. Public-values consistency, AIR-type specific.
	if !checkPublicValuesConsistency(p.AIRType, p.PublicValues, p.NumRows()) {
		return false
	}

	// 5. Inner STARK verification.
	a, ok := airForType(p.AIRType)
	if !ok {
		return false
	}
	return stark.Verify(p.StarkProof, a, p.PublicValues, v.cfg, p.Params.FriSeed)
}

// airForType resolves the concrete air.AIR a catalog AIRType proves,
// so the inner STARK verification can re-evaluate its constraints
// against the opened trace rows.
func airForType(t AIRType) (air.AIR, bool) {
	switch t {
	case AIRFibonacci:
		return air.FibonacciAIR{}, true
	case AIRSum:
		return air.SumAIR{}, true
	case AIRMultiplication:
		return air.MultiplicationAIR{}, true
	case AIRRange:
		return air.NewRangeAIR(), true
	default:
		return nil, false
	}
}

// checkPublicValuesConsistency recomputes expected boundary values
// from numRows in software for AIRs whose public values are fully
// determined by the trace height (Fibonacci); Sum/Multiplication/Range
// carry caller-supplied public values with no independent
// recomputation, per §4.5.
func checkPublicValuesConsistency(t AIRType, publicValues []uint64, numRows int) bool {
	switch t {
	case AIRFibonacci:
		if len(publicValues) != 4 {
			return false
		}
		if numRows < 2 {
			return false
		}
		expected := fibonacciBoundaryValues(numRows)
		for i := range expected {
			if expected[i] != publicValues[i] {
				return false
			}
		}
		return true
	case AIRSum, AIRMultiplication, AIRRange:
		return true
	default:
		return false
	}
}

// fibonacciBoundaryValues recomputes [0, 1, F(n-1) mod p, F(n) mod p]
// directly from n, independent of any trace, matching the verifier
// contract's "recompute in software" requirement.
func fibonacciBoundaryValues(n int) [4]uint64 {
	a, b := field.Zero(), field.One()
	for i := 0; i < n-1; i++ {
		a, b = b, a.Add(b)
	}
	// After the loop, a == F(n-1), b == F(n).
	return [4]uint64{0, 1, a.Uint64(), b.Uint64()}
}
