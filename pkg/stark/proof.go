// Copyright 2025 Certen Protocol

package stark

import "github.com/certen/zkmtd/pkg/poseidon"

// Proof is a complete FRI-based STARK proof over one AIR execution
// trace. Roots[0] commits the raw trace, one row per leaf; the
// remaining roots commit successive random-linear-combination folds of
// the per-row values down to FinalValue. Each Queries entry opens a
// trace row directly (plus any neighboring rows its AIR's transition
// constraint reads) so the verifier both re-evaluates the AIR's
// constraints in the clear and checks the row folds consistently into
// FinalValue — binding constraint satisfaction into the proof itself
// rather than trusting an out-of-band recomputation.
type Proof struct {
	AIRWidth        int          `json:"air_width"`
	TraceHeight     int          `json:"trace_height"`
	FoldingFactor   int          `json:"folding_factor"`
	Roots           [][32]byte   `json:"roots"`
	FinalValue      uint64       `json:"final_value"`
	PublicInputHash [32]byte     `json:"public_input_hash"`
	Queries         []QueryProof `json:"queries"`
}

// HashPublicInputs derives the canonical digest of a public-input
// vector, used both to bind a Proof to its claimed inputs and as part
// of the Fiat-Shamir transcript seed.
func HashPublicInputs(values []uint64) [32]byte {
	buf := make([]byte, 0, len(values)*8)
	for _, v := range values {
		var b [8]byte
		x := v
		for i := 0; i < 8; i++ {
			b[i] = byte(x)
			x >>= 8
		}
		buf = append(buf, b[:]...)
	}
	return poseidon.Hash(buf, poseidon.DomainTracePublicInput)
}
