// Copyright 2025 Certen Protocol

package envelope

import "github.com/certen/zkmtd/pkg/poseidon"

// CommittedPublicInputs is the on-chain-safe surface for a public-input
// vector that the prover does not want to disclose in the clear:
// commitment = Poseidon2(serialized_values || salt, DOMAIN_PV_COMMIT).
type CommittedPublicInputs struct {
	Commitment [32]byte
	ValueCount uint32
}

func serializeValuesLE(values []uint64) []byte {
	out := make([]byte, 0, len(values)*8)
	for _, v := range values {
		var b [8]byte
		x := v
		for i := 0; i < 8; i++ {
			b[i] = byte(x)
			x >>= 8
		}
		out = append(out, b[:]...)
	}
	return out
}

// CommitPublicInputs derives the committed form of values under salt.
func CommitPublicInputs(values []uint64, salt [32]byte) CommittedPublicInputs {
	buf := serializeValuesLE(values)
	buf = append(buf, salt[:]...)
	return CommittedPublicInputs{
		Commitment: poseidon.Hash(buf, poseidon.DomainPVCommit),
		ValueCount: uint32(len(values)),
	}
}

// Verify recomputes the commitment from candidateValues and
// candidateSalt and compares it, in constant time, to c. Per the
// commitment-binding property, this holds iff both the values and the
// salt match what originally produced c.
func (c CommittedPublicInputs) Verify(candidateValues []uint64, candidateSalt [32]byte) bool {
	recomputed := CommitPublicInputs(candidateValues, candidateSalt)
	if c.ValueCount != recomputed.ValueCount {
		return false
	}
	return poseidon.ConstantTimeEqFixed(c.Commitment, recomputed.Commitment)
}
