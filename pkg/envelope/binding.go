// Copyright 2025 Certen Protocol

package envelope

import (
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/mtd"
	"github.com/certen/zkmtd/pkg/poseidon"
)

// computeBindingHash is the single canonical binding-hash computation
// used by both Prover and Verifier:
//
//	data := air_type_tag
//	     || concat(pv.le_bytes(8) for pv in publicValues)
//	     || committed.Commitment
//	     || value_count.le_bytes(4)
//	     || epoch.le_bytes(8)
//	     || params.DomainSeparator
//	     || params.FriSeed
//	     || params.Salt
//	binding_hash := Poseidon2(data, DOMAIN_BINDING)
//
// The AIR-type tag leading the data prevents a proof produced for one
// AIR from being re-tagged and verified as another.
func computeBindingHash(airType AIRType, publicValues []uint64, committed CommittedPublicInputs, e epoch.Epoch, params mtd.WarpingParams) [32]byte {
	data := make([]byte, 0, 1+len(publicValues)*8+32+4+8+32+32+32)
	data = append(data, byte(airType))
	data = append(data, serializeValuesLE(publicValues)...)
	data = append(data, committed.Commitment[:]...)

	var vc [4]byte
	v := committed.ValueCount
	for i := 0; i < 4; i++ {
		vc[i] = byte(v)
		v >>= 8
	}
	data = append(data, vc[:]...)

	eb := e.ToBytes()
	data = append(data, eb[:]...)
	data = append(data, params.DomainSeparator[:]...)
	data = append(data, params.FriSeed[:]...)
	data = append(data, params.Salt[:]...)

	return poseidon.Hash(data, poseidon.DomainBinding)
}
