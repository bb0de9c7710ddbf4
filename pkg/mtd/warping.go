// Copyright 2025 Certen Protocol
//
// Package mtd implements per-epoch Moving Target Defense parameter
// derivation (WarpingParams) and its lifecycle manager (MTDManager).
package mtd

import (
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/poseidon"
	"github.com/certen/zkmtd/pkg/zkerrors"
	"github.com/google/uuid"
)

// SystemSalt is mixed into every WarpingParams derivation so that the
// same (seed, epoch) pair used by a different protocol instance still
// produces distinct parameters.
var SystemSalt = []byte("ZKMTD-v1-system-salt-2025")

// WarpingParams is the rotating parameter tuple bound to a single
// epoch: a domain separator, a salt, and a FRI seed, each 32 bytes.
// TraceID is an ambient correlation identifier (never a cryptographic
// input) used for logging and demo output.
type WarpingParams struct {
	Epoch           epoch.Epoch
	DomainSeparator [32]byte
	Salt            [32]byte
	FriSeed         [32]byte
	TraceID         uuid.UUID
}

// GenerateWarpingParams derives the parameter tuple for (seed, epoch):
//
//	base  = Poseidon2(seed || epoch_le8 || SystemSalt, DOMAIN_MTD_PARAMS)
//	domainSeparator = Poseidon2(base || "DOMAIN", DOMAIN_MTD_DOMAIN_SEP)
//	salt            = Poseidon2(base || "SALT",   DOMAIN_MTD_SALT)
//	friSeed         = Poseidon2(base || "FRI",    DOMAIN_MTD_FRI_SEED)
func GenerateWarpingParams(seed []byte, e epoch.Epoch) (WarpingParams, error) {
	if len(seed) == 0 {
		return WarpingParams{}, zkerrors.MTDError("cannot derive warping params from an empty seed")
	}

	epochBytes := e.ToBytes()
	baseInput := make([]byte, 0, len(seed)+8+len(SystemSalt))
	baseInput = append(baseInput, seed...)
	baseInput = append(baseInput, epochBytes[:]...)
	baseInput = append(baseInput, SystemSalt...)
	base := poseidon.Hash(baseInput, poseidon.DomainMTDParams)

	domainSeparator := poseidon.Hash(append(append([]byte{}, base[:]...), "DOMAIN"...), poseidon.DomainMTDDomainSepLeaf)
	salt := poseidon.Hash(append(append([]byte{}, base[:]...), "SALT"...), poseidon.DomainMTDSaltLeaf)
	friSeed := poseidon.Hash(append(append([]byte{}, base[:]...), "FRI"...), poseidon.DomainMTDFriSeedLeaf)

	return WarpingParams{
		Epoch:           e,
		DomainSeparator: domainSeparator,
		Salt:            salt,
		FriSeed:         friSeed,
		TraceID:         uuid.New(),
	}, nil
}

// ToBytes serializes a WarpingParams to its exact 104-byte wire form:
// epoch_le8 || domain_separator[32] || salt[32] || fri_seed[32].
func (p WarpingParams) ToBytes() [104]byte {
	var out [104]byte
	eb := p.Epoch.ToBytes()
	copy(out[0:8], eb[:])
	copy(out[8:40], p.DomainSeparator[:])
	copy(out[40:72], p.Salt[:])
	copy(out[72:104], p.FriSeed[:])
	return out
}

// FromBytes decodes a WarpingParams from its 104-byte wire form.
func FromBytes(b [104]byte) WarpingParams {
	var eb [8]byte
	copy(eb[:], b[0:8])
	var p WarpingParams
	p.Epoch = epoch.FromBytes(eb)
	copy(p.DomainSeparator[:], b[8:40])
	copy(p.Salt[:], b[40:72])
	copy(p.FriSeed[:], b[72:104])
	return p
}

// Equal reports whether two WarpingParams carry the same epoch and the
// same three 32-byte fields (not constant-time; for test/debug use —
// production equality checks go through constant-time comparison, see
// Manager.ParamsMatch).
func (p WarpingParams) Equal(o WarpingParams) bool {
	return p.Epoch == o.Epoch && p.DomainSeparator == o.DomainSeparator &&
		p.Salt == o.Salt && p.FriSeed == o.FriSeed
}
