// Copyright 2025 Certen Protocol

package stark

import (
	"encoding/hex"

	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/merkle"
	"github.com/certen/zkmtd/pkg/poseidon"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// padToFactorPower pads layer with zero elements until its length is
// factor^k for some k, so repeated folding by factor always divides
// evenly down to a single element.
func padToFactorPower(layer []field.Element, factor int) []field.Element {
	n := 1
	for n < len(layer) {
		n *= factor
	}
	if n == len(layer) {
		return layer
	}
	out := make([]field.Element, n)
	copy(out, layer)
	for i := len(layer); i < n; i++ {
		out[i] = field.Zero()
	}
	return out
}

// foldLayer combines every consecutive run of factor elements into one,
// via c^i-weighted summation (a Horner-style random linear combination).
func foldLayer(layer []field.Element, factor int, c field.Element) []field.Element {
	groups := len(layer) / factor
	next := make([]field.Element, groups)
	for g := 0; g < groups; g++ {
		acc := field.Zero()
		power := field.One()
		for i := 0; i < factor; i++ {
			acc = acc.Add(layer[g*factor+i].Mul(power))
			power = power.Mul(c)
		}
		next[g] = acc
	}
	return next
}

// groupLeafBytes serializes a fold-group's elements for leaf hashing.
func groupLeafBytes(layer []field.Element, factor, group int) []byte {
	buf := make([]byte, 0, factor*8)
	for i := 0; i < factor; i++ {
		b := layer[group*factor+i].ToBytesLE()
		buf = append(buf, b[:]...)
	}
	return buf
}

// hashLeafHex returns the hex-encoded Poseidon2 leaf hash for a
// fold-group's serialized bytes, matching the encoding merkle.Tree
// stores its leaf hashes in.
func hashLeafHex(groupBytes []byte) string {
	h := poseidon.Hash(groupBytes, poseidon.DomainFRICommit)
	return hex.EncodeToString(h[:])
}

// commitLayer builds the Merkle tree of fold-group leaves for layer and
// returns its root alongside the tree itself (retained so the prover
// can answer queries against it).
func commitLayer(layer []field.Element, factor int) (*merkle.Tree, [32]byte, error) {
	groups := len(layer) / factor
	leaves := make([][]byte, groups)
	for g := 0; g < groups; g++ {
		h := poseidon.Hash(groupLeafBytes(layer, factor, g), poseidon.DomainFRICommit)
		leaves[g] = h[:]
	}
	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return nil, [32]byte{}, zkerrors.InternalError("committing FRI layer: %v", err)
	}
	var root [32]byte
	copy(root[:], tree.Root())
	return tree, root, nil
}

// QueryRound is one round's opening within a single FRI query: the raw
// values of the fold group containing the queried index, plus the
// Merkle inclusion proof that this group was the one actually
// committed to at that round.
type QueryRound struct {
	GroupValues []uint64               `json:"group_values"`
	Proof       *merkle.InclusionProof `json:"proof"`
}

// RowOpening is a Merkle-authenticated opening of one raw trace row,
// used to give a verifier the neighboring rows an AIR's transition
// constraint reads beyond the row actually being queried.
type RowOpening struct {
	Row    int                    `json:"row"`
	Values []uint64               `json:"values"`
	Proof  *merkle.InclusionProof `json:"proof"`
}

// QueryProof is a single FRI query anchored at a trace row: the row's
// own raw values (opened against the row-commitment root so the
// verifier can evaluate the AIR's constraints directly), any lookahead
// rows the AIR's transition constraint also reads, and the ordinary
// fold-chain openings binding that row into FinalValue.
type QueryProof struct {
	Row        int                    `json:"row"`
	BaseValues []uint64               `json:"base_values"`
	BaseProof  *merkle.InclusionProof `json:"base_proof"`
	Lookahead  []RowOpening           `json:"lookahead"`
	Rounds     []QueryRound           `json:"rounds"`
}
