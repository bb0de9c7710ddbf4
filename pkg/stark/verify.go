// Copyright 2025 Certen Protocol

package stark

import (
	"github.com/certen/zkmtd/pkg/air"
	"github.com/certen/zkmtd/pkg/field"
)

// Verify checks a Proof against an AIR, an expected public-input
// vector, folding factor, and friSeed. It returns false (never an
// error) for any adversarial outcome: a wrong claimed public input, a
// tampered commitment, an inconsistent query opening, a constraint
// violation in an opened row, or a folding mismatch. Structural
// problems with the proof itself (malformed paths, length mismatches)
// also return false, since a verifier cannot distinguish "malformed"
// from "forged" and must reject both identically.
func Verify(proof *Proof, a air.AIR, publicInputs []uint64, cfg Config, friSeed [32]byte) bool {
	if proof == nil {
		return false
	}
	if cfg.Validate() != nil {
		return false
	}
	if proof.AIRWidth != a.Width() {
		return false
	}
	if proof.FoldingFactor != cfg.FRIFoldingFactor {
		return false
	}
	if proof.PublicInputHash != HashPublicInputs(publicInputs) {
		return false
	}
	if len(proof.Roots) == 0 {
		return false
	}
	if proof.TraceHeight <= 0 {
		return false
	}

	transcript := newTranscript(friSeed, proof.PublicInputHash)
	transcript.absorb(proof.Roots[0])

	challenges := make([]field.Element, len(proof.Roots))
	for r := 0; r < len(proof.Roots); r++ {
		challenges[r] = transcript.fieldChallenge()
		if r+1 < len(proof.Roots) {
			transcript.absorb(proof.Roots[r+1])
		}
	}
	transcript.absorb(elementTo32(field.New(proof.FinalValue)))

	factor := proof.FoldingFactor
	height := proof.TraceHeight

	wantRows := selectQueryRows(transcript, height, cfg.FRIQueries, cfg.BlowupFactor)
	if len(wantRows) != len(proof.Queries) {
		return false
	}
	wantSet := make(map[int]bool, len(wantRows))
	for _, r := range wantRows {
		wantSet[r] = true
	}
	gotSet := make(map[int]bool, len(proof.Queries))
	for _, q := range proof.Queries {
		if gotSet[q.Row] {
			return false
		}
		gotSet[q.Row] = true
		if !wantSet[q.Row] {
			return false
		}
	}

	for q := 0; q < len(proof.Queries); q++ {
		if !verifyQuery(proof, a, proof.Queries[q], publicInputs, challenges, factor, height) {
			return false
		}
	}

	return true
}

func verifyQuery(proof *Proof, a air.AIR, query QueryProof, publicInputs []uint64, challenges []field.Element, factor int, height int) bool {
	if query.Row < 0 || query.Row >= height {
		return false
	}
	width := proof.AIRWidth
	if len(query.BaseValues) != width || query.BaseProof == nil {
		return false
	}
	if query.BaseProof.LeafIndex != query.Row {
		return false
	}
	root0 := proof.Roots[0]
	ok, err := query.BaseProof.VerifyAgainst(root0[:])
	if err != nil || !ok {
		return false
	}
	baseElements := make([]field.Element, width)
	for i, v := range query.BaseValues {
		baseElements[i] = field.New(v)
	}
	if !leafMatchesGroup(query.BaseProof.LeafHash, baseElements, width) {
		return false
	}

	maxOffset := a.MaxRowOffset()
	lookaheadByRow := make(map[int][]field.Element, len(query.Lookahead))
	expectedRow := query.Row
	for _, la := range query.Lookahead {
		expectedRow++
		if la.Row != expectedRow || expectedRow >= height {
			return false
		}
		if len(la.Values) != width || la.Proof == nil {
			return false
		}
		if la.Proof.LeafIndex != la.Row {
			return false
		}
		ok, err := la.Proof.VerifyAgainst(root0[:])
		if err != nil || !ok {
			return false
		}
		elements := make([]field.Element, width)
		for i, v := range la.Values {
			elements[i] = field.New(v)
		}
		if !leafMatchesGroup(la.Proof.LeafHash, elements, width) {
			return false
		}
		lookaheadByRow[la.Row] = elements
	}
	for off := 1; off <= maxOffset && query.Row+off < height; off++ {
		if _, ok := lookaheadByRow[query.Row+off]; !ok {
			return false
		}
	}

	window := buildRowWindow(width, height, query.Row, baseElements, lookaheadByRow)
	for _, residual := range a.EvaluateConstraints(window, query.Row) {
		if residual != field.Zero() {
			return false
		}
	}
	if !checkRowPublicBinding(a, publicInputs, height, query.Row, baseElements) {
		return false
	}

	if len(query.Rounds) != len(proof.Roots)-1 {
		return false
	}

	carried := foldGroup(baseElements, width, challenges[0])
	currentIdx := query.Row

	for r := 0; r < len(query.Rounds); r++ {
		round := query.Rounds[r]
		if len(round.GroupValues) != factor || round.Proof == nil {
			return false
		}

		group := currentIdx / factor
		if round.Proof.LeafIndex != group {
			return false
		}

		ok, err := round.Proof.VerifyAgainst(proof.Roots[r+1][:])
		if err != nil || !ok {
			return false
		}

		elements := make([]field.Element, factor)
		for i, v := range round.GroupValues {
			elements[i] = field.New(v)
		}
		if !leafMatchesGroup(round.Proof.LeafHash, elements, factor) {
			return false
		}

		posInGroup := currentIdx % factor
		if elements[posInGroup] != carried {
			return false
		}

		carried = foldGroup(elements, factor, challenges[r+1])
		currentIdx = group
	}

	return carried.Uint64() == proof.FinalValue
}

// buildRowWindow reconstructs a sparse, full-height air.Trace with only
// the opened row (and its lookahead rows) populated; every concrete
// AIR's EvaluateConstraints(t, row) only ever reads absolute positions
// in row, row+1, ..., row+a.MaxRowOffset() for its transition checks,
// or row 0/height-1 for boundary checks (which are only consulted when
// row itself equals them), so this sparse reconstruction is sufficient.
func buildRowWindow(width, height, row int, base []field.Element, lookahead map[int][]field.Element) air.Trace {
	cols := make([][]field.Element, width)
	for c := 0; c < width; c++ {
		cols[c] = make([]field.Element, height)
	}
	for c := 0; c < width; c++ {
		cols[c][row] = base[c]
	}
	for r, values := range lookahead {
		for c := 0; c < width; c++ {
			cols[c][r] = values[c]
		}
	}
	return air.Trace(cols)
}

// checkRowPublicBinding ties a queried row's opened values back to the
// proof's claimed public inputs, per AIR. Without this check nothing
// connects PublicValues to the committed trace.
func checkRowPublicBinding(a air.AIR, publicInputs []uint64, height, row int, rowElements []field.Element) bool {
	switch t := a.(type) {
	case air.FibonacciAIR:
		if len(publicInputs) != 4 {
			return false
		}
		if row == 0 {
			return rowElements[0].Uint64() == publicInputs[0] && rowElements[1].Uint64() == publicInputs[1]
		}
		if row == height-1 {
			return rowElements[0].Uint64() == publicInputs[2] && rowElements[1].Uint64() == publicInputs[3]
		}
		return true
	case air.SumAIR, air.MultiplicationAIR:
		n := len(publicInputs) / 2
		if len(publicInputs) != 2*n || n == 0 {
			return false
		}
		if row >= n {
			return true
		}
		return rowElements[0].Uint64() == publicInputs[row] && rowElements[1].Uint64() == publicInputs[n+row]
	case air.RangeAIR:
		if len(publicInputs) != 1 {
			return false
		}
		return rowElements[t.ThresholdIdx()].Uint64() == publicInputs[0]
	default:
		return false
	}
}

func foldGroup(elements []field.Element, factor int, c field.Element) field.Element {
	acc := field.Zero()
	power := field.One()
	for i := 0; i < factor; i++ {
		acc = acc.Add(elements[i].Mul(power))
		power = power.Mul(c)
	}
	return acc
}

func leafMatchesGroup(leafHashHex string, elements []field.Element, factor int) bool {
	buf := make([]byte, 0, factor*8)
	for i := 0; i < factor; i++ {
		b := elements[i].ToBytesLE()
		buf = append(buf, b[:]...)
	}
	expected := hashLeafHex(buf)
	return leafHashHex == expected
}
