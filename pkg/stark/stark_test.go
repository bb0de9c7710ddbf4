// Copyright 2025 Certen Protocol

package stark

import (
	"testing"

	"github.com/certen/zkmtd/pkg/air"
	"github.com/certen/zkmtd/pkg/field"
)

var testSeed = [32]byte{1, 2, 3, 4}

func TestProveVerifySumCompleteness(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildSumTrace([]uint64{3, 10}, []uint64{4, 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	publicValues := []uint64{3, 10, 4, 20}

	proof, err := Prove(air.SumAIR{}, tr, publicValues, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Verify(proof, air.SumAIR{}, publicValues, cfg, testSeed) {
		t.Error("expected valid sum proof to verify")
	}
}

func TestProveVerifyMultiplicationCompleteness(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildMultiplicationTrace([]uint64{3, 6}, []uint64{4, 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	publicValues := []uint64{3, 6, 4, 7}

	proof, err := Prove(air.MultiplicationAIR{}, tr, publicValues, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Verify(proof, air.MultiplicationAIR{}, publicValues, cfg, testSeed) {
		t.Error("expected valid multiplication proof to verify")
	}
}

func TestProveVerifyFibonacciCompleteness(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildFibonacciTrace(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	publicValues := []uint64{
		tr[0][0].Uint64(), tr[1][0].Uint64(),
		tr[0][7].Uint64(), tr[1][7].Uint64(),
	}

	proof, err := Prove(air.FibonacciAIR{}, tr, publicValues, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Verify(proof, air.FibonacciAIR{}, publicValues, cfg, testSeed) {
		t.Error("expected valid fibonacci proof to verify")
	}
}

func TestProveVerifyRangeCompleteness(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildRangeProofTrace(1000, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := air.NewRangeAIR()
	publicValues := []uint64{500}

	proof, err := Prove(a, tr, publicValues, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Verify(proof, a, publicValues, cfg, testSeed) {
		t.Error("expected valid range proof to verify")
	}
}

// TestForgedPublicValuesRejected builds a real trace proving
// 10+20=30, then presents it to Verify alongside public values that
// claim a=5 instead of a=10 — a different relation than the one
// actually committed. Nothing about FRI fold-consistency alone would
// catch this; only the per-row public-binding check does, since the
// fold only establishes "this committed data reduces to this root,"
// never "this data is the relation the caller claims."
func TestForgedPublicValuesRejected(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildSumTrace([]uint64{10}, []uint64{20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	forgedPublicValues := []uint64{5, 20}

	proof, err := Prove(air.SumAIR{}, tr, forgedPublicValues, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Verify(proof, air.SumAIR{}, forgedPublicValues, cfg, testSeed) {
		t.Error("expected forged public values to be rejected")
	}
}

// TestForgedFibonacciBoundaryRejected mirrors the same attack against
// Fibonacci's boundary binding: claiming a(0)=7 when the committed
// trace's actual a(0) is 0.
func TestForgedFibonacciBoundaryRejected(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildFibonacciTrace(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	forged := []uint64{7, tr[1][0].Uint64(), tr[0][7].Uint64(), tr[1][7].Uint64()}

	proof, err := Prove(air.FibonacciAIR{}, tr, forged, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Verify(proof, air.FibonacciAIR{}, forged, cfg, testSeed) {
		t.Error("expected forged fibonacci boundary to be rejected")
	}
}

// TestTamperedBaseValuesRejected simulates an adversary who alters an
// opened row's raw values after proving, without access to the
// prover's Merkle tree to produce a matching inclusion proof — the
// leaf-hash check must catch the mismatch.
func TestTamperedBaseValuesRejected(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildSumTrace([]uint64{3}, []uint64{4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	publicValues := []uint64{3, 4}

	proof, err := Prove(air.SumAIR{}, tr, publicValues, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proof.Queries) == 0 {
		t.Fatal("expected at least one query")
	}
	proof.Queries[0].BaseValues[2] = proof.Queries[0].BaseValues[2] + 1

	if Verify(proof, air.SumAIR{}, publicValues, cfg, testSeed) {
		t.Error("expected tampered base values to be rejected")
	}
}

// TestWrongAIRRejected confirms a proof built for one AIR is rejected
// when checked against a differently-shaped AIR.
func TestWrongAIRRejected(t *testing.T) {
	cfg := TestingConfig()
	tr, err := air.BuildSumTrace([]uint64{3}, []uint64{4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	publicValues := []uint64{3, 4}

	proof, err := Prove(air.SumAIR{}, tr, publicValues, cfg, testSeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Verify(proof, air.NewRangeAIR(), publicValues, cfg, testSeed) {
		t.Error("expected width-mismatched AIR to be rejected")
	}
}

// TestForgedProofWithoutWitnessRejected hand-assembles a trace that
// does not satisfy the claimed AIR at all (c != a*b) and confirms
// Prove itself refuses to produce a proof for it — the prover-side
// guard air.Check catches what would otherwise be a false relation
// with no witness backing it.
func TestForgedProofWithoutWitnessRejected(t *testing.T) {
	cfg := TestingConfig()
	trace := air.Trace{
		{field.New(3)},
		{field.New(4)},
		{field.New(99)}, // 99 != 3*4
	}
	publicValues := []uint64{3, 4}

	if _, err := Prove(air.MultiplicationAIR{}, trace, publicValues, cfg, testSeed); err == nil {
		t.Fatal("expected air.Check to reject an inconsistent trace before a proof is even built")
	}
}
