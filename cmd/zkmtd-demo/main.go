// Copyright 2025 Certen Protocol
//
// zkmtd-demo is a small command-line exerciser for the zkmtd proving
// and verification library. It is not part of the core's public
// surface: it wires flags to library calls and prints JSON, mirroring
// the donor repository's own cmd/ entry points.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/certen/zkmtd/pkg/compress"
	"github.com/certen/zkmtd/pkg/envelope"
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/onchain"
	"github.com/certen/zkmtd/pkg/stark"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "prove-fibonacci":
		cmdProveFibonacci(os.Args[2:])
	case "prove-range":
		cmdProveRange(os.Args[2:])
	case "batch":
		cmdBatch(os.Args[2:])
	case "compress":
		cmdCompress(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: zkmtd-demo <prove-fibonacci|prove-range|batch|compress> [flags]")
}

func cmdProveFibonacci(args []string) {
	fs := flag.NewFlagSet("prove-fibonacci", flag.ExitOnError)
	seed := fs.String("seed", "zkmtd-demo-seed", "MTD seed")
	epochVal := fs.Uint64("epoch", 100, "epoch")
	numRows := fs.Int("rows", 8, "trace height, power of two >= 2")
	fs.Parse(args)

	salt := [32]byte{42}
	p, err := envelope.NewProverWithEpoch([]byte(*seed), stark.TestingConfig(), epoch.New(*epochVal))
	must(err)

	proof, err := p.ProveFibonacci(*numRows, salt)
	must(err)

	v := envelope.NewVerifierFromProver(p)
	ok := v.Verify(proof)

	printJSON(map[string]any{
		"air_type":      proof.AIRType.String(),
		"num_rows":      proof.NumRows(),
		"public_values": proof.PublicValues,
		"epoch":         proof.Epoch.Value(),
		"binding_hash":  hex.EncodeToString(proof.BindingHash[:]),
		"verified":      ok,
	})
}

func cmdProveRange(args []string) {
	fs := flag.NewFlagSet("prove-range", flag.ExitOnError)
	seed := fs.String("seed", "zkmtd-demo-seed", "MTD seed")
	epochVal := fs.Uint64("epoch", 100, "epoch")
	value := fs.Uint64("value", 1000, "secret value")
	threshold := fs.Uint64("threshold", 500, "public threshold")
	fs.Parse(args)

	salt := [32]byte{42}
	p, err := envelope.NewProverWithEpoch([]byte(*seed), stark.TestingConfig(), epoch.New(*epochVal))
	must(err)

	proof, err := p.ProveRange(*value, *threshold, salt)
	must(err)

	v := envelope.NewVerifierFromProver(p)
	ok := v.Verify(proof)

	onchainVerifier := onchain.NewOnchainVerifier(p.MTD().CurrentEpoch(), proof.Committed.Commitment)
	lw := onchain.FromIntegratedProof(proof, proof.Epoch.StartTimestamp())
	status := onchainVerifier.Verify(lw)

	printJSON(map[string]any{
		"air_type":           proof.AIRType.String(),
		"threshold":          *threshold,
		"full_verified":      ok,
		"lightweight_status": status,
	})
}

func cmdBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	seed := fs.String("seed", "zkmtd-demo-seed", "MTD seed")
	epochVal := fs.Uint64("epoch", 100, "epoch")
	fs.Parse(args)

	salt := [32]byte{42}
	p, err := envelope.NewProverWithEpoch([]byte(*seed), stark.TestingConfig(), epoch.New(*epochVal))
	must(err)

	builders := []func(*envelope.Prover) (*envelope.IntegratedProof, error){
		func(p *envelope.Prover) (*envelope.IntegratedProof, error) { return p.ProveFibonacci(2, salt) },
		func(p *envelope.Prover) (*envelope.IntegratedProof, error) { return p.ProveFibonacci(4, salt) },
		func(p *envelope.Prover) (*envelope.IntegratedProof, error) { return p.ProveFibonacci(8, salt) },
	}
	batch, err := envelope.ProveBatch(p, builders)
	must(err)

	v := envelope.NewVerifierFromProver(p)
	ok := envelope.VerifyBatch(v, batch)

	printJSON(map[string]any{
		"batch_size":  len(batch.Proofs),
		"merkle_root": hex.EncodeToString(batch.MerkleRoot[:]),
		"epoch":       batch.Epoch.Value(),
		"verified":    ok,
	})
}

func cmdCompress(args []string) {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	input := fs.String("input", "the quick brown fox jumps over the lazy dog", "data to round-trip")
	epochVal := fs.Uint64("epoch", 100, "epoch tag")
	fs.Parse(args)

	w, err := compress.Compress([]byte(*input), *epochVal)
	must(err)

	decoded, err := compress.Decompress(w)
	must(err)

	printJSON(map[string]any{
		"original_size":   w.OriginalSize,
		"compressed_size": len(w.Data),
		"checksum":        hex.EncodeToString(w.Checksum[:]),
		"round_trip_ok":   string(decoded) == *input,
	})
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	must(err)
	fmt.Println(string(b))
}
