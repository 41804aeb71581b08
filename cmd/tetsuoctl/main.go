// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// tetsuoctl drives the verification engine from the command line:
// commitments, nullifiers, single-proof verification, and batch
// verification of proof files against a verifying key.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/luxfi/tetsuo-verify/engine"
	"github.com/luxfi/tetsuo-verify/field"
	"github.com/luxfi/tetsuo-verify/groth16verify"
	"github.com/luxfi/tetsuo-verify/poseidon"
	"github.com/luxfi/tetsuo-verify/reputation"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(stderr io.Writer) {
	fmt.Fprintln(stderr, "usage: tetsuoctl <commit|nullifier|tier|verify|batch-verify> [flags]")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	switch args[0] {
	case "commit":
		commitCmd := flag.NewFlagSet("commit", flag.ContinueOnError)
		commitCmd.SetOutput(stderr)

		var score uint
		var secretHex string
		commitCmd.UintVar(&score, "score", 0, "reputation score (0-10000)")
		commitCmd.StringVar(&secretHex, "secret", "", "32-byte secret, hex")
		if err := commitCmd.Parse(args[1:]); err != nil {
			return 2
		}

		secret, ok := parse32(stderr, secretHex, "-secret")
		if !ok {
			return 2
		}

		c, err := reputation.Commit(uint16(score), secret)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintln(stdout, hex.EncodeToString(c[:]))
		return 0

	case "nullifier":
		nullCmd := flag.NewFlagSet("nullifier", flag.ContinueOnError)
		nullCmd.SetOutput(stderr)

		var pkHex string
		var nonce uint64
		nullCmd.StringVar(&pkHex, "pk", "", "32-byte agent public key, hex")
		nullCmd.Uint64Var(&nonce, "nonce", 0, "nullifier nonce")
		if err := nullCmd.Parse(args[1:]); err != nil {
			return 2
		}

		pk, ok := parse32(stderr, pkHex, "-pk")
		if !ok {
			return 2
		}

		n := poseidon.Nullifier(field.FromBytes(pk[:]), nonce)
		out := field.ToBytes(n)
		fmt.Fprintln(stdout, hex.EncodeToString(out[:]))
		return 0

	case "tier":
		tierCmd := flag.NewFlagSet("tier", flag.ContinueOnError)
		tierCmd.SetOutput(stderr)

		var score uint
		tierCmd.UintVar(&score, "score", 0, "reputation score (0-10000)")
		if err := tierCmd.Parse(args[1:]); err != nil {
			return 2
		}

		fmt.Fprintln(stdout, reputation.TierOf(uint16(score)))
		return 0

	case "verify":
		verifyCmd := flag.NewFlagSet("verify", flag.ContinueOnError)
		verifyCmd.SetOutput(stderr)

		var vkPath, proofPath string
		var now uint64
		var maxAge uint64
		verifyCmd.StringVar(&vkPath, "vk", "", "verifying key blob file")
		verifyCmd.StringVar(&proofPath, "proof", "", "wire proof file")
		verifyCmd.Uint64Var(&now, "now", 0, "current time for expiry checks (0 disables)")
		verifyCmd.Uint64Var(&maxAge, "max-age", 0, "maximum proof age in seconds (0 disables)")
		if err := verifyCmd.Parse(args[1:]); err != nil {
			return 2
		}

		if vkPath == "" || proofPath == "" {
			fmt.Fprintln(stderr, "error: -vk and -proof are required")
			verifyCmd.Usage()
			return 2
		}

		ctx, err := newContext(vkPath, uint32(now), uint32(maxAge))
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}

		wire, err := os.ReadFile(proofPath)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}

		r := ctx.VerifyProof(wire)
		fmt.Fprintln(stdout, r)
		if r != groth16verify.ResultOK {
			return 1
		}
		return 0

	case "batch-verify":
		batchCmd := flag.NewFlagSet("batch-verify", flag.ContinueOnError)
		batchCmd.SetOutput(stderr)

		var vkPath string
		var now uint64
		var maxAge uint64
		batchCmd.StringVar(&vkPath, "vk", "", "verifying key blob file")
		batchCmd.Uint64Var(&now, "now", 0, "current time for expiry checks (0 disables)")
		batchCmd.Uint64Var(&maxAge, "max-age", 0, "maximum proof age in seconds (0 disables)")
		if err := batchCmd.Parse(args[1:]); err != nil {
			return 2
		}

		proofPaths := batchCmd.Args()
		if vkPath == "" || len(proofPaths) == 0 {
			fmt.Fprintln(stderr, "error: -vk and at least one proof file are required")
			batchCmd.Usage()
			return 2
		}

		ctx, err := newContext(vkPath, uint32(now), uint32(maxAge))
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}

		batch := ctx.NewBatch(len(proofPaths))
		for _, p := range proofPaths {
			wire, err := os.ReadFile(p)
			if err != nil {
				fmt.Fprintln(stderr, "error:", err)
				return 1
			}
			if err := batch.Add(wire); err != nil {
				fmt.Fprintf(stderr, "error: %s: %v\n", p, err)
				return 1
			}
		}

		results, err := batch.Verify()
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}

		exit := 0
		for i, r := range results {
			fmt.Fprintf(stdout, "%s: %s\n", proofPaths[i], r)
			if r != groth16verify.ResultOK {
				exit = 1
			}
		}
		return exit

	default:
		usage(stderr)
		return 2
	}
}

func newContext(vkPath string, now, maxAge uint32) (*engine.Context, error) {
	blob, err := os.ReadFile(vkPath)
	if err != nil {
		return nil, err
	}

	ctx := engine.New(nil)
	if err := ctx.LoadVerifyingKey(blob); err != nil {
		return nil, err
	}
	if now > 0 {
		ctx.SetTime(now)
	}
	if maxAge > 0 {
		ctx.SetMaxProofAge(maxAge)
	}
	return ctx, nil
}

func parse32(stderr io.Writer, s, name string) ([32]byte, bool) {
	var out [32]byte
	if s == "" {
		fmt.Fprintf(stderr, "error: %s is required\n", name)
		return out, false
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		fmt.Fprintf(stderr, "error: %s must be 64 hex characters\n", name)
		return out, false
	}
	copy(out[:], b)
	return out, true
}
