package main

import (
	"encoding/hex"
	"fmt"

	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/validators/auction"
	"github.com/vibeswap/ckb-core/validators/commit"
	"github.com/vibeswap/ckb-core/validators/compliance"
	"github.com/vibeswap/ckb-core/validators/config"
	"github.com/vibeswap/ckb-core/validators/lpposition"
	"github.com/vibeswap/ckb-core/validators/oracle"
	"github.com/vibeswap/ckb-core/validators/pool"
)

// Request is the JSON-over-stdin conformance request: which validator to
// run ("kind"), the old/new cell bytes as hex, and the current block
// height. It deliberately carries only the subset of each validator's
// Input struct that is representable as plain JSON scalars — richer
// inputs (reveal witnesses, MMR peaks) are exercised directly by the Go
// test suites, not this CLI, matching the teacher's own
// rubin-consensus-cli scope (single-shot structural checks, not full
// transaction replay).
type Request struct {
	Kind         string `json:"kind"`
	OldHex       string `json:"old_hex,omitempty"`
	NewHex       string `json:"new_hex,omitempty"`
	CurrentBlock uint64 `json:"current_block,omitempty"`
}

// Response mirrors the teacher's rubin-consensus-cli Response shape: a
// bool outcome plus an optional tagged error code.
type Response struct {
	Ok   bool   `json:"ok"`
	Code string `json:"code,omitempty"`
	Err  string `json:"err,omitempty"`
}

func decodeHexOrNil(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

// Run dispatches req.Kind to the matching validator and renders the
// result as a Response. It never panics: a malformed request yields a
// Response with Ok=false and a populated Err, mirroring the "return code,
// never throw" discipline the validators themselves follow (spec §5).
func Run(req Request) Response {
	oldBytes, err := decodeHexOrNil(req.OldHex)
	if err != nil {
		return Response{Ok: false, Err: fmt.Sprintf("bad old_hex: %v", err)}
	}
	newBytes, err := decodeHexOrNil(req.NewHex)
	if err != nil {
		return Response{Ok: false, Err: fmt.Sprintf("bad new_hex: %v", err)}
	}

	var verr error
	switch req.Kind {
	case "auction":
		verr = auction.Validate(oldBytes, newBytes, auction.Input{CurrentBlock: req.CurrentBlock})
	case "pool":
		verr = pool.Validate(oldBytes, newBytes, pool.Input{CurrentBlock: req.CurrentBlock})
	case "commit":
		verr = commit.ValidateCreation(newBytes, commit.Input{})
	case "compliance":
		verr = compliance.ValidateUpdate(oldBytes, newBytes, compliance.Input{CurrentBlock: req.CurrentBlock})
	case "config":
		verr = config.Validate(oldBytes, newBytes, config.Input{CurrentBlock: req.CurrentBlock})
	case "oracle":
		verr = oracle.ValidateUpdate(oldBytes, newBytes, oracle.Input{CurrentBlock: req.CurrentBlock})
	case "lpposition":
		if oldBytes == nil {
			verr = lpposition.ValidateCreation(newBytes)
		} else {
			verr = lpposition.ValidateUpdate(oldBytes, newBytes)
		}
	default:
		return Response{Ok: false, Err: fmt.Sprintf("unknown kind %q", req.Kind)}
	}

	if verr == nil {
		return Response{Ok: true}
	}
	if ve, ok := verr.(*errs.ValidationError); ok {
		return Response{Ok: false, Code: string(ve.Code), Err: ve.Msg}
	}
	return Response{Ok: false, Err: verr.Error()}
}
