package main

import (
	"fmt"

	"github.com/vibeswap/ckb-core/internal/fixturestore"
	"github.com/vibeswap/ckb-core/pkg/pow"
)

// TraceResult summarizes one cached fixture for human-readable reporting.
type TraceResult struct {
	ScenarioID   string
	Accepted     bool
	InputLen     int
	OutputLen    int
	DigestHex    string
	Difficulty   uint8
	HasDifficulty bool
}

func hexDigest(d [32]byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, 64)
	for _, b := range d {
		out = append(out, hexdigits[b>>4], hexdigits[b&0x0f])
	}
	return string(out)
}

// Trace loads scenarioID from store and summarizes it. When the stored
// output happens to be exactly a 32-byte difficulty target (as an
// auction cell's difficulty_target field would be, if a caller chooses
// to cache just that field), it additionally reports the human-readable
// difficulty via pow.TargetToDifficulty — the inverse named in
// SPEC_FULL.md §C, used nowhere else in the core since the validator only
// ever compares targets, never renders them.
func Trace(store *fixturestore.Store, scenarioID string) (TraceResult, error) {
	v, found, err := store.Get(scenarioID)
	if err != nil {
		return TraceResult{}, err
	}
	if !found {
		return TraceResult{}, fmt.Errorf("trace: scenario %q not found", scenarioID)
	}
	res := TraceResult{
		ScenarioID: v.ScenarioID,
		Accepted:   v.Accepted,
		InputLen:   len(v.Input),
		OutputLen:  len(v.Output),
		DigestHex:  hexDigest(v.Digest),
	}
	if len(v.Output) == 32 {
		var target [32]byte
		copy(target[:], v.Output)
		res.Difficulty = pow.TargetToDifficulty(target)
		res.HasDifficulty = true
	}
	return res, nil
}
