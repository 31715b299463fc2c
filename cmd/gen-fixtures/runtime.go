package main

import (
	"crypto/sha256"
	"fmt"

	"github.com/vibeswap/ckb-core/internal/fixturestore"
	"github.com/vibeswap/ckb-core/pkg/arith"
	"github.com/vibeswap/ckb-core/pkg/mmr"
	"github.com/vibeswap/ckb-core/pkg/shuffle"
	"github.com/vibeswap/ckb-core/pkg/types"
	"github.com/vibeswap/ckb-core/validators/auction"
)

// scale widens a whole-token uint64 amount into its 18-decimal
// fixed-point U128 representation.
func scale(whole uint64) arith.U128 {
	out, err := arith.U128FromUint256(arith.WideMul(arith.U128FromUint64(whole), types.PrecisionU128))
	if err != nil {
		panic(fmt.Sprintf("gen-fixtures: scale(%d) overflowed 128 bits", whole))
	}
	return out
}

// buildE1 constructs the literal E1 scenario from spec §8: two commits
// aggregated in one batch, both revealed, settled at a claimed clearing
// price of 2000, and a fresh batch begun. Each hop is validated against
// the real auction.Validate so a drifted fixture fails loudly rather than
// silently encoding a bug.
func buildE1() ([]fixturestore.Vector, error) {
	var out []fixturestore.Vector

	pairID := sha256.Sum256([]byte("E1-pair"))
	cell0 := &types.AuctionCell{Phase: types.PhaseCommit, PairID: pairID}
	if err := auction.Validate(nil, cell0.Serialize(), auction.Input{}); err != nil {
		return nil, fmt.Errorf("E1 creation: %w", err)
	}
	out = append(out, fixturestore.Vector{ScenarioID: "E1/00-creation", Output: cell0.Serialize(), Accepted: true})

	orderA := sha256.Sum256([]byte{0xAA})
	orderB := sha256.Sum256([]byte{0xBB})
	tree := &mmr.Tree{}
	tree.Append(orderA[:])
	tree.Append(orderB[:])
	root, err := tree.Root()
	if err != nil {
		return nil, err
	}

	cell1 := *cell0
	cell1.PrevStateHash = sha256.Sum256(cell0.Serialize())
	cell1.CommitCount = 2
	cell1.CommitMMRRoot = root

	in1 := auction.Input{
		CurrentBlock:       5,
		PendingCommitCount: 2,
		ConsumedCommits: []auction.ConsumedCommit{
			{OrderHash: orderA, BatchID: 0},
			{OrderHash: orderB, BatchID: 0},
		},
	}
	if err := auction.Validate(cell0.Serialize(), cell1.Serialize(), in1); err != nil {
		return nil, fmt.Errorf("E1 commit aggregation: %w", err)
	}
	out = append(out, fixturestore.Vector{ScenarioID: "E1/01-aggregate", Input: cell0.Serialize(), Output: cell1.Serialize(), Accepted: true})

	cell2 := cell1
	cell2.PrevStateHash = sha256.Sum256(cell1.Serialize())
	cell2.Phase = types.PhaseReveal
	cell2.RevealCount = 0
	cell2.PhaseStartBlock = 40

	in2 := auction.Input{CurrentBlock: 40, CommitWindowBlocks: 40}
	if err := auction.Validate(cell1.Serialize(), cell2.Serialize(), in2); err != nil {
		return nil, fmt.Errorf("E1 close commit window: %w", err)
	}
	out = append(out, fixturestore.Vector{ScenarioID: "E1/02-close-commit-window", Input: cell1.Serialize(), Output: cell2.Serialize(), Accepted: true})

	secretA := sha256.Sum256([]byte{0x11})
	secretB := sha256.Sum256([]byte{0x22})
	revealA := &types.RevealWitness{OrderType: types.OrderBuy, AmountIn: scale(1000), LimitPrice: scale(2100), Secret: secretA}
	revealB := &types.RevealWitness{OrderType: types.OrderSell, AmountIn: scale(800), LimitPrice: scale(1900), Secret: secretB}

	cell3 := cell2
	cell3.PrevStateHash = sha256.Sum256(cell2.Serialize())
	cell3.RevealCount = 2
	var wantSeed [32]byte
	for i := range secretA {
		wantSeed[i] = secretA[i] ^ secretB[i]
	}
	cell3.XorSeed = wantSeed

	in3 := auction.Input{CurrentBlock: 40, Reveals: []*types.RevealWitness{revealA, revealB}}
	if err := auction.Validate(cell2.Serialize(), cell3.Serialize(), in3); err != nil {
		return nil, fmt.Errorf("E1 reveal processing: %w", err)
	}
	out = append(out, fixturestore.Vector{ScenarioID: "E1/03-reveal", Input: cell2.Serialize(), Output: cell3.Serialize(), Accepted: true})

	var blockEntropy [32]byte
	for i := range blockEntropy {
		blockEntropy[i] = 0xFF
	}
	cell4 := cell3
	cell4.PrevStateHash = sha256.Sum256(cell3.Serialize())
	cell4.Phase = types.PhaseSettling
	cell4.PhaseStartBlock = 50
	cell4.XorSeed = shuffle.GenerateSeedSecure([][32]byte{cell3.XorSeed}, blockEntropy, cell3.BatchID)

	in4 := auction.Input{CurrentBlock: 50, RevealWindowBlocks: 10, BlockEntropy: blockEntropy}
	if err := auction.Validate(cell3.Serialize(), cell4.Serialize(), in4); err != nil {
		return nil, fmt.Errorf("E1 close reveal window: %w", err)
	}
	out = append(out, fixturestore.Vector{ScenarioID: "E1/04-close-reveal-window", Input: cell3.Serialize(), Output: cell4.Serialize(), Accepted: true})

	cell5 := cell4
	cell5.PrevStateHash = sha256.Sum256(cell4.Serialize())
	cell5.Phase = types.PhaseSettled
	cell5.ClearingPrice = scale(2000)
	cell5.FillableVolume = scale(800)

	if err := auction.Validate(cell4.Serialize(), cell5.Serialize(), auction.Input{}); err != nil {
		return nil, fmt.Errorf("E1 settlement: %w", err)
	}
	out = append(out, fixturestore.Vector{ScenarioID: "E1/05-settlement", Input: cell4.Serialize(), Output: cell5.Serialize(), Accepted: true})

	cell6 := &types.AuctionCell{
		Phase:           types.PhaseCommit,
		PairID:          pairID,
		BatchID:         1,
		PrevStateHash:   sha256.Sum256(cell5.Serialize()),
		PhaseStartBlock: 60,
	}
	if err := auction.Validate(cell5.Serialize(), cell6.Serialize(), auction.Input{CurrentBlock: 60}); err != nil {
		return nil, fmt.Errorf("E1 next batch: %w", err)
	}
	out = append(out, fixturestore.Vector{ScenarioID: "E1/06-next-batch", Input: cell5.Serialize(), Output: cell6.Serialize(), Accepted: true})

	return out, nil
}

// buildE2 constructs the E2 forced-inclusion-violation scenario: only one
// of three pending commits is aggregated while the caller claims three
// are pending, and Validate must reject it.
func buildE2() (fixturestore.Vector, error) {
	pairID := sha256.Sum256([]byte("E2-pair"))
	old := &types.AuctionCell{Phase: types.PhaseCommit, PairID: pairID}

	orderA := sha256.Sum256([]byte{0xAA})
	tree := &mmr.Tree{}
	tree.Append(orderA[:])
	root, err := tree.Root()
	if err != nil {
		return fixturestore.Vector{}, err
	}

	new := *old
	new.PrevStateHash = sha256.Sum256(old.Serialize())
	new.CommitCount = 1
	new.CommitMMRRoot = root

	in := auction.Input{
		CurrentBlock:       5,
		PendingCommitCount: 3,
		ConsumedCommits:    []auction.ConsumedCommit{{OrderHash: orderA, BatchID: 0}},
	}
	err = auction.Validate(old.Serialize(), new.Serialize(), in)
	return fixturestore.Vector{
		ScenarioID: "E2/forced-inclusion-violation",
		Input:      old.Serialize(),
		Output:     new.Serialize(),
		Accepted:   err == nil,
	}, nil
}

// BuildAll returns every conformance vector this tool knows how to
// generate.
func BuildAll() ([]fixturestore.Vector, error) {
	var all []fixturestore.Vector
	e1, err := buildE1()
	if err != nil {
		return nil, err
	}
	all = append(all, e1...)
	e2, err := buildE2()
	if err != nil {
		return nil, err
	}
	all = append(all, e2)
	return all, nil
}
