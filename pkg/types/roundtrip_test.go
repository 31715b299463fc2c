package types

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vibeswap/ckb-core/pkg/arith"
)

func bytes32Gen(t *rapid.T, label string) [32]byte {
	var out [32]byte
	b := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, label)
	copy(out[:], b)
	return out
}

func u128Gen(t *rapid.T, label string) arith.U128 {
	return arith.U128{
		Hi: rapid.Uint64().Draw(t, label+"_hi"),
		Lo: rapid.Uint64().Draw(t, label+"_lo"),
	}
}

func TestAuctionCell_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := &AuctionCell{
			Phase:           Phase(rapid.IntRange(0, int(PhaseSettled)).Draw(t, "phase")),
			BatchID:         rapid.Uint64().Draw(t, "batch_id"),
			CommitMMRRoot:   bytes32Gen(t, "commit_root"),
			CommitCount:     rapid.Uint32().Draw(t, "commit_count"),
			RevealCount:     rapid.Uint32().Draw(t, "reveal_count"),
			XorSeed:         bytes32Gen(t, "xor_seed"),
			ClearingPrice:   u128Gen(t, "clearing_price"),
			FillableVolume:  u128Gen(t, "fillable_volume"),
			DifficultyTarget: bytes32Gen(t, "difficulty_target"),
			PrevStateHash:   bytes32Gen(t, "prev_state_hash"),
			PhaseStartBlock: rapid.Uint64().Draw(t, "phase_start_block"),
			PairID:          bytes32Gen(t, "pair_id"),
		}
		raw := a.Serialize()
		if len(raw) != AuctionCellBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), AuctionCellBytes)
		}
		got, err := ParseAuctionCell(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *a {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, a)
		}
	})
}

func TestAuctionCell_RejectsBadLength(t *testing.T) {
	if _, err := ParseAuctionCell(make([]byte, AuctionCellBytes-1)); err == nil {
		t.Fatal("expected error on short buffer")
	}
}

func TestAuctionCell_RejectsInvalidPhase(t *testing.T) {
	a := &AuctionCell{Phase: PhaseCommit}
	raw := a.Serialize()
	raw[0] = byte(PhaseSettled) + 1
	if _, err := ParseAuctionCell(raw); err == nil {
		t.Fatal("expected error on out-of-range phase byte")
	}
}

func TestCommitCell_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := &CommitCell{
			OrderHash:      bytes32Gen(t, "order_hash"),
			BatchID:        rapid.Uint64().Draw(t, "batch_id"),
			DepositCKB:     rapid.Uint64().Draw(t, "deposit_ckb"),
			TokenTypeHash:  bytes32Gen(t, "token_type_hash"),
			TokenAmount:    u128Gen(t, "token_amount"),
			BlockNumber:    rapid.Uint64().Draw(t, "block_number"),
			SenderLockHash: bytes32Gen(t, "sender_lock_hash"),
		}
		raw := c.Serialize()
		if len(raw) != CommitCellBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), CommitCellBytes)
		}
		got, err := ParseCommitCell(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *c {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
		}
	})
}

func TestRevealWitness_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ot := OrderBuy
		if rapid.Bool().Draw(t, "sell") {
			ot = OrderSell
		}
		w := &RevealWitness{
			OrderType:   ot,
			AmountIn:    u128Gen(t, "amount_in"),
			LimitPrice:  u128Gen(t, "limit_price"),
			Secret:      bytes32Gen(t, "secret"),
			PriorityBid: rapid.Uint64().Draw(t, "priority_bid"),
			CommitIndex: rapid.Uint32().Draw(t, "commit_index"),
		}
		raw := w.Serialize()
		if len(raw) != RevealWitnessBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), RevealWitnessBytes)
		}
		got, err := ParseRevealWitness(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *w {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, w)
		}
	})
}

func TestRevealWitness_RejectsBadOrderType(t *testing.T) {
	w := &RevealWitness{OrderType: OrderBuy}
	raw := w.Serialize()
	raw[0] = 2
	if _, err := ParseRevealWitness(raw); err == nil {
		t.Fatal("expected error on invalid order_type")
	}
}

func TestPoolCell_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := &PoolCell{
			Reserve0:         u128Gen(t, "reserve0"),
			Reserve1:         u128Gen(t, "reserve1"),
			TotalLPSupply:    u128Gen(t, "total_lp_supply"),
			FeeRateBps:       rapid.Uint16().Draw(t, "fee_rate_bps"),
			TwapPriceCum:     u128Gen(t, "twap_price_cum"),
			TwapLastBlock:    rapid.Uint64().Draw(t, "twap_last_block"),
			KLast:            bytes32Gen(t, "k_last"),
			MinimumLiquidity: u128Gen(t, "minimum_liquidity"),
			PairID:           bytes32Gen(t, "pair_id"),
			Token0TypeHash:   bytes32Gen(t, "token0_type_hash"),
			Token1TypeHash:   bytes32Gen(t, "token1_type_hash"),
		}
		raw := p.Serialize()
		if len(raw) != PoolCellBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), PoolCellBytes)
		}
		got, err := ParsePoolCell(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *p {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
		}
	})
}

func TestLPPositionCell_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := &LPPositionCell{
			LPAmount:     u128Gen(t, "lp_amount"),
			EntryPrice:   u128Gen(t, "entry_price"),
			PoolID:       bytes32Gen(t, "pool_id"),
			DepositBlock: rapid.Uint64().Draw(t, "deposit_block"),
		}
		raw := l.Serialize()
		if len(raw) != LPPositionCellBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), LPPositionCellBytes)
		}
		got, err := ParseLPPositionCell(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *l {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, l)
		}
	})
}

func TestComplianceCell_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := &ComplianceCell{
			BlockedMerkleRoot:      bytes32Gen(t, "blocked_root"),
			TierMerkleRoot:         bytes32Gen(t, "tier_root"),
			JurisdictionMerkleRoot: bytes32Gen(t, "jurisdiction_root"),
			LastUpdated:            rapid.Uint64().Draw(t, "last_updated"),
			Version:                rapid.Uint32().Draw(t, "version"),
		}
		raw := c.Serialize()
		if len(raw) != ComplianceCellBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), ComplianceCellBytes)
		}
		got, err := ParseComplianceCell(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *c {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
		}
	})
}

func TestConfigCell_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := &ConfigCell{
			CommitWindowBlocks:       rapid.Uint32().Draw(t, "commit_window_blocks"),
			RevealWindowBlocks:       rapid.Uint32().Draw(t, "reveal_window_blocks"),
			SlashRateBps:             rapid.Uint16().Draw(t, "slash_rate_bps"),
			MaxPriceDeviationBps:     rapid.Uint16().Draw(t, "max_price_deviation_bps"),
			MaxTradeSizeBps:          rapid.Uint16().Draw(t, "max_trade_size_bps"),
			MaxCommitsPerAggregation: rapid.Uint32().Draw(t, "max_commits_per_aggregation"),
			VolumeBreakerLimit:       u128Gen(t, "volume_breaker_limit"),
			PriceBreakerBps:          rapid.Uint16().Draw(t, "price_breaker_bps"),
			MinDepositCKB:            rapid.Uint64().Draw(t, "min_deposit_ckb"),
			DefaultFeeRateBps:        rapid.Uint16().Draw(t, "default_fee_rate_bps"),
			MinPoWDifficulty:         rapid.Uint8().Draw(t, "min_pow_difficulty"),
			Version:                  rapid.Uint32().Draw(t, "version"),
			OracleMaxStalenessBlocks: rapid.Uint64().Draw(t, "oracle_max_staleness_blocks"),
			LastUpdated:              rapid.Uint64().Draw(t, "last_updated"),
		}
		raw := c.Serialize()
		if len(raw) != ConfigCellBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), ConfigCellBytes)
		}
		got, err := ParseConfigCell(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *c {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
		}
	})
}

func TestOracleCell_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		o := &OracleCell{
			Price:       u128Gen(t, "price"),
			BlockNumber: rapid.Uint64().Draw(t, "block_number"),
			Confidence:  rapid.Uint8().Draw(t, "confidence"),
			SourceHash:  bytes32Gen(t, "source_hash"),
			PairID:      bytes32Gen(t, "pair_id"),
		}
		raw := o.Serialize()
		if len(raw) != OracleCellBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), OracleCellBytes)
		}
		got, err := ParseOracleCell(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *o {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, o)
		}
	})
}

func TestPoWLockArgs_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := &PoWLockArgs{
			PairID:        bytes32Gen(t, "pair_id"),
			MinDifficulty: rapid.Uint8().Draw(t, "min_difficulty"),
		}
		raw := a.Serialize()
		if len(raw) != PoWLockArgsBytes {
			t.Fatalf("serialized length %d, want %d", len(raw), PoWLockArgsBytes)
		}
		got, err := ParsePoWLockArgs(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if *got != *a {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, a)
		}
	})
}

func TestAllCells_RejectTrailingBytes(t *testing.T) {
	cases := []struct {
		name  string
		parse func([]byte) error
		size  int
	}{
		{"auction", func(b []byte) error { _, err := ParseAuctionCell(b); return err }, AuctionCellBytes},
		{"commit", func(b []byte) error { _, err := ParseCommitCell(b); return err }, CommitCellBytes},
		{"reveal", func(b []byte) error { _, err := ParseRevealWitness(b); return err }, RevealWitnessBytes},
		{"pool", func(b []byte) error { _, err := ParsePoolCell(b); return err }, PoolCellBytes},
		{"lpposition", func(b []byte) error { _, err := ParseLPPositionCell(b); return err }, LPPositionCellBytes},
		{"compliance", func(b []byte) error { _, err := ParseComplianceCell(b); return err }, ComplianceCellBytes},
		{"config", func(b []byte) error { _, err := ParseConfigCell(b); return err }, ConfigCellBytes},
		{"oracle", func(b []byte) error { _, err := ParseOracleCell(b); return err }, OracleCellBytes},
		{"powlockargs", func(b []byte) error { _, err := ParsePoWLockArgs(b); return err }, PoWLockArgsBytes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.parse(make([]byte, tc.size+1)); err == nil {
				t.Fatal("expected error on oversized buffer")
			}
			if err := tc.parse(make([]byte, tc.size-1)); err == nil {
				t.Fatal("expected error on undersized buffer")
			}
		})
	}
}
