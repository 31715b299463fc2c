package types

import "github.com/vibeswap/ckb-core/pkg/arith"

// Protocol constants (spec §6). These are not configurable without
// redeploying the validator scripts.
const (
	Precision         = 1_000_000_000_000_000_000 // 10^18
	BPS               = 10_000
	MinimumLiquidity  = 1000
	HashLeafTag       = byte(0x00)
	HashBranchTag     = byte(0x01)
	MaxIterations     = 100
	ConvergenceThresh = 1_000_000 // bps-of-bps
)

// PrecisionU128 / BPSU128 are Precision/BPS widened for use in fixed-point
// arithmetic that goes through pkg/arith.
var (
	PrecisionU128 = arith.U128FromUint64(Precision)
	BPSU128       = arith.U128FromUint64(BPS)
)

// Phase enumerates the auction state machine's four phases (spec §4.1).
type Phase uint8

const (
	PhaseCommit Phase = iota
	PhaseReveal
	PhaseSettling
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseCommit:
		return "COMMIT"
	case PhaseReveal:
		return "REVEAL"
	case PhaseSettling:
		return "SETTLING"
	case PhaseSettled:
		return "SETTLED"
	default:
		return "UNKNOWN"
	}
}

// OrderType enumerates RevealWitness.order_type (spec §3).
type OrderType uint8

const (
	OrderBuy  OrderType = 0
	OrderSell OrderType = 1
)
