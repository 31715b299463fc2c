// Package errs defines the tagged-variant error taxonomy shared by every
// validator in this module. Each Code names exactly one rule from the
// specification; no validator returns a free-form error for a rule
// violation.
package errs

import "fmt"

type Code string

const (
	// Format
	InvalidCellData Code = "InvalidCellData"
	InvalidArgs     Code = "InvalidArgs"
	InvalidWitness  Code = "InvalidWitness"
	InvalidTypeArgs Code = "InvalidTypeArgs"

	// Identity / immutability
	PairIdChanged           Code = "PairIdChanged"
	TokenTypesChanged       Code = "TokenTypesChanged"
	MinimumLiquidityChanged Code = "MinimumLiquidityChanged"
	InvalidPairId           Code = "InvalidPairId"
	DuplicateTokenTypes     Code = "DuplicateTokenTypes"

	// State chain
	InvalidStateHash Code = "InvalidStateHash"

	// Phase
	InvalidInitialPhase     Code = "InvalidInitialPhase"
	InvalidInitialBatchId   Code = "InvalidInitialBatchId"
	InvalidInitialCounts    Code = "InvalidInitialCounts"
	InvalidInitialState     Code = "InvalidInitialState"
	InvalidPhaseTransition  Code = "InvalidPhaseTransition"
	WrongPhase              Code = "WrongPhase"
	CommitWindowNotElapsed  Code = "CommitWindowNotElapsed"
	RevealWindowNotElapsed  Code = "RevealWindowNotElapsed"

	// Inclusion
	NoCommitsToAggregate     Code = "NoCommitsToAggregate"
	CommitBatchMismatch      Code = "CommitBatchMismatch"
	ForcedInclusionViolation Code = "ForcedInclusionViolation"
	InvalidCommitCount       Code = "InvalidCommitCount"
	MMRRootChanged           Code = "MMRRootChanged"
	SeedChangedDuringCommit  Code = "SeedChangedDuringCommit"
	NoCommitsForReveal       Code = "NoCommitsForReveal"

	// Reveal
	NoRevealsToProcess Code = "NoRevealsToProcess"
	InvalidOrderType   Code = "InvalidOrderType"
	ZeroRevealAmount   Code = "ZeroRevealAmount"
	InvalidXORSeed     Code = "InvalidXORSeed"
	InvalidRevealCount Code = "InvalidRevealCount"
	InvalidFinalSeed   Code = "InvalidFinalSeed"
	RevealCountChanged Code = "RevealCountChanged"
	RevealCountNotReset Code = "RevealCountNotReset"

	// Settlement
	ZeroClearingPrice    Code = "ZeroClearingPrice"
	InvalidBatchIncrement Code = "InvalidBatchIncrement"
	SeedNotReset         Code = "SeedNotReset"
	MMRNotReset          Code = "MMRNotReset"
	InvalidPhaseStartBlock Code = "InvalidPhaseStartBlock"

	// Pool
	ZeroReserves               Code = "ZeroReserves"
	InsufficientInitialLiquidity Code = "InsufficientInitialLiquidity"
	InvalidLPSupply            Code = "InvalidLPSupply"
	InvalidFeeRate             Code = "InvalidFeeRate"
	NoStateChange              Code = "NoStateChange"
	ReserveUnderflow           Code = "ReserveUnderflow"
	ZeroLiquidityDeposit       Code = "ZeroLiquidityDeposit"
	DisproportionateDeposit    Code = "DisproportionateDeposit"
	LPCalculationFailed        Code = "LPCalculationFailed"
	InvalidLPMinted            Code = "InvalidLPMinted"
	ExcessiveWithdrawal        Code = "ExcessiveWithdrawal"
	BelowMinimumLiquidity      Code = "BelowMinimumLiquidity"
	LPChangedDuringSwap        Code = "LPChangedDuringSwap"
	SwapCalculationFailed      Code = "SwapCalculationFailed"
	ExcessiveOutput            Code = "ExcessiveOutput"
	InsufficientFee            Code = "InsufficientFee"
	TradeTooLarge              Code = "TradeTooLarge"
	ExcessivePriceDeviation    Code = "ExcessivePriceDeviation"
	KInvariantViolation        Code = "KInvariantViolation"
	InvalidTWAPUpdate          Code = "InvalidTWAPUpdate"
	InvalidTWAPBlock           Code = "InvalidTWAPBlock"
	VolumeCircuitBreaker       Code = "VolumeCircuitBreaker"
	PriceCircuitBreaker        Code = "PriceCircuitBreaker"

	// Commit
	ZeroOrderHash       Code = "ZeroOrderHash"
	InsufficientDeposit Code = "InsufficientDeposit"
	ZeroTokenAmount     Code = "ZeroTokenAmount"
	LockHashMismatch    Code = "LockHashMismatch"
	BatchIdMismatch     Code = "BatchIdMismatch"
	NoAuctionCellInTx   Code = "NoAuctionCellInTx"

	// PoW lock
	InvalidProofStructure       Code = "InvalidProofStructure"
	InvalidChallenge            Code = "InvalidChallenge"
	InsufficientDifficulty      Code = "InsufficientDifficulty"
	InvalidDifficultyAdjustment Code = "InvalidDifficultyAdjustment"

	// Compliance / oracle / config
	Unauthorized          Code = "Unauthorized"
	VersionNotIncremented Code = "VersionNotIncremented"
	StaleUpdate           Code = "StaleUpdate"
	StaleData             Code = "StaleData"
	FutureBlock           Code = "FutureBlock"
	ExcessivePriceChange  Code = "ExcessivePriceChange"
	NotNewer              Code = "NotNewer"
	InvalidConfidence     Code = "InvalidConfidence"
	OutOfRange            Code = "OutOfRange"

	// Arithmetic kernel
	Overflow Code = "Overflow"
)

// ValidationError is the single concrete error type produced by every
// validator in this module: a rule Code plus a free-text Msg.
type ValidationError struct {
	Code Code
	Msg  string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// New constructs a ValidationError for the given rule code.
func New(code Code, msg string) error {
	return &ValidationError{Code: code, Msg: msg}
}

// Newf constructs a ValidationError with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &ValidationError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a ValidationError carrying code.
func Is(err error, code Code) bool {
	ve, ok := err.(*ValidationError)
	return ok && ve.Code == code
}
