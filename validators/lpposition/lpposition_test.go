package lpposition

import (
	"crypto/sha256"
	"testing"

	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
	"github.com/vibeswap/ckb-core/pkg/types"
)

func validCell() *types.LPPositionCell {
	return &types.LPPositionCell{
		LPAmount:     arith.U128FromUint64(500),
		EntryPrice:   arith.U128FromUint64(2000),
		PoolID:       sha256.Sum256([]byte("pool")),
		DepositBlock: 10,
	}
}

func TestValidateCreation_Valid(t *testing.T) {
	c := validCell()
	if err := ValidateCreation(c.Serialize()); err != nil {
		t.Fatalf("valid lp position rejected: %v", err)
	}
}

func TestValidateCreation_ZeroLPAmount(t *testing.T) {
	c := validCell()
	c.LPAmount = arith.Zero
	if err := ValidateCreation(c.Serialize()); !errs.Is(err, errs.InvalidArgs) {
		t.Fatalf("got %v, want InvalidArgs", err)
	}
}

func TestValidateCreation_ZeroPoolID(t *testing.T) {
	c := validCell()
	c.PoolID = [32]byte{}
	if err := ValidateCreation(c.Serialize()); !errs.Is(err, errs.InvalidArgs) {
		t.Fatalf("got %v, want InvalidArgs", err)
	}
}

func TestValidateUpdate_AllowsPartialWithdrawal(t *testing.T) {
	old := validCell()
	new := validCell()
	new.LPAmount = arith.U128FromUint64(250)
	if err := ValidateUpdate(old.Serialize(), new.Serialize()); err != nil {
		t.Fatalf("partial withdrawal rejected: %v", err)
	}
}

func TestValidateUpdate_RejectsPoolIDChange(t *testing.T) {
	old := validCell()
	new := validCell()
	new.PoolID = sha256.Sum256([]byte("other-pool"))
	if err := ValidateUpdate(old.Serialize(), new.Serialize()); !errs.Is(err, errs.InvalidArgs) {
		t.Fatalf("got %v, want InvalidArgs", err)
	}
}

func TestValidateUpdate_RejectsEntryPriceChange(t *testing.T) {
	old := validCell()
	new := validCell()
	new.EntryPrice = arith.U128FromUint64(9999)
	if err := ValidateUpdate(old.Serialize(), new.Serialize()); !errs.Is(err, errs.InvalidArgs) {
		t.Fatalf("got %v, want InvalidArgs", err)
	}
}

func TestValidateUpdate_RejectsZeroingOut(t *testing.T) {
	old := validCell()
	new := validCell()
	new.LPAmount = arith.Zero
	if err := ValidateUpdate(old.Serialize(), new.Serialize()); !errs.Is(err, errs.InvalidArgs) {
		t.Fatalf("got %v, want InvalidArgs", err)
	}
}
