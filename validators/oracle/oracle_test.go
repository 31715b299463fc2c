package oracle

import (
	"crypto/sha256"
	"testing"

	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
	"github.com/vibeswap/ckb-core/pkg/types"
)

func baseCell() *types.OracleCell {
	return &types.OracleCell{
		Price:       arith.U128FromUint64(2000),
		BlockNumber: 100,
		Confidence:  90,
		SourceHash:  sha256.Sum256([]byte("source")),
		PairID:      sha256.Sum256([]byte("pair")),
	}
}

func TestValidateUpdate_Creation(t *testing.T) {
	c := baseCell()
	if err := ValidateUpdate(nil, c.Serialize(), Input{CurrentBlock: 105}); err != nil {
		t.Fatalf("valid creation rejected: %v", err)
	}
}

func TestValidateUpdate_InvalidConfidence(t *testing.T) {
	c := baseCell()
	c.Confidence = 101
	if err := ValidateUpdate(nil, c.Serialize(), Input{CurrentBlock: 105}); !errs.Is(err, errs.InvalidConfidence) {
		t.Fatalf("got %v, want InvalidConfidence", err)
	}
}

func TestValidateUpdate_StaleData(t *testing.T) {
	c := baseCell()
	c.BlockNumber = 100
	if err := ValidateUpdate(nil, c.Serialize(), Input{CurrentBlock: 250}); !errs.Is(err, errs.StaleData) {
		t.Fatalf("got %v, want StaleData", err)
	}
}

func TestValidateUpdate_FutureBlock(t *testing.T) {
	c := baseCell()
	c.BlockNumber = 200
	if err := ValidateUpdate(nil, c.Serialize(), Input{CurrentBlock: 100}); !errs.Is(err, errs.FutureBlock) {
		t.Fatalf("got %v, want FutureBlock", err)
	}
}

func TestValidateUpdate_PairIDChanged(t *testing.T) {
	old := baseCell()
	new := baseCell()
	new.PairID = sha256.Sum256([]byte("other-pair"))
	new.BlockNumber = 101
	if err := ValidateUpdate(old.Serialize(), new.Serialize(), Input{CurrentBlock: 105}); !errs.Is(err, errs.PairIdChanged) {
		t.Fatalf("got %v, want PairIdChanged", err)
	}
}

func TestValidateUpdate_NotNewer(t *testing.T) {
	old := baseCell()
	new := baseCell()
	if err := ValidateUpdate(old.Serialize(), new.Serialize(), Input{CurrentBlock: 105}); !errs.Is(err, errs.NotNewer) {
		t.Fatalf("got %v, want NotNewer", err)
	}
}

func TestValidateUpdate_ExcessivePriceChange(t *testing.T) {
	old := baseCell()
	new := baseCell()
	new.BlockNumber = 101
	new.Price = arith.U128FromUint64(3500) // +75%
	if err := ValidateUpdate(old.Serialize(), new.Serialize(), Input{CurrentBlock: 105}); !errs.Is(err, errs.ExcessivePriceChange) {
		t.Fatalf("got %v, want ExcessivePriceChange", err)
	}
}

func TestValidateUpdate_ValidChange(t *testing.T) {
	old := baseCell()
	new := baseCell()
	new.BlockNumber = 101
	new.Price = arith.U128FromUint64(2800) // +40%, within 50%
	if err := ValidateUpdate(old.Serialize(), new.Serialize(), Input{CurrentBlock: 105}); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}
}
