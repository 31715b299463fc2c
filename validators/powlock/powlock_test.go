package powlock

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/pow"
	"github.com/vibeswap/ckb-core/pkg/types"
)

func findNonce(t *testing.T, challenge [32]byte, difficulty uint8) [32]byte {
	t.Helper()
	for i := uint64(0); i < 1_000_000; i++ {
		var nonce [32]byte
		binary.LittleEndian.PutUint64(nonce[:8], i)
		if pow.Verify(challenge, nonce, difficulty) {
			return nonce
		}
	}
	t.Fatalf("could not find a nonce at difficulty %d within budget", difficulty)
	return [32]byte{}
}

func TestValidateConsumption_Valid(t *testing.T) {
	pairID := sha256.Sum256([]byte("pair"))
	var prevHash [32]byte
	batchID := uint64(3)
	args := &types.PoWLockArgs{PairID: pairID, MinDifficulty: 4}

	challenge := pow.DeriveChallenge(pairID, batchID, prevHash)
	nonce := findNonce(t, challenge, 4)

	witness := append(append([]byte{}, challenge[:]...), nonce[:]...)
	in := Input{
		BatchID:       batchID,
		PrevStateHash: prevHash,
		WitnessBytes:  witness,
		MinDifficulty: 4,
	}
	if err := ValidateConsumption(args, in); err != nil {
		t.Fatalf("valid PoW proof rejected: %v", err)
	}
}

func TestValidateConsumption_WrongChallenge(t *testing.T) {
	pairID := sha256.Sum256([]byte("pair"))
	var prevHash [32]byte
	args := &types.PoWLockArgs{PairID: pairID, MinDifficulty: 1}

	wrongChallenge := sha256.Sum256([]byte("not-the-challenge"))
	var nonce [32]byte
	witness := append(append([]byte{}, wrongChallenge[:]...), nonce[:]...)

	in := Input{BatchID: 3, PrevStateHash: prevHash, WitnessBytes: witness, MinDifficulty: 1}
	if err := ValidateConsumption(args, in); !errs.Is(err, errs.InvalidChallenge) {
		t.Fatalf("got %v, want InvalidChallenge", err)
	}
}

func TestValidateConsumption_InsufficientDifficulty(t *testing.T) {
	pairID := sha256.Sum256([]byte("pair"))
	var prevHash [32]byte
	batchID := uint64(1)
	args := &types.PoWLockArgs{PairID: pairID, MinDifficulty: 30}

	challenge := pow.DeriveChallenge(pairID, batchID, prevHash)
	var nonce [32]byte // almost certainly far below 30 leading zero bits

	witness := append(append([]byte{}, challenge[:]...), nonce[:]...)
	in := Input{BatchID: batchID, PrevStateHash: prevHash, WitnessBytes: witness, MinDifficulty: 30}
	if err := ValidateConsumption(args, in); !errs.Is(err, errs.InsufficientDifficulty) {
		t.Fatalf("got %v, want InsufficientDifficulty", err)
	}
}

func TestValidateConsumption_BadWitnessLength(t *testing.T) {
	args := &types.PoWLockArgs{PairID: sha256.Sum256([]byte("pair")), MinDifficulty: 1}
	in := Input{WitnessBytes: []byte{0x01, 0x02}}
	if err := ValidateConsumption(args, in); !errs.Is(err, errs.InvalidProofStructure) {
		t.Fatalf("got %v, want InvalidProofStructure", err)
	}
}

func TestValidateConsumption_DifficultyAdjustmentOutOfTolerance(t *testing.T) {
	pairID := sha256.Sum256([]byte("pair"))
	var prevHash [32]byte
	batchID := uint64(2)
	args := &types.PoWLockArgs{PairID: pairID, MinDifficulty: 1}

	challenge := pow.DeriveChallenge(pairID, batchID, prevHash)
	nonce := findNonce(t, challenge, 1)
	witness := append(append([]byte{}, challenge[:]...), nonce[:]...)

	in := Input{
		BatchID:           batchID,
		PrevStateHash:     prevHash,
		WitnessBytes:      witness,
		MinDifficulty:     1,
		DifficultyChanged: true,
		OldDifficulty:     16,
		NewDifficulty:     200,
		TargetBlocks:      40,
		ActualBlocks:      40,
	}
	if err := ValidateConsumption(args, in); !errs.Is(err, errs.InvalidDifficultyAdjustment) {
		t.Fatalf("got %v, want InvalidDifficultyAdjustment", err)
	}
}
