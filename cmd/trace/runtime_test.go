package main

import (
	"path/filepath"
	"testing"

	"github.com/vibeswap/ckb-core/internal/fixturestore"
	"github.com/vibeswap/ckb-core/pkg/pow"
)

func openTemp(t *testing.T) *fixturestore.Store {
	t.Helper()
	s, err := fixturestore.Open(filepath.Join(t.TempDir(), "fixtures.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTrace_Basic(t *testing.T) {
	store := openTemp(t)
	v := fixturestore.Vector{ScenarioID: "E1/06-next-batch", Input: []byte("old"), Output: []byte("new"), Accepted: true}
	if err := store.Put(v); err != nil {
		t.Fatalf("put: %v", err)
	}

	res, err := Trace(store, "E1/06-next-batch")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if !res.Accepted || res.InputLen != 3 || res.OutputLen != 3 {
		t.Fatalf("unexpected trace result: %+v", res)
	}
	if res.HasDifficulty {
		t.Fatal("3-byte output must not be interpreted as a difficulty target")
	}
}

func TestTrace_DifficultyTarget(t *testing.T) {
	store := openTemp(t)
	target := pow.DifficultyToTarget(16)
	v := fixturestore.Vector{ScenarioID: "difficulty-sample", Output: target[:], Accepted: true}
	if err := store.Put(v); err != nil {
		t.Fatalf("put: %v", err)
	}

	res, err := Trace(store, "difficulty-sample")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if !res.HasDifficulty || res.Difficulty != 16 {
		t.Fatalf("expected difficulty 16, got %+v", res)
	}
}

func TestTrace_NotFound(t *testing.T) {
	store := openTemp(t)
	if _, err := Trace(store, "missing"); err == nil {
		t.Fatal("expected error for missing scenario")
	}
}
