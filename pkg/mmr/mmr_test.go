package mmr

import (
	"testing"

	"pgregory.net/rapid"
)

func TestTree_EmptyRootErrors(t *testing.T) {
	tr := &Tree{}
	if _, err := tr.Root(); err != ErrEmpty {
		t.Fatalf("got %v, want ErrEmpty", err)
	}
}

func TestTree_RootChangesOnEveryAppend(t *testing.T) {
	tr := &Tree{}
	seen := map[[32]byte]bool{}
	for i := 0; i < 64; i++ {
		tr.Append([]byte{byte(i)})
		root, err := tr.Root()
		if err != nil {
			t.Fatalf("root after %d appends: %v", i+1, err)
		}
		if seen[root] {
			t.Fatalf("root repeated after %d appends", i+1)
		}
		seen[root] = true
	}
}

func TestTree_PeakCountMatchesPopcount(t *testing.T) {
	tr := &Tree{}
	for i := 1; i <= 200; i++ {
		tr.Append([]byte{byte(i), byte(i >> 8)})
		want := popcount(i)
		if got := len(tr.Peaks()); got != want {
			t.Fatalf("leaves=%d: got %d peaks, want %d", i, got, want)
		}
	}
}

func TestTree_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		leaves := make([][]byte, n)
		for i := range leaves {
			leaves[i] = rapid.SliceOfN(rapid.Byte(), 1, 16).Draw(t, "leaf")
		}
		a := NewFromLeaves(leaves)
		b := NewFromLeaves(leaves)
		ra, err := a.Root()
		if err != nil {
			t.Fatal(err)
		}
		rb, err := b.Root()
		if err != nil {
			t.Fatal(err)
		}
		if ra != rb {
			t.Fatal("identical leaf sequences produced different roots")
		}
	})
}

func TestProof_VerifiesForEveryLeaf(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 50).Draw(t, "n")
		leaves := make([][]byte, n)
		hashes := make([][32]byte, n)
		for i := range leaves {
			leaves[i] = rapid.SliceOfN(rapid.Byte(), 1, 16).Draw(t, "leaf")
			hashes[i] = leafHash(leaves[i])
		}
		tr := NewFromLeaves(leaves)
		root, err := tr.Root()
		if err != nil {
			t.Fatal(err)
		}

		idx := rapid.IntRange(0, n-1).Draw(t, "idx")
		proof, err := ComputeProof(hashes, idx)
		if err != nil {
			t.Fatalf("compute proof: %v", err)
		}
		if !Verify(leaves[idx], proof, root) {
			t.Fatalf("proof for leaf %d did not verify (n=%d)", idx, n)
		}
	})
}

func TestProof_RejectsTamperedLeaf(t *testing.T) {
	leaves := [][]byte{{1}, {2}, {3}, {4}, {5}}
	hashes := make([][32]byte, len(leaves))
	for i, l := range leaves {
		hashes[i] = leafHash(l)
	}
	tr := NewFromLeaves(leaves)
	root, err := tr.Root()
	if err != nil {
		t.Fatal(err)
	}
	proof, err := ComputeProof(hashes, 2)
	if err != nil {
		t.Fatal(err)
	}
	if Verify([]byte{99}, proof, root) {
		t.Fatal("proof verified against tampered leaf data")
	}
}

func TestComputeProof_IndexOutOfRange(t *testing.T) {
	if _, err := ComputeProof([][32]byte{{}}, 5); err != ErrIndexOutOfRange {
		t.Fatalf("got %v, want ErrIndexOutOfRange", err)
	}
}

func TestPopcount(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 7: 3, 8: 1, 255: 8}
	for n, want := range cases {
		if got := popcount(n); got != want {
			t.Fatalf("popcount(%d) = %d, want %d", n, got, want)
		}
	}
}
