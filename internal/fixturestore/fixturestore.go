// Package fixturestore is a host-side conformance-vector cache: a bbolt
// key-value store keyed by scenario ID, used by cmd/gen-fixtures and
// cmd/trace to persist the byte-exact inputs/outputs of a validator run
// so repeated runs (and other-language conformance suites) can diff
// against a stable baseline. This is test tooling, not core state — the
// validators themselves persist nothing (spec §5, §9). Shaped directly on
// the teacher's node/store/db.go: a single bbolt file, one bucket per
// logical record kind, opened with a lock timeout so a stuck process
// fails fast instead of hanging.
package fixturestore

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/blake2b"
)

var bucketVectors = []byte("conformance_vectors_by_scenario")

// Store is a bbolt-backed cache of conformance vectors.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bbolt file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("fixturestore: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVectors)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fixturestore: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying bbolt file handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Vector is one cached conformance vector: the scenario's raw input
// payload, the proposed output payload (kept on a rejection too), and
// whether the validator accepted it.
type Vector struct {
	ScenarioID string
	Input      []byte
	Output     []byte
	Accepted   bool
	// Digest tags the vector with a blake2b-256 sum of Input||Output so a
	// consumer can detect drift without re-running the validator. This is
	// the one job left for golang.org/x/crypto/blake2b in this tree (the
	// wire hashes themselves are all SHA-256, pinned by spec §4.4/§4.6).
	Digest [32]byte
}

// digest computes the blake2b-256 tag for a vector's payload.
func digest(input, output []byte) ([32]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, fmt.Errorf("fixturestore: blake2b init: %w", err)
	}
	h.Write(input)
	h.Write(output)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Put stores v under its ScenarioID, computing and filling in v.Digest.
func (s *Store) Put(v Vector) error {
	d, err := digest(v.Input, v.Output)
	if err != nil {
		return err
	}
	v.Digest = d
	encoded := encodeVector(v)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVectors).Put([]byte(v.ScenarioID), encoded)
	})
}

// Get retrieves the vector stored for scenarioID, if any.
func (s *Store) Get(scenarioID string) (Vector, bool, error) {
	var v Vector
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketVectors).Get([]byte(scenarioID))
		if raw == nil {
			return nil
		}
		found = true
		var err error
		v, err = decodeVector(scenarioID, raw)
		return err
	})
	if err != nil {
		return Vector{}, false, err
	}
	return v, found, nil
}

// Verify reports whether the vector currently stored for scenarioID still
// matches the digest of (input, output) — i.e. the cached fixture has not
// drifted from what the validator produces today.
func (s *Store) Verify(scenarioID string, input, output []byte) (bool, error) {
	v, found, err := s.Get(scenarioID)
	if err != nil || !found {
		return false, err
	}
	want, err := digest(input, output)
	if err != nil {
		return false, err
	}
	return v.Digest == want, nil
}

// encodeVector packs a Vector into a flat, length-prefixed byte slice:
// [accepted:1][digest:32][in_len:4 LE][input][out_len:4 LE][output].
func encodeVector(v Vector) []byte {
	buf := make([]byte, 0, 1+32+4+len(v.Input)+4+len(v.Output))
	if v.Accepted {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, v.Digest[:]...)
	buf = appendU32LE(buf, uint32(len(v.Input)))
	buf = append(buf, v.Input...)
	buf = appendU32LE(buf, uint32(len(v.Output)))
	buf = append(buf, v.Output...)
	return buf
}

func decodeVector(scenarioID string, raw []byte) (Vector, error) {
	if len(raw) < 1+32+4 {
		return Vector{}, fmt.Errorf("fixturestore: truncated record for %s", scenarioID)
	}
	v := Vector{ScenarioID: scenarioID, Accepted: raw[0] == 1}
	copy(v.Digest[:], raw[1:33])
	off := 33
	inLen := readU32LE(raw[off:])
	off += 4
	if off+int(inLen) > len(raw) {
		return Vector{}, fmt.Errorf("fixturestore: truncated input for %s", scenarioID)
	}
	v.Input = append([]byte(nil), raw[off:off+int(inLen)]...)
	off += int(inLen)
	if off+4 > len(raw) {
		return Vector{}, fmt.Errorf("fixturestore: truncated output length for %s", scenarioID)
	}
	outLen := readU32LE(raw[off:])
	off += 4
	if off+int(outLen) > len(raw) {
		return Vector{}, fmt.Errorf("fixturestore: truncated output for %s", scenarioID)
	}
	v.Output = append([]byte(nil), raw[off:off+int(outLen)]...)
	return v, nil
}

func appendU32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func readU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
