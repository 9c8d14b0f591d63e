package project

import (
	"crypto/sha256"
	"fmt"
	"os"
	"slices"
)

// Digest is a SHA-256 value, the same shape as source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by deps. Callers keep deps in a
// deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Snapshot digests the contents of paths in sorted order. Two snapshots of
// an unchanged file list compare equal.
func Snapshot(paths []string) (Digest, error) {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	parts := make([]Digest, 0, len(sorted))
	for _, p := range sorted {
		// #nosec G304 -- paths come from the project walk
		data, err := os.ReadFile(p)
		if err != nil {
			return Digest{}, fmt.Errorf("snapshot %s: %w", p, err)
		}
		parts = append(parts, sha256.Sum256(append([]byte(p+"\x00"), data...)))
	}
	return Combine(Digest{}, parts...), nil
}
