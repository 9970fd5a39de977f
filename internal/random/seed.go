// Package random provides seed generation and seeded sources for deterministic
// duel resolution.
//
// Every random decision in a duel (deck shuffles, level-1 opponent choices,
// critical rolls, reward rolls) draws from a Source so a duel can be replayed
// from its seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:]) & maxSeedInt64), nil
}
