package random

import (
	"errors"
	"strings"
)

// SeedSource records where a duel seed came from.
type SeedSource string

const (
	// SeedSourceServer marks a seed generated by the server.
	SeedSourceServer SeedSource = "server"
	// SeedSourceClient marks a seed supplied by the caller.
	SeedSourceClient SeedSource = "client"
)

// RollMode distinguishes live duels from replays of recorded seeds.
type RollMode string

const (
	// RollModeLive resolves a fresh duel.
	RollModeLive RollMode = "LIVE"
	// RollModeReplay resolves a duel from a recorded seed.
	RollModeReplay RollMode = "REPLAY"
)

const maxSeedInt64 = uint64(1<<63 - 1)

var errSeedOutOfRange = errors.New("seed is out of range")

// ErrSeedOutOfRange reports that a client seed does not fit in int64.
func ErrSeedOutOfRange() error {
	return errSeedOutOfRange
}

// Request carries caller-supplied rng preferences.
type Request struct {
	Seed     *uint64
	RollMode RollMode
}

// ParseRollMode normalizes a roll mode string, defaulting to live.
func ParseRollMode(value string) RollMode {
	if strings.EqualFold(strings.TrimSpace(value), string(RollModeReplay)) {
		return RollModeReplay
	}
	return RollModeLive
}

// ResolveSeed picks the seed for a duel.
//
// A client seed is honored only when allowClientSeed accepts the requested
// roll mode; otherwise seedFunc generates one. A nil allowClientSeed rejects
// every client seed.
func ResolveSeed(req *Request, seedFunc func() (int64, error), allowClientSeed func(RollMode) bool) (int64, SeedSource, RollMode, error) {
	mode := RollModeLive
	if req != nil && req.RollMode != "" {
		mode = req.RollMode
	}

	if req != nil && req.Seed != nil && allowClientSeed != nil && allowClientSeed(mode) {
		if *req.Seed > maxSeedInt64 {
			return 0, "", mode, errSeedOutOfRange
		}
		return int64(*req.Seed), SeedSourceClient, mode, nil
	}

	if seedFunc == nil {
		seedFunc = NewSeed
	}
	seed, err := seedFunc()
	if err != nil {
		return 0, "", mode, err
	}
	return seed, SeedSourceServer, mode, nil
}
