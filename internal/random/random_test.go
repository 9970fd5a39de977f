package random

import (
	"errors"
	"testing"
)

func TestNewSeedIsNonNegative(t *testing.T) {
	for i := 0; i < 32; i++ {
		seed, err := NewSeed()
		if err != nil {
			t.Fatalf("NewSeed returned error: %v", err)
		}
		if seed < 0 {
			t.Fatalf("seed = %d, want non-negative", seed)
		}
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive(42, 3)
	b := Derive(42, 3)
	for i := 0; i < 10; i++ {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("draw %d = %d and %d, want equal", i, x, y)
		}
	}
}

func TestDeriveCursorChangesStream(t *testing.T) {
	a := Derive(42, 1)
	b := Derive(42, 2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			same = false
		}
	}
	if same {
		t.Fatal("expected different streams for different cursors")
	}
}

func TestShuffleKeepsElements(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e"}
	Shuffle(New(7), values)

	seen := map[string]int{}
	for _, v := range values {
		seen[v]++
	}
	for _, want := range []string{"a", "b", "c", "d", "e"} {
		if seen[want] != 1 {
			t.Fatalf("element %q count = %d, want 1", want, seen[want])
		}
	}
}

func TestPercentBounds(t *testing.T) {
	rng := New(1)
	for i := 0; i < 100; i++ {
		if Percent(rng, 0) {
			t.Fatal("0% chance succeeded")
		}
		if !Percent(rng, 100) {
			t.Fatal("100% chance failed")
		}
	}
}

func TestResolveSeedDefaultsToServerSeed(t *testing.T) {
	seed, source, mode, err := ResolveSeed(nil, func() (int64, error) {
		return 123, nil
	}, nil)
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 123 {
		t.Fatalf("seed = %d, want 123", seed)
	}
	if source != SeedSourceServer {
		t.Fatalf("seed source = %q, want %q", source, SeedSourceServer)
	}
	if mode != RollModeLive {
		t.Fatalf("roll mode = %v, want %v", mode, RollModeLive)
	}
}

func TestResolveSeedUsesClientSeedWhenAllowed(t *testing.T) {
	seedValue := uint64(77)
	seed, source, mode, err := ResolveSeed(&Request{Seed: &seedValue, RollMode: RollModeReplay},
		func() (int64, error) { return 123, nil },
		func(mode RollMode) bool { return mode == RollModeReplay })
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 77 {
		t.Fatalf("seed = %d, want 77", seed)
	}
	if source != SeedSourceClient {
		t.Fatalf("seed source = %q, want %q", source, SeedSourceClient)
	}
	if mode != RollModeReplay {
		t.Fatalf("roll mode = %v, want %v", mode, RollModeReplay)
	}
}

func TestResolveSeedIgnoresClientSeedWhenDisallowed(t *testing.T) {
	seedValue := uint64(77)
	seed, source, _, err := ResolveSeed(&Request{Seed: &seedValue},
		func() (int64, error) { return 555, nil },
		func(mode RollMode) bool { return mode == RollModeReplay })
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 555 || source != SeedSourceServer {
		t.Fatalf("seed = %d (%s), want 555 (server)", seed, source)
	}
}

func TestResolveSeedRejectsOutOfRangeSeed(t *testing.T) {
	seedValue := maxSeedInt64 + 1
	_, _, _, err := ResolveSeed(&Request{Seed: &seedValue, RollMode: RollModeReplay},
		func() (int64, error) { return 123, nil },
		func(RollMode) bool { return true })
	if !errors.Is(err, ErrSeedOutOfRange()) {
		t.Fatalf("ResolveSeed error = %v, want %v", err, ErrSeedOutOfRange())
	}
}

func TestParseRollMode(t *testing.T) {
	tests := map[string]RollMode{
		"":        RollModeLive,
		"live":    RollModeLive,
		"replay":  RollModeReplay,
		" REPLAY": RollModeReplay,
		"other":   RollModeLive,
	}
	for input, want := range tests {
		if got := ParseRollMode(input); got != want {
			t.Fatalf("ParseRollMode(%q) = %q, want %q", input, got, want)
		}
	}
}
