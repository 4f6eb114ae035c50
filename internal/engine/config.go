package engine

import "time"

// Config tunes the timing constants §4.6 leaves as "a constant (e.g. ...)".
type Config struct {
	// CountdownDuration is the pre-game countdown before a game transitions
	// from Countdown to Active (spec §4.6 step 2, "e.g., 3000 ms").
	CountdownDuration time.Duration
	// InitialBombDuration seeds the first turn's bomb timer (spec §4.6
	// step 1, "initialBombSeconds is a constant (e.g. 10)").
	InitialBombDuration time.Duration
	// BombDecayFactor shortens the bomb timer after each accepted word
	// (spec §4.6 adjustBombTimerAfterValidWord, default 0.97).
	BombDecayFactor float64
	// EndGraceDuration is how long the room stays in Ended before
	// resetting to Lobby (spec §4.6 checkGameOver, "e.g., 3000 ms").
	EndGraceDuration time.Duration
	// CommandQueueCapacity bounds the per-room command channel (spec §5
	// Backpressure, "e.g., 1024").
	CommandQueueCapacity int
}

// DefaultConfig returns the constants spec §4.6/§5 suggest as examples.
func DefaultConfig() Config {
	return Config{
		CountdownDuration:    3000 * time.Millisecond,
		InitialBombDuration:  10 * time.Second,
		BombDecayFactor:      0.97,
		EndGraceDuration:     3000 * time.Millisecond,
		CommandQueueCapacity: 1024,
	}
}
