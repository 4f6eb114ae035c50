package config

import (
	"strings"
	"testing"
)

func TestLoadPresetsParsesNamedBundles(t *testing.T) {
	doc := `
casual:
  maxLives: 3
  startingLives: 3
  minTurnDuration: 8
  minWordsPerPrompt: 3
tournament:
  maxLives: 1
  startingLives: 1
  minTurnDuration: 4
  minWordsPerPrompt: 5
`
	presets, err := LoadPresets(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(presets))
	}
	casual, ok := presets["casual"]
	if !ok {
		t.Fatal("expected a 'casual' preset")
	}
	if casual.MaxLives != 3 || casual.MinTurnDuration != 8 {
		t.Fatalf("unexpected casual preset: %+v", casual)
	}
	tournament := presets["tournament"]
	if tournament.MaxLives != 1 || tournament.MinWordsPerPrompt != 5 {
		t.Fatalf("unexpected tournament preset: %+v", tournament)
	}
}

func TestLoadPresetsRejectsInvalidRules(t *testing.T) {
	doc := `
broken:
  maxLives: 0
  startingLives: 1
  minTurnDuration: 5
  minWordsPerPrompt: 3
`
	if _, err := LoadPresets(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a preset with maxLives=0")
	}
}

func TestGetEnvFallback(t *testing.T) {
	if got := getEnv("BOMBPARTY_TEST_UNSET_VAR", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback value, got %q", got)
	}
}

func TestGetDurationParsesSecondsAndDurationStrings(t *testing.T) {
	t.Setenv("BOMBPARTY_TEST_SECS", "30")
	if got := getDuration("BOMBPARTY_TEST_SECS", 0); got.Seconds() != 30 {
		t.Fatalf("expected 30s, got %v", got)
	}

	t.Setenv("BOMBPARTY_TEST_DUR", "2m")
	if got := getDuration("BOMBPARTY_TEST_DUR", 0); got.Minutes() != 2 {
		t.Fatalf("expected 2m, got %v", got)
	}
}
