// Package rules implements pure word-submission validation (spec §4.5,
// component C6), grounded on the teacher's srv/engine.go
// ValidateAndSubmitWord pipeline (turn check -> liveness check -> format
// check -> length check -> chain-continuation check -> used-word check ->
// house-rule checks), restructured around this spec's
// fragment/history/dictionary checks in the same early-return-with-reason
// style.
package rules

import "strings"

// Dictionary is the subset of dictionary.Dictionary's contract this
// package depends on. Defined at the point of use so rules stays
// decoupled from the concrete dictionary implementation, letting tests
// substitute a deterministic stub (per spec §9's design note on
// polymorphism of game variants).
type Dictionary interface {
	IsValid(word string) bool
}

// GameView is the minimal read-only view of in-progress game state
// ValidateSubmission needs: the current player's id, the active
// fragment, and the set of words already used this game.
type GameView struct {
	CurrentPlayerID string
	Fragment        string
	UsedWords       map[string]struct{}
}

// ValidateSubmission implements spec §4.5's six-step check, returning an
// empty string on acceptance or a human-readable rejection reason
// otherwise.
func ValidateSubmission(dict Dictionary, game GameView, playerID, rawWord string) string {
	if playerID != game.CurrentPlayerID {
		return "Not your turn."
	}
	w := strings.TrimSpace(rawWord)
	if len(w) < 2 {
		return "Invalid word (too short)."
	}
	lower := strings.ToLower(w)
	if !strings.Contains(lower, strings.ToLower(game.Fragment)) {
		return "Word doesn't contain the fragment."
	}
	if _, used := game.UsedWords[lower]; used {
		return "Word already used this game."
	}
	if !dict.IsValid(w) {
		return "Not a valid word."
	}
	return ""
}
