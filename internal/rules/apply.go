package rules

import (
	"strings"

	"bombparty/internal/bonus"
	"bombparty/internal/model"
)

// ApplyResult reports the side effects of accepting a submitted word.
type ApplyResult struct {
	AwardedLife bool
}

// ApplyAcceptedWord implements spec §4.5's applyAcceptedWord: it adds the
// lowercased word to usedWords and iterates its characters left-to-right
// calling bonus.TryLetter for each, against player's own bonus-progress
// vector and lives. Only the first life-award per submission is possible
// by construction, since bonus.TryLetter resets the counters to template
// immediately upon awarding.
func ApplyAcceptedWord(player *model.Player, maxLives int, template [26]int, usedWords map[string]struct{}, word string) ApplyResult {
	lower := strings.ToLower(strings.TrimSpace(word))
	usedWords[lower] = struct{}{}

	result := ApplyResult{}
	for _, ch := range word {
		r := bonus.TryLetter(&player.BonusProgress, &player.Lives, ch, maxLives, template)
		if r.AwardedLife && !result.AwardedLife {
			result.AwardedLife = true
		}
	}
	return result
}
