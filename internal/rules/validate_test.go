package rules

import (
	"testing"

	"bombparty/internal/model"
)

type stubDict struct {
	valid map[string]bool
}

func (s stubDict) IsValid(word string) bool {
	return s.valid[word]
}

func TestValidateSubmissionNotYourTurn(t *testing.T) {
	game := GameView{CurrentPlayerID: "alice", Fragment: "ar", UsedWords: map[string]struct{}{}}
	got := ValidateSubmission(stubDict{}, game, "bob", "car")
	if got != "Not your turn." {
		t.Fatalf("got %q", got)
	}
}

func TestValidateSubmissionTooShort(t *testing.T) {
	game := GameView{CurrentPlayerID: "alice", Fragment: "ar", UsedWords: map[string]struct{}{}}
	got := ValidateSubmission(stubDict{}, game, "alice", "a")
	if got != "Invalid word (too short)." {
		t.Fatalf("got %q", got)
	}
}

func TestValidateSubmissionMissingFragment(t *testing.T) {
	game := GameView{CurrentPlayerID: "alice", Fragment: "ing", UsedWords: map[string]struct{}{}}
	got := ValidateSubmission(stubDict{valid: map[string]bool{"hello": true}}, game, "alice", "hello")
	if got != "Word doesn't contain the fragment." {
		t.Fatalf("got %q", got)
	}
}

func TestValidateSubmissionAlreadyUsed(t *testing.T) {
	game := GameView{
		CurrentPlayerID: "alice",
		Fragment:        "ar",
		UsedWords:       map[string]struct{}{"car": {}},
	}
	got := ValidateSubmission(stubDict{valid: map[string]bool{"car": true}}, game, "alice", "Car")
	if got != "Word already used this game." {
		t.Fatalf("got %q", got)
	}
}

func TestValidateSubmissionNotAValidWord(t *testing.T) {
	game := GameView{CurrentPlayerID: "alice", Fragment: "ar", UsedWords: map[string]struct{}{}}
	got := ValidateSubmission(stubDict{valid: map[string]bool{}}, game, "alice", "carzzz")
	if got != "Not a valid word." {
		t.Fatalf("got %q", got)
	}
}

func TestValidateSubmissionAccepts(t *testing.T) {
	game := GameView{CurrentPlayerID: "alice", Fragment: "ar", UsedWords: map[string]struct{}{}}
	got := ValidateSubmission(stubDict{valid: map[string]bool{"car": true}}, game, "alice", "car")
	if got != "" {
		t.Fatalf("expected acceptance, got %q", got)
	}
}

func TestApplyAcceptedWordAddsToUsedWords(t *testing.T) {
	p := &model.Player{ID: "alice", Lives: 2}
	used := map[string]struct{}{}
	ApplyAcceptedWord(p, 3, [26]int{}, used, "Car")
	if _, ok := used["car"]; !ok {
		t.Fatal("expected lowercased word recorded")
	}
}

func TestApplyAcceptedWordAwardsLifeOnceWhenTemplateCovered(t *testing.T) {
	// bonusTemplate requires one 'c', one 'a', one 'r'.
	template := [26]int{}
	template['c'-'a'] = 1
	template['a'-'a'] = 1
	template['r'-'a'] = 1

	p := &model.Player{ID: "alice", Lives: 1, BonusProgress: template}
	used := map[string]struct{}{}
	res := ApplyAcceptedWord(p, 3, template, used, "car")
	if !res.AwardedLife {
		t.Fatal("expected life awarded after covering full template")
	}
	if p.Lives != 2 {
		t.Fatalf("expected lives=2, got %d", p.Lives)
	}
	if p.BonusProgress != template {
		t.Fatalf("expected progress reset to template, got %v", p.BonusProgress)
	}
}
