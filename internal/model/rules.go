package model

import "bombparty/internal/apperr"

// Rules configures a room's game parameters, per the data model's Rules
// schema.
type Rules struct {
	MaxLives          int    `json:"maxLives" yaml:"maxLives"`
	StartingLives     int    `json:"startingLives" yaml:"startingLives"`
	BonusTemplate     [26]int `json:"bonusTemplate" yaml:"bonusTemplate"`
	MinTurnDuration   int    `json:"minTurnDuration" yaml:"minTurnDuration"` // seconds
	MinWordsPerPrompt int    `json:"minWordsPerPrompt" yaml:"minWordsPerPrompt"`

	// Private excludes the room from RoomRegistry.ListRooms. Not part of
	// spec.md's Rules schema; added to support the supplemented room
	// listing operation (see DESIGN.md Open Question: room listing
	// privacy).
	Private bool `json:"private,omitempty" yaml:"private,omitempty"`
}

// DefaultRules returns a reasonable default rule set for a newly created
// room.
func DefaultRules() Rules {
	return Rules{
		MaxLives:          3,
		StartingLives:     3,
		BonusTemplate:     [26]int{}, // no bonus letters required by default
		MinTurnDuration:   5,
		MinWordsPerPrompt: 3,
	}
}

// Validate checks r against the §3 Rules schema, returning an
// apperr.InvalidPayload-kinded error describing the first violation found.
func (r Rules) Validate() error {
	if r.MaxLives < 1 {
		return apperr.New(apperr.InvalidPayload, "maxLives must be >= 1")
	}
	if r.StartingLives < 1 || r.StartingLives > r.MaxLives {
		return apperr.New(apperr.InvalidPayload, "startingLives must be in [1, maxLives]")
	}
	for _, v := range r.BonusTemplate {
		if v < 0 {
			return apperr.New(apperr.InvalidPayload, "bonusTemplate values must be >= 0")
		}
	}
	if r.MinTurnDuration < 1 {
		return apperr.New(apperr.InvalidPayload, "minTurnDuration must be >= 1")
	}
	if r.MinWordsPerPrompt < 1 {
		return apperr.New(apperr.InvalidPayload, "minWordsPerPrompt must be >= 1")
	}
	return nil
}
