package model

// Player is the per-room identity and lifecycle record for a participant,
// per the data model's Player schema.
type Player struct {
	ID            string
	Name          string
	IsSeated      bool
	IsConnected   bool
	IsEliminated  bool
	Lives         int
	BonusProgress [26]int
}

// NewPlayer constructs a freshly joined player seeded from rules.
func NewPlayer(id, name string, rules Rules) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		IsSeated:      false,
		IsConnected:   true,
		IsEliminated:  false,
		Lives:         rules.StartingLives,
		BonusProgress: rules.BonusTemplate,
	}
}

// ResetForLobby restores a player to lobby-ready state after a game ends,
// per §4.6 checkGameOver's grace-period reset.
func (p *Player) ResetForLobby(rules Rules) {
	p.Lives = rules.StartingLives
	p.IsEliminated = false
	p.BonusProgress = rules.BonusTemplate
}
