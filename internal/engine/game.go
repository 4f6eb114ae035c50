package engine

import (
	"time"

	"bombparty/internal/model"
)

// gameState is the Game.State enumeration from spec §3.
type gameState int

const (
	gameActive gameState = iota
	gameEnded
)

// game holds the mutable in-progress game state (spec §3's Game entity).
// All access happens on the engine's single-writer actor goroutine.
type game struct {
	players          []*model.Player // snapshot taken at startGame, in turn order
	currentTurnIndex int
	fragment         string
	usedWords        map[string]struct{}
	bombDeadline     time.Time
	bombDuration     time.Duration
	state            gameState
	rules            model.Rules
}

// currentPlayer returns the player whose turn it is, or nil if no players
// remain.
func (g *game) currentPlayer() *model.Player {
	if len(g.players) == 0 {
		return nil
	}
	if g.currentTurnIndex < 0 || g.currentTurnIndex >= len(g.players) {
		return nil
	}
	return g.players[g.currentTurnIndex]
}

// alivePlayers returns players with !IsEliminated, in turn order.
func (g *game) alivePlayers() []*model.Player {
	var out []*model.Player
	for _, p := range g.players {
		if !p.IsEliminated {
			out = append(out, p)
		}
	}
	return out
}

// playerByID finds a snapshot player by id.
func (g *game) playerByID(id string) *model.Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// nextTurn implements spec §4.6 nextTurn: advance currentTurnIndex modulo
// player count, skipping eliminated and disconnected players. Reports
// false if no eligible candidate exists (the game should be treated as
// ended).
func (g *game) nextTurn() bool {
	n := len(g.players)
	if n == 0 {
		return false
	}
	start := g.currentTurnIndex
	for i := 1; i <= n; i++ {
		idx := (start + i) % n
		p := g.players[idx]
		if !p.IsEliminated && p.IsConnected {
			g.currentTurnIndex = idx
			return true
		}
	}
	return false
}

// views projects the game's players into GamePlayerView for broadcast.
func (g *game) views() []model.GamePlayerView {
	out := make([]model.GamePlayerView, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, model.ToGamePlayerView(p, g.rules.BonusTemplate))
	}
	return out
}
