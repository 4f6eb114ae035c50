package engine

import "bombparty/internal/model"

// Event names, per spec §6.3.
const (
	EventPlayersUpdated      = "players-updated"
	EventRoomRulesUpdated    = "room-rules-updated"
	EventGameCountdownStart  = "game-countdown-started"
	EventGameStarted         = "game-started"
	EventTurnStarted         = "turn-started"
	EventWordAccepted        = "word-accepted"
	EventPlayerUpdated       = "player-updated"
	EventPlayerTypingUpdate  = "player-typing-update"
	EventGameEnded           = "game-ended"
)

func (e *Engine) emitPlayersUpdated() {
	leader := e.room.Leader()
	payload := map[string]any{
		"players": e.room.PlayerViews(),
	}
	if leader != "" {
		payload["leaderId"] = leader
	} else {
		payload["leaderId"] = nil
	}
	e.tx.Broadcast(e.code, EventPlayersUpdated, payload)
}

func (e *Engine) emitRoomRulesUpdated() {
	e.tx.Broadcast(e.code, EventRoomRulesUpdated, map[string]any{
		"roomCode": e.code,
		"rules":    e.room.Rules,
	})
}

func (e *Engine) emitCountdownStarted(deadline int64) {
	e.tx.Broadcast(e.code, EventGameCountdownStart, map[string]any{
		"deadline": deadline,
	})
}

func (e *Engine) emitGameStarted() {
	var currentPlayer any
	if cp := e.game.currentPlayer(); cp != nil {
		currentPlayer = cp.ID
	}
	var leader any
	if l := e.room.Leader(); l != "" {
		leader = l
	}
	e.tx.Broadcast(e.code, EventGameStarted, map[string]any{
		"roomCode":      e.code,
		"fragment":      e.game.fragment,
		"bombDuration":  e.game.bombDuration.Milliseconds(),
		"currentPlayer": currentPlayer,
		"leaderId":      leader,
		"players":       e.game.views(),
	})
}

func (e *Engine) emitTurnStarted() {
	var playerID any
	if cp := e.game.currentPlayer(); cp != nil {
		playerID = cp.ID
	} else {
		playerID = nil
	}
	e.tx.Broadcast(e.code, EventTurnStarted, map[string]any{
		"playerId":     playerID,
		"fragment":     e.game.fragment,
		"bombDuration": e.game.bombDuration.Milliseconds(),
		"players":      e.game.views(),
	})
}

func (e *Engine) emitWordAccepted(playerID, word string) {
	e.tx.Broadcast(e.code, EventWordAccepted, map[string]any{
		"playerId": playerID,
		"word":     word,
	})
}

func (e *Engine) emitPlayerUpdated(p *model.Player) {
	e.tx.Broadcast(e.code, EventPlayerUpdated, map[string]any{
		"playerId": p.ID,
		"lives":    p.Lives,
	})
}

func (e *Engine) emitPlayerTypingUpdate(playerID, input string) {
	e.tx.Broadcast(e.code, EventPlayerTypingUpdate, map[string]any{
		"playerId": playerID,
		"input":    input,
	})
}

func (e *Engine) emitGameEnded(winnerID string) {
	var winner any
	if winnerID != "" {
		winner = winnerID
	}
	e.tx.Broadcast(e.code, EventGameEnded, map[string]any{
		"winnerId": winner,
	})
}
