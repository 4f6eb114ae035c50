// Package engine's commands.go holds the public command surface (spec
// §6.2's inbound commands, minus create-room which belongs to the
// registry). Every method enqueues its work onto the actor's command
// channel and blocks for the result, returning apperr.Busy if the queue
// is saturated (spec §5 Backpressure).
package engine

import (
	"bombparty/internal/apperr"
	"bombparty/internal/model"
	"bombparty/internal/room"
	"bombparty/internal/rules"
	"bombparty/internal/transport"
)

type result struct {
	ack transport.Ack
	err error
}

// call enqueues fn on the actor and waits for its result, mapping a full
// command queue to a Busy ack.
func (e *Engine) call(fn func() (transport.Ack, error)) (transport.Ack, error) {
	resCh := make(chan result, 1)
	err := e.enqueue(func() {
		ack, ferr := fn()
		resCh <- result{ack: ack, err: ferr}
	})
	if err != nil {
		return transport.Ack{Success: false, Error: err.Error()}, err
	}
	select {
	case r := <-resCh:
		return r.ack, r.err
	case <-e.done:
		return transport.Ack{Success: false, Error: "room stopped"}, apperr.New(apperr.RoomNotFound, "room stopped")
	}
}

func okAck() (transport.Ack, error) { return transport.Ack{Success: true}, nil }

func errAck(err error) (transport.Ack, error) {
	return transport.Ack{Success: false, Error: err.Error()}, err
}

// Join implements spec §4.4 addPlayer / §6.2 join-room.
func (e *Engine) Join(playerID, name string) (transport.Ack, error) {
	return e.call(func() (transport.Ack, error) {
		e.room.AddPlayer(playerID, name)
		e.emitPlayersUpdated()
		return okAck()
	})
}

// Leave implements spec §4.4 removePlayer / §6.2 leave-room.
func (e *Engine) Leave(playerID string) (transport.Ack, error) {
	return e.call(func() (transport.Ack, error) {
		if e.room.State == room.Lobby {
			e.room.RemovePlayer(playerID)
			e.emitPlayersUpdated()
			e.destroyIfEmptyLocked()
			return okAck()
		}
		e.disconnectPlayer(playerID)
		e.emitPlayersUpdated()
		return okAck()
	})
}

// SetSeated implements spec §4.4 setSeated / §6.2 set-player-seated.
func (e *Engine) SetSeated(playerID string, seated bool) (transport.Ack, error) {
	return e.call(func() (transport.Ack, error) {
		if err := e.room.SetSeated(playerID, seated); err != nil {
			return errAck(err)
		}
		e.emitPlayersUpdated()
		return okAck()
	})
}

// UpdateRules implements spec §4.4 updateRules / §6.2 update-room-rules.
func (e *Engine) UpdateRules(playerID string, newRules model.Rules) (transport.Ack, error) {
	return e.call(func() (transport.Ack, error) {
		if err := e.room.UpdateRules(playerID, newRules); err != nil {
			return errAck(err)
		}
		e.emitRoomRulesUpdated()
		return okAck()
	})
}

// StartGame implements spec §4.6 startGame / §6.2 start-game.
func (e *Engine) StartGame(playerID string) (transport.Ack, error) {
	return e.call(func() (transport.Ack, error) {
		if err := e.startGameLocked(playerID); err != nil {
			return errAck(err)
		}
		return okAck()
	})
}

// PlayerTyping implements spec §4.6 playerTyping / §6.2 player-typing.
func (e *Engine) PlayerTyping(playerID, input string) (transport.Ack, error) {
	return e.call(func() (transport.Ack, error) {
		if e.room.State != room.Active || e.game == nil {
			return okAck() // dropped silently, no ack failure per spec
		}
		cp := e.game.currentPlayer()
		if cp == nil || cp.ID != playerID {
			return okAck() // non-current players are dropped silently
		}
		e.emitPlayerTypingUpdate(playerID, input)
		return okAck()
	})
}

// SubmitWord implements spec §4.6 submitWord / §6.2 submit-word.
func (e *Engine) SubmitWord(playerID, word, clientActionID string) (transport.Ack, error) {
	ack, err := e.call(func() (transport.Ack, error) {
		if e.room.State != room.Active || e.game == nil {
			return errAck(apperr.New(apperr.IllegalState, "game is not active"))
		}

		view := rules.GameView{
			Fragment:  e.game.fragment,
			UsedWords: e.game.usedWords,
		}
		if cp := e.game.currentPlayer(); cp != nil {
			view.CurrentPlayerID = cp.ID
		}

		if reason := rules.ValidateSubmission(e.dict, view, playerID, word); reason != "" {
			return errAck(apperr.New(apperr.SubmissionRejected, reason))
		}

		player := e.game.playerByID(playerID)
		applied := rules.ApplyAcceptedWord(player, e.game.rules.MaxLives, e.game.rules.BonusTemplate, e.game.usedWords, word)
		e.emitWordAccepted(playerID, word)
		if applied.AwardedLife {
			e.emitPlayerUpdated(player)
		}
		e.adjustBombTimerAfterValidWord()
		e.advanceAfterTurnAction()
		return okAck()
	})
	if clientActionID != "" {
		e.tx.Ack(clientActionID, ack)
	}
	return ack, err
}

// Disconnect implements spec §4.6 disconnect / transport-level socket
// close.
func (e *Engine) Disconnect(playerID string) (transport.Ack, error) {
	return e.call(func() (transport.Ack, error) {
		if e.room.State == room.Lobby {
			e.room.RemovePlayer(playerID)
			e.emitPlayersUpdated()
			e.destroyIfEmptyLocked()
			return okAck()
		}
		wasCurrent := e.game != nil && e.game.currentPlayer() != nil && e.game.currentPlayer().ID == playerID
		e.disconnectPlayer(playerID)
		e.emitPlayersUpdated()
		if e.game != nil && e.game.state == gameActive {
			if e.room.State == room.Active {
				if e.checkGameOver() {
					return okAck()
				}
				if wasCurrent {
					if e.bombTimer != nil {
						e.bombTimer.Stop()
						e.bombTimer = nil
					}
					e.rotateTurnAndAnnounce()
				}
			} else if e.room.State == room.Countdown {
				if e.checkGameOver() {
					return okAck()
				}
				if wasCurrent {
					// Keep currentTurnIndex pointing at a live player so
					// onCountdownFire's transition to Active doesn't start
					// the game on an already-eliminated player (spec I1).
					// The countdown timer itself is untouched: its
					// generation hasn't moved, so it still fires normally.
					e.game.nextTurn()
				}
			}
		}
		return okAck()
	})
}

// disconnectPlayer implements the Countdown/Active branch of spec §4.6
// disconnect: mark disconnected and eliminate immediately (the spec's
// chosen default policy; see DESIGN.md Open Question).
func (e *Engine) disconnectPlayer(playerID string) {
	e.room.Disconnect(playerID)
	if e.game == nil {
		return
	}
	if p := e.game.playerByID(playerID); p != nil {
		p.IsConnected = false
		p.Lives = 0
		p.IsEliminated = true
	}
}
