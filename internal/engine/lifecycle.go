package engine

import (
	"math"
	"time"

	"bombparty/internal/apperr"
	"bombparty/internal/model"
	"bombparty/internal/room"
)

// startGameLocked implements spec §4.6 startGame. Caller must already be
// running inside the actor.
func (e *Engine) startGameLocked(byPlayerID string) error {
	if e.room.State != room.Lobby {
		return apperr.New(apperr.IllegalState, "game already in progress")
	}
	if e.room.Leader() != byPlayerID {
		return apperr.New(apperr.NotAuthorized, "only the leader may start the game")
	}
	seated := e.room.SeatedConnectedPlayers()
	if len(seated) < 2 {
		return apperr.New(apperr.IllegalState, "need at least 2 seated and connected players")
	}

	rules := e.room.Rules
	players := make([]*model.Player, len(seated))
	copy(players, seated)
	for _, p := range players {
		p.ResetForLobby(rules)
	}

	fragment, err := e.dict.SampleFragment(rules.MinWordsPerPrompt)
	if err != nil {
		return err
	}

	bombDur := e.cfg.InitialBombDuration
	if minDur := time.Duration(rules.MinTurnDuration) * time.Second; minDur > bombDur {
		bombDur = minDur
	}

	e.game = &game{
		players:          players,
		currentTurnIndex: 0,
		fragment:         fragment,
		usedWords:        make(map[string]struct{}),
		bombDuration:     bombDur,
		state:            gameActive,
		rules:            rules,
	}
	e.room.State = room.Countdown
	e.generation++

	deadline := time.Now().Add(e.cfg.CountdownDuration)
	e.emitCountdownStarted(deadline.UnixMilli())
	e.scheduleCountdown()
	return nil
}

// onCountdownFire implements spec §4.6 step 3: transition Countdown ->
// Active and start the bomb timer.
func (e *Engine) onCountdownFire(gen uint64) {
	if gen != e.generation || e.room.State != room.Countdown || e.game == nil {
		return
	}
	e.room.State = room.Active
	e.game.bombDeadline = time.Now().Add(e.game.bombDuration)
	e.generation++
	e.emitGameStarted()
	e.scheduleBomb()
}

// onBombFire implements spec §4.6's turn loop fire handler: decrement the
// current player's life, check for elimination and game-over, then
// advance the turn.
func (e *Engine) onBombFire(gen uint64) {
	if gen != e.generation || e.game == nil || e.game.state != gameActive {
		return
	}
	cp := e.game.currentPlayer()
	if cp != nil {
		cp.Lives--
		if cp.Lives <= 0 {
			cp.Lives = 0
			cp.IsEliminated = true
		}
		e.emitPlayerUpdated(cp)
	}
	e.advanceAfterTurnAction()
}

// advanceAfterTurnAction implements the shared tail of both the bomb-fire
// path and the accepted-submission path: check game over, else rotate
// the turn.
func (e *Engine) advanceAfterTurnAction() {
	if e.checkGameOver() {
		return
	}
	e.rotateTurnAndAnnounce()
}

// rotateTurnAndAnnounce implements spec §4.6's "advance turn ..., resample
// fragment ..., reset bomb deadline ..., emit turn-started" sequence,
// shared by the bomb-fire, accepted-submission, and
// disconnected-while-current paths. Callers must have already determined
// the game is not over.
func (e *Engine) rotateTurnAndAnnounce() {
	if !e.game.nextTurn() {
		e.endGame(e.soleWinnerIfAny())
		return
	}
	if fragment, err := e.dict.SampleFragment(e.game.rules.MinWordsPerPrompt); err == nil {
		e.game.fragment = fragment
	} else {
		e.log.Error("fragment resample failed", "roomCode", e.code, "error", err)
	}
	e.resetBombDeadline()
	e.emitTurnStarted()
}

// checkGameOver implements spec §4.6 checkGameOver.
func (e *Engine) checkGameOver() bool {
	alive := e.game.alivePlayers()
	if len(alive) > 1 {
		return false
	}
	var winnerID string
	if len(alive) == 1 {
		winnerID = alive[0].ID
	}
	e.endGame(winnerID)
	return true
}

// soleWinnerIfAny is the defensive fallback for nextTurn finding no
// eligible candidate even though checkGameOver didn't already end the
// game (spec §4.6 nextTurn: "If no candidate exists, treat the game as
// ended.").
func (e *Engine) soleWinnerIfAny() string {
	alive := e.game.alivePlayers()
	if len(alive) == 1 {
		return alive[0].ID
	}
	return ""
}

// endGame implements the Ended-state entry of spec §4.6 checkGameOver:
// cancel timers, broadcast game-ended exactly once, and schedule the
// grace-period return to Lobby.
func (e *Engine) endGame(winnerID string) {
	if e.game == nil || e.game.state == gameEnded {
		return
	}
	e.game.state = gameEnded
	e.room.State = room.Ended
	e.cancelAllTimersLocked()
	e.emitGameEnded(winnerID)
	e.scheduleGrace()
}

// onGraceFire implements spec §4.6's grace-period reset: Ended -> Lobby,
// resetting every player and clearing the game.
func (e *Engine) onGraceFire(gen uint64) {
	if gen != e.generation || e.room.State != room.Ended {
		return
	}
	rules := e.room.Rules
	for _, p := range e.room.Players() {
		p.ResetForLobby(rules)
	}
	e.game = nil
	e.room.State = room.Lobby
	e.generation++
	e.emitPlayersUpdated()
}

// adjustBombTimerAfterValidWord implements spec §4.6
// adjustBombTimerAfterValidWord: shorten the bomb duration, clamped to
// the minTurnDuration floor.
func (e *Engine) adjustBombTimerAfterValidWord() {
	floor := time.Duration(e.game.rules.MinTurnDuration) * time.Second
	decayed := time.Duration(math.Round(float64(e.game.bombDuration) * e.cfg.BombDecayFactor))
	if decayed < floor {
		decayed = floor
	}
	e.game.bombDuration = decayed
}
