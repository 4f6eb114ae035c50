package engine

import "time"

// scheduleCountdown arms the pre-game countdown timer. Its fire is
// tagged with the generation active at schedule time; the fire handler
// no-ops if the generation has since moved (spec §5 Cancellation &
// timeouts, generation counters).
func (e *Engine) scheduleCountdown() {
	gen := e.generation
	e.countdownTimer = time.AfterFunc(e.cfg.CountdownDuration, func() {
		e.enqueueBlocking(func() { e.onCountdownFire(gen) })
	})
}

// scheduleBomb arms the per-turn bomb timer against the current
// generation.
func (e *Engine) scheduleBomb() {
	gen := e.generation
	d := time.Until(e.game.bombDeadline)
	if d < 0 {
		d = 0
	}
	e.bombTimer = time.AfterFunc(d, func() {
		e.enqueueBlocking(func() { e.onBombFire(gen) })
	})
}

// scheduleGrace arms the end-of-game grace timer that returns the room to
// Lobby.
func (e *Engine) scheduleGrace() {
	gen := e.generation
	e.graceTimer = time.AfterFunc(e.cfg.EndGraceDuration, func() {
		e.enqueueBlocking(func() { e.onGraceFire(gen) })
	})
}

// resetBombDeadline sets a fresh deadline bombDuration from now and
// reschedules the bomb timer, bumping the generation so any in-flight
// fire for the previous deadline becomes stale.
func (e *Engine) resetBombDeadline() {
	if e.bombTimer != nil {
		e.bombTimer.Stop()
		e.bombTimer = nil
	}
	e.generation++
	e.game.bombDeadline = time.Now().Add(e.game.bombDuration)
	e.scheduleBomb()
}
