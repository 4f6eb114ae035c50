// Package engine implements the per-room game actor (spec §4.6, component
// C7): countdown, turn rotation, bomb timer, submission dispatch,
// elimination, and end-of-game. Grounded on the teacher's srv/engine.go
// (GameEngine, mutex-guarded turn state) and srv/timer.go (TimerManager,
// goroutine + ticker + cancel channel), generalized to the single-writer
// command-channel actor and generation-counter timer invalidation spec §5
// requires.
package engine

import (
	"log/slog"
	"time"

	"bombparty/internal/apperr"
	"bombparty/internal/model"
	"bombparty/internal/room"
	"bombparty/internal/transport"
)

// Dictionary is the subset of dictionary.Dictionary's contract the engine
// depends on, defined at the point of use per spec §9's note on
// injecting the validator/sampler behind an interface.
type Dictionary interface {
	IsValid(word string) bool
	SampleFragment(minCount int) (string, error)
}

// job is one unit of serialized work on the room's single-writer actor.
type job func()

// Engine is the per-room actor. All mutation of Room/game state happens
// inside run(), reached only through enqueue/enqueueBlocking, so no
// field below this comment is safe to touch from any other goroutine.
type Engine struct {
	code string

	room *room.Room
	dict Dictionary
	tx   transport.Transport
	cfg  Config
	log  *slog.Logger

	cmds chan job
	done chan struct{}

	game *game // nil while room.State == Lobby

	// generation invalidates stale timer fires per spec §5: incremented
	// on every turn advance and game end so a fired-but-superseded timer
	// callback can recognize it is stale and no-op.
	generation uint64

	bombTimer      *time.Timer
	countdownTimer *time.Timer
	graceTimer     *time.Timer

	onDestroy func() // invoked once the room should be dropped by the registry
}

// New constructs an Engine for a freshly created room and starts its
// actor goroutine. Callers must call Stop when the room is destroyed.
func New(code string, rules model.Rules, dict Dictionary, tx transport.Transport, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		code: code,
		room: room.New(code, rules),
		dict: dict,
		tx:   tx,
		cfg:  cfg,
		log:  log,
		cmds: make(chan job, cfg.CommandQueueCapacity),
		done: make(chan struct{}),
	}
	go e.run()
	return e
}

// SetOnDestroy registers a callback invoked once the room becomes an
// empty Lobby with no game active (spec §4.7 destroyRoom's first
// trigger), in addition to the registry's separate idle-TTL sweep.
func (e *Engine) SetOnDestroy(fn func()) {
	e.enqueueBlocking(func() { e.onDestroy = fn })
}

func (e *Engine) run() {
	for {
		select {
		case j := <-e.cmds:
			j()
		case <-e.done:
			return
		}
	}
}

// Stop cancels all timers and terminates the actor goroutine. Idempotent.
func (e *Engine) Stop() {
	e.enqueueBlocking(func() {
		e.cancelAllTimersLocked()
	})
	select {
	case <-e.done:
		// already stopped
	default:
		close(e.done)
	}
}

// enqueue posts a job to the command channel without blocking. Returns
// apperr.Busy if the channel is saturated, per spec §5 Backpressure.
func (e *Engine) enqueue(j job) error {
	select {
	case e.cmds <- j:
		return nil
	default:
		return apperr.New(apperr.Busy, "room command queue is full")
	}
}

// enqueueBlocking posts a job that must not be dropped (internal timer
// fires and Stop/teardown), blocking until there is room in the channel.
// This is distinct from the backpressure-checked enqueue used for
// externally originated commands.
func (e *Engine) enqueueBlocking(j job) {
	done := make(chan struct{})
	wrapped := func() {
		j()
		close(done)
	}
	select {
	case e.cmds <- wrapped:
	case <-e.done:
		return
	}
	select {
	case <-done:
	case <-e.done:
	}
}

// cancelAllTimersLocked stops every live timer. Caller must be running
// inside the actor (i.e. called from within a job).
func (e *Engine) cancelAllTimersLocked() {
	e.generation++
	if e.bombTimer != nil {
		e.bombTimer.Stop()
		e.bombTimer = nil
	}
	if e.countdownTimer != nil {
		e.countdownTimer.Stop()
		e.countdownTimer = nil
	}
	if e.graceTimer != nil {
		e.graceTimer.Stop()
		e.graceTimer = nil
	}
}

// Code returns the room code this engine owns.
func (e *Engine) Code() string { return e.code }

// destroyIfEmptyLocked implements spec §4.7 destroyRoom's first trigger:
// "the last player leaves AND no game is active". Called from within a
// job after a player is removed from the room. The callback itself must
// not run synchronously on the actor goroutine (it stops this very
// engine), so it is dispatched on its own goroutine.
func (e *Engine) destroyIfEmptyLocked() {
	if e.room.State == room.Lobby && e.room.IsEmpty() && e.onDestroy != nil {
		go e.onDestroy()
	}
}
