package engine

import (
	"bombparty/internal/model"
	"bombparty/internal/room"
)

// Snapshot is an immutable, goroutine-safe-to-read projection of a room's
// current state, used for HTTP room-info responses and for tests to
// observe actor state without racing it.
type Snapshot struct {
	Code            string
	State           string
	LeaderID        string
	Players         []model.RoomPlayerView
	GameActive      bool
	Fragment        string
	CurrentPlayerID string
	UsedWordCount   int
	BombDurationMs  int64
	Lives           map[string]int
	Eliminated      map[string]bool
}

// Snapshot materializes the current room/game state. Safe to call
// concurrently; it runs on the actor like any other command.
func (e *Engine) Snapshot() Snapshot {
	resCh := make(chan Snapshot, 1)
	err := e.enqueue(func() {
		resCh <- e.snapshotLocked()
	})
	if err != nil {
		return Snapshot{Code: e.code, State: "busy"}
	}
	select {
	case s := <-resCh:
		return s
	case <-e.done:
		return Snapshot{Code: e.code, State: "stopped"}
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		Code:     e.code,
		State:    e.room.State.String(),
		LeaderID: e.room.Leader(),
		Players:  e.room.PlayerViews(),
	}
	if e.game != nil {
		s.GameActive = e.game.state == gameActive && e.room.State == room.Active
		s.Fragment = e.game.fragment
		s.UsedWordCount = len(e.game.usedWords)
		s.BombDurationMs = e.game.bombDuration.Milliseconds()
		if cp := e.game.currentPlayer(); cp != nil {
			s.CurrentPlayerID = cp.ID
		}
		s.Lives = make(map[string]int, len(e.game.players))
		s.Eliminated = make(map[string]bool, len(e.game.players))
		for _, p := range e.game.players {
			s.Lives[p.ID] = p.Lives
			s.Eliminated[p.ID] = p.IsEliminated
		}
	}
	return s
}

// Rules returns the room's current rule set, for the registry's room
// listing to check Rules.Private without exposing the whole Snapshot.
func (e *Engine) Rules() model.Rules {
	resCh := make(chan model.Rules, 1)
	err := e.enqueue(func() { resCh <- e.room.Rules })
	if err != nil {
		return model.Rules{}
	}
	select {
	case rl := <-resCh:
		return rl
	case <-e.done:
		return model.Rules{}
	}
}
