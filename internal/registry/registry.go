// Package registry implements the process-wide room directory (spec
// §4.7/§4.2, component C8): room-code allocation with bounded retry,
// create/lookup/destroy, reconnect-by-player tracking, idle-room cleanup,
// and room listing. Grounded on the teacher's srv/game.go RoomManager
// (code->room map, playerRoom reconnect index, StartCleanup/StopCleanup,
// ListRooms), generalized so each room's mutating dispatch goes through
// its own internal/engine.Engine actor rather than a single shared mutex.
package registry

import (
	"log/slog"
	"sync"
	"time"

	"bombparty/internal/apperr"
	"bombparty/internal/engine"
	"bombparty/internal/model"
	"bombparty/internal/roomcode"
	"bombparty/internal/transport"
)

// maxAllocationAttempts bounds the room-code collision retry loop (spec
// §4.2: create-room retries with a freshly generated code on collision,
// up to a bounded number of attempts before failing).
const maxAllocationAttempts = 10

// Clock abstracts time.Now so idle-cleanup can be driven deterministically
// in tests.
type Clock func() time.Time

// entry bundles an Engine with the bookkeeping the registry itself needs
// (the engine package has no notion of "room age" or listing metadata).
type entry struct {
	eng        *engine.Engine
	emptySince *time.Time // nil while the room has players; set by sweepIdleRooms
}

// Registry owns every live room's Engine, keyed by room code, plus a
// player->room index for reconnect lookups. Grounded on the teacher's
// RoomManager; unlike the teacher (a single mutex guarding a map of
// passive *Room structs), each room here is an independently running
// actor, so the registry's own mutex only ever protects the directory
// itself, never in-game state.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*entry

	playerRoom map[string]string // playerID -> room code

	gen  *roomcode.Generator
	dict engine.Dictionary
	tx   transport.Transport
	cfg  engine.Config
	log  *slog.Logger
	now  Clock

	cleanupStop chan struct{}
}

// New constructs a Registry. dict and tx are shared across every room's
// Engine; gen allocates room codes (spec §4.2).
func New(gen *roomcode.Generator, dict engine.Dictionary, tx transport.Transport, cfg engine.Config, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		rooms:      make(map[string]*entry),
		playerRoom: make(map[string]string),
		gen:        gen,
		dict:       dict,
		tx:         tx,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// CreateRoom allocates a fresh room code and starts its Engine, retrying
// on collision up to maxAllocationAttempts times before failing with
// apperr.RoomCodeSpaceExhausted (spec §4.2/§4.7).
func (r *Registry) CreateRoom(rules model.Rules) (*engine.Engine, string, error) {
	if err := rules.Validate(); err != nil {
		return nil, "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		code := r.gen.Generate()
		if _, exists := r.rooms[code]; exists {
			continue
		}
		eng := engine.New(code, rules, r.dict, r.tx, r.cfg, r.log)
		e := &entry{eng: eng}
		r.rooms[code] = e
		eng.SetOnDestroy(func() { r.destroy(code) })
		return eng, code, nil
	}
	return nil, "", apperr.New(apperr.RoomCodeSpaceExhausted, "exhausted room code allocation attempts")
}

// GetRoom returns the Engine for code, or nil if no such room exists.
func (r *Registry) GetRoom(code string) *engine.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[code]
	if !ok {
		return nil
	}
	return e.eng
}

// destroy stops and removes the room at code, if present. Safe to call
// more than once.
func (r *Registry) destroy(code string) {
	r.mu.Lock()
	e, ok := r.rooms[code]
	if ok {
		delete(r.rooms, code)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	e.eng.Stop()
	r.untrackRoom(code)
}

// RemoveRoom stops and removes a room explicitly (e.g. an operator
// action), distinct from the idle-cleanup sweep.
func (r *Registry) RemoveRoom(code string) {
	r.destroy(code)
}

// TrackPlayer records that playerID is currently in the room at code,
// per the teacher's RoomManager.TrackPlayer, used to resolve a
// reconnecting socket back to its room.
func (r *Registry) TrackPlayer(playerID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playerRoom[playerID] = code
}

// UntrackPlayer removes a player's room tracking.
func (r *Registry) UntrackPlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.playerRoom, playerID)
}

// PlayerRoomCode returns the room code playerID was last tracked in, or
// "" if none.
func (r *Registry) PlayerRoomCode(playerID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerRoom[playerID]
}

// untrackRoom removes every player tracked against code, called once a
// room is destroyed so stale reconnect lookups don't resolve to a dead
// engine.
func (r *Registry) untrackRoom(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for playerID, c := range r.playerRoom {
		if c == code {
			delete(r.playerRoom, playerID)
		}
	}
}

// RoomSummary is a listing-facing projection of a room, per the teacher's
// RoomInfo.
type RoomSummary struct {
	Code        string `json:"code"`
	State       string `json:"state"`
	PlayerCount int    `json:"playerCount"`
}

// ListRooms returns a snapshot of every non-private room (empty rooms
// included), per
// the teacher's RoomManager.ListRooms (skip r.Settings.Private).
// internal/model.Rules.Private is this spec's generalization of that
// field (see DESIGN.md).
func (r *Registry) ListRooms() []RoomSummary {
	r.mu.RLock()
	codes := make([]string, 0, len(r.rooms))
	engines := make([]*engine.Engine, 0, len(r.rooms))
	for code, e := range r.rooms {
		codes = append(codes, code)
		engines = append(engines, e.eng)
	}
	r.mu.RUnlock()

	out := make([]RoomSummary, 0, len(codes))
	for i, code := range codes {
		if engines[i].Rules().Private {
			continue
		}
		snap := engines[i].Snapshot()
		out = append(out, RoomSummary{
			Code:        code,
			State:       snap.State,
			PlayerCount: len(snap.Players),
		})
	}
	return out
}

// RoomCount reports the number of live rooms, for metrics/diagnostics.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// StartCleanup starts a background sweep that destroys rooms which have
// been in Lobby state with no players for longer than maxEmptyAge,
// checked every interval. Grounded on the teacher's
// RoomManager.StartCleanup/cleanupEmptyRooms.
func (r *Registry) StartCleanup(interval, maxEmptyAge time.Duration) {
	r.mu.Lock()
	if r.cleanupStop != nil {
		r.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	r.cleanupStop = stop
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.sweepIdleRooms(maxEmptyAge)
			}
		}
	}()
}

// StopCleanup stops the background sweep goroutine started by
// StartCleanup. Safe to call even if cleanup was never started.
func (r *Registry) StopCleanup() {
	r.mu.Lock()
	stop := r.cleanupStop
	r.cleanupStop = nil
	r.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

// sweepIdleRooms implements the teacher's cleanupEmptyRooms: a room that
// is an empty Lobby gets its emptySince stamped the first time it's
// observed that way, and is destroyed once it has stayed that way longer
// than maxAge. A room that regains players or leaves Lobby has its
// emptySince cleared.
func (r *Registry) sweepIdleRooms(maxAge time.Duration) {
	r.mu.RLock()
	candidates := make(map[string]*entry, len(r.rooms))
	for code, e := range r.rooms {
		candidates[code] = e
	}
	r.mu.RUnlock()

	now := r.now()
	var toDestroy []string
	r.mu.Lock()
	for code, e := range candidates {
		snap := e.eng.Snapshot()
		if snap.State != "lobby" || len(snap.Players) > 0 {
			e.emptySince = nil
			continue
		}
		if e.emptySince == nil {
			stamp := now
			e.emptySince = &stamp
			continue
		}
		if now.Sub(*e.emptySince) >= maxAge {
			toDestroy = append(toDestroy, code)
		}
	}
	r.mu.Unlock()

	for _, code := range toDestroy {
		r.log.Info("room cleaned up (idle empty lobby)", "roomCode", code)
		r.destroy(code)
	}
}
