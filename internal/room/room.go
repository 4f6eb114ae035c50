// Package room implements the lobby-state half of a game room (spec
// §4.4, component C5): membership, seating, leader election, and rule
// updates. Grounded on the teacher's srv/game.go Room type (a
// mutex-guarded map[string]*Player with AddPlayer/RemovePlayer/Broadcast
// methods), generalized to the explicit seated/leader/connected state
// spec.md's data model requires.
package room

import (
	"bombparty/internal/apperr"
	"bombparty/internal/model"
)

// State is the room lifecycle state, per spec §3.
type State int

const (
	Lobby State = iota
	Countdown
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case Lobby:
		return "lobby"
	case Countdown:
		return "countdown"
	case Active:
		return "active"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Room holds lobby-level membership and rules state. Game state lives
// separately in the engine package, which holds a *Room for its lobby
// operations (per spec §3's invariant that Game is present iff
// state != Lobby).
type Room struct {
	Code  string
	Rules model.Rules
	State State

	// order preserves join order, the basis for leader election and
	// turn-order seeding.
	order   []string
	players map[string]*model.Player
}

// New constructs a Room in Lobby state with the given rules.
func New(code string, rules model.Rules) *Room {
	return &Room{
		Code:    code,
		Rules:   rules,
		State:   Lobby,
		players: make(map[string]*model.Player),
	}
}

// AddPlayer implements spec §4.4 addPlayer: idempotent on id; reconnects
// a disconnected player (preserving seat/lives/bonus), or appends a fresh
// one seeded from Rules.
func (r *Room) AddPlayer(id, name string) *model.Player {
	if p, ok := r.players[id]; ok {
		p.IsConnected = true
		return p
	}
	p := model.NewPlayer(id, name, r.Rules)
	r.players[id] = p
	r.order = append(r.order, id)
	return p
}

// RemovePlayer implements spec §4.4 removePlayer: in Lobby, removes
// outright; otherwise the caller (engine) is responsible for the
// eliminate-on-disconnect policy and calls Disconnect instead.
func (r *Room) RemovePlayer(id string) {
	if _, ok := r.players[id]; !ok {
		return
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Disconnect marks a player disconnected without removing them, used
// while a game is active so a reconnect can find them again.
func (r *Room) Disconnect(id string) {
	if p, ok := r.players[id]; ok {
		p.IsConnected = false
	}
}

// SetSeated implements spec §4.4 setSeated: allowed only in Lobby.
func (r *Room) SetSeated(id string, seated bool) error {
	if r.State != Lobby {
		return apperr.New(apperr.IllegalState, "cannot change seating outside Lobby")
	}
	p, ok := r.players[id]
	if !ok {
		return apperr.New(apperr.RoomNotFound, "player not in room")
	}
	p.IsSeated = seated
	return nil
}

// UpdateRules implements spec §4.4 updateRules: leader-only, Lobby-only,
// schema-validated.
func (r *Room) UpdateRules(byPlayerID string, newRules model.Rules) error {
	if r.State != Lobby {
		return apperr.New(apperr.IllegalState, "cannot update rules outside Lobby")
	}
	if r.Leader() != byPlayerID {
		return apperr.New(apperr.NotAuthorized, "only the leader may update rules")
	}
	if err := newRules.Validate(); err != nil {
		return err
	}
	r.Rules = newRules
	return nil
}

// Leader implements spec §4.4: the earliest-joined connected player, or
// "" if none.
func (r *Room) Leader() string {
	for _, id := range r.order {
		if p, ok := r.players[id]; ok && p.IsConnected {
			return id
		}
	}
	return ""
}

// Player returns the player with the given id, or nil.
func (r *Room) Player(id string) *model.Player {
	return r.players[id]
}

// Players returns players in join order, as a fresh slice of the live
// *Player values (mutating an element mutates the room's player).
func (r *Room) Players() []*model.Player {
	out := make([]*model.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// SeatedConnectedPlayers returns, in join order, players eligible to be
// part of a starting game.
func (r *Room) SeatedConnectedPlayers() []*model.Player {
	var out []*model.Player
	for _, id := range r.order {
		p := r.players[id]
		if p.IsSeated && p.IsConnected {
			out = append(out, p)
		}
	}
	return out
}

// PlayerViews projects the current membership into wire views for a
// players-updated broadcast.
func (r *Room) PlayerViews() []model.RoomPlayerView {
	views := make([]model.RoomPlayerView, 0, len(r.order))
	for _, id := range r.order {
		views = append(views, model.ToRoomPlayerView(r.players[id]))
	}
	return views
}

// IsEmpty reports whether the room has no tracked players at all.
func (r *Room) IsEmpty() bool {
	return len(r.players) == 0
}
