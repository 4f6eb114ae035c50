// Package ws implements the concrete transport.Transport binding over
// gorilla/websocket (spec §6.1/§6.2), grounded on the teacher's srv/ws.go
// (WSConn, upgrader, writePump, command-type switch), generalized from a
// single in-process Server/Room pair to one Hub shared by every room the
// internal/registry.Registry manages.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"bombparty/internal/transport"
)

// envelope is the wire shape for every outbound message: a discriminated
// event with its payload flattened alongside the type tag, matching the
// teacher's practice of tagging every broadcast map with "type".
func envelope(eventName string, payload any) map[string]any {
	out := map[string]any{"type": eventName}
	if m, ok := payload.(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	out["payload"] = payload
	return out
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("json marshal: %v", err))
	}
	return b
}

// socket holds per-connection delivery state. Grounded on the teacher's
// Player.Send pattern: a buffered channel drained by a single writePump
// goroutine, so concurrent Broadcast/SendTo callers never write to the
// same *websocket.Conn from two goroutines at once.
type socket struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub is the process-wide transport.Transport implementation: it tracks
// which sockets are listening to which room codes and fans out
// broadcasts, direct sends, and clientActionId-addressed acks to the
// right connections. Grounded on the teacher's Room.Broadcast (iterate
// players, non-blocking channel send, drop on full).
type Hub struct {
	mu      sync.RWMutex
	sockets map[string]*socket
	rooms   map[string]map[string]struct{} // roomCode -> set of socket IDs
	pending map[string]string              // clientActionId -> socket ID, for Ack routing

	log *slog.Logger
}

// NewHub constructs an empty Hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		sockets: make(map[string]*socket),
		rooms:   make(map[string]map[string]struct{}),
		pending: make(map[string]string),
		log:     log,
	}
}

// register adds a fresh socket to the hub under its id, which serves as
// the onConnect/onDisconnect socketId.
func (h *Hub) register(s *socket) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sockets[s.id] = s
}

// unregister removes a socket and every room membership it held.
func (h *Hub) unregister(socketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sockets, socketID)
	for code, members := range h.rooms {
		if _, ok := members[socketID]; ok {
			delete(members, socketID)
			if len(members) == 0 {
				delete(h.rooms, code)
			}
		}
	}
	for actionID, sid := range h.pending {
		if sid == socketID {
			delete(h.pending, actionID)
		}
	}
}

// joinRoom marks socketID as a listener of roomCode.
func (h *Hub) joinRoom(socketID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomCode] = members
	}
	members[socketID] = struct{}{}
}

// leaveRoom clears socketID's membership of roomCode, if present.
func (h *Hub) leaveRoom(socketID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(members, socketID)
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}

// watchAck records that clientActionID's eventual Ack should be routed to
// socketID, for commands whose result the engine acks asynchronously
// (spec §6.2 submit-word's optional clientActionId).
func (h *Hub) watchAck(clientActionID, socketID string) {
	if clientActionID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[clientActionID] = socketID
}

func (h *Hub) deliver(socketID string, data []byte) {
	h.mu.RLock()
	s, ok := h.sockets[socketID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case s.send <- data:
	default:
		h.log.Warn("dropping message to slow socket", "socketId", socketID)
	}
}

// Broadcast implements transport.Transport.
func (h *Hub) Broadcast(roomCode, eventName string, payload any) {
	data := mustMarshal(envelope(eventName, payload))
	h.mu.RLock()
	ids := make([]string, 0, len(h.rooms[roomCode]))
	for id := range h.rooms[roomCode] {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	for _, id := range ids {
		h.deliver(id, data)
	}
}

// SendTo implements transport.Transport.
func (h *Hub) SendTo(socketID, eventName string, payload any) {
	h.deliver(socketID, mustMarshal(envelope(eventName, payload)))
}

// Ack implements transport.Transport: it routes the ack to whichever
// socket last called watchAck for clientActionID. A clientActionId the
// hub never saw (e.g. the command omitted it) is a silent no-op — the
// caller already has the command's synchronous ack result in that case.
func (h *Hub) Ack(clientActionID string, ack transport.Ack) {
	if clientActionID == "" {
		return
	}
	h.mu.Lock()
	socketID, ok := h.pending[clientActionID]
	if ok {
		delete(h.pending, clientActionID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	h.deliver(socketID, mustMarshal(map[string]any{
		"type":           "ack",
		"clientActionId": clientActionID,
		"success":        ack.Success,
		"error":          ack.Error,
	}))
}

var _ transport.Transport = (*Hub)(nil)
