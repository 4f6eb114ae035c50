package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bombparty/internal/apperr"
	"bombparty/internal/model"
	"bombparty/internal/ratelimit"
	"bombparty/internal/registry"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to WebSocket connections and dispatches
// spec §6.2's inbound commands against a Registry, per the teacher's
// Server.HandleWS.
type Handler struct {
	hub *Hub
	reg *registry.Registry
	log *slog.Logger
}

// NewHandler builds a Handler bound to hub (the shared transport.Transport
// every room's Engine broadcasts through) and reg (the room directory).
func NewHandler(hub *Hub, reg *registry.Registry, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{hub: hub, reg: reg, log: log}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}

	s := &socket{
		id:   uuid.NewString(),
		conn: raw,
		send: make(chan []byte, 256),
	}
	h.hub.register(s)

	c := &conn{
		socket:  s,
		hub:     h.hub,
		reg:     h.reg,
		log:     h.log,
		limiter: ratelimit.NewConnectionLimiter(),
	}

	go c.writePump()
	c.readLoop()
}

// conn is the per-connection state the readLoop dispatch methods close
// over: which room and player this socket currently represents, per spec
// §6.1 ("each socket is associated with at most one (roomCode, playerId)
// pair at any time").
type conn struct {
	*socket
	hub     *Hub
	reg     *registry.Registry
	log     *slog.Logger
	limiter *ratelimit.ConnectionLimiter

	roomCode string
	playerID string
}

// inboundMessage is the flat wire envelope for every command in spec
// §6.2. Optional fields are pointers so a parser can distinguish "absent"
// from "present and zero-valued", per spec §6.2's "parser ... returns
// null on schema violation".
type inboundMessage struct {
	Type           string       `json:"type"`
	RoomCode       string       `json:"roomCode"`
	PlayerID       string       `json:"playerId"`
	Name           string       `json:"name"`
	Seated         *bool        `json:"seated"`
	Rules          *model.Rules `json:"rules"`
	Input          *string      `json:"input"`
	Word           *string      `json:"word"`
	ClientActionID string       `json:"clientActionId"`
}

func (c *conn) writeRaw(v any) {
	select {
	case c.send <- mustMarshal(v):
	default:
		c.log.Warn("dropping message to slow socket", "socketId", c.id)
	}
}

func (c *conn) ackOK() {
	c.writeRaw(map[string]any{"type": "ack", "success": true})
}

func (c *conn) ackErr(message string) {
	c.writeRaw(map[string]any{"type": "ack", "success": false, "error": message})
}

// invalidPayload implements spec §6.2's universal parser-failure path: an
// immediate rejecting ack, no state change.
func (c *conn) invalidPayload() {
	c.ackErr("Invalid payload.")
}

// readLoop reads and dispatches inbound frames until the connection
// closes, per the teacher's WSConn.readLoop.
func (c *conn) readLoop() {
	defer func() {
		c.leaveCurrentRoom()
		c.hub.unregister(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read error", "error", err)
			}
			return
		}

		allowed, shouldDisconnect := c.limiter.Allow(msg.Type)
		if !allowed {
			if shouldDisconnect {
				c.ackErr("Rate limit exceeded, disconnecting.")
				return
			}
			c.ackErr("Too many requests, slow down.")
			continue
		}

		c.dispatch(msg)
	}
}

// writePump pumps queued frames and keepalive pings to the underlying
// connection, the sole goroutine allowed to call WriteMessage, per the
// teacher's writePump.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// leaveCurrentRoom runs the disconnect path (spec §4.6 disconnect) for
// whatever room/player this socket last joined, if any.
func (c *conn) leaveCurrentRoom() {
	if c.roomCode == "" || c.playerID == "" {
		return
	}
	if eng := c.reg.GetRoom(c.roomCode); eng != nil {
		eng.Disconnect(c.playerID)
	}
	c.reg.UntrackPlayer(c.playerID)
	c.hub.leaveRoom(c.id, c.roomCode)
	c.roomCode = ""
	c.playerID = ""
}

func (c *conn) dispatch(msg inboundMessage) {
	switch msg.Type {
	case "create-room":
		c.handleCreateRoom(msg)
	case "join-room":
		c.handleJoinRoom(msg)
	case "leave-room":
		c.handleLeaveRoom(msg)
	case "set-player-seated":
		c.handleSetSeated(msg)
	case "update-room-rules":
		c.handleUpdateRules(msg)
	case "start-game":
		c.handleStartGame(msg)
	case "player-typing":
		c.handlePlayerTyping(msg)
	case "submit-word":
		c.handleSubmitWord(msg)
	case "list-rooms":
		c.handleListRooms(msg)
	case "ping":
		c.writeRaw(map[string]any{"type": "pong"})
	default:
		c.ackErr("Unknown command type: " + msg.Type)
	}
}

func (c *conn) handleCreateRoom(msg inboundMessage) {
	rules := model.DefaultRules()
	if msg.Rules != nil {
		rules = *msg.Rules
	}
	_, code, err := c.reg.CreateRoom(rules)
	if err != nil {
		c.ackErr(err.Error())
		return
	}
	c.writeRaw(map[string]any{"type": "ack", "success": true, "code": code})
}

func (c *conn) handleJoinRoom(msg inboundMessage) {
	if msg.RoomCode == "" || msg.PlayerID == "" || msg.Name == "" {
		c.invalidPayload()
		return
	}
	// Reject a second concurrent connection claiming a playerId already
	// active in a different room; a reconnect/rejoin of the same
	// (roomCode, playerId) pair is untouched since existing == msg.RoomCode.
	if existing := c.reg.PlayerRoomCode(msg.PlayerID); existing != "" && existing != msg.RoomCode {
		c.ackErr(apperr.New(apperr.NotAuthorized, "player already active in room "+existing).Error())
		return
	}
	eng := c.reg.GetRoom(msg.RoomCode)
	if eng == nil {
		c.ackErr(string(apperr.RoomNotFound))
		return
	}
	if _, err := eng.Join(msg.PlayerID, msg.Name); err != nil {
		c.ackErr(err.Error())
		return
	}
	// A rejoin with the same (roomCode, playerId) pair this socket already
	// represents (spec L2's idempotent join) must not trigger the
	// disconnect path below on its own previous association.
	if c.roomCode != msg.RoomCode || c.playerID != msg.PlayerID {
		c.leaveCurrentRoom()
	}
	c.roomCode = msg.RoomCode
	c.playerID = msg.PlayerID
	c.reg.TrackPlayer(msg.PlayerID, msg.RoomCode)
	c.hub.joinRoom(c.id, msg.RoomCode)
	c.writeRaw(map[string]any{"type": "ack", "success": true})
}

func (c *conn) handleLeaveRoom(msg inboundMessage) {
	if msg.RoomCode == "" || msg.PlayerID == "" {
		c.invalidPayload()
		return
	}
	eng := c.reg.GetRoom(msg.RoomCode)
	if eng == nil {
		c.ackErr(string(apperr.RoomNotFound))
		return
	}
	_, err := eng.Leave(msg.PlayerID)
	if err != nil {
		c.ackErr(err.Error())
		return
	}
	c.reg.UntrackPlayer(msg.PlayerID)
	c.hub.leaveRoom(c.id, msg.RoomCode)
	if c.playerID == msg.PlayerID {
		c.roomCode = ""
		c.playerID = ""
	}
	c.ackOK()
}

func (c *conn) handleSetSeated(msg inboundMessage) {
	if msg.RoomCode == "" || msg.PlayerID == "" || msg.Seated == nil {
		c.invalidPayload()
		return
	}
	eng := c.reg.GetRoom(msg.RoomCode)
	if eng == nil {
		c.ackErr(string(apperr.RoomNotFound))
		return
	}
	if _, err := eng.SetSeated(msg.PlayerID, *msg.Seated); err != nil {
		c.ackErr(err.Error())
		return
	}
	c.ackOK()
}

func (c *conn) handleUpdateRules(msg inboundMessage) {
	if msg.RoomCode == "" || msg.PlayerID == "" || msg.Rules == nil {
		c.invalidPayload()
		return
	}
	eng := c.reg.GetRoom(msg.RoomCode)
	if eng == nil {
		c.ackErr(string(apperr.RoomNotFound))
		return
	}
	if _, err := eng.UpdateRules(msg.PlayerID, *msg.Rules); err != nil {
		c.ackErr(err.Error())
		return
	}
	c.ackOK()
}

func (c *conn) handleStartGame(msg inboundMessage) {
	if msg.RoomCode == "" || msg.PlayerID == "" {
		c.invalidPayload()
		return
	}
	eng := c.reg.GetRoom(msg.RoomCode)
	if eng == nil {
		c.ackErr(string(apperr.RoomNotFound))
		return
	}
	if _, err := eng.StartGame(msg.PlayerID); err != nil {
		c.ackErr(err.Error())
		return
	}
	c.ackOK()
}

func (c *conn) handlePlayerTyping(msg inboundMessage) {
	if msg.RoomCode == "" || msg.PlayerID == "" || msg.Input == nil {
		c.invalidPayload()
		return
	}
	eng := c.reg.GetRoom(msg.RoomCode)
	if eng == nil {
		return // dropped silently, matching spec's non-current-player drop policy
	}
	eng.PlayerTyping(msg.PlayerID, *msg.Input)
}

func (c *conn) handleSubmitWord(msg inboundMessage) {
	if msg.RoomCode == "" || msg.PlayerID == "" || msg.Word == nil {
		c.invalidPayload()
		return
	}
	eng := c.reg.GetRoom(msg.RoomCode)
	if eng == nil {
		c.ackErr(string(apperr.RoomNotFound))
		return
	}
	if msg.ClientActionID != "" {
		c.hub.watchAck(msg.ClientActionID, c.id)
		eng.SubmitWord(msg.PlayerID, *msg.Word, msg.ClientActionID)
		return
	}
	if _, err := eng.SubmitWord(msg.PlayerID, *msg.Word, ""); err != nil {
		c.ackErr(err.Error())
		return
	}
	c.ackOK()
}

func (c *conn) handleListRooms(msg inboundMessage) {
	rooms := c.reg.ListRooms()
	c.writeRaw(map[string]any{"type": "rooms", "rooms": rooms})
}
