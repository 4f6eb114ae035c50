// Package transport defines the Transport interface the core engine
// consumes (spec §6.1). The websocket transport layer, HTTP probes,
// logging correlation, and the client UI are explicitly out of scope for
// the core (spec §1); this package only names the boundary.
package transport

// Ack is the acknowledgement payload returned for a command that carried
// a clientActionId, or synchronously to the caller otherwise.
type Ack struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Transport is the abstract message sink/source the engine broadcasts
// events through and receives acks via, per spec §6.1. Implementations
// (e.g. internal/transport/ws) own serialization and delivery; the core
// only depends on this interface.
type Transport interface {
	// Broadcast sends an event to every subscriber of roomCode.
	Broadcast(roomCode, eventName string, payload any)
	// SendTo sends an event to a single socket.
	SendTo(socketID, eventName string, payload any)
	// Ack acknowledges a command identified by clientActionID.
	Ack(clientActionID string, ack Ack)
}
