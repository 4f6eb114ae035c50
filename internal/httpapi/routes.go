// Package httpapi wires the HTTP surface around the WebSocket transport:
// room listing/info, readiness, and the post-game result pages. Grounded
// on the teacher's srv/server.go (Server.Serve's mux, HandleRoomInfo,
// HandleSaveResult, HandleViewResultPage, HandleOGPImage), adapted from a
// single monolithic Server to a Server that only owns the HTTP routes
// (the WebSocket upgrade itself lives in internal/transport/ws).
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"bombparty/internal/registry"
	"bombparty/internal/resultstore"
)

// Server holds the shared state HTTP handlers need: the room directory,
// the result archive, and this deployment's public base URL (used to
// build the OGP image URL embedded in a result page).
type Server struct {
	reg     *registry.Registry
	store   *resultstore.Store
	ready   *Ready
	baseURL string
	log     *slog.Logger
}

// New constructs a Server.
func New(reg *registry.Registry, store *resultstore.Store, ready *Ready, baseURL string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{reg: reg, store: store, ready: ready, baseURL: baseURL, log: log}
}

// Mux builds the full route table, mounting wsHandler at GET /ws, per the
// teacher's Serve.
func (s *Server) Mux(wsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", wsHandler)
	mux.HandleFunc("GET /rooms", s.handleListRooms)
	mux.HandleFunc("GET /room/{code}", s.handleRoomInfo)
	mux.HandleFunc("POST /api/results", s.handleSaveResult)
	mux.HandleFunc("GET /results/{id}/ogp.svg", s.handleOGPImage)
	mux.HandleFunc("GET /results/{id}", s.handleViewResultPage)
	mux.HandleFunc("GET /readyz", s.ready.ServeHTTP)
	return mux
}

// handleListRooms returns the public, non-private room directory.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.reg.ListRooms()
	if rooms == nil {
		rooms = []registry.RoomSummary{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"rooms": rooms})
}

// handleRoomInfo reports a single room's current snapshot, per the
// teacher's HandleRoomInfo.
func (s *Server) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.NotFound(w, r)
		return
	}
	eng := s.reg.GetRoom(code)
	if eng == nil {
		http.NotFound(w, r)
		return
	}
	snap := eng.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"code":        snap.Code,
		"state":       snap.State,
		"leaderId":    snap.LeaderID,
		"players":     snap.Players,
		"playerCount": len(snap.Players),
	})
}

// saveResultRequest is the body posted once a client observes game-ended,
// carrying the same fields the teacher's client posted to
// POST /api/results (scores/history/lives it already holds locally).
type saveResultRequest struct {
	RoomCode string                  `json:"roomCode"`
	Winner   string                  `json:"winner"`
	Lives    map[string]int          `json:"lives"`
	History  []resultstore.WordEntry `json:"history"`
}

func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	var req saveResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	id, err := s.store.Save(req.RoomCode, req.Winner, req.Lives, req.History)
	if err != nil {
		s.log.Error("save result", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (s *Server) handleViewResultPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, err := s.store.Load(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultstore.RenderPage(w, result, s.baseURL); err != nil {
		s.log.Error("render result page", "error", err)
	}
}

func (s *Server) handleOGPImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, err := s.store.Load(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := resultstore.RenderOGPImage(w, result); err != nil {
		s.log.Error("render ogp image", "error", err)
	}
}
