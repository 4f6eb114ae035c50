package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"bombparty/internal/engine"
	"bombparty/internal/model"
	"bombparty/internal/registry"
	"bombparty/internal/resultstore"
	"bombparty/internal/roomcode"
	"bombparty/internal/transport"
)

type noopTransport struct{}

func (noopTransport) Broadcast(roomCode, eventName string, payload any) {}
func (noopTransport) SendTo(socketID, eventName string, payload any)    {}
func (noopTransport) Ack(clientActionID string, ack transport.Ack)      {}

type stubDictionary struct{}

func (stubDictionary) IsValid(string) bool                { return true }
func (stubDictionary) SampleFragment(int) (string, error) { return "ar", nil }

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	gen, err := roomcode.New("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 4, rand.Float64)
	if err != nil {
		t.Fatalf("roomcode.New failed: %v", err)
	}
	return registry.New(gen, stubDictionary{}, noopTransport{}, engine.DefaultConfig(), slog.Default())
}

func testStore(t *testing.T) *resultstore.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "httpapi_test.sqlite3")
	t.Cleanup(func() { os.Remove(dbPath) })
	s, err := resultstore.Open(dbPath)
	if err != nil {
		t.Fatalf("resultstore.Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestListRoomsEndpointReturnsJSON(t *testing.T) {
	reg := testRegistry(t)
	reg.CreateRoom(model.DefaultRules())
	store := testStore(t)
	srv := New(reg, store, NewReady(), "https://example.com", slog.Default())

	ts := httptest.NewServer(srv.Mux(http.NotFoundHandler()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/rooms")
	if err != nil {
		t.Fatalf("GET /rooms failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Rooms []registry.RoomSummary `json:"rooms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(body.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(body.Rooms))
	}
}

func TestRoomInfoEndpointNotFound(t *testing.T) {
	reg := testRegistry(t)
	store := testStore(t)
	srv := New(reg, store, NewReady(), "https://example.com", slog.Default())
	ts := httptest.NewServer(srv.Mux(http.NotFoundHandler()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/room/ZZZZ")
	if err != nil {
		t.Fatalf("GET /room/ZZZZ failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSaveAndViewResultFlow(t *testing.T) {
	reg := testRegistry(t)
	store := testStore(t)
	srv := New(reg, store, NewReady(), "https://example.com", slog.Default())
	ts := httptest.NewServer(srv.Mux(http.NotFoundHandler()))
	defer ts.Close()

	body, _ := json.Marshal(map[string]any{
		"roomCode": "ABCD",
		"winner":   "alice",
		"lives":    map[string]int{"alice": 2, "bob": 0},
		"history":  []resultstore.WordEntry{{Player: "alice", Word: "cat"}},
	})
	resp, err := http.Post(ts.URL+"/api/results", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/results failed: %v", err)
	}
	defer resp.Body.Close()
	var saved struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&saved)
	if saved.ID == "" {
		t.Fatal("expected a non-empty saved result ID")
	}

	pageResp, err := http.Get(ts.URL + "/results/" + saved.ID)
	if err != nil {
		t.Fatalf("GET /results/%s failed: %v", saved.ID, err)
	}
	defer pageResp.Body.Close()
	if pageResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for result page, got %d", pageResp.StatusCode)
	}

	ogpResp, err := http.Get(ts.URL + "/results/" + saved.ID + "/ogp.svg")
	if err != nil {
		t.Fatalf("GET ogp.svg failed: %v", err)
	}
	defer ogpResp.Body.Close()
	if ct := ogpResp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("expected image/svg+xml content type, got %q", ct)
	}
}

func TestReadyzReportsNotReadyThenReady(t *testing.T) {
	reg := testRegistry(t)
	store := testStore(t)
	ready := NewReady()
	srv := New(reg, store, ready, "https://example.com", slog.Default())
	ts := httptest.NewServer(srv.Mux(http.NotFoundHandler()))
	defer ts.Close()

	resp, _ := http.Get(ts.URL + "/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before ready, got %d", resp.StatusCode)
	}

	ready.Set(true)
	resp2, _ := http.Get(ts.URL + "/readyz")
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 once ready, got %d", resp2.StatusCode)
	}
}
