package registry

import (
	"testing"
	"time"

	"bombparty/internal/apperr"
	"bombparty/internal/engine"
	"bombparty/internal/model"
	"bombparty/internal/roomcode"
	"bombparty/internal/transport"
)

// sequenceRNG returns floats from a fixed slice in order, sticking on the
// final value once exhausted, so a roomcode.Generator can be driven to
// produce an exact, predetermined sequence of codes (spec §8 scenario 6).
func sequenceRNG(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

type noopTransport struct{}

func (noopTransport) Broadcast(roomCode, eventName string, payload any) {}
func (noopTransport) SendTo(socketID, eventName string, payload any)    {}
func (noopTransport) Ack(clientActionID string, ack transport.Ack)      {}

type noopDictionary struct{}

func (noopDictionary) IsValid(word string) bool { return true }
func (noopDictionary) SampleFragment(minCount int) (string, error) { return "aa", nil }

func testEngineConfig() engine.Config {
	return engine.Config{
		CountdownDuration:    5 * time.Millisecond,
		InitialBombDuration:  2 * time.Second,
		BombDecayFactor:      0.97,
		EndGraceDuration:     5 * time.Millisecond,
		CommandQueueCapacity: 32,
	}
}

// below 1/26 so Generate() picks alphabet index 0 ('A').
const idxA = 0.0

// within [1/26, 2/26) so Generate() picks alphabet index 1 ('B').
const idxB = 0.05

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	// First create-room call: 4 x 'A' -> "AAAA".
	// Second create-room call: first attempt collides ("AAAA" again), so
	// it must retry; the second attempt produces "AAAB".
	rng := sequenceRNG(
		idxA, idxA, idxA, idxA, // call 1 -> AAAA
		idxA, idxA, idxA, idxA, // call 2, attempt 1 -> AAAA (collision)
		idxA, idxA, idxA, idxB, // call 2, attempt 2 -> AAAB
	)
	gen, err := roomcode.New("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 4, rng)
	if err != nil {
		t.Fatalf("roomcode.New failed: %v", err)
	}

	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)
	t.Cleanup(func() {
		for _, code := range []string{"AAAA", "AAAB"} {
			reg.RemoveRoom(code)
		}
	})

	_, code1, err := reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("first CreateRoom failed: %v", err)
	}
	if code1 != "AAAA" {
		t.Fatalf("expected first code AAAA, got %q", code1)
	}

	_, code2, err := reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("second CreateRoom failed: %v", err)
	}
	if code2 != "AAAB" {
		t.Fatalf("expected second code to avoid the collision and land on AAAB, got %q", code2)
	}
	if code1 == code2 {
		t.Fatal("expected distinct codes across the two rooms")
	}
	if reg.RoomCount() != 2 {
		t.Fatalf("expected 2 live rooms, got %d", reg.RoomCount())
	}
}

func TestCreateRoomExhaustsAllocationSpace(t *testing.T) {
	rng := sequenceRNG(idxA, idxA, idxA, idxA) // always "AAAA"
	gen, err := roomcode.New("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 4, rng)
	if err != nil {
		t.Fatalf("roomcode.New failed: %v", err)
	}

	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)
	t.Cleanup(func() { reg.RemoveRoom("AAAA") })

	_, _, err = reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("first CreateRoom failed: %v", err)
	}

	_, code, err := reg.CreateRoom(model.DefaultRules())
	if err == nil {
		t.Fatalf("expected second CreateRoom to fail (space exhausted), got code %q", code)
	}
	if apperr.KindOf(err) != apperr.RoomCodeSpaceExhausted {
		t.Fatalf("expected RoomCodeSpaceExhausted, got %v", apperr.KindOf(err))
	}
}

func TestGetRoomAndRemoveRoom(t *testing.T) {
	gen := roomcode.DefaultGenerator()
	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)

	eng, code, err := reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if reg.GetRoom(code) != eng {
		t.Fatal("expected GetRoom to return the created engine")
	}

	reg.RemoveRoom(code)
	if reg.GetRoom(code) != nil {
		t.Fatal("expected GetRoom to return nil after RemoveRoom")
	}
	if reg.RoomCount() != 0 {
		t.Fatalf("expected 0 rooms after RemoveRoom, got %d", reg.RoomCount())
	}
}

// waitForRoomGone polls until GetRoom(code) returns nil or the timeout
// elapses, since the empty-room destroy callback runs on its own
// goroutine rather than synchronously with Leave/Disconnect.
func waitForRoomGone(t *testing.T, reg *Registry, code string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if reg.GetRoom(code) == nil {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("room %q was not destroyed within %s", code, timeout)
}

func TestLastPlayerLeavingEmptyLobbyDestroysRoom(t *testing.T) {
	gen := roomcode.DefaultGenerator()
	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)

	eng, code, err := reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if ack, err := eng.Join("p1", "Alice"); err != nil || !ack.Success {
		t.Fatalf("join failed: %v / %+v", err, ack)
	}

	if ack, err := eng.Leave("p1"); err != nil || !ack.Success {
		t.Fatalf("leave failed: %v / %+v", err, ack)
	}

	waitForRoomGone(t, reg, code, time.Second)
}

func TestPlayerTracking(t *testing.T) {
	gen := roomcode.DefaultGenerator()
	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)

	_, code, err := reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	reg.TrackPlayer("p1", code)
	if got := reg.PlayerRoomCode("p1"); got != code {
		t.Fatalf("expected p1 tracked to %q, got %q", code, got)
	}

	reg.UntrackPlayer("p1")
	if got := reg.PlayerRoomCode("p1"); got != "" {
		t.Fatalf("expected untracked player to resolve to empty string, got %q", got)
	}
}

func TestDestroyUntracksPlayers(t *testing.T) {
	gen := roomcode.DefaultGenerator()
	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)

	_, code, err := reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	reg.TrackPlayer("p1", code)

	reg.RemoveRoom(code)

	if got := reg.PlayerRoomCode("p1"); got != "" {
		t.Fatalf("expected player tracking to be cleared on room destroy, got %q", got)
	}
}

func TestListRoomsExcludesPrivateRooms(t *testing.T) {
	gen := roomcode.DefaultGenerator()
	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)

	publicRules := model.DefaultRules()
	privateRules := model.DefaultRules()
	privateRules.Private = true

	_, pubCode, err := reg.CreateRoom(publicRules)
	if err != nil {
		t.Fatalf("CreateRoom (public) failed: %v", err)
	}
	_, privCode, err := reg.CreateRoom(privateRules)
	if err != nil {
		t.Fatalf("CreateRoom (private) failed: %v", err)
	}

	list := reg.ListRooms()
	var sawPublic, sawPrivate bool
	for _, summary := range list {
		if summary.Code == pubCode {
			sawPublic = true
		}
		if summary.Code == privCode {
			sawPrivate = true
		}
	}
	if !sawPublic {
		t.Fatal("expected the public room to appear in ListRooms")
	}
	if sawPrivate {
		t.Fatal("expected the private room to be excluded from ListRooms")
	}
}

func TestCleanupSweepDestroysIdleEmptyRooms(t *testing.T) {
	gen := roomcode.DefaultGenerator()
	reg := New(gen, noopDictionary{}, noopTransport{}, testEngineConfig(), nil)

	start := time.Now()
	reg.now = func() time.Time { return start }

	_, code, err := reg.CreateRoom(model.DefaultRules())
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	reg.sweepIdleRooms(10 * time.Millisecond) // first sweep: stamps emptySince
	if reg.GetRoom(code) == nil {
		t.Fatal("room must survive the first sweep (only just observed empty)")
	}

	reg.now = func() time.Time { return start.Add(20 * time.Millisecond) }
	reg.sweepIdleRooms(10 * time.Millisecond) // second sweep: past maxAge
	if reg.GetRoom(code) != nil {
		t.Fatal("expected the idle empty room to be destroyed on the second sweep")
	}
}
