package httpapi

import (
	"net/http"
	"sync/atomic"
)

// Ready tracks process readiness for spec §7's error-handling design:
// "in production [a dictionary load failure] is logged and the process
// reports readyz=503 until a usable dictionary is loaded."
type Ready struct {
	ready atomic.Bool
}

// NewReady constructs a Ready starting in the not-ready state.
func NewReady() *Ready {
	return &Ready{}
}

// Set marks the process ready or not-ready.
func (r *Ready) Set(ready bool) {
	r.ready.Store(ready)
}

// ServeHTTP implements the /readyz probe: 200 once ready, 503 otherwise.
func (r *Ready) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.ready.Load() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte("not ready"))
}
