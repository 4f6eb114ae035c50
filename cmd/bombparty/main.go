// Command bombparty runs the bomb-party word-elimination room server:
// config load, dictionary load (with fallback), result archive, room
// registry, WebSocket transport, HTTP routes, idle-room cleanup, and
// graceful shutdown. Grounded on the teacher's cmd/srv/main.go wiring
// shape (Server.New, Server.Serve) and other_examples/ + pack repos'
// os/signal graceful-shutdown pattern.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bombparty/internal/config"
	"bombparty/internal/dictionary"
	"bombparty/internal/engine"
	"bombparty/internal/httpapi"
	"bombparty/internal/registry"
	"bombparty/internal/resultstore"
	"bombparty/internal/roomcode"
	"bombparty/internal/transport/ws"
)

func main() {
	log := slog.Default()
	cfg := config.Load()

	dict := dictionary.New(false)
	ready := httpapi.NewReady()
	loadDictionary(dict, cfg, log, ready)

	store, err := resultstore.Open(cfg.ResultDBPath)
	if err != nil {
		log.Error("open result store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gen := roomcode.DefaultGenerator()
	hub := ws.NewHub(log)
	reg := registry.New(gen, dict, hub, engine.DefaultConfig(), log)
	reg.StartCleanup(cfg.CleanupInterval, cfg.CleanupMaxEmptyAge)
	defer reg.StopCleanup()

	wsHandler := ws.NewHandler(hub, reg, log)
	baseURL := "http://" + hostnameOrAddr(cfg.ListenAddr)
	api := httpapi.New(reg, store, ready, baseURL, log)

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Mux(wsHandler),
	}

	go func() {
		log.Info("starting server", "addr", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// loadDictionary implements spec §6.4/§7's dictionary bootstrap: a
// configured file path is attempted first; failure (or no path at all)
// installs the fallback word set and, per §9's Open Question, never
// sniffs an environment variable to decide the mode — DictionaryMode is
// set explicitly by config.Load from whether a path was configured. A
// configured file that fails to load is logged and leaves /readyz
// reporting 503; with no path configured the fallback counts as ready.
func loadDictionary(dict *dictionary.Dictionary, cfg config.Config, log *slog.Logger, ready *httpapi.Ready) {
	if cfg.DictionaryMode == dictionary.ModeFile {
		f, err := os.Open(cfg.DictionaryPath)
		if err != nil {
			log.Error("dictionary file open failed, using fallback", "path", cfg.DictionaryPath, "error", err)
			dict.LoadFallback()
			return
		}
		defer f.Close()
		if err := dict.Load(f); err != nil {
			log.Error("dictionary load failed, using fallback", "path", cfg.DictionaryPath, "error", err)
			dict.LoadFallback()
			return
		}
		ready.Set(true)
		return
	}
	dict.LoadFallback()
	ready.Set(true)
}

func hostnameOrAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
