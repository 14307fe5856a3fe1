// Command sweeperd runs the authoritative Minesweeper world, its /ws
// fan-out endpoint, and the admin console, wired together the way
// dragonfly's own server/conf.go wires a Config into a running Server:
// defaults, then a TOML config file, then CLI flag overrides.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/infinite-sweeper/sweeperd/internal/console"
	"github.com/infinite-sweeper/sweeperd/internal/server"
	"github.com/infinite-sweeper/sweeperd/internal/world"
)

// shutdownTimeout bounds how long in-flight connections get to drain
// during a graceful shutdown before the process exits anyway.
const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "sweeperd.toml", "path to the TOML config file")
	bindAddress := flag.String("bind", "", "override the configured bind address")
	staticDir := flag.String("static", "", "override the configured static file directory")
	snapshotPath := flag.String("snapshot", "", "override the configured snapshot directory")
	flag.Parse()

	log := slog.Default()

	conf, err := loadFileConfig(*configPath)
	if err != nil {
		log.Error("sweeperd: failed to load config", "error", err)
		os.Exit(1)
	}
	if *bindAddress != "" {
		conf.BindAddress = *bindAddress
	}
	if *staticDir != "" {
		conf.StaticDir = *staticDir
	}
	if *snapshotPath != "" {
		conf.SnapshotPath = *snapshotPath
	}

	w := openWorld(conf, log)
	defer w.Close()

	srv := server.Config{
		Log:                  log,
		World:                w,
		MaxConcurrentQueries: conf.MaxConcurrent,
	}.New()

	mux := http.NewServeMux()
	mux.Handle("/ws", srv.Handler())
	mux.Handle("/", http.FileServer(http.Dir(conf.StaticDir)))

	httpServer := &http.Server{Addr: conf.BindAddress, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("sweeperd: listening", "address", conf.BindAddress, "static_dir", conf.StaticDir)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("sweeperd: http server failed", "error", err)
			stop()
		}
	}()

	cons := console.Config{World: w, Log: log, Stop: stop}.New()
	go cons.Run(ctx)

	<-ctx.Done()
	log.Info("sweeperd: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("sweeperd: http shutdown error", "error", err)
	}

	if conf.SnapshotPath != "" {
		if err := world.SaveSnapshot(w, conf.SnapshotPath); err != nil {
			log.Error("sweeperd: failed to save snapshot", "error", err)
		} else {
			log.Info("sweeperd: snapshot saved", "path", conf.SnapshotPath)
		}
	}
}

// openWorld loads a snapshot if one is configured and present, falling
// back to a freshly seeded world otherwise.
func openWorld(conf fileConfig, log *slog.Logger) *world.World {
	if conf.SnapshotPath != "" {
		if w, err := world.LoadSnapshot(conf.SnapshotPath, log); err == nil {
			log.Info("sweeperd: restored snapshot", "path", conf.SnapshotPath)
			return w
		}
	}
	return world.Config{Seed: conf.Seed, MineCount: conf.MineCount, Log: log}.New()
}
