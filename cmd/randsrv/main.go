package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/merkator/randgen/internal/api"
	"github.com/merkator/randgen/internal/config"
	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/persist"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/resp"
	"github.com/merkator/randgen/internal/session"
)

const stateKey = "default"

func main() {
	cfg := config.Load()
	if err := logger.Configure(cfg.LogLevel, cfg.LogJSON); err != nil {
		logger.Fatal(err, "bad log level")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err, "invalid configuration")
	}
	logger.Info("random generator server starting")

	// Context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	profile, err := randgen.ParseProfile(cfg.Profile)
	if err != nil {
		logger.Fatal(err, "invalid profile")
	}

	// Shared generator for the REST API
	engine, src, err := randgen.Build(profile, cfg.Seed, cfg.BufferSize)
	if err != nil {
		logger.Fatal(err, "generator setup failed", "profile", profile, "seed", cfg.Seed)
	}
	gen := randgen.NewLocked(engine)
	logger.Info("generator ready", "profile", profile, "seed", cfg.Seed, "buffer", engine.BufferSize())

	// Sessions and RESP connections own private engines of the same profile.
	newEngine := randgen.NewFast
	if profile == randgen.ProfileSecure {
		newEngine = randgen.NewSecure
	}

	// MongoDB (optional)
	var reader persist.SnapshotReader
	if cfg.MongoURI != "" {
		store, err := persist.NewStore(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatal(err, "database connection failed")
		}
		defer store.Close(context.Background())

		if err := store.Migrate(ctx); err != nil {
			logger.Fatal(err, "migration failed")
		}
		reader = persist.NewMongoSnapshotReader(store.DB())

		if src != nil {
			snapshotter := persist.NewSnapshotter(store, stateKey, gen, src)
			restored, err := snapshotter.Load(ctx)
			if err != nil {
				logger.Warn("failed to load state", "error", err)
			}
			if restored {
				logger.Info("generator state restored", "key", stateKey)
			}
			go snapshotter.Run(ctx, cfg.SnapshotInterval)
			logger.Info("started snapshotter", "interval", cfg.SnapshotInterval)
		} else {
			logger.Info("secure profile: snapshots disabled")
		}

		go persist.RunRetention(ctx, store, cfg.SnapshotRetentionDays)
	}

	// Session manager
	mgr := session.NewManager(cfg.SendBufferSize, newEngine)

	// RESP server (optional)
	if cfg.RESPPort != 0 {
		rs := resp.NewServer(newEngine)
		go func() {
			if err := rs.ListenAndServe(ctx, cfg.RESPAddr()); err != nil {
				logger.Error(err, "RESP server error")
				cancel()
			}
		}()
	}

	// HTTP/WebSocket server
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", session.Handler(mgr))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","clients":%d,"profile":%q}`, mgr.ClientCount(), profile)
	})

	// REST API
	apiServer := api.NewServer(gen, profile, reader, mgr, stateKey)
	apiServer.Register(mux)

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		mgr.CloseAll()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("WebSocket server listening", "url", "ws://"+addr+"/stream")
	logger.Info("REST API listening", "url", "http://"+addr+"/api")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error(err, "server error")
		os.Exit(1)
	}

	logger.Info("random generator server stopped")
}
