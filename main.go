package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/clock"
	"lg/calorix-api/internal/config"
	"lg/calorix-api/internal/events"
	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/photo"
	"lg/calorix-api/internal/store"
)

func main() {
	// Set properties of the predefined Logger, including the log entry prefix
	// and a flag to disable printing the time, source file, and line number.
	log.SetPrefix("calorix-api: ")
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DBURL, cfg.Store.SQLitePath)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Store.Driver, err)
	}
	defer s.Close()

	analyzer, err := photo.New(ctx, cfg.Photo)
	if err != nil {
		log.Fatalf("photo analyzer: %v", err)
	}

	h := newHandler(s, clock.Real{}, analyzer, events.NewHub())

	watcher, err := fasting.NewWatcher(h.fasts, h.clock, cfg.Fasting.TickSpec, h.fastingCompleted)
	if err != nil {
		log.Fatalf("fasting watcher: %v", err)
	}
	watcher.Start()
	defer watcher.Stop()

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		fmt.Printf("Listening on %s (store: %s)\n", cfg.Server.Addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	waitForShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
