package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/docql/docql/internal/config"
	"github.com/docql/docql/internal/db"
	"github.com/docql/docql/internal/handler"
	"github.com/docql/docql/internal/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	h := handler.New(pool)

	var root http.Handler = h.Routes()
	root = middleware.ContentType(root)
	root = middleware.Logging(root)
	root = middleware.Recovery(root)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: root,
	}

	go func() {
		<-ctx.Done()
		log.Println("shutting down...")
		srv.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.Addr())
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
