package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ux-collector-be/internal/bootstrap"
	"ux-collector-be/internal/config"
	"ux-collector-be/internal/server"
	"ux-collector-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()

	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to bootstrap: %v", err)
	}

	// 3. Start Background Services
	if err := container.AuditConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Audit Consumer Error: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(flushCtx); err != nil {
		log.Printf("Tracer shutdown error: %v", err)
	}
	_ = container.Close()
}
