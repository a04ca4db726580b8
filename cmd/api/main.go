package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/app"
)

// @title           PLAB Backend API
// @version         3.0
// @description     Lab rental booking service with session-token authentication
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
