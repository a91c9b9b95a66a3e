package main

import (
	"context"
	"log"
	"time"

	"github.com/GabScalon/parkaccess/internal/app"
	"github.com/GabScalon/parkaccess/internal/config"
	"github.com/GabScalon/parkaccess/internal/server"
	"github.com/GabScalon/parkaccess/internal/storage/postgres"
	transporthttp "github.com/GabScalon/parkaccess/internal/transport/http"
	"github.com/GabScalon/parkaccess/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := log.Default()
	cfg := config.LoadAttractions()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool, migrations.Attractions()); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	svc := app.NewAttractionService(postgres.NewAttractionRepository(pool))

	server.Run(":"+cfg.Port, transporthttp.NewAttractionRouter(svc, cfg.CORSOrigins, logger), logger)
}
