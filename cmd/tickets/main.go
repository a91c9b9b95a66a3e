package main

import (
	"context"
	"log"
	"time"

	"github.com/GabScalon/parkaccess/internal/app"
	"github.com/GabScalon/parkaccess/internal/client"
	"github.com/GabScalon/parkaccess/internal/clock"
	"github.com/GabScalon/parkaccess/internal/config"
	"github.com/GabScalon/parkaccess/internal/server"
	"github.com/GabScalon/parkaccess/internal/storage/postgres"
	transporthttp "github.com/GabScalon/parkaccess/internal/transport/http"
	"github.com/GabScalon/parkaccess/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := log.Default()
	cfg := config.LoadTickets()

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
	if err := migrations.Apply(startupCtx, pool, migrations.Tickets()); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	repo := postgres.NewTicketRepository(pool)
	registry := client.NewRegistry(cfg.GatewayURL, cfg.ClientTimeout)
	queues := client.NewQueues(cfg.GatewayURL, cfg.ClientTimeout)
	svc := app.NewTicketService(repo, registry, queues, clock.NewSystem())

	server.Run(":"+cfg.Port, transporthttp.NewTicketRouter(svc, logger), logger)
}
