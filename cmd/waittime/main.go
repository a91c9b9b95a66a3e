package main

import (
	"log"

	"github.com/GabScalon/parkaccess/internal/app"
	"github.com/GabScalon/parkaccess/internal/client"
	"github.com/GabScalon/parkaccess/internal/config"
	"github.com/GabScalon/parkaccess/internal/server"
	transporthttp "github.com/GabScalon/parkaccess/internal/transport/http"
)

func main() {
	logger := log.Default()
	cfg := config.LoadWaitTime()

	directory := client.NewDirectory(cfg.GatewayURL, cfg.ClientTimeout)
	queues := client.NewQueues(cfg.GatewayURL, cfg.ClientTimeout)
	svc := app.NewEstimateService(directory, queues)

	server.Run(":"+cfg.Port, transporthttp.NewEstimateRouter(svc, logger), logger)
}
