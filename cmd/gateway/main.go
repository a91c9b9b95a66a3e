package main

import (
	"log"

	"github.com/GabScalon/parkaccess/internal/config"
	"github.com/GabScalon/parkaccess/internal/gateway"
	"github.com/GabScalon/parkaccess/internal/server"
	transporthttp "github.com/GabScalon/parkaccess/internal/transport/http"
)

func main() {
	logger := log.Default()
	cfg := config.LoadGateway()

	proxy, err := gateway.New(cfg.Routes)
	if err != nil {
		log.Fatalf("build gateway routes: %v", err)
	}

	server.Run(":"+cfg.Port, transporthttp.RequestLogger(proxy, logger), logger)
}
