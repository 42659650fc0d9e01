package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"careerpath-agent/internal/api"
	"careerpath-agent/internal/config"
	"careerpath-agent/internal/gateway"
	"careerpath-agent/internal/wizard"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	gw, err := gateway.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create AI gateway: %v", err)
	}

	wiz := wizard.New(gw)
	server := api.NewServer(wiz)

	fmt.Printf("Starting CareerPath Agent on port %s...\n", cfg.Port)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  POST /upload - Submit resume and search criteria\n")
	fmt.Printf("  POST /profile - Submit refined profile for career advice\n")
	fmt.Printf("  GET /state - Current wizard session state\n")
	fmt.Printf("  GET /export - Download the career plan as Excel\n")

	if err := http.ListenAndServe(":"+cfg.Port, server.Router()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
