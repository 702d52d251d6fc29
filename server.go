package api

import (
	"fmt"
	"os"
	"strings"

	"Longshot/controllers"
	"Longshot/seed"

	"github.com/joho/godotenv"
)

var server = controllers.Server{}

func init() {
	// Load .env only outside production. On Render, config comes from env vars.
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
}

func Run() {
	_ = godotenv.Load()

	server.Initialize(
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_NAME"),
	)

	// Demo data for a fresh install; never runs in production.
	if os.Getenv("SEED_DEMO_DATA") == "true" && os.Getenv("APP_ENV") != "production" {
		seed.Load(server.DB)
	}

	defer server.Limiter.Stop()
	defer server.Scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = os.Getenv("API_PORT")
		if port == "" {
			port = "8888"
		}
	}

	addr := ":" + strings.TrimSpace(port)
	fmt.Printf("Listening on %s\n", addr)
	server.Run(addr)
}
