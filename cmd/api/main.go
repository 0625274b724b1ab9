package main

import (
	"log"
	"os"

	"github.com/chefmate/chefmate-backend/internal/config"
	"github.com/chefmate/chefmate-backend/pkg/server"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

func main() {
	// Load environment files explicitly
	envFiles := []string{".env.local", ".env.development", ".env"}
	config.LoadEnvFiles(envFiles)

	configPath := os.Getenv("CHEFMATE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration from YAML
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		fiberlog.Fatalf("Failed to load config: %v", err)
	}

	srv := server.New(cfg)

	log.Println("Starting ChefMate server...")
	if err := srv.Run(); err != nil {
		fiberlog.Fatalf("Server failed: %v", err)
	}
}
