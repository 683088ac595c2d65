package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/curtesyflush1/booster-sub007/internal/app"
	"github.com/curtesyflush1/booster-sub007/internal/config"
)

func main() {
	// .env is optional; local development convenience only
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
