package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/curtesyflush1/booster-sub007/domain"
	"github.com/curtesyflush1/booster-sub007/internal/config"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/database"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/kms"
)

// Connectivity check for the full backing stack: postgres schema, redis, and
// the configured key-management provider. Run this before first boot.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("Backing stack verification")
	fmt.Println("==========================")

	db, err := database.Open(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("✓ Database connection successful")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("✓ AutoMigrate completed successfully")

	var userCount int64
	if err := db.Raw("SELECT COUNT(*) FROM auth.users").Scan(&userCount).Error; err != nil {
		log.Fatalf("Failed to query users table: %v", err)
	}
	fmt.Printf("✓ Users table accessible (current count: %d)\n", userCount)

	var credCount int64
	if err := db.Raw("SELECT COUNT(*) FROM auth.retailer_credentials").Scan(&credCount).Error; err != nil {
		log.Fatalf("Failed to query retailer_credentials table: %v", err)
	}
	fmt.Printf("✓ Retailer credentials table accessible (current count: %d)\n", credCount)

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to ping redis: %v", err)
	}
	fmt.Println("✓ Redis connection successful")

	manager, err := kms.NewManagerFromConfig(ctx, domain.KMSConfig{
		Provider:    cfg.KMSProvider,
		Region:      cfg.KMSRegion,
		KeyID:       cfg.KMSKeyID,
		KeyMaterial: cfg.KMSKeyMaterial,
	})
	if err != nil {
		log.Fatalf("Failed to initialize key management: %v", err)
	}
	if !manager.HealthCheck(ctx) {
		log.Fatalf("Key management provider %q failed its health check", cfg.KMSProvider)
	}
	meta, err := manager.GetKeyMetadata(ctx)
	if err != nil {
		log.Fatalf("Failed to read key metadata: %v", err)
	}
	fmt.Printf("✓ Key management healthy (provider=%s key=%s version=%d)\n", meta.Provider, meta.KeyID, meta.Version)

	fmt.Println("\nBacking stack is ready.")
}
