package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/curtesyflush1/booster-sub007/domain"
	"github.com/curtesyflush1/booster-sub007/internal/config"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/audit"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/auth"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/crypto"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/database"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/kms"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/notifications"
	"github.com/curtesyflush1/booster-sub007/internal/infrastructure/repositories"
	"github.com/curtesyflush1/booster-sub007/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	KeyManager  *kms.Manager
	Cipher      *crypto.CredentialCipherImpl

	// Repositories
	UserRepo domain.UserRepository
	CredRepo domain.CredentialRepository

	// Services
	Audit           domain.AuditLogger
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	Revocations     domain.RevocationRegistry
	Lockout         domain.LockoutPolicy
	SecretTokens    domain.SecretTokenService
	NotificationSvc domain.NotificationService
	AuthSvc         domain.AuthService
	CredSvc         domain.CredentialService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		return nil, err
	}
	if err := c.initKeyManagement(ctx); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return fmt.Errorf("failed to initialize casbin: %w", err)
	}

	c.DB = db
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	c.RedisClient = rdb
	return nil
}

func (c *Container) initKeyManagement(ctx context.Context) error {
	manager, err := kms.NewManagerFromConfig(ctx, domain.KMSConfig{
		Provider:    c.Config.KMSProvider,
		Region:      c.Config.KMSRegion,
		KeyID:       c.Config.KMSKeyID,
		KeyMaterial: c.Config.KMSKeyMaterial,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize key management: %w", err)
	}

	cipher := crypto.NewCredentialCipher(manager, c.Config.KeyDerivationSalt)
	manager.OnConfigSwap(cipher)

	c.KeyManager = manager
	c.Cipher = cipher
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.CredRepo = repositories.NewCredentialRepository(c.DB)
	c.Revocations = repositories.NewRevocationRegistry(c.RedisClient, c.Config.RefreshTTL)
}

func (c *Container) initServices() {
	c.Audit = audit.NewLogAuditLogger()
	c.KeyManager.UseAuditLogger(c.Audit)
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTAccessSecret,
		c.Config.JWTRefreshSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.NotificationSvc = notifications.NewMailer(
		c.Config.SMTPHost,
		c.Config.SMTPPort,
		c.Config.SMTPFrom,
		c.Config.SMTPUser,
		c.Config.SMTPPass,
	)

	c.Lockout = services.NewLockoutPolicy(c.UserRepo, services.LockoutConfig{
		Threshold:  c.Config.LockoutThreshold,
		LockWindow: c.Config.LockoutWindow,
	})
	c.SecretTokens = services.NewSecretTokenService(c.UserRepo, c.PasswordSvc, c.Revocations, services.SecretTokenConfig{
		ResetTTL:        c.Config.ResetTokenTTL,
		VerificationTTL: c.Config.VerificationTTL,
	})

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.Revocations,
		c.Lockout,
		c.SecretTokens,
		c.NotificationSvc,
		c.Audit,
	)
	c.CredSvc = services.NewCredentialService(c.CredRepo, c.Cipher, c.Audit)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
