package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	Issuer        string `yaml:"issuer"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
}

type LockoutConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	LockWindow  string `yaml:"lock_window"`
}

type SecretTokenConfig struct {
	ResetTTL        string `yaml:"reset_ttl"`
	VerificationTTL string `yaml:"verification_ttl"`
}

type EncryptionConfig struct {
	// KeyDerivationSalt is the internal salt mixed into per-user key
	// derivation; it is config, never stored next to ciphertexts
	KeyDerivationSalt string `yaml:"key_derivation_salt"`
}

type KMSConfig struct {
	Provider    string `yaml:"provider"`
	Region      string `yaml:"region"`
	KeyID       string `yaml:"key_id"`
	KeyMaterial string `yaml:"key_material"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	From string `yaml:"from"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App          AppConfig         `yaml:"app"`
	Database     DatabaseConfig    `yaml:"database"`
	Redis        RedisConfig       `yaml:"redis"`
	JWT          JWTConfig         `yaml:"jwt"`
	Lockout      LockoutConfig     `yaml:"lockout"`
	SecretTokens SecretTokenConfig `yaml:"secret_tokens"`
	Encryption   EncryptionConfig  `yaml:"encryption"`
	KMS          KMSConfig         `yaml:"kms"`
	SMTP         SMTPConfig        `yaml:"smtp"`
	Casbin       CasbinConfig      `yaml:"casbin"`
}

// Config is the flat, fully-parsed configuration handed to constructors.
// Components never read the process environment themselves.
type Config struct {
	Port              string
	GinMode           string
	DSN               string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTAccessSecret   string
	JWTRefreshSecret  string
	JWTIssuer         string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	LockoutThreshold  int
	LockoutWindow     time.Duration
	ResetTokenTTL     time.Duration
	VerificationTTL   time.Duration
	KeyDerivationSalt string
	KMSProvider       string
	KMSRegion         string
	KMSKeyID          string
	KMSKeyMaterial    string
	SMTPHost          string
	SMTPPort          int
	SMTPFrom          string
	SMTPUser          string
	SMTPPass          string
	CasbinModelPath   string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(defaultStr(configFile.JWT.AccessTTL, "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(defaultStr(configFile.JWT.RefreshTTL, "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	lockWnd, err := time.ParseDuration(defaultStr(configFile.Lockout.LockWindow, "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid lockout window: %w", err)
	}

	resetTTL, err := time.ParseDuration(defaultStr(configFile.SecretTokens.ResetTTL, "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid reset token TTL: %w", err)
	}

	verifyTTL, err := time.ParseDuration(defaultStr(configFile.SecretTokens.VerificationTTL, "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid verification token TTL: %w", err)
	}

	threshold := configFile.Lockout.MaxAttempts
	if threshold <= 0 {
		threshold = 5
	}

	provider := configFile.KMS.Provider
	if provider == "" {
		// key material from static configuration when no managed service is set up
		provider = "env"
	}

	return &Config{
		Port:              fmt.Sprintf("%d", configFile.App.Port),
		GinMode:           configFile.App.GinMode,
		DSN:               configFile.Database.DSN,
		RedisAddr:         configFile.Redis.Addr,
		RedisPassword:     configFile.Redis.Password,
		RedisDB:           configFile.Redis.DB,
		JWTAccessSecret:   configFile.JWT.AccessSecret,
		JWTRefreshSecret:  configFile.JWT.RefreshSecret,
		JWTIssuer:         configFile.JWT.Issuer,
		AccessTTL:         accTTL,
		RefreshTTL:        refTTL,
		LockoutThreshold:  threshold,
		LockoutWindow:     lockWnd,
		ResetTokenTTL:     resetTTL,
		VerificationTTL:   verifyTTL,
		KeyDerivationSalt: configFile.Encryption.KeyDerivationSalt,
		KMSProvider:       provider,
		KMSRegion:         configFile.KMS.Region,
		KMSKeyID:          configFile.KMS.KeyID,
		KMSKeyMaterial:    configFile.KMS.KeyMaterial,
		SMTPHost:          configFile.SMTP.Host,
		SMTPPort:          configFile.SMTP.Port,
		SMTPFrom:          configFile.SMTP.From,
		SMTPUser:          configFile.SMTP.User,
		SMTPPass:          configFile.SMTP.Pass,
		CasbinModelPath:   configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
