package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Env               string
	LogLevel          string
	DBUrl             string
	JWTSecret         string
	AllowedOrigin     string
	AccessTokenExpiry time.Duration
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Archive storage (S3-compatible)
	ArchiveEndpoint     string
	ArchiveAccessKey    string
	ArchiveSecretKey    string
	ArchiveRegion       string
	ArchiveBucketName   string
	ArchiveWriteTimeout time.Duration
	// Cache
	CacheConfigTTL time.Duration
	// Checkout
	IdempotencyTTL time.Duration
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// We don't error here because in pure docker/prod envs, .env might not exist,
		// and we rely on system env vars.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBUrl:             getEnv("DB_DSN", ""),
		JWTSecret:         getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		AccessTokenExpiry: getDurationEnv("ACCESS_TOKEN_EXPIRY", time.Hour*24),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// Archive storage: empty endpoint means plain S3; any of these blank
		// disables the archive entirely.
		ArchiveEndpoint:     getEnv("ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKey:    getEnv("ARCHIVE_ACCESS_KEY_ID", ""),
		ArchiveSecretKey:    getEnv("ARCHIVE_ACCESS_KEY_SECRET", ""),
		ArchiveRegion:       getEnv("ARCHIVE_REGION", "auto"),
		ArchiveBucketName:   getEnv("ARCHIVE_BUCKET_NAME", ""),
		ArchiveWriteTimeout: getDurationEnv("ARCHIVE_WRITE_TIMEOUT", 30*time.Second),

		// Cache defaults: 10m active config
		CacheConfigTTL: getDurationEnv("CACHE_CONFIG_TTL", 10*time.Minute),

		// Idempotency keys outlive any plausible in-flight checkout
		IdempotencyTTL: getDurationEnv("IDEMPOTENCY_TTL", 24*time.Hour),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
}

// ArchiveEnabled reports whether enough storage settings are present to
// snapshot retired configurations.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveAccessKey != "" && c.ArchiveSecretKey != "" && c.ArchiveBucketName != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
