package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ExecutorURL       string
	ExecutorTimeout   time.Duration
	AccountLockTTL    time.Duration
	AccountLockWait   time.Duration
	DefaultPageSize   int
	MaxSubmissionSize int
}

// Load reads .env (if present) and the process environment, returning an
// explicit handle rather than populating package-level state.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort:           getEnv("API_PORT", "8080"),
		JWTKey:            []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:            time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "user"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "code_arena_db"),
		DBSslMode:         getEnv("DB_SSLMODE", "disable"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		ExecutorURL:       getEnv("EXECUTOR_URL", "https://emkc.org/api/v2/piston"),
		ExecutorTimeout:   time.Duration(getEnvAsInt("EXECUTOR_TIMEOUT_SECONDS", 15)) * time.Second,
		AccountLockTTL:    time.Duration(getEnvAsInt("ACCOUNT_LOCK_TTL_SECONDS", 30)) * time.Second,
		AccountLockWait:   time.Duration(getEnvAsInt("ACCOUNT_LOCK_WAIT_SECONDS", 10)) * time.Second,
		DefaultPageSize:   getEnvAsInt("DEFAULT_PAGE_SIZE", 20),
		MaxSubmissionSize: getEnvAsInt("MAX_SUBMISSION_SIZE_BYTES", 65536),
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
