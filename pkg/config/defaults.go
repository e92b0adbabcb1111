// Package config provides centralized default values for LumenKind
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	AllowedOrigins     []string

	// Database Configuration
	SessionDBPath  string
	CatalogDBPath  string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Session Engine
	SessionFlushInterval time.Duration
	SessionFlushVerbose  bool
	ResponseVariety      bool

	// Logging
	LogDir   string
	LogLevel string

	// Ops Dashboard
	OpsPasswordHash string
	JWTSecret       string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	AllowedOrigins = strings.Split(getEnvString("ALLOWED_ORIGINS", "*"), ",")

	// Database Configuration
	SessionDBPath = getEnvString("SESSION_DB_PATH", "lumenkind-sessions.db")
	CatalogDBPath = getEnvString("CATALOG_DB_PATH", "lumenkind-catalog.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)

	// Session Engine
	SessionFlushInterval = getEnvDuration("SESSION_FLUSH_INTERVAL", 30*time.Second)
	SessionFlushVerbose = getEnvBool("SESSION_FLUSH_VERBOSE", false)
	ResponseVariety = getEnvBool("RESPONSE_VARIETY", false)

	// Logging
	LogDir = getEnvString("LOG_DIR", "./log")
	LogLevel = getEnvString("LOG_LEVEL", "info")

	// Ops Dashboard
	OpsPasswordHash = getEnvString("OPS_PASSWORD_HASH", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
}
