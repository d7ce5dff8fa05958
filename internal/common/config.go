package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Ledger LedgerConfig
	Match  MatchConfig
	Vision VisionConfig
	Server ServerConfig
}

// LedgerConfig selects and tunes the invoice ledger backing store.
// Exactly one of CSVPath, SQLitePath, PostgresDSN should be set; when more
// than one is set they are tried in that order.
type LedgerConfig struct {
	CSVPath     string
	SQLitePath  string
	PostgresDSN string

	CacheTTL        time.Duration
	EnrichWorkers   int
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// MatchConfig holds matching engine thresholds.
type MatchConfig struct {
	MaxResults      int
	AmountTolerance float64
}

// VisionConfig holds vision-model text extraction configuration. Structured
// switches the inbox pipeline from transcribe-then-parse to schema-constrained
// field extraction.
type VisionConfig struct {
	Model      string
	APIKey     string
	Timeout    time.Duration
	Structured bool
}

// ServerConfig holds daemon configuration.
type ServerConfig struct {
	GRPCAddr string
	InboxDir string
	Workers  int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Ledger: LedgerConfig{
			CSVPath:         getEnv("LEDGER_CSV_PATH", ""),
			SQLitePath:      getEnv("LEDGER_SQLITE_PATH", ""),
			PostgresDSN:     getEnv("LEDGER_DB_URL", ""),
			CacheTTL:        getEnvAsDuration("LEDGER_CACHE_TTL", time.Hour),
			EnrichWorkers:   getEnvAsInt("LEDGER_ENRICH_WORKERS", 20),
			MaxConns:        getEnvAsInt32("LEDGER_DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("LEDGER_DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("LEDGER_DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("LEDGER_DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("LEDGER_DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Match: MatchConfig{
			MaxResults:      getEnvAsInt("MATCH_MAX_RESULTS", 10),
			AmountTolerance: getEnvAsFloat64("MATCH_AMOUNT_TOLERANCE", 0.01),
		},
		Vision: VisionConfig{
			Model:      getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			Timeout:    getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			Structured: getEnvAsBool("OPENAI_STRUCTURED", false),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
			InboxDir: getEnv("INBOX_DIR", ""),
			Workers:  getEnvAsInt("WORKERS", 4),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Ledger.CSVPath == "" && c.Ledger.SQLitePath == "" && c.Ledger.PostgresDSN == "" {
		return NewAppError("CONFIG_ERROR", "one of LEDGER_CSV_PATH, LEDGER_SQLITE_PATH, LEDGER_DB_URL is required", ErrInvalidInput)
	}
	if c.Match.MaxResults <= 0 {
		return NewAppError("CONFIG_ERROR", "MATCH_MAX_RESULTS must be positive", ErrInvalidInput)
	}
	return nil
}
