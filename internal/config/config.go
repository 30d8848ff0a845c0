package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/footpanel/matchsync/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	DBURL              string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	AdminToken         string

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string

	FlashscoreBaseURL             string
	FlashscoreHost                string
	FlashscoreAPIKey              string
	FlashscoreTimeout             time.Duration
	FlashscoreMaxRetries          int
	FlashscoreCircuitEnabled      bool
	FlashscoreCircuitFailureCount int
	FlashscoreCircuitOpenTimeout  time.Duration
	FlashscoreCircuitHalfOpenReq  int

	CacheLiveTTL   time.Duration
	CacheDateTTL   time.Duration
	CacheRetention time.Duration

	SyncMaxWorkers int

	LogLevel logging.Level
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	flashscoreTimeout, err := getEnvAsDuration("FLASHSCORE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLASHSCORE_TIMEOUT: %w", err)
	}
	flashscoreMaxRetries, err := getEnvAsInt("FLASHSCORE_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLASHSCORE_MAX_RETRIES: %w", err)
	}
	flashscoreCircuitEnabled, err := strconv.ParseBool(getEnv("FLASHSCORE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FLASHSCORE_CIRCUIT_ENABLED: %w", err)
	}
	flashscoreCircuitFailureCount, err := getEnvAsInt("FLASHSCORE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLASHSCORE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	flashscoreCircuitOpenTimeout, err := getEnvAsDuration("FLASHSCORE_CIRCUIT_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLASHSCORE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	flashscoreCircuitHalfOpenReq, err := getEnvAsInt("FLASHSCORE_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLASHSCORE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	cacheLiveTTL, err := getEnvAsDuration("CACHE_LIVE_TTL", 3*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_LIVE_TTL: %w", err)
	}
	cacheDateTTL, err := getEnvAsDuration("CACHE_DATE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_DATE_TTL: %w", err)
	}
	cacheRetention, err := getEnvAsDuration("CACHE_RETENTION", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_RETENTION: %w", err)
	}

	syncMaxWorkers, err := getEnvAsInt("SYNC_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_MAX_WORKERS: %w", err)
	}

	return Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "matchsync"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		AdminToken:         strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "localhost:6060"),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "matchsync"),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),

		FlashscoreBaseURL:             strings.TrimSpace(getEnv("FLASHSCORE_BASE_URL", "")),
		FlashscoreHost:                strings.TrimSpace(getEnv("FLASHSCORE_HOST", "")),
		FlashscoreAPIKey:              strings.TrimSpace(getEnv("FLASHSCORE_API_KEY", "")),
		FlashscoreTimeout:             flashscoreTimeout,
		FlashscoreMaxRetries:          flashscoreMaxRetries,
		FlashscoreCircuitEnabled:      flashscoreCircuitEnabled,
		FlashscoreCircuitFailureCount: flashscoreCircuitFailureCount,
		FlashscoreCircuitOpenTimeout:  flashscoreCircuitOpenTimeout,
		FlashscoreCircuitHalfOpenReq:  flashscoreCircuitHalfOpenReq,

		CacheLiveTTL:   cacheLiveTTL,
		CacheDateTTL:   cacheDateTTL,
		CacheRetention: cacheRetention,

		SyncMaxWorkers: syncMaxWorkers,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(v))
	switch normalized {
	case EnvDev, EnvStage, EnvProd:
		return normalized, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
