package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// ProviderConfig holds the transport settings of one match data provider.
type ProviderConfig struct {
	Enabled    bool
	BaseURL    string `validate:"required_if=Enabled true,omitempty,url"`
	Token      string
	Timeout    time.Duration `validate:"gt=0"`
	MaxRetries int           `validate:"gte=0,lte=10"`
	RateLimit  time.Duration `validate:"gte=0"`
}

type CircuitConfig struct {
	Enabled        bool
	FailureCount   int           `validate:"gte=1"`
	OpenTimeout    time.Duration `validate:"gt=0"`
	HalfOpenMaxReq int           `validate:"gte=1"`
}

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
	LogLevel       logging.Level
	LogFormat      string `validate:"oneof=json console"`

	StorageDriver           string `validate:"oneof=memory postgres"`
	DBURL                   string `validate:"required_if=StorageDriver postgres"`
	DBDisablePreparedBinary bool
	MigrationsDir           string
	QueryCacheTTL           time.Duration `validate:"gte=0"`

	MergePrimarySource string `validate:"required"`
	MergeStatsSource   string
	TeamAliasesFile    string

	FeatureWindows []int `validate:"min=1,dive,gt=0"`
	FeatureWorkers int   `validate:"gte=1"`
	CollectWorkers int   `validate:"gte=1"`

	HTTPCacheDir string
	HTTPCacheTTL time.Duration `validate:"gt=0"`

	FootballData    ProviderConfig
	Understat       ProviderConfig
	ProviderCircuit CircuitConfig

	UptraceEnabled     bool
	UptraceDSN         string `validate:"required_if=UptraceEnabled true"`
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName           string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(getEnv("APP_SERVICE_NAME", "football-data-pipeline")),
		ServiceVersion:     strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", "json"))),
		StorageDriver:      strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory))),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		MergePrimarySource: strings.TrimSpace(getEnv("MERGE_PRIMARY_SOURCE", "football_data")),
		MergeStatsSource:   strings.TrimSpace(getEnv("MERGE_STATS_SOURCE", "understat")),
		TeamAliasesFile:    strings.TrimSpace(getEnv("TEAM_ALIASES_FILE", "")),
		HTTPCacheDir:       strings.TrimSpace(getEnv("HTTP_CACHE_DIR", "data/cache")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}
	cfg.MigrationsDir = strings.TrimSpace(getEnv("MIGRATIONS_DIR", getEnv("MIGRATIONS_PATH", "")))
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")); err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	if cfg.FeatureWindows, err = parseIntList(getEnv("FEATURE_WINDOWS", "5,10")); err != nil {
		return Config{}, fmt.Errorf("parse FEATURE_WINDOWS: %w", err)
	}
	if cfg.FeatureWorkers, err = getEnvAsInt("FEATURE_WORKERS", 4); err != nil {
		return Config{}, fmt.Errorf("parse FEATURE_WORKERS: %w", err)
	}
	if cfg.CollectWorkers, err = getEnvAsInt("COLLECT_WORKERS", 2); err != nil {
		return Config{}, fmt.Errorf("parse COLLECT_WORKERS: %w", err)
	}
	if cfg.QueryCacheTTL, err = time.ParseDuration(getEnv("QUERY_CACHE_TTL", "5m")); err != nil {
		return Config{}, fmt.Errorf("parse QUERY_CACHE_TTL: %w", err)
	}
	if cfg.HTTPCacheTTL, err = time.ParseDuration(getEnv("HTTP_CACHE_TTL", "1h")); err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CACHE_TTL: %w", err)
	}

	if cfg.FootballData, err = loadProvider("FOOTBALL_DATA", "https://api.football-data.org/v4", "6s"); err != nil {
		return Config{}, err
	}
	cfg.FootballData.Token = strings.TrimSpace(getEnv("FOOTBALL_DATA_TOKEN", ""))
	if cfg.Understat, err = loadProvider("UNDERSTAT", "https://understat.com", "2s"); err != nil {
		return Config{}, err
	}

	if cfg.ProviderCircuit.Enabled, err = strconv.ParseBool(getEnv("PROVIDER_CIRCUIT_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.ProviderCircuit.FailureCount, err = getEnvAsInt("PROVIDER_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ProviderCircuit.OpenTimeout, err = time.ParseDuration(getEnv("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "30s")); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfg.ProviderCircuit.HalfOpenMaxReq, err = getEnvAsInt("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeUploadRate, err = time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func loadProvider(prefix, defaultBaseURL, defaultRateLimit string) (ProviderConfig, error) {
	var (
		out ProviderConfig
		err error
	)
	if out.Enabled, err = strconv.ParseBool(getEnv(prefix+"_ENABLED", "true")); err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s_ENABLED: %w", prefix, err)
	}
	out.BaseURL = strings.TrimSpace(getEnv(prefix+"_BASE_URL", defaultBaseURL))
	if out.Timeout, err = time.ParseDuration(getEnv(prefix+"_TIMEOUT", "30s")); err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s_TIMEOUT: %w", prefix, err)
	}
	if out.MaxRetries, err = getEnvAsInt(prefix+"_MAX_RETRIES", 3); err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s_MAX_RETRIES: %w", prefix, err)
	}
	if out.RateLimit, err = time.ParseDuration(getEnv(prefix+"_RATE_LIMIT", defaultRateLimit)); err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s_RATE_LIMIT: %w", prefix, err)
	}
	return out, nil
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

func parseIntList(raw string) ([]int, error) {
	items := splitCSV(raw)
	out := make([]int, 0, len(items))
	for _, item := range items {
		value, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", item, err)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}
	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
