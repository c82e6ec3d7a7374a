package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config stores runtime configuration for the sync tooling.
type Config struct {
	AppEnv                           string
	ServiceName                      string
	ServiceVersion                   string
	LogLevel                         logging.Level
	LogFormat                        logging.Format
	DBURL                            string
	DBDisablePreparedBinary          bool
	StoreDriver                      string
	CricketDataBaseURL               string
	CricketDataAPIKey                string
	CricketDataTimeout               time.Duration
	CricketDataMaxAttempts           int
	CricketDataBackoffInitial        time.Duration
	CricketDataBackoffMax            time.Duration
	CricketDataRatePerSecond         float64
	CricketDataCircuitEnabled        bool
	CricketDataCircuitFailureCount   int
	CricketDataCircuitOpenTimeout    time.Duration
	CricketDataCircuitHalfOpenMaxReq int
	SyncSeriesID                     string
	SyncWorkers                      int
	SyncInterval                     time.Duration
	UptraceEnabled                   bool
	UptraceDSN                       string
	PprofEnabled                     bool
	PprofAddr                        string
	PyroscopeEnabled                 bool
	PyroscopeServerAddress           string
	PyroscopeAppName                 string
	PyroscopeAuthToken               string
	PyroscopeBasicAuthUser           string
	PyroscopeBasicAuthPassword       string
	PyroscopeUploadRate              time.Duration
	TelegramEnabled                  bool
	TelegramBotToken                 string
	TelegramChatID                   int64
	TelegramAPIEndpoint              string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeDriver, err := parseStoreDriver(getEnv("STORE_DRIVER", StoreDriverPostgres))
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver == StoreDriverPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", "127.0.0.1:6060"))

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cricketDataTimeout, err := time.ParseDuration(getEnv("CRICKETDATA_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_TIMEOUT: %w", err)
	}
	if cricketDataTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICKETDATA_TIMEOUT must be > 0")
	}
	cricketDataMaxAttempts, err := getEnvAsInt("CRICKETDATA_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_MAX_ATTEMPTS: %w", err)
	}
	if cricketDataMaxAttempts < 1 {
		return Config{}, fmt.Errorf("CRICKETDATA_MAX_ATTEMPTS must be >= 1")
	}
	cricketDataBackoffInitial, err := time.ParseDuration(getEnv("CRICKETDATA_BACKOFF_INITIAL", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_BACKOFF_INITIAL: %w", err)
	}
	cricketDataBackoffMax, err := time.ParseDuration(getEnv("CRICKETDATA_BACKOFF_MAX", "8s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_BACKOFF_MAX: %w", err)
	}
	if cricketDataBackoffInitial <= 0 || cricketDataBackoffMax < cricketDataBackoffInitial {
		return Config{}, fmt.Errorf("CRICKETDATA_BACKOFF_MAX must be >= CRICKETDATA_BACKOFF_INITIAL > 0")
	}
	cricketDataRate, err := strconv.ParseFloat(getEnv("CRICKETDATA_RATE_PER_SECOND", "2"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_RATE_PER_SECOND: %w", err)
	}
	if cricketDataRate < 0 {
		return Config{}, fmt.Errorf("CRICKETDATA_RATE_PER_SECOND must be >= 0")
	}
	cricketDataCircuitEnabled, err := strconv.ParseBool(getEnv("CRICKETDATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_CIRCUIT_ENABLED: %w", err)
	}
	cricketDataCircuitFailureCount, err := getEnvAsInt("CRICKETDATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cricketDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CRICKETDATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cricketDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("CRICKETDATA_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cricketDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICKETDATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cricketDataCircuitHalfOpenMaxReq, err := getEnvAsInt("CRICKETDATA_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKETDATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cricketDataCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CRICKETDATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	syncWorkers, err := getEnvAsInt("SYNC_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKERS: %w", err)
	}
	if syncWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKERS must be >= 1")
	}
	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_INTERVAL: %w", err)
	}
	if syncInterval <= 0 {
		return Config{}, fmt.Errorf("SYNC_INTERVAL must be > 0")
	}

	telegramEnabled, err := strconv.ParseBool(getEnv("TELEGRAM_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_ENABLED: %w", err)
	}
	telegramBotToken := strings.TrimSpace(getEnv("TELEGRAM_BOT_TOKEN", ""))
	var telegramChatID int64
	if raw := strings.TrimSpace(getEnv("TELEGRAM_CHAT_ID", "")); raw != "" {
		telegramChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
	}
	if telegramEnabled {
		if telegramBotToken == "" {
			return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_ENABLED=true")
		}
		if telegramChatID == 0 {
			return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_ENABLED=true")
		}
	}

	cfg := Config{
		AppEnv:                           appEnv,
		ServiceName:                      getEnv("APP_SERVICE_NAME", "cricket-fantasy-sync"),
		ServiceVersion:                   getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                         parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                        logging.ParseFormat(getEnv("APP_LOG_FORMAT", "json")),
		DBURL:                            dbURL,
		DBDisablePreparedBinary:          dbDisablePreparedBinary,
		StoreDriver:                      storeDriver,
		CricketDataBaseURL:               strings.TrimSpace(getEnv("CRICKETDATA_BASE_URL", "https://cricketdataapi.com/api")),
		CricketDataAPIKey:                strings.TrimSpace(getEnv("CRICKETDATA_API_KEY", "")),
		CricketDataTimeout:               cricketDataTimeout,
		CricketDataMaxAttempts:           cricketDataMaxAttempts,
		CricketDataBackoffInitial:        cricketDataBackoffInitial,
		CricketDataBackoffMax:            cricketDataBackoffMax,
		CricketDataRatePerSecond:         cricketDataRate,
		CricketDataCircuitEnabled:        cricketDataCircuitEnabled,
		CricketDataCircuitFailureCount:   cricketDataCircuitFailureCount,
		CricketDataCircuitOpenTimeout:    cricketDataCircuitOpenTimeout,
		CricketDataCircuitHalfOpenMaxReq: cricketDataCircuitHalfOpenMaxReq,
		SyncSeriesID:                     strings.TrimSpace(getEnv("SYNC_SERIES_ID", "")),
		SyncWorkers:                      syncWorkers,
		SyncInterval:                     syncInterval,
		UptraceEnabled:                   uptraceEnabled,
		UptraceDSN:                       uptraceDSN,
		PprofEnabled:                     pprofEnabled,
		PprofAddr:                        pprofAddr,
		PyroscopeEnabled:                 pyroscopeEnabled,
		PyroscopeServerAddress:           pyroscopeServerAddress,
		PyroscopeAuthToken:               strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:           strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:              pyroscopeUploadRate,
		TelegramEnabled:                  telegramEnabled,
		TelegramBotToken:                 telegramBotToken,
		TelegramChatID:                   telegramChatID,
		TelegramAPIEndpoint:              strings.TrimSpace(getEnv("TELEGRAM_API_ENDPOINT", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return cfg, nil
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

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStoreDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreDriverPostgres, StoreDriverMemory:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", v, StoreDriverPostgres, StoreDriverMemory)
	}
}
