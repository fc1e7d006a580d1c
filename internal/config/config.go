package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string
	HTTPPort         int
	APIKey           string

	LogLevel  string
	LogFormat string

	NewsPollSecs      int
	PricePollSecs     int
	RetentionDays     int
	ForecastCacheSecs int

	ModelConfigPath string
	FeedsConfigPath string

	OpenAIAPIKey          string
	OpenAIModel           string
	ClassifierTimeoutSecs int

	KafkaBrokers []string
	KafkaTopic   string

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int

	SSHHost               string
	SSHPort               int
	SSHHostKeyPath        string
	SSHAuthorizedKeysPath string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		MCPAuthToken:     os.Getenv("MCP_AUTH_TOKEN"),
	}

	if cfg.TelegramBotToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.HTTPPort = positiveInt("HTTP_PORT", 8080)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		cfg.LogFormat = "console"
	}

	cfg.NewsPollSecs = positiveInt("NEWS_POLL_SECS", 300)
	cfg.PricePollSecs = positiveInt("PRICE_POLL_SECS", 60)
	cfg.RetentionDays = positiveInt("RETENTION_DAYS", 30)
	cfg.ForecastCacheSecs = positiveInt("FORECAST_CACHE_SECS", 60)

	cfg.ModelConfigPath = strings.TrimSpace(os.Getenv("MODEL_CONFIG_PATH"))
	if cfg.ModelConfigPath == "" {
		cfg.ModelConfigPath = "config/model.yaml"
	}
	cfg.FeedsConfigPath = strings.TrimSpace(os.Getenv("FEEDS_CONFIG_PATH"))
	if cfg.FeedsConfigPath == "" {
		cfg.FeedsConfigPath = "config/feeds.yaml"
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, classifier scorer will be unavailable")
	}
	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	cfg.ClassifierTimeoutSecs = positiveInt("CLASSIFIER_TIMEOUT_SECS", 10)

	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	cfg.KafkaTopic = strings.TrimSpace(os.Getenv("KAFKA_TOPIC"))
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "news.scored"
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn().Str("value", cfg.MCPTransport).Msg("unsupported MCP_TRANSPORT, defaulting to stdio")
		cfg.MCPTransport = "stdio"
	}
	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")
	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}
	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 5)

	cfg.SSHHost = strings.TrimSpace(os.Getenv("SSH_HOST"))
	if cfg.SSHHost == "" {
		cfg.SSHHost = "0.0.0.0"
	}
	cfg.SSHPort = positiveInt("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/news_pulse_ed25519"
	}
	cfg.SSHAuthorizedKeysPath = strings.TrimSpace(os.Getenv("SSH_AUTHORIZED_KEYS_PATH"))
	if cfg.SSHAuthorizedKeysPath == "" {
		cfg.SSHAuthorizedKeysPath = ".ssh/authorized_keys"
	}

	return cfg
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("invalid integer setting, using default")
		return def
	}
	return n
}
