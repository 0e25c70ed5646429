package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultModelName = "googleai/gemini-2.5-flash"

// Config holds the application configuration
type Config struct {
	TelegramToken string

	// Model configuration
	ModelAPIKey string
	ModelName   string
	// MaxConcurrentInvocations caps in-flight model calls across all users.
	MaxConcurrentInvocations int64

	// CorporateChat is the chat users must belong to. Either a numeric chat
	// ID or an @username. Empty disables the access gate.
	CorporateChat string

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)

	// ClickHouse configuration, for the conversation checkpoint store
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	UseMockStore bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Model API key (required)
	config.ModelAPIKey = os.Getenv("MODEL_API_KEY")
	if config.ModelAPIKey == "" {
		return nil, fmt.Errorf("MODEL_API_KEY is required")
	}

	config.ModelName = os.Getenv("MODEL_NAME")
	if config.ModelName == "" {
		config.ModelName = defaultModelName
	}

	maxStr := os.Getenv("MAX_CONCURRENT_INVOCATIONS")
	if maxStr == "" {
		config.MaxConcurrentInvocations = 4
	} else {
		max, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || max <= 0 {
			return nil, fmt.Errorf("invalid MAX_CONCURRENT_INVOCATIONS: %s", maxStr)
		}
		config.MaxConcurrentInvocations = max
	}

	// Corporate chat gate (optional; empty means everyone is admitted)
	config.CorporateChat = os.Getenv("CORPORATE_CHAT_ID")

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	// Use mock checkpoint store (default: false)
	config.UseMockStore = os.Getenv("USE_MOCK_STORE") == "true"

	// ClickHouse configuration (required if not using mock)
	if !config.UseMockStore {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when USE_MOCK_STORE is not set")
		}

		portStr := os.Getenv("CLICKHOUSE_PORT")
		if portStr == "" {
			config.ClickHousePort = 9000 // Default ClickHouse native port
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
			}
			config.ClickHousePort = port
		}

		config.ClickHouseDatabase = os.Getenv("CLICKHOUSE_DATABASE")
		if config.ClickHouseDatabase == "" {
			config.ClickHouseDatabase = "default"
		}

		config.ClickHouseUser = os.Getenv("CLICKHOUSE_USER")
		if config.ClickHouseUser == "" {
			config.ClickHouseUser = "default"
		}

		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	return config, nil
}
