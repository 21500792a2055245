package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable = errors.New("empty environment variable")
	ErrUnknownProvider          = errors.New("unknown provider")
)

const (
	TelephonyVonage = "vonage"
	TelephonyTwilio = "twilio"

	BalanceYNAB  = "ynab"
	BalanceMonzo = "monzo"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Telephony TelephonyConfig
	Balances  BalancesConfig
	Speech    SpeechConfig
	Lookup    LookupConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
	// PublicWebSocketBaseURL overrides the ws://<request host> base handed to the
	// telephony platform, e.g. wss://dial-ynab.example.com behind a TLS proxy.
	PublicWebSocketBaseURL string
	EnableBalanceAPI       bool
	CORSAllowedOrigins     []string
}

// TelephonyConfig holds credentials for the call-control platform
type TelephonyConfig struct {
	Provider            string
	VonageApplicationID string
	VonagePrivateKey    string
	TwilioAccountSID    string
	TwilioAuthToken     string
}

// BalancesConfig holds credentials for the budgeting provider
type BalancesConfig struct {
	Provider         string
	YNABAccessToken  string
	YNABBudgetID     string
	MonzoAccessToken string
	MonzoAccountID   string
}

// SpeechConfig holds streaming recognition settings
type SpeechConfig struct {
	CredentialsFile string
	LanguageCode    string
}

// LookupConfig holds worker pool configuration for balance lookups
type LookupConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}
	var err error

	// Server configuration
	port, err := requireEnv("PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PORT: %w", err)
	}
	cfg.Server.PublicWebSocketBaseURL = strings.TrimRight(os.Getenv("PUBLIC_WS_BASE_URL"), "/")
	cfg.Server.EnableBalanceAPI, err = strconv.ParseBool(getEnvWithDefault("ENABLE_BALANCE_API", "false"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ENABLE_BALANCE_API: %w", err)
	}
	cfg.Server.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Telephony configuration
	cfg.Telephony.Provider = strings.ToLower(getEnvWithDefault("TELEPHONY_PROVIDER", TelephonyVonage))
	switch cfg.Telephony.Provider {
	case TelephonyVonage:
		if cfg.Telephony.VonageApplicationID, err = requireEnv("NEXMO_APPLICATION_ID"); err != nil {
			return nil, err
		}
		if cfg.Telephony.VonagePrivateKey, err = requireEnv("NEXMO_PRIVATE_KEY"); err != nil {
			return nil, err
		}
	case TelephonyTwilio:
		if cfg.Telephony.TwilioAccountSID, err = requireEnv("TWILIO_ACCOUNT_SID"); err != nil {
			return nil, err
		}
		if cfg.Telephony.TwilioAuthToken, err = requireEnv("TWILIO_AUTH_TOKEN"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("TELEPHONY_PROVIDER %q: %w", cfg.Telephony.Provider, ErrUnknownProvider)
	}

	// Balance provider configuration
	cfg.Balances.Provider = strings.ToLower(getEnvWithDefault("BALANCE_PROVIDER", BalanceYNAB))
	switch cfg.Balances.Provider {
	case BalanceYNAB:
		if cfg.Balances.YNABAccessToken, err = requireEnv("YNAB_ACCESS_TOKEN"); err != nil {
			return nil, err
		}
		if cfg.Balances.YNABBudgetID, err = requireEnv("YNAB_BUDGET_ID"); err != nil {
			return nil, err
		}
	case BalanceMonzo:
		if cfg.Balances.MonzoAccessToken, err = requireEnv("MONZO_ACCESS_TOKEN"); err != nil {
			return nil, err
		}
		cfg.Balances.MonzoAccountID = os.Getenv("MONZO_ACCOUNT_ID")
	default:
		return nil, fmt.Errorf("BALANCE_PROVIDER %q: %w", cfg.Balances.Provider, ErrUnknownProvider)
	}

	// Speech configuration, credentials fall back to application default credentials
	cfg.Speech.CredentialsFile = os.Getenv("GOOGLE_SPEECH_CREDENTIALS_FILE")
	cfg.Speech.LanguageCode = getEnvWithDefault("SPEECH_LANGUAGE_CODE", "en-GB")

	// Lookup worker pool configuration
	cfg.Lookup.Workers, err = strconv.Atoi(getEnvWithDefault("LOOKUP_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse LOOKUP_WORKERS: %w", err)
	}
	cfg.Lookup.QueueSize, err = strconv.Atoi(getEnvWithDefault("LOOKUP_QUEUE_SIZE", "64"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse LOOKUP_QUEUE_SIZE: %w", err)
	}
	cfg.Lookup.Timeout, err = time.ParseDuration(getEnvWithDefault("LOOKUP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse LOOKUP_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
