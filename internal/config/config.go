package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	APIBaseURL          string
	DatabaseURI         string
	RedisAddr           string
	RedisPassword       string
	SessionSecret       string
	CacheTTL            time.Duration
	RequestTimeout      time.Duration
	PaymentPollInterval time.Duration
	WorkerPoolSize      int
	PollBatchSize       int
	ShutdownTimeout     time.Duration
	AllowedOrigins      []string
	PaymentReturnURL    string
	PaymentNotifyURL    string
	LogLevel            string
}

const (
	defaultRunAddress          = ":8081"
	defaultSessionSecret       = "change-me-in-production"
	defaultCacheTTL            = 5 * time.Minute
	defaultRequestTimeout      = 10 * time.Second
	defaultPaymentPollInterval = 5 * time.Second
	defaultWorkerPoolSize      = 2
	defaultPollBatchSize       = 16
	defaultShutdownTimeout     = 10 * time.Second
	defaultAllowedOrigins      = "http://localhost:5173"
	defaultPaymentReturnURL    = "http://localhost:5173/payment/success"
	defaultNotifyPath          = "/api/payments/momo/callback"
	defaultLogLevel            = "info"
	defaultEnvFile             = ".env"
)

// Load reads an optional .env file, then parses environment variables and flags.
func Load() (*Config, error) {
	envFile := defaultEnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok && v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		APIBaseURL:          getString(lookup, "API_BASE_URL", ""),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		RedisAddr:           getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:       getString(lookup, "REDIS_PASSWORD", ""),
		SessionSecret:       getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		CacheTTL:            getDuration(lookup, "CACHE_TTL", defaultCacheTTL),
		RequestTimeout:      getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		PaymentPollInterval: getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		PollBatchSize:       getInt(lookup, "POLL_BATCH_SIZE", defaultPollBatchSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		PaymentReturnURL:    getString(lookup, "PAYMENT_RETURN_URL", defaultPaymentReturnURL),
		PaymentNotifyURL:    getString(lookup, "PAYMENT_NOTIFY_URL", ""),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("bookmart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cacheTTLStr        = cfg.CacheTTL.String()
		requestTimeoutStr  = cfg.RequestTimeout.String()
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		originsStr         = getString(lookup, "ALLOWED_ORIGINS", defaultAllowedOrigins)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "Storefront API base URL")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the shared query cache")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing shell tokens")
	fs.StringVar(&cacheTTLStr, "cache-ttl", cacheTTLStr, "Freshness of cached reads")
	fs.StringVar(&requestTimeoutStr, "request-timeout", requestTimeoutStr, "Timeout of storefront API calls")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between payment status polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent payment workers")
	fs.IntVar(&cfg.PollBatchSize, "poll-batch", cfg.PollBatchSize, "Maximum payments per polling batch")
	fs.StringVar(&originsStr, "origins", originsStr, "Comma separated origins allowed by CORS")
	fs.StringVar(&cfg.PaymentReturnURL, "payment-return-url", cfg.PaymentReturnURL, "Page the payment gateway redirects the buyer to")
	fs.StringVar(&cfg.PaymentNotifyURL, "payment-notify-url", cfg.PaymentNotifyURL, "Payment gateway notification endpoint")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.CacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}

	if cfg.RequestTimeout, err = time.ParseDuration(requestTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("SESSION_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = strings.TrimSpace(string(content))
	}

	cfg.AllowedOrigins = splitList(originsStr)

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.PollBatchSize <= 0 {
		cfg.PollBatchSize = defaultPollBatchSize
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("storefront API base URL must be provided")
	}

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("storefront API base URL must be absolute")
	}

	if cfg.PaymentNotifyURL == "" {
		cfg.PaymentNotifyURL = strings.TrimSuffix(cfg.APIBaseURL, "/") + defaultNotifyPath
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DefaultSecret reports whether shell tokens are signed with the built-in secret.
func (c *Config) DefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}
