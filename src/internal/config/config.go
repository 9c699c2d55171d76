package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultHTTPAddr = ":8080"
const defaultChannelID = "LedgerOps"
const defaultChannelKey = "LedgerOpsKey001"
const defaultLogLevel = "info"
const defaultShutdownTimeout = 10 * time.Second

type SeedAccount struct {
	DisplayName string
	Password    string
	Balance     decimal.Decimal
}

type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	MigrationsDir   string
	ChannelID       string
	ChannelKey      string
	LogLevel        string
	SeedAccounts    []SeedAccount
	ShutdownTimeout time.Duration
}

// UsesPostgres reports whether a database was configured. Without one the
// service keeps its ledger in memory.
func (c Config) UsesPostgres() bool {
	return c.DatabaseDSN != ""
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        envOr("HTTP_ADDR", defaultHTTPAddr),
		MigrationsDir:   envOr("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		ChannelID:       envOr("CHANNEL_ID", defaultChannelID),
		ChannelKey:      envOr("CHANNEL_KEY", defaultChannelKey),
		LogLevel:        envOr("LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if conn := strings.TrimSpace(os.Getenv("DATABASE_DSN")); conn != "" {
		cfg.DatabaseDSN = normalizeConnectionString(conn)
	}

	if raw := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q", raw)
		}
		cfg.ShutdownTimeout = timeout
	}

	seeds, err := parseSeedAccounts(os.Getenv("SEED_ACCOUNTS"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SEED_ACCOUNTS: %w", err)
	}
	cfg.SeedAccounts = seeds

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parseSeedAccounts reads "name:password:balance" entries separated by commas.
func parseSeedAccounts(raw string) ([]SeedAccount, error) {
	var out []SeedAccount
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("entry %q must be name:password:balance", entry)
		}

		name := strings.TrimSpace(parts[0])
		if name == "" || parts[1] == "" {
			return nil, fmt.Errorf("entry %q needs a name and a password", entry)
		}

		balance, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("entry %q balance: %w", entry, err)
		}
		if err := domain.ValidateBalance(balance); err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry, err)
		}

		out = append(out, SeedAccount{DisplayName: name, Password: parts[1], Balance: balance})
	}
	return out, nil
}

func normalizeConnectionString(raw string) string {
	// URL-style DSNs are understood by the driver as they are.
	if strings.Contains(raw, "://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
