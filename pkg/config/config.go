package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "DOKANPOS"

// Environment variable names shared with tests and docs.
const (
	EnvAppEnv    = "DOKANPOS_APP_ENV"
	EnvPort      = "DOKANPOS_APP_PORT"
	EnvDBPath    = "DOKANPOS_DB_PATH"
	EnvInvoice   = "DOKANPOS_INVOICE_OUTPUT_DIR"
	EnvLogLevel  = "DOKANPOS_LOG_LEVEL"
	EnvSaleRetry = "DOKANPOS_SALE_RETRY_MAX_ATTEMPTS"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Retry   RetryConfig
	Sale    SaleConfig
	Invoice InvoiceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DOKANPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"DOKANPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DOKANPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DOKANPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path        string        `envconfig:"DOKANPOS_DB_PATH" default:"pos_system.db"`
	BusyTimeout time.Duration `envconfig:"DOKANPOS_DB_BUSY_TIMEOUT" default:"30s"`
	JournalMode string        `envconfig:"DOKANPOS_DB_JOURNAL_MODE" default:"WAL"`
	ForeignKeys bool          `envconfig:"DOKANPOS_DB_FOREIGN_KEYS" default:"true"`
}

func (db DBConfig) validate() error {
	if strings.TrimSpace(db.Path) == "" {
		return fmt.Errorf("%s must not be empty", EnvDBPath)
	}
	if db.BusyTimeout <= 0 {
		return fmt.Errorf("DOKANPOS_DB_BUSY_TIMEOUT must be positive, got %v", db.BusyTimeout)
	}
	return nil
}

// DSN builds the sqlite connection string. Write transactions start
// immediately so a single writer holds the lock for the whole transaction.
func (db DBConfig) DSN() string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.FormatInt(db.BusyTimeout.Milliseconds(), 10))
	q.Set("_journal_mode", db.JournalMode)
	q.Set("_txlock", "immediate")
	if db.ForeignKeys {
		q.Set("_foreign_keys", "on")
	}
	return "file:" + db.Path + "?" + q.Encode()
}

type RetryConfig struct {
	MaxAttempts int           `envconfig:"DOKANPOS_RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"DOKANPOS_RETRY_BASE_DELAY" default:"500ms"`
}

// SaleConfig holds the wider retry budget used for sale recording, which
// holds a multi-statement transaction and collides with writers more often.
type SaleConfig struct {
	MaxAttempts int           `envconfig:"DOKANPOS_SALE_RETRY_MAX_ATTEMPTS" default:"5"`
	BaseDelay   time.Duration `envconfig:"DOKANPOS_SALE_RETRY_BASE_DELAY" default:"1s"`
}

type InvoiceConfig struct {
	OutputDir   string `envconfig:"DOKANPOS_INVOICE_OUTPUT_DIR"`
	CompanyName string `envconfig:"DOKANPOS_INVOICE_COMPANY_NAME" default:"Dokan POS"`
	CompanyAddr string `envconfig:"DOKANPOS_INVOICE_COMPANY_ADDR"`
}

// Dir resolves the invoice output directory, defaulting to a per-user
// folder under the home directory.
func (i InvoiceConfig) Dir() string {
	if i.OutputDir != "" {
		return i.OutputDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "POS_Invoices"
	}
	return filepath.Join(home, "POS_Invoices")
}
