package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DateLayout is the layout used for every calendar-day value in the environment.
const DateLayout = "2006-01-02"

var (
	ErrMissingConfig    = errors.New("missing required configuration")
	ErrInvalidDateRange = errors.New("invalid report date range")
)

type AppConfig struct {
	LogLevel string
	Debug    bool
	DryRun   bool

	ShopDomain          string
	AccessToken         string
	APIVersion          string
	PageLimit           int
	RequestsPerSecond   float64
	HTTPTimeout         time.Duration
	ReportStartDate     time.Time
	ReportEndDate       time.Time
	ReportOutputDir     string
	CurrencyLabel       string
	HistoryDatabasePath string

	EmailServiceProvider string

	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPTimeout  time.Duration

	MailgunDomain        string
	MailgunPrivateAPIKey string

	EmailFrom string
	EmailTo   string
}

// LoadConfig reads the optional .env file and the process environment.
// now anchors the default report window (the previous calendar month).
func LoadConfig(now time.Time) (*AppConfig, error) {
	if errEnv := godotenv.Load(); errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	defaultStart, defaultEnd := previousMonth(now)

	startDate, err := getEnvAsDate("REPORT_START_DATE", defaultStart)
	if err != nil {
		return nil, err
	}
	endDate, err := getEnvAsDate("REPORT_END_DATE", defaultEnd)
	if err != nil {
		return nil, err
	}

	emailFrom := getEnv("EMAIL_FROM", "")

	cfg := &AppConfig{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getEnvAsBool("DEBUG", false),
		DryRun:   getEnvAsBool("DRY_RUN", false),

		ShopDomain:          getEnv("SHOPIFY_SHOP", "o2otestv2.myshopify.com"),
		AccessToken:         getSecretEnv("SHOPIFY_TOKEN"),
		APIVersion:          getEnv("SHOPIFY_API_VERSION", "2024-07"),
		PageLimit:           getEnvAsInt("SHOPIFY_PAGE_LIMIT", 250),
		RequestsPerSecond:   getEnvAsFloat("SHOPIFY_REQUESTS_PER_SECOND", 2),
		HTTPTimeout:         getEnvAsDuration("SHOPIFY_HTTP_TIMEOUT", 30*time.Second),
		ReportStartDate:     startDate,
		ReportEndDate:       endDate,
		ReportOutputDir:     getEnv("REPORT_OUTPUT_DIR", "."),
		CurrencyLabel:       getEnv("REPORT_CURRENCY_LABEL", "Rp"),
		HistoryDatabasePath: getEnv("REPORT_HISTORY_DB", ""),

		EmailServiceProvider: strings.ToLower(getEnv("EMAIL_SERVICE_PROVIDER", "smtp")),

		SMTPServer:   getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", emailFrom),
		SMTPPassword: getSecretEnv("EMAIL_PASS"),
		SMTPTimeout:  getEnvAsDuration("SMTP_TIMEOUT", 30*time.Second),

		MailgunDomain:        getEnv("MAILGUN_DOMAIN", ""),
		MailgunPrivateAPIKey: getSecretEnv("MAILGUN_PRIVATE_API_KEY"),

		EmailFrom: emailFrom,
		EmailTo:   getEnv("EMAIL_TO", ""),
	}

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Configuration loaded: Shop=%s, Range=%s..%s, EmailProvider=%s, DryRun=%v",
		cfg.ShopDomain, cfg.ReportStartDate.Format(DateLayout), cfg.ReportEndDate.Format(DateLayout),
		cfg.EmailServiceProvider, cfg.DryRun)
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.ShopDomain == "" {
		return fmt.Errorf("%w: SHOPIFY_SHOP", ErrMissingConfig)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: SHOPIFY_TOKEN", ErrMissingConfig)
	}
	if c.PageLimit < 1 || c.PageLimit > 250 {
		return fmt.Errorf("SHOPIFY_PAGE_LIMIT must be between 1 and 250, got %d", c.PageLimit)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("SHOPIFY_REQUESTS_PER_SECOND must be positive, got %v", c.RequestsPerSecond)
	}
	if c.ReportEndDate.Before(c.ReportStartDate) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidDateRange,
			c.ReportEndDate.Format(DateLayout), c.ReportStartDate.Format(DateLayout))
	}
	if c.EmailTo == "" {
		return fmt.Errorf("%w: EMAIL_TO", ErrMissingConfig)
	}
	if c.EmailFrom == "" {
		return fmt.Errorf("%w: EMAIL_FROM", ErrMissingConfig)
	}

	switch c.EmailServiceProvider {
	case "smtp":
		if !c.DryRun && c.SMTPPassword == "" {
			return fmt.Errorf("%w: EMAIL_PASS is required when EMAIL_SERVICE_PROVIDER is 'smtp'", ErrMissingConfig)
		}
	case "mailgun":
		if c.MailgunDomain == "" || c.MailgunPrivateAPIKey == "" {
			return fmt.Errorf("%w: MAILGUN_DOMAIN and MAILGUN_PRIVATE_API_KEY are required when EMAIL_SERVICE_PROVIDER is 'mailgun'", ErrMissingConfig)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown EMAIL_SERVICE_PROVIDER %q, must be one of: smtp, mailgun, mock", c.EmailServiceProvider)
	}
	return nil
}

// APIBaseURL is the Admin API root for the configured shop and version.
func (c *AppConfig) APIBaseURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s", c.ShopDomain, c.APIVersion)
}

func previousMonth(now time.Time) (time.Time, time.Time) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := firstOfThisMonth.AddDate(0, -1, 0)
	end := firstOfThisMonth.AddDate(0, 0, -1)
	return start, end
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getSecretEnv never echoes the value or a default to the log.
func getSecretEnv(key string) string {
	return os.Getenv(key)
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid number value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsDate rejects malformed dates instead of falling back.
func getEnvAsDate(key string, fallback time.Time) (time.Time, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		log.Printf("Date value for %s not set, using default: %s", key, fallback.Format(DateLayout))
		return fallback, nil
	}
	value, err := time.Parse(DateLayout, valueStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q is not YYYY-MM-DD: %v", ErrInvalidDateRange, key, valueStr, err)
	}
	return value, nil
}
