package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Portal    PortalConfig
	Business  BusinessConfig
	Refresh   RefreshConfig
	Export    ExportConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// PortalConfig contains endpoints and credentials for the order-management
// portal.
type PortalConfig struct {
	LoginURL  string
	OrdersURL string
	QueueURL  string
	Username  string
	Password  string
}

// BusinessConfig is the startup business-hours window. It can be changed at
// runtime through the settings endpoint; these values only seed the store.
type BusinessConfig struct {
	Start timeutil.ClockTime
	End   timeutil.ClockTime
}

// RefreshConfig holds the periodic scrape schedule.
type RefreshConfig struct {
	CronSchedule string
}

// ExportConfig controls the scheduled daily CSV export. Time is "HH:MM";
// empty disables the export job.
type ExportConfig struct {
	Path string
	Time string
}

// ReportingConfig holds range-report settings.
type ReportingConfig struct {
	Timezone     string
	MaxRangeDays int
}

// SheetsConfig contains configuration required to push reports into Google
// Sheets. Empty CredentialsPath disables the sheets exporter.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	businessStart, err := timeutil.ParseClockTime(getenvWithDefault("BUSINESS_START", "08:00"))
	if err != nil {
		return nil, fmt.Errorf("BUSINESS_START: %w", err)
	}
	businessEnd, err := timeutil.ParseClockTime(getenvWithDefault("BUSINESS_END", "16:30"))
	if err != nil {
		return nil, fmt.Errorf("BUSINESS_END: %w", err)
	}

	maxDays, err := strconv.Atoi(getenvWithDefault("REPORT_MAX_DAYS", "31"))
	if err != nil {
		return nil, fmt.Errorf("REPORT_MAX_DAYS must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Portal: PortalConfig{
			LoginURL:  getenvWithDefault("YBS_LOGIN_URL", "https://www.ybsnow.com/index.php"),
			OrdersURL: getenvWithDefault("YBS_ORDERS_URL", "https://www.ybsnow.com/manage.html"),
			QueueURL:  getenvWithDefault("YBS_QUEUE_URL", "https://www.ybsnow.com/queue.html"),
			Username:  os.Getenv("YBS_USERNAME"),
			Password:  os.Getenv("YBS_PASSWORD"),
		},
		Business: BusinessConfig{
			Start: businessStart,
			End:   businessEnd,
		},
		Refresh: RefreshConfig{
			CronSchedule: getenvWithDefault("REFRESH_CRON_SCHEDULE", "*/10 * * * *"),
		},
		Export: ExportConfig{
			Path: getenvWithDefault("EXPORT_PATH", "."),
			Time: os.Getenv("EXPORT_TIME"),
		},
		Reporting: ReportingConfig{
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
			MaxRangeDays: maxDays,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ybscontrol"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and
// coherent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Portal.LoginURL == "":
		return errors.New("YBS_LOGIN_URL must not be empty")
	case c.Portal.OrdersURL == "":
		return errors.New("YBS_ORDERS_URL must not be empty")
	case c.Portal.QueueURL == "":
		return errors.New("YBS_QUEUE_URL must not be empty")
	case c.Portal.Username == "":
		return errors.New("YBS_USERNAME must be provided")
	case c.Portal.Password == "":
		return errors.New("YBS_PASSWORD must be provided")
	}

	if _, err := timeutil.NewCalendar(c.Business.Start, c.Business.End); err != nil {
		return fmt.Errorf("BUSINESS_START/BUSINESS_END: %w", err)
	}

	if c.Refresh.CronSchedule == "" {
		return errors.New("REFRESH_CRON_SCHEDULE must be provided")
	}

	if c.Export.Time != "" {
		if _, err := timeutil.ParseClockTime(c.Export.Time); err != nil {
			return fmt.Errorf("EXPORT_TIME: %w", err)
		}
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if c.Reporting.MaxRangeDays <= 0 {
		return errors.New("REPORT_MAX_DAYS must be positive")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_REPORT_ID must be provided when sheets export is enabled")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
