package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the immutable runtime configuration. It is built once at
// startup and passed into the pipeline and notification channels; nothing
// mutates it afterwards.
type Config struct {
	Port int `yaml:"port"`

	TimesheetAPIURL  string `yaml:"timesheet_api_url"`
	TimesheetPostURL string `yaml:"timesheet_post_url"`
	HTTPTimeoutSecs  int    `yaml:"http_timeout_seconds"`
	FetchConcurrency int    `yaml:"fetch_concurrency"`

	// Reserved threshold for a future partial-submission rule; validated
	// but not consulted by the classifier.
	MinimumHours int `yaml:"minimum_hours_threshold"`

	SlackWebhookURL string `yaml:"slack_webhook_url"`
	SlackChannel    string `yaml:"slack_channel"`
	SlackBotToken   string `yaml:"slack_bot_token"`

	SMTPHost   string `yaml:"smtp_host"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass"`
	AdminEmail string `yaml:"admin_email"`
	HREmail    string `yaml:"hr_email"`

	// Optional 5-field cron expression; when set, the previous-week
	// analysis runs and notifies on that schedule.
	ReportSchedule string `yaml:"report_schedule"`

	// Optional SQLite file for the notification delivery log.
	DBPath string `yaml:"db_path"`

	// MockMode short-circuits timesheet entry posting with a synthetic ID.
	MockMode bool `yaml:"mock_mode"`
}

// LoadConfig reads .env (if present), then config.yaml, then applies env
// overrides, defaults, and validation. Invalid configuration is fatal.
func LoadConfig() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values.
	envOverrideInt(&cfg.Port, "PORT")
	envOverride(&cfg.TimesheetAPIURL, "TIMESHEET_API_URL")
	envOverride(&cfg.TimesheetPostURL, "TIMESHEET_POST_URL")
	envOverrideInt(&cfg.HTTPTimeoutSecs, "HTTP_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.FetchConcurrency, "FETCH_CONCURRENCY")
	envOverrideInt(&cfg.MinimumHours, "MINIMUM_HOURS_THRESHOLD")
	envOverride(&cfg.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	envOverride(&cfg.SlackChannel, "SLACK_CHANNEL")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SMTPHost, "SMTP_HOST")
	envOverrideInt(&cfg.SMTPPort, "SMTP_PORT")
	envOverride(&cfg.SMTPUser, "SMTP_USER")
	envOverride(&cfg.SMTPPass, "SMTP_PASS")
	envOverride(&cfg.AdminEmail, "ADMIN_EMAIL")
	envOverride(&cfg.HREmail, "HR_EMAIL")
	envOverride(&cfg.ReportSchedule, "REPORT_SCHEDULE")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverrideBool(&cfg.MockMode, "MOCK_MODE")

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.TimesheetAPIURL == "" {
		cfg.TimesheetAPIURL = "https://timesheet-be.fleetstudio.com/api/user/reports/filter"
	}
	if cfg.HTTPTimeoutSecs == 0 {
		cfg.HTTPTimeoutSecs = 30
	}
	if cfg.FetchConcurrency == 0 {
		cfg.FetchConcurrency = 3
	}
	if cfg.MinimumHours == 0 {
		cfg.MinimumHours = 32
	}
	if cfg.SlackChannel == "" {
		cfg.SlackChannel = "#timesheet-alerts"
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@fleetstudio.com"
	}
	if cfg.HREmail == "" {
		cfg.HREmail = "hr@fleetstudio.com"
	}
}

// Validate checks ranges and expression syntax. Separate from LoadConfig
// so tests can exercise it without process exit.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port '%d': must be 1-65535", c.Port)
	}
	if c.TimesheetAPIURL == "" {
		return fmt.Errorf("timesheet_api_url is required")
	}
	if c.HTTPTimeoutSecs < 1 {
		return fmt.Errorf("invalid http_timeout_seconds '%d': must be >= 1", c.HTTPTimeoutSecs)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("invalid fetch_concurrency '%d': must be >= 1", c.FetchConcurrency)
	}
	if c.MinimumHours < 0 {
		return fmt.Errorf("invalid minimum_hours_threshold '%d': must be >= 0", c.MinimumHours)
	}
	if c.ReportSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(c.ReportSchedule); err != nil {
			return fmt.Errorf("invalid report_schedule '%s': %v", c.ReportSchedule, err)
		}
	}
	return nil
}

// SlackReportConfigured reports whether the webhook report channel is enabled.
func (c Config) SlackReportConfigured() bool { return c.SlackWebhookURL != "" }

// SlackDMConfigured reports whether bot-token direct messages are enabled.
func (c Config) SlackDMConfigured() bool { return c.SlackBotToken != "" }

// EmailConfigured reports whether the SMTP report channel is enabled.
func (c Config) EmailConfigured() bool { return c.SMTPUser != "" && c.SMTPPass != "" }

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = strings.EqualFold(val, "true") || val == "1"
	}
}
