package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.HTTPTimeoutSecs != 30 {
		t.Errorf("HTTPTimeoutSecs = %d, want 30", cfg.HTTPTimeoutSecs)
	}
	if cfg.FetchConcurrency != 3 {
		t.Errorf("FetchConcurrency = %d, want 3", cfg.FetchConcurrency)
	}
	if cfg.TimesheetAPIURL == "" {
		t.Error("TimesheetAPIURL default should not be empty")
	}
	if cfg.SlackChannel != "#timesheet-alerts" {
		t.Errorf("SlackChannel = %q", cfg.SlackChannel)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Port: 8080, FetchConcurrency: 10}
	applyDefaults(&cfg)

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, explicit value should survive defaults", cfg.Port)
	}
	if cfg.FetchConcurrency != 10 {
		t.Errorf("FetchConcurrency = %d, explicit value should survive defaults", cfg.FetchConcurrency)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: "port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "missing api url",
			mutate:  func(c *Config) { c.TimesheetAPIURL = "" },
			wantErr: "timesheet_api_url",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.HTTPTimeoutSecs = 0 },
			wantErr: "http_timeout_seconds",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.FetchConcurrency = 0 },
			wantErr: "fetch_concurrency",
		},
		{
			name:    "negative minimum hours",
			mutate:  func(c *Config) { c.MinimumHours = -1 },
			wantErr: "minimum_hours_threshold",
		},
		{
			name:    "bad cron expression",
			mutate:  func(c *Config) { c.ReportSchedule = "not a schedule" },
			wantErr: "report_schedule",
		},
		{
			name:   "valid cron expression",
			mutate: func(c *Config) { c.ReportSchedule = "0 9 * * 1" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestChannelPredicates(t *testing.T) {
	cfg := validConfig()
	if cfg.SlackReportConfigured() || cfg.SlackDMConfigured() || cfg.EmailConfigured() {
		t.Error("no channel should be configured by default")
	}

	cfg.SlackWebhookURL = "https://hooks.slack.com/services/T/B/X"
	if !cfg.SlackReportConfigured() {
		t.Error("webhook URL should enable the Slack report channel")
	}

	cfg.SlackBotToken = "xoxb-test"
	if !cfg.SlackDMConfigured() {
		t.Error("bot token should enable Slack DMs")
	}

	cfg.SMTPUser = "bot@example.com"
	if cfg.EmailConfigured() {
		t.Error("email needs both user and password")
	}
	cfg.SMTPPass = "secret"
	if !cfg.EmailConfigured() {
		t.Error("user plus password should enable email")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MOCK_MODE", "true")
	t.Setenv("SLACK_CHANNEL", "#override")

	var cfg Config
	envOverrideInt(&cfg.Port, "PORT")
	envOverrideBool(&cfg.MockMode, "MOCK_MODE")
	envOverride(&cfg.SlackChannel, "SLACK_CHANNEL")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if !cfg.MockMode {
		t.Error("MockMode should be true")
	}
	if cfg.SlackChannel != "#override" {
		t.Errorf("SlackChannel = %q", cfg.SlackChannel)
	}
	if cfg.SlackBotToken != "" {
		t.Errorf("SlackBotToken = %q, unset env should not override", cfg.SlackBotToken)
	}
}
