package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is built once at startup and handed to each component by the
// entry points. There is no ambient global configuration.
type Config struct {
	// Microsoft Graph (OneDrive workbook + Outlook mail)
	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string
	WorkbookID        string
	WorksheetName     string
	SenderEmail       string
	SenderName        string

	// Twilio SMS
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// SMTP (alternate email transport)
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	// Provider selection
	LeadStoreProvider string // "excel" or "postgres"
	EmailProvider     string // "graph" or "smtp"
	DatabaseURL       string

	// Rate limiting (messages per rolling hour)
	EmailRateLimit int
	SMSRateLimit   int

	// Follow-up timing
	FollowUpDelayDays int

	// Send pacing. Rapid bursts trigger provider-side abuse detection,
	// so the delays are part of the sending contract.
	EmailSendDelay time.Duration
	SMSSendDelay   time.Duration
	LeadDelay      time.Duration

	// Business identity used in templates
	BusinessName string
	TrainerName  string
	WebsiteURL   string
	PhoneNumber  string

	BackupDir string

	Templates Templates
}

// Templates holds the message bodies per channel and type ("initial",
// "follow_up"). Email bodies carry the subject on a leading "Subject:" line.
type Templates struct {
	Email map[string]string `yaml:"email"`
	SMS   map[string]string `yaml:"sms"`
}

// Load reads configuration from the environment. Call godotenv.Load first
// in main. A templates YAML file referenced by OUTREACH_TEMPLATES replaces
// the built-in message set.
func Load() (*Config, error) {
	cfg := &Config{
		GraphTenantID:     os.Getenv("OUTLOOK_TENANT_ID"),
		GraphClientID:     os.Getenv("OUTLOOK_CLIENT_ID"),
		GraphClientSecret: os.Getenv("OUTLOOK_CLIENT_SECRET"),
		WorkbookID:        os.Getenv("WORKBOOK_ID"),
		WorksheetName:     getEnv("WORKSHEET_NAME", "Leads"),
		SenderEmail:       os.Getenv("SENDER_EMAIL"),
		SenderName:        getEnv("SENDER_NAME", "Alex Huynh - Personal Trainer"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		SMTPHost: os.Getenv("MAIL_HOST"),
		SMTPPort: getEnvInt("MAIL_PORT", 587),
		SMTPUser: os.Getenv("MAIL_USER"),
		SMTPPass: os.Getenv("MAIL_PASS"),

		LeadStoreProvider: getEnv("LEAD_STORE", "excel"),
		EmailProvider:     getEnv("EMAIL_PROVIDER", "graph"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),

		EmailRateLimit:    getEnvInt("EMAIL_RATE_LIMIT", 50),
		SMSRateLimit:      getEnvInt("SMS_RATE_LIMIT", 30),
		FollowUpDelayDays: getEnvInt("FOLLOW_UP_DELAY_DAYS", 2),

		EmailSendDelay: getEnvDuration("EMAIL_SEND_DELAY", 2*time.Second),
		SMSSendDelay:   getEnvDuration("SMS_SEND_DELAY", time.Second),
		LeadDelay:      getEnvDuration("LEAD_DELAY", 3*time.Second),

		BusinessName: getEnv("BUSINESS_NAME", "Bay Club"),
		TrainerName:  getEnv("TRAINER_NAME", "Alex Huynh"),
		WebsiteURL:   getEnv("WEBSITE_URL", "https://bayclubs.com"),
		PhoneNumber:  getEnv("PHONE_NUMBER", "+1234567890"),

		BackupDir: getEnv("BACKUP_DIR", "backups"),

		Templates: DefaultTemplates(),
	}

	if path := os.Getenv("OUTREACH_TEMPLATES"); path != "" {
		tpls, err := loadTemplatesFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load templates from %s: %w", path, err)
		}
		cfg.Templates = tpls
	}

	if cfg.LeadStoreProvider == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("LEAD_STORE=postgres requires DATABASE_URL")
	}

	return cfg, nil
}

func loadTemplatesFile(path string) (Templates, error) {
	var tpls Templates
	data, err := os.ReadFile(path)
	if err != nil {
		return tpls, err
	}
	if err := yaml.Unmarshal(data, &tpls); err != nil {
		return tpls, err
	}
	if len(tpls.Email) == 0 || len(tpls.SMS) == 0 {
		return tpls, fmt.Errorf("templates file must define both email and sms sections")
	}
	return tpls, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
