package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/upkeephq/upkeep/internal/utils"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"upkeep-server"`
	AppPort string `env:"APP_PORT" envDefault:"8000"`

	// Database
	DBUrl string `env:"DB_URL,required"`

	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`

	// SLA monitor
	SLACheckInterval time.Duration `env:"SLA_CHECK_INTERVAL" envDefault:"15m"`

	// Twilio / SendGrid for SLA breach notifications. All optional; the
	// monitor runs without them and only marks breaches.
	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromPhone   string `env:"TWILIO_FROM_PHONE"`
	SendGridAPIKey    string `env:"SENDGRID_API_KEY"`
	SendGridFromEmail string `env:"SENDGRID_FROM_EMAIL"`
	OpsAlertEmail     string `env:"OPS_ALERT_EMAIL"`
	OpsAlertPhone     string `env:"OPS_ALERT_PHONE"`
}

func LoadConfig() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		utils.Logger.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
