package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every external setting the API needs. It is built once in
// main() and passed explicitly into handlers, so secrets have a single
// well-known entry point instead of os.Getenv calls scattered around.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"tienda"`

	JWTSecret   string `envconfig:"JWT_SECRET"`
	AdminAPIKey string `envconfig:"ADMIN_API_KEY"`

	// Flow payment gateway credentials.
	FlowAPIKey    string `envconfig:"FLOW_API_KEY"`
	FlowSecretKey string `envconfig:"FLOW_SECRET_KEY"`
	FlowBaseURL   string `envconfig:"FLOW_BASE_URL" default:"https://www.flow.cl/api"`

	// BackendURL is where Flow sends the confirmation webhook and the
	// browser return; FrontendURL is where we bounce the customer after
	// payment.
	BackendURL  string `envconfig:"BACKEND_URL" default:"http://localhost:8080"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"pedidos@poliaccesorios.cl"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}

// DSN builds the postgres connection string when DATABASE_URL is not set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
