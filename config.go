package photoshare

import (
	"os"

	goerrors "github.com/goliatone/go-errors"
)

// Config carries every runtime setting the module needs. Callers build
// one explicitly and pass it down; nothing reads the environment after
// Load returns.
type Config struct {
	ServerAddr   string
	DatabasePath string
	SigningKey   string
	Issuer       string

	// Origin is the public base URL used to build links in emails.
	Origin string

	SMTP SMTPConfig
}

func (c Config) Valid() error {
	if c.SigningKey == "" {
		return goerrors.New("signing key is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// LoadConfig reads settings from environment variables with development
// friendly fallbacks.
func LoadConfig() Config {
	return Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		DatabasePath: getEnv("DATABASE_PATH", "photoshare.db"),
		SigningKey:   getEnv("JWT_SECRET", ""),
		Issuer:       getEnv("JWT_ISSUER", "photoshare"),
		Origin:       getEnv("APP_ORIGIN", "http://localhost:8080"),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnv("SMTP_PORT", "1025"),
			From:     getEnv("SMTP_FROM", "noreply@photoshare.local"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
