package cli

import (
	"os"

	"github.com/mkelsey/devportal/internal/session/credential"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	TokenFile string
	Local     bool
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("DEVPORTAL_SERVER", "http://localhost:8080"),
		TokenFile: getEnvOrDefault("DEVPORTAL_TOKEN_FILE", credential.DefaultPath()),
		Local:     os.Getenv("DEVPORTAL_LOCAL") != "",
		Output:    "text",
		Verbose:   false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
