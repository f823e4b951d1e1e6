package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the service logger. Production JSON output by default,
// human-readable development output when APP_ENV=development.
func New() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
