package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Development mode gets the console
// encoder with full stack traces, production gets JSON.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
