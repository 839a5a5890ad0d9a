package logger_test

import (
	"errors"

	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	log := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}).Module("ingest")

	log.WithFields(map[string]interface{}{
		"competition": "PL",
		"created":     12,
		"updated":     368,
	}).Info("Matches loaded")

	log.WithError(errors.New("rate limit exceeded")).
		WithField("competition", "SA").
		Warn("Competition skipped")
}
