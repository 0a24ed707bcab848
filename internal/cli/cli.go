// Package cli implements the instafetch command tree.
package cli

import (
	"time"

	"github.com/sirupsen/logrus"

	"instafetch/internal/config"
	"instafetch/internal/fingerprint"
	"instafetch/internal/instagram"
)

// newLogger builds the process-wide logger. Strategy misses log at debug, so
// normal runs stay quiet unless --verbose is given.
func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// newPipeline wires the extraction pipeline from config. Session credentials
// go straight into the fingerprint pool and nowhere else.
func newPipeline(cfg *config.Config, logger *logrus.Logger) *instagram.Orchestrator {
	pool := fingerprint.NewPool(fingerprint.Credentials{
		SessionID: cfg.Session.SessionID,
		CSRFToken: cfg.Session.CSRFToken,
		UserID:    cfg.Session.UserID,
	})
	return instagram.NewOrchestrator(instagram.Options{
		Pool:            pool,
		Logger:          logger,
		BrowserFallback: cfg.BrowserFallback,
		PacingMax:       time.Duration(cfg.PacingMaxMS) * time.Millisecond,
	})
}
