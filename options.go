package emkit

import (
	"io"
	"log/slog"
)

// Option configures a Manager.
type Option func(*managerConfig)

// managerConfig contains construction-time configuration for a Manager.
type managerConfig struct {
	// identifiers are the identity tags presented to the shared manager.
	identifiers []string

	// shared is the shared manager to consult, or nil.
	shared *SharedManager

	// logger receives debug-level dispatch traces.
	logger *slog.Logger
}

// defaultManagerConfig returns the default configuration.
func defaultManagerConfig() managerConfig {
	return managerConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithIdentifiers sets the identity tags the manager presents to the
// shared manager. A manager typically carries both a concrete and an
// abstract identity so both sets of shared listeners fire.
func WithIdentifiers(identifiers ...string) Option {
	return func(c *managerConfig) {
		c.identifiers = identifiers
	}
}

// WithSharedManager sets the shared manager consulted on every trigger.
func WithSharedManager(sm *SharedManager) Option {
	return func(c *managerConfig) {
		c.shared = sm
	}
}

// WithLogger sets the logger used for debug-level dispatch traces.
// The engine never logs listener errors; those propagate to the caller.
func WithLogger(l *slog.Logger) Option {
	return func(c *managerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
