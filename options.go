package loom

import "go.uber.org/zap"

type Option func(*injectorConfig)

type injectorConfig struct {
	logger    *zap.Logger
	onResolve []ResolveHook
}

// WithLogger sets the logger used for resolution and bootstrap events.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *injectorConfig) {
		cfg.logger = logger
	}
}

// WithResolveObserver registers a hook called after every resolution
// attempt, including cache hits.
func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *injectorConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}
