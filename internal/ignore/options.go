package ignore

import "github.com/bethropolis/filekit/internal/logger"

// Option configures gitignore loading.
type Option func(*loadConfig)

type loadConfig struct {
	logger logger.Logger
	base   string
}

func newLoadConfig(opts []Option) loadConfig {
	cfg := loadConfig{logger: logger.Nop}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger used while loading rules.
func WithLogger(l logger.Logger) Option {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBase sets the directory strict gitignore rules are relative to.
// It defaults to the directory holding the ignore file.
func WithBase(dir string) Option {
	return func(c *loadConfig) {
		c.base = dir
	}
}
