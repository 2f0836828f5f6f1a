package compose

import (
	"github.com/arthur-debert/mozart/pkg/config"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/logging"
)

// Execute loads the configuration and runs the full pipeline.
func Execute(opts Options) (*Result, error) {
	c, err := newFromOptions(opts)
	if err != nil {
		return nil, err
	}
	return c.Compose()
}

// List loads the configuration and resolves the dependency set.
func List(opts Options) (*Result, error) {
	c, err := newFromOptions(opts)
	if err != nil {
		return nil, err
	}
	return c.List()
}

// LoadConfig returns the effective configuration for opts.
func LoadConfig(opts Options) (*config.Config, error) {
	if opts.Config != nil {
		return opts.Config, nil
	}
	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	return config.Load(fs, opts.WorkingDir, config.Options{
		ConfigFile: opts.ConfigFile,
		SkipEnv:    opts.SkipEnv,
	})
}

func newFromOptions(opts Options) (*Composer, error) {
	logger := logging.GetLogger("compose")
	logger.Debug().
		Str("workingDir", opts.WorkingDir).
		Str("configFile", opts.ConfigFile).
		Msg("Starting run")

	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}
	cfg, err := LoadConfig(opts)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, err
	}
	return NewComposer(opts.FileSystem, cfg), nil
}
