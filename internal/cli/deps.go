package cli

import (
	"go.uber.org/zap"

	"github.com/roach88/sift/internal/config"
	"github.com/roach88/sift/internal/logging"
	"github.com/roach88/sift/internal/service"
	"github.com/roach88/sift/internal/store"
)

// loadConfig reads the layered configuration named by --config.
func (o *RootOptions) loadConfig(f *OutputFormatter) (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from cfg.
func newLogger(cfg config.Config, f *OutputFormatter) (*zap.Logger, error) {
	log, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to build logger", err)
	}
	return log, nil
}

// openService opens the configured store and wraps it in a Service.
// The caller closes the returned store.
func openService(cfg config.StoreConfig, f *OutputFormatter, opts ...service.Option) (*service.Service, store.Store, error) {
	st, err := store.Open(store.Options{Backend: cfg.Backend, DSN: cfg.DSN})
	if err != nil {
		return nil, nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	return service.New(st, opts...), st, nil
}
