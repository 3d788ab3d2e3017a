package cmd

import (
	"fmt"
	"time"

	"github.com/Iron-Ham/quizdesk/internal/access"
	"github.com/Iron-Ham/quizdesk/internal/config"
	"github.com/Iron-Ham/quizdesk/internal/gateway/httpapi"
	"github.com/Iron-Ham/quizdesk/internal/gateway/memory"
	"github.com/Iron-Ham/quizdesk/internal/gateway/sqlitestore"
	"github.com/Iron-Ham/quizdesk/internal/logging"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// runtime bundles what every quiz command needs.
type runtime struct {
	cfg     *config.Config
	logger  *logging.Logger
	gateway quiz.Gateway
	closers []func() error
}

// loadRuntime loads and validates the configuration, then opens the logger
// and the configured gateway.
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger}
	rt.closers = append(rt.closers, logger.Close)

	gw, closeFn, err := openGateway(cfg, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.gateway = gw
	if closeFn != nil {
		rt.closers = append(rt.closers, closeFn)
	}

	logger.Info("runtime ready", "backend", cfg.Gateway.Backend)
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (r *runtime) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// checkAccess runs the access gate. It is a no-op unless access.required.
func (r *runtime) checkAccess() error {
	gate := accessGate(r.cfg)
	id, err := gate.Check()
	if err != nil {
		r.logger.Warn("access denied", "error", err)
		return err
	}
	r.logger.Debug("access granted", "subject", id.Subject)
	return nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	rotation := logging.DefaultRotationConfig()
	if cfg.Logging.MaxSizeMB > 0 {
		rotation.MaxSizeMB = cfg.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxBackups > 0 {
		rotation.MaxBackups = cfg.Logging.MaxBackups
	}
	rotation.Compress = cfg.Logging.Compress
	logger, err := logging.NewLogger(cfg.LogDir(), logging.ParseLevel(cfg.Logging.Level), rotation)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

// openGateway returns the quiz store selected by gateway.backend and an
// optional close function.
func openGateway(cfg *config.Config, logger *logging.Logger) (quiz.Gateway, func() error, error) {
	switch cfg.Gateway.Backend {
	case config.BackendHTTP:
		client, err := httpapi.New(httpapi.Config{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.API.Token,
			Timeout: cfg.API.Timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil

	case config.BackendSQLite:
		store, err := sqlitestore.Open(cfg.StorePath())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open quiz store: %w", err)
		}
		return store, store.Close, nil

	case config.BackendMemory:
		return memory.New(demoQuizzes()...), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown gateway backend %q", cfg.Gateway.Backend)
	}
}

// demoQuizzes gives the built-in sample set short, typeable IDs.
func demoQuizzes() []quiz.Quiz {
	quizzes := sqlitestore.SampleQuizzes()
	now := time.Now().UTC()
	for i := range quizzes {
		quizzes[i].ID = fmt.Sprintf("q%d", i+1)
		quizzes[i].CreatedAt = now.Add(-time.Duration(i) * time.Hour)
	}
	return quizzes
}

func accessGate(cfg *config.Config) access.Gate {
	if !cfg.Access.Required {
		return access.Open{}
	}
	return access.TokenGate{
		Token:  cfg.API.Token,
		Role:   cfg.Access.Role,
		Secret: cfg.Access.Secret,
	}
}
