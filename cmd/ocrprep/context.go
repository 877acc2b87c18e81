package main

import (
	"log/slog"
	"strings"
	"sync"

	"ocrprep/internal/catalog"
	"ocrprep/internal/config"
	"ocrprep/internal/logging"
	"ocrprep/internal/notifications"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// operationEnv bundles the shared dependencies of the dataset operations.
type operationEnv struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	notifier notifications.Service
}

func (c *commandContext) newOperationEnv() (*operationEnv, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &operationEnv{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		notifier: notifications.NewService(cfg),
	}, nil
}

func (e *operationEnv) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}
