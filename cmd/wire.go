package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	sqlitecache "github.com/bnema/robotctl/internal/adapters/cache/sqlite"
	tomlcache "github.com/bnema/robotctl/internal/adapters/cache/toml"
	"github.com/bnema/robotctl/internal/adapters/remote/rest"
	statusadapter "github.com/bnema/robotctl/internal/adapters/render/status"
	"github.com/bnema/robotctl/internal/adapters/robot/ws"
	"github.com/bnema/robotctl/internal/application"
	"github.com/bnema/robotctl/internal/config"
	"github.com/bnema/robotctl/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg            *config.Config
	logger         *slog.Logger
	cache          ports.KeyValueStore
	closeCache     func() error
	remote         *rest.Client
	link           *ws.Client
	wsEndpoint     string
	routes         *application.RouteService
	statusRenderer func(statusadapter.View, statusadapter.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	cache, closeCache, err := wireCache(cfg)
	if err != nil {
		return nil, err
	}

	wsEndpoint, err := ws.EndpointFromBaseURL(cfg.ServerURL, cfg.WSPath)
	if err != nil {
		_ = closeCache()
		return nil, fmt.Errorf("wire robot link: %w", err)
	}

	remote := &rest.Client{
		BaseURL:        cfg.APIBaseURL(),
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.RequestTimeout,
	}
	link := ws.NewClient(ws.Config{URL: wsEndpoint, Logger: logger})

	return &app{
		cfg:            cfg,
		logger:         logger,
		cache:          cache,
		closeCache:     closeCache,
		remote:         remote,
		link:           link,
		wsEndpoint:     wsEndpoint,
		routes:         application.NewRouteService(cache, remote, logger),
		statusRenderer: statusadapter.Render,
	}, nil
}

func wireCache(cfg *config.Config) (ports.KeyValueStore, func() error, error) {
	switch cfg.CacheDriver {
	case config.DriverSQLite:
		store, err := sqlitecache.NewStore(cfg.Viper())
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite route cache: %w", err)
		}
		return store, store.Close, nil
	default:
		store, err := tomlcache.NewStore(cfg.Viper())
		if err != nil {
			return nil, nil, fmt.Errorf("wire toml route cache: %w", err)
		}
		return store, func() error { return nil }, nil
	}
}

// newController builds a controller over the shared link. A nil prompter
// keeps reconnect prompts silent.
func (a *app) newController(prompter ports.ReconnectPrompter) (*application.Controller, *application.ReconnectGate) {
	gate := application.NewReconnectGate(a.link, prompter, a.cfg.RetrySettle, a.logger)
	return application.NewController(a.link, a.routes, a.remote, gate, ports.SystemClock{}, a.logger), gate
}

// connect dials the link with a bounded timeout.
func (a *app) connect(ctx context.Context, controller *application.Controller) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	if err := controller.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", a.wsEndpoint, err)
	}
	return nil
}

func (a *app) close() error {
	return errors.Join(a.link.Close(), a.closeCache())
}
