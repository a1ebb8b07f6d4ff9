package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dogfinder/dogfinder/catalog"
	"github.com/dogfinder/dogfinder/config"
	"github.com/dogfinder/dogfinder/navigation"
	"github.com/dogfinder/dogfinder/store"
	"github.com/dogfinder/dogfinder/utils"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

var ErrNotInitialized = errors.New("application is not initialized")

// App holds the collaborators every command works against. The navigator is
// created on first use because it needs the breed list from the catalog.
type App struct {
	Config  *config.Config
	Catalog *catalog.Client
	Store   store.Store
	// Backend is the store backend actually in use.
	Backend string

	mu  sync.Mutex
	nav *navigation.Navigator
}

// AppOptions tweaks how NewApp wires the collaborators.
type AppOptions struct {
	// Ephemeral keeps progress in memory regardless of the configured backend.
	Ephemeral bool
	// CatalogOptions are appended after the options derived from the config.
	CatalogOptions []catalog.Option
}

// NewApp opens the configured store and creates the catalog client.
func NewApp(ctx context.Context, cfg *config.Config, opts AppOptions) (*App, error) {
	storeOpts := store.Options{
		Backend:       cfg.Store.Backend,
		Path:          cfg.Store.Path,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
		RedisPrefix:   cfg.Store.RedisPrefix,
	}
	if opts.Ephemeral {
		storeOpts.Backend = "memory"
	}

	st, err := store.Open(ctx, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", storeOpts.Backend, err)
	}
	utils.Verbose("Using %s store", storeOpts.Backend)

	catalogOpts := append([]catalog.Option{
		catalog.WithBaseURL(cfg.API.BaseURL),
		catalog.WithTimeout(cfg.API.Timeout),
	}, opts.CatalogOptions...)

	return &App{
		Config:  cfg,
		Catalog: catalog.NewClient(cfg.API.Key, catalogOpts...),
		Store:   st,
		Backend: storeOpts.Backend,
	}, nil
}

// Navigator returns the shared navigator, fetching the breed list and
// restoring progress the first time it is needed.
func (a *App) Navigator(ctx context.Context) (*navigation.Navigator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.nav != nil {
		return a.nav, nil
	}

	client, err := a.CatalogClient()
	if err != nil {
		return nil, err
	}

	breeds, err := client.ListBreeds(ctx)
	if err != nil {
		return nil, err
	}

	nav, err := navigation.New(ctx, breeds, a.Store, client)
	if err != nil {
		return nil, err
	}
	a.nav = nav
	return nav, nil
}

// CatalogClient returns the catalog client, or config.ErrNoAPIKey when no API
// key could be resolved.
func (a *App) CatalogClient() (*catalog.Client, error) {
	if _, err := a.Config.RequireAPIKey(); err != nil {
		return nil, err
	}
	return a.Catalog, nil
}

// ResetNavigator drops the cached navigator and breeds so the next use
// reloads them from the catalog.
func (a *App) ResetNavigator() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nav = nil
	a.Catalog.InvalidateBreeds()
}

// ClearProgress forgets the position, votes and user id. A loaded navigator
// starts over under a new user id.
func (a *App) ClearProgress(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.nav != nil {
		return a.nav.Reset(ctx)
	}
	if err := a.Store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	return nil
}

// Close releases the store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// app is set once at startup via SetApp and used by every command.
var app *App

// SetApp sets the global application used by commands.
func SetApp(a *App) {
	app = a
}

// GetApp returns the application set by SetApp, or nil.
func GetApp() *App {
	return app
}

func requireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}

func requireNavigator(ctx context.Context) (*navigation.Navigator, error) {
	a, err := requireApp()
	if err != nil {
		return nil, err
	}
	nav, err := a.Navigator(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading breeds: %w", err)
	}
	return nav, nil
}
