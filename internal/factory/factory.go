package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/cricketstats-go/internal/dependencies/clock"
	"github.com/mcoot/cricketstats-go/internal/gateway"
	"github.com/mcoot/cricketstats-go/internal/navigation"
	"github.com/mcoot/cricketstats-go/internal/services/dashboard"
	"github.com/mcoot/cricketstats-go/internal/services/login"
	"github.com/mcoot/cricketstats-go/internal/services/signup"
	"github.com/mcoot/cricketstats-go/internal/session"
	"github.com/mcoot/cricketstats-go/internal/storage"
	"github.com/mcoot/cricketstats-go/internal/storage/file"
	"github.com/mcoot/cricketstats-go/internal/storage/memory"
	redisstorage "github.com/mcoot/cricketstats-go/internal/storage/redis"
	"github.com/mcoot/cricketstats-go/internal/view"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// View renders every page the client has
type View interface {
	login.View
	signup.View
	dashboard.View
}

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	StorageType string

	// External dependencies
	Clock     clock.Clock
	Navigator *navigation.Recorder

	// Services
	Session             *session.Store
	Gateway             *gateway.Gateway
	LoginController     *login.Controller
	SignupController    *signup.Controller
	DashboardController *dashboard.Controller

	logger *slog.Logger
	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Gateway holds the API server settings
	// If ServerURL is empty, defaults to gateway.DefaultConfig()
	Gateway gateway.Config
	// View renders controller output (optional)
	// If nil, output is discarded
	View View
	// OnNavigate is called after every page redirect (optional)
	OnNavigate func(path string)
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the session backend ("memory", "file" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// SessionFile is the session file path (required if StorageType is "file")
	SessionFile string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Clock paces redirects (optional)
	// If nil, the real clock is used
	Clock clock.Clock
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		if cfg.SessionFile == "" {
			return nil, errors.New("SessionFile required when StorageType is file")
		}
		store = file.New(cfg.SessionFile)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closer = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'file' or 'redis'", storageType)
	}

	gwCfg := cfg.Gateway
	if gwCfg.ServerURL == "" {
		gwCfg = gateway.DefaultConfig()
	}

	v := cfg.View
	if v == nil {
		v = view.NewConsole(io.Discard, io.Discard, view.FormatText)
	}

	var clk clock.Clock = clock.New()
	if cfg.Clock != nil {
		clk = cfg.Clock
	}

	app := newWithDependencies(store, clk, gwCfg, v, logger)
	app.StorageType = storageType
	app.closer = closer
	app.Navigator.OnNavigate = cfg.OnNavigate
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, gwCfg gateway.Config, v View, logger *slog.Logger) *App {
	navigator := navigation.NewRecorder()
	sess := session.New(store, navigator)
	gw := gateway.New(gwCfg, sess, logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Navigator:           navigator,
		Session:             sess,
		Gateway:             gw,
		LoginController:     login.NewController(gw, sess, navigator, clk, v, logger),
		SignupController:    signup.NewController(gw, sess, navigator, clk, v, logger),
		DashboardController: dashboard.NewController(gw, sess, navigator, v, logger),
		logger:              logger,
	}
}

// NewDashboard creates a dashboard controller that renders to v
func (a *App) NewDashboard(v dashboard.View) *dashboard.Controller {
	return dashboard.NewController(a.Gateway, a.Session, a.Navigator, v, a.logger)
}

// Close releases the storage backend's connections
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
