package cli

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/cricketstats-go/internal/factory"
	"github.com/mcoot/cricketstats-go/internal/gateway"
	redisstorage "github.com/mcoot/cricketstats-go/internal/storage/redis"
)

// DotEnvFile is loaded from the working directory before reading the environment
const DotEnvFile = ".env"

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	SessionStore string
	SessionFile  string
	RedisURL     string
	Output       string
	Verbose      bool
	Timeout      time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("CRICKET_SERVER", gateway.DefaultConfig().ServerURL),
		SessionStore: getEnvOrDefault("CRICKET_SESSION_STORE", factory.StorageTypeFile),
		SessionFile:  getEnvOrDefault("CRICKET_SESSION_FILE", defaultSessionFile()),
		RedisURL:     getEnvOrDefault("CRICKET_REDIS_URL", redisstorage.DefaultConfig().URL),
		Output:       getEnvOrDefault("CRICKET_OUTPUT", "text"),
		Verbose:      false,
		Timeout:      gateway.DefaultConfig().Timeout,
	}
}

// LoadDotEnv sets variables from path that are not already in the
// environment. A missing file is fine.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// FactoryConfig converts the CLI settings into factory settings
func (c *Config) FactoryConfig(logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Gateway: gateway.Config{
			ServerURL: c.ServerURL,
			Timeout:   c.Timeout,
		},
		Logger:      logger,
		StorageType: c.SessionStore,
		SessionFile: c.SessionFile,
	}

	if c.SessionStore == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// Logger builds the CLI logger: JSON to w, debug when verbose
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cricket/session.json"
	}
	return filepath.Join(home, ".cricket", "session.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
