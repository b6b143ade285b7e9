// Package cli parses the frontdesk server's command-line flags. Every flag
// falls back to an environment variable so containerized deployments can run
// without arguments.
package cli

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	// Application flags
	Debug bool

	// Server flags
	ListenAddr  string
	MetricsAddr string

	// Component enable flags (for splitting into multiple instances)
	EnableAPI     bool
	EnableSweeper bool

	// Configuration flags
	ConfigPath string
	DBPath     string
	Seed       bool
}

func Parse() *Config {
	config := &Config{}
	flag.BoolVar(&config.Debug, "debug", getEnvBool("FRONTDESK_DEBUG", false), "Enable debug level logging")

	flag.StringVar(&config.ListenAddr, "listen-address", getEnvString("FRONTDESK_LISTEN", ""),
		"The address the HTTP API binds to (host:port). Overrides the config file when set")
	flag.StringVar(&config.MetricsAddr, "metrics-bind-address", getEnvString("FRONTDESK_METRICS_LISTEN", ""),
		"The address the metrics endpoint binds to. Overrides the config file when set")

	flag.BoolVar(&config.EnableAPI, "enable-api", getEnvBool("ENABLE_API", true),
		"Enable the HTTP API. Use false when deploying a sweeper-only instance")
	flag.BoolVar(&config.EnableSweeper, "enable-sweeper", getEnvBool("ENABLE_SWEEPER", true),
		"Enable the background expiry routine for overdue requests. Use false when deploying an API-only instance")

	flag.StringVar(&config.ConfigPath, "config-path", getEnvString("FRONTDESK_CONFIG_PATH", "./config.yaml"),
		"Path to the frontdesk configuration file")
	flag.StringVar(&config.DBPath, "db-path", getEnvString("FRONTDESK_DB_PATH", ""),
		"Path to the SQLite database file. Overrides the config file when set")
	flag.BoolVar(&config.Seed, "seed", getEnvBool("FRONTDESK_SEED", false),
		"Insert demo data on startup when the database is empty")

	flag.Parse()

	return config
}

func (c *Config) Print(log *zap.SugaredLogger) {
	log.Infow("CLI Configuration",
		"debug", c.Debug,
		"listen_address", c.ListenAddr,
		"metrics_bind_address", c.MetricsAddr,
		"enable_api", c.EnableAPI,
		"enable_sweeper", c.EnableSweeper,
		"config_path", c.ConfigPath,
		"db_path", c.DBPath,
		"seed", c.Seed,
	)
}

// getEnvString returns the value of an environment variable, or the provided default if not set.
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}
