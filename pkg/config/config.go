package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	MetricsAddress string   `yaml:"metricsAddress"`
	TrustedProxies []string `yaml:"trustedProxies"` // IPs/CIDRs to trust for X-Forwarded-For headers
}

type Database struct {
	Path string `yaml:"path"`
}

type Knowledge struct {
	// FuzzyThreshold is the minimum similarity ratio, in [0,1], a stored
	// question must reach for a non-exact lookup hit.
	FuzzyThreshold float64 `yaml:"fuzzyThreshold"`
	ListLimit      int     `yaml:"listLimit"`
}

type Requests struct {
	// TTLSeconds is how long a help request stays pending before the
	// sweeper marks it unresolved. Fixed for the whole system.
	TTLSeconds           int `yaml:"ttlSeconds"`
	SweepIntervalSeconds int `yaml:"sweepIntervalSeconds"`
	SweepBackoffSeconds  int `yaml:"sweepBackoffSeconds"`
}

type Notifications struct {
	WebhookURL            string `yaml:"webhookURL"`
	WebhookTimeoutSeconds int    `yaml:"webhookTimeoutSeconds"`
	// SupervisorEmail is the fallback address for escalation mails when the
	// request has no assigned supervisor row.
	SupervisorEmail string `yaml:"supervisorEmail"`
}

type Mail struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	SenderAddress      string `yaml:"senderAddress"`
	SenderName         string `yaml:"senderName"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	RetryCount         int    `yaml:"retryCount"`
	RetryBackoffMs     int    `yaml:"retryBackoffMs"`
	QueueSize          int    `yaml:"queueSize"`
}

type Audit struct {
	KafkaBrokers []string `yaml:"kafkaBrokers"`
	KafkaTopic   string   `yaml:"kafkaTopic"`
	QueueSize    int      `yaml:"queueSize"`
}

type Frontend struct {
	// BrandingName overrides the product name shown in the dashboard and in
	// outbound notifications.
	BrandingName string `yaml:"brandingName"`
	DistDir      string `yaml:"distDir"`
}

type Config struct {
	Server        Server        `yaml:"server"`
	Database      Database      `yaml:"database"`
	Knowledge     Knowledge     `yaml:"knowledge"`
	Requests      Requests      `yaml:"requests"`
	Notifications Notifications `yaml:"notifications"`
	Mail          Mail          `yaml:"mail"`
	Audit         Audit         `yaml:"audit"`
	Frontend      Frontend      `yaml:"frontend"`
	Seed          bool          `yaml:"seed"`
}

func (c Config) TTL() time.Duration {
	return time.Duration(c.Requests.TTLSeconds) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.Requests.SweepIntervalSeconds) * time.Second
}

func (c Config) SweepBackoff() time.Duration {
	return time.Duration(c.Requests.SweepBackoffSeconds) * time.Second
}

func (c Config) WebhookTimeout() time.Duration {
	return time.Duration(c.Notifications.WebhookTimeoutSeconds) * time.Second
}

// Default returns the configuration the service runs with when no file and no
// environment overrides are present.
func Default() Config {
	return Config{
		Server: Server{
			ListenAddress:  ":8000",
			MetricsAddress: ":9090",
		},
		Database: Database{Path: "./frontdesk.db"},
		Knowledge: Knowledge{
			FuzzyThreshold: 0.6,
			ListLimit:      100,
		},
		Requests: Requests{
			TTLSeconds:           1800,
			SweepIntervalSeconds: 10,
			SweepBackoffSeconds:  5,
		},
		Notifications: Notifications{WebhookTimeoutSeconds: 3},
		Mail: Mail{
			Port:           587,
			RetryCount:     3,
			RetryBackoffMs: 100,
			QueueSize:      1000,
		},
		Audit:    Audit{QueueSize: 1024},
		Frontend: Frontend{BrandingName: "Frontdesk", DistDir: "./dashboard/dist"},
	}
}

// Load loads the frontdesk configuration. A .env file in the working directory
// is read first (deployment convention carried over from the original stack),
// then the YAML config file if one exists, then environment variables, which
// win over everything.
//
// The config file path defaults to "./config.yaml" and can be overridden via
// the FRONTDESK_CONFIG_PATH environment variable or the configPath argument.
func Load(configPath ...string) (Config, error) {
	// Best effort: absence of a .env file is the normal case in production.
	_ = godotenv.Load()

	path := "./config.yaml"
	if env := os.Getenv("FRONTDESK_CONFIG_PATH"); env != "" {
		path = env
	}
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	config := Default()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, &config); err != nil {
			return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
		}
	case os.IsNotExist(err):
		// Environment-only deployments are supported; keep defaults.
	default:
		return config, fmt.Errorf("trying to open frontdesk config file %s: %v", path, err)
	}

	applyEnv(&config)

	if config.Knowledge.FuzzyThreshold < 0 || config.Knowledge.FuzzyThreshold > 1 {
		return config, fmt.Errorf("knowledge fuzzy threshold %v outside [0,1]", config.Knowledge.FuzzyThreshold)
	}
	if config.Requests.TTLSeconds < 0 {
		return config, fmt.Errorf("request TTL must not be negative, got %d", config.Requests.TTLSeconds)
	}
	return config, nil
}

// applyEnv overlays environment variables onto the configuration. Variable
// names follow the original deployment (SUPERVISOR_TTL_SECONDS and friends).
func applyEnv(c *Config) {
	envString("FRONTDESK_LISTEN", &c.Server.ListenAddress)
	envString("FRONTDESK_METRICS_LISTEN", &c.Server.MetricsAddress)
	envString("FRONTDESK_DB_PATH", &c.Database.Path)
	envInt("SUPERVISOR_TTL_SECONDS", &c.Requests.TTLSeconds)
	envInt("SWEEP_INTERVAL_SECONDS", &c.Requests.SweepIntervalSeconds)
	envInt("SWEEP_BACKOFF_SECONDS", &c.Requests.SweepBackoffSeconds)
	envFloat("KB_FUZZY_THRESHOLD", &c.Knowledge.FuzzyThreshold)
	envString("NOTIFICATION_WEBHOOK_URL", &c.Notifications.WebhookURL)
	envString("SUPERVISOR_EMAIL", &c.Notifications.SupervisorEmail)
	envString("SMTP_HOST", &c.Mail.Host)
	envInt("SMTP_PORT", &c.Mail.Port)
	envString("SMTP_USER", &c.Mail.User)
	envString("SMTP_PASSWORD", &c.Mail.Password)
	envString("SMTP_SENDER_ADDRESS", &c.Mail.SenderAddress)
	envString("KAFKA_AUDIT_TOPIC", &c.Audit.KafkaTopic)
	envBool("FRONTDESK_SEED", &c.Seed)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Audit.KafkaBrokers = strings.Split(v, ",")
	}
}

func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*target = parsed
		}
	}
}

func envFloat(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*target = parsed
		}
	}
}

func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*target = parsed
		}
	}
}
