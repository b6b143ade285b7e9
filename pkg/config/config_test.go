package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.ListenAddress)
	assert.Equal(t, 1800, cfg.Requests.TTLSeconds)
	assert.InDelta(t, 0.6, cfg.Knowledge.FuzzyThreshold, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.SweepInterval())
	assert.Equal(t, 5*time.Second, cfg.SweepBackoff())
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout())
	assert.Equal(t, 30*time.Minute, cfg.TTL())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  listenAddress: ":9999"
requests:
  ttlSeconds: 60
knowledge:
  fuzzyThreshold: 0.8
notifications:
  webhookURL: "http://hooks.local/notify"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.ListenAddress)
	assert.Equal(t, 60, cfg.Requests.TTLSeconds)
	assert.InDelta(t, 0.8, cfg.Knowledge.FuzzyThreshold, 1e-9)
	assert.Equal(t, "http://hooks.local/notify", cfg.Notifications.WebhookURL)
	// Untouched sections keep defaults.
	assert.Equal(t, "./frontdesk.db", cfg.Database.Path)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requests:\n  ttlSeconds: 60\n"), 0o600))

	t.Setenv("SUPERVISOR_TTL_SECONDS", "120")
	t.Setenv("KB_FUZZY_THRESHOLD", "0.75")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Requests.TTLSeconds)
	assert.InDelta(t, 0.75, cfg.Knowledge.FuzzyThreshold, 1e-9)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Audit.KafkaBrokers)
}

func TestLoadRejectsThresholdOutsideRange(t *testing.T) {
	t.Setenv("KB_FUZZY_THRESHOLD", "1.5")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
