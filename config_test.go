package runlet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
redisAddr: localhost:6379
journalURL: file:///var/lib/runlet/journals
maxAttempts: 5
deepSeekModel: deepseek-reasoner
`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, "file:///var/lib/runlet/journals", config.JournalURL)
	assert.Equal(t, 5, config.MaxAttempts)
	assert.Equal(t, "deepseek-reasoner", config.DeepSeekModel)
	// Untouched fields keep their defaults.
	assert.Equal(t, "mem://localhost/runlet/credentials", config.CredentialURL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("RUNLET_REDIS_ADDR", "redis:6380")
	t.Setenv("RUNLET_MAX_ATTEMPTS", "2")

	config, err := LoadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, "redis:6380", config.RedisAddr)
	assert.Equal(t, 2, config.MaxAttempts)
}

func TestDefaultConfig_SingleAttempt(t *testing.T) {
	assert.Equal(t, 1, DefaultConfig().MaxAttempts)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxAttempts: -1}).Validate())
	assert.Error(t, (&Config{BroadcastBuffer: -1}).Validate())
}
