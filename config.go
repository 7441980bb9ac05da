package runlet

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries the deployment-level settings of the engine. Zero values
// select the in-process development setup: memory stores, in-memory step
// journals and the in-process broadcaster.
type Config struct {
	// RedisAddr switches the broadcaster to redis Pub/Sub when set.
	RedisAddr string `yaml:"redisAddr,omitempty"`

	// JournalURL is the afs base URL for durable step journals (file://,
	// mem://, s3://). Empty keeps journals in process memory.
	JournalURL string `yaml:"journalURL,omitempty"`

	// CredentialURL is the afs base URL under which encrypted credential
	// values are stored.
	CredentialURL string `yaml:"credentialURL,omitempty"`

	// CredentialKey is the scy cipher key URL; empty picks the default.
	CredentialKey string `yaml:"credentialKey,omitempty"`

	// MaxAttempts bounds whole-run retries of retriable failures. Zero or
	// one runs a single attempt; production deployments opt into retries
	// with higher values.
	MaxAttempts int `yaml:"maxAttempts,omitempty"`

	// OpenAIModel and DeepSeekModel override the provider default models.
	OpenAIModel   string `yaml:"openAIModel,omitempty"`
	DeepSeekModel string `yaml:"deepSeekModel,omitempty"`

	// BroadcastBuffer is the per-subscriber queue depth of the in-process
	// broadcaster.
	BroadcastBuffer int `yaml:"broadcastBuffer,omitempty"`
}

// DefaultConfig returns the development configuration.
func DefaultConfig() *Config {
	return &Config{
		CredentialURL: "mem://localhost/runlet/credentials",
		MaxAttempts:   1,
	}
}

// Validate reports the first configuration problem, if any.
func (c *Config) Validate() error {
	if c.MaxAttempts < 0 {
		return fmt.Errorf("maxAttempts must not be negative: %d", c.MaxAttempts)
	}
	if c.BroadcastBuffer < 0 {
		return fmt.Errorf("broadcastBuffer must not be negative: %d", c.BroadcastBuffer)
	}
	return nil
}

// LoadConfig reads a YAML config file and overlays environment variables. A
// .env file next to the process, when present, is loaded first; a missing
// file path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()
	config := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err = yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if value := os.Getenv("RUNLET_REDIS_ADDR"); value != "" {
		c.RedisAddr = value
	}
	if value := os.Getenv("RUNLET_JOURNAL_URL"); value != "" {
		c.JournalURL = value
	}
	if value := os.Getenv("RUNLET_CREDENTIAL_URL"); value != "" {
		c.CredentialURL = value
	}
	if value := os.Getenv("RUNLET_CREDENTIAL_KEY"); value != "" {
		c.CredentialKey = value
	}
	if value := os.Getenv("RUNLET_MAX_ATTEMPTS"); value != "" {
		if attempts, err := strconv.Atoi(value); err == nil {
			c.MaxAttempts = attempts
		}
	}
	if value := os.Getenv("RUNLET_OPENAI_MODEL"); value != "" {
		c.OpenAIModel = value
	}
	if value := os.Getenv("RUNLET_DEEPSEEK_MODEL"); value != "" {
		c.DeepSeekModel = value
	}
}
