package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/corebank/txledger/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   logger.Config   `yaml:"logging"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type LedgerConfig struct {
	// BalanceShards controls the granularity of per-account locking in the
	// in-memory store. More shards means less lock contention between
	// unrelated accounts.
	BalanceShards int `yaml:"balance_shards"`
}

type WebSocketConfig struct {
	ReadBufferSize  int  `yaml:"read_buffer_size"`
	WriteBufferSize int  `yaml:"write_buffer_size"`
	CheckOrigin     bool `yaml:"check_origin"`
}

func Load() (*Config, error) {
	// .env is optional; the yaml file is the authoritative source.
	_ = godotenv.Load()

	path := os.Getenv("TXLEDGER_CONFIG")
	if path == "" {
		path = "./config.yaml"
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Ledger.BalanceShards <= 0 {
		c.Ledger.BalanceShards = 32
	}
	if c.WebSocket.ReadBufferSize <= 0 {
		c.WebSocket.ReadBufferSize = 1024
	}
	if c.WebSocket.WriteBufferSize <= 0 {
		c.WebSocket.WriteBufferSize = 1024
	}
}
