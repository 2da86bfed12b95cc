package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/vaultnet/vaultd/logx"
)

func loadYAML(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode YAML %s: %w", path, err)
	}
	return nil
}

// LoadNodeConfig reads and parses the node YAML config
func LoadNodeConfig(path string) (*NodeConfig, error) {
	var cfg NodeConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("listen_addr cannot be empty")
	}
	if cfg.ProgramID == "" {
		return nil, fmt.Errorf("program_id cannot be empty")
	}
	logx.Info("CONFIG", fmt.Sprintf("Loaded node config: listen=%s, backend=%s, genesis_accounts=%d", cfg.ListenAddr, cfg.Storage.Backend, len(cfg.Genesis.Accounts)))
	return &cfg, nil
}

func LoadBalanceConfig(path string) (*BalanceConfig, error) {
	var cfg BalanceConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	return &cfg, nil
}

func LoadTransferConfig(path string) (*TransferConfig, error) {
	var cfg TransferConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if cfg.ProgramID == "" {
		return nil, fmt.Errorf("program_id cannot be empty")
	}
	if len(cfg.Wallets) != len(cfg.Recipients) {
		return nil, fmt.Errorf("wallets and recipients must pair up: %d vs %d", len(cfg.Wallets), len(cfg.Recipients))
	}
	return &cfg, nil
}

func LoadWatchConfig(path string) (*WatchConfig, error) {
	var cfg WatchConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if cfg.ProgramID == "" {
		return nil, fmt.Errorf("program_id cannot be empty")
	}
	if cfg.PoolAddress == "" || cfg.RecipientAddress == "" {
		return nil, fmt.Errorf("pool_address and recipient_address cannot be empty")
	}
	return &cfg, nil
}

// RetryConfig bounds client-side retries of transient network failures.
type RetryConfig struct {
	MaxAttempts int `ini:"max_attempts"`
	DelayMs     int `ini:"delay_ms"`
}

// DefaultRetryConfig: 5 attempts, 2s fixed delay between them.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{MaxAttempts: 5, DelayMs: 2000}
}

// LoadRetryConfig reads retry tuning from an .ini file; an empty path yields
// the defaults.
func LoadRetryConfig(path string) (*RetryConfig, error) {
	retryCfg := DefaultRetryConfig()
	if path == "" {
		return retryCfg, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Section("retry").MapTo(retryCfg); err != nil {
		return nil, err
	}
	if retryCfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max_attempts must be positive")
	}
	return retryCfg, nil
}

// LoadEd25519PrivKey loads an Ed25519 private key from a file (expects hex encoding)
func LoadEd25519PrivKey(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseEd25519PrivKey(string(data))
}

// ParseEd25519PrivKey parses a hex-encoded Ed25519 private key or seed.
func ParseEd25519PrivKey(raw string) (ed25519.PrivateKey, error) {
	key, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("private key is not valid hex: %w", err)
	}
	switch len(key) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(key), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(key), nil
	default:
		return nil, fmt.Errorf("invalid private key length: %d", len(key))
	}
}
