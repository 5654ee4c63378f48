// Package config handles SDK configuration.
//
// A Config carries everything the SDK needs to reach its three boundaries:
//   - Game backend API: base URL and credentials
//   - EVM chain: JSON-RPC endpoint, chain ID, contract addresses
//   - Solana chain: JSON-RPC endpoint, pool program
//
// Values come from Default, a JSON file (Load), or the environment (FromEnv).
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// =============================================================================
// SDK Configuration
// =============================================================================

// Config holds runtime configuration for the wallet SDK.
type Config struct {
	// Core
	Network NetworkType `json:"network"`
	DataDir string      `json:"datadir"`

	// Game backend API
	Backend BackendConfig `json:"backend"`

	// EVM chain
	Evm EvmConfig `json:"evm"`

	// Solana chain
	Solana SolanaConfig `json:"solana"`

	// Key-value storage
	Storage StorageConfig `json:"storage"`

	// Logging
	Log LogConfig `json:"log"`
}

// BackendConfig holds game backend API settings.
type BackendConfig struct {
	BaseURL        string `json:"base_url" envconfig:"BASE_URL"`
	APIKey         string `json:"api_key" envconfig:"API_KEY"`
	GameID         string `json:"game_id" envconfig:"GAME_ID"`
	TimeoutSeconds int    `json:"timeout_seconds" envconfig:"TIMEOUT_SECONDS"`
}

// EvmConfig holds EVM chain settings.
type EvmConfig struct {
	RPCURL      string `json:"rpc_url" envconfig:"RPC_URL"`
	ChainID     uint64 `json:"chain_id" envconfig:"CHAIN_ID"`
	PoolAddress string `json:"pool_address" envconfig:"POOL_ADDRESS"` // platform pool contract
	NFTAddress  string `json:"nft_address" envconfig:"NFT_ADDRESS"`   // ERC-1155 game asset contract

	// Tokens maps token symbols to ERC-20 contract addresses.
	Tokens map[string]string `json:"tokens" envconfig:"TOKENS"`

	// GasPriceGwei is the legacy gas price used for every transaction.
	GasPriceGwei uint64 `json:"gas_price_gwei" envconfig:"GAS_PRICE_GWEI"`
}

// SolanaConfig holds Solana chain settings.
type SolanaConfig struct {
	RPCURL      string `json:"rpc_url" envconfig:"RPC_URL"`
	PoolProgram string `json:"pool_program" envconfig:"POOL_PROGRAM"` // pool program ID (base58)
	Commitment  string `json:"commitment" envconfig:"COMMITMENT"`    // processed, confirmed, or finalized
}

// StorageConfig holds key-value store settings.
type StorageConfig struct {
	Backend string `json:"backend" envconfig:"BACKEND"` // memory or badger
	Dir     string `json:"dir" envconfig:"DIR"`         // badger directory (empty = WalletDir)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level" envconfig:"LEVEL"`
	File  string `json:"file" envconfig:"FILE"`
	JSON  bool   `json:"json" envconfig:"JSON"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.halcyon
//	macOS:   ~/Library/Application Support/Halcyon
//	Windows: %APPDATA%\Halcyon
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".halcyon"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Halcyon")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Halcyon")
		}
		return filepath.Join(home, "AppData", "Roaming", "Halcyon")
	default:
		return filepath.Join(home, ".halcyon")
	}
}

// WalletDir returns the wallet storage directory.
// Storage.Dir overrides the derived default when set.
func (c *Config) WalletDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return filepath.Join(c.DataDir, string(c.Network), "wallet")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "wallet.json")
}
