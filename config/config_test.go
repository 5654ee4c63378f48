package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	main := Default(Mainnet)
	if err := Validate(main); err != nil {
		t.Fatalf("mainnet defaults invalid: %v", err)
	}
	test := Default(Testnet)
	if err := Validate(test); err != nil {
		t.Fatalf("testnet defaults invalid: %v", err)
	}
	if main.Evm.ChainID == test.Evm.ChainID {
		t.Errorf("mainnet and testnet share chain ID %d", main.Evm.ChainID)
	}
	if test.Network != Testnet {
		t.Errorf("testnet default network = %q", test.Network)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	body := `{
  "network": "testnet",
  "backend": {"api_key": "k-123", "game_id": "game-1"},
  "evm": {"pool_address": "0x5FbDB2315678afecb367f032d93F642f64180aa3"}
}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("network = %q, want testnet", cfg.Network)
	}
	// File values applied.
	if cfg.Backend.APIKey != "k-123" || cfg.Backend.GameID != "game-1" {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.Evm.PoolAddress != "0x5FbDB2315678afecb367f032d93F642f64180aa3" {
		t.Errorf("pool address = %q", cfg.Evm.PoolAddress)
	}
	// Unset values keep testnet defaults, not zero values.
	if cfg.Evm.ChainID != 80002 {
		t.Errorf("chain ID = %d, want testnet default 80002", cfg.Evm.ChainID)
	}
	if cfg.Backend.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d, want 30", cfg.Backend.TimeoutSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	cfg := Default(Testnet)
	cfg.Backend.APIKey = "secret"
	cfg.Evm.Tokens = map[string]string{"USDC": "0x41E94Eb019C0762f9Bfcf9Fb1E58725BfB0e7582"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Backend.APIKey != "secret" {
		t.Errorf("api key = %q", got.Backend.APIKey)
	}
	if got.Evm.Tokens["USDC"] != cfg.Evm.Tokens["USDC"] {
		t.Errorf("tokens = %v", got.Evm.Tokens)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HALCYON_NETWORK", "testnet")
	t.Setenv("HALCYON_BACKEND_API_KEY", "env-key")
	t.Setenv("HALCYON_EVM_CHAIN_ID", "31337")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("network = %q, want testnet", cfg.Network)
	}
	if cfg.Backend.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Backend.APIKey)
	}
	if cfg.Evm.ChainID != 31337 {
		t.Errorf("chain ID = %d, want 31337", cfg.Evm.ChainID)
	}
	// Untouched fields keep testnet defaults.
	if cfg.Solana.RPCURL != "https://api.devnet.solana.com" {
		t.Errorf("solana rpc = %q", cfg.Solana.RPCURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults ok", func(c *Config) {}, false},
		{"bad network", func(c *Config) { c.Network = "devnet" }, true},
		{"zero chain id", func(c *Config) { c.Evm.ChainID = 0 }, true},
		{"zero gas price", func(c *Config) { c.Evm.GasPriceGwei = 0 }, true},
		{"zero timeout", func(c *Config) { c.Backend.TimeoutSeconds = 0 }, true},
		{"pool address no prefix", func(c *Config) { c.Evm.PoolAddress = "5FbDB2315678afecb367f032d93F642f64180aa3" }, true},
		{"pool address short", func(c *Config) { c.Evm.PoolAddress = "0x1234" }, true},
		{"pool address ok", func(c *Config) { c.Evm.PoolAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3" }, false},
		{"token address bad", func(c *Config) { c.Evm.Tokens = map[string]string{"X": "0xzz"} }, true},
		{"solana program bad base58", func(c *Config) { c.Solana.PoolProgram = "0OIl" }, true},
		{"solana program ok", func(c *Config) { c.Solana.PoolProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA" }, false},
		{"bad commitment", func(c *Config) { c.Solana.Commitment = "instant" }, true},
		{"bad storage backend", func(c *Config) { c.Storage.Backend = "sqlite" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(Mainnet)
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWalletDir(t *testing.T) {
	cfg := Default(Mainnet)
	cfg.DataDir = "/data"
	want := filepath.Join("/data", "mainnet", "wallet")
	if got := cfg.WalletDir(); got != want {
		t.Errorf("WalletDir() = %q, want %q", got, want)
	}

	cfg.Storage.Dir = "/elsewhere/kv"
	if got := cfg.WalletDir(); got != "/elsewhere/kv" {
		t.Errorf("WalletDir() override = %q", got)
	}
}
