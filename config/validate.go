package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Validate checks SDK config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend.timeout_seconds must be positive")
	}
	if cfg.Evm.ChainID == 0 {
		return fmt.Errorf("evm.chain_id must be non-zero")
	}
	if cfg.Evm.GasPriceGwei == 0 {
		return fmt.Errorf("evm.gas_price_gwei must be non-zero")
	}

	if err := validateEvmAddress(cfg.Evm.PoolAddress, "evm.pool_address"); err != nil {
		return err
	}
	if err := validateEvmAddress(cfg.Evm.NFTAddress, "evm.nft_address"); err != nil {
		return err
	}
	for sym, addr := range cfg.Evm.Tokens {
		if err := validateEvmAddress(addr, "evm.tokens["+sym+"]"); err != nil {
			return err
		}
	}

	if err := validateSolanaKey(cfg.Solana.PoolProgram, "solana.pool_program"); err != nil {
		return err
	}
	switch cfg.Solana.Commitment {
	case "", "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("solana.commitment must be processed, confirmed, or finalized")
	}

	switch cfg.Storage.Backend {
	case "", "memory", "badger":
	default:
		return fmt.Errorf("storage.backend must be memory or badger")
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}

	return nil
}

// validateEvmAddress checks a 0x-prefixed 20-byte hex address.
// Empty is allowed: contract addresses are only required by the flows
// that use them.
func validateEvmAddress(addr, field string) error {
	if addr == "" {
		return nil
	}
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return fmt.Errorf("%s must start with 0x", field)
	}
	b, err := hex.DecodeString(addr[2:])
	if err != nil || len(b) != 20 {
		return fmt.Errorf("%s must be a 20-byte hex address", field)
	}
	return nil
}

// validateSolanaKey checks a base58-encoded 32-byte public key.
func validateSolanaKey(key, field string) error {
	if key == "" {
		return nil
	}
	b, err := base58.Decode(key)
	if err != nil || len(b) != 32 {
		return fmt.Errorf("%s must be a base58 32-byte public key", field)
	}
	return nil
}
