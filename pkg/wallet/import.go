package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// FromMnemonic derives wallet material for the given network from a
// seed phrase. The returned Info carries the address and encoded
// private key for that network.
func FromMnemonic(mnemonic string, network Network) (Info, error) {
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return Info{}, err
	}
	defer ZeroBytes(seed)

	return fromSeed(seed, network)
}

// fromSeed derives the network's keypair from a 64-byte seed.
func fromSeed(seed []byte, network Network) (Info, error) {
	switch network {
	case NetworkEvm:
		key, err := DeriveEvmKey(seed)
		if err != nil {
			return Info{}, err
		}
		defer key.Zero()
		return Info{
			Address:    key.Address(),
			PrivateKey: key.PrivateKeyHex(),
			Network:    NetworkEvm,
		}, nil

	case NetworkSolanaLike:
		key, err := DeriveSolanaKey(seed)
		if err != nil {
			return Info{}, err
		}
		defer key.Zero()
		return Info{
			Address:    key.Address(),
			PrivateKey: key.PrivateKeyBase58(),
			Network:    NetworkSolanaLike,
		}, nil

	default:
		return Info{}, fmt.Errorf("unknown network %q: %w", network, sdkerr.ErrInvalidInput)
	}
}

// decodeSolanaKey decodes a Solana-like private key, trying base58
// first and falling back to hex for a 32- or 64-byte key.
func decodeSolanaKey(raw string) ([]byte, error) {
	if b, err := base58.Decode(raw); err == nil {
		return b, nil
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if len(trimmed) == 64 || len(trimmed) == 128 {
		if b, err := hex.DecodeString(trimmed); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("private key is not base58 or hex: %w", sdkerr.ErrInvalidInput)
}

// FromPrivateKey parses a raw private key in the network's conventional
// encoding and recomputes the public key and address. EVM keys are hex
// with an optional 0x prefix; Solana-like keys are base58 of either the
// 32-byte seed or the 64-byte expanded key.
func FromPrivateKey(raw string, network Network) (Info, error) {
	switch network {
	case NetworkEvm:
		trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
		b, err := hex.DecodeString(trimmed)
		if err != nil {
			return Info{}, fmt.Errorf("private key is not hex: %w", sdkerr.ErrInvalidInput)
		}
		defer ZeroBytes(b)
		key, err := NewEvmKey(b)
		if err != nil {
			return Info{}, err
		}
		defer key.Zero()
		return Info{
			Address:    key.Address(),
			PrivateKey: key.PrivateKeyHex(),
			Network:    NetworkEvm,
		}, nil

	case NetworkSolanaLike:
		b, err := decodeSolanaKey(raw)
		if err != nil {
			return Info{}, err
		}
		defer ZeroBytes(b)
		key, err := NewSolanaKey(b)
		if err != nil {
			return Info{}, err
		}
		defer key.Zero()
		return Info{
			Address:    key.Address(),
			PrivateKey: key.PrivateKeyBase58(),
			Network:    NetworkSolanaLike,
		}, nil

	default:
		return Info{}, fmt.Errorf("unknown network %q: %w", network, sdkerr.ErrInvalidInput)
	}
}
