// Package wallet implements HD wallet functionality for the game SDK:
// mnemonic generation, key derivation for EVM and Solana-like chains,
// and encrypted persistence of wallet records.
package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// Supported mnemonic word counts and their entropy sizes.
const (
	Words12 = 12 // 128 bits of entropy
	Words24 = 24 // 256 bits of entropy
)

// GenerateMnemonic creates a new BIP-39 mnemonic with 12 or 24 words.
func GenerateMnemonic(wordCount int) (string, error) {
	var bits int
	switch wordCount {
	case Words12:
		bits = 128
	case Words24:
		bits = 256
	default:
		return "", fmt.Errorf("word count must be 12 or 24, got %d: %w", wordCount, sdkerr.ErrInvalidInput)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic lowercases a phrase and collapses all whitespace
// to single spaces.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// ValidateMnemonic checks a mnemonic per BIP-39 (valid words, valid
// checksum) and additionally requires 12 or 24 words. BIP-39 allows
// 15/18/21-word phrases, but wallets here are only ever generated at
// 12 or 24 words, so anything else is treated as a typo. The phrase is
// normalized first.
func ValidateMnemonic(mnemonic string) error {
	normalized := NormalizeMnemonic(mnemonic)
	if n := len(strings.Fields(normalized)); n != Words12 && n != Words24 {
		return fmt.Errorf("mnemonic must have 12 or 24 words, got %d: %w", n, sdkerr.ErrInvalidInput)
	}
	if !bip39.IsMnemonicValid(normalized) {
		return fmt.Errorf("invalid mnemonic: %w", sdkerr.ErrInvalidInput)
	}
	return nil
}
