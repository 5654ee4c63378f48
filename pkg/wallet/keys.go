package wallet

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// EvmKey is a secp256k1 signing key for EVM-family chains.
type EvmKey struct {
	key *secp256k1.PrivateKey
}

// NewEvmKey creates an EvmKey from a 32-byte secret scalar.
func NewEvmKey(b []byte) (*EvmKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d: %w", len(b), sdkerr.ErrInvalidInput)
	}
	return &EvmKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Address returns the EIP-55 checksummed address: the low 20 bytes of
// Keccak-256 over the uncompressed public key minus its prefix byte.
func (k *EvmKey) Address() string {
	pub := k.key.PubKey().ToECDSA()
	return ethcrypto.PubkeyToAddress(*pub).Hex()
}

// PrivateKeyHex returns the 0x-prefixed hex encoding of the secret scalar.
func (k *EvmKey) PrivateKeyHex() string {
	return "0x" + hex.EncodeToString(k.key.Serialize())
}

// ToECDSA returns the key in the form go-ethereum's transaction signing
// expects.
func (k *EvmKey) ToECDSA() *ecdsa.PrivateKey {
	priv := k.key.ToECDSA()
	// go-ethereum's signing compares the curve against its own S256
	// instance, which is a distinct type from decred's under CGO_ENABLED=0.
	priv.Curve = ethcrypto.S256()
	return priv
}

// Zero securely zeroes the private key memory.
func (k *EvmKey) Zero() {
	k.key.Zero()
}

// SolanaKey is an Ed25519 signing key for Solana-like chains.
type SolanaKey struct {
	key ed25519.PrivateKey
}

// NewSolanaKey creates a SolanaKey from either a 32-byte seed or a
// 64-byte expanded private key.
func NewSolanaKey(b []byte) (*SolanaKey, error) {
	switch len(b) {
	case ed25519.SeedSize:
		return &SolanaKey{key: ed25519.NewKeyFromSeed(b)}, nil
	case ed25519.PrivateKeySize:
		// An expanded key embeds its public half; reject mismatches.
		fromSeed := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
		if subtle.ConstantTimeCompare(fromSeed[ed25519.SeedSize:], b[ed25519.SeedSize:]) != 1 {
			return nil, fmt.Errorf("public key half does not match seed: %w", sdkerr.ErrInvalidInput)
		}
		key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
		copy(key, b)
		return &SolanaKey{key: key}, nil
	default:
		return nil, fmt.Errorf("private key must be 32 or 64 bytes, got %d: %w", len(b), sdkerr.ErrInvalidInput)
	}
}

// Address returns the base58 encoding of the Ed25519 public key.
func (k *SolanaKey) Address() string {
	pub := k.key.Public().(ed25519.PublicKey)
	return base58.Encode(pub)
}

// PrivateKeyBase58 returns the base58 encoding of the 64-byte expanded key.
func (k *SolanaKey) PrivateKeyBase58() string {
	return base58.Encode(k.key)
}

// Private returns the expanded Ed25519 private key for signing.
func (k *SolanaKey) Private() ed25519.PrivateKey {
	return k.key
}

// Zero securely zeroes the private key memory.
func (k *SolanaKey) Zero() {
	ZeroBytes(k.key)
}

// DeriveEvmKey derives the EVM signing key at m/44'/60'/0'/0/0.
// Identical seeds always produce identical keys.
func DeriveEvmKey(seed []byte) (*EvmKey, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("evm derivation: %v: %w", err, sdkerr.ErrWallet)
	}
	defer master.Zero()

	child, err := master.DeriveEvmPath()
	if err != nil {
		return nil, fmt.Errorf("evm derivation: %v: %w", err, sdkerr.ErrWallet)
	}
	defer child.Zero()

	return NewEvmKey(child.PrivateKeyBytes())
}

// DeriveSolanaKey derives the Ed25519 signing key at m/44'/501'/0'/0'.
// The 32-byte derived value is used directly as the Ed25519 seed.
// Identical seeds always produce identical keys.
func DeriveSolanaKey(seed []byte) (*SolanaKey, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("solana derivation: %v: %w", err, sdkerr.ErrWallet)
	}
	defer master.Zero()

	child, err := master.DeriveSolanaPath()
	if err != nil {
		return nil, fmt.Errorf("solana derivation: %v: %w", err, sdkerr.ErrWallet)
	}
	defer child.Zero()

	return NewSolanaKey(child.PrivateKeyBytes())
}
