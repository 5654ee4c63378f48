package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"
)

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeEvm is the registered coin type for Ethereum-family chains.
	CoinTypeEvm = bip32.FirstHardenedChild + 60

	// CoinTypeSolana is the registered coin type for Solana.
	CoinTypeSolana = bip32.FirstHardenedChild + 501
)

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveEvmPath derives the key at m/44'/60'/0'/0/0, the first external
// address of the first Ethereum account.
func (k *HDKey) DeriveEvmPath() (*HDKey, error) {
	return k.DerivePath(
		PurposeBIP44,
		CoinTypeEvm,
		bip32.FirstHardenedChild,
		0,
		0,
	)
}

// DeriveSolanaPath derives the key at m/44'/501'/0'/0' (all hardened).
// The 32-byte child key is used directly as an Ed25519 signing seed.
func (k *HDKey) DeriveSolanaPath() (*HDKey, error) {
	return k.DerivePath(
		PurposeBIP44,
		CoinTypeSolana,
		bip32.FirstHardenedChild,
		bip32.FirstHardenedChild,
	)
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	pub := k.key.PublicKey()
	return pub.Key
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Zero scrubs the key and chain code.
func (k *HDKey) Zero() {
	ZeroBytes(k.key.Key)
	ZeroBytes(k.key.ChainCode)
}
