package wallet

import (
	"errors"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// Golden values for the standard test phrase with an empty passphrase.
const (
	goldenEvmAddress    = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	goldenEvmPrivateKey = "0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727"
	goldenSolAddress    = "4nFZgXtZAEwbfA56LRVRdsDGNeW3U55gr5hL9c5E5de5"
	goldenSolPrivateKey = "2G1Qq3CrYeXMZry3HELRcdeSzJqYrnmGNBGDXP9obniv5EdJVLNFJgrKUBVPJUD2b4g15cUnxbnnCHx5U83LTSXP"
)

func TestDeriveEvmKey(t *testing.T) {
	key, err := DeriveEvmKey(testSeed(t))
	if err != nil {
		t.Fatalf("DeriveEvmKey() error: %v", err)
	}

	if got := key.Address(); got != goldenEvmAddress {
		t.Errorf("address = %s, want %s", got, goldenEvmAddress)
	}
	if got := key.PrivateKeyHex(); got != goldenEvmPrivateKey {
		t.Errorf("private key = %s, want %s", got, goldenEvmPrivateKey)
	}
}

func TestDeriveSolanaKey(t *testing.T) {
	key, err := DeriveSolanaKey(testSeed(t))
	if err != nil {
		t.Fatalf("DeriveSolanaKey() error: %v", err)
	}

	if got := key.Address(); got != goldenSolAddress {
		t.Errorf("address = %s, want %s", got, goldenSolAddress)
	}
	if got := key.PrivateKeyBase58(); got != goldenSolPrivateKey {
		t.Errorf("private key = %s, want %s", got, goldenSolPrivateKey)
	}
}

func TestDeriveKeys_Deterministic(t *testing.T) {
	seed := testSeed(t)

	e1, err := DeriveEvmKey(seed)
	if err != nil {
		t.Fatalf("DeriveEvmKey() error: %v", err)
	}
	e2, err := DeriveEvmKey(seed)
	if err != nil {
		t.Fatalf("DeriveEvmKey() error: %v", err)
	}
	if e1.Address() != e2.Address() {
		t.Error("same seed produced different EVM addresses")
	}

	s1, err := DeriveSolanaKey(seed)
	if err != nil {
		t.Fatalf("DeriveSolanaKey() error: %v", err)
	}
	s2, err := DeriveSolanaKey(seed)
	if err != nil {
		t.Fatalf("DeriveSolanaKey() error: %v", err)
	}
	if s1.Address() != s2.Address() {
		t.Error("same seed produced different Solana addresses")
	}
}

func TestNewEvmKey_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := NewEvmKey(make([]byte, n))
		if !errors.Is(err, sdkerr.ErrInvalidInput) {
			t.Errorf("NewEvmKey(%d bytes) error = %v, want ErrInvalidInput", n, err)
		}
	}
}

func TestNewSolanaKey(t *testing.T) {
	full, err := base58.Decode(goldenSolPrivateKey)
	if err != nil {
		t.Fatalf("decode golden key: %v", err)
	}
	if len(full) != 64 {
		t.Fatalf("golden key length = %d, want 64", len(full))
	}

	t.Run("from 32-byte seed", func(t *testing.T) {
		key, err := NewSolanaKey(full[:32])
		if err != nil {
			t.Fatalf("NewSolanaKey() error: %v", err)
		}
		if key.Address() != goldenSolAddress {
			t.Errorf("address = %s, want %s", key.Address(), goldenSolAddress)
		}
	})

	t.Run("from 64-byte expanded key", func(t *testing.T) {
		key, err := NewSolanaKey(full)
		if err != nil {
			t.Fatalf("NewSolanaKey() error: %v", err)
		}
		if key.Address() != goldenSolAddress {
			t.Errorf("address = %s, want %s", key.Address(), goldenSolAddress)
		}
	})

	t.Run("mismatched public half", func(t *testing.T) {
		bad := make([]byte, 64)
		copy(bad, full)
		bad[63] ^= 0xFF
		if _, err := NewSolanaKey(bad); !errors.Is(err, sdkerr.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("bad length", func(t *testing.T) {
		if _, err := NewSolanaKey(make([]byte, 48)); !errors.Is(err, sdkerr.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestEvmKeyZero(t *testing.T) {
	key, err := DeriveEvmKey(testSeed(t))
	if err != nil {
		t.Fatalf("DeriveEvmKey() error: %v", err)
	}
	key.Zero()
	if got := key.PrivateKeyHex(); got == goldenEvmPrivateKey {
		t.Error("private key still readable after Zero")
	}
}
