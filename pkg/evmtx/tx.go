package evmtx

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
	"github.com/halcyon-games/wallet-core/pkg/wallet"
)

// Params assembles the fields of a legacy transaction before signing.
type Params struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
}

// Signer signs EVM transactions. Implementations are selected at
// startup: in-memory keys on native platforms, delegated signing where
// the runtime forbids raw key access.
type Signer interface {
	// Address returns the sender address.
	Address() common.Address
	// SignTx returns a signed copy of the transaction.
	SignTx(tx *types.Transaction) (*types.Transaction, error)
}

// KeySigner signs with an in-memory private key using EIP-155
// domain-separated signatures.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	chainID *big.Int
}

// NewKeySigner wraps a derived wallet key for the given chain.
func NewKeySigner(key *wallet.EvmKey, chainID uint64) *KeySigner {
	return &KeySigner{
		key:     key.ToECDSA(),
		chainID: new(big.Int).SetUint64(chainID),
	}
}

// Address returns the sender address.
func (s *KeySigner) Address() common.Address {
	return ethcrypto.PubkeyToAddress(s.key.PublicKey)
}

// SignTx signs the transaction with the in-memory key.
func (s *KeySigner) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.NewEIP155Signer(s.chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %v: %w", err, sdkerr.ErrWallet)
	}
	return signed, nil
}

// UnavailableSigner is the Signer for platforms where raw key signing
// is not permitted (e.g. browser-embedded runtimes). Every SignTx call
// fails with ErrPlatformNotSupported.
type UnavailableSigner struct {
	Addr common.Address
}

// Address returns the sender address.
func (s UnavailableSigner) Address() common.Address {
	return s.Addr
}

// SignTx always fails.
func (s UnavailableSigner) SignTx(*types.Transaction) (*types.Transaction, error) {
	return nil, fmt.Errorf("raw signing unavailable on this platform: %w", sdkerr.ErrPlatformNotSupported)
}

// BuildAndSign assembles a legacy transaction from p, signs it, and
// returns the serialized raw transaction ready for broadcast along
// with its hash.
func BuildAndSign(p Params, signer Signer) ([]byte, common.Hash, error) {
	if p.GasPrice == nil || p.GasPrice.Sign() <= 0 {
		return nil, common.Hash{}, fmt.Errorf("gas price must be positive: %w", sdkerr.ErrInvalidInput)
	}
	if p.Gas == 0 {
		return nil, common.Hash{}, fmt.Errorf("gas limit must be non-zero: %w", sdkerr.ErrInvalidInput)
	}

	value := p.Value
	if value == nil {
		value = new(big.Int)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    p.Nonce,
		GasPrice: p.GasPrice,
		Gas:      p.Gas,
		To:       &p.To,
		Value:    value,
		Data:     p.Data,
	})

	signed, err := signer.SignTx(tx)
	if err != nil {
		return nil, common.Hash{}, err
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("serialize tx: %v: %w", err, sdkerr.ErrSerialization)
	}
	return raw, signed.Hash(), nil
}
