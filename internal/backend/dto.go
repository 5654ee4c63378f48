package backend

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
	"github.com/halcyon-games/wallet-core/pkg/soltx"
)

// TransactionType classifies a platform transaction.
type TransactionType string

const (
	TransactionTypeToken TransactionType = "Token"
	TransactionTypeNFT   TransactionType = "NFT"
)

// Direction is where a platform transaction moves value.
type Direction string

const (
	DirectionUsersCryptoWallet Direction = "UsersCryptoWallet"
	DirectionGame              Direction = "Game"
	DirectionExternalWallet    Direction = "ExternalWalletAddress"
)

// WalletTransactionRequest is the wallet/transaction request body. Posted
// without a transaction hash it asks for a withdrawal authorization; with
// one it records a submitted transaction.
type WalletTransactionRequest struct {
	ChainID                uint64          `json:"chain_id"`
	TransactionType        TransactionType `json:"transaction_type"`
	Direction              Direction       `json:"direction"`
	TransactionHash        string          `json:"transaction_hash,omitempty"`
	CurrencyID             string          `json:"currency_id,omitempty"`
	SkinID                 string          `json:"skin_id,omitempty"`
	Amount                 int64           `json:"amount,omitempty"`
	ConnectedWalletAddress string          `json:"connected_wallet_address,omitempty"`
}

// WithdrawalSignatureResult is a backend-issued EVM withdrawal
// authorization. Amount and nonce arrive as decimal strings.
type WithdrawalSignatureResult struct {
	ContractAddress string `json:"contract_address"`
	TokenAddress    string `json:"token_address"`
	WalletAddress   string `json:"wallet_address"`
	Amount          string `json:"amount"`
	Nonce           string `json:"nonce"`
	Signature       string `json:"signature"`
	TokenID         string `json:"token_id,omitempty"`
	UserID          string `json:"user_id,omitempty"`
}

// PoolTransactionRequest is the request body for the solana/* endpoints.
// The backend expects every field on the wire, so optionals are pointers
// that serialize as null when unset.
type PoolTransactionRequest struct {
	TransactionType TransactionType `json:"transaction_type"`
	Direction       Direction       `json:"direction"`
	TransactionHash *string         `json:"transaction_hash"`
	CurrencyID      *string         `json:"currency_id"`
	Amount          *uint64         `json:"amount"`
	WalletAddress   string          `json:"wallet_address"`
}

// WithdrawPayload is the backend's pool withdrawal authorization. The
// ed25519 public key, message, and signature fields are hex encoded; amount
// and nonce are decimal strings.
type WithdrawPayload struct {
	Mint             string `json:"Mint"`
	WalletAddress    string `json:"WalletAddress"`
	Amount           string `json:"Amount"`
	Nonce            string `json:"Nonce"`
	ProgramID        string `json:"ProgramID"`
	SignatureHex     string `json:"SignatureHex"`
	SigIxIndex       int    `json:"SigIxIndex"`
	Ed25519PublicKey string `json:"Ed25519PublicKey"`
	Ed25519Message   string `json:"Ed25519Message"`
	UserID           string `json:"UserID"`
}

// ToWithdrawRequest decodes the payload's string and hex fields into the
// instruction builder's withdraw request.
func (p *WithdrawPayload) ToWithdrawRequest() (*soltx.WithdrawRequest, error) {
	mint, err := solana.PublicKeyFromBase58(p.Mint)
	if err != nil {
		return nil, fmt.Errorf("parse mint: %v: %w", err, sdkerr.ErrInvalidInput)
	}
	to, err := solana.PublicKeyFromBase58(p.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("parse wallet address: %v: %w", err, sdkerr.ErrInvalidInput)
	}
	amount, err := strconv.ParseUint(p.Amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %v: %w", p.Amount, err, sdkerr.ErrInvalidInput)
	}
	nonce, err := strconv.ParseUint(p.Nonce, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse nonce %q: %v: %w", p.Nonce, err, sdkerr.ErrInvalidInput)
	}

	pubkeyBytes, err := hex.DecodeString(p.Ed25519PublicKey)
	if err != nil {
		return nil, fmt.Errorf("decode ed25519 public key: %v: %w", err, sdkerr.ErrInvalidInput)
	}
	if len(pubkeyBytes) != solana.PublicKeyLength {
		return nil, fmt.Errorf("ed25519 public key is %d bytes, want %d: %w",
			len(pubkeyBytes), solana.PublicKeyLength, sdkerr.ErrInvalidInput)
	}
	message, err := hex.DecodeString(p.Ed25519Message)
	if err != nil {
		return nil, fmt.Errorf("decode ed25519 message: %v: %w", err, sdkerr.ErrInvalidInput)
	}
	signature, err := hex.DecodeString(p.SignatureHex)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %v: %w", err, sdkerr.ErrInvalidInput)
	}

	return &soltx.WithdrawRequest{
		Mint:       mint,
		To:         to,
		Amount:     amount,
		Nonce:      nonce,
		UserID:     p.UserID,
		PublicKey:  solana.PublicKeyFromBytes(pubkeyBytes),
		Message:    message,
		Signature:  signature,
		SigIxIndex: uint8(p.SigIxIndex),
	}, nil
}
