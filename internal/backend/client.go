// Package backend talks to the game platform's backend API.
//
// The backend originates withdrawal authorizations and records submitted
// transactions; this client only relays them and never signs on the
// backend's behalf. Every request carries the game's API key and game ID.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// Client is an authenticated HTTP client for the backend API.
type Client struct {
	baseURL string
	apiKey  string
	gameID  string
	http    *http.Client
}

// New creates a backend client. A nil HTTP client gets a default with the
// API's 30 second timeout.
func New(baseURL, apiKey, gameID string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		gameID:  gameID,
		http:    hc,
	}
}

// post sends body as JSON to the endpoint and decodes the response into out.
func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %v: %w", err, sdkerr.ErrSerialization)
	}

	url := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %v: %w", err, sdkerr.ErrNetwork)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Game-ID", c.gameID)

	log.Backend.Debug().Str("url", url).Msg("POST")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %v: %w", err, sdkerr.ErrNetwork)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %v: %w", err, sdkerr.ErrNetwork)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Backend.Error().
			Str("url", url).
			Int("status", resp.StatusCode).
			Str("body", string(data)).
			Msg("backend request failed")
		return fmt.Errorf("http %d for %s: %w", resp.StatusCode, url, sdkerr.ErrNetwork)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %v: %w", url, err, sdkerr.ErrSerialization)
	}
	return nil
}

// TokenWithdrawalSignature asks the backend to authorize withdrawing tokens
// to the given wallet.
func (c *Client) TokenWithdrawalSignature(ctx context.Context, chainID uint64, currencyID string, amount int64, walletAddress string) (*WithdrawalSignatureResult, error) {
	req := WalletTransactionRequest{
		ChainID:                chainID,
		TransactionType:        TransactionTypeToken,
		Direction:              DirectionUsersCryptoWallet,
		CurrencyID:             currencyID,
		Amount:                 amount,
		ConnectedWalletAddress: walletAddress,
	}
	var out WithdrawalSignatureResult
	if err := c.post(ctx, "wallet/transaction", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NFTWithdrawalSignature asks the backend to authorize withdrawing a game
// asset to the given wallet.
func (c *Client) NFTWithdrawalSignature(ctx context.Context, chainID uint64, skinID string, amount int64, walletAddress string) (*WithdrawalSignatureResult, error) {
	req := WalletTransactionRequest{
		ChainID:                chainID,
		TransactionType:        TransactionTypeNFT,
		Direction:              DirectionUsersCryptoWallet,
		SkinID:                 skinID,
		Amount:                 amount,
		ConnectedWalletAddress: walletAddress,
	}
	var out WithdrawalSignatureResult
	if err := c.post(ctx, "wallet/transaction", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitTransaction records a broadcast EVM transaction with the backend.
func (c *Client) SubmitTransaction(ctx context.Context, chainID uint64, txHash string, txType TransactionType, direction Direction) (string, error) {
	req := WalletTransactionRequest{
		ChainID:         chainID,
		TransactionType: txType,
		Direction:       direction,
		TransactionHash: txHash,
	}
	var out string
	if err := c.post(ctx, "wallet/transaction", req, &out); err != nil {
		return "", err
	}
	return out, nil
}

// SolanaWithdrawalSignature requests a pool withdrawal authorization. The
// returned payload carries the backend signer's ed25519 signature for the
// on-chain verify instruction.
func (c *Client) SolanaWithdrawalSignature(ctx context.Context, mint string, amount uint64, walletAddress string) (*WithdrawPayload, error) {
	req := PoolTransactionRequest{
		TransactionType: TransactionTypeToken,
		Direction:       DirectionUsersCryptoWallet,
		CurrencyID:      &mint,
		Amount:          &amount,
		WalletAddress:   walletAddress,
	}
	var out WithdrawPayload
	if err := c.post(ctx, "solana/withdraw-signature", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitSolanaDeposit records a submitted pool deposit transaction.
func (c *Client) SubmitSolanaDeposit(ctx context.Context, signature, mint string, amount uint64) (string, error) {
	req := PoolTransactionRequest{
		TransactionType: TransactionTypeToken,
		Direction:       DirectionGame,
		TransactionHash: &signature,
		CurrencyID:      &mint,
		Amount:          &amount,
	}
	var out string
	if err := c.post(ctx, "solana/deposit", req, &out); err != nil {
		return "", err
	}
	return out, nil
}

// SubmitSolanaWithdrawal records a submitted pool withdrawal transaction.
func (c *Client) SubmitSolanaWithdrawal(ctx context.Context, signature string) (string, error) {
	req := PoolTransactionRequest{
		TransactionType: TransactionTypeToken,
		Direction:       DirectionUsersCryptoWallet,
		TransactionHash: &signature,
	}
	var out string
	if err := c.post(ctx, "solana/withdrawal", req, &out); err != nil {
		return "", err
	}
	return out, nil
}
