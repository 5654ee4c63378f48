// Package solrpc provides the RPC boundary for the Solana-style chain.
package solrpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol = 1_000_000_000

// confirmInterval is the delay between transaction status polls.
const confirmInterval = 2 * time.Second

// Client wraps the chain's JSON-RPC node API.
//
// Reads use the configured commitment. Blockhashes are fetched at finalized
// so signed transactions stay valid across forks, while preflight and
// simulation run at processed for fast feedback.
type Client struct {
	rpc          *rpc.Client
	commitment   rpc.CommitmentType
	pollInterval time.Duration
}

// New creates a client for the given endpoint. commitment selects the
// read commitment level (processed, confirmed, or finalized); empty
// defaults to confirmed.
func New(endpoint string, commitment string) *Client {
	c := rpc.CommitmentType(commitment)
	if c == "" {
		c = rpc.CommitmentConfirmed
	}
	return &Client{
		rpc:          rpc.New(endpoint),
		commitment:   c,
		pollInterval: confirmInterval,
	}
}

// Balance returns the native balance of the account in lamports.
func (c *Client) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("get balance: %v: %w", err, sdkerr.ErrNetwork)
	}
	return out.Value, nil
}

// TokenBalance returns the token balance held by owner for the given mint.
// Owners without a token account for the mint get a zero amount back.
func (c *Client) TokenBalance(ctx context.Context, owner, mint solana.PublicKey) (*rpc.UiTokenAmount, error) {
	out, err := c.rpc.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{Mint: &mint},
		&rpc.GetTokenAccountsOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingJSONParsed,
		})
	if err != nil {
		return nil, fmt.Errorf("get token accounts: %v: %w", err, sdkerr.ErrNetwork)
	}
	if len(out.Value) == 0 {
		return &rpc.UiTokenAmount{Amount: "0", Decimals: 9, UiAmountString: "0"}, nil
	}

	var parsed struct {
		Parsed struct {
			Info struct {
				TokenAmount rpc.UiTokenAmount `json:"tokenAmount"`
			} `json:"info"`
		} `json:"parsed"`
	}
	if err := json.Unmarshal(out.Value[0].Account.Data.GetRawJSON(), &parsed); err != nil {
		return nil, fmt.Errorf("decode token account: %v: %w", err, sdkerr.ErrSerialization)
	}
	return &parsed.Parsed.Info.TokenAmount, nil
}

// LatestBlockhash fetches a finalized blockhash for transaction building.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %v: %w", err, sdkerr.ErrNetwork)
	}
	return out.Value.Blockhash, nil
}

// AccountInfo fetches the raw account for the address.
// A nil account with a nil error means the account does not exist.
func (c *Client) AccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.Account, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account info: %v: %w", err, sdkerr.ErrNetwork)
	}
	return out.Value, nil
}

// SimulationResult is the outcome of a transaction simulation.
type SimulationResult struct {
	Success       bool
	Err           string
	Logs          []string
	UnitsConsumed uint64
}

// Simulate runs the base64-encoded wire transaction through the node's
// simulator without submitting it.
func (c *Client) Simulate(ctx context.Context, txBase64 string) (*SimulationResult, error) {
	raw, err := base64.StdEncoding.DecodeString(txBase64)
	if err != nil {
		return nil, fmt.Errorf("decode transaction: %v: %w", err, sdkerr.ErrSerialization)
	}

	out, err := c.rpc.SimulateRawTransactionWithOpts(ctx, raw, &rpc.SimulateTransactionOpts{
		Commitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return nil, fmt.Errorf("simulate transaction: %v: %w", err, sdkerr.ErrNetwork)
	}

	value := out.Value
	result := &SimulationResult{
		Success: value.Err == nil,
		Logs:    value.Logs,
	}
	if value.Err != nil {
		result.Err = fmt.Sprintf("%v", value.Err)
	}
	if value.UnitsConsumed != nil {
		result.UnitsConsumed = *value.UnitsConsumed
	}
	return result, nil
}

// SendEncodedTransaction broadcasts a base64-encoded signed transaction and
// returns its signature.
func (c *Client) SendEncodedTransaction(ctx context.Context, txBase64 string, skipPreflight bool) (solana.Signature, error) {
	sig, err := c.rpc.SendEncodedTransactionWithOpts(ctx, txBase64, rpc.TransactionOpts{
		SkipPreflight:       skipPreflight,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %v: %w", err, sdkerr.ErrNetwork)
	}
	log.SolRPC.Debug().Str("signature", sig.String()).Msg("transaction sent")
	return sig, nil
}

// TransactionResult is the confirmation state of a submitted transaction.
type TransactionResult struct {
	Signature string
	Slot      uint64
	Confirmed bool
}

// Transaction looks up a transaction by signature. A transaction the node
// does not know yet comes back unconfirmed rather than as an error.
func (c *Client) Transaction(ctx context.Context, sig solana.Signature) (*TransactionResult, error) {
	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return &TransactionResult{Signature: sig.String(), Confirmed: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %v: %w", err, sdkerr.ErrNetwork)
	}
	return &TransactionResult{
		Signature: sig.String(),
		Slot:      out.Slot,
		Confirmed: true,
	}, nil
}

// Confirm polls for the transaction at a fixed 2 second interval until the
// node reports it or maxAttempts polls are exhausted. Poll failures count as
// not-yet-confirmed so a transient node error doesn't abort the wait.
func (c *Client) Confirm(ctx context.Context, sig solana.Signature, maxAttempts int) error {
	for i := 0; i < maxAttempts; i++ {
		status, err := c.Transaction(ctx, sig)
		if err == nil && status.Confirmed {
			log.SolRPC.Debug().
				Str("signature", sig.String()).
				Uint64("slot", status.Slot).
				Int("polls", i+1).
				Msg("transaction confirmed")
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirm transaction: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
	return fmt.Errorf("transaction not confirmed: %w", sdkerr.ErrTimeout)
}

// LamportsToSol converts lamports to whole SOL.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / float64(LamportsPerSol)
}

// SolToLamports converts whole SOL to lamports.
func SolToLamports(sol float64) uint64 {
	return uint64(sol * float64(LamportsPerSol))
}

// TokenAmountToFloat scales a raw token amount by the mint's decimals.
func TokenAmountToFloat(amount uint64, decimals uint8) float64 {
	return float64(amount) / math.Pow10(int(decimals))
}
