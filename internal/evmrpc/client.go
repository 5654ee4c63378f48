// Package evmrpc provides a JSON-RPC 2.0 client for EVM chain nodes.
package evmrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// receiptInterval is the delay between transaction receipt polls.
const receiptInterval = 3 * time.Second

// Client is a JSON-RPC 2.0 HTTP client for an EVM node.
type Client struct {
	endpoint     string
	http         *http.Client
	pollInterval time.Duration
}

// New creates a new RPC client targeting the given endpoint URL.
func New(endpoint string) *Client {
	return NewWithHTTPClient(endpoint, nil)
}

// NewWithHTTPClient creates a new RPC client using the supplied HTTP client,
// letting hosts inject their own transport. A nil client gets a default with
// a 10 second timeout.
func NewWithHTTPClient(endpoint string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		endpoint:     endpoint,
		http:         hc,
		pollInterval: receiptInterval,
	}
}

// request is a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// rpcError is a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the node responds with an error envelope.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Unwrap maps every node-reported error to the network sentinel.
func (e *RPCError) Unwrap() error { return sdkerr.ErrNetwork }

// call invokes a JSON-RPC method and unmarshals the result into the provided
// pointer. If result is nil, the response result is discarded.
func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %v: %w", err, sdkerr.ErrSerialization)
	}

	log.EvmRPC.Debug().Str("method", method).Msg("rpc call")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %v: %w", err, sdkerr.ErrNetwork)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %v: %w", err, sdkerr.ErrNetwork)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %v: %w", err, sdkerr.ErrNetwork)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("decode response: %v: %w", err, sdkerr.ErrSerialization)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
		}
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %v: %w", err, sdkerr.ErrSerialization)
		}
	}

	return nil
}

// CallMsg is the argument object for eth_call and eth_estimateGas.
type CallMsg struct {
	From  *common.Address `json:"from,omitempty"`
	To    common.Address  `json:"to"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data"`
}

// Call executes a read-only contract call against the latest block and
// returns the raw ABI-encoded result.
func (c *Client) Call(ctx context.Context, msg CallMsg) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.call(ctx, "eth_call", []interface{}{msg, "latest"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGas asks the node for a gas estimate of the given call.
func (c *Client) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	var out hexutil.Uint64
	if err := c.call(ctx, "eth_estimateGas", []interface{}{msg}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// Balance returns the native balance of the address in wei.
func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	var out hexutil.Big
	if err := c.call(ctx, "eth_getBalance", []interface{}{addr, "latest"}, &out); err != nil {
		return nil, err
	}
	return (*big.Int)(&out), nil
}

// TransactionCount returns the pending-state nonce for the address, so
// queued transactions are accounted for when the next one is built.
func (c *Client) TransactionCount(ctx context.Context, addr common.Address) (uint64, error) {
	var out hexutil.Uint64
	if err := c.call(ctx, "eth_getTransactionCount", []interface{}{addr, "pending"}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// SendRawTransaction broadcasts a signed transaction and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	var out string
	if err := c.call(ctx, "eth_sendRawTransaction", []interface{}{hexutil.Encode(raw)}, &out); err != nil {
		return "", err
	}
	return out, nil
}

// Receipt is the subset of eth_getTransactionReceipt fields this SDK reads.
// Quantity fields stay as hex strings.
type Receipt struct {
	TransactionHash string `json:"transactionHash"`
	BlockNumber     string `json:"blockNumber"`
	GasUsed         string `json:"gasUsed"`
	Status          string `json:"status"`
	From            string `json:"from"`
	To              string `json:"to"`
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r.Status == "0x1"
}

// TransactionReceipt fetches the receipt for a transaction hash.
// A nil receipt with a nil error means the transaction is not yet mined.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	var out *Receipt
	if err := c.call(ctx, "eth_getTransactionReceipt", []interface{}{txHash}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WaitForReceipt polls for a transaction receipt at a fixed 3 second interval
// until it appears or maxAttempts polls are exhausted.
func (c *Client) WaitForReceipt(ctx context.Context, txHash string, maxAttempts int) (*Receipt, error) {
	for i := 0; i < maxAttempts; i++ {
		receipt, err := c.TransactionReceipt(ctx, txHash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			log.EvmRPC.Debug().
				Str("tx", txHash).
				Str("status", receipt.Status).
				Int("polls", i+1).
				Msg("transaction confirmed")
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for receipt: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
	return nil, fmt.Errorf("transaction not confirmed: %w", sdkerr.ErrTimeout)
}
