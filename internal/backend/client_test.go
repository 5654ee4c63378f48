package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

const (
	testAPIKey = "test-api-key"
	testGameID = "game-42"

	testEVMWallet = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	testSolWallet = "4nFZgXtZAEwbfA56LRVRdsDGNeW3U55gr5hL9c5E5de5"
	testMint      = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// captured is the last request seen by the test server.
type captured struct {
	path        string
	apiKey      string
	gameID      string
	contentType string
	body        map[string]json.RawMessage
}

// newServer returns a backend client talking to a test server that records
// each request and answers with the given JSON body.
func newServer(t *testing.T, status int, response string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		got.path = r.URL.Path
		got.apiKey = r.Header.Get("X-API-Key")
		got.gameID = r.Header.Get("X-Game-ID")
		got.contentType = r.Header.Get("Content-Type")
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(raw, &got.body); err != nil {
			t.Fatalf("unmarshal request body %s: %v", raw, err)
		}
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, testAPIKey, testGameID, nil), got
}

// field returns the raw JSON for a body field, failing if the key is absent.
func (c *captured) field(t *testing.T, key string) string {
	t.Helper()
	raw, ok := c.body[key]
	if !ok {
		t.Fatalf("request body is missing %q: %v", key, c.body)
	}
	return string(raw)
}

func (c *captured) checkAuth(t *testing.T) {
	t.Helper()
	if c.apiKey != testAPIKey {
		t.Errorf("X-API-Key = %q, want %q", c.apiKey, testAPIKey)
	}
	if c.gameID != testGameID {
		t.Errorf("X-Game-ID = %q, want %q", c.gameID, testGameID)
	}
	if c.contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", c.contentType)
	}
}

func TestTokenWithdrawalSignature(t *testing.T) {
	client, got := newServer(t, http.StatusOK, `{
		"contract_address": "0x1111111111111111111111111111111111111111",
		"token_address": "0x2222222222222222222222222222222222222222",
		"wallet_address": "`+testEVMWallet+`",
		"amount": "250000000000000000000",
		"nonce": "1757111418234",
		"signature": "0xdeadbeef",
		"user_id": "user-7"
	}`)

	result, err := client.TokenWithdrawalSignature(context.Background(), 80002, "gold", 250, testEVMWallet)
	if err != nil {
		t.Fatalf("TokenWithdrawalSignature: %v", err)
	}

	if got.path != "/wallet/transaction" {
		t.Errorf("path = %q, want /wallet/transaction", got.path)
	}
	got.checkAuth(t)
	if v := got.field(t, "transaction_type"); v != `"Token"` {
		t.Errorf("transaction_type = %s, want \"Token\"", v)
	}
	if v := got.field(t, "direction"); v != `"UsersCryptoWallet"` {
		t.Errorf("direction = %s, want \"UsersCryptoWallet\"", v)
	}
	if v := got.field(t, "chain_id"); v != "80002" {
		t.Errorf("chain_id = %s, want 80002", v)
	}
	if v := got.field(t, "currency_id"); v != `"gold"` {
		t.Errorf("currency_id = %s, want \"gold\"", v)
	}
	if v := got.field(t, "amount"); v != "250" {
		t.Errorf("amount = %s, want 250", v)
	}
	if v := got.field(t, "connected_wallet_address"); v != `"`+testEVMWallet+`"` {
		t.Errorf("connected_wallet_address = %s", v)
	}
	if _, ok := got.body["transaction_hash"]; ok {
		t.Error("signature request must not carry transaction_hash")
	}
	if _, ok := got.body["skin_id"]; ok {
		t.Error("token request must not carry skin_id")
	}

	if result.Nonce != "1757111418234" {
		t.Errorf("Nonce = %q", result.Nonce)
	}
	if result.Signature != "0xdeadbeef" {
		t.Errorf("Signature = %q", result.Signature)
	}
	if result.UserID != "user-7" {
		t.Errorf("UserID = %q", result.UserID)
	}
	if result.TokenID != "" {
		t.Errorf("TokenID = %q, want empty", result.TokenID)
	}
}

func TestNFTWithdrawalSignature(t *testing.T) {
	client, got := newServer(t, http.StatusOK, `{
		"contract_address": "0x1111111111111111111111111111111111111111",
		"token_address": "0x3333333333333333333333333333333333333333",
		"wallet_address": "`+testEVMWallet+`",
		"amount": "1",
		"nonce": "9",
		"signature": "0xfeed",
		"token_id": "314"
	}`)

	result, err := client.NFTWithdrawalSignature(context.Background(), 80002, "sword-01", 1, testEVMWallet)
	if err != nil {
		t.Fatalf("NFTWithdrawalSignature: %v", err)
	}

	if v := got.field(t, "transaction_type"); v != `"NFT"` {
		t.Errorf("transaction_type = %s, want \"NFT\"", v)
	}
	if v := got.field(t, "skin_id"); v != `"sword-01"` {
		t.Errorf("skin_id = %s, want \"sword-01\"", v)
	}
	if _, ok := got.body["currency_id"]; ok {
		t.Error("NFT request must not carry currency_id")
	}
	if result.TokenID != "314" {
		t.Errorf("TokenID = %q, want 314", result.TokenID)
	}
}

func TestSubmitTransaction(t *testing.T) {
	client, got := newServer(t, http.StatusOK, `"Created"`)

	const hash = "0x52d1dcb914eb6c7031c8010b6e0fead1a8056a6294b35e73a1890c0714fe1bcf"
	status, err := client.SubmitTransaction(context.Background(), 80002, hash, TransactionTypeToken, DirectionGame)
	if err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}
	if status != "Created" {
		t.Errorf("status = %q, want Created", status)
	}

	if got.path != "/wallet/transaction" {
		t.Errorf("path = %q, want /wallet/transaction", got.path)
	}
	got.checkAuth(t)
	if v := got.field(t, "transaction_hash"); v != `"`+hash+`"` {
		t.Errorf("transaction_hash = %s", v)
	}
	if v := got.field(t, "direction"); v != `"Game"` {
		t.Errorf("direction = %s, want \"Game\"", v)
	}
}

func TestSolanaWithdrawalSignature(t *testing.T) {
	client, got := newServer(t, http.StatusOK, `{
		"Mint": "`+testMint+`",
		"WalletAddress": "`+testSolWallet+`",
		"Amount": "5000000",
		"Nonce": "1757111418234",
		"ProgramID": "",
		"SignatureHex": "`+strings.Repeat("cd", 64)+`",
		"SigIxIndex": 0,
		"Ed25519PublicKey": "`+strings.Repeat("ab", 32)+`",
		"Ed25519Message": "00010203",
		"UserID": "user-7"
	}`)

	payload, err := client.SolanaWithdrawalSignature(context.Background(), testMint, 5000000, testSolWallet)
	if err != nil {
		t.Fatalf("SolanaWithdrawalSignature: %v", err)
	}

	if got.path != "/solana/withdraw-signature" {
		t.Errorf("path = %q, want /solana/withdraw-signature", got.path)
	}
	got.checkAuth(t)
	if v := got.field(t, "transaction_type"); v != `"Token"` {
		t.Errorf("transaction_type = %s, want \"Token\"", v)
	}
	if v := got.field(t, "direction"); v != `"UsersCryptoWallet"` {
		t.Errorf("direction = %s, want \"UsersCryptoWallet\"", v)
	}
	if v := got.field(t, "transaction_hash"); v != "null" {
		t.Errorf("transaction_hash = %s, want null", v)
	}
	if v := got.field(t, "currency_id"); v != `"`+testMint+`"` {
		t.Errorf("currency_id = %s", v)
	}
	if v := got.field(t, "amount"); v != "5000000" {
		t.Errorf("amount = %s, want 5000000", v)
	}
	if v := got.field(t, "wallet_address"); v != `"`+testSolWallet+`"` {
		t.Errorf("wallet_address = %s", v)
	}

	if payload.Mint != testMint {
		t.Errorf("Mint = %q", payload.Mint)
	}
	if payload.Amount != "5000000" {
		t.Errorf("Amount = %q", payload.Amount)
	}
	if payload.UserID != "user-7" {
		t.Errorf("UserID = %q", payload.UserID)
	}
}

func TestSubmitSolanaDeposit(t *testing.T) {
	client, got := newServer(t, http.StatusOK, `"Created"`)

	const sig = "2id3YC2jK9G5Wo2phDx4gJVAew8DcY5NAojnVuao8rkxwPYPe8cSwE5GzhEgJA2y8fVjDEo6iR6ykBvDxrTQrtpb"
	status, err := client.SubmitSolanaDeposit(context.Background(), sig, testMint, 5000000)
	if err != nil {
		t.Fatalf("SubmitSolanaDeposit: %v", err)
	}
	if status != "Created" {
		t.Errorf("status = %q, want Created", status)
	}

	if got.path != "/solana/deposit" {
		t.Errorf("path = %q, want /solana/deposit", got.path)
	}
	if v := got.field(t, "direction"); v != `"Game"` {
		t.Errorf("direction = %s, want \"Game\"", v)
	}
	if v := got.field(t, "transaction_hash"); v != `"`+sig+`"` {
		t.Errorf("transaction_hash = %s", v)
	}
	if v := got.field(t, "currency_id"); v != `"`+testMint+`"` {
		t.Errorf("currency_id = %s", v)
	}
	if v := got.field(t, "amount"); v != "5000000" {
		t.Errorf("amount = %s, want 5000000", v)
	}
}

func TestSubmitSolanaWithdrawal(t *testing.T) {
	client, got := newServer(t, http.StatusOK, `"Created"`)

	const sig = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"
	if _, err := client.SubmitSolanaWithdrawal(context.Background(), sig); err != nil {
		t.Fatalf("SubmitSolanaWithdrawal: %v", err)
	}

	if got.path != "/solana/withdrawal" {
		t.Errorf("path = %q, want /solana/withdrawal", got.path)
	}
	if v := got.field(t, "direction"); v != `"UsersCryptoWallet"` {
		t.Errorf("direction = %s, want \"UsersCryptoWallet\"", v)
	}
	if v := got.field(t, "transaction_hash"); v != `"`+sig+`"` {
		t.Errorf("transaction_hash = %s", v)
	}
	if v := got.field(t, "currency_id"); v != "null" {
		t.Errorf("currency_id = %s, want null", v)
	}
	if v := got.field(t, "amount"); v != "null" {
		t.Errorf("amount = %s, want null", v)
	}
}

func TestErrorStatus(t *testing.T) {
	client, _ := newServer(t, http.StatusForbidden, `{"error":"invalid api key"}`)

	_, err := client.SubmitSolanaWithdrawal(context.Background(), "sig")
	if !errors.Is(err, sdkerr.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	if !strings.Contains(err.Error(), "http 403") {
		t.Errorf("error = %v, want http 403 in message", err)
	}
}

func TestMalformedResponse(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `not json`)

	_, err := client.TokenWithdrawalSignature(context.Background(), 80002, "gold", 1, testEVMWallet)
	if !errors.Is(err, sdkerr.ErrSerialization) {
		t.Fatalf("error = %v, want ErrSerialization", err)
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		w.Write([]byte(`"Created"`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL+"/", testAPIKey, testGameID, nil)
	if _, err := client.SubmitSolanaWithdrawal(context.Background(), "sig"); err != nil {
		t.Fatalf("SubmitSolanaWithdrawal: %v", err)
	}
	if got.path != "/solana/withdrawal" {
		t.Errorf("path = %q, want /solana/withdrawal", got.path)
	}
}

func validPayload() *WithdrawPayload {
	return &WithdrawPayload{
		Mint:             testMint,
		WalletAddress:    testSolWallet,
		Amount:           "5000000",
		Nonce:            "1757111418234",
		SignatureHex:     strings.Repeat("cd", 64),
		SigIxIndex:       0,
		Ed25519PublicKey: strings.Repeat("ab", 32),
		Ed25519Message:   "00010203",
		UserID:           "user-7",
	}
}

func TestToWithdrawRequest(t *testing.T) {
	req, err := validPayload().ToWithdrawRequest()
	if err != nil {
		t.Fatalf("ToWithdrawRequest: %v", err)
	}

	if req.Mint.String() != testMint {
		t.Errorf("Mint = %s, want %s", req.Mint, testMint)
	}
	if req.To.String() != testSolWallet {
		t.Errorf("To = %s, want %s", req.To, testSolWallet)
	}
	if req.Amount != 5000000 {
		t.Errorf("Amount = %d, want 5000000", req.Amount)
	}
	if req.Nonce != 1757111418234 {
		t.Errorf("Nonce = %d, want 1757111418234", req.Nonce)
	}
	if req.UserID != "user-7" {
		t.Errorf("UserID = %q", req.UserID)
	}
	wantKey := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0xab}, 32))
	if !req.PublicKey.Equals(wantKey) {
		t.Errorf("PublicKey = %s, want %s", req.PublicKey, wantKey)
	}
	if !bytes.Equal(req.Message, []byte{0x00, 0x01, 0x02, 0x03}) {
		t.Errorf("Message = %x", req.Message)
	}
	if !bytes.Equal(req.Signature, bytes.Repeat([]byte{0xcd}, 64)) {
		t.Errorf("Signature = %x", req.Signature)
	}
	if req.SigIxIndex != 0 {
		t.Errorf("SigIxIndex = %d, want 0", req.SigIxIndex)
	}
}

func TestToWithdrawRequestInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WithdrawPayload)
	}{
		{"bad amount", func(p *WithdrawPayload) { p.Amount = "12.5" }},
		{"bad nonce", func(p *WithdrawPayload) { p.Nonce = "abc" }},
		{"bad mint", func(p *WithdrawPayload) { p.Mint = "0OIl" }},
		{"bad wallet", func(p *WithdrawPayload) { p.WalletAddress = "not-base58!" }},
		{"bad pubkey hex", func(p *WithdrawPayload) { p.Ed25519PublicKey = "zz" }},
		{"short pubkey", func(p *WithdrawPayload) { p.Ed25519PublicKey = strings.Repeat("ab", 16) }},
		{"bad message hex", func(p *WithdrawPayload) { p.Ed25519Message = "xyz" }},
		{"bad signature hex", func(p *WithdrawPayload) { p.SignatureHex = "q" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			if _, err := p.ToWithdrawRequest(); !errors.Is(err, sdkerr.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
