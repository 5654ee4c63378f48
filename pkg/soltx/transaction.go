package soltx

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// LamportsPerSignature is the fixed network fee per transaction signature.
const LamportsPerSignature = 5000

// Builder accumulates instructions into a single transaction.
type Builder struct {
	instructions []solana.Instruction
	feePayer     solana.PublicKey
	blockhash    solana.Hash
	hasBlockhash bool
}

// NewBuilder returns a Builder paying fees from feePayer.
func NewBuilder(feePayer solana.PublicKey) *Builder {
	return &Builder{feePayer: feePayer}
}

// Add appends an instruction. Instructions execute in insertion order.
func (b *Builder) Add(ix solana.Instruction) *Builder {
	b.instructions = append(b.instructions, ix)
	return b
}

// SetRecentBlockhash sets the blockhash the transaction is anchored to.
// Required before signing.
func (b *Builder) SetRecentBlockhash(h solana.Hash) *Builder {
	b.blockhash = h
	b.hasBlockhash = true
	return b
}

// SignAndSerialize compiles the message, signs it with secret and returns
// the base64-encoded wire transaction ready for submission. secret is an
// Ed25519 key as either a 32-byte seed or a 64-byte expanded key; with 64
// bytes the first half is taken as the seed. The key's public half pays
// the fee and must cover every signer the instructions declare.
func (b *Builder) SignAndSerialize(secret []byte) (string, error) {
	if len(b.instructions) == 0 {
		return "", fmt.Errorf("no instructions in transaction: %w", sdkerr.ErrInvalidInput)
	}
	if !b.hasBlockhash {
		return "", fmt.Errorf("recent blockhash not set: %w", sdkerr.ErrInvalidInput)
	}
	if len(secret) != ed25519.SeedSize && len(secret) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("secret key must be %d or %d bytes, got %d: %w",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(secret), sdkerr.ErrInvalidInput)
	}

	signer := solana.PrivateKey(ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize]))
	payer := signer.PublicKey()

	tx, err := solana.NewTransaction(b.instructions, b.blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("compile transaction: %v: %w", err, sdkerr.ErrSerialization)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &signer
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("sign transaction: %v: %w", err, sdkerr.ErrWallet)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %v: %w", err, sdkerr.ErrSerialization)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// EstimateSize approximates the serialized transaction size in bytes: one
// signature, the message header, the blockhash, 32 bytes per unique
// account key, and each instruction's program index, account indices and
// length-prefixed data.
func (b *Builder) EstimateSize() (int, error) {
	const baseSize = 64 + 3 + 32

	unique := map[solana.PublicKey]struct{}{b.feePayer: {}}
	instructionsSize := 0

	for _, ix := range b.instructions {
		unique[ix.ProgramID()] = struct{}{}
		accounts := ix.Accounts()
		for _, acc := range accounts {
			unique[acc.PublicKey] = struct{}{}
		}

		data, err := ix.Data()
		if err != nil {
			return 0, fmt.Errorf("instruction data: %v: %w", err, sdkerr.ErrSerialization)
		}
		instructionsSize += 1 + 1 + len(accounts) + 2 + len(data)
	}

	return baseSize + len(unique)*32 + instructionsSize, nil
}

// EstimateFee returns the deterministic transaction fee in lamports for
// the given signature count.
func EstimateFee(numSignatures int) uint64 {
	if numSignatures <= 0 {
		return 0
	}
	return uint64(numSignatures) * LamportsPerSignature
}

// WithdrawRequest carries a backend-issued withdrawal authorization in
// wire-ready form: the transfer parameters plus the Ed25519 material the
// pool program verifies through the instructions sysvar.
type WithdrawRequest struct {
	Mint       solana.PublicKey
	To         solana.PublicKey
	Amount     uint64
	Nonce      uint64
	UserID     string
	PublicKey  solana.PublicKey // backend's Ed25519 verify key
	Message    []byte
	Signature  []byte // 64 bytes
	SigIxIndex uint8
}
