package soltx

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// ed25519HeaderLen is the fixed prefix of an Ed25519 verify instruction:
// a signature count, a padding byte and seven u16 offsets.
const ed25519HeaderLen = 2 + 7*2

// NewEd25519VerifyInstruction builds the native Ed25519 program
// instruction that checks signature over message under pubkey. The pool
// program inspects it through the instructions sysvar instead of running
// the curve math itself, so it must precede the withdraw instruction in
// the same transaction.
//
// Layout: count and padding bytes, then u16 little-endian offsets for the
// signature, public key and message (each with the index of the
// instruction that carries it), then the three payloads in that order.
func NewEd25519VerifyInstruction(pubkey solana.PublicKey, message, signature []byte) (*solana.GenericInstruction, error) {
	if len(signature) != ed25519.SignatureSize {
		return nil, fmt.Errorf("signature must be %d bytes, got %d: %w", ed25519.SignatureSize, len(signature), sdkerr.ErrInvalidInput)
	}
	if len(message) > math.MaxUint16 {
		return nil, fmt.Errorf("message exceeds %d bytes: %w", math.MaxUint16, sdkerr.ErrInvalidInput)
	}

	sigOffset := uint16(ed25519HeaderLen)
	pkOffset := sigOffset + ed25519.SignatureSize
	msgOffset := pkOffset + ed25519.PublicKeySize

	data := make([]byte, 0, int(msgOffset)+len(message))
	data = append(data, 1, 0) // one signature, padding

	for _, v := range []uint16{
		sigOffset, 0, // signature offset, instruction index
		pkOffset, 0, // public key offset, instruction index
		msgOffset, uint16(len(message)), 0, // message offset, size, instruction index
	} {
		data = binary.LittleEndian.AppendUint16(data, v)
	}

	data = append(data, signature...)
	data = append(data, pubkey[:]...)
	data = append(data, message...)

	return solana.NewInstruction(Ed25519ProgramID, solana.AccountMetaSlice{}, data), nil
}
