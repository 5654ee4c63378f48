// Package evmtx builds contract calldata and signed transactions for
// EVM-family chains.
//
// Calldata construction is driven by a declarative method table: each
// Method names a contract function and its argument schema, and one
// encoder turns a method plus Go values into ABI-encoded bytes. There
// is deliberately no second, hand-built encoding path.
package evmtx

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// WordSize is the ABI word width in bytes.
const WordSize = 32

// Kind identifies an ABI argument type in a method schema.
type Kind int

const (
	Address Kind = iota // common.Address
	Uint256             // *big.Int, non-negative, < 2^256
	String              // string
	Bytes               // []byte
	AddressSlice        // []common.Address
	Uint256Slice        // []*big.Int
)

// typeName returns the canonical ABI type string.
func (k Kind) typeName() string {
	switch k {
	case Address:
		return "address"
	case Uint256:
		return "uint256"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case AddressSlice:
		return "address[]"
	case Uint256Slice:
		return "uint256[]"
	default:
		return "unknown"
	}
}

// dynamic reports whether the kind is tail-encoded with a head offset.
func (k Kind) dynamic() bool {
	switch k {
	case String, Bytes, AddressSlice, Uint256Slice:
		return true
	default:
		return false
	}
}

// Method describes a contract function: its name and argument schema.
type Method struct {
	Name string
	Args []Kind
}

// Signature returns the canonical signature string,
// e.g. "transfer(address,uint256)".
func (m Method) Signature() string {
	names := make([]string, len(m.Args))
	for i, k := range m.Args {
		names[i] = k.typeName()
	}
	return m.Name + "(" + strings.Join(names, ",") + ")"
}

// Selector returns the first four bytes of Keccak-256 over the
// canonical signature.
func (m Method) Selector() [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(m.Signature()))
	var sel [4]byte
	copy(sel[:], h.Sum(nil)[:4])
	return sel
}

// EncodeCall produces calldata for m: the selector followed by the
// ABI-encoded arguments. Arguments must match the schema in count and
// Go type (see the Kind constants).
func EncodeCall(m Method, args ...any) ([]byte, error) {
	encoded, err := EncodeArgs(m.Args, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Signature(), err)
	}
	sel := m.Selector()
	return append(sel[:], encoded...), nil
}

// EncodeArgs ABI-encodes values against a schema: static kinds occupy
// one head word each in declaration order; dynamic kinds put a byte
// offset in the head and length-prefixed, word-padded data in the tail.
func EncodeArgs(schema []Kind, args ...any) ([]byte, error) {
	if len(args) != len(schema) {
		return nil, fmt.Errorf("got %d args, schema has %d: %w", len(args), len(schema), sdkerr.ErrInvalidInput)
	}

	headSize := WordSize * len(schema)
	head := make([]byte, 0, headSize)
	var tail []byte

	for i, kind := range schema {
		if kind.dynamic() {
			offset, err := uintWord(big.NewInt(int64(headSize + len(tail))))
			if err != nil {
				return nil, err
			}
			head = append(head, offset...)

			data, err := encodeDynamic(kind, args[i])
			if err != nil {
				return nil, fmt.Errorf("arg %d (%s): %w", i, kind.typeName(), err)
			}
			tail = append(tail, data...)
			continue
		}

		word, err := encodeStatic(kind, args[i])
		if err != nil {
			return nil, fmt.Errorf("arg %d (%s): %w", i, kind.typeName(), err)
		}
		head = append(head, word...)
	}

	return append(head, tail...), nil
}

func encodeStatic(kind Kind, arg any) ([]byte, error) {
	switch kind {
	case Address:
		a, ok := arg.(common.Address)
		if !ok {
			return nil, typeMismatch(arg, "common.Address")
		}
		return addressWord(a), nil
	case Uint256:
		v, ok := arg.(*big.Int)
		if !ok {
			return nil, typeMismatch(arg, "*big.Int")
		}
		return uintWord(v)
	default:
		return nil, fmt.Errorf("kind %s is not static: %w", kind.typeName(), sdkerr.ErrInvalidInput)
	}
}

func encodeDynamic(kind Kind, arg any) ([]byte, error) {
	switch kind {
	case String:
		s, ok := arg.(string)
		if !ok {
			return nil, typeMismatch(arg, "string")
		}
		return lengthPrefixed([]byte(s)), nil

	case Bytes:
		b, ok := arg.([]byte)
		if !ok {
			return nil, typeMismatch(arg, "[]byte")
		}
		return lengthPrefixed(b), nil

	case AddressSlice:
		addrs, ok := arg.([]common.Address)
		if !ok {
			return nil, typeMismatch(arg, "[]common.Address")
		}
		out := countWord(len(addrs))
		for _, a := range addrs {
			out = append(out, addressWord(a)...)
		}
		return out, nil

	case Uint256Slice:
		values, ok := arg.([]*big.Int)
		if !ok {
			return nil, typeMismatch(arg, "[]*big.Int")
		}
		out := countWord(len(values))
		for i, v := range values {
			word, err := uintWord(v)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, word...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("kind %s is not dynamic: %w", kind.typeName(), sdkerr.ErrInvalidInput)
	}
}

func typeMismatch(got any, want string) error {
	return fmt.Errorf("have %T, want %s: %w", got, want, sdkerr.ErrInvalidInput)
}

// addressWord right-aligns a 20-byte address in a 32-byte word.
func addressWord(a common.Address) []byte {
	word := make([]byte, WordSize)
	copy(word[WordSize-common.AddressLength:], a[:])
	return word
}

// uintWord encodes a non-negative big integer as a 32-byte word.
func uintWord(v *big.Int) ([]byte, error) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 256 {
		return nil, fmt.Errorf("value out of uint256 range: %w", sdkerr.ErrInvalidInput)
	}
	word := make([]byte, WordSize)
	v.FillBytes(word)
	return word, nil
}

// countWord encodes a length as a 32-byte word.
func countWord(n int) []byte {
	word := make([]byte, WordSize)
	binary.BigEndian.PutUint64(word[WordSize-8:], uint64(n))
	return word
}

// lengthPrefixed encodes dynamic bytes: a length word followed by the
// data padded up to a word boundary.
func lengthPrefixed(b []byte) []byte {
	out := countWord(len(b))
	out = append(out, b...)
	if pad := len(b) % WordSize; pad != 0 {
		out = append(out, make([]byte, WordSize-pad)...)
	}
	return out
}

// DecodeArgs decodes an ABI-encoded argument area (calldata minus the
// selector, or a call return value) against a schema. Decoded values
// have the same Go types EncodeArgs accepts.
func DecodeArgs(schema []Kind, data []byte) ([]any, error) {
	if len(data) < WordSize*len(schema) {
		return nil, fmt.Errorf("data too short for %d args: %w", len(schema), sdkerr.ErrSerialization)
	}

	out := make([]any, len(schema))
	for i, kind := range schema {
		head := data[i*WordSize : (i+1)*WordSize]

		if !kind.dynamic() {
			switch kind {
			case Address:
				out[i] = common.BytesToAddress(head[WordSize-common.AddressLength:])
			case Uint256:
				out[i] = new(big.Int).SetBytes(head)
			}
			continue
		}

		offset := new(big.Int).SetBytes(head)
		if !offset.IsInt64() || offset.Int64() > int64(len(data)) {
			return nil, fmt.Errorf("arg %d: offset out of range: %w", i, sdkerr.ErrSerialization)
		}
		value, err := decodeDynamic(kind, data, int(offset.Int64()))
		if err != nil {
			return nil, fmt.Errorf("arg %d (%s): %w", i, kind.typeName(), err)
		}
		out[i] = value
	}
	return out, nil
}

func decodeDynamic(kind Kind, data []byte, offset int) (any, error) {
	if offset+WordSize > len(data) {
		return nil, fmt.Errorf("truncated length word: %w", sdkerr.ErrSerialization)
	}
	length := new(big.Int).SetBytes(data[offset : offset+WordSize])
	if !length.IsInt64() {
		return nil, fmt.Errorf("length out of range: %w", sdkerr.ErrSerialization)
	}
	n := int(length.Int64())
	body := data[offset+WordSize:]

	switch kind {
	case String, Bytes:
		if n > len(body) {
			return nil, fmt.Errorf("truncated data: %w", sdkerr.ErrSerialization)
		}
		if kind == String {
			return string(body[:n]), nil
		}
		return append([]byte(nil), body[:n]...), nil

	case AddressSlice:
		// Divide rather than multiply so a hostile length word cannot
		// overflow past the bounds check.
		if n > len(body)/WordSize {
			return nil, fmt.Errorf("truncated array: %w", sdkerr.ErrSerialization)
		}
		addrs := make([]common.Address, n)
		for i := 0; i < n; i++ {
			word := body[i*WordSize : (i+1)*WordSize]
			addrs[i] = common.BytesToAddress(word[WordSize-common.AddressLength:])
		}
		return addrs, nil

	case Uint256Slice:
		if n > len(body)/WordSize {
			return nil, fmt.Errorf("truncated array: %w", sdkerr.ErrSerialization)
		}
		values := make([]*big.Int, n)
		for i := 0; i < n; i++ {
			values[i] = new(big.Int).SetBytes(body[i*WordSize : (i+1)*WordSize])
		}
		return values, nil

	default:
		return nil, fmt.Errorf("kind %s is not dynamic: %w", kind.typeName(), sdkerr.ErrSerialization)
	}
}

// DecodeUint256 decodes a single uint256 return value, the common case
// for balance and allowance calls.
func DecodeUint256(data []byte) (*big.Int, error) {
	decoded, err := DecodeArgs([]Kind{Uint256}, data)
	if err != nil {
		return nil, err
	}
	return decoded[0].(*big.Int), nil
}

// DecodeUint256Slice decodes a uint256[] return value, as returned by
// batch balance calls.
func DecodeUint256Slice(data []byte) ([]*big.Int, error) {
	decoded, err := DecodeArgs([]Kind{Uint256Slice}, data)
	if err != nil {
		return nil, err
	}
	return decoded[0].([]*big.Int), nil
}
