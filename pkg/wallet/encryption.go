package wallet

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// The keystore cipher XORs plaintext with a keystream of cycled password
// bytes and base64-encodes the result. It carries no MAC: decrypting with
// a wrong password yields garbage rather than a clean failure, and the
// UTF-8 check below only catches it when the garbage is not valid text.
// Legacy clients persisted records in exactly this format, so it is kept
// byte-compatible.

// EncryptString encrypts plain with a password-derived keystream and
// returns the base64 encoding of the result.
func EncryptString(plain, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("empty password: %w", sdkerr.ErrInvalidInput)
	}
	out := xorKeystream([]byte(plain), []byte(password))
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptString reverses EncryptString. Undecodable base64 fails with
// ErrSerialization; decrypted bytes that are not valid UTF-8 fail with
// ErrAuth (the implicit password check). Trailing NUL padding written by
// legacy clients is stripped.
func DecryptString(encoded, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("empty password: %w", sdkerr.ErrInvalidInput)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %v: %w", err, sdkerr.ErrSerialization)
	}
	plain := xorKeystream(raw, []byte(password))
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("decrypted data is not valid text: %w", sdkerr.ErrAuth)
	}
	return strings.TrimRight(string(plain), "\x00"), nil
}

// xorKeystream XORs data with password bytes repeated to length.
func xorKeystream(data, password []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ password[i%len(password)]
	}
	return out
}
