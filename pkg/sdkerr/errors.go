// Package sdkerr defines the error taxonomy shared by every wallet-core
// subsystem. Call sites wrap these sentinels with fmt.Errorf("...: %w", ...)
// so callers can classify failures with errors.Is while keeping the
// human-readable detail.
package sdkerr

import "errors"

var (
	// ErrInvalidInput marks malformed caller input: bad hex or base58,
	// unsupported word counts, short passwords, unparseable addresses.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWallet marks key-material failures: derivation or signing errors,
	// a missing private key record, no stored wallet to load.
	ErrWallet = errors.New("wallet error")

	// ErrAuth marks a failed password check during keystore decryption.
	ErrAuth = errors.New("authentication failed")

	// ErrNetwork marks transport failures and RPC/backend error envelopes.
	ErrNetwork = errors.New("network error")

	// ErrSerialization marks encode/decode failures on external data.
	ErrSerialization = errors.New("serialization error")

	// ErrTimeout marks an exhausted confirmation-polling budget.
	ErrTimeout = errors.New("timeout")

	// ErrPlatformNotSupported marks a capability that is unavailable in the
	// current execution environment, such as signing without a configured key.
	ErrPlatformNotSupported = errors.New("platform not supported")
)
