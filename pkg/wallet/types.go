package wallet

// Network identifies the chain family a wallet belongs to.
type Network string

const (
	// NetworkEvm covers secp256k1 chains with 0x-prefixed addresses.
	NetworkEvm Network = "Evm"

	// NetworkSolanaLike covers Ed25519 chains with base58 addresses.
	NetworkSolanaLike Network = "SolanaLike"
)

// Valid reports whether n is a known network tag.
func (n Network) Valid() bool {
	return n == NetworkEvm || n == NetworkSolanaLike
}

// Info is the in-memory form of an unlocked wallet.
// PrivateKey is hex (0x-prefixed) for EVM wallets and base58 of the
// 64-byte expanded key for Solana-like wallets.
type Info struct {
	Address    string
	PrivateKey string
	Network    Network
}

// DisplayAddress shortens an address for UI display: the first six and
// last four characters joined by an ellipsis, e.g. "0x1234...5678".
func DisplayAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
