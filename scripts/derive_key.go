// derive_key.go prints the address for a raw private key file.
// Usage: go run scripts/derive_key.go <keyfile> [Evm|SolanaLike]
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/halcyon-games/wallet-core/pkg/wallet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <keyfile> [Evm|SolanaLike]")
		os.Exit(1)
	}
	network := wallet.NetworkEvm
	if len(os.Args) > 2 {
		network = wallet.Network(os.Args[2])
		if !network.Valid() {
			fmt.Fprintf(os.Stderr, "unknown network %q\n", os.Args[2])
			os.Exit(1)
		}
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	info, err := wallet.FromPrivateKey(strings.TrimSpace(string(data)), network)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("network=%s\n", info.Network)
	fmt.Printf("address=%s\n", info.Address)
}
