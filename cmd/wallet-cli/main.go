// wallet-cli is an operator tool for managing game wallets: creating and
// importing HD wallets, inspecting stored addresses, and deriving chain
// addresses from a mnemonic without touching storage.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/halcyon-games/wallet-core/config"
	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/pkg/storage"
	"github.com/halcyon-games/wallet-core/pkg/wallet"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	network := "mainnet"
	dataDir := ""
	userID := "default"
	chain := string(wallet.NetworkEvm)
	logLevel := "warn"

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--user" && len(args) > 1:
			userID = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--user="):
			userID = args[0][len("--user="):]
			args = args[1:]
		case args[0] == "--chain" && len(args) > 1:
			chain = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--chain="):
			chain = args[0][len("--chain="):]
			args = args[1:]
		case args[0] == "--log-level" && len(args) > 1:
			logLevel = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-level="):
			logLevel = args[0][len("--log-level="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	if err := log.Init(logLevel, false, ""); err != nil {
		fatal("init logging: %v", err)
	}

	cfg := config.Default(config.NetworkType(network))
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	net := wallet.Network(chain)
	if !net.Valid() {
		fatal("--chain must be %q or %q", wallet.NetworkEvm, wallet.NetworkSolanaLike)
	}

	cmd := args[0]
	cmdArgs := args[1:]
	log.CLI.Debug().Str("command", cmd).Str("user", userID).Str("chain", chain).Msg("dispatch")

	switch cmd {
	case "create":
		cmdCreate(cmdArgs, cfg, userID, net)
	case "import":
		cmdImport(cmdArgs, cfg, userID, net)
	case "address":
		cmdAddress(cfg, userID)
	case "login":
		cmdLogin(cfg, userID, net)
	case "delete":
		cmdDelete(cfg, userID, net)
	case "derive":
		cmdDerive(cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: wallet-cli [global flags] <command> [flags]

Global flags:
  --network <net>     mainnet (default) or testnet
  --datadir <path>    Data directory (default: platform-specific)
  --user <id>         User namespace for stored wallets (default: "default")
  --chain <c>         Evm (default) or SolanaLike
  --log-level <lvl>   trace|debug|info|warn|error (default: warn)

Commands:
  create [--words 12|24]          Create a wallet and print its address
  import --mnemonic "..."         Import a wallet from a seed phrase
  import --key <hex|base58>       Import a wallet from a raw private key
  address                         Show the stored wallet address (no password)
  login                           Unlock the stored wallet and show details
  delete                          Erase the stored wallet permanently
  derive --mnemonic "..."         Print the EVM and Solana addresses for a
                                  mnemonic without storing anything
`)
}

// openDB opens the configured key-value store.
func openDB(cfg *config.Config) storage.DB {
	if cfg.Storage.Backend == "memory" {
		return storage.NewMemory()
	}
	db, err := storage.NewBadger(cfg.WalletDir())
	if err != nil {
		fatal("open wallet store at %s: %v", cfg.WalletDir(), err)
	}
	return db
}

// ── create ──────────────────────────────────────────────────────────────

func cmdCreate(args []string, cfg *config.Config, userID string, net wallet.Network) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	words := fs.Int("words", 12, "Mnemonic length: 12 or 24 words")
	fs.Parse(args)

	db := openDB(cfg)
	defer db.Close()
	mgr := wallet.NewManager(db, userID, net)

	if has, err := mgr.HasWallet(); err != nil {
		fatal("check stored wallet: %v", err)
	} else if has {
		fatal("a wallet already exists for user %q; delete it first", userID)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	info, err := mgr.Create(string(password), *words)
	if err != nil {
		fatal("create wallet: %v", err)
	}
	phrase, _ := mgr.SeedPhrase()

	fmt.Println("Seed phrase (write this down!):")
	fmt.Printf("  %s\n\n", phrase)
	fmt.Printf("Wallet created for user %q\n", userID)
	fmt.Printf("Network: %s\n", info.Network)
	fmt.Printf("Address: %s\n", info.Address)

	mgr.Logout()
}

// ── import ──────────────────────────────────────────────────────────────

func cmdImport(args []string, cfg *config.Config, userID string, net wallet.Network) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "BIP-39 seed phrase (12 or 24 words)")
	key := fs.String("key", "", "Raw private key (hex for Evm, base58 or hex for SolanaLike)")
	fs.Parse(args)

	if (*mnemonic == "") == (*key == "") {
		fatal("Usage: wallet-cli import --mnemonic \"...\" | --key <key>")
	}

	db := openDB(cfg)
	defer db.Close()
	mgr := wallet.NewManager(db, userID, net)

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	var info wallet.Info
	if *mnemonic != "" {
		info, err = mgr.ImportSeedPhrase(*mnemonic, string(password))
	} else {
		info, err = mgr.ImportPrivateKey(*key, string(password))
	}
	if err != nil {
		fatal("import wallet: %v", err)
	}

	fmt.Printf("Wallet imported for user %q\n", userID)
	fmt.Printf("Network: %s\n", info.Network)
	fmt.Printf("Address: %s\n", info.Address)

	mgr.Logout()
}

// ── address ─────────────────────────────────────────────────────────────

func cmdAddress(cfg *config.Config, userID string) {
	db := openDB(cfg)
	defer db.Close()
	ks := wallet.NewKeystore(db, userID)

	has, err := ks.HasWallet()
	if err != nil {
		fatal("check stored wallet: %v", err)
	}
	if !has {
		fatal("no wallet stored for user %q", userID)
	}

	addr, err := ks.Address()
	if err != nil {
		fatal("read address: %v", err)
	}
	network, err := ks.Network()
	if err != nil {
		fatal("read network: %v", err)
	}
	fmt.Printf("Network: %s\n", network)
	fmt.Printf("Address: %s\n", addr)
}

// ── login ───────────────────────────────────────────────────────────────

func cmdLogin(cfg *config.Config, userID string, net wallet.Network) {
	db := openDB(cfg)
	defer db.Close()
	mgr := wallet.NewManager(db, userID, net)

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	info, err := mgr.Login(string(password))
	if err != nil {
		fatal("login: %v", err)
	}
	defer mgr.Logout()

	fmt.Printf("Unlocked wallet for user %q\n", userID)
	fmt.Printf("Network: %s\n", info.Network)
	fmt.Printf("Address: %s (%s)\n", info.Address, wallet.DisplayAddress(info.Address))
	if _, ok := mgr.SeedPhrase(); ok {
		fmt.Println("Seed phrase: stored (omitted; use login output in a secure context)")
	} else {
		fmt.Println("Seed phrase: none (imported from raw key)")
	}
}

// ── delete ──────────────────────────────────────────────────────────────

func cmdDelete(cfg *config.Config, userID string, net wallet.Network) {
	db := openDB(cfg)
	defer db.Close()
	mgr := wallet.NewManager(db, userID, net)

	has, err := mgr.HasWallet()
	if err != nil {
		fatal("check stored wallet: %v", err)
	}
	if !has {
		fmt.Printf("No wallet stored for user %q.\n", userID)
		return
	}

	addr, _ := mgr.StoredAddress()
	fmt.Fprintf(os.Stderr, "This permanently erases the wallet %s for user %q.\n", addr, userID)
	fmt.Fprint(os.Stderr, "Type the user id to confirm: ")
	var typed string
	fmt.Scanln(&typed)
	if typed != userID {
		fatal("confirmation did not match; nothing deleted")
	}

	if err := mgr.Disconnect(); err != nil {
		fatal("delete wallet: %v", err)
	}
	fmt.Println("Wallet deleted.")
}

// ── derive ──────────────────────────────────────────────────────────────

func cmdDerive(args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "BIP-39 seed phrase (12 or 24 words)")
	fs.Parse(args)

	if *mnemonic == "" {
		fatal("Usage: wallet-cli derive --mnemonic \"word1 word2 ...\"")
	}
	if err := wallet.ValidateMnemonic(*mnemonic); err != nil {
		fatal("invalid mnemonic: %v", err)
	}

	seed, err := wallet.SeedFromMnemonic(*mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}
	defer wallet.ZeroBytes(seed)

	evmKey, err := wallet.DeriveEvmKey(seed)
	if err != nil {
		fatal("derive EVM key: %v", err)
	}
	defer evmKey.Zero()

	solKey, err := wallet.DeriveSolanaKey(seed)
	if err != nil {
		fatal("derive Solana key: %v", err)
	}
	defer solKey.Zero()

	fmt.Printf("Evm:        %s\n", evmKey.Address())
	fmt.Printf("SolanaLike: %s\n", solKey.Address())
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
