package wallet

import (
	"errors"
	"fmt"

	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
	"github.com/halcyon-games/wallet-core/pkg/storage"
)

// Record purposes. Each wallet persists as four entries keyed
// <purpose>_<userID>.
const (
	recordPrivateKey = "encrypted_private_key"
	recordSeedPhrase = "encrypted_seed_phrase"
	recordAddress    = "address"
	recordNetwork    = "network"
)

// Keystore persists encrypted wallet records for one user in a
// key-value store. The private key and seed phrase are never written
// in plaintext; address and network tag are stored as-is so they can
// be read without a password.
type Keystore struct {
	db     storage.DB
	userID string
}

// NewKeystore creates a keystore for the given user over db.
func NewKeystore(db storage.DB, userID string) *Keystore {
	return &Keystore{db: db, userID: userID}
}

func (ks *Keystore) recordKey(purpose string) []byte {
	return []byte(purpose + "_" + ks.userID)
}

// Save encrypts and writes the wallet records. seedPhrase may be empty
// (private-key imports have none); an empty seed phrase removes any
// stale seed record from a previous wallet.
func (ks *Keystore) Save(info Info, seedPhrase, password string) error {
	if !info.Network.Valid() {
		return fmt.Errorf("unknown network %q: %w", info.Network, sdkerr.ErrInvalidInput)
	}

	encKey, err := EncryptString(info.PrivateKey, password)
	if err != nil {
		return fmt.Errorf("encrypt private key: %w", err)
	}
	if err := ks.db.Put(ks.recordKey(recordPrivateKey), []byte(encKey)); err != nil {
		return fmt.Errorf("store private key: %w", err)
	}

	if seedPhrase != "" {
		encSeed, err := EncryptString(seedPhrase, password)
		if err != nil {
			return fmt.Errorf("encrypt seed phrase: %w", err)
		}
		if err := ks.db.Put(ks.recordKey(recordSeedPhrase), []byte(encSeed)); err != nil {
			return fmt.Errorf("store seed phrase: %w", err)
		}
	} else if err := ks.db.Delete(ks.recordKey(recordSeedPhrase)); err != nil {
		return fmt.Errorf("clear seed phrase: %w", err)
	}

	if err := ks.db.Put(ks.recordKey(recordAddress), []byte(info.Address)); err != nil {
		return fmt.Errorf("store address: %w", err)
	}
	if err := ks.db.Put(ks.recordKey(recordNetwork), []byte(info.Network)); err != nil {
		return fmt.Errorf("store network: %w", err)
	}
	log.Keystore.Debug().Str("user", ks.userID).Str("address", info.Address).Msg("wallet records saved")
	return nil
}

// Load reads and decrypts the stored wallet. It fails with ErrWallet
// when no wallet exists and ErrAuth when decryption produces invalid
// text. The seed phrase is empty for wallets imported from a raw
// private key.
func (ks *Keystore) Load(password string) (Info, string, error) {
	address, err := ks.db.Get(ks.recordKey(recordAddress))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return Info{}, "", fmt.Errorf("no wallet for user %q: %w", ks.userID, sdkerr.ErrWallet)
		}
		return Info{}, "", fmt.Errorf("read address: %w", err)
	}

	network, err := ks.db.Get(ks.recordKey(recordNetwork))
	if err != nil {
		return Info{}, "", fmt.Errorf("read network: %w", err)
	}

	encKey, err := ks.db.Get(ks.recordKey(recordPrivateKey))
	if err != nil {
		return Info{}, "", fmt.Errorf("read private key: %w", err)
	}
	privateKey, err := DecryptString(string(encKey), password)
	if err != nil {
		return Info{}, "", fmt.Errorf("decrypt private key: %w", err)
	}

	var seedPhrase string
	encSeed, err := ks.db.Get(ks.recordKey(recordSeedPhrase))
	switch {
	case err == nil:
		seedPhrase, err = DecryptString(string(encSeed), password)
		if err != nil {
			return Info{}, "", fmt.Errorf("decrypt seed phrase: %w", err)
		}
	case errors.Is(err, storage.ErrKeyNotFound):
		// Wallet was imported from a raw private key.
	default:
		return Info{}, "", fmt.Errorf("read seed phrase: %w", err)
	}

	info := Info{
		Address:    string(address),
		PrivateKey: privateKey,
		Network:    Network(network),
	}
	return info, seedPhrase, nil
}

// HasWallet reports whether a wallet record exists. No password needed.
func (ks *Keystore) HasWallet() (bool, error) {
	return ks.db.Has(ks.recordKey(recordAddress))
}

// Address returns the stored address without decrypting anything.
// Fails with ErrWallet when no wallet exists.
func (ks *Keystore) Address() (string, error) {
	addr, err := ks.db.Get(ks.recordKey(recordAddress))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", fmt.Errorf("no wallet for user %q: %w", ks.userID, sdkerr.ErrWallet)
		}
		return "", fmt.Errorf("read address: %w", err)
	}
	return string(addr), nil
}

// Network returns the stored network tag without decrypting anything.
// Fails with ErrWallet when no wallet exists.
func (ks *Keystore) Network() (Network, error) {
	network, err := ks.db.Get(ks.recordKey(recordNetwork))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", fmt.Errorf("no wallet for user %q: %w", ks.userID, sdkerr.ErrWallet)
		}
		return "", fmt.Errorf("read network: %w", err)
	}
	return Network(network), nil
}

// Delete removes all wallet records. Deleting a missing wallet is not
// an error.
func (ks *Keystore) Delete() error {
	for _, purpose := range []string{recordPrivateKey, recordSeedPhrase, recordAddress, recordNetwork} {
		if err := ks.db.Delete(ks.recordKey(purpose)); err != nil {
			return fmt.Errorf("delete %s: %w", purpose, err)
		}
	}
	log.Keystore.Debug().Str("user", ks.userID).Msg("wallet records deleted")
	return nil
}
