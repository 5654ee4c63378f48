package wallet

import (
	"errors"
	"fmt"

	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
	"github.com/halcyon-games/wallet-core/pkg/storage"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// Manager owns the wallet lifecycle for a single user: create, import,
// login, logout, disconnect. It is either empty or unlocked; key
// material is only reachable while unlocked.
//
// Manager is not safe for concurrent use. Callers serialize access.
type Manager struct {
	keystore *Keystore
	network  Network

	wallet     *Info
	seedPhrase string
}

// NewManager creates a manager for the given user. network selects the
// chain family used by Create and the import operations.
func NewManager(db storage.DB, userID string, network Network) *Manager {
	return &Manager{
		keystore: NewKeystore(db, userID),
		network:  network,
	}
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", MinPasswordLen, sdkerr.ErrInvalidInput)
	}
	return nil
}

// Create generates a new wallet from a fresh mnemonic, persists it
// encrypted under password, and unlocks the manager. The password is
// checked before any key material is generated.
func (m *Manager) Create(password string, wordCount int) (Info, error) {
	if err := checkPassword(password); err != nil {
		return Info{}, err
	}

	mnemonic, err := GenerateMnemonic(wordCount)
	if err != nil {
		return Info{}, err
	}
	info, err := FromMnemonic(mnemonic, m.network)
	if err != nil {
		return Info{}, err
	}
	if err := m.keystore.Save(info, mnemonic, password); err != nil {
		return Info{}, err
	}

	m.wallet = &info
	m.seedPhrase = mnemonic
	log.Wallet.Info().Str("address", info.Address).Str("network", string(info.Network)).Msg("wallet created")
	return info, nil
}

// ImportSeedPhrase restores a wallet from an existing mnemonic,
// persists it encrypted under password, and unlocks the manager.
func (m *Manager) ImportSeedPhrase(mnemonic, password string) (Info, error) {
	if err := checkPassword(password); err != nil {
		return Info{}, err
	}

	normalized := NormalizeMnemonic(mnemonic)
	info, err := FromMnemonic(normalized, m.network)
	if err != nil {
		return Info{}, err
	}
	if err := m.keystore.Save(info, normalized, password); err != nil {
		return Info{}, err
	}

	m.wallet = &info
	m.seedPhrase = normalized
	log.Wallet.Info().Str("address", info.Address).Msg("wallet imported from seed phrase")
	return info, nil
}

// ImportPrivateKey restores a wallet from a raw private key, persists
// it encrypted under password, and unlocks the manager. A wallet
// imported this way has no seed phrase.
func (m *Manager) ImportPrivateKey(raw, password string) (Info, error) {
	if err := checkPassword(password); err != nil {
		return Info{}, err
	}

	info, err := FromPrivateKey(raw, m.network)
	if err != nil {
		return Info{}, err
	}
	if err := m.keystore.Save(info, "", password); err != nil {
		return Info{}, err
	}

	m.wallet = &info
	m.seedPhrase = ""
	log.Wallet.Info().Str("address", info.Address).Msg("wallet imported from private key")
	return info, nil
}

// Login unlocks the stored wallet. It fails with ErrWallet when no
// wallet exists and ErrAuth when the password check fails.
func (m *Manager) Login(password string) (Info, error) {
	info, seedPhrase, err := m.keystore.Load(password)
	if err != nil {
		return Info{}, err
	}

	m.wallet = &info
	m.seedPhrase = seedPhrase
	log.Wallet.Debug().Str("address", info.Address).Msg("wallet unlocked")
	return info, nil
}

// Logout drops the in-memory wallet. Storage is untouched.
func (m *Manager) Logout() {
	m.wallet = nil
	m.seedPhrase = ""
	log.Wallet.Debug().Msg("wallet locked")
}

// Disconnect deletes the persisted wallet and drops the in-memory
// state. Irreversible; disconnecting with no stored wallet is not an
// error.
func (m *Manager) Disconnect() error {
	if err := m.keystore.Delete(); err != nil {
		return err
	}
	m.Logout()
	log.Wallet.Info().Msg("wallet disconnected")
	return nil
}

// Unlocked reports whether a wallet is currently loaded.
func (m *Manager) Unlocked() bool {
	return m.wallet != nil
}

// Address returns the unlocked wallet's address.
func (m *Manager) Address() (string, bool) {
	if m.wallet == nil {
		return "", false
	}
	return m.wallet.Address, true
}

// PrivateKey returns the unlocked wallet's encoded private key.
func (m *Manager) PrivateKey() (string, bool) {
	if m.wallet == nil {
		return "", false
	}
	return m.wallet.PrivateKey, true
}

// SeedPhrase returns the unlocked wallet's mnemonic. Wallets imported
// from a raw private key have none.
func (m *Manager) SeedPhrase() (string, bool) {
	if m.wallet == nil || m.seedPhrase == "" {
		return "", false
	}
	return m.seedPhrase, true
}

// Network returns the unlocked wallet's network tag.
func (m *Manager) Network() (Network, bool) {
	if m.wallet == nil {
		return "", false
	}
	return m.wallet.Network, true
}

// HasWallet reports whether a wallet is persisted for this user.
// No password required.
func (m *Manager) HasWallet() (bool, error) {
	return m.keystore.HasWallet()
}

// StoredAddress returns the persisted address without unlocking.
func (m *Manager) StoredAddress() (string, error) {
	return m.keystore.Address()
}

// VerifyPassword checks a password against the stored wallet without
// changing manager state. A failed password check returns (false, nil);
// every other failure is returned as an error.
func (m *Manager) VerifyPassword(password string) (bool, error) {
	_, _, err := m.keystore.Load(password)
	if err != nil {
		if errors.Is(err, sdkerr.ErrAuth) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
