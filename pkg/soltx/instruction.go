package soltx

import (
	"github.com/gagliardetto/solana-go"
)

// Pool program method names.
const (
	MethodDepositSPL  = "deposit_spl"
	MethodWithdrawSPL = "withdraw_spl"
)

// DepositAccounts lists the accounts a deposit_spl instruction touches, in
// the order the pool program declares them.
type DepositAccounts struct {
	Config   solana.PublicKey // pool config PDA
	Vault    solana.PublicKey // pool vault PDA
	Mint     solana.PublicKey
	User     solana.PublicKey // depositor, transaction signer
	UserATA  solana.PublicKey
	VaultATA solana.PublicKey
}

// NewDepositInstruction builds the deposit_spl instruction. Data is the
// method discriminator followed by the amount (u64) and the user id
// (length-prefixed string).
func NewDepositInstruction(programID solana.PublicKey, acc DepositAccounts, amount uint64, userID string) *solana.GenericInstruction {
	disc := Discriminator(MethodDepositSPL)
	amt := EncodeU64(amount)
	data := Concat(disc[:], amt[:], EncodeString(userID))

	metas := solana.AccountMetaSlice{
		{PublicKey: acc.Config},
		{PublicKey: acc.Vault, IsWritable: true},
		{PublicKey: acc.Mint},
		{PublicKey: acc.User, IsSigner: true},
		{PublicKey: acc.UserATA, IsWritable: true},
		{PublicKey: acc.VaultATA, IsWritable: true},
		{PublicKey: TokenProgramID},
		{PublicKey: AssociatedTokenProgramID},
		{PublicKey: SystemProgramID},
	}
	return solana.NewInstruction(programID, metas, data)
}

// WithdrawAccounts lists the accounts a withdraw_spl instruction touches,
// in the order the pool program declares them.
type WithdrawAccounts struct {
	Config      solana.PublicKey // pool config PDA
	Payer       solana.PublicKey // fee payer, transaction signer
	Vault       solana.PublicKey // pool vault PDA
	NonceMarker solana.PublicKey // replay-guard PDA for this nonce
	Mint        solana.PublicKey
	To          solana.PublicKey // recipient wallet
	VaultATA    solana.PublicKey
	ToATA       solana.PublicKey
}

// NewWithdrawInstruction builds the withdraw_spl instruction. Data is the
// method discriminator followed by amount (u64), nonce (u64), user id
// (length-prefixed string) and the index of the Ed25519 verification
// instruction within the same transaction (u8).
func NewWithdrawInstruction(programID solana.PublicKey, acc WithdrawAccounts, amount, nonce uint64, userID string, sigIxIndex uint8) *solana.GenericInstruction {
	disc := Discriminator(MethodWithdrawSPL)
	amt := EncodeU64(amount)
	non := EncodeU64(nonce)
	data := Concat(disc[:], amt[:], non[:], EncodeString(userID), []byte{sigIxIndex})

	metas := solana.AccountMetaSlice{
		{PublicKey: acc.Config},
		{PublicKey: acc.Payer, IsSigner: true},
		{PublicKey: acc.Vault},
		{PublicKey: acc.NonceMarker, IsWritable: true},
		{PublicKey: acc.Mint},
		{PublicKey: acc.To},
		{PublicKey: acc.VaultATA, IsWritable: true},
		{PublicKey: acc.ToATA, IsWritable: true},
		{PublicKey: SysvarInstructionsID},
		{PublicKey: TokenProgramID},
		{PublicKey: AssociatedTokenProgramID},
		{PublicKey: SystemProgramID},
	}
	return solana.NewInstruction(programID, metas, data)
}

// NonceMarkerSeeds returns the PDA seeds guarding a withdrawal nonce
// against replay: the literal "nonce" and the nonce as 8 little-endian
// bytes.
func NonceMarkerSeeds(nonce uint64) [][]byte {
	n := EncodeU64(nonce)
	return [][]byte{[]byte("nonce"), n[:]}
}

// ConfigSeeds returns the pool config PDA seeds.
func ConfigSeeds() [][]byte {
	return [][]byte{[]byte("config")}
}

// VaultSeeds returns the pool vault PDA seeds.
func VaultSeeds() [][]byte {
	return [][]byte{[]byte("vault")}
}
