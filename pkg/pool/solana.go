package pool

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/halcyon-games/wallet-core/config"
	"github.com/halcyon-games/wallet-core/internal/backend"
	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/internal/solrpc"
	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
	"github.com/halcyon-games/wallet-core/pkg/soltx"
	"github.com/halcyon-games/wallet-core/pkg/wallet"
)

// confirmAttempts bounds the status polls after a pool withdrawal.
const confirmAttempts = 30

// SolanaService deposits SPL tokens into the platform pool and withdraws
// them with backend-signed authorizations. Transfer operations require
// SetKey first.
type SolanaService struct {
	rpc     *solrpc.Client
	api     *backend.Client
	program solana.PublicKey
	key     *wallet.SolanaKey
}

// NewSolanaService wires the node and backend clients with the pool
// program from settings.
func NewSolanaService(rpc *solrpc.Client, api *backend.Client, cfg config.SolanaConfig) (*SolanaService, error) {
	program, err := solana.PublicKeyFromBase58(cfg.PoolProgram)
	if err != nil {
		return nil, fmt.Errorf("invalid pool program %q: %v: %w", cfg.PoolProgram, err, sdkerr.ErrInvalidInput)
	}
	return &SolanaService{rpc: rpc, api: api, program: program}, nil
}

// SetKey installs the signing key, normally the unlocked wallet's Solana
// key. The key also pays transaction fees.
func (s *SolanaService) SetKey(key *wallet.SolanaKey) {
	s.key = key
}

// ClearKey drops the signing key.
func (s *SolanaService) ClearKey() {
	s.key = nil
}

func (s *SolanaService) keyOrErr() (*wallet.SolanaKey, solana.PublicKey, error) {
	if s.key == nil {
		return nil, solana.PublicKey{}, fmt.Errorf("signing key not set: %w", sdkerr.ErrWallet)
	}
	pub := solana.PublicKeyFromBytes(s.key.Private().Public().(ed25519.PublicKey))
	return s.key, pub, nil
}

// DepositSPL moves amount base units of the mint from the player's token
// account into the pool vault and records the deposit with the backend.
func (s *SolanaService) DepositSPL(ctx context.Context, mint string, amount uint64, userID string) (solana.Signature, error) {
	key, user, err := s.keyOrErr()
	if err != nil {
		return solana.Signature{}, err
	}
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid mint %q: %v: %w", mint, err, sdkerr.ErrInvalidInput)
	}

	accounts, err := s.depositAccounts(user, mintKey)
	if err != nil {
		return solana.Signature{}, err
	}
	ix := soltx.NewDepositInstruction(s.program, accounts, amount, userID)

	blockhash, err := s.rpc.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	txBase64, err := soltx.NewBuilder(user).
		Add(ix).
		SetRecentBlockhash(blockhash).
		SignAndSerialize(key.Private())
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := s.rpc.SendEncodedTransaction(ctx, txBase64, false)
	if err != nil {
		return solana.Signature{}, err
	}
	log.SolPool.Info().Str("signature", sig.String()).Uint64("amount", amount).Msg("pool deposit sent")

	status, err := s.api.SubmitSolanaDeposit(ctx, sig.String(), mint, amount)
	if err != nil {
		return solana.Signature{}, err
	}
	log.SolPool.Debug().Str("status", status).Msg("deposit recorded")
	return sig, nil
}

// WithdrawSPL asks the backend to authorize a pool withdrawal, submits
// the two-instruction transaction (Ed25519 verification first, pool
// withdraw second), waits for confirmation, and records the withdrawal
// with the backend.
func (s *SolanaService) WithdrawSPL(ctx context.Context, mint string, amount uint64) (solana.Signature, error) {
	key, payer, err := s.keyOrErr()
	if err != nil {
		return solana.Signature{}, err
	}
	payload, err := s.api.SolanaWithdrawalSignature(ctx, mint, amount, payer.String())
	if err != nil {
		return solana.Signature{}, err
	}
	req, err := payload.ToWithdrawRequest()
	if err != nil {
		return solana.Signature{}, err
	}

	accounts, err := s.withdrawAccounts(payer, req)
	if err != nil {
		return solana.Signature{}, err
	}
	verifyIx, err := soltx.NewEd25519VerifyInstruction(req.PublicKey, req.Message, req.Signature)
	if err != nil {
		return solana.Signature{}, err
	}
	withdrawIx := soltx.NewWithdrawInstruction(s.program, accounts, req.Amount, req.Nonce, req.UserID, req.SigIxIndex)

	blockhash, err := s.rpc.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	txBase64, err := soltx.NewBuilder(payer).
		Add(verifyIx).
		Add(withdrawIx).
		SetRecentBlockhash(blockhash).
		SignAndSerialize(key.Private())
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := s.rpc.SendEncodedTransaction(ctx, txBase64, false)
	if err != nil {
		return solana.Signature{}, err
	}
	log.SolPool.Info().Str("signature", sig.String()).Uint64("nonce", req.Nonce).Msg("pool withdrawal sent")

	if err := s.rpc.Confirm(ctx, sig, confirmAttempts); err != nil {
		return solana.Signature{}, err
	}
	status, err := s.api.SubmitSolanaWithdrawal(ctx, sig.String())
	if err != nil {
		return solana.Signature{}, err
	}
	log.SolPool.Debug().Str("status", status).Msg("withdrawal recorded")
	return sig, nil
}

func (s *SolanaService) depositAccounts(user, mint solana.PublicKey) (soltx.DepositAccounts, error) {
	configPDA, _, err := soltx.FindProgramAddress(soltx.ConfigSeeds(), s.program)
	if err != nil {
		return soltx.DepositAccounts{}, err
	}
	vaultPDA, _, err := soltx.FindProgramAddress(soltx.VaultSeeds(), s.program)
	if err != nil {
		return soltx.DepositAccounts{}, err
	}
	userATA, err := soltx.DeriveAssociatedTokenAddress(user, mint)
	if err != nil {
		return soltx.DepositAccounts{}, err
	}
	vaultATA, err := soltx.DeriveAssociatedTokenAddress(vaultPDA, mint)
	if err != nil {
		return soltx.DepositAccounts{}, err
	}
	return soltx.DepositAccounts{
		Config:   configPDA,
		Vault:    vaultPDA,
		Mint:     mint,
		User:     user,
		UserATA:  userATA,
		VaultATA: vaultATA,
	}, nil
}

func (s *SolanaService) withdrawAccounts(payer solana.PublicKey, req *soltx.WithdrawRequest) (soltx.WithdrawAccounts, error) {
	configPDA, _, err := soltx.FindProgramAddress(soltx.ConfigSeeds(), s.program)
	if err != nil {
		return soltx.WithdrawAccounts{}, err
	}
	vaultPDA, _, err := soltx.FindProgramAddress(soltx.VaultSeeds(), s.program)
	if err != nil {
		return soltx.WithdrawAccounts{}, err
	}
	nonceMarker, _, err := soltx.FindProgramAddress(soltx.NonceMarkerSeeds(req.Nonce), s.program)
	if err != nil {
		return soltx.WithdrawAccounts{}, err
	}
	vaultATA, err := soltx.DeriveAssociatedTokenAddress(vaultPDA, req.Mint)
	if err != nil {
		return soltx.WithdrawAccounts{}, err
	}
	toATA, err := soltx.DeriveAssociatedTokenAddress(req.To, req.Mint)
	if err != nil {
		return soltx.WithdrawAccounts{}, err
	}
	return soltx.WithdrawAccounts{
		Config:      configPDA,
		Payer:       payer,
		Vault:       vaultPDA,
		NonceMarker: nonceMarker,
		Mint:        req.Mint,
		To:          req.To,
		VaultATA:    vaultATA,
		ToATA:       toATA,
	}, nil
}
