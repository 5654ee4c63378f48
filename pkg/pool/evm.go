// Package pool orchestrates transfers between player wallets and the
// game's platform pool: ERC-20/ERC-1155 deposits, backend-authorized
// withdrawals and external transfers on the EVM chain, and SPL deposits
// and signature-gated withdrawals on the Solana-style chain.
package pool

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/halcyon-games/wallet-core/config"
	"github.com/halcyon-games/wallet-core/internal/backend"
	"github.com/halcyon-games/wallet-core/internal/evmrpc"
	"github.com/halcyon-games/wallet-core/internal/log"
	"github.com/halcyon-games/wallet-core/pkg/evmtx"
	"github.com/halcyon-games/wallet-core/pkg/sdkerr"
)

// approveAttempts bounds the receipt polls after an ERC-20 approval.
const approveAttempts = 20

// weiPerToken converts whole 18-decimal token units to wei.
var weiPerToken = new(big.Int).SetUint64(1_000_000_000_000_000_000)

// EVMService moves tokens and game NFTs between the player's wallet, the
// platform pool contract, and external addresses. Reads work without a
// signer; transfer operations require SetSigner first.
type EVMService struct {
	rpc      *evmrpc.Client
	api      *backend.Client
	chainID  uint64
	gasPrice *big.Int
	pool     common.Address
	nft      common.Address
	tokens   map[string]string
	signer   evmtx.Signer
}

// NewEVMService wires the node and backend clients with the chain
// settings.
func NewEVMService(rpc *evmrpc.Client, api *backend.Client, cfg config.EvmConfig) (*EVMService, error) {
	if !common.IsHexAddress(cfg.PoolAddress) {
		return nil, fmt.Errorf("invalid pool address %q: %w", cfg.PoolAddress, sdkerr.ErrInvalidInput)
	}
	if cfg.NFTAddress != "" && !common.IsHexAddress(cfg.NFTAddress) {
		return nil, fmt.Errorf("invalid NFT contract address %q: %w", cfg.NFTAddress, sdkerr.ErrInvalidInput)
	}
	return &EVMService{
		rpc:      rpc,
		api:      api,
		chainID:  cfg.ChainID,
		gasPrice: evmtx.GweiToWei(cfg.GasPriceGwei),
		pool:     common.HexToAddress(cfg.PoolAddress),
		nft:      common.HexToAddress(cfg.NFTAddress),
		tokens:   cfg.Tokens,
	}, nil
}

// SetSigner installs the signing key for transfer operations, normally
// the unlocked wallet's EVM key.
func (s *EVMService) SetSigner(signer evmtx.Signer) {
	s.signer = signer
}

// ClearSigner drops the signing key. Reads keep working.
func (s *EVMService) ClearSigner() {
	s.signer = nil
}

func (s *EVMService) signerOrErr() (evmtx.Signer, error) {
	if s.signer == nil {
		return nil, fmt.Errorf("signing key not set: %w", sdkerr.ErrWallet)
	}
	return s.signer, nil
}

// TokenAddress resolves a configured token symbol to its contract.
func (s *EVMService) TokenAddress(symbol string) (common.Address, error) {
	addr, ok := s.tokens[symbol]
	if !ok {
		return common.Address{}, fmt.Errorf("unknown token %q: %w", symbol, sdkerr.ErrInvalidInput)
	}
	return parseAddress(addr)
}

// TransferTokenToGame deposits whole token units (18 decimals) into the
// platform pool and records the deposit with the backend. When the pool's
// standing allowance is short it first approves unlimited spending and
// waits for that approval to land.
func (s *EVMService) TransferTokenToGame(ctx context.Context, token common.Address, amount uint64, userID string) (string, error) {
	signer, err := s.signerOrErr()
	if err != nil {
		return "", err
	}
	amountWei := new(big.Int).Mul(new(big.Int).SetUint64(amount), weiPerToken)

	allowance, err := s.Allowance(ctx, token, signer.Address(), s.pool)
	if err != nil {
		return "", err
	}
	if allowance.Cmp(amountWei) < 0 {
		data, err := evmtx.ApproveCalldata(s.pool, evmtx.MaxUint256())
		if err != nil {
			return "", err
		}
		approveHash, err := s.send(ctx, signer, token, data, evmtx.GasLimitApprove)
		if err != nil {
			return "", err
		}
		log.EvmPool.Debug().Str("tx", approveHash).Msg("approval sent")
		if _, err := s.rpc.WaitForReceipt(ctx, approveHash, approveAttempts); err != nil {
			return "", err
		}
	}

	data, err := evmtx.DepositCalldata(token, amountWei, userID)
	if err != nil {
		return "", err
	}
	hash, err := s.send(ctx, signer, s.pool, data, evmtx.GasLimitDeposit)
	if err != nil {
		return "", err
	}
	log.EvmPool.Info().Str("tx", hash).Uint64("amount", amount).Msg("pool deposit sent")

	status, err := s.api.SubmitTransaction(ctx, s.chainID, hash, backend.TransactionTypeToken, backend.DirectionGame)
	if err != nil {
		return "", err
	}
	log.EvmPool.Debug().Str("status", status).Msg("deposit recorded")
	return hash, nil
}

// TransferTokenToUser withdraws pool tokens back to the player's wallet.
// The backend authorizes the withdrawal; its response carries every
// parameter the pool contract checks, signature included.
func (s *EVMService) TransferTokenToUser(ctx context.Context, currencyID string, amount int64) (string, error) {
	signer, err := s.signerOrErr()
	if err != nil {
		return "", err
	}
	auth, err := s.api.TokenWithdrawalSignature(ctx, s.chainID, currencyID, amount, signer.Address().Hex())
	if err != nil {
		return "", err
	}
	w, err := parseWithdrawal(auth)
	if err != nil {
		return "", err
	}
	data, err := evmtx.WithdrawCalldata(w.token, w.to, w.amount, w.nonce, w.signature, w.userID)
	if err != nil {
		return "", err
	}
	hash, err := s.send(ctx, signer, w.contract, data, evmtx.GasLimitWithdraw)
	if err != nil {
		return "", err
	}
	log.EvmPool.Info().Str("tx", hash).Str("currency", currencyID).Msg("pool withdrawal sent")

	status, err := s.api.SubmitTransaction(ctx, s.chainID, hash, backend.TransactionTypeToken, backend.DirectionUsersCryptoWallet)
	if err != nil {
		return "", err
	}
	log.EvmPool.Debug().Str("status", status).Msg("withdrawal recorded")
	return hash, nil
}

// TransferToken sends whole token units (18 decimals) to an external
// address. No backend involvement.
func (s *EVMService) TransferToken(ctx context.Context, token, to common.Address, amount uint64) (string, error) {
	signer, err := s.signerOrErr()
	if err != nil {
		return "", err
	}
	amountWei := new(big.Int).Mul(new(big.Int).SetUint64(amount), weiPerToken)
	data, err := evmtx.TransferCalldata(to, amountWei)
	if err != nil {
		return "", err
	}
	hash, err := s.send(ctx, signer, token, data, evmtx.GasLimitTransfer)
	if err != nil {
		return "", err
	}
	log.EvmPool.Info().Str("tx", hash).Msg("external token transfer sent")
	return hash, nil
}

// TransferNFTToGame moves a game NFT into the platform pool. The user id
// rides in the transfer's data bytes so the pool contract can credit the
// right account.
func (s *EVMService) TransferNFTToGame(ctx context.Context, nftID *big.Int, amount uint64, userID string) (string, error) {
	signer, err := s.signerOrErr()
	if err != nil {
		return "", err
	}
	data, err := evmtx.SafeTransferFromCalldata(signer.Address(), s.pool, nftID, new(big.Int).SetUint64(amount), []byte(userID))
	if err != nil {
		return "", err
	}
	hash, err := s.send(ctx, signer, s.nft, data, evmtx.GasLimitNFT)
	if err != nil {
		return "", err
	}
	log.EvmPool.Info().Str("tx", hash).Msg("NFT pool deposit sent")

	status, err := s.api.SubmitTransaction(ctx, s.chainID, hash, backend.TransactionTypeNFT, backend.DirectionGame)
	if err != nil {
		return "", err
	}
	log.EvmPool.Debug().Str("status", status).Msg("NFT deposit recorded")
	return hash, nil
}

// TransferNFTToUser withdraws a game NFT from the platform pool to the
// player's wallet using a backend-issued authorization.
func (s *EVMService) TransferNFTToUser(ctx context.Context, skinID string, amount int64) (string, error) {
	signer, err := s.signerOrErr()
	if err != nil {
		return "", err
	}
	auth, err := s.api.NFTWithdrawalSignature(ctx, s.chainID, skinID, amount, signer.Address().Hex())
	if err != nil {
		return "", err
	}
	w, err := parseWithdrawal(auth)
	if err != nil {
		return "", err
	}
	if w.tokenID == nil {
		return "", fmt.Errorf("withdrawal authorization missing token id: %w", sdkerr.ErrInvalidInput)
	}
	data, err := evmtx.WithdrawNFTCalldata(w.token, w.to, w.tokenID, w.amount, w.nonce, w.signature, w.userID)
	if err != nil {
		return "", err
	}
	hash, err := s.send(ctx, signer, w.contract, data, evmtx.GasLimitWithdraw)
	if err != nil {
		return "", err
	}
	log.EvmPool.Info().Str("tx", hash).Str("skin", skinID).Msg("NFT pool withdrawal sent")

	status, err := s.api.SubmitTransaction(ctx, s.chainID, hash, backend.TransactionTypeNFT, backend.DirectionUsersCryptoWallet)
	if err != nil {
		return "", err
	}
	log.EvmPool.Debug().Str("status", status).Msg("NFT withdrawal recorded")
	return hash, nil
}

// TransferNFT sends a game NFT to an external address. No backend
// involvement.
func (s *EVMService) TransferNFT(ctx context.Context, to common.Address, nftID *big.Int, amount uint64) (string, error) {
	signer, err := s.signerOrErr()
	if err != nil {
		return "", err
	}
	data, err := evmtx.SafeTransferFromCalldata(signer.Address(), to, nftID, new(big.Int).SetUint64(amount), nil)
	if err != nil {
		return "", err
	}
	hash, err := s.send(ctx, signer, s.nft, data, evmtx.GasLimitNFT)
	if err != nil {
		return "", err
	}
	log.EvmPool.Info().Str("tx", hash).Msg("external NFT transfer sent")
	return hash, nil
}

// NativeBalance returns the address's native coin balance in wei.
func (s *EVMService) NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return s.rpc.Balance(ctx, addr)
}

// TokenBalance returns the owner's ERC-20 balance in base units.
func (s *EVMService) TokenBalance(ctx context.Context, owner, token common.Address) (*big.Int, error) {
	data, err := evmtx.BalanceOfCalldata(owner)
	if err != nil {
		return nil, err
	}
	out, err := s.rpc.Call(ctx, evmrpc.CallMsg{To: token, Data: data})
	if err != nil {
		return nil, err
	}
	return evmtx.DecodeUint256(out)
}

// Allowance returns how much of owner's tokens the spender may move.
func (s *EVMService) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data, err := evmtx.AllowanceCalldata(owner, spender)
	if err != nil {
		return nil, err
	}
	out, err := s.rpc.Call(ctx, evmrpc.CallMsg{To: token, Data: data})
	if err != nil {
		return nil, err
	}
	return evmtx.DecodeUint256(out)
}

// NFTBalances returns the owner's balance for each of the given ERC-1155
// token ids.
func (s *EVMService) NFTBalances(ctx context.Context, owner common.Address, ids []*big.Int) ([]*big.Int, error) {
	owners := make([]common.Address, len(ids))
	for i := range owners {
		owners[i] = owner
	}
	data, err := evmtx.BalanceOfBatchCalldata(owners, ids)
	if err != nil {
		return nil, err
	}
	out, err := s.rpc.Call(ctx, evmrpc.CallMsg{To: s.nft, Data: data})
	if err != nil {
		return nil, err
	}
	return evmtx.DecodeUint256Slice(out)
}

// EstimateGas asks the node for a gas estimate of calling the contract
// with the given calldata from the installed signer.
func (s *EVMService) EstimateGas(ctx context.Context, to common.Address, data []byte, value *big.Int) (uint64, error) {
	msg := evmrpc.CallMsg{To: to, Data: data}
	if s.signer != nil {
		from := s.signer.Address()
		msg.From = &from
	}
	if value != nil {
		msg.Value = (*hexutil.Big)(value)
	}
	return s.rpc.EstimateGas(ctx, msg)
}

// EstimateTransferGas estimates an ERC-20 transfer of amount base units.
func (s *EVMService) EstimateTransferGas(ctx context.Context, token, to common.Address, amount *big.Int) (uint64, error) {
	data, err := evmtx.TransferCalldata(to, amount)
	if err != nil {
		return 0, err
	}
	return s.EstimateGas(ctx, token, data, nil)
}

// EstimateDepositGas estimates a pool deposit of amount base units.
func (s *EVMService) EstimateDepositGas(ctx context.Context, token common.Address, amount *big.Int, userID string) (uint64, error) {
	data, err := evmtx.DepositCalldata(token, amount, userID)
	if err != nil {
		return 0, err
	}
	return s.EstimateGas(ctx, s.pool, data, nil)
}

// EstimateApproveGas estimates granting the pool an allowance.
func (s *EVMService) EstimateApproveGas(ctx context.Context, token common.Address, amount *big.Int) (uint64, error) {
	data, err := evmtx.ApproveCalldata(s.pool, amount)
	if err != nil {
		return 0, err
	}
	return s.EstimateGas(ctx, token, data, nil)
}

// HasSufficientGas reports whether the address can cover gasLimit at the
// configured gas price.
func (s *EVMService) HasSufficientGas(ctx context.Context, addr common.Address, gasLimit uint64) (bool, error) {
	balance, err := s.rpc.Balance(ctx, addr)
	if err != nil {
		return false, err
	}
	return evmtx.SufficientGas(balance, s.gasPrice, gasLimit), nil
}

// send signs and broadcasts a transaction to the given contract with the
// account's pending nonce.
func (s *EVMService) send(ctx context.Context, signer evmtx.Signer, to common.Address, data []byte, gasLimit uint64) (string, error) {
	nonce, err := s.rpc.TransactionCount(ctx, signer.Address())
	if err != nil {
		return "", err
	}
	raw, _, err := evmtx.BuildAndSign(evmtx.Params{
		Nonce:    nonce,
		GasPrice: s.gasPrice,
		Gas:      gasLimit,
		To:       to,
		Data:     data,
	}, signer)
	if err != nil {
		return "", err
	}
	return s.rpc.SendRawTransaction(ctx, raw)
}

// withdrawalAuth is a decoded backend withdrawal authorization.
type withdrawalAuth struct {
	contract  common.Address
	token     common.Address
	to        common.Address
	amount    *big.Int
	nonce     *big.Int
	tokenID   *big.Int // NFT withdrawals only
	signature []byte
	userID    string
}

func parseWithdrawal(r *backend.WithdrawalSignatureResult) (*withdrawalAuth, error) {
	w := &withdrawalAuth{userID: r.UserID}
	var err error
	if w.contract, err = parseAddress(r.ContractAddress); err != nil {
		return nil, err
	}
	if w.token, err = parseAddress(r.TokenAddress); err != nil {
		return nil, err
	}
	if w.to, err = parseAddress(r.WalletAddress); err != nil {
		return nil, err
	}
	if w.amount, err = parseDecimal(r.Amount); err != nil {
		return nil, err
	}
	if w.nonce, err = parseDecimal(r.Nonce); err != nil {
		return nil, err
	}
	if r.TokenID != "" {
		if w.tokenID, err = parseDecimal(r.TokenID); err != nil {
			return nil, err
		}
	}
	w.signature, err = hex.DecodeString(strings.TrimPrefix(r.Signature, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode withdrawal signature: %v: %w", err, sdkerr.ErrInvalidInput)
	}
	return w, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q: %w", s, sdkerr.ErrInvalidInput)
	}
	return common.HexToAddress(s), nil
}

func parseDecimal(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, sdkerr.ErrInvalidInput)
	}
	return v, nil
}
