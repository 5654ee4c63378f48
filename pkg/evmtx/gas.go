package evmtx

import (
	"math/big"
)

// Gas limit defaults per operation. Estimation via the node is
// preferred; these are the fallbacks when estimation is skipped or
// fails transiently.
const (
	GasLimitApprove  uint64 = 50_000
	GasLimitTransfer uint64 = 100_000
	GasLimitDeposit  uint64 = 90_000
	GasLimitWithdraw uint64 = 150_000
	GasLimitNFT      uint64 = 100_000
)

// weiPerGwei is the wei value of one gigawei.
var weiPerGwei = big.NewInt(1_000_000_000)

// GweiToWei converts a gas price in gwei to wei.
func GweiToWei(gwei uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gwei), weiPerGwei)
}

// MaxUint256 returns 2^256 - 1, the conventional unlimited-approval
// amount.
func MaxUint256() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}

// GasCost returns gasPrice * gasLimit in wei.
func GasCost(gasPrice *big.Int, gasLimit uint64) *big.Int {
	return new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
}

// SufficientGas reports whether balance covers gasPrice * gasLimit.
func SufficientGas(balance, gasPrice *big.Int, gasLimit uint64) bool {
	return balance.Cmp(GasCost(gasPrice, gasLimit)) >= 0
}
