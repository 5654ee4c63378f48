package evmtx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// The method table. Every contract call the SDK makes is declared here;
// the two withdraw variants share a name and differ only in the trailing
// user id argument, which also changes their selectors.
var (
	MethodBalanceOf        = Method{Name: "balanceOf", Args: []Kind{Address}}
	MethodAllowance        = Method{Name: "allowance", Args: []Kind{Address, Address}}
	MethodApprove          = Method{Name: "approve", Args: []Kind{Address, Uint256}}
	MethodTransfer         = Method{Name: "transfer", Args: []Kind{Address, Uint256}}
	MethodSafeTransferFrom = Method{Name: "safeTransferFrom", Args: []Kind{Address, Address, Uint256, Uint256, Bytes}}
	MethodBalanceOfBatch   = Method{Name: "balanceOfBatch", Args: []Kind{AddressSlice, Uint256Slice}}

	MethodDepositERC20      = Method{Name: "depositERC20", Args: []Kind{Address, Uint256, String}}
	MethodWithdrawERC20     = Method{Name: "withdrawERC20", Args: []Kind{Address, Address, Uint256, Uint256, Bytes}}
	MethodWithdrawERC20User = Method{Name: "withdrawERC20", Args: []Kind{Address, Address, Uint256, Uint256, Bytes, String}}

	MethodWithdrawERC1155     = Method{Name: "withdrawERC1155", Args: []Kind{Address, Address, Uint256, Uint256, Uint256, Bytes}}
	MethodWithdrawERC1155User = Method{Name: "withdrawERC1155", Args: []Kind{Address, Address, Uint256, Uint256, Uint256, Bytes, String}}
)

// BalanceOfCalldata queries an ERC-20 or ERC-1155 single balance.
func BalanceOfCalldata(owner common.Address) ([]byte, error) {
	return EncodeCall(MethodBalanceOf, owner)
}

// AllowanceCalldata queries the ERC-20 allowance granted by owner to
// spender.
func AllowanceCalldata(owner, spender common.Address) ([]byte, error) {
	return EncodeCall(MethodAllowance, owner, spender)
}

// ApproveCalldata grants spender the right to move amount tokens.
func ApproveCalldata(spender common.Address, amount *big.Int) ([]byte, error) {
	return EncodeCall(MethodApprove, spender, amount)
}

// TransferCalldata moves amount tokens to the recipient.
func TransferCalldata(to common.Address, amount *big.Int) ([]byte, error) {
	return EncodeCall(MethodTransfer, to, amount)
}

// SafeTransferFromCalldata moves amount of multi-token id from from to
// to, with opaque receiver data.
func SafeTransferFromCalldata(from, to common.Address, id, amount *big.Int, data []byte) ([]byte, error) {
	return EncodeCall(MethodSafeTransferFrom, from, to, id, amount, data)
}

// BalanceOfBatchCalldata queries multiple (owner, id) multi-token
// balances in one call.
func BalanceOfBatchCalldata(owners []common.Address, ids []*big.Int) ([]byte, error) {
	return EncodeCall(MethodBalanceOfBatch, owners, ids)
}

// DepositCalldata moves tokens into the platform pool, attributed to
// the given user.
func DepositCalldata(token common.Address, amount *big.Int, userID string) ([]byte, error) {
	return EncodeCall(MethodDepositERC20, token, amount, userID)
}

// WithdrawCalldata builds the pool withdraw call for fungible tokens.
// A non-empty userID selects the variant with the trailing user id
// argument; the two variants have different selectors.
func WithdrawCalldata(token, to common.Address, amount, nonce *big.Int, signature []byte, userID string) ([]byte, error) {
	if userID != "" {
		return EncodeCall(MethodWithdrawERC20User, token, to, amount, nonce, signature, userID)
	}
	return EncodeCall(MethodWithdrawERC20, token, to, amount, nonce, signature)
}

// WithdrawNFTCalldata builds the pool withdraw call for multi-token
// assets. Variant selection follows WithdrawCalldata.
func WithdrawNFTCalldata(token, to common.Address, id, amount, nonce *big.Int, signature []byte, userID string) ([]byte, error) {
	if userID != "" {
		return EncodeCall(MethodWithdrawERC1155User, token, to, id, amount, nonce, signature, userID)
	}
	return EncodeCall(MethodWithdrawERC1155, token, to, id, amount, nonce, signature)
}
