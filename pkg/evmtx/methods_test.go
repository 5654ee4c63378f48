package evmtx

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"
)

func TestBalanceOfCalldata(t *testing.T) {
	got, err := BalanceOfCalldata(testOwner)
	if err != nil {
		t.Fatalf("BalanceOfCalldata() error: %v", err)
	}
	want := "70a082310000000000000000000000009858effd232b4033e47d90003d41ec34ecaeda94"
	if hex.EncodeToString(got) != want {
		t.Errorf("calldata = %s, want %s", hex.EncodeToString(got), want)
	}
}

func TestAllowanceCalldata(t *testing.T) {
	got, err := AllowanceCalldata(testOwner, testSpender)
	if err != nil {
		t.Fatalf("AllowanceCalldata() error: %v", err)
	}
	want := "dd62ed3e" +
		"0000000000000000000000009858effd232b4033e47d90003d41ec34ecaeda94" +
		"0000000000000000000000005fbdb2315678afecb367f032d93f642f64180aa3"
	if hex.EncodeToString(got) != want {
		t.Errorf("calldata = %s, want %s", hex.EncodeToString(got), want)
	}
}

func TestApproveCalldata_Unlimited(t *testing.T) {
	got, err := ApproveCalldata(testSpender, MaxUint256())
	if err != nil {
		t.Fatalf("ApproveCalldata() error: %v", err)
	}
	want := "095ea7b3" +
		"0000000000000000000000005fbdb2315678afecb367f032d93f642f64180aa3" +
		strings.Repeat("f", 64)
	if hex.EncodeToString(got) != want {
		t.Errorf("calldata = %s, want %s", hex.EncodeToString(got), want)
	}
}

func TestWithdrawCalldata_NoUserID(t *testing.T) {
	amount, _ := new(big.Int).SetString("6124fee993bc0000", 16) // 7e18
	got, err := WithdrawCalldata(testToken, testOwner, amount, big.NewInt(42),
		[]byte{0xde, 0xad, 0xbe, 0xef}, "")
	if err != nil {
		t.Fatalf("WithdrawCalldata() error: %v", err)
	}

	want := "0d8a1b1e" +
		"00000000000000000000000041e94eb019c0762f9bfcf9fb1e58725bfb0e7582" +
		"0000000000000000000000009858effd232b4033e47d90003d41ec34ecaeda94" +
		"0000000000000000000000000000000000000000000000006124fee993bc0000" +
		"000000000000000000000000000000000000000000000000000000000000002a" +
		"00000000000000000000000000000000000000000000000000000000000000a0" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"deadbeef00000000000000000000000000000000000000000000000000000000"
	if hex.EncodeToString(got) != want {
		t.Errorf("calldata = %s, want %s", hex.EncodeToString(got), want)
	}
}

func TestWithdrawCalldata_WithUserID(t *testing.T) {
	amount, _ := new(big.Int).SetString("6124fee993bc0000", 16)
	got, err := WithdrawCalldata(testToken, testOwner, amount, big.NewInt(42),
		[]byte{0xde, 0xad, 0xbe, 0xef}, "player-77")
	if err != nil {
		t.Fatalf("WithdrawCalldata() error: %v", err)
	}

	want := "f2f09d09" +
		"00000000000000000000000041e94eb019c0762f9bfcf9fb1e58725bfb0e7582" +
		"0000000000000000000000009858effd232b4033e47d90003d41ec34ecaeda94" +
		"0000000000000000000000000000000000000000000000006124fee993bc0000" +
		"000000000000000000000000000000000000000000000000000000000000002a" +
		"00000000000000000000000000000000000000000000000000000000000000c0" +
		"0000000000000000000000000000000000000000000000000000000000000100" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"deadbeef00000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000009" +
		"706c617965722d37370000000000000000000000000000000000000000000000"
	if hex.EncodeToString(got) != want {
		t.Errorf("calldata = %s, want %s", hex.EncodeToString(got), want)
	}
}

func TestWithdrawCalldata_SelectorSwitch(t *testing.T) {
	// The user-bound variant must call a different contract method.
	amount := big.NewInt(1)
	v1, err := WithdrawCalldata(testToken, testOwner, amount, big.NewInt(1), nil, "")
	if err != nil {
		t.Fatalf("WithdrawCalldata() error: %v", err)
	}
	v2, err := WithdrawCalldata(testToken, testOwner, amount, big.NewInt(1), nil, "u")
	if err != nil {
		t.Fatalf("WithdrawCalldata() error: %v", err)
	}
	if hex.EncodeToString(v1[:4]) == hex.EncodeToString(v2[:4]) {
		t.Error("selector did not change with user id")
	}
}

func TestWithdrawNFTCalldata_SelectorSwitch(t *testing.T) {
	one := big.NewInt(1)
	v1, err := WithdrawNFTCalldata(testToken, testOwner, one, one, one, nil, "")
	if err != nil {
		t.Fatalf("WithdrawNFTCalldata() error: %v", err)
	}
	v2, err := WithdrawNFTCalldata(testToken, testOwner, one, one, one, nil, "u")
	if err != nil {
		t.Fatalf("WithdrawNFTCalldata() error: %v", err)
	}

	wantV1 := MethodWithdrawERC1155.Selector()
	wantV2 := MethodWithdrawERC1155User.Selector()
	if hex.EncodeToString(v1[:4]) != hex.EncodeToString(wantV1[:]) {
		t.Errorf("v1 selector = %x, want %x", v1[:4], wantV1)
	}
	if hex.EncodeToString(v2[:4]) != hex.EncodeToString(wantV2[:]) {
		t.Errorf("v2 selector = %x, want %x", v2[:4], wantV2)
	}
}

func TestDepositCalldata_NilAmount(t *testing.T) {
	if _, err := DepositCalldata(testToken, nil, "player-77"); err == nil {
		t.Error("expected error for nil amount")
	}
}
