package tokenprogram

import "fmt"

// TokenError 与 SPL Token 的自定义错误码保持一致
type TokenError uint32

const (
	ErrNotRentExempt TokenError = iota
	ErrInsufficientFunds
	ErrInvalidMint
	ErrMintMismatch
	ErrOwnerMismatch
	_ // FixedSupply
	ErrAlreadyInUse
	_ // InvalidNumberOfProvidedSigners
	_ // InvalidNumberOfRequiredSigners
	ErrUninitializedState
	_ // NativeNotSupported
	_ // NonNativeHasBalance
	ErrInvalidInstruction
	ErrInvalidState
	ErrOverflow
	_ // AuthorityTypeNotSupported
	_ // MintCannotFreeze
	ErrAccountFrozen
	ErrMintDecimalsMismatch
)

const ErrIncorrectProgramID TokenError = 0xff

var tokenErrorText = map[TokenError]string{
	ErrNotRentExempt:        "lamport balance below rent-exempt threshold",
	ErrInsufficientFunds:    "insufficient funds",
	ErrInvalidMint:          "invalid mint",
	ErrMintMismatch:         "account not associated with this mint",
	ErrOwnerMismatch:        "owner does not match",
	ErrAlreadyInUse:         "account or token already in use",
	ErrUninitializedState:   "state is uninitialized",
	ErrInvalidInstruction:   "invalid instruction",
	ErrInvalidState:         "state is invalid for requested operation",
	ErrOverflow:             "operation overflowed",
	ErrAccountFrozen:        "account is frozen",
	ErrMintDecimalsMismatch: "the provided decimals value different from the mint decimals",
	ErrIncorrectProgramID:   "incorrect program id for instruction",
}

func (e TokenError) Error() string {
	if s, ok := tokenErrorText[e]; ok {
		return s
	}
	return fmt.Sprintf("token error 0x%x", uint32(e))
}

// Code 返回自定义错误码
func (e TokenError) Code() uint32 {
	return uint32(e)
}
