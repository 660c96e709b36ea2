package tokenstate

import (
	"encoding/binary"
	"errors"

	"trusted-swap-sol/internal/types"
)

// 账户布局与 SPL Token 保持一致:
// https://github.com/solana-program/token/blob/main/program/src/state.rs
//
//	[0:32]    mint
//	[32:64]   owner
//	[64:72]   amount (u64 LE)
//	[72:108]  delegate (COption<Pubkey>)
//	[108]     state
//	[109:121] is_native (COption<u64>)
//	[121:129] delegated_amount (u64 LE)
//	[129:165] close_authority (COption<Pubkey>)
const AccountSize = 165

const (
	optionSize = 4

	mintOffset            = 0
	ownerOffset           = 32
	amountOffset          = 64
	delegateOffset        = 72
	stateOffset           = 108
	isNativeOffset        = 109
	delegatedAmountOffset = 121
	closeAuthorityOffset  = 129
)

var ErrInvalidAccountData = errors.New("invalid token account data")

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Account 是 Token 账户的解码结果
type Account struct {
	Mint            types.Pubkey
	Owner           types.Pubkey
	Amount          uint64
	Delegate        *types.Pubkey
	State           AccountState
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *types.Pubkey
}

func (a *Account) IsInitialized() bool {
	return a.State != AccountStateUninitialized
}

func (a *Account) Marshal() []byte {
	b := make([]byte, AccountSize)
	copy(b[mintOffset:], a.Mint[:])
	copy(b[ownerOffset:], a.Owner[:])
	binary.LittleEndian.PutUint64(b[amountOffset:], a.Amount)
	putOptionalKey(b[delegateOffset:], a.Delegate)
	b[stateOffset] = byte(a.State)
	if a.IsNative != nil {
		binary.LittleEndian.PutUint32(b[isNativeOffset:], 1)
		binary.LittleEndian.PutUint64(b[isNativeOffset+optionSize:], *a.IsNative)
	}
	binary.LittleEndian.PutUint64(b[delegatedAmountOffset:], a.DelegatedAmount)
	putOptionalKey(b[closeAuthorityOffset:], a.CloseAuthority)
	return b
}

// Unmarshal 解码 Token 账户，长度不符或状态非法时返回 ErrInvalidAccountData
func Unmarshal(b []byte) (*Account, error) {
	if len(b) != AccountSize {
		return nil, ErrInvalidAccountData
	}
	a := &Account{
		Amount:          binary.LittleEndian.Uint64(b[amountOffset:]),
		State:           AccountState(b[stateOffset]),
		DelegatedAmount: binary.LittleEndian.Uint64(b[delegatedAmountOffset:]),
	}
	if a.State > AccountStateFrozen {
		return nil, ErrInvalidAccountData
	}
	copy(a.Mint[:], b[mintOffset:ownerOffset])
	copy(a.Owner[:], b[ownerOffset:amountOffset])

	var ok bool
	if a.Delegate, ok = getOptionalKey(b[delegateOffset:]); !ok {
		return nil, ErrInvalidAccountData
	}
	if a.CloseAuthority, ok = getOptionalKey(b[closeAuthorityOffset:]); !ok {
		return nil, ErrInvalidAccountData
	}
	switch binary.LittleEndian.Uint32(b[isNativeOffset:]) {
	case 0:
	case 1:
		v := binary.LittleEndian.Uint64(b[isNativeOffset+optionSize:])
		a.IsNative = &v
	default:
		return nil, ErrInvalidAccountData
	}
	return a, nil
}

// ReadAmount 直接读取余额字段，不做完整解码
func ReadAmount(b []byte) (uint64, error) {
	if len(b) != AccountSize {
		return 0, ErrInvalidAccountData
	}
	return binary.LittleEndian.Uint64(b[amountOffset:]), nil
}

// WriteAmount 原地改写余额字段
func WriteAmount(b []byte, amount uint64) error {
	if len(b) != AccountSize {
		return ErrInvalidAccountData
	}
	binary.LittleEndian.PutUint64(b[amountOffset:], amount)
	return nil
}

// OnlyAmountChanged 判断两份账户数据是否仅余额字段不同
func OnlyAmountChanged(pre, post []byte) bool {
	if len(pre) != AccountSize || len(post) != AccountSize {
		return false
	}
	for i := 0; i < AccountSize; i++ {
		if i >= amountOffset && i < delegateOffset {
			continue
		}
		if pre[i] != post[i] {
			return false
		}
	}
	return true
}

func putOptionalKey(b []byte, key *types.Pubkey) {
	if key == nil {
		return
	}
	binary.LittleEndian.PutUint32(b, 1)
	copy(b[optionSize:], key[:])
}

func getOptionalKey(b []byte) (*types.Pubkey, bool) {
	switch binary.LittleEndian.Uint32(b) {
	case 0:
		return nil, true
	case 1:
		var key types.Pubkey
		copy(key[:], b[optionSize:optionSize+types.PubkeyLength])
		return &key, true
	default:
		return nil, false
	}
}
