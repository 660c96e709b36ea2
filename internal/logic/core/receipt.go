package core

import "trusted-swap-sol/internal/types"

// TxStatus 交易执行结果
type TxStatus uint8

const (
	TxSucceeded TxStatus = 1
	TxFailed    TxStatus = 2
)

func (s TxStatus) String() string {
	switch s {
	case TxSucceeded:
		return "succeeded"
	case TxFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TokenBalance 表示某个 Token 账户在交易执行前后的余额信息。
type TokenBalance struct {
	TokenAccount types.Pubkey
	Token        types.Pubkey // mint
	Owner        types.Pubkey // token 账户所有者
	PreBalance   uint64       // 交易执行前余额（最小单位）
	PostBalance  uint64       // 交易执行后余额，交易失败时等于 PreBalance
}

// Receipt 表示一笔交易的执行回执
type Receipt struct {
	Signature   types.Hash
	Slot        uint64
	Status      TxStatus
	Err         error // 失败原因，成功时为 nil
	LogMessages []string
	Balances    []TokenBalance // 交易涉及的 Token 账户余额快照，按账户出现顺序排列
}

// ErrMessage 返回可序列化的错误描述
func (r *Receipt) ErrMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// BalanceOf 返回指定 Token 账户的余额快照
func (r *Receipt) BalanceOf(account types.Pubkey) (TokenBalance, bool) {
	for _, b := range r.Balances {
		if b.TokenAccount == account {
			return b, true
		}
	}
	return TokenBalance{}, false
}
