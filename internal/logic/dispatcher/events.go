package dispatcher

import (
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/types"
)

// 事件类型（消息前 4 字节）
const (
	EventTypeReceipt uint32 = 1
	EventTypeBalance uint32 = 2
)

const eventVersion = 1

// ReceiptEvent 交易回执事件，按签名分区
type ReceiptEvent struct {
	Version   uint8
	Signature types.Hash
	Slot      uint64
	Status    uint8
	Error     string
	Logs      []string
}

// BalanceEvent 单个 Token 账户的余额变化
type BalanceEvent struct {
	Signature    types.Hash
	TokenAccount types.Pubkey
	Token        types.Pubkey
	Owner        types.Pubkey
	PreBalance   uint64
	PostBalance  uint64
}

// BalanceEvents 同一分区内的余额事件集合
type BalanceEvents struct {
	Version uint8
	Slot    uint64
	Events  []BalanceEvent
}

func newReceiptEvent(r *core.Receipt) *ReceiptEvent {
	return &ReceiptEvent{
		Version:   eventVersion,
		Signature: r.Signature,
		Slot:      r.Slot,
		Status:    uint8(r.Status),
		Error:     r.ErrMessage(),
		Logs:      r.LogMessages,
	}
}
