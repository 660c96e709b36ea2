package fixedswap

import "trusted-swap-sol/internal/logic/runtime"

// ConsumedIndexRecord 记录本交易内已被兑换过的指令位置。
// 由运行时的交易级临时存储持有，交易结束即丢弃。
type ConsumedIndexRecord struct {
	consumed map[int]struct{}
}

func NewConsumedIndexRecord() *ConsumedIndexRecord {
	return &ConsumedIndexRecord{consumed: make(map[int]struct{})}
}

// Consume 标记 index 已被使用，重复使用返回 ErrInstructionAlreadyConsumed
func (r *ConsumedIndexRecord) Consume(index int) error {
	if _, ok := r.consumed[index]; ok {
		return ErrInstructionAlreadyConsumed
	}
	r.consumed[index] = struct{}{}
	return nil
}

func (r *ConsumedIndexRecord) Len() int {
	return len(r.consumed)
}

// consumedIndexRecord 取本程序在当前交易中的记录，首次访问时创建
func consumedIndexRecord(ictx *runtime.InvokeContext) *ConsumedIndexRecord {
	return ictx.TransientState(func() any {
		return NewConsumedIndexRecord()
	}).(*ConsumedIndexRecord)
}
