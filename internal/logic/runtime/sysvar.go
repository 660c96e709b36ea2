package runtime

import (
	"fmt"

	"trusted-swap-sol/internal/logic/core"
)

// InstructionsView 是交易指令序列的只读视图（instructions sysvar）。
// CurrentIndex 始终指向当前正在执行的顶层指令，CPI 调用不会改变它。
type InstructionsView interface {
	CurrentIndex() int
	Len() int
	InstructionAt(index int) (core.Instruction, error)
}

type instructionsView struct {
	txCtx *transactionContext
}

func (v instructionsView) CurrentIndex() int {
	return v.txCtx.current
}

func (v instructionsView) Len() int {
	return len(v.txCtx.tx.Instructions)
}

// InstructionAt 返回指定位置指令的副本
func (v instructionsView) InstructionAt(index int) (core.Instruction, error) {
	if index < 0 || index >= len(v.txCtx.tx.Instructions) {
		return core.Instruction{}, fmt.Errorf("%w: %d (len=%d)", ErrInstructionIndexOutOfRange, index, len(v.txCtx.tx.Instructions))
	}
	return v.txCtx.tx.Instructions[index].Clone(), nil
}
