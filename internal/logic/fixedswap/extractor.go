package fixedswap

import (
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/logic/runtime"
)

// PreviousInstruction 返回当前顶层指令的前一条指令及其位置。
// 只按位置查找，不检查内容。
func PreviousInstruction(view runtime.InstructionsView) (int, core.Instruction, error) {
	current := view.CurrentIndex()
	if current == 0 {
		return 0, core.Instruction{}, ErrNoPrecedingInstruction
	}
	ix, err := view.InstructionAt(current - 1)
	if err != nil {
		return 0, core.Instruction{}, err
	}
	return current - 1, ix, nil
}
