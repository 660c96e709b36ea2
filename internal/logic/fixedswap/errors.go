package fixedswap

import "fmt"

// SwapError 是兑换程序的自定义错误码
type SwapError uint32

const (
	// 当前指令是交易中的第一条，不存在前一条指令
	ErrNoPrecedingInstruction SwapError = iota + 0x1770

	// 前一条指令不是 Token Program 发出的
	ErrWrongProgram

	// 前一条转账的目标不是池子的输入金库
	ErrDestinationMismatch

	// 前一条转账数量为 0
	ErrZeroAmount

	// 同一条转账指令在本交易内已被兑换过
	ErrInstructionAlreadyConsumed

	// 计算溢出，或兑换结果向下取整后为 0
	ErrArithmeticOverflow

	// 输出金库余额不足
	ErrInsufficientLiquidity

	// 账户列表与池子配置不符
	ErrInvalidAccounts

	// 前一条指令数据无法按 Transfer 布局解码
	ErrInvalidTransferData

	// 本程序指令数据非法
	ErrInvalidInstructionData
)

var swapErrorText = map[SwapError]string{
	ErrNoPrecedingInstruction:     "no preceding instruction",
	ErrWrongProgram:               "preceding instruction is not a token program instruction",
	ErrDestinationMismatch:        "transfer destination is not the pool input vault",
	ErrZeroAmount:                 "transfer amount is zero",
	ErrInstructionAlreadyConsumed: "transfer instruction already consumed",
	ErrArithmeticOverflow:         "arithmetic overflow",
	ErrInsufficientLiquidity:      "insufficient liquidity in output vault",
	ErrInvalidAccounts:            "invalid accounts",
	ErrInvalidTransferData:        "invalid transfer instruction data",
	ErrInvalidInstructionData:     "invalid instruction data",
}

func (e SwapError) Error() string {
	if s, ok := swapErrorText[e]; ok {
		return s
	}
	return fmt.Sprintf("swap error 0x%x", uint32(e))
}

// Code 返回自定义错误码
func (e SwapError) Code() uint32 {
	return uint32(e)
}
