package fixedswap

import (
	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/logic/tokenprogram"
	"trusted-swap-sol/internal/types"
)

// TransferDescriptor 是从前一条 Transfer 指令解出的转账信息，仅在一次调用内有效
type TransferDescriptor struct {
	Source      types.Pubkey
	Destination types.Pubkey
	Authority   types.Pubkey
	Amount      uint64
}

// ValidateTransfer 校验前一条指令是转入池子输入金库的 Transfer，按顺序检查：
//  1. 程序必须是 Token Program
//  2. 数据必须是 Transfer 布局: [0]=3, [1:9]=amount(LE)，accounts = [src, dest, authority]
//  3. 目标账户必须是 cfg.InputVault
//  4. 数量不为 0
//
// 任何目标不是输入金库的指令都会被拒绝，但返回的错误取决于第一个未通过的检查：
// 程序错误且目标错误时返回 ErrWrongProgram，而不是 ErrDestinationMismatch。
//
// 注意：这里不校验 authority 是否签名，也不要求它与当前调用者相同。
// 只证明交易中确实发生过一笔转入金库的转账。
func ValidateTransfer(ix *core.Instruction, cfg *PoolConfig) (*TransferDescriptor, error) {
	if ix.ProgramID != consts.TokenProgram {
		return nil, ErrWrongProgram
	}

	parsed, ok := tokenprogram.ParseTransferInstruction(ix.AccountKeys(), ix.Data)
	if !ok || parsed.Checked {
		return nil, ErrInvalidTransferData
	}
	if parsed.Destination != cfg.InputVault {
		return nil, ErrDestinationMismatch
	}
	if parsed.Amount == 0 {
		return nil, ErrZeroAmount
	}

	return &TransferDescriptor{
		Source:      parsed.Source,
		Destination: parsed.Destination,
		Authority:   parsed.Authority,
		Amount:      parsed.Amount,
	}, nil
}
