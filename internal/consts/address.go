package consts

import "trusted-swap-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr = "11111111111111111111111111111111"
	TokenProgramStr  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	// Sysvars
	SysvarOwnerStr        = "Sysvar1111111111111111111111111111111111111"
	InstructionsSysvarStr = "Sysvar1nstructions1111111111111111111111111"
)

var (
	// Programs
	SystemProgram = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram  = types.PubkeyFromBase58(TokenProgramStr)

	// FixedSwapProgram 固定汇率兑换程序地址（32 个 0x05）
	FixedSwapProgram = filledPubkey(5)

	SysvarOwner = types.PubkeyFromBase58(SysvarOwnerStr)

	// InstructionsSysvar 交易指令自省账户，程序通过它读取整笔交易的指令序列
	InstructionsSysvar = types.PubkeyFromBase58(InstructionsSysvarStr)
)

func filledPubkey(b byte) types.Pubkey {
	var p types.Pubkey
	for i := range p {
		p[i] = b
	}
	return p
}
