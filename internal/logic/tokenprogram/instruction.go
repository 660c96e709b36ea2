package tokenprogram

import (
	"encoding/binary"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

// 合约源代码:
// SplToken: https://github.com/solana-program/token/blob/main/program/src/instruction.rs

// ParsedTransfer 表示一条 Transfer 或 TransferChecked 指令的解码结果
type ParsedTransfer struct {
	Checked     bool          // 是否为 TransferChecked
	Source      types.Pubkey  // 来源 TokenAccount
	Mint        *types.Pubkey // 仅 TransferChecked 携带
	Destination types.Pubkey  // 目标 TokenAccount
	Authority   types.Pubkey  // 来源账户所有者
	Amount      uint64        // 转账数量（最小单位）
	Decimals    uint8         // 仅 TransferChecked 携带
}

// ParseTransferInstruction 解析 Transfer / TransferChecked 指令，
// 数据或账户长度不足、指令类型不符时返回 false
func ParseTransferInstruction(keys []types.Pubkey, data []byte) (*ParsedTransfer, bool) {
	if len(data) < 9 || len(keys) < 3 {
		return nil, false
	}

	switch data[0] {
	// Transfer: [0]=instr, [1:9]=amount
	// accounts = [src_account, dest_account, authority_wallet]
	case byte(sdktoken.InstructionTransfer):
		return &ParsedTransfer{
			Source:      keys[0],
			Destination: keys[1],
			Authority:   keys[2],
			Amount:      binary.LittleEndian.Uint64(data[1:9]),
		}, true

	// TransferChecked: [0]=instr, [1:9]=amount, [9]=decimals
	// accounts = [src_account, mint, dest_account, authority_wallet]
	case byte(sdktoken.InstructionTransferChecked):
		if len(data) < 10 || len(keys) < 4 {
			return nil, false
		}
		mint := keys[1]
		return &ParsedTransfer{
			Checked:     true,
			Source:      keys[0],
			Mint:        &mint,
			Destination: keys[2],
			Authority:   keys[3],
			Amount:      binary.LittleEndian.Uint64(data[1:9]),
			Decimals:    data[9],
		}, true
	}
	return nil, false
}

// NewTransferInstruction 构造 Transfer 指令
func NewTransferInstruction(source, destination, authority types.Pubkey, amount uint64) core.Instruction {
	return core.FromSDKInstruction(sdktoken.Transfer(sdktoken.TransferParam{
		From:   common.PublicKey(source),
		To:     common.PublicKey(destination),
		Auth:   common.PublicKey(authority),
		Amount: amount,
	}))
}

// NewTransferCheckedInstruction 构造 TransferChecked 指令
func NewTransferCheckedInstruction(source, mint, destination, authority types.Pubkey, amount uint64, decimals uint8) core.Instruction {
	return core.FromSDKInstruction(sdktoken.TransferChecked(sdktoken.TransferCheckedParam{
		From:     common.PublicKey(source),
		To:       common.PublicKey(destination),
		Mint:     common.PublicKey(mint),
		Auth:     common.PublicKey(authority),
		Amount:   amount,
		Decimals: decimals,
	}))
}

// NewInitializeAccount3Instruction 构造 InitializeAccount3 指令
// data = [18, owner(32)]，accounts = [account(w), mint]
func NewInitializeAccount3Instruction(account, mint, owner types.Pubkey) core.Instruction {
	data := make([]byte, 1+types.PubkeyLength)
	data[0] = byte(sdktoken.InstructionInitializeAccount3)
	copy(data[1:], owner[:])
	return core.Instruction{
		ProgramID: consts.TokenProgram,
		Accounts: []core.AccountMeta{
			{Pubkey: account, IsWritable: true},
			{Pubkey: mint},
		},
		Data: data,
	}
}
