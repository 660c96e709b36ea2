package core

import (
	"trusted-swap-sol/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// AccountMeta 描述指令引用的一个账户及其权限
type AccountMeta struct {
	Pubkey     types.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction 表示交易中的一条指令（顶层指令或 CPI 指令）。
// 进入账本执行后对所有程序只读。
type Instruction struct {
	ProgramID types.Pubkey  // 被调用的程序地址
	Accounts  []AccountMeta // 指令涉及的账户列表，保持原始顺序
	Data      []byte        // 指令数据（由程序自行解码）
}

// Clone 深拷贝，避免调用方通过返回值修改交易内容
func (ix *Instruction) Clone() Instruction {
	out := Instruction{
		ProgramID: ix.ProgramID,
		Accounts:  make([]AccountMeta, len(ix.Accounts)),
		Data:      make([]byte, len(ix.Data)),
	}
	copy(out.Accounts, ix.Accounts)
	copy(out.Data, ix.Data)
	return out
}

// AccountKeys 返回指令账户地址列表
func (ix *Instruction) AccountKeys() []types.Pubkey {
	keys := make([]types.Pubkey, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		keys[i] = meta.Pubkey
	}
	return keys
}

// FromSDKInstruction 将 solana-go-sdk 构造的指令转换为内部结构
func FromSDKInstruction(ix sdktypes.Instruction) Instruction {
	out := Instruction{
		ProgramID: types.Pubkey(ix.ProgramID),
		Accounts:  make([]AccountMeta, 0, len(ix.Accounts)),
		Data:      append([]byte(nil), ix.Data...),
	}
	for _, meta := range ix.Accounts {
		out.Accounts = append(out.Accounts, AccountMeta{
			Pubkey:     types.Pubkey(meta.PubKey),
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		})
	}
	return out
}

// Transaction 表示一笔原子执行的交易：指令按顺序执行，任意一步失败则整体回滚。
type Transaction struct {
	Signature    types.Hash     // 交易唯一标识（用于去重）
	Signers      []types.Pubkey // 已签名的账户集合
	Instructions []Instruction  // 按执行顺序排列的顶层指令
}

// IsSigner 判断 key 是否在交易签名者集合中
func (tx *Transaction) IsSigner(key types.Pubkey) bool {
	for _, s := range tx.Signers {
		if s == key {
			return true
		}
	}
	return false
}
