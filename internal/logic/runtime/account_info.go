package runtime

import "trusted-swap-sol/internal/types"

// AccountInfo 是程序在一次调用中看到的账户句柄。
// 同一交易内引用同一地址的 AccountInfo 共享同一份工作副本。
type AccountInfo struct {
	acc        *Account
	IsSigner   bool
	IsWritable bool
}

func (a *AccountInfo) Key() types.Pubkey {
	return a.acc.Key
}

func (a *AccountInfo) Owner() types.Pubkey {
	return a.acc.Owner
}

func (a *AccountInfo) Lamports() uint64 {
	return a.acc.Lamports
}

// Data 返回账户数据的底层切片，程序可原地修改；
// 指令结束后由运行时校验修改是否合法。
func (a *AccountInfo) Data() []byte {
	return a.acc.Data
}

func (a *AccountInfo) DataLen() int {
	return len(a.acc.Data)
}

func (a *AccountInfo) Executable() bool {
	return a.acc.Executable
}

// IsOwnedBy 判断账户是否归属指定程序
func (a *AccountInfo) IsOwnedBy(program types.Pubkey) bool {
	return a.acc.Owner == program
}
