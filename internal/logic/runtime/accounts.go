package runtime

import (
	"bytes"
	"sync"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/types"
)

// Account 表示账本中的一个账户
type Account struct {
	Key        types.Pubkey
	Owner      types.Pubkey // 拥有该账户数据写权限的程序
	Lamports   uint64
	Data       []byte
	Executable bool
}

func (a *Account) Clone() *Account {
	out := *a
	out.Data = append([]byte(nil), a.Data...)
	return &out
}

// isEmpty 未创建的账户：归属 System Program 且无数据、无余额
func (a *Account) isEmpty() bool {
	return a.Owner == consts.SystemProgram && len(a.Data) == 0 && a.Lamports == 0 && !a.Executable
}

func (a *Account) equal(other *Account) bool {
	return a.Owner == other.Owner &&
		a.Lamports == other.Lamports &&
		a.Executable == other.Executable &&
		bytes.Equal(a.Data, other.Data)
}

// AccountsDB 保存已提交的账户状态。读写都基于副本，外部修改不会影响已提交数据。
type AccountsDB struct {
	mu       sync.RWMutex
	accounts map[types.Pubkey]*Account
}

func NewAccountsDB() *AccountsDB {
	return &AccountsDB{accounts: make(map[types.Pubkey]*Account)}
}

// Get 返回账户副本
func (db *AccountsDB) Get(key types.Pubkey) (*Account, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	acc, ok := db.accounts[key]
	if !ok {
		return nil, false
	}
	return acc.Clone(), true
}

// Put 写入账户副本（用于创世状态 / 测试数据）
func (db *AccountsDB) Put(acc *Account) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.accounts[acc.Key] = acc.Clone()
}

func (db *AccountsDB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.accounts)
}

// commit 批量提交交易工作副本，要么全部写入要么不写
func (db *AccountsDB) commit(accounts []*Account) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, acc := range accounts {
		if acc.isEmpty() {
			delete(db.accounts, acc.Key)
			continue
		}
		db.accounts[acc.Key] = acc.Clone()
	}
}

// load 读取账户，不存在时返回空账户（归属 System Program）
func (db *AccountsDB) load(key types.Pubkey) *Account {
	if acc, ok := db.Get(key); ok {
		return acc
	}
	return &Account{Key: key, Owner: consts.SystemProgram}
}
