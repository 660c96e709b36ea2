package runtime

import (
	"fmt"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/types"
)

// transactionContext 保存一笔交易执行期间的全部临时状态：
// 账户工作副本、当前顶层指令位置、各程序的交易级临时数据与日志。
// 交易结束（提交或回滚）后整体丢弃，不会泄漏到其他交易。
type transactionContext struct {
	tx       *core.Transaction
	order    []types.Pubkey            // 账户首次出现的顺序
	loaded   map[types.Pubkey]*Account // 执行前快照
	accounts map[types.Pubkey]*Account // 工作副本
	current  int

	transient map[types.Pubkey]any // programID → 程序私有的交易级状态
	logs      []string

	// nestedErr 第一次失败的 CPI，调用方吞掉错误也会使所在顶层指令失败
	nestedErr error
}

func newTransactionContext(tx *core.Transaction, db *AccountsDB) *transactionContext {
	txCtx := &transactionContext{
		tx:        tx,
		loaded:    make(map[types.Pubkey]*Account),
		accounts:  make(map[types.Pubkey]*Account),
		transient: make(map[types.Pubkey]any),
	}
	for i := range tx.Instructions {
		ix := &tx.Instructions[i]
		txCtx.add(ix.ProgramID, db)
		for _, meta := range ix.Accounts {
			txCtx.add(meta.Pubkey, db)
		}
	}
	return txCtx
}

func (t *transactionContext) add(key types.Pubkey, db *AccountsDB) {
	if _, ok := t.accounts[key]; ok {
		return
	}
	var acc *Account
	if key == consts.InstructionsSysvar {
		acc = &Account{Key: key, Owner: consts.SysvarOwner}
	} else {
		acc = db.load(key)
	}
	t.order = append(t.order, key)
	t.loaded[key] = acc
	t.accounts[key] = acc.Clone()
}

func (t *transactionContext) log(format string, args ...interface{}) {
	t.logs = append(t.logs, fmt.Sprintf(format, args...))
}

// dirtyAccounts 返回相对执行前有变化的账户
func (t *transactionContext) dirtyAccounts() []*Account {
	var out []*Account
	for _, key := range t.order {
		if key == consts.InstructionsSysvar {
			continue
		}
		if acc := t.accounts[key]; !acc.equal(t.loaded[key]) {
			out = append(out, acc)
		}
	}
	return out
}

func (t *transactionContext) recordNestedFailure(err error) {
	if t.nestedErr == nil {
		t.nestedErr = err
	}
}
