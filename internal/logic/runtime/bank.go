package runtime

import (
	"context"
	"fmt"
	"sync"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/logic/tokenstate"
	"trusted-swap-sol/internal/pkg/logger"
	"trusted-swap-sol/internal/types"
)

// StatusCache 记录已处理的交易签名，用于拒绝重复提交
type StatusCache interface {
	// CheckAndMark 原子地检查并标记签名，首次出现返回 true
	CheckAndMark(ctx context.Context, signature types.Hash) (bool, error)
}

type Option func(*Bank)

func WithStatusCache(cache StatusCache) Option {
	return func(b *Bank) { b.status = cache }
}

func WithSlot(slot uint64) Option {
	return func(b *Bank) { b.slot = slot }
}

func WithMaxInvokeDepth(depth int) Option {
	return func(b *Bank) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// Bank 负责按顺序原子地执行交易：所有指令成功才提交账户修改，否则整体丢弃。
// 交易之间串行执行。
type Bank struct {
	mu       sync.Mutex
	db       *AccountsDB
	programs map[types.Pubkey]Entrypoint
	status   StatusCache
	slot     uint64
	maxDepth int
}

func NewBank(db *AccountsDB, opts ...Option) *Bank {
	b := &Bank{
		db:       db,
		programs: make(map[types.Pubkey]Entrypoint),
		maxDepth: consts.MaxInvokeDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterHandlers 注册程序入口，每个程序模块通过自己的 RegisterHandlers 写入路由表
func (b *Bank) RegisterHandlers(registers ...func(map[types.Pubkey]Entrypoint)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, register := range registers {
		register(b.programs)
	}
}

func (b *Bank) DB() *AccountsDB {
	return b.db
}

func (b *Bank) Slot() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slot
}

func (b *Bank) AdvanceSlot() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slot++
	return b.slot
}

// ProcessTransaction 执行一笔交易。
// 交易被拒绝（签名缺失、重复提交、状态缓存故障）时返回 error 且不产生回执；
// 进入执行后无论成功失败都返回回执，失败原因在 Receipt.Err 中（*InstructionError）。
func (b *Bank) ProcessTransaction(ctx context.Context, tx *core.Transaction) (*core.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sanitize(tx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != nil {
		fresh, err := b.status.CheckAndMark(ctx, tx.Signature)
		if err != nil {
			return nil, fmt.Errorf("status cache: %w", err)
		}
		if !fresh {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyProcessed, tx.Signature)
		}
	}

	txCtx := newTransactionContext(tx, b.db)
	var execErr error
	for i := range tx.Instructions {
		txCtx.current = i
		err := b.invoke(txCtx, &tx.Instructions[i], 1)
		if err == nil && txCtx.nestedErr != nil {
			err = txCtx.nestedErr
			txCtx.log("Program %s failed: nested invocation: %v", tx.Instructions[i].ProgramID, err)
		}
		if err != nil {
			execErr = &InstructionError{Index: i, Err: err}
			break
		}
	}

	receipt := &core.Receipt{
		Signature:   tx.Signature,
		Slot:        b.slot,
		LogMessages: txCtx.logs,
	}
	if execErr != nil {
		receipt.Status = core.TxFailed
		receipt.Err = execErr
		logger.Debugf("[runtime::ProcessTransaction] tx=%s failed: %v", tx.Signature, execErr)
	} else {
		b.db.commit(txCtx.dirtyAccounts())
		receipt.Status = core.TxSucceeded
	}
	receipt.Balances = collectTokenBalances(txCtx, execErr == nil)
	return receipt, nil
}

func (b *Bank) invoke(txCtx *transactionContext, ix *core.Instruction, depth int) error {
	if depth > b.maxDepth {
		return fmt.Errorf("%w: depth=%d", ErrCallDepth, depth)
	}
	entry, ok := b.programs[ix.ProgramID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, ix.ProgramID)
	}

	ictx := &InvokeContext{
		bank:       b,
		txCtx:      txCtx,
		programID:  ix.ProgramID,
		depth:      depth,
		privileges: make(map[types.Pubkey]privilege, len(ix.Accounts)),
		pre:        make(map[types.Pubkey]*Account, len(ix.Accounts)),
	}
	// 同一账户多次出现时权限取并集
	for _, meta := range ix.Accounts {
		if _, ok := txCtx.accounts[meta.Pubkey]; !ok {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, meta.Pubkey)
		}
		p, seen := ictx.privileges[meta.Pubkey]
		if !seen {
			ictx.keys = append(ictx.keys, meta.Pubkey)
		}
		p.signer = p.signer || meta.IsSigner
		p.writable = p.writable || meta.IsWritable
		ictx.privileges[meta.Pubkey] = p
	}
	accounts := make([]*AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		p := ictx.privileges[meta.Pubkey]
		accounts = append(accounts, &AccountInfo{
			acc:        txCtx.accounts[meta.Pubkey],
			IsSigner:   p.signer,
			IsWritable: p.writable,
		})
	}
	ictx.refresh()

	txCtx.log("Program %s invoke [%d]", ix.ProgramID, depth)
	err := ictx.run(entry, accounts, ix.Data)
	if err == nil {
		err = ictx.verify()
	}
	if err != nil {
		txCtx.log("Program %s failed: %v", ix.ProgramID, err)
		return err
	}
	txCtx.log("Program %s success", ix.ProgramID)
	return nil
}

// sanitize 交易结构检查：至少一条指令，声明为 signer 的账户必须已签名
func sanitize(tx *core.Transaction) error {
	if len(tx.Instructions) == 0 {
		return ErrEmptyTransaction
	}
	for i := range tx.Instructions {
		for _, meta := range tx.Instructions[i].Accounts {
			if meta.IsSigner && !tx.IsSigner(meta.Pubkey) {
				return fmt.Errorf("%w: %s (instruction %d)", ErrMissingRequiredSignature, meta.Pubkey, i)
			}
		}
	}
	return nil
}

// collectTokenBalances 汇总交易涉及的 Token 账户余额快照
func collectTokenBalances(txCtx *transactionContext, committed bool) []core.TokenBalance {
	var out []core.TokenBalance
	for _, key := range txCtx.order {
		pre := decodeTokenAccount(txCtx.loaded[key])
		post := pre
		if committed {
			post = decodeTokenAccount(txCtx.accounts[key])
		}
		if pre == nil && post == nil {
			continue
		}

		balance := core.TokenBalance{TokenAccount: key}
		if pre != nil {
			balance.Token = pre.Mint
			balance.Owner = pre.Owner
			balance.PreBalance = pre.Amount
		}
		if post != nil {
			balance.Token = post.Mint
			balance.Owner = post.Owner
			balance.PostBalance = post.Amount
		}
		out = append(out, balance)
	}
	return out
}

func decodeTokenAccount(acc *Account) *tokenstate.Account {
	if acc.Owner != consts.TokenProgram {
		return nil
	}
	state, err := tokenstate.Unmarshal(acc.Data)
	if err != nil || !state.IsInitialized() {
		return nil
	}
	return state
}
