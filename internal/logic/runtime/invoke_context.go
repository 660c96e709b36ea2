package runtime

import (
	"fmt"
	"runtime/debug"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/pkg/logger"
	"trusted-swap-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
)

// Entrypoint 定义了程序的统一入口签名。
//
// 参数：
//   - ictx:     本次调用的执行上下文（程序 ID、调用深度、交易视图、CPI 等）
//   - accounts: 指令账户句柄，顺序与指令中的 AccountMeta 一致
//   - data:     指令数据
type Entrypoint func(ictx *InvokeContext, accounts []*AccountInfo, data []byte) error

type privilege struct {
	signer   bool
	writable bool
}

// InvokeContext 表示一次程序调用（顶层指令或 CPI）的执行上下文
type InvokeContext struct {
	bank      *Bank
	txCtx     *transactionContext
	programID types.Pubkey
	depth     int

	keys       []types.Pubkey // 本次调用涉及的账户（去重，按出现顺序）
	privileges map[types.Pubkey]privilege
	pre        map[types.Pubkey]*Account // 校验基线，CPI / CreateAccount 之后刷新
}

func (c *InvokeContext) ProgramID() types.Pubkey {
	return c.programID
}

// Depth 调用深度，顶层指令为 1
func (c *InvokeContext) Depth() int {
	return c.depth
}

// Log 写入程序日志
func (c *InvokeContext) Log(format string, args ...interface{}) {
	c.txCtx.log("Program log: "+format, args...)
}

// LoadInstructions 通过 instructions sysvar 账户获取交易指令视图
func (c *InvokeContext) LoadInstructions(sysvar *AccountInfo) (InstructionsView, error) {
	if sysvar == nil || sysvar.Key() != consts.InstructionsSysvar {
		return nil, ErrInvalidSysvar
	}
	return instructionsView{txCtx: c.txCtx}, nil
}

// TransientState 返回当前程序在本交易内的临时状态，首次访问时调用 init 创建。
// 状态以执行中的程序 ID 为键、挂在交易上下文上，交易结束即丢弃。
func (c *InvokeContext) TransientState(init func() any) any {
	if v, ok := c.txCtx.transient[c.programID]; ok {
		return v
	}
	v := init()
	c.txCtx.transient[c.programID] = v
	return v
}

// Invoke 发起跨程序调用（CPI）。signerSeeds 中每组种子都会以当前程序派生出一个
// PDA 作为本次调用的额外签名者。
// 被调用方失败时整笔交易失败，调用方返回 nil 也不能挽回。
func (c *InvokeContext) Invoke(ix core.Instruction, signerSeeds ...[][]byte) error {
	if err := c.invoke(ix, signerSeeds); err != nil {
		c.txCtx.recordNestedFailure(err)
		return err
	}
	return nil
}

func (c *InvokeContext) invoke(ix core.Instruction, signerSeeds [][][]byte) error {
	signed := make(map[types.Pubkey]struct{}, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := createProgramAddress(seeds, c.programID)
		if err != nil {
			return err
		}
		signed[addr] = struct{}{}
	}

	for _, meta := range ix.Accounts {
		caller, ok := c.privileges[meta.Pubkey]
		if !ok {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, meta.Pubkey)
		}
		if meta.IsWritable && !caller.writable {
			return fmt.Errorf("%w: %s writable", ErrPrivilegeEscalation, meta.Pubkey)
		}
		if _, pda := signed[meta.Pubkey]; meta.IsSigner && !caller.signer && !pda {
			return fmt.Errorf("%w: %s signer", ErrPrivilegeEscalation, meta.Pubkey)
		}
	}

	// 调用方在 CPI 之前的修改必须合法
	if err := c.verify(); err != nil {
		return err
	}
	if err := c.bank.invoke(c.txCtx, &ix, c.depth+1); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// CreateAccount 以当前程序的 PDA 签名创建账户：target 必须可写、尚未创建，
// 且 seeds 派生出的地址与 target 一致。
func (c *InvokeContext) CreateAccount(target *AccountInfo, owner types.Pubkey, space int, seeds [][]byte) error {
	key := target.Key()
	if !c.privileges[key].writable {
		return fmt.Errorf("%w: %s writable", ErrPrivilegeEscalation, key)
	}
	if !target.acc.isEmpty() {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, key)
	}
	addr, err := createProgramAddress(seeds, c.programID)
	if err != nil {
		return err
	}
	if addr != key {
		return fmt.Errorf("%w: derived %s, want %s", ErrInvalidSeeds, addr, key)
	}

	target.acc.Owner = owner
	target.acc.Data = make([]byte, space)
	c.pre[key] = target.acc.Clone()
	c.txCtx.log("Program %s create account %s owner=%s space=%d", c.programID, key, owner, space)
	return nil
}

func (c *InvokeContext) run(entry Entrypoint, accounts []*AccountInfo, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[runtime::invoke] program=%s depth=%d panic: %v\nstack: %s",
				c.programID, c.depth, r, debug.Stack())
			err = fmt.Errorf("%w: %v", ErrProgramPanicked, r)
		}
	}()
	return entry(c, accounts, data)
}

// refresh 把当前工作副本作为新的校验基线
func (c *InvokeContext) refresh() {
	for _, key := range c.keys {
		c.pre[key] = c.txCtx.accounts[key].Clone()
	}
}

func createProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, error) {
	if len(seeds) > consts.MaxSignerSeeds {
		return types.Pubkey{}, fmt.Errorf("%w: too many seeds (%d)", ErrInvalidSeeds, len(seeds))
	}
	addr, err := common.CreateProgramAddress(seeds, common.PublicKey(programID))
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
	}
	return types.Pubkey(addr), nil
}
