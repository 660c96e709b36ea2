package fixedswap

import (
	"fmt"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/logic/tokenstate"
	"trusted-swap-sol/internal/pkg/logger"
	"trusted-swap-sol/internal/types"
)

// RegisterHandlers 注册兑换程序入口
func RegisterHandlers(m map[types.Pubkey]runtime.Entrypoint) {
	m[consts.FixedSwapProgram] = Process
}

// Process 是兑换程序的入口，data[0] 为指令类型
func Process(ictx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidInstructionData
	}

	switch data[0] {
	case InstructionInitialize:
		ictx.Log("Instruction: Initialize")
		return processInitialize(ictx, accounts, data[1:])
	case InstructionSwap:
		ictx.Log("Instruction: Swap")
		return processSwap(ictx, accounts)
	default:
		return ErrInvalidInstructionData
	}
}

// SwapStage 一次兑换调用的执行阶段
type SwapStage uint8

const (
	StageStart SwapStage = iota
	StagePrevLookedUp
	StageValidated
	StageReplayChecked
	StagePriced
	StageSettled
)

func (s SwapStage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StagePrevLookedUp:
		return "prev_looked_up"
	case StageValidated:
		return "validated"
	case StageReplayChecked:
		return "replay_checked"
	case StagePriced:
		return "priced"
	case StageSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// swapAccounts 兑换指令的账户
// accounts = [pool, userOutputToken(w), inputVault, outputVault(w), instructionsSysvar]
type swapAccounts struct {
	pool        *runtime.AccountInfo
	userOutput  *runtime.AccountInfo
	inputVault  *runtime.AccountInfo
	outputVault *runtime.AccountInfo
	sysvar      *runtime.AccountInfo
}

func processSwap(ictx *runtime.InvokeContext, accounts []*runtime.AccountInfo) error {
	stage := StageStart
	err := executeSwap(ictx, accounts, &stage)
	if err != nil {
		logger.Debugf("[FixedSwap::Swap] depth=%d failed after stage=%s: %v", ictx.Depth(), stage, err)
		return err
	}
	return nil
}

func executeSwap(ictx *runtime.InvokeContext, accounts []*runtime.AccountInfo, stage *SwapStage) error {
	accs, cfg, err := loadSwapAccounts(ictx, accounts)
	if err != nil {
		return err
	}
	view, err := ictx.LoadInstructions(accs.sysvar)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccounts, err)
	}

	index, prev, err := PreviousInstruction(view)
	if err != nil {
		return err
	}
	*stage = StagePrevLookedUp

	transfer, err := ValidateTransfer(&prev, cfg)
	if err != nil {
		return err
	}
	*stage = StageValidated

	if err := consumedIndexRecord(ictx).Consume(index); err != nil {
		return err
	}
	*stage = StageReplayChecked

	amountOut, err := QuoteAmountOut(transfer.Amount, cfg.RateNumerator, cfg.RateDenominator)
	if err != nil {
		return err
	}
	*stage = StagePriced

	if err := Settle(accs.outputVault, accs.userOutput, amountOut); err != nil {
		return err
	}
	*stage = StageSettled

	ictx.Log("swap settled: transfer_index=%d source=%s amount_in=%d amount_out=%d recipient=%s",
		index, transfer.Source, transfer.Amount, amountOut, accs.userOutput.Key())
	return nil
}

// loadSwapAccounts 校验账户列表与池子配置一致
func loadSwapAccounts(ictx *runtime.InvokeContext, accounts []*runtime.AccountInfo) (*swapAccounts, *PoolConfig, error) {
	if len(accounts) < 5 {
		return nil, nil, fmt.Errorf("%w: expected 5 accounts, got %d", ErrInvalidAccounts, len(accounts))
	}
	accs := &swapAccounts{
		pool:        accounts[0],
		userOutput:  accounts[1],
		inputVault:  accounts[2],
		outputVault: accounts[3],
		sysvar:      accounts[4],
	}

	cfg, err := LoadPoolConfig(ictx.ProgramID(), accs.pool)
	if err != nil {
		return nil, nil, err
	}
	if accs.inputVault.Key() != cfg.InputVault {
		return nil, nil, fmt.Errorf("%w: input vault %s", ErrInvalidAccounts, accs.inputVault.Key())
	}
	if accs.outputVault.Key() != cfg.OutputVault {
		return nil, nil, fmt.Errorf("%w: output vault %s", ErrInvalidAccounts, accs.outputVault.Key())
	}
	if !accs.outputVault.IsWritable || !accs.userOutput.IsWritable {
		return nil, nil, fmt.Errorf("%w: output vault and recipient must be writable", ErrInvalidAccounts)
	}
	if accs.userOutput.Key() == accs.outputVault.Key() {
		return nil, nil, fmt.Errorf("%w: recipient is the output vault", ErrInvalidAccounts)
	}

	vault, err := loadTokenAccount(accs.outputVault)
	if err != nil || vault.Mint != cfg.OutputMint || vault.Owner != accs.pool.Key() {
		return nil, nil, fmt.Errorf("%w: output vault %s", ErrInvalidAccounts, accs.outputVault.Key())
	}
	recipient, err := loadTokenAccount(accs.userOutput)
	if err != nil || recipient.Mint != cfg.OutputMint {
		return nil, nil, fmt.Errorf("%w: recipient %s", ErrInvalidAccounts, accs.userOutput.Key())
	}
	return accs, cfg, nil
}

func loadTokenAccount(acc *runtime.AccountInfo) (*tokenstate.Account, error) {
	if !acc.IsOwnedBy(consts.TokenProgram) {
		return nil, ErrInvalidAccounts
	}
	state, err := tokenstate.Unmarshal(acc.Data())
	if err != nil || state.State != tokenstate.AccountStateInitialized {
		return nil, ErrInvalidAccounts
	}
	return state, nil
}
