package tokenprogram

import (
	"fmt"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/logic/tokenstate"
	"trusted-swap-sol/internal/types"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

// RegisterHandlers 注册 Token Program 入口
func RegisterHandlers(m map[types.Pubkey]runtime.Entrypoint) {
	m[consts.TokenProgram] = Process
}

// Process 是 Token Program 的入口，只实现账本内用到的指令：
// Transfer / TransferChecked / InitializeAccount3
func Process(ictx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidInstruction
	}

	switch data[0] {
	case byte(sdktoken.InstructionTransfer), byte(sdktoken.InstructionTransferChecked):
		keys := make([]types.Pubkey, len(accounts))
		for i, acc := range accounts {
			keys[i] = acc.Key()
		}
		parsed, ok := ParseTransferInstruction(keys, data)
		if !ok {
			return ErrInvalidInstruction
		}
		if parsed.Checked {
			ictx.Log("Instruction: TransferChecked")
			return processTransfer(ictx, accounts[0], accounts[2], accounts[3], accounts[1], parsed)
		}
		ictx.Log("Instruction: Transfer")
		return processTransfer(ictx, accounts[0], accounts[1], accounts[2], nil, parsed)

	case byte(sdktoken.InstructionInitializeAccount3):
		ictx.Log("Instruction: InitializeAccount3")
		return processInitializeAccount3(ictx, accounts, data)

	default:
		return ErrInvalidInstruction
	}
}

func processTransfer(
	ictx *runtime.InvokeContext,
	source, destination, authority, mint *runtime.AccountInfo,
	parsed *ParsedTransfer,
) error {
	src, err := loadTokenAccount(ictx, source)
	if err != nil {
		return err
	}
	dst, err := loadTokenAccount(ictx, destination)
	if err != nil {
		return err
	}
	if src.State == tokenstate.AccountStateFrozen || dst.State == tokenstate.AccountStateFrozen {
		return ErrAccountFrozen
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}

	if mint != nil {
		if mint.Key() != src.Mint {
			return ErrMintMismatch
		}
		m, err := loadMint(ictx, mint)
		if err != nil {
			return err
		}
		if m.Decimals != parsed.Decimals {
			return ErrMintDecimalsMismatch
		}
	}

	if authority.Key() != src.Owner {
		return ErrOwnerMismatch
	}
	if !authority.IsSigner {
		return fmt.Errorf("%w: %s", runtime.ErrMissingRequiredSignature, authority.Key())
	}
	if src.Amount < parsed.Amount {
		return ErrInsufficientFunds
	}

	// 自转账只做校验
	if source.Key() == destination.Key() {
		return nil
	}
	if dst.Amount+parsed.Amount < dst.Amount {
		return ErrOverflow
	}
	if err := tokenstate.WriteAmount(source.Data(), src.Amount-parsed.Amount); err != nil {
		return err
	}
	return tokenstate.WriteAmount(destination.Data(), dst.Amount+parsed.Amount)
}

// processInitializeAccount3: data = [18, owner(32)]，accounts = [account, mint]
func processInitializeAccount3(ictx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	if len(data) < 1+types.PubkeyLength || len(accounts) < 2 {
		return ErrInvalidInstruction
	}
	account, mint := accounts[0], accounts[1]
	if !account.IsOwnedBy(ictx.ProgramID()) {
		return ErrIncorrectProgramID
	}
	if account.DataLen() != tokenstate.AccountSize {
		return ErrInvalidState
	}
	existing, err := tokenstate.Unmarshal(account.Data())
	if err != nil {
		return ErrInvalidState
	}
	if existing.IsInitialized() {
		return ErrAlreadyInUse
	}
	if _, err := loadMint(ictx, mint); err != nil {
		return err
	}

	owner, _ := types.PubkeyFromBytes(data[1 : 1+types.PubkeyLength])
	state := &tokenstate.Account{
		Mint:  mint.Key(),
		Owner: owner,
		State: tokenstate.AccountStateInitialized,
	}
	copy(account.Data(), state.Marshal())
	return nil
}

func loadTokenAccount(ictx *runtime.InvokeContext, acc *runtime.AccountInfo) (*tokenstate.Account, error) {
	if !acc.IsOwnedBy(ictx.ProgramID()) {
		return nil, ErrIncorrectProgramID
	}
	state, err := tokenstate.Unmarshal(acc.Data())
	if err != nil {
		return nil, ErrInvalidState
	}
	if !state.IsInitialized() {
		return nil, ErrUninitializedState
	}
	return state, nil
}

func loadMint(ictx *runtime.InvokeContext, acc *runtime.AccountInfo) (*tokenstate.Mint, error) {
	if !acc.IsOwnedBy(ictx.ProgramID()) {
		return nil, ErrIncorrectProgramID
	}
	m, err := tokenstate.UnmarshalMint(acc.Data())
	if err != nil || !m.IsInitialized {
		return nil, ErrInvalidMint
	}
	return m, nil
}
