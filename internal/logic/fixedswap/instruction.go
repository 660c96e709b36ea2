package fixedswap

import (
	"encoding/binary"
	"fmt"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
)

// 指令类型（data[0]）
const (
	InstructionInitialize uint8 = 0
	InstructionSwap       uint8 = 1
)

// PoolAddresses 池子及金库的 PDA 地址
//
//	pool         = PDA([inputMint, outputMint])
//	input vault  = PDA([pool, inputMint])
//	output vault = PDA([pool, outputMint])
type PoolAddresses struct {
	Pool            types.Pubkey
	PoolBump        uint8
	InputVault      types.Pubkey
	InputVaultBump  uint8
	OutputVault     types.Pubkey
	OutputVaultBump uint8
}

func DerivePoolAddresses(programID, inputMint, outputMint types.Pubkey) (*PoolAddresses, error) {
	var out PoolAddresses
	var err error
	if out.Pool, out.PoolBump, err = findProgramAddress(programID, inputMint[:], outputMint[:]); err != nil {
		return nil, err
	}
	if out.InputVault, out.InputVaultBump, err = findProgramAddress(programID, out.Pool[:], inputMint[:]); err != nil {
		return nil, err
	}
	if out.OutputVault, out.OutputVaultBump, err = findProgramAddress(programID, out.Pool[:], outputMint[:]); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewInitializeInstruction 构造初始化指令
// data = [0, rateNumerator(u64 LE), rateDenominator(u64 LE)]
// accounts = [payer(s,w), pool(w), inputVault(w), outputVault(w), inputMint, outputMint]
func NewInitializeInstruction(programID, payer, inputMint, outputMint types.Pubkey, numerator, denominator uint64) (core.Instruction, error) {
	addrs, err := DerivePoolAddresses(programID, inputMint, outputMint)
	if err != nil {
		return core.Instruction{}, err
	}

	data := make([]byte, 17)
	data[0] = InstructionInitialize
	binary.LittleEndian.PutUint64(data[1:9], numerator)
	binary.LittleEndian.PutUint64(data[9:17], denominator)

	return core.Instruction{
		ProgramID: programID,
		Accounts: []core.AccountMeta{
			{Pubkey: payer, IsSigner: true, IsWritable: true},
			{Pubkey: addrs.Pool, IsWritable: true},
			{Pubkey: addrs.InputVault, IsWritable: true},
			{Pubkey: addrs.OutputVault, IsWritable: true},
			{Pubkey: inputMint},
			{Pubkey: outputMint},
		},
		Data: data,
	}, nil
}

// NewSwapInstruction 构造兑换指令，必须紧跟在一条转入 inputVault 的 Transfer 之后
// data = [1]
// accounts = [pool, userOutputToken(w), inputVault, outputVault(w), instructionsSysvar]
func NewSwapInstruction(programID, pool, userOutputToken, inputVault, outputVault types.Pubkey) core.Instruction {
	return core.Instruction{
		ProgramID: programID,
		Accounts: []core.AccountMeta{
			{Pubkey: pool},
			{Pubkey: userOutputToken, IsWritable: true},
			{Pubkey: inputVault},
			{Pubkey: outputVault, IsWritable: true},
			{Pubkey: consts.InstructionsSysvar},
		},
		Data: []byte{InstructionSwap},
	}
}

func findProgramAddress(programID types.Pubkey, seeds ...[]byte) (types.Pubkey, uint8, error) {
	addr, bump, err := common.FindProgramAddress(seeds, common.PublicKey(programID))
	if err != nil {
		return types.Pubkey{}, 0, fmt.Errorf("find program address: %w", err)
	}
	return types.Pubkey(addr), bump, nil
}
