package fixedswap

import (
	"encoding/binary"
	"fmt"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/logic/tokenprogram"
	"trusted-swap-sol/internal/logic/tokenstate"
	"trusted-swap-sol/internal/types"
)

// processInitialize 创建池子账户与两个金库：
//   - 池子账户归属本程序，保存 PoolConfig
//   - 金库账户归属 Token Program，token owner 为池子 PDA
func processInitialize(ictx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	if len(accounts) < 6 {
		return fmt.Errorf("%w: expected 6 accounts, got %d", ErrInvalidAccounts, len(accounts))
	}
	if len(data) < 16 {
		return ErrInvalidInstructionData
	}
	numerator := binary.LittleEndian.Uint64(data[0:8])
	denominator := binary.LittleEndian.Uint64(data[8:16])
	if numerator == 0 || denominator == 0 {
		return ErrInvalidInstructionData
	}

	payer, pool, inputVault, outputVault, inputMint, outputMint :=
		accounts[0], accounts[1], accounts[2], accounts[3], accounts[4], accounts[5]
	if !payer.IsSigner {
		return fmt.Errorf("%w: payer %s must sign", ErrInvalidAccounts, payer.Key())
	}
	if inputMint.Key() == outputMint.Key() {
		return fmt.Errorf("%w: input and output mint are the same", ErrInvalidAccounts)
	}

	programID := ictx.ProgramID()
	addrs, err := DerivePoolAddresses(programID, inputMint.Key(), outputMint.Key())
	if err != nil {
		return err
	}
	if pool.Key() != addrs.Pool || inputVault.Key() != addrs.InputVault || outputVault.Key() != addrs.OutputVault {
		return fmt.Errorf("%w: pool or vault address does not match derived address", ErrInvalidAccounts)
	}

	inMint, outMint := inputMint.Key(), outputMint.Key()
	poolSeeds := [][]byte{inMint[:], outMint[:], {addrs.PoolBump}}
	if err := ictx.CreateAccount(pool, programID, PoolConfigSize, poolSeeds); err != nil {
		return err
	}
	cfg := &PoolConfig{
		InputMint:       inMint,
		OutputMint:      outMint,
		InputVault:      addrs.InputVault,
		OutputVault:     addrs.OutputVault,
		RateNumerator:   numerator,
		RateDenominator: denominator,
		Authority:       payer.Key(),
		Bump:            addrs.PoolBump,
	}
	encoded, err := cfg.Marshal()
	if err != nil {
		return err
	}
	copy(pool.Data(), encoded)

	vaults := []struct {
		account *runtime.AccountInfo
		mint    types.Pubkey
		bump    uint8
	}{
		{inputVault, inMint, addrs.InputVaultBump},
		{outputVault, outMint, addrs.OutputVaultBump},
	}
	poolKey := pool.Key()
	for _, v := range vaults {
		seeds := [][]byte{poolKey[:], v.mint[:], {v.bump}}
		if err := ictx.CreateAccount(v.account, consts.TokenProgram, tokenstate.AccountSize, seeds); err != nil {
			return err
		}
		if err := ictx.Invoke(tokenprogram.NewInitializeAccount3Instruction(v.account.Key(), v.mint, poolKey)); err != nil {
			return err
		}
	}

	ictx.Log("pool %s initialized: rate=%d/%d input_vault=%s output_vault=%s",
		poolKey, numerator, denominator, addrs.InputVault, addrs.OutputVault)
	return nil
}
