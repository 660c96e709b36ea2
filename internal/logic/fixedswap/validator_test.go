package fixedswap

import (
	"testing"

	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/logic/tokenprogram"
	"trusted-swap-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(b byte) types.Pubkey {
	var k types.Pubkey
	for i := range k {
		k[i] = b
	}
	return k
}

var (
	testInputVault = filled(0x41)
	testSource     = filled(0x42)
	testAuthority  = filled(0x43)
	testOther      = filled(0x44)
)

func testPoolConfig() *PoolConfig {
	return &PoolConfig{
		InputMint:       filled(0x10),
		OutputMint:      filled(0x11),
		InputVault:      testInputVault,
		OutputVault:     filled(0x45),
		RateNumerator:   1,
		RateDenominator: 2,
	}
}

func TestValidateTransfer(t *testing.T) {
	cfg := testPoolConfig()

	ix := tokenprogram.NewTransferInstruction(testSource, testInputVault, testAuthority, 1000)
	desc, err := ValidateTransfer(&ix, cfg)
	require.NoError(t, err)
	assert.Equal(t, &TransferDescriptor{
		Source:      testSource,
		Destination: testInputVault,
		Authority:   testAuthority,
		Amount:      1000,
	}, desc)

	// authority 未签名也接受
	ix.Accounts[2].IsSigner = false
	_, err = ValidateTransfer(&ix, cfg)
	assert.NoError(t, err)
}

func TestValidateTransferRejects(t *testing.T) {
	cfg := testPoolConfig()
	transfer := func(dest types.Pubkey, amount uint64) core.Instruction {
		return tokenprogram.NewTransferInstruction(testSource, dest, testAuthority, amount)
	}

	tests := []struct {
		name    string
		ix      func() core.Instruction
		wantErr error
	}{
		{
			name: "wrong program",
			ix: func() core.Instruction {
				ix := transfer(testInputVault, 10)
				ix.ProgramID = testOther
				return ix
			},
			wantErr: ErrWrongProgram,
		},
		{
			name: "wrong program checked before destination",
			ix: func() core.Instruction {
				ix := transfer(testOther, 10)
				ix.ProgramID = testOther
				return ix
			},
			wantErr: ErrWrongProgram,
		},
		{
			name:    "destination mismatch",
			ix:      func() core.Instruction { return transfer(testOther, 10) },
			wantErr: ErrDestinationMismatch,
		},
		{
			name:    "destination mismatch with zero amount",
			ix:      func() core.Instruction { return transfer(testOther, 0) },
			wantErr: ErrDestinationMismatch,
		},
		{
			name:    "zero amount",
			ix:      func() core.Instruction { return transfer(testInputVault, 0) },
			wantErr: ErrZeroAmount,
		},
		{
			name: "short data",
			ix: func() core.Instruction {
				ix := transfer(testInputVault, 10)
				ix.Data = ix.Data[:8]
				return ix
			},
			wantErr: ErrInvalidTransferData,
		},
		{
			name: "missing accounts",
			ix: func() core.Instruction {
				ix := transfer(testInputVault, 10)
				ix.Accounts = ix.Accounts[:2]
				return ix
			},
			wantErr: ErrInvalidTransferData,
		},
		{
			name: "other token instruction",
			ix: func() core.Instruction {
				ix := transfer(testInputVault, 10)
				ix.Data[0] = 7
				return ix
			},
			wantErr: ErrInvalidTransferData,
		},
		{
			name: "transfer checked",
			ix: func() core.Instruction {
				return tokenprogram.NewTransferCheckedInstruction(testSource, filled(0x10), testInputVault, testAuthority, 10, 6)
			},
			wantErr: ErrInvalidTransferData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := tt.ix()
			_, err := ValidateTransfer(&ix, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDestinationMismatchAlwaysRejected(t *testing.T) {
	cfg := testPoolConfig()
	for _, amount := range []uint64{0, 1, 1 << 40, ^uint64(0)} {
		ix := tokenprogram.NewTransferInstruction(testSource, testOther, testAuthority, amount)
		_, err := ValidateTransfer(&ix, cfg)
		assert.ErrorIs(t, err, ErrDestinationMismatch, "amount=%d", amount)
	}
}
