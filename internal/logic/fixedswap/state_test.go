package fixedswap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfigEncoding(t *testing.T) {
	cfg := testPoolConfig()
	cfg.Authority = filled(0x50)
	cfg.Bump = 254

	b, err := cfg.Marshal()
	require.NoError(t, err)
	require.Len(t, b, PoolConfigSize)
	assert.Equal(t, cfg.InputMint[:], b[:32])
	assert.Equal(t, byte(254), b[PoolConfigSize-1])

	decoded, err := DecodePoolConfig(b)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

func TestDecodePoolConfigInvalid(t *testing.T) {
	_, err := DecodePoolConfig(make([]byte, PoolConfigSize-1))
	assert.ErrorIs(t, err, ErrInvalidAccounts)

	// 全零数据的分母为 0
	_, err = DecodePoolConfig(make([]byte, PoolConfigSize))
	assert.ErrorIs(t, err, ErrInvalidAccounts)
}

func TestSwapErrorCodes(t *testing.T) {
	assert.Equal(t, uint32(0x1770), ErrNoPrecedingInstruction.Code())
	assert.Equal(t, uint32(0x1777), ErrInvalidAccounts.Code())
	assert.Equal(t, "insufficient liquidity in output vault", ErrInsufficientLiquidity.Error())
	assert.Equal(t, "swap error 0x1", SwapError(1).Error())
	assert.Equal(t, "settled", StageSettled.String())
}
