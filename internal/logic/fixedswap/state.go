package fixedswap

import (
	"fmt"

	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/pkg/logger"
	"trusted-swap-sol/internal/types"

	"github.com/near/borsh-go"
)

// PoolConfigSize 是 PoolConfig borsh 编码后的长度: 4*32 + 8 + 8 + 32 + 1
const PoolConfigSize = 177

// PoolConfig 保存在池子账户中，初始化后只读
type PoolConfig struct {
	InputMint       types.Pubkey
	OutputMint      types.Pubkey
	InputVault      types.Pubkey
	OutputVault     types.Pubkey
	RateNumerator   uint64
	RateDenominator uint64
	Authority       types.Pubkey // 初始化池子的账户
	Bump            uint8        // 池子 PDA 的 bump
}

func (c *PoolConfig) Marshal() ([]byte, error) {
	return borsh.Serialize(*c)
}

// DecodePoolConfig 解码池子账户数据，长度或内容非法时返回 ErrInvalidAccounts
func DecodePoolConfig(data []byte) (cfg *PoolConfig, err error) {
	if len(data) != PoolConfigSize {
		return nil, fmt.Errorf("%w: pool data length %d", ErrInvalidAccounts, len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[FixedSwap::DecodePoolConfig][panic] borsh.Deserialize panic: %v", r)
			cfg, err = nil, ErrInvalidAccounts
		}
	}()

	var c PoolConfig
	if err := borsh.Deserialize(&c, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccounts, err)
	}
	if c.RateDenominator == 0 {
		return nil, fmt.Errorf("%w: zero rate denominator", ErrInvalidAccounts)
	}
	return &c, nil
}

// LoadPoolConfig 从池子账户读取配置，账户必须归属本程序
func LoadPoolConfig(programID types.Pubkey, pool *runtime.AccountInfo) (*PoolConfig, error) {
	if !pool.IsOwnedBy(programID) {
		return nil, fmt.Errorf("%w: pool %s not owned by program", ErrInvalidAccounts, pool.Key())
	}
	return DecodePoolConfig(pool.Data())
}
