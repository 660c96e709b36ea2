package fixedswap

import (
	"fmt"

	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/logic/tokenstate"
)

// Settle 直接改写余额字段完成出金：输出金库 -amountOut，接收账户 +amountOut。
// 不调用 Token Program；金库的 token owner 是池子 PDA，由运行时校验扣减权限。
func Settle(outputVault, recipient *runtime.AccountInfo, amountOut uint64) error {
	vaultBalance, err := tokenstate.ReadAmount(outputVault.Data())
	if err != nil {
		return fmt.Errorf("%w: output vault %s", ErrInvalidAccounts, outputVault.Key())
	}
	recipientBalance, err := tokenstate.ReadAmount(recipient.Data())
	if err != nil {
		return fmt.Errorf("%w: recipient %s", ErrInvalidAccounts, recipient.Key())
	}

	if vaultBalance < amountOut {
		return ErrInsufficientLiquidity
	}
	if recipientBalance+amountOut < recipientBalance {
		return ErrArithmeticOverflow
	}

	if err := tokenstate.WriteAmount(outputVault.Data(), vaultBalance-amountOut); err != nil {
		return err
	}
	return tokenstate.WriteAmount(recipient.Data(), recipientBalance+amountOut)
}
