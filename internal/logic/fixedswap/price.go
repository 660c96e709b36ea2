package fixedswap

import "github.com/holiman/uint256"

// QuoteAmountOut 按固定汇率计算输出数量: floor(amountIn * numerator / denominator)。
// 乘积在 256 位上计算；结果超出 u64、向下取整为 0 或分母为 0 时返回 ErrArithmeticOverflow。
func QuoteAmountOut(amountIn, numerator, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return 0, ErrArithmeticOverflow
	}

	var product uint256.Int
	if _, overflow := product.MulOverflow(uint256.NewInt(amountIn), uint256.NewInt(numerator)); overflow {
		return 0, ErrArithmeticOverflow
	}
	quotient := new(uint256.Int).Div(&product, uint256.NewInt(denominator))
	if !quotient.IsUint64() {
		return 0, ErrArithmeticOverflow
	}

	out := quotient.Uint64()
	if out == 0 {
		return 0, ErrArithmeticOverflow
	}
	return out, nil
}
