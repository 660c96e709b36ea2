package fixedswap

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceQuote(amountIn, num, den uint64) (uint64, bool) {
	product := new(big.Int).Mul(new(big.Int).SetUint64(amountIn), new(big.Int).SetUint64(num))
	q := product.Quo(product, new(big.Int).SetUint64(den))
	if !q.IsUint64() || q.Sign() == 0 {
		return 0, false
	}
	return q.Uint64(), true
}

func TestQuoteAmountOut(t *testing.T) {
	tests := []struct {
		name     string
		amountIn uint64
		num      uint64
		den      uint64
		want     uint64
		wantErr  error
	}{
		{name: "half", amountIn: 1000, num: 1, den: 2, want: 500},
		{name: "floor", amountIn: 10, num: 3, den: 7, want: 4},
		{name: "identity", amountIn: 42, num: 1, den: 1, want: 42},
		{name: "max in, unit rate", amountIn: math.MaxUint64, num: 1, den: 1, want: math.MaxUint64},
		{name: "max in, wide product", amountIn: math.MaxUint64, num: math.MaxUint64, den: math.MaxUint64, want: math.MaxUint64},
		{name: "near 2^64 halved", amountIn: math.MaxUint64 - 1, num: 3, den: 6, want: (math.MaxUint64 - 1) / 2},
		{name: "quotient overflows u64", amountIn: math.MaxUint64, num: 2, den: 1, wantErr: ErrArithmeticOverflow},
		{name: "floors to zero", amountIn: 1, num: 1, den: 2, wantErr: ErrArithmeticOverflow},
		{name: "zero numerator", amountIn: 100, num: 0, den: 3, wantErr: ErrArithmeticOverflow},
		{name: "zero denominator", amountIn: 100, num: 1, den: 0, wantErr: ErrArithmeticOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteAmountOut(tt.amountIn, tt.num, tt.den)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteAmountOutMatchesBigInt(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	edges := []uint64{1, 2, 3, 7, 1 << 32, math.MaxUint32, 1 << 63, math.MaxUint64 - 1, math.MaxUint64}
	pick := func() uint64 {
		if r.Intn(2) == 0 {
			return edges[r.Intn(len(edges))] - uint64(r.Intn(2))
		}
		return r.Uint64()
	}

	for i := 0; i < 5000; i++ {
		amountIn, num, den := pick(), pick(), pick()
		if den == 0 {
			den = 1
		}
		want, ok := referenceQuote(amountIn, num, den)
		got, err := QuoteAmountOut(amountIn, num, den)
		if !ok {
			require.ErrorIs(t, err, ErrArithmeticOverflow, "in=%d num=%d den=%d", amountIn, num, den)
			continue
		}
		require.NoError(t, err, "in=%d num=%d den=%d", amountIn, num, den)
		require.Equal(t, want, got, "in=%d num=%d den=%d", amountIn, num, den)
	}
}
