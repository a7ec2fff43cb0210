package num_test

import (
	"fmt"
	"testing"

	"code.helixprotocol.io/helix/types/num"

	"github.com/stretchr/testify/assert"
)

func TestUintArithmetic(t *testing.T) {
	t.Run("add and sub", func(t *testing.T) {
		z := num.NewUint(0).Add(num.NewUint(40), num.NewUint(2))
		assert.Equal(t, uint64(42), z.Uint64())

		z.Sub(z, num.NewUint(2))
		assert.Equal(t, uint64(40), z.Uint64())
	})

	t.Run("add sum", func(t *testing.T) {
		z := num.NewUint(1).AddSum(num.NewUint(2), num.NewUint(3), num.NewUint(4))
		assert.Equal(t, uint64(10), z.Uint64())
	})

	t.Run("mul and truncating div", func(t *testing.T) {
		z := num.NewUint(0).Mul(num.NewUint(6), num.NewUint(7))
		assert.Equal(t, uint64(42), z.Uint64())

		z.Div(z, num.NewUint(5))
		assert.Equal(t, uint64(8), z.Uint64())
	})

	t.Run("delta", func(t *testing.T) {
		z, neg := num.NewUint(0).Delta(num.NewUint(10), num.NewUint(4))
		assert.False(t, neg)
		assert.Equal(t, uint64(6), z.Uint64())

		z, neg = num.NewUint(0).Delta(num.NewUint(4), num.NewUint(10))
		assert.True(t, neg)
		assert.Equal(t, uint64(6), z.Uint64())
	})
}

func TestUintComparisons(t *testing.T) {
	small, big := num.NewUint(41), num.NewUint(42)

	assert.True(t, small.LT(big))
	assert.True(t, small.LTE(big))
	assert.True(t, small.LTE(small.Clone()))
	assert.True(t, big.GT(small))
	assert.True(t, big.GTE(small))
	assert.True(t, big.GTE(big.Clone()))
	assert.True(t, big.EQ(big.Clone()))
	assert.True(t, small.NEQ(big))
	assert.False(t, small.EQ(big))

	assert.True(t, num.NewUint(0).IsZero())
	assert.False(t, small.IsZero())
}

func TestUintCloneIsIndependent(t *testing.T) {
	first := num.NewUint(42)
	second := first.Clone()

	second.Add(second, num.NewUint(42))

	assert.Equal(t, uint64(42), first.Uint64())
	assert.Equal(t, uint64(84), second.Uint64())
}

func TestUintCopy(t *testing.T) {
	first := num.NewUint(42)
	second := num.NewUint(84)

	second.Copy(first)
	assert.True(t, first.EQ(second))

	// mutating the source must not touch the copy
	first.Add(first, num.NewUint(1))
	assert.Equal(t, uint64(42), second.Uint64())
}

func TestUintString(t *testing.T) {
	n := num.NewUint(42)
	assert.Equal(t, "42", n.String())
	assert.Equal(t, "42", fmt.Sprintf("%v", n))
}
