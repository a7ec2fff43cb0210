package num_test

import (
	"testing"

	"code.helixprotocol.io/helix/types/num"

	"github.com/stretchr/testify/assert"
)

func TestIntConstructors(t *testing.T) {
	t.Run("from int64", func(t *testing.T) {
		pos := num.NewInt(42)
		assert.True(t, pos.IsPositive())
		assert.Equal(t, int64(42), pos.Int64())

		neg := num.NewInt(-42)
		assert.True(t, neg.IsNegative())
		assert.Equal(t, int64(-42), neg.Int64())
	})

	t.Run("zero is neither positive nor negative", func(t *testing.T) {
		zero := num.IntZero()
		assert.True(t, zero.IsZero())
		assert.False(t, zero.IsPositive())
		assert.False(t, zero.IsNegative())
	})

	t.Run("from uint with sign", func(t *testing.T) {
		u := num.NewUint(42)
		i := num.IntFromUint(u, false)
		assert.True(t, i.IsNegative())
		assert.Equal(t, int64(-42), i.Int64())

		// the magnitude is cloned, not aliased
		u.Add(u, num.NewUint(1))
		assert.Equal(t, int64(-42), i.Int64())
	})
}

func TestIntSignedAddition(t *testing.T) {
	t.Run("same sign accumulates", func(t *testing.T) {
		i := num.NewInt(10).Add(num.NewInt(32))
		assert.Equal(t, int64(42), i.Int64())

		i = num.NewInt(-10).Add(num.NewInt(-32))
		assert.Equal(t, int64(-42), i.Int64())
	})

	t.Run("opposite signs cancel", func(t *testing.T) {
		i := num.NewInt(10).Add(num.NewInt(-4))
		assert.Equal(t, int64(6), i.Int64())

		// result crosses zero and takes the sign of the bigger magnitude
		i = num.NewInt(4).Add(num.NewInt(-10))
		assert.Equal(t, int64(-6), i.Int64())
	})

	t.Run("sub and sums", func(t *testing.T) {
		i := num.NewInt(10).Sub(num.NewInt(4))
		assert.Equal(t, int64(6), i.Int64())

		i = num.IntZero().AddSum(num.NewInt(1), num.NewInt(2), num.NewInt(-4))
		assert.Equal(t, int64(-1), i.Int64())

		i = num.IntZero().SubSum(num.NewInt(1), num.NewInt(2))
		assert.Equal(t, int64(-3), i.Int64())
	})
}

func TestIntFlipSign(t *testing.T) {
	i := num.NewInt(42)
	i.FlipSign()
	assert.Equal(t, int64(-42), i.Int64())
	i.FlipSign()
	assert.Equal(t, int64(42), i.Int64())
}

func TestIntComparisons(t *testing.T) {
	neg, zero, pos := num.NewInt(-7), num.IntZero(), num.NewInt(7)

	assert.True(t, pos.GT(zero))
	assert.True(t, pos.GT(neg))
	assert.True(t, zero.GT(neg))
	assert.True(t, neg.LT(zero))
	assert.True(t, neg.LT(pos))

	// negative ordering runs on magnitude, reversed
	assert.True(t, num.NewInt(-3).GT(num.NewInt(-7)))

	assert.True(t, pos.EQ(num.NewInt(7)))
	assert.True(t, zero.EQ(num.IntZero()))
	assert.False(t, pos.EQ(neg))
	assert.True(t, pos.GTE(num.NewInt(7)))
	assert.True(t, neg.LTE(num.NewInt(-7)))
}

func TestIntClone(t *testing.T) {
	first := num.NewInt(-42)
	second := first.Clone()

	second.FlipSign()

	assert.Equal(t, int64(-42), first.Int64())
	assert.Equal(t, int64(42), second.Int64())
}

func TestIntString(t *testing.T) {
	assert.Equal(t, "42", num.NewInt(42).String())
	assert.Equal(t, "-42", num.NewInt(-42).String())
	assert.Equal(t, "0", num.IntZero().String())
}
