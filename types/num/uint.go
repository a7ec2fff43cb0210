package num

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Uint wraps a 256 bit unsigned integer. All amounts and prices in the
// system are carried as Uints, arithmetic truncates like native integer
// division.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the uint64 passed as a
// parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// Uint64 returns the low 64 bits of the value.
func (z Uint) Uint64() uint64 {
	return z.u.Uint64()
}

// BigInt returns the value as a big.Int.
func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

// Add stores x + y into z.
// z is returned for convenience, no new variable is created.
func (z *Uint) Add(x, y *Uint) *Uint {
	z.u.Add(&x.u, &y.u)
	return z
}

// AddSum adds multiple values at the same time to a given uint
// so x.AddSum(y, z) is equivalent to x + y + z.
func (z *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		z.u.Add(&z.u, &x.u)
	}
	return z
}

// Sub stores x - y into z.
// z is returned for convenience, no new variable is created.
func (z *Uint) Sub(x, y *Uint) *Uint {
	z.u.Sub(&x.u, &y.u)
	return z
}

// Delta stores |x - y| into z. The second return is true when y was the
// bigger value, so the true difference is negative.
func (z *Uint) Delta(x, y *Uint) (*Uint, bool) {
	if y.GT(x) {
		_ = z.Sub(y, x)
		return z, true
	}
	_ = z.Sub(x, y)
	return z, false
}

// Mul stores x * y into z.
// z is returned for convenience, no new variable is created.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// Div stores x / y into z, truncating towards zero.
// z is returned for convenience, no new variable is created.
func (z *Uint) Div(x, y *Uint) *Uint {
	z.u.Div(&x.u, &y.u)
	return z
}

// LT returns whether u < oth.
func (u Uint) LT(oth *Uint) bool {
	return u.u.Lt(&oth.u)
}

// LTE returns whether u <= oth.
func (u Uint) LTE(oth *Uint) bool {
	return u.u.Lt(&oth.u) || u.u.Eq(&oth.u)
}

// EQ returns whether u == oth.
func (u Uint) EQ(oth *Uint) bool {
	return u.u.Eq(&oth.u)
}

// NEQ returns whether u != oth.
func (u Uint) NEQ(oth *Uint) bool {
	return !u.u.Eq(&oth.u)
}

// GT returns whether u > oth.
func (u Uint) GT(oth *Uint) bool {
	return u.u.Gt(&oth.u)
}

// GTE returns whether u >= oth.
func (u Uint) GTE(oth *Uint) bool {
	return u.u.Gt(&oth.u) || u.u.Eq(&oth.u)
}

// IsZero returns whether u == 0.
func (u Uint) IsZero() bool {
	return u.u.IsZero()
}

// Copy stores the value of x into z, equivalent to z = x.
func (z *Uint) Copy(x *Uint) *Uint {
	z.u = x.u
	return z
}

// Clone returns a copy of this value.
func (z Uint) Clone() *Uint {
	return &Uint{z.u}
}

// String returns the value in base 10.
func (u Uint) String() string {
	return u.u.ToBig().String()
}
