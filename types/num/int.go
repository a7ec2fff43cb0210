package num

// Int a wrapper to a signed big int.
type Int struct {
	// The unsigned magnitude of the integer.
	U *Uint
	// The sign of the integer, true for a positive value.
	s bool
}

// NewInt creates a new Int with the value of the int64 passed as a parameter.
func NewInt(val int64) *Int {
	if val < 0 {
		return &Int{
			U: NewUint(uint64(-val)),
			s: false,
		}
	}
	return &Int{
		U: NewUint(uint64(val)),
		s: true,
	}
}

// IntZero returns a zero valued Int.
func IntZero() *Int {
	return NewInt(0)
}

// IntFromUint creates a new Int with the magnitude of the given Uint and the
// given sign, true for positive.
func IntFromUint(u *Uint, s bool) *Int {
	return &Int{
		U: u.Clone(),
		s: s,
	}
}

// IsNegative returns true if the value is strictly less than zero.
func (i Int) IsNegative() bool {
	return !i.s && !i.U.IsZero()
}

// IsPositive returns true if the value is strictly greater than zero.
func (i Int) IsPositive() bool {
	return i.s && !i.U.IsZero()
}

// IsZero returns true if the value is zero.
func (i Int) IsZero() bool {
	return i.U.IsZero()
}

// FlipSign changes the sign of the number from - to + and vice versa.
func (i *Int) FlipSign() {
	i.s = !i.s
}

// Clone creates a copy of this value.
func (i Int) Clone() *Int {
	return &Int{
		U: i.U.Clone(),
		s: i.s,
	}
}

// Add adds the value of y to i and stores the result into i.
// i is returned for convenience, no new variable is created.
func (i *Int) Add(y *Int) *Int {
	if i.s == y.s {
		i.U.Add(i.U, y.U)
		return i
	}
	if i.U.GTE(y.U) {
		i.U.Sub(i.U, y.U)
		return i
	}
	i.U.Sub(y.U, i.U)
	i.s = y.s
	return i
}

// Sub subtracts the value of y from i and stores the result into i.
func (i *Int) Sub(y *Int) *Int {
	n := y.Clone()
	n.FlipSign()
	return i.Add(n)
}

// AddSum adds multiple values at the same time to i,
// so i.AddSum(x, y) is equivalent to i + x + y.
func (i *Int) AddSum(vals ...*Int) *Int {
	for _, v := range vals {
		i.Add(v)
	}
	return i
}

// SubSum subtracts multiple values at the same time from i,
// so i.SubSum(x, y) is equivalent to i - x - y.
func (i *Int) SubSum(vals ...*Int) *Int {
	for _, v := range vals {
		i.Sub(v)
	}
	return i
}

// GT returns true if i > oth.
func (i *Int) GT(oth *Int) bool {
	if i.sign() != oth.sign() {
		return i.sign() > oth.sign()
	}
	if i.sign() < 0 {
		return i.U.LT(oth.U)
	}
	return i.U.GT(oth.U)
}

// GTE returns true if i >= oth.
func (i *Int) GTE(oth *Int) bool {
	return i.GT(oth) || i.EQ(oth)
}

// LT returns true if i < oth.
func (i *Int) LT(oth *Int) bool {
	return oth.GT(i)
}

// LTE returns true if i <= oth.
func (i *Int) LTE(oth *Int) bool {
	return i.LT(oth) || i.EQ(oth)
}

// EQ returns true if the two values are equal.
func (i *Int) EQ(oth *Int) bool {
	return i.sign() == oth.sign() && i.U.EQ(oth.U)
}

func (i *Int) sign() int {
	if i.IsZero() {
		return 0
	}
	if i.s {
		return 1
	}
	return -1
}

// Int64 returns the value as an int64, with the usual truncation caveats of
// the underlying Uint64 conversion.
func (i Int) Int64() int64 {
	v := int64(i.U.Uint64())
	if i.IsNegative() {
		return -v
	}
	return v
}

// String returns a string version of the number.
func (i Int) String() string {
	if i.IsNegative() {
		return "-" + i.U.String()
	}
	return i.U.String()
}
