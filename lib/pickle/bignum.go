package pickle

import (
	"github.com/shopspring/decimal"
	"math/big"
)

// BigInt pickles an arbitrary precision integer as its minimal big-endian
// two's complement representation, written with the Bytes pickler. A nil
// *big.Int is written as a null byte array.
var BigInt = Transform(Bytes, bigIntFromBytes, bigIntToBytes)

// BigDecimal pickles a decimal as a fixed-width int32 scale followed by its
// unscaled coefficient written with BigInt. The scale is the negated
// decimal exponent, so 12.345 is written as scale 3 and coefficient 12345.
var BigDecimal Pickler[decimal.Decimal] = bigDecimalPickler{}

type bigDecimalPickler struct{}

func (bigDecimalPickler) Pickle(state *PickleState, d decimal.Decimal) {
	Int32.Pickle(state, -d.Exponent())
	BigInt.Pickle(state, d.Coefficient())
}

func (bigDecimalPickler) Unpickle(state *UnpickleState) (decimal.Decimal, error) {
	scale, err := Int32.Unpickle(state)
	if err != nil {
		return decimal.Decimal{}, err
	}
	unscaled, err := BigInt.Unpickle(state)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if unscaled == nil {
		unscaled = new(big.Int)
	}
	return decimal.NewFromBigInt(unscaled, -scale), nil
}

// --------------------------------------------------------------------------
// Two's complement helpers
// --------------------------------------------------------------------------

// bigIntToBytes returns the minimal big-endian two's complement bytes of x.
// Zero is a single zero byte.
func bigIntToBytes(x *big.Int) []byte {
	if x == nil {
		return nil
	}
	if x.Sign() >= 0 {
		return x.FillBytes(make([]byte, x.BitLen()/8+1))
	}
	// -x-1 has the same bytes as x with every bit inverted
	m := new(big.Int).Neg(x)
	m.Sub(m, big.NewInt(1))
	b := m.FillBytes(make([]byte, m.BitLen()/8+1))
	for i := range b {
		b[i] = ^b[i]
	}
	return b
}

// bigIntFromBytes is the inverse of bigIntToBytes. An empty slice decodes to zero.
func bigIntFromBytes(b []byte) *big.Int {
	if b == nil {
		return nil
	}
	if len(b) == 0 || b[0]&0x80 == 0 {
		return new(big.Int).SetBytes(b)
	}
	inverted := make([]byte, len(b))
	for i := range b {
		inverted[i] = ^b[i]
	}
	m := new(big.Int).SetBytes(inverted)
	m.Add(m, big.NewInt(1))
	return m.Neg(m)
}
