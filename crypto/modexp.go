package crypto

import (
	"fmt"
	"math/big"
)

// Largest value whose square still fits in an int64.
const maxDirectOperand = 3037000499

// ModExp computes base^exponent mod modulus by repeated squaring.
//
// Odd exponents are decremented rather than shifted. Peers must use
// the same loop so results for negative or unreduced bases agree.
// Remainders are truncated like Go's % operator.
func ModExp(base, exponent, modulus int64) int64 {
	if modulus <= 0 {
		panic(fmt.Sprintf("ModExp: invalid modulus %d", modulus))
	}
	if exponent < 0 {
		panic(fmt.Sprintf("ModExp: negative exponent %d", exponent))
	}

	modexpCounter.Inc()

	if modulus > maxDirectOperand ||
		base > maxDirectOperand || base < -maxDirectOperand {
		return modExpWide(base, exponent, modulus)
	}

	x := base
	y := int64(1)
	for exponent > 0 {
		if exponent%2 == 0 {
			x = (x * x) % modulus
			exponent = exponent / 2
		} else {
			y = (x * y) % modulus
			exponent = exponent - 1
		}
	}
	return y
}

// Same loop with arbitrary precision products.
func modExpWide(base, exponent, modulus int64) int64 {
	x := big.NewInt(base)
	y := big.NewInt(1)
	n := big.NewInt(modulus)

	for exponent > 0 {
		if exponent%2 == 0 {
			x.Mul(x, x)
			x.Rem(x, n)
			exponent = exponent / 2
		} else {
			y.Mul(x, y)
			y.Rem(y, n)
			exponent = exponent - 1
		}
	}
	return y.Int64()
}
