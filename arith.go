package gosigma

import (
	"math/big"
	"strconv"
	"strings"
)

// Gcd returns the greatest common divisor of a and b. The result is never
// negative and Gcd(0, 0) is 0.
func Gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// Lcm returns (a / gcd) * b, a common multiple of a and b whose sign is the
// sign of a*b. Lcm(0, 0) is 0.
func Lcm(a, b *big.Int) *big.Int {
	g := Gcd(a, b)
	if g.Sign() == 0 {
		return new(big.Int)
	}
	l := new(big.Int).Quo(a, g)
	return l.Mul(l, b)
}

var superscriptDigits = [10]string{"⁰", "¹", "²", "³", "⁴", "⁵", "⁶", "⁷", "⁸", "⁹"}

// Superscript renders n as an exponent: digit by digit in unicode superscript
// characters, or as "^n" when unicode is false.
func Superscript(n uint, unicode bool) string {
	digits := strconv.FormatUint(uint64(n), 10)
	if !unicode {
		return "^" + digits
	}
	var sb strings.Builder
	for _, d := range digits {
		sb.WriteString(superscriptDigits[d-'0'])
	}
	return sb.String()
}
