package gosigma

import (
	"math/big"
	"strconv"
	"strings"
)

// String renders p with unicode superscripts.
func (p *Polynomial) String() string { return p.ToUnicodeString() }

// ToASCIIString renders p with "^n" exponents, e.g. "(x^2 + x)/2".
func (p *Polynomial) ToASCIIString() string {
	return p.render(func(n uint) string { return Superscript(n, false) })
}

// ToUnicodeString renders p with superscript exponents, e.g. "(x² + x)/2".
func (p *Polynomial) ToUnicodeString() string {
	return p.render(func(n uint) string { return Superscript(n, true) })
}

// LaTeX renders p as "\frac{x^{2} + x}{2}".
func (p *Polynomial) LaTeX() string {
	num := p.numeratorString(func(n uint) string { return "^{" + strconv.FormatUint(uint64(n), 10) + "}" })
	if num == "0" || p.isUnitDivider() {
		return num
	}
	return `\frac{` + num + "}{" + p.divider.String() + "}"
}

func (p *Polynomial) render(exp func(uint) string) string {
	num := p.numeratorString(exp)
	if num == "0" || p.isUnitDivider() {
		return num
	}
	return "(" + num + ")/" + p.divider.String()
}

func (p *Polynomial) isUnitDivider() bool {
	return p.divider.IsInt64() && p.divider.Int64() == 1
}

// numeratorString writes the nonzero terms from the highest power down. The
// first term carries a bare "-" when negative, the rest are joined with
// " + " or " - ".
func (p *Polynomial) numeratorString(exp func(uint) string) string {
	var sb strings.Builder
	first := true
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		c := p.coeffs[i]
		if c.Sign() == 0 {
			continue
		}
		switch {
		case first && c.Sign() < 0:
			sb.WriteString("-")
		case !first && c.Sign() < 0:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		}
		first = false
		sb.WriteString(term(uint(i), new(big.Int).Abs(c), exp))
	}
	if first {
		return "0"
	}
	return sb.String()
}

// term renders |c|·xⁱ. A unit coefficient is left out unless i is 0.
func term(i uint, abs *big.Int, exp func(uint) string) string {
	if i == 0 {
		return abs.String()
	}
	x := "x"
	if i > 1 {
		x += exp(i)
	}
	if abs.IsInt64() && abs.Int64() == 1 {
		return x
	}
	return abs.String() + x
}
