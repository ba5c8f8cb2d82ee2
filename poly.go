package gosigma

import (
	"encoding/binary"
	"math/big"

	"github.com/segmentio/fasthash/fnv1a"
)

// ============================================================
// Polynomial: rational coefficients over one shared divider
// ============================================================

// Polynomial is (c₀ + c₁x + c₂x² + ...)/divider with integer coefficients in
// ascending powers. A Polynomial is never modified after it is built; every
// operation returns a new one.
//
// Equality is syntactic: 2x/2 and x/1 are different until both are
// Simplified.
type Polynomial struct {
	coeffs  []*big.Int
	divider *big.Int
}

// NewPolynomial builds coefficients/divider. The inputs are copied and a nil
// coefficient counts as zero.
func NewPolynomial(coeffs []*big.Int, divider *big.Int) (*Polynomial, error) {
	if divider == nil || divider.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	cs := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		cs[i] = new(big.Int)
		if c != nil {
			cs[i].Set(c)
		}
	}
	return &Polynomial{coeffs: cs, divider: new(big.Int).Set(divider)}, nil
}

// P is the literal form of NewPolynomial: P(6, 0, 1, 3, 2) is
// (2x³ + 3x² + x)/6. It panics on a zero divider.
func P(divider int64, coeffs ...int64) *Polynomial {
	if divider == 0 {
		panic("gosigma: divider is zero")
	}
	cs := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		cs[i] = big.NewInt(c)
	}
	return &Polynomial{coeffs: cs, divider: big.NewInt(divider)}
}

// Zero is the empty coefficient vector over 1.
func Zero() *Polynomial { return &Polynomial{divider: big.NewInt(1)} }

// Integer is the constant polynomial v/1.
func Integer(v int64) *Polynomial { return IntegerBig(big.NewInt(v)) }

// IntegerBig is Integer for arbitrary precision values.
func IntegerBig(v *big.Int) *Polynomial {
	return &Polynomial{coeffs: []*big.Int{new(big.Int).Set(v)}, divider: big.NewInt(1)}
}

// Coefficients returns a copy of the coefficients, constant term first.
func (p *Polynomial) Coefficients() []*big.Int {
	out := make([]*big.Int, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = new(big.Int).Set(c)
	}
	return out
}

// Divider returns a copy of the shared divider.
func (p *Polynomial) Divider() *big.Int { return new(big.Int).Set(p.divider) }

// Len is the length of the coefficient vector, zeros included.
func (p *Polynomial) Len() int { return len(p.coeffs) }

// Degree is the highest power with a nonzero coefficient, or -1 when there is
// none.
func (p *Polynomial) Degree() int {
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		if p.coeffs[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

// Trimmed drops zero coefficients above the degree. Interpolating with an
// overestimated degree leaves such zeros behind.
func (p *Polynomial) Trimmed() *Polynomial {
	n := p.Degree() + 1
	if n == len(p.coeffs) {
		return p
	}
	return &Polynomial{coeffs: p.coeffs[:n:n], divider: p.divider}
}

// ============================================================
// Algebra
// ============================================================

// Sum adds a and b over the least common multiple of their dividers.
func Sum(a, b *Polynomial) *Polynomial {
	if len(a.coeffs) < len(b.coeffs) {
		a, b = b, a
	}
	d := Lcm(a.divider, b.divider)
	am := new(big.Int).Quo(d, a.divider)
	bm := new(big.Int).Quo(d, b.divider)
	out := make([]*big.Int, len(a.coeffs))
	for i, c := range a.coeffs {
		out[i] = new(big.Int).Mul(c, am)
		if i < len(b.coeffs) {
			out[i].Add(out[i], new(big.Int).Mul(b.coeffs[i], bm))
		}
	}
	return &Polynomial{coeffs: out, divider: d}
}

// Product multiplies a and b: the coefficients are convolved and the dividers
// multiplied.
func Product(a, b *Polynomial) *Polynomial {
	d := new(big.Int).Mul(a.divider, b.divider)
	if len(a.coeffs) == 0 || len(b.coeffs) == 0 {
		return &Polynomial{divider: d}
	}
	out := make([]*big.Int, len(a.coeffs)+len(b.coeffs)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, x := range a.coeffs {
		for j, y := range b.coeffs {
			out[i+j].Add(out[i+j], t.Mul(x, y))
		}
	}
	return &Polynomial{coeffs: out, divider: d}
}

// Simplified divides the coefficients and the divider by their greatest
// common divisor, choosing its sign so that the divider ends up positive. If
// there is nothing to divide out, p itself is returned.
func (p *Polynomial) Simplified() *Polynomial {
	g := new(big.Int)
	for _, c := range p.coeffs {
		g.GCD(nil, nil, g, c)
	}
	g.GCD(nil, nil, g, p.divider) // >= 1, the divider is nonzero
	if p.divider.Sign() < 0 {
		g.Neg(g)
	}
	if g.IsInt64() && g.Int64() == 1 {
		return p
	}
	out := make([]*big.Int, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = new(big.Int).Quo(c, g)
	}
	return &Polynomial{coeffs: out, divider: new(big.Int).Quo(p.divider, g)}
}

// MakeLagrangeAtNaturals returns the polynomial of degree at most
// len(values)-1 whose value at x = i is values[i], for i = 0, 1, 2, ...
//
// Term i is values[i] · Π_{j≠i} (x - j)/(i - j); the terms are summed without
// intermediate simplification.
func MakeLagrangeAtNaturals(values []*big.Int) *Polynomial {
	result := Zero()
	for i, v := range values {
		term := IntegerBig(v)
		for j := range values {
			if i == j {
				continue
			}
			factor := &Polynomial{
				coeffs:  []*big.Int{big.NewInt(int64(-j)), big.NewInt(1)},
				divider: big.NewInt(int64(i - j)),
			}
			term = Product(term, factor)
		}
		result = Sum(result, term)
	}
	return result
}

// ============================================================
// Evaluation
// ============================================================

// numerator evaluates the coefficient vector at n by Horner's rule.
func (p *Polynomial) numerator(n *big.Int) *big.Int {
	acc := new(big.Int)
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		acc.Mul(acc, n)
		acc.Add(acc, p.coeffs[i])
	}
	return acc
}

// EvaluateRat returns the exact value at n.
func (p *Polynomial) EvaluateRat(n int64) *big.Rat {
	return new(big.Rat).SetFrac(p.numerator(big.NewInt(n)), p.divider)
}

// Evaluate returns the value at n, which must be an integer.
func (p *Polynomial) Evaluate(n int64) (*big.Int, error) {
	return p.EvaluateBig(big.NewInt(n))
}

// EvaluateBig is Evaluate for arbitrary precision points.
func (p *Polynomial) EvaluateBig(n *big.Int) (*big.Int, error) {
	q, r := new(big.Int).QuoRem(p.numerator(n), p.divider, new(big.Int))
	if r.Sign() != 0 {
		return nil, ErrNotIntegral
	}
	return q, nil
}

// ============================================================
// Equality and hashing
// ============================================================

// Equal compares coefficient vectors and dividers element for element.
func (p *Polynomial) Equal(other *Polynomial) bool {
	if p == nil || other == nil {
		return p == other
	}
	if len(p.coeffs) != len(other.coeffs) || p.divider.Cmp(other.divider) != 0 {
		return false
	}
	for i := range p.coeffs {
		if p.coeffs[i].Cmp(other.coeffs[i]) != 0 {
			return false
		}
	}
	return true
}

// Hash is a stable FNV-1a hash that agrees with Equal.
func (p *Polynomial) Hash() uint64 {
	h := fnv1a.Init64
	h = fnv1a.AddBytes64(h, binary.BigEndian.AppendUint64(nil, uint64(len(p.coeffs))))
	for _, c := range p.coeffs {
		h = hashInt(h, c)
	}
	return hashInt(h, p.divider)
}

func hashInt(h uint64, v *big.Int) uint64 {
	h = fnv1a.AddBytes64(h, []byte{byte(v.Sign() + 1)})
	b := v.Bytes()
	h = fnv1a.AddBytes64(h, binary.BigEndian.AppendUint64(nil, uint64(len(b))))
	return fnv1a.AddBytes64(h, b)
}
