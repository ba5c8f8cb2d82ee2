package gosigma

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/njchilds90/gosigma/internal/errwrap"
)

// maxSampleDegree caps the degree estimate of every Simplifier, whatever its
// MaxDegree.
const maxSampleDegree = 1 << 20

// Simplifier turns expressions into polynomials. The zero value is ready to
// use.
type Simplifier struct {
	// MaxDegree rejects expressions whose degree estimate is above it, before
	// any sample is taken. Zero leaves only the maxSampleDegree cap.
	MaxDegree int

	// MaxTerms caps the summation terms of each sample. Zero means no limit.
	MaxTerms int64

	Debug bool
	Logf  func(format string, v ...interface{})
}

func (obj *Simplifier) logf(format string, v ...interface{}) {
	if !obj.Debug || obj.Logf == nil {
		return
	}
	obj.Logf("simplify: "+format, v...)
}

// Simplify samples e at x = 0, 1, ..., d where d is the degree estimate,
// interpolates the samples and returns the simplified polynomial. Any error
// aborts the whole computation.
func (obj *Simplifier) Simplify(e Expr) (*Polynomial, error) {
	if e == nil {
		return nil, ErrNullExpression
	}
	d, err := e.Degree()
	if err != nil {
		return nil, errwrap.Wrapf(err, "degree estimate failed")
	}
	obj.logf("expression: %s", describe(e))
	obj.logf("degree estimate: %d", d)
	limit := obj.MaxDegree
	if limit <= 0 || limit > maxSampleDegree {
		limit = maxSampleDegree
	}
	if d < 0 || d > limit {
		return nil, errwrap.Wrapf(ErrDegreeLimit, "estimate %d is above %d", d, limit)
	}

	samples := make([]*big.Int, d+1)
	for i := range samples {
		v, err := evaluateLimited(e, big.NewInt(int64(i)), obj.MaxTerms)
		if err != nil {
			return nil, errwrap.Wrapf(err, "evaluation at %d failed", i)
		}
		samples[i] = v
	}
	if obj.Debug {
		obj.logf("samples: %s", joinInts(samples))
	}

	p := MakeLagrangeAtNaturals(samples).Simplified()
	obj.logf("result: %s", p)
	return p, nil
}

// Simplify runs a default Simplifier on e.
func Simplify(e Expr) (*Polynomial, error) {
	return (&Simplifier{}).Simplify(e)
}

func joinInts(values []*big.Int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
