package gosigma

import (
	"math/big"

	"github.com/njchilds90/gosigma/internal/errwrap"

	"github.com/pkg/errors"
)

// Check evaluates e and p at every integer in [from, to] and reports each
// point where they disagree, or where either side fails to evaluate. The
// returned error joins all of them; nil means p matches e on the range.
func Check(e Expr, p *Polynomial, from, to int64) error {
	return check(e, p, from, to, 0)
}

// check is Check with at most maxTerms summation terms per evaluation of e.
func check(e Expr, p *Polynomial, from, to int64, maxTerms int64) error {
	if e == nil {
		return ErrNullExpression
	}
	if p == nil {
		return errors.New("polynomial is nil")
	}
	if from > to {
		return nil
	}
	var reterr error
	for n := from; ; n++ {
		want, err := evaluateLimited(e, big.NewInt(n), maxTerms)
		if errors.Is(err, ErrTermLimit) { // the limit aborts the whole check
			return errwrap.Append(reterr, errwrap.Wrapf(err, "expression at %d", n))
		}
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "expression at %d", n))
		} else if got, err := p.Evaluate(n); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "polynomial at %d", n))
		} else if got.Cmp(want) != 0 {
			reterr = errwrap.Append(reterr, errors.Errorf("at %d: polynomial gives %s, expression gives %s", n, got, want))
		}
		if n == to { // to may be the largest int64
			break
		}
	}
	return reterr
}
