package gosigma

import "github.com/pkg/errors"

var (
	// ErrDivisionByZero is returned when a polynomial is built with a zero
	// divider.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrUnboundIndex is returned when an index variable is used outside of
	// the summation that introduces it.
	ErrUnboundIndex = errors.New("unbound index")

	// ErrNullExpression is returned when a nil expression is simplified,
	// evaluated or found inside a tree.
	ErrNullExpression = errors.New("null expression")

	// ErrNotIntegral is returned by Polynomial.Evaluate when the value at the
	// requested point is not an integer.
	ErrNotIntegral = errors.New("value is not an integer")

	// ErrDegreeLimit is returned by a Simplifier whose MaxDegree is below the
	// degree estimate of the expression.
	ErrDegreeLimit = errors.New("degree limit exceeded")

	// ErrTermLimit is returned when an evaluation would add up more
	// summation terms than it was allowed.
	ErrTermLimit = errors.New("summation term limit exceeded")

	// ErrRangeLimit is returned by a check whose range is longer than it was
	// allowed.
	ErrRangeLimit = errors.New("check range limit exceeded")
)
