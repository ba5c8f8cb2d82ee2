// Package gosigma turns nested finite summations into closed-form polynomials.
//
// An expression is built from the free parameter x, integer constants,
// addition, multiplication and bounded summation. Simplify samples the
// expression at just enough points to pin down its polynomial and rebuilds it
// exactly by Lagrange interpolation:
//
//	e := gosigma.Summation(gosigma.N(1), gosigma.Parameter, func(i gosigma.Expr) gosigma.Expr {
//		return gosigma.MulOf(i, i)
//	})
//	p, _ := gosigma.Simplify(e) // (2x³ + 3x² + x)/6
//
// All arithmetic is exact (math/big).
package gosigma

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/njchilds90/gosigma/internal/errwrap"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable expression tree over the parameter x. The set of node
// types is closed: Param, Index, Const, Add, Mul and Sigma.
type Expr interface {
	// Evaluate computes the exact value with the parameter bound to n.
	Evaluate(n int64) (*big.Int, error)
	// EvaluateBig is Evaluate for a parameter beyond the int64 range.
	EvaluateBig(n *big.Int) (*big.Int, error)
	// Degree is an upper bound on the degree of the polynomial in x that
	// Evaluate computes. It is never below the true degree.
	Degree() (int, error)
	String() string
	// Equal reports structural equality, up to the names of summation
	// indices.
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Param: the free parameter
// ============================================================

// Param is the free parameter. Use the Parameter singleton.
type Param struct{}

// Parameter is the one free variable of every expression.
var Parameter Expr = &Param{}

func (p *Param) Evaluate(n int64) (*big.Int, error)      { return evaluate(p, big.NewInt(n)) }
func (p *Param) EvaluateBig(n *big.Int) (*big.Int, error) { return evaluate(p, n) }
func (p *Param) Degree() (int, error)                     { return degree(p) }
func (p *Param) String() string                           { return "x" }
func (p *Param) Equal(other Expr) bool                    { return equalExpr(p, other, nil) }
func (p *Param) exprType() string                         { return "param" }
func (p *Param) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "param"}
}

// ============================================================
// Index: a variable bound by an enclosing summation
// ============================================================

// Index refers to the index variable of an enclosing Sigma.
type Index struct{ name string }

func (x *Index) Evaluate(n int64) (*big.Int, error)      { return evaluate(x, big.NewInt(n)) }
func (x *Index) EvaluateBig(n *big.Int) (*big.Int, error) { return evaluate(x, n) }
func (x *Index) Degree() (int, error)                     { return degree(x) }
func (x *Index) String() string                           { return x.name }
func (x *Index) Equal(other Expr) bool                    { return equalExpr(x, other, nil) }
func (x *Index) exprType() string                         { return "index" }
func (x *Index) Name() string                             { return x.name }
func (x *Index) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "index", "name": x.name}
}

// ============================================================
// Const: integer constant
// ============================================================

// Const is an integer constant.
type Const struct{ val *big.Int }

// N lifts an integer literal into an expression.
func N(v int64) Expr { return &Const{val: big.NewInt(v)} }

// NBig lifts an arbitrary precision integer into an expression. The value is
// copied.
func NBig(v *big.Int) Expr { return &Const{val: new(big.Int).Set(v)} }

func (c *Const) Evaluate(n int64) (*big.Int, error)      { return evaluate(c, big.NewInt(n)) }
func (c *Const) EvaluateBig(n *big.Int) (*big.Int, error) { return evaluate(c, n) }
func (c *Const) Degree() (int, error)                     { return degree(c) }
func (c *Const) String() string                           { return c.val.String() }
func (c *Const) Equal(other Expr) bool                    { return equalExpr(c, other, nil) }
func (c *Const) exprType() string                         { return "const" }
func (c *Const) Value() *big.Int                          { return new(big.Int).Set(c.val) }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "value": c.val.String()}
}

// ============================================================
// Add: binary addition
// ============================================================

// Add is the sum of two expressions.
type Add struct{ left, right Expr }

// AddOf adds the terms from left to right. No terms give 0.
func AddOf(terms ...Expr) Expr {
	if len(terms) == 0 {
		return N(0)
	}
	acc := terms[0]
	for _, t := range terms[1:] {
		acc = &Add{left: acc, right: t}
	}
	return acc
}

// SubOf returns left + (-right).
func SubOf(left, right Expr) Expr { return AddOf(left, NegOf(right)) }

func (a *Add) Evaluate(n int64) (*big.Int, error)      { return evaluate(a, big.NewInt(n)) }
func (a *Add) EvaluateBig(n *big.Int) (*big.Int, error) { return evaluate(a, n) }
func (a *Add) Degree() (int, error)                     { return degree(a) }
func (a *Add) Equal(other Expr) bool                    { return equalExpr(a, other, nil) }
func (a *Add) exprType() string                         { return "add" }
func (a *Add) Left() Expr                               { return a.left }
func (a *Add) Right() Expr                              { return a.right }

func (a *Add) String() string { return str(a.left) + " + " + str(a.right) }

func (a *Add) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "add", "left": nodeJSON(a.left), "right": nodeJSON(a.right)}
}

// ============================================================
// Mul: binary product
// ============================================================

// Mul is the product of two expressions.
type Mul struct{ left, right Expr }

// MulOf multiplies the factors from left to right. No factors give 1.
func MulOf(factors ...Expr) Expr {
	if len(factors) == 0 {
		return N(1)
	}
	acc := factors[0]
	for _, f := range factors[1:] {
		acc = &Mul{left: acc, right: f}
	}
	return acc
}

// NegOf returns -1 * e.
func NegOf(e Expr) Expr { return MulOf(N(-1), e) }

func (m *Mul) Evaluate(n int64) (*big.Int, error)      { return evaluate(m, big.NewInt(n)) }
func (m *Mul) EvaluateBig(n *big.Int) (*big.Int, error) { return evaluate(m, n) }
func (m *Mul) Degree() (int, error)                     { return degree(m) }
func (m *Mul) Equal(other Expr) bool                    { return equalExpr(m, other, nil) }
func (m *Mul) exprType() string                         { return "mul" }
func (m *Mul) Left() Expr                               { return m.left }
func (m *Mul) Right() Expr                              { return m.right }

func (m *Mul) String() string {
	factor := func(e Expr) string {
		if _, ok := e.(*Add); ok {
			return "(" + e.String() + ")"
		}
		return str(e)
	}
	return factor(m.left) + " * " + factor(m.right)
}

func (m *Mul) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "left": nodeJSON(m.left), "right": nodeJSON(m.right)}
}

// ============================================================
// Sigma: bounded summation
// ============================================================

// Sigma sums body over index = from, from+1, ..., to. The bounds are
// evaluated outside the scope of the index.
type Sigma struct {
	from, to Expr
	index    string
	body     Expr
}

var indexCounter atomic.Uint64

// freshIndex returns an index name that no other summation in this process
// has been given.
func freshIndex() string {
	return "i" + strconv.FormatUint(indexCounter.Add(1), 10)
}

// Summation builds the sum of body(i) for i from `from` to `to`. The builder
// is called exactly once, with a fresh index variable, to produce the body
// tree.
func Summation(from, to Expr, body func(i Expr) Expr) Expr {
	if body == nil {
		panic("gosigma: summation body builder is nil")
	}
	name := freshIndex()
	return &Sigma{from: from, to: to, index: name, body: body(&Index{name: name})}
}

func (s *Sigma) Evaluate(n int64) (*big.Int, error)      { return evaluate(s, big.NewInt(n)) }
func (s *Sigma) EvaluateBig(n *big.Int) (*big.Int, error) { return evaluate(s, n) }
func (s *Sigma) Degree() (int, error)                     { return degree(s) }
func (s *Sigma) Equal(other Expr) bool                    { return equalExpr(s, other, nil) }
func (s *Sigma) exprType() string                         { return "sum" }
func (s *Sigma) From() Expr                               { return s.from }
func (s *Sigma) To() Expr                                 { return s.to }
func (s *Sigma) IndexName() string                        { return s.index }
func (s *Sigma) Body() Expr                               { return s.body }

func (s *Sigma) String() string {
	return fmt.Sprintf("Σ(%s=%s..%s)(%s)", s.index, str(s.from), str(s.to), str(s.body))
}

func (s *Sigma) toJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":  "sum",
		"from":  nodeJSON(s.from),
		"to":    nodeJSON(s.to),
		"index": s.index,
		"body":  nodeJSON(s.body),
	}
}

func str(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

// ============================================================
// Interpretation
// ============================================================

// algebra gives meaning to the leaves and combinators of a tree over T.
// Parameter and index lookups go through the Context.
type algebra[T any] interface {
	constant(v *big.Int) T
	add(a, b T) (T, error)
	mul(a, b T) (T, error)
	// sum folds a summation whose bounds are already interpreted.
	sum(ctx *Context[T], from, to T, s *Sigma) (T, error)
}

// fold walks e once, bottom up, under the given algebra.
func fold[T any](e Expr, ctx *Context[T], alg algebra[T]) (T, error) {
	var zero T
	switch v := e.(type) {
	case nil:
		return zero, ErrNullExpression
	case *Param:
		return ctx.Parameter(), nil
	case *Index:
		return ctx.Index(v.name)
	case *Const:
		return alg.constant(v.val), nil
	case *Add:
		l, r, err := fold2(v.left, v.right, ctx, alg)
		if err != nil {
			return zero, err
		}
		return alg.add(l, r)
	case *Mul:
		l, r, err := fold2(v.left, v.right, ctx, alg)
		if err != nil {
			return zero, err
		}
		return alg.mul(l, r)
	case *Sigma:
		from, to, err := fold2(v.from, v.to, ctx, alg)
		if err != nil {
			return zero, err
		}
		return alg.sum(ctx, from, to, v)
	}
	return zero, fmt.Errorf("unknown expression type %T", e)
}

func fold2[T any](a, b Expr, ctx *Context[T], alg algebra[T]) (T, T, error) {
	var zero T
	l, err := fold(a, ctx, alg)
	if err != nil {
		return zero, zero, err
	}
	r, err := fold(b, ctx, alg)
	if err != nil {
		return zero, zero, err
	}
	return l, r, nil
}

// valueAlgebra computes exact integer values. When terms is not nil it is
// the number of summation terms still allowed; every summation takes its
// length from it up front.
type valueAlgebra struct {
	terms *big.Int
}

func (valueAlgebra) constant(v *big.Int) *big.Int { return new(big.Int).Set(v) }

func (valueAlgebra) add(a, b *big.Int) (*big.Int, error) { return new(big.Int).Add(a, b), nil }
func (valueAlgebra) mul(a, b *big.Int) (*big.Int, error) { return new(big.Int).Mul(a, b), nil }

func (alg valueAlgebra) sum(ctx *Context[*big.Int], from, to *big.Int, s *Sigma) (*big.Int, error) {
	total := new(big.Int)
	if from.Cmp(to) > 0 { // empty, whatever the length
		return total, nil
	}
	if alg.terms != nil {
		length := new(big.Int).Sub(to, from)
		length.Add(length, big.NewInt(1))
		if length.Cmp(alg.terms) > 0 {
			return nil, errwrap.Wrapf(ErrTermLimit, "summation over %s..%s", from, to)
		}
		alg.terms.Sub(alg.terms, length)
	}
	one := big.NewInt(1)
	for i := new(big.Int).Set(from); i.Cmp(to) <= 0; i.Add(i, one) {
		term, err := fold[*big.Int](s.body, ctx.With(s.index, new(big.Int).Set(i)), alg)
		if err != nil {
			return nil, err
		}
		total.Add(total, term)
	}
	return total, nil
}

// degreeAlgebra propagates degree weights. The parameter weighs 1 and an
// index weighs whatever its summation bound it to. Weights are never
// negative, so the only failure is running past math.MaxInt.
type degreeAlgebra struct{}

func (degreeAlgebra) constant(*big.Int) int { return 0 }

func (degreeAlgebra) add(a, b int) (int, error) { return max(a, b), nil }
func (degreeAlgebra) mul(a, b int) (int, error) { return addWeights(a, b) }

func (alg degreeAlgebra) sum(ctx *Context[int], from, to int, s *Sigma) (int, error) {
	count := max(from, to) // overestimate
	body, err := fold[int](s.body, ctx.With(s.index, count), alg)
	if err != nil {
		return 0, err
	}
	return addWeights(body, count)
}

func addWeights(a, b int) (int, error) {
	if a > math.MaxInt-b {
		return 0, errwrap.Wrapf(ErrDegreeLimit, "degree estimate overflows")
	}
	return a + b, nil
}

func evaluate(e Expr, n *big.Int) (*big.Int, error) { return evaluateLimited(e, n, 0) }

// evaluateLimited is evaluate with at most maxTerms summation terms in
// total. Zero means no limit.
func evaluateLimited(e Expr, n *big.Int, maxTerms int64) (*big.Int, error) {
	if n == nil {
		return nil, fmt.Errorf("parameter value is nil")
	}
	alg := valueAlgebra{}
	if maxTerms > 0 {
		alg.terms = big.NewInt(maxTerms)
	}
	return fold[*big.Int](e, Root[*big.Int](new(big.Int).Set(n)), alg)
}

func degree(e Expr) (int, error) {
	return fold[int](e, Root[int](1), degreeAlgebra{})
}

// ============================================================
// Structural equality
// ============================================================

// equalExpr compares two trees. The scope maps the index names of a to the
// matching index names of b, so summations built separately still compare
// equal.
func equalExpr(a, b Expr, scope *Context[string]) bool {
	if scope == nil {
		scope = Root("")
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Param:
		_, ok := b.(*Param)
		return ok
	case *Index:
		y, ok := b.(*Index)
		if !ok {
			return false
		}
		bound, err := scope.Index(x.name)
		if err != nil { // free in both
			return x.name == y.name
		}
		return bound == y.name
	case *Const:
		y, ok := b.(*Const)
		return ok && x.val.Cmp(y.val) == 0
	case *Add:
		y, ok := b.(*Add)
		return ok && equalExpr(x.left, y.left, scope) && equalExpr(x.right, y.right, scope)
	case *Mul:
		y, ok := b.(*Mul)
		return ok && equalExpr(x.left, y.left, scope) && equalExpr(x.right, y.right, scope)
	case *Sigma:
		y, ok := b.(*Sigma)
		return ok &&
			equalExpr(x.from, y.from, scope) &&
			equalExpr(x.to, y.to, scope) &&
			equalExpr(x.body, y.body, scope.With(x.index, y.index))
	}
	return false
}

// ============================================================
// Top-level convenience functions
// ============================================================

// Evaluate computes e with the parameter bound to n.
func Evaluate(e Expr, n int64) (*big.Int, error) {
	if e == nil {
		return nil, ErrNullExpression
	}
	return e.Evaluate(n)
}

// Degree returns the degree estimate of e.
func Degree(e Expr) (int, error) {
	if e == nil {
		return 0, ErrNullExpression
	}
	return e.Degree()
}

// String renders e, or "<nil>".
func String(e Expr) string { return str(e) }

// Indices lists the summation index names of e in depth-first order.
func Indices(e Expr) []string {
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Add:
			walk(v.left)
			walk(v.right)
		case *Mul:
			walk(v.left)
			walk(v.right)
		case *Sigma:
			out = append(out, v.index)
			walk(v.from)
			walk(v.to)
			walk(v.body)
		}
	}
	walk(e)
	return out
}

// describe is used by Simplifier debug logs.
func describe(e Expr) string {
	s := []rune(str(e))
	if len(s) > 120 {
		return strings.TrimSpace(string(s[:117])) + "..."
	}
	return string(s)
}
