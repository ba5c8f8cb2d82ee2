package gosigma_test

import (
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/njchilds90/gosigma"

	"github.com/pkg/errors"
)

var x = gosigma.Parameter

func sum1ToX(body func(i gosigma.Expr) gosigma.Expr) gosigma.Expr {
	return gosigma.Summation(gosigma.N(1), x, body)
}

func mustEval(t *testing.T, e gosigma.Expr, n int64) string {
	t.Helper()
	v, err := e.Evaluate(n)
	if err != nil {
		t.Fatalf("evaluate at %d: %+v", n, err)
	}
	return v.String()
}

// tower nests Σ_{i=1..bound} i¹⁰ levels times, each level the bound of the
// next, starting from x. Its degree is 11^levels.
func tower(levels int) gosigma.Expr {
	e := x
	for l := 0; l < levels; l++ {
		e = gosigma.Summation(gosigma.N(1), e, func(i gosigma.Expr) gosigma.Expr {
			return gosigma.MulOf(i, i, i, i, i, i, i, i, i, i)
		})
	}
	return e
}

func mustDegree(t *testing.T, e gosigma.Expr) int {
	t.Helper()
	d, err := e.Degree()
	if err != nil {
		t.Fatalf("degree: %+v", err)
	}
	return d
}

// ============================================================
// Evaluate
// ============================================================

func TestEvaluate_Leaves(t *testing.T) {
	if got := mustEval(t, x, 7); got != "7" {
		t.Errorf("want 7, got %s", got)
	}
	if got := mustEval(t, gosigma.N(-12), 7); got != "-12" {
		t.Errorf("want -12, got %s", got)
	}
}

func TestEvaluate_Arithmetic(t *testing.T) {
	// 3x² - (x + 1)
	e := gosigma.SubOf(gosigma.MulOf(gosigma.N(3), x, x), gosigma.AddOf(x, gosigma.N(1)))
	if got := mustEval(t, e, 4); got != "43" {
		t.Errorf("want 43, got %s", got)
	}
	if got := mustEval(t, gosigma.NegOf(x), 5); got != "-5" {
		t.Errorf("want -5, got %s", got)
	}
}

func TestEvaluate_EmptyCombinators(t *testing.T) {
	if got := mustEval(t, gosigma.AddOf(), 3); got != "0" {
		t.Errorf("empty AddOf should be 0, got %s", got)
	}
	if got := mustEval(t, gosigma.MulOf(), 3); got != "1" {
		t.Errorf("empty MulOf should be 1, got %s", got)
	}
}

func TestEvaluate_Summation(t *testing.T) {
	gauss := sum1ToX(func(i gosigma.Expr) gosigma.Expr { return i })
	if got := mustEval(t, gauss, 100); got != "5050" {
		t.Errorf("want 5050, got %s", got)
	}
}

func TestEvaluate_EmptyRange(t *testing.T) {
	e := gosigma.Summation(gosigma.N(5), gosigma.N(1), func(i gosigma.Expr) gosigma.Expr { return i })
	if got := mustEval(t, e, 0); got != "0" {
		t.Errorf("from > to should sum to 0, got %s", got)
	}
	// 1..x with x = -10 is a range of negative length
	gauss := sum1ToX(func(i gosigma.Expr) gosigma.Expr { return i })
	if got := mustEval(t, gauss, -10); got != "0" {
		t.Errorf("negative length range should sum to 0, got %s", got)
	}
}

func TestEvaluate_NegativeBounds(t *testing.T) {
	e := gosigma.Summation(gosigma.N(-2), gosigma.N(2), func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, i) })
	if got := mustEval(t, e, 0); got != "10" {
		t.Errorf("want 10, got %s", got)
	}
}

func TestEvaluate_NestedUsesOuterIndex(t *testing.T) {
	// Σ_{i=1..x} Σ_{j=i..x} 1 = x(x+1)/2
	e := sum1ToX(func(i gosigma.Expr) gosigma.Expr {
		return gosigma.Summation(i, x, func(j gosigma.Expr) gosigma.Expr { return gosigma.N(1) })
	})
	if got := mustEval(t, e, 6); got != "21" {
		t.Errorf("want 21, got %s", got)
	}
}

func TestEvaluate_BigValues(t *testing.T) {
	// Σ i⁸ for i = 1..1000 is far beyond int64
	e := sum1ToX(func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, i, i, i, i, i, i, i) })
	got, err := e.Evaluate(1000)
	if err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	want := new(big.Int)
	for i := int64(1); i <= 1000; i++ {
		want.Add(want, new(big.Int).Exp(big.NewInt(i), big.NewInt(8), nil))
	}
	if got.Cmp(want) != 0 {
		t.Errorf("want %s, got %s", want, got)
	}
	if got.IsInt64() {
		t.Errorf("expected a value beyond int64")
	}
}

func TestEvaluate_Big(t *testing.T) {
	n, _ := new(big.Int).SetString("100000000000000000000", 10)
	v, err := gosigma.MulOf(x, x).EvaluateBig(n)
	if err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if v.String() != "10000000000000000000000000000000000000000" {
		t.Errorf("got %s", v)
	}
}

func TestEvaluate_UnboundIndex(t *testing.T) {
	var leaked gosigma.Expr
	gosigma.Summation(gosigma.N(1), gosigma.N(2), func(i gosigma.Expr) gosigma.Expr {
		leaked = i
		return i
	})
	if _, err := leaked.Evaluate(0); !errors.Is(err, gosigma.ErrUnboundIndex) {
		t.Errorf("want ErrUnboundIndex, got %v", err)
	}
	if _, err := gosigma.AddOf(x, leaked).Degree(); !errors.Is(err, gosigma.ErrUnboundIndex) {
		t.Errorf("degree: want ErrUnboundIndex, got %v", err)
	}
}

func TestEvaluate_NilChild(t *testing.T) {
	if _, err := gosigma.AddOf(x, nil).Evaluate(1); !errors.Is(err, gosigma.ErrNullExpression) {
		t.Errorf("want ErrNullExpression, got %v", err)
	}
	if _, err := gosigma.Evaluate(nil, 1); !errors.Is(err, gosigma.ErrNullExpression) {
		t.Errorf("want ErrNullExpression, got %v", err)
	}
}

func TestEvaluate_BuilderCalledOnce(t *testing.T) {
	calls := 0
	e := sum1ToX(func(i gosigma.Expr) gosigma.Expr {
		calls++
		return i
	})
	mustEval(t, e, 10)
	mustEval(t, e, 20)
	if calls != 1 {
		t.Errorf("body builder should run once, ran %d times", calls)
	}
}

func TestEvaluate_Concurrent(t *testing.T) {
	e := sum1ToX(func(i gosigma.Expr) gosigma.Expr {
		return gosigma.Summation(gosigma.N(1), i, func(j gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, j) })
	})
	want := mustEval(t, e, 12)
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for k := 0; k < 8; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := e.Evaluate(12)
			if err != nil || v.String() != want {
				errs <- "mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

// ============================================================
// Degree
// ============================================================

func TestDegree(t *testing.T) {
	tests := []struct {
		name string
		expr gosigma.Expr
		want int
	}{
		{"constant", gosigma.N(12), 0},
		{"parameter", x, 1},
		{"product adds", gosigma.MulOf(x, x, x), 3},
		{"addition takes max", gosigma.AddOf(x, gosigma.MulOf(x, x), gosigma.N(4)), 2},
		{"sum of constants", sum1ToX(func(i gosigma.Expr) gosigma.Expr { return gosigma.N(3) }), 1},
		{"sum of index", sum1ToX(func(i gosigma.Expr) gosigma.Expr { return i }), 2},
		{"sum of squares", sum1ToX(func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, i) }), 3},
		{"scaled bound", gosigma.Summation(gosigma.N(1), gosigma.MulOf(gosigma.N(2), x), func(i gosigma.Expr) gosigma.Expr { return i }), 2},
		{"squared bound", gosigma.Summation(gosigma.N(1), gosigma.MulOf(x, x), func(i gosigma.Expr) gosigma.Expr { return i }), 4},
		{"constant bounds", gosigma.Summation(gosigma.N(1), gosigma.N(9), func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, x) }), 1},
		{"overestimate", gosigma.Summation(x, x, func(i gosigma.Expr) gosigma.Expr { return i }), 2},
		{"nested", sum1ToX(func(i gosigma.Expr) gosigma.Expr {
			return gosigma.Summation(gosigma.N(1), i, func(j gosigma.Expr) gosigma.Expr { return j })
		}), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustDegree(t, tc.expr); got != tc.want {
				t.Errorf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestDegree_Overflow(t *testing.T) {
	// 11^18 still fits in an int
	if got := mustDegree(t, tower(18)); got != 5559917313492231481 {
		t.Errorf("want 11^18, got %d", got)
	}
	for _, levels := range []int{19, 22} {
		d, err := tower(levels).Degree()
		if !errors.Is(err, gosigma.ErrDegreeLimit) {
			t.Errorf("%d levels: want ErrDegreeLimit, got %d (%v)", levels, d, err)
		}
	}
}

func TestDegree_Nil(t *testing.T) {
	if _, err := gosigma.Degree(nil); !errors.Is(err, gosigma.ErrNullExpression) {
		t.Errorf("want ErrNullExpression, got %v", err)
	}
}

// ============================================================
// String, Equal, Indices
// ============================================================

func TestString(t *testing.T) {
	if s := gosigma.AddOf(x, gosigma.N(3)).String(); s != "x + 3" {
		t.Errorf("want 'x + 3', got %s", s)
	}
	if s := gosigma.MulOf(gosigma.N(2), gosigma.AddOf(x, gosigma.N(1))).String(); s != "2 * (x + 1)" {
		t.Errorf("want '2 * (x + 1)', got %s", s)
	}
	if s := gosigma.NegOf(x).String(); s != "-1 * x" {
		t.Errorf("want '-1 * x', got %s", s)
	}
	if s := gosigma.String(nil); s != "<nil>" {
		t.Errorf("want <nil>, got %s", s)
	}
}

func TestString_Summation(t *testing.T) {
	e := sum1ToX(func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, i) })
	name := gosigma.Indices(e)[0]
	want := "Σ(" + name + "=1..x)(" + name + " * " + name + ")"
	if s := e.String(); s != want {
		t.Errorf("want %s, got %s", want, s)
	}
}

func TestFreshIndexNames(t *testing.T) {
	e := sum1ToX(func(i gosigma.Expr) gosigma.Expr {
		return gosigma.Summation(gosigma.N(1), i, func(j gosigma.Expr) gosigma.Expr { return j })
	})
	names := gosigma.Indices(e)
	if len(names) != 2 {
		t.Fatalf("want 2 indices, got %v", names)
	}
	if names[0] == names[1] {
		t.Errorf("nested summations share index name %s", names[0])
	}
	for _, n := range names {
		if !strings.HasPrefix(n, "i") {
			t.Errorf("unexpected index name %s", n)
		}
	}
}

func TestEqual(t *testing.T) {
	a := sum1ToX(func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, i) })
	b := sum1ToX(func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, i) })
	c := sum1ToX(func(i gosigma.Expr) gosigma.Expr { return gosigma.MulOf(i, x) })
	if !a.Equal(b) {
		t.Errorf("separately built summations should be equal")
	}
	if a.Equal(c) {
		t.Errorf("different bodies should not be equal")
	}
	if gosigma.N(2).Equal(x) {
		t.Errorf("constant should not equal parameter")
	}
	if !gosigma.N(2).Equal(gosigma.N(2)) {
		t.Errorf("equal constants should be equal")
	}
	if x.Equal(nil) {
		t.Errorf("nothing equals nil")
	}
}
