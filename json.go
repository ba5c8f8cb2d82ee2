package gosigma

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/njchilds90/gosigma/internal/errwrap"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e as nested objects tagged by "type": param, index, const,
// add, mul and sum.
func ToJSON(e Expr) (string, error) {
	if e == nil {
		return "", ErrNullExpression
	}
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

func nodeJSON(e Expr) map[string]interface{} {
	if e == nil {
		return nil
	}
	return e.toJSON()
}

// FromJSON decodes the output of ToJSON, after it went through
// json.Unmarshal into a map. Constants may be strings or integral numbers.
// Every index must be introduced by an enclosing sum.
func FromJSON(data map[string]interface{}) (Expr, error) {
	return fromJSON(data, Root(true))
}

func fromJSON(data map[string]interface{}, scope *Context[bool]) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subExpr := func(field string, scope *Context[bool]) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := fromJSON(m, scope)
		if err != nil {
			return nil, errwrap.Wrapf(err, "%s: %s", typ, field)
		}
		return e, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "param":
		return Parameter, nil

	case "index":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if _, err := scope.Index(name); err != nil {
			return nil, err
		}
		return &Index{name: name}, nil

	case "const":
		v, ok := data["value"]
		if !ok {
			return nil, fmt.Errorf("const: missing 'value'")
		}
		n, err := ParseInt(v)
		if err != nil {
			return nil, errwrap.Wrapf(err, "const")
		}
		return &Const{val: n}, nil

	case "add", "mul":
		left, err := subExpr("left", scope)
		if err != nil {
			return nil, err
		}
		right, err := subExpr("right", scope)
		if err != nil {
			return nil, err
		}
		if typ == "add" {
			return &Add{left: left, right: right}, nil
		}
		return &Mul{left: left, right: right}, nil

	case "sum":
		name, err := subString("index")
		if err != nil {
			return nil, err
		}
		from, err := subExpr("from", scope)
		if err != nil {
			return nil, err
		}
		to, err := subExpr("to", scope)
		if err != nil {
			return nil, err
		}
		body, err := subExpr("body", scope.With(name, true))
		if err != nil {
			return nil, err
		}
		return &Sigma{from: from, to: to, index: name, body: body}, nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

// ParseInt reads an integer out of a decoded document: a decimal string, an
// integral JSON number, a json.Number or a Go integer as produced by YAML
// decoders.
func ParseInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case string:
		r, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer: %q", n)
		}
		return r, nil
	case json.Number:
		return ParseInt(n.String())
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("not an integer: %v", n)
		}
		if math.Abs(n) > 1<<53 {
			return nil, fmt.Errorf("number %v is too large to be exact, use a string", n)
		}
		return big.NewInt(int64(n)), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	}
	return nil, fmt.Errorf("invalid integer of type %T", v)
}

// PolynomialJSON describes p as {"coefficients": [...], "divider": "..."}
// with every integer written as a string.
func PolynomialJSON(p *Polynomial) map[string]interface{} {
	cs := make([]string, len(p.coeffs))
	for i, c := range p.coeffs {
		cs[i] = c.String()
	}
	return map[string]interface{}{"coefficients": cs, "divider": p.divider.String()}
}

// PolynomialFromJSON reverses PolynomialJSON. A missing divider means 1.
func PolynomialFromJSON(data map[string]interface{}) (*Polynomial, error) {
	if data == nil {
		return nil, fmt.Errorf("polynomial must be an object")
	}
	divider := big.NewInt(1)
	if v, ok := data["divider"]; ok {
		d, err := ParseInt(v)
		if err != nil {
			return nil, errwrap.Wrapf(err, "divider")
		}
		divider = d
	}
	var coeffs []*big.Int
	switch raw := data["coefficients"].(type) {
	case nil:
	case []interface{}:
		for i, it := range raw {
			c, err := ParseInt(it)
			if err != nil {
				return nil, errwrap.Wrapf(err, "coefficients[%d]", i)
			}
			coeffs = append(coeffs, c)
		}
	case []string:
		for i, it := range raw {
			c, err := ParseInt(it)
			if err != nil {
				return nil, errwrap.Wrapf(err, "coefficients[%d]", i)
			}
			coeffs = append(coeffs, c)
		}
	default:
		return nil, fmt.Errorf("'coefficients' must be an array")
	}
	return NewPolynomial(coeffs, divider)
}
