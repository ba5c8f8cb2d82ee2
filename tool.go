package gosigma

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/njchilds90/gosigma/internal/errwrap"

	"github.com/iancoleman/strcase"
)

// ============================================================
// MCP Tool Interface
// ============================================================

// ToolRequest is one tool call: a tool name and its JSON decoded parameters.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries either a result or an error. Polynomial results also
// fill in the rendered forms.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	ASCII  string      `json:"ascii,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// toolAliases maps the normalized spellings of the engine's own operation
// names onto tool names.
var toolAliases = map[string]string{
	"make_lagrange_at_naturals": "lagrange",
	"make_lagrange":             "lagrange",
	"get_degree":                "degree",
}

// ToolName normalizes a tool name: camelCase and kebab-case are accepted and
// aliases are resolved.
func ToolName(name string) string {
	n := strcase.ToSnake(name)
	if alias, ok := toolAliases[n]; ok {
		return alias
	}
	return n
}

// Limits bound the work one tool call may do. A zero field means no limit.
type Limits struct {
	// MaxDegree caps the degree estimate of simplify and check, and the
	// number of values of lagrange. A smaller max_degree param still wins.
	MaxDegree int

	// MaxTerms caps the summation terms added up by one evaluation.
	MaxTerms int64

	// MaxCheckRange caps the number of points a check visits.
	MaxCheckRange int64
}

// DefaultLimits are used by HandleToolCall.
var DefaultLimits = Limits{
	MaxDegree:     64,
	MaxTerms:      1 << 20,
	MaxCheckRange: 10000,
}

// HandleToolCall runs one tool call under DefaultLimits.
func HandleToolCall(req ToolRequest) ToolResponse {
	return DefaultLimits.HandleToolCall(req)
}

// degreeCap returns the smaller of the configured cap and a requested one,
// where zero means none.
func (obj Limits) degreeCap(requested int64) int64 {
	limit := int64(obj.MaxDegree)
	if requested > 0 && (limit <= 0 || requested < limit) {
		limit = requested
	}
	return limit
}

// HandleToolCall runs one tool call. It never panics on bad input; problems,
// including requests over the limits, are reported in ToolResponse.Error.
func (obj Limits) HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param %s", key)
		}
		return FromJSON(val)
	}
	getInt := func(key string, def int64) (int64, error) {
		v, ok := req.Params[key]
		if !ok {
			return def, nil
		}
		n, err := ParseInt(v)
		if err != nil {
			return 0, errwrap.Wrapf(err, "param %s", key)
		}
		if !n.IsInt64() {
			return 0, fmt.Errorf("param %s is out of range", key)
		}
		return n.Int64(), nil
	}
	getInts := func(key string) ([]*big.Int, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		out := make([]*big.Int, len(raw))
		for i, r := range raw {
			n, err := ParseInt(r)
			if err != nil {
				return nil, errwrap.Wrapf(err, "param %s[%d]", key, i)
			}
			out[i] = n
		}
		return out, nil
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	polyResponse := func(p *Polynomial) ToolResponse {
		return ToolResponse{
			Result: PolynomialJSON(p),
			LaTeX:  p.LaTeX(),
			String: p.ToUnicodeString(),
			ASCII:  p.ToASCIIString(),
		}
	}

	switch ToolName(req.Tool) {
	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		maxDegree, err := getInt("max_degree", 0)
		if err != nil {
			return fail(err)
		}
		p, err := obj.simplifier(maxDegree).Simplify(e)
		if err != nil {
			return fail(err)
		}
		return polyResponse(p)

	case "evaluate":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		n, err := getInt("n", 0)
		if err != nil {
			return fail(err)
		}
		v, err := evaluateLimited(e, big.NewInt(n), obj.MaxTerms)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: v.String(), String: v.String()}

	case "degree":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		d, err := e.Degree()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: d}

	case "lagrange":
		values, err := getInts("values")
		if err != nil {
			return fail(err)
		}
		if d := int64(len(values) - 1); obj.MaxDegree > 0 && d > int64(obj.MaxDegree) {
			return fail(errwrap.Wrapf(ErrDegreeLimit, "%d values is degree %d, above %d", len(values), d, obj.MaxDegree))
		}
		return polyResponse(MakeLagrangeAtNaturals(values).Simplified())

	case "check":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		var p *Polynomial
		if v, ok := req.Params["polynomial"]; ok {
			m, ok := v.(map[string]interface{})
			if !ok {
				return fail(fmt.Errorf("invalid type for param polynomial"))
			}
			if p, err = PolynomialFromJSON(m); err != nil {
				return fail(err)
			}
		} else if p, err = obj.simplifier(0).Simplify(e); err != nil {
			return fail(err)
		}
		from, err := getInt("from", 0)
		if err != nil {
			return fail(err)
		}
		to, err := getInt("to", 10)
		if err != nil {
			return fail(err)
		}
		// to - from wraps into the right unsigned distance when from <= to
		if obj.MaxCheckRange > 0 && from <= to && uint64(to)-uint64(from) >= uint64(obj.MaxCheckRange) {
			return fail(errwrap.Wrapf(ErrRangeLimit, "%d..%d is more than %d points", from, to, obj.MaxCheckRange))
		}
		if err := check(e, p, from, to, obj.MaxTerms); err != nil {
			resp := fail(err)
			resp.Result = map[string]interface{}{"ok": false, "mismatches": len(errwrap.Errors(err))}
			return resp
		}
		resp := polyResponse(p)
		resp.Result = map[string]interface{}{"ok": true, "polynomial": PolynomialJSON(p)}
		return resp

	case "mcp_spec":
		var spec interface{}
		if err := json.Unmarshal([]byte(MCPToolSpec()), &spec); err != nil {
			return fail(err)
		}
		return ToolResponse{Result: spec}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func (obj Limits) simplifier(maxDegree int64) *Simplifier {
	return &Simplifier{MaxDegree: int(obj.degreeCap(maxDegree)), MaxTerms: obj.MaxTerms}
}

// ============================================================
// MCP spec
// ============================================================

// MCPToolSpec returns the JSON schema of every tool HandleToolCall serves.
func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("simplify", "Closed-form polynomial of a summation expression. Optional max_degree (integer)", []string{"expr"}, map[string]string{"expr": "object", "max_degree": "integer"}),
		ts("evaluate", "Exact value of an expression with the parameter bound to n", []string{"expr", "n"}, map[string]string{"expr": "object", "n": "integer"}),
		ts("degree", "Upper bound on the polynomial degree of an expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("lagrange", "Polynomial through values[i] at x = i", []string{"values"}, map[string]string{"values": "array"}),
		ts("check", "Compare an expression with a polynomial (default: its simplification) on from..to", []string{"expr"}, map[string]string{"expr": "object", "polynomial": "object", "from": "integer", "to": "integer"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
