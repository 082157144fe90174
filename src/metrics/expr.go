package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/types"
)

// exprCostLimit caps evaluation work per user.
const exprCostLimit = 100000

// ExprMetric evaluates a CEL expression against each user. The record is exposed as the
// dynamic variable `user` with the endpoint's JSON field names, e.g.
// `size(user.company.name) + size(user.username)`.
type ExprMetric struct {
	expr  string
	label string
	prg   cel.Program
}

// CompileExpr compiles expr. label names the series; the expression text is used when empty.
func CompileExpr(expr, label string) (*ExprMetric, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("compile metric expression: empty expression")
	}
	env, err := cel.NewEnv(cel.Variable("user", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile metric expression: %w", issues.Err())
	}
	prg, err := env.Program(ast, cel.CostLimit(exprCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}
	if label == "" {
		label = expr
	}
	return &ExprMetric{expr: expr, label: label, prg: prg}, nil
}

func (e *ExprMetric) Key() string   { return "expr:" + e.expr }
func (e *ExprMetric) Label() string { return e.label }

// Value returns the numeric result for u. Evaluation errors (for example a missing
// company) and non-numeric results count as 0.
func (e *ExprMetric) Value(u types.User) float64 {
	out, _, err := e.prg.Eval(map[string]any{"user": userFacts(u)})
	if err != nil {
		logging.Debugf("[metrics] expr %q on %q: %v", e.expr, u.Name, err)
		return 0
	}
	var v float64
	switch n := out.Value().(type) {
	case int64:
		v = float64(n)
	case uint64:
		v = float64(n)
	case float64:
		v = n
	default:
		logging.Debugf("[metrics] expr %q on %q returned %T, using 0", e.expr, u.Name, n)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// userFacts converts u to the map form CEL sees, keyed by the endpoint's JSON names. id is
// an int so integer arithmetic resolves; absent optional parts are absent keys.
func userFacts(u types.User) map[string]any {
	m := map[string]any{
		"id":       int64(u.ID),
		"name":     u.Name,
		"username": u.Username,
		"email":    u.Email,
		"phone":    u.Phone,
		"website":  u.Website,
	}
	if a := u.Address; a != nil {
		addr := map[string]any{
			"street":  a.Street,
			"suite":   a.Suite,
			"city":    a.City,
			"zipcode": a.Zipcode,
		}
		if a.Geo != nil {
			addr["geo"] = map[string]any{"lat": a.Geo.Lat, "lng": a.Geo.Lng}
		}
		m["address"] = addr
	}
	if c := u.Company; c != nil {
		m["company"] = map[string]any{
			"name":        c.Name,
			"catchPhrase": c.CatchPhrase,
			"bs":          c.BS,
		}
	}
	return m
}
