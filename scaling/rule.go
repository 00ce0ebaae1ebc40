package scaling

import (
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	tferr "github.com/ecutools/tunefile/errors"
)

// Rule is one compiled raw-to-display transform. The zero rule (and a nil
// rule) is the identity transform.
type Rule struct {
	// Expression is the source formula, kept for diagnostics.
	Expression string

	program    *vm.Program
	compileErr error
}

// Compile compiles a formula in the free variable x. An empty or blank
// expression yields an identity rule.
//
// On a compile failure the returned rule is still usable: Apply falls back
// to the raw value for every input, so one bad formula in a schema degrades
// that table instead of rejecting the whole definition. The error is also
// returned so callers can surface it.
func Compile(expression string) (*Rule, error) {
	r := &Rule{Expression: strings.TrimSpace(expression)}
	if r.Expression == "" {
		return r, nil
	}
	program, err := expr.Compile(r.Expression, expr.Env(map[string]any{"x": float64(0)}))
	if err != nil {
		r.compileErr = tferr.BadExpression(r.Expression, err)
		return r, r.compileErr
	}
	r.program = program
	return r, nil
}

// MustCompile is Compile that panics on a compile error. For tests and
// statically known formulas.
func MustCompile(expression string) *Rule {
	r, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return r
}

// Identity reports whether the rule performs no transform.
func (r *Rule) Identity() bool {
	return r == nil || (r.program == nil && r.compileErr == nil)
}

// Apply evaluates the rule over one raw value and rounds the result to two
// decimals, the display convention of calibration tools.
//
// Apply never fails. A nil or identity rule returns the raw value (rounded).
// Division by zero returns 0. Any other evaluation fault, including a rule
// that failed to compile, returns the raw value unchanged; the fault is
// logged and processing continues.
func (r *Rule) Apply(raw float64) float64 {
	if r == nil || r.program == nil {
		if r != nil && r.compileErr != nil {
			Logger().Warn("scaling rule unusable, keeping raw value",
				zap.String("expression", r.Expression),
				zap.Error(r.compileErr))
			return raw
		}
		return round2(raw)
	}

	out, err := vm.Run(r.program, map[string]any{"x": raw})
	if err != nil {
		if isDivideByZero(err) {
			Logger().Warn("division by zero in scaling formula",
				zap.String("expression", r.Expression),
				zap.Float64("raw", raw))
			return 0
		}
		Logger().Warn("scaling evaluation fault, keeping raw value",
			zap.Error(tferr.EvalFault(r.Expression, raw, err)))
		return raw
	}

	v, ok := toFloat(out)
	if !ok {
		Logger().Warn("scaling formula produced a non-numeric result, keeping raw value",
			zap.String("expression", r.Expression))
		return raw
	}
	// Float division by zero surfaces as Inf/NaN rather than an error.
	if math.IsInf(v, 0) || math.IsNaN(v) {
		Logger().Warn("division by zero in scaling formula",
			zap.String("expression", r.Expression),
			zap.Float64("raw", raw))
		return 0
	}
	return round2(v)
}

// ApplyAll maps Apply over a slice of raw values.
func (r *Rule) ApplyAll(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = r.Apply(v)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func isDivideByZero(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "divide by zero") || strings.Contains(msg, "division by zero")
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
