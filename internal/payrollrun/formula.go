package payrollrun

import (
	"math"
	"strings"

	"github.com/Knetic/govaluate"
	"go.uber.org/zap"
)

// formulaVariables is the fixed set of identifiers a component formula may
// reference.
var formulaVariables = map[string]struct{}{
	"BASE_SALARY":   {},
	"EARNED_SALARY": {},
	"DAILY_SALARY":  {},
}

// EvaluateFormula evaluates a restricted arithmetic expression over the
// allowed payroll variables. Anything outside numbers, the four operators,
// parentheses and the known identifiers is rejected before evaluation.
// Every failure, including a non-finite result, resolves to 0 so a broken
// formula zeroes its own component instead of failing the employee.
func EvaluateFormula(formula string, vars map[string]float64) float64 {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return 0
	}
	if !formulaTokensValid(formula) {
		zap.L().Warn("rejected salary component formula", zap.String("formula", formula))
		return 0
	}

	expr, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		zap.L().Warn("unparseable salary component formula", zap.String("formula", formula), zap.Error(err))
		return 0
	}

	params := make(map[string]any, len(vars))
	for k, v := range vars {
		params[k] = v
	}

	out, err := expr.Evaluate(params)
	if err != nil {
		zap.L().Warn("salary component formula evaluation failed", zap.String("formula", formula), zap.Error(err))
		return 0
	}

	v, ok := out.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// formulaTokensValid scans the expression and accepts only numeric literals,
// + - * / ( ) and whitelisted identifiers.
func formulaTokensValid(formula string) bool {
	i := 0
	for i < len(formula) {
		c := formula[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')':
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(formula) && (formula[j] >= '0' && formula[j] <= '9' || formula[j] == '.') {
				j++
			}
			i = j
		case c >= 'A' && c <= 'Z' || c == '_':
			j := i
			for j < len(formula) && (formula[j] >= 'A' && formula[j] <= 'Z' || formula[j] == '_' || formula[j] >= '0' && formula[j] <= '9') {
				j++
			}
			if _, ok := formulaVariables[formula[i:j]]; !ok {
				return false
			}
			i = j
		default:
			return false
		}
	}
	return true
}
