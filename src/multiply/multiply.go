// Package multiply provides the variadic product helper shown on start-up.
package multiply

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidArgument is returned when an argument is not a finite number.
var ErrInvalidArgument = errors.New("multiplyAll only accepts valid numbers")

// MultiplyAll returns the product of values, or 0 when called without arguments.
func MultiplyAll(values ...float64) (float64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	product := 1.0
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("argument %d (%v): %w", i, v, ErrInvalidArgument)
		}
		product *= v
	}
	return product, nil
}

// MultiplyValues is MultiplyAll for dynamically typed input. Integer and float kinds are
// accepted; anything else fails with ErrInvalidArgument.
func MultiplyValues(args ...any) (float64, error) {
	values := make([]float64, 0, len(args))
	for i, a := range args {
		v, ok := toFloat(a)
		if !ok {
			return 0, fmt.Errorf("argument %d (%T): %w", i, a, ErrInvalidArgument)
		}
		values = append(values, v)
	}
	return MultiplyAll(values...)
}

func toFloat(a any) (float64, bool) {
	switch v := a.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// ParseAndMultiply parses each token as a number and multiplies them. Tokens are trimmed;
// blank input means no arguments.
func ParseAndMultiply(tokens []string) (float64, error) {
	values := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("argument %d (%q): %w", i, tok, ErrInvalidArgument)
		}
		values = append(values, v)
	}
	return MultiplyAll(values...)
}

// DemoArgs are the arguments of the start-up demonstration.
var DemoArgs = []float64{2, 3, 4, 5}

// Demonstrate writes "multiplyAll(a, b, ...) = product" for args, or the error text.
func Demonstrate(out io.Writer, args ...float64) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.FormatFloat(a, 'g', -1, 64)
	}
	res, err := MultiplyAll(args...)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return
	}
	fmt.Fprintf(out, "multiplyAll(%s) = %s\n", strings.Join(parts, ", "), strconv.FormatFloat(res, 'g', -1, 64))
}
