package multiply

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestMultiplyAll(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"demo", []float64{2, 3, 4, 5}, 120},
		{"zero factor", []float64{9, 0, 3}, 0},
		{"negative", []float64{-2, 3}, -6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MultiplyAll(tc.in...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("MultiplyAll(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMultiplyAll_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := MultiplyAll(2, v); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("MultiplyAll(2, %v) err = %v, want ErrInvalidArgument", v, err)
		}
	}
}

func TestMultiplyValues(t *testing.T) {
	got, err := MultiplyValues(2, int64(3), float32(4), uint8(5))
	if err != nil || got != 120 {
		t.Fatalf("MultiplyValues mixed kinds = %v, %v; want 120, nil", got, err)
	}
	if got, err := MultiplyValues(); err != nil || got != 0 {
		t.Fatalf("MultiplyValues() = %v, %v; want 0, nil", got, err)
	}
	_, err = MultiplyValues(2, "x")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("MultiplyValues(2, \"x\") err = %v, want ErrInvalidArgument", err)
	}
	if !strings.Contains(err.Error(), "argument 1 (string)") {
		t.Fatalf("error should name the offending argument: %v", err)
	}
	for _, bad := range []any{nil, true, []int{1}} {
		if _, err := MultiplyValues(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("MultiplyValues(%v) err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestParseAndMultiply(t *testing.T) {
	got, err := ParseAndMultiply(strings.Split("2, 3,4 ,5", ","))
	if err != nil || got != 120 {
		t.Fatalf("ParseAndMultiply = %v, %v; want 120, nil", got, err)
	}
	if got, err := ParseAndMultiply([]string{""}); err != nil || got != 0 {
		t.Fatalf("blank input = %v, %v; want 0, nil", got, err)
	}
	if _, err := ParseAndMultiply([]string{"2", "x"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("non-numeric token err = %v, want ErrInvalidArgument", err)
	}
	if _, err := ParseAndMultiply([]string{"NaN"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NaN token err = %v, want ErrInvalidArgument", err)
	}
}

func TestDemonstrate(t *testing.T) {
	var buf bytes.Buffer
	Demonstrate(&buf, DemoArgs...)
	if got := buf.String(); got != "multiplyAll(2, 3, 4, 5) = 120\n" {
		t.Fatalf("Demonstrate output = %q", got)
	}
	buf.Reset()
	Demonstrate(&buf, 1, math.NaN())
	if !strings.Contains(buf.String(), ErrInvalidArgument.Error()) {
		t.Fatalf("Demonstrate should print the error message, got %q", buf.String())
	}
}
