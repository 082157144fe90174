package metrics

import (
	"testing"

	"github.com/iafilius/UserMetricChart/src/types"
)

func TestExprMetric_Value(t *testing.T) {
	users := sampleUsers()
	em, err := CompileExpr("size(user.username) + size(user.email)", "")
	if err != nil {
		t.Fatalf("CompileExpr: %v", err)
	}
	if got := em.Value(users[0]); got != 4+17 {
		t.Fatalf("Value = %v, want 21", got)
	}
	if em.Label() != "size(user.username) + size(user.email)" {
		t.Fatalf("label should default to the expression: %q", em.Label())
	}
	pts := TransformUsers(users, em)
	if len(pts) != len(users) || pts[1].Label != users[1].Name {
		t.Fatalf("TransformUsers with expr = %+v", pts)
	}
}

func TestExprMetric_MissingFieldIsZero(t *testing.T) {
	em, err := CompileExpr("size(user.company.name)", "Company")
	if err != nil {
		t.Fatalf("CompileExpr: %v", err)
	}
	users := sampleUsers()
	if got := em.Value(users[0]); got != 4 {
		t.Fatalf("present company = %v, want 4", got)
	}
	if got := em.Value(users[1]); got != 0 {
		t.Fatalf("absent company = %v, want 0", got)
	}
	if em.Label() != "Company" {
		t.Fatalf("label = %q", em.Label())
	}
}

func TestExprMetric_NonNumericIsZero(t *testing.T) {
	em, err := CompileExpr("user.name", "")
	if err != nil {
		t.Fatalf("CompileExpr: %v", err)
	}
	if got := em.Value(types.User{Name: "x"}); got != 0 {
		t.Fatalf("string result = %v, want 0", got)
	}
}

func TestCompileExpr_Errors(t *testing.T) {
	if _, err := CompileExpr("   ", ""); err == nil {
		t.Fatalf("empty expression should fail")
	}
	if _, err := CompileExpr("size(user.name", ""); err == nil {
		t.Fatalf("syntax error should fail")
	}
}

func TestExprMetric_IntegerArithmeticOnID(t *testing.T) {
	u := types.User{ID: 7}
	cases := map[string]float64{
		"user.id":               7,
		"user.id + 1":           8,
		"user.id * 2":           14,
		"double(user.id) / 2.0": 3.5,
	}
	for expr, want := range cases {
		em, err := CompileExpr(expr, "")
		if err != nil {
			t.Fatalf("CompileExpr(%q): %v", expr, err)
		}
		if got := em.Value(u); got != want {
			t.Fatalf("%s = %v, want %v", expr, got, want)
		}
	}
}

func TestExprMetric_NestedGeo(t *testing.T) {
	em, err := CompileExpr("size(user.address.geo.lat)", "")
	if err != nil {
		t.Fatalf("CompileExpr: %v", err)
	}
	u := types.User{Address: &types.Address{City: "x", Geo: &types.Geo{Lat: "-37.3159", Lng: "81.1496"}}}
	if got := em.Value(u); got != 8 {
		t.Fatalf("geo lat size = %v, want 8", got)
	}
	if got := em.Value(types.User{Address: &types.Address{City: "x"}}); got != 0 {
		t.Fatalf("absent geo = %v, want 0", got)
	}
}
