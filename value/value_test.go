package value

import "testing"

func TestIsNull(t *testing.T) {
	if !NewNull().IsNull() {
		t.Fatal("expected NewNull to be null")
	}
	if NewInt(0).IsNull() {
		t.Fatal("expected NewInt(0) not to be null")
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NewNull(), "NULL"},
		{NewInt(42), "42"},
		{NewText("hi"), "hi"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Fatalf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestCompareOrdersSameKind(t *testing.T) {
	cmp, incompatible := Compare(NewInt(1), NewInt(2))
	if incompatible || cmp >= 0 {
		t.Fatalf("expected 1 < 2, got cmp=%d incompatible=%v", cmp, incompatible)
	}
	cmp, incompatible = Compare(NewText("a"), NewText("b"))
	if incompatible || cmp >= 0 {
		t.Fatalf("expected a < b, got cmp=%d incompatible=%v", cmp, incompatible)
	}
}

func TestCompareIncompatibleKinds(t *testing.T) {
	if _, incompatible := Compare(NewInt(1), NewText("1")); !incompatible {
		t.Fatal("expected int vs text comparison to be incompatible")
	}
}

func TestCompareNullIsIncompatible(t *testing.T) {
	if _, incompatible := Compare(NewNull(), NewInt(1)); !incompatible {
		t.Fatal("expected NULL comparisons to be incompatible")
	}
}
