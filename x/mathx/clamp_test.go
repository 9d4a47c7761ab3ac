package mathx

import "testing"

func TestBetween(t *testing.T) {
	if !Between(25.8, -40.0, 80.0) || Between(80.1, -40.0, 80.0) {
		t.Fatal("float bounds wrong")
	}
	if !Between(0, 0, 100) || !Between(100, 0, 100) {
		t.Fatal("bounds should be inclusive")
	}
	if !Between(5, 10, 0) {
		t.Fatal("swapped bounds should still work")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-50.0, -40.0, 80.0) != -40.0 {
		t.Fatal("low clamp")
	}
	if Clamp(120, 0, 100) != 100 {
		t.Fatal("high clamp")
	}
	if Clamp(42, 0, 100) != 42 {
		t.Fatal("in-range value changed")
	}
}
