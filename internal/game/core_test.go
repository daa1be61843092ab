package game

import (
	"math"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	v, ok := (Vec2{X: 3, Y: 4}).Normalize()
	if !ok {
		t.Fatalf("nonzero vector reported as zero")
	}
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Fatalf("unit length = %v", v.Len())
	}
	if _, ok := (Vec2{}).Normalize(); ok {
		t.Fatalf("zero vector normalized")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11) = %v", got)
	}
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5) = %v", got)
	}
}

func TestRandIdFormat(t *testing.T) {
	id := RandId("proj")
	if !strings.HasPrefix(id, "proj-") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len("proj-")+6 {
		t.Fatalf("id %q has wrong length", id)
	}
}
