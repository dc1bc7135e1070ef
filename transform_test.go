package erdraw

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 0, 0, -2, 10, 20}
	assertMatrix(t, "I*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*I", multiplyAffine(m, identityTransform), m)
}

func TestMultiplyAffineOrder(t *testing.T) {
	scale := [6]float64{2, 0, 0, 2, 0, 0}
	translate := [6]float64{1, 0, 0, 1, 5, 0}

	// scale * translate: translate first, then scale.
	x, y := transformPoint(multiplyAffine(scale, translate), 1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 2)

	// translate * scale: scale first, then translate.
	x, y = transformPoint(multiplyAffine(translate, scale), 1, 1)
	assertNear(t, "x", x, 7)
	assertNear(t, "y", y, 2)
}

func TestInvertAffineRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		m    [6]float64
	}{
		{"translate", [6]float64{1, 0, 0, 1, 30, -40}},
		{"flip y", [6]float64{1, 0, 0, -1, 400, 300}},
		{"zoom and flip", [6]float64{2.5, 0, 0, -2.5, 400, 300}},
		{"shear", [6]float64{1, 0.5, 0.25, 1, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMatrix(t, "m*inv", multiplyAffine(tt.m, invertAffine(tt.m)), identityTransform)
		})
	}
}

func TestInvertAffineSingular(t *testing.T) {
	got := invertAffine([6]float64{0, 0, 0, 0, 5, 5})
	assertMatrix(t, "singular", got, identityTransform)
}
