package geo

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	if d := DistanceMeters(48.8566, 2.3522, 48.8566, 2.3522); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistanceKnownPair(t *testing.T) {
	// Paris to London, roughly 344 km.
	d := DistanceMeters(48.8566, 2.3522, 51.5074, -0.1278)
	if math.Abs(d-344000) > 2000 {
		t.Errorf("expected ~344km, got %.0fm", d)
	}
}

func TestDistanceShortRange(t *testing.T) {
	// ~111m per 0.001 degree of latitude.
	d := DistanceMeters(45.0, 7.0, 45.001, 7.0)
	if math.Abs(d-111.2) > 1 {
		t.Errorf("expected ~111m, got %.1fm", d)
	}
}
