package geospatial

import "testing"

func TestHaversine(t *testing.T) {
	// Bilbao to Madrid, roughly 323 km.
	d := Haversine(43.263, -2.935, 40.4168, -3.7038)
	if d < 310_000 || d > 340_000 {
		t.Errorf("Bilbao-Madrid = %.0f m, expected around 323 km", d)
	}

	if d := Haversine(43.263, -2.935, 43.263, -2.935); d != 0 {
		t.Errorf("identical points should be 0 m apart, got %f", d)
	}
}

func TestWithinRange(t *testing.T) {
	// Around 13 m apart.
	if !WithinRange(43.263, -2.935, 43.2631, -2.9351, 100) {
		t.Error("neighboring fixes should be within 100 m")
	}
	if WithinRange(43.263, -2.935, 40.4168, -3.7038, 100_000) {
		t.Error("Bilbao and Madrid are not within 100 km")
	}
}
