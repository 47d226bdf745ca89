package uss

import "testing"

func TestSensorPairDecoding(t *testing.T) {
	ring := DefaultRing()

	cases := []struct {
		group, way uint8
		tx, rx     int
		ok         bool
	}{
		{0, 0, 0, 0, true},
		{0, 1, 0, 1, true},
		{0, 2, 1, 0, true},
		{0, 7, 2, 3, true},
		{0, 15, 5, 5, true},
		{1, 0, 6, 6, true},
		{1, 13, 10, 11, true},
		{1, 15, 11, 11, true},
		{2, 0, 0, 0, false},
		{0, 16, 0, 0, false},
	}
	for _, tc := range cases {
		tx, rx, ok := ring.SensorPair(tc.group, tc.way)
		if ok != tc.ok {
			t.Errorf("SensorPair(%d,%d) ok = %v, want %v", tc.group, tc.way, ok, tc.ok)
			continue
		}
		if ok && (tx != tc.tx || rx != tc.rx) {
			t.Errorf("SensorPair(%d,%d) = (%d,%d), want (%d,%d)", tc.group, tc.way, tx, rx, tc.tx, tc.rx)
		}
	}
}

func TestVehicleContourContainment(t *testing.T) {
	ring := DefaultRing()

	inside := []Point{{0, 0}, {1.5, 0.3}, {-0.5, -0.4}, {3.0, 0.0}}
	for _, p := range inside {
		if !ring.InsideVehicleContour(p) {
			t.Errorf("expected %v inside the vehicle contour", p)
		}
	}

	outside := []Point{{5, 0}, {0, 2}, {-3, 0}, {0, -1.5}, {4.2, 0.5}}
	for _, p := range outside {
		if ring.InsideVehicleContour(p) {
			t.Errorf("expected %v outside the vehicle contour", p)
		}
	}
}

func TestContourMatchesSensorPositions(t *testing.T) {
	ring := DefaultRing()
	sensors := ring.Sensors()
	if len(sensors) != 12 {
		t.Fatalf("sensor count = %d, want 12", len(sensors))
	}
	contour := ring.Contour()
	if len(contour) != 12 {
		t.Fatalf("contour length = %d, want 12", len(contour))
	}

	// Every contour vertex is one of the sensor positions.
	for _, c := range contour {
		found := false
		for _, s := range sensors {
			if s.X == c.X && s.Y == c.Y {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("contour vertex %v has no matching sensor", c)
		}
	}
}
