package uss

import "testing"

func TestFuserSingleMethodPassesEverything(t *testing.T) {
	d := ProcessedDetections{
		Tracing: []Point{{1, 1}, {3, 3}},
	}
	fused := fuseMethodDetections(&d)
	if len(fused) != 2 {
		t.Fatalf("fused length = %d, want 2", len(fused))
	}
}

func TestFuserRequiresTwoMethodSupport(t *testing.T) {
	d := ProcessedDetections{
		Tracing:              []Point{{1, 1}, {10, 10}},
		FovIntersections:     []Point{{1.2, 1.1}},
		EllipseIntersections: []Point{{0.9, 1.0}},
	}
	fused := fuseMethodDetections(&d)
	if len(fused) == 0 {
		t.Fatal("agreeing candidates must survive fusion")
	}
	// The isolated tracing point at (10,10) has single-method support only.
	for _, p := range fused {
		if p == (Point{10, 10}) {
			t.Errorf("unsupported candidate %v survived fusion", p)
		}
	}
}

func TestFuserFallbackPriority(t *testing.T) {
	// Two methods, no cross support: voting empties the set, then the
	// priority order picks FOV.
	d := ProcessedDetections{
		Tracing:          []Point{{0, 50}},
		FovIntersections: []Point{{50, 0}},
	}
	fused := fuseMethodDetections(&d)
	if len(fused) != 1 || fused[0] != (Point{50, 0}) {
		t.Fatalf("fused = %v, want the FOV detection only", fused)
	}

	d = ProcessedDetections{
		Tracing:              []Point{{0, 50}},
		EllipseIntersections: []Point{{50, 0}},
	}
	fused = fuseMethodDetections(&d)
	if len(fused) != 1 || fused[0] != (Point{50, 0}) {
		t.Fatalf("fused = %v, want the ellipse detection only", fused)
	}
}

func TestFuserDeduplicatesUnion(t *testing.T) {
	d := ProcessedDetections{
		Tracing:          []Point{{1, 1}},
		FovIntersections: []Point{{1.01, 1.01}},
	}
	fused := fuseMethodDetections(&d)
	if len(fused) != 1 {
		t.Fatalf("fused length = %d, want the near-duplicates merged to 1", len(fused))
	}
}

func TestHasSupportNear(t *testing.T) {
	points := []Point{{0, 0}, {2, 2}}
	if !hasSupportNear(points, Point{0.3, 0.4}, supportRadius) {
		t.Error("candidate within 0.5m should find support")
	}
	if hasSupportNear(points, Point{1, 1}, supportRadius) {
		t.Error("candidate 1.41m from both points should find no support")
	}
}
