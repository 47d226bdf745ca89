package uss

import (
	"math"
	"testing"
)

func TestClusterDetectionsEmpty(t *testing.T) {
	if got := clusterDetections(nil, 0.35); got != nil {
		t.Fatalf("empty input clustered to %v", got)
	}
}

func TestClusterDetectionsMergesComponents(t *testing.T) {
	in := []Point{
		{0, 0}, {0.2, 0}, {0.4, 0}, // one chain component
		{5, 5},             // isolated
		{-3, 1}, {-3, 1.3}, // one pair
	}
	out := clusterDetections(in, 0.35)
	if len(out) != 3 {
		t.Fatalf("clustered length = %d, want 3", len(out))
	}

	// Output follows component assignment order.
	want := []Point{{0.2, 0}, {5, 5}, {-3, 1.15}}
	for i, w := range want {
		if math.Abs(out[i].X-w.X) > 1e-9 || math.Abs(out[i].Y-w.Y) > 1e-9 {
			t.Errorf("cluster %d = %v, want centroid %v", i, out[i], w)
		}
	}

	if len(out) > len(in) {
		t.Errorf("|clustered| = %d exceeds |fused| = %d", len(out), len(in))
	}
}

func TestClusterDetectionsChainTransitivity(t *testing.T) {
	// Endpoints are 0.6 apart but connected through the middle point.
	in := []Point{{0, 0}, {0.3, 0}, {0.6, 0}}
	out := clusterDetections(in, 0.35)
	if len(out) != 1 {
		t.Fatalf("chain collapsed to %d clusters, want 1", len(out))
	}
	if math.Abs(out[0].X-0.3) > 1e-9 || math.Abs(out[0].Y) > 1e-9 {
		t.Errorf("centroid = %v, want (0.3, 0)", out[0])
	}
}

func TestClusterDetectionsSingletons(t *testing.T) {
	in := []Point{{1, 1}, {2, 2}, {3, 3}}
	out := clusterDetections(in, 0.1)
	if len(out) != len(in) {
		t.Fatalf("clustered length = %d, want %d singletons", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("singleton %d moved: %v != %v", i, out[i], in[i])
		}
	}
}
