package uss

import (
	"math"
	"testing"
)

func TestStateBufferRejectsNonMonotonicPush(t *testing.T) {
	var b stateBuffer
	if err := b.push(VehicleState{TimestampUs: 5000}); err != nil {
		t.Fatalf("first push failed: %v", err)
	}
	err := b.push(VehicleState{TimestampUs: 5000})
	if err == nil {
		t.Fatal("expected equal-timestamp push to fail")
	}
	if CodeOf(err) != CodeInvalidInput {
		t.Errorf("error code = %v, want InvalidInput", CodeOf(err))
	}
	if err := b.push(VehicleState{TimestampUs: 4000}); err == nil {
		t.Fatal("expected older-timestamp push to fail")
	}
}

func TestStateBufferEvictsPastBound(t *testing.T) {
	var b stateBuffer
	for i := 0; i < 100; i++ {
		if err := b.push(VehicleState{TimestampUs: uint64(i + 1)}); err != nil {
			t.Fatalf("push %d failed: %v", i, err)
		}
	}
	if len(b.states) != maxStateQueue {
		t.Fatalf("buffer length = %d, want %d", len(b.states), maxStateQueue)
	}
	if got := b.states[0].TimestampUs; got != 100-maxStateQueue+1 {
		t.Errorf("oldest timestamp = %d, want %d", got, 100-maxStateQueue+1)
	}
}

func TestInterpolateClampsAndBlends(t *testing.T) {
	var b stateBuffer
	if _, ok := b.interpolate(1500); ok {
		t.Fatal("empty buffer must not interpolate")
	}

	mustPush(t, &b, VehicleState{TimestampUs: 1000, Pose: Pose2D{X: 1, Y: 0, Yaw: 0}})
	mustPush(t, &b, VehicleState{TimestampUs: 2000, Pose: Pose2D{X: 3, Y: 2, Yaw: 0.4}})

	if pose, ok := b.interpolate(500); !ok || pose.X != 1 {
		t.Errorf("clamp-low pose = %+v ok=%v, want oldest pose", pose, ok)
	}
	if pose, ok := b.interpolate(9000); !ok || pose.X != 3 {
		t.Errorf("clamp-high pose = %+v ok=%v, want newest pose", pose, ok)
	}

	pose, ok := b.interpolate(1500)
	if !ok {
		t.Fatal("mid interpolation failed")
	}
	if math.Abs(pose.X-2.0) > 1e-6 || math.Abs(pose.Y-1.0) > 1e-6 || math.Abs(pose.Yaw-0.2) > 1e-6 {
		t.Errorf("interpolated pose = %+v, want (2.0, 1.0, 0.2)", pose)
	}

	// Idempotent: a second identical query returns the same pose.
	again, ok := b.interpolate(1500)
	if !ok || again != pose {
		t.Errorf("repeated interpolation = %+v, want %+v", again, pose)
	}
}

func mustPush(t *testing.T, b *stateBuffer, state VehicleState) {
	t.Helper()
	if err := b.push(state); err != nil {
		t.Fatalf("push failed: %v", err)
	}
}
