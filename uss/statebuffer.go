package uss

// stateBuffer keeps a bounded, strictly timestamp-ordered window of vehicle
// states for pose interpolation.
type stateBuffer struct {
	states []VehicleState
}

const maxStateQueue = 64

// push appends a state. States must arrive in strictly increasing timestamp
// order; the oldest entry is evicted past the window bound.
func (b *stateBuffer) push(state VehicleState) error {
	if n := len(b.states); n > 0 && state.TimestampUs <= b.states[n-1].TimestampUs {
		return Errf(CodeInvalidInput, "vehicle state timestamps must be monotonic")
	}
	b.states = append(b.states, state)
	if len(b.states) > maxStateQueue {
		b.states = b.states[len(b.states)-maxStateQueue:]
	}
	return nil
}

// interpolate returns the pose at ts. Queries before the window clamp to the
// oldest pose, queries after it to the newest. In between, x, y and yaw are
// each interpolated linearly; yaw is not angle-wrapped, callers keep
// successive yaws within pi of each other.
func (b *stateBuffer) interpolate(ts uint64) (Pose2D, bool) {
	if len(b.states) == 0 {
		return Pose2D{}, false
	}
	if ts <= b.states[0].TimestampUs {
		return b.states[0].Pose, true
	}
	last := b.states[len(b.states)-1]
	if ts >= last.TimestampUs {
		return last.Pose, true
	}
	for i := 1; i < len(b.states); i++ {
		prev := b.states[i-1]
		next := b.states[i]
		if ts <= next.TimestampUs {
			dt := float64(next.TimestampUs - prev.TimestampUs)
			alpha := float64(ts-prev.TimestampUs) / dt
			return Pose2D{
				X:   (1.0-alpha)*prev.Pose.X + alpha*next.Pose.X,
				Y:   (1.0-alpha)*prev.Pose.Y + alpha*next.Pose.Y,
				Yaw: (1.0-alpha)*prev.Pose.Yaw + alpha*next.Pose.Yaw,
			}, true
		}
	}
	return Pose2D{}, false
}
