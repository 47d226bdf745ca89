package uss

// StageTiming records per-stage wall time in microseconds, taken from the
// monotonic clock. Timings are observational only.
type StageTiming struct {
	DecodeUs      uint64
	InterpolateUs uint64
	ConvertUs     uint64
	PostprocessUs uint64
	PublishUs     uint64
}

func (t *StageTiming) accumulate(last StageTiming) {
	t.DecodeUs += last.DecodeUs
	t.InterpolateUs += last.InterpolateUs
	t.ConvertUs += last.ConvertUs
	t.PostprocessUs += last.PostprocessUs
	t.PublishUs += last.PublishUs
}

// Diagnostics carries the monotonic frame counters and stage timings for
// the last frame and the cumulative run.
type Diagnostics struct {
	ProcessedFrames     uint64
	DroppedFrames       uint64
	OutOfOrderFrames    uint64
	MissingStateFrames  uint64
	InvalidInputFrames  uint64
	FilteredSignalWays  uint64
	ClusteredDetections uint64

	LastStageTiming       StageTiming
	CumulativeStageTiming StageTiming

	ReplayMode   bool
	RealtimeMode bool
}
