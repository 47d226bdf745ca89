// Package uss implements the per-frame ultrasonic obstacle pipeline:
// ego-pose interpolation, signal-way filtering, the three geometric
// reconstruction methods, cross-method fusion and connectivity clustering.
package uss

// Point is a 2D point in the vehicle body frame, metres.
type Point struct {
	X float64
	Y float64
}

// Pose2D is a planar vehicle pose.
type Pose2D struct {
	X   float64
	Y   float64
	Yaw float64
}

// VehicleState is one timestamped ego sample from the vehicle bus.
type VehicleState struct {
	TimestampUs uint64
	Pose        Pose2D
	VLonMps     float64
	YawRateRps  float64
}

// SignalWay is one raw time-of-flight measurement. GroupID selects the
// front (0) or rear (1) sensor bank; SignalWayID encodes the TX/RX pair
// within the bank (see ring.go).
type SignalWay struct {
	TimestampUs uint64
	Distance    float64
	GroupID     uint8
	SignalWayID uint8
}

// StaticFeature is an auxiliary stationary feature. The pipeline forwards
// valid features untouched and never reinterprets the payload fields.
type StaticFeature struct {
	X          float64
	Y          float64
	StdX       float64
	StdY       float64
	Angle      float64
	Existence  float64
	FreeProb   float64
	Height     uint8
	TrackState uint8
	SourceMask uint8
	Valid      bool
}

// DynamicFeature is an auxiliary moving feature with a velocity estimate.
type DynamicFeature struct {
	X     float64
	Y     float64
	VxMps float64
	VyMps float64
	Valid bool
}

// LineMark is an auxiliary line segment feature.
type LineMark struct {
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Valid bool
}

// GridMap is an auxiliary occupancy grid, passed through as-is.
type GridMap struct {
	Rows      uint32
	Cols      uint32
	CellSize  float64
	OriginX   float64
	OriginY   float64
	Occupancy []float64
	Valid     bool
}

// FrameInput is one batch of measurements sharing a timestamp.
type FrameInput struct {
	TimestampUs     uint64
	SignalWays      []SignalWay
	StaticFeatures  []StaticFeature
	DynamicFeatures []DynamicFeature
	LineMarks       []LineMark
	GridMap         GridMap
}

// ProcessedDetections holds the per-method detection lists plus the fused
// and clustered results for one frame.
type ProcessedDetections struct {
	Tracing              []Point
	FovIntersections     []Point
	EllipseIntersections []Point
	Fused                []Point
	Clustered            []Point
}

// FrameOutput is the published result for one successfully processed frame.
type FrameOutput struct {
	TimestampUs     uint64
	ObservationPose Pose2D
	SignalWays      []SignalWay
	StaticFeatures  []StaticFeature
	DynamicFeatures []DynamicFeature
	LineMarks       []LineMark
	GridMap         GridMap
	Processed       ProcessedDetections
}
