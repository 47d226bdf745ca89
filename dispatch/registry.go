// Package dispatch fans processed frames out to externally registered sinks.
// A Registry is an explicitly-owned value handed to the front-ends; it holds
// no locks, so registration and dispatch must be serialized by the caller.
package dispatch

import "github.com/rajiv-sit/ultrasound-processor/uss"

// Per-channel sink signatures. Each receives the channel's slice for one
// frame plus the frame timestamp.
type (
	SignalWaysSink          func([]uss.SignalWay, uint64)
	StaticFeaturesSink      func([]uss.StaticFeature, uint64)
	DynamicFeaturesSink     func([]uss.DynamicFeature, uint64)
	LineMarksSink           func([]uss.LineMark, uint64)
	GridMapSink             func(uss.GridMap, uint64)
	ProcessedDetectionsSink func(uss.ProcessedDetections, uint64)
)

// Status reports whether the dispatch hook is usable and why.
type Status struct {
	Available   bool
	Description string
}

// Registry holds one optional sink per output channel. Registration is
// latest-wins per channel.
type Registry struct {
	signalWays      SignalWaysSink
	staticFeatures  StaticFeaturesSink
	dynamicFeatures DynamicFeaturesSink
	lineMarks       LineMarksSink
	gridMap         GridMapSink
	processed       ProcessedDetectionsSink
}

// NewRegistry returns an empty sink registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) RegisterSignalWays(sink SignalWaysSink) { r.signalWays = sink }

func (r *Registry) RegisterStaticFeatures(sink StaticFeaturesSink) { r.staticFeatures = sink }

func (r *Registry) RegisterDynamicFeatures(sink DynamicFeaturesSink) { r.dynamicFeatures = sink }

func (r *Registry) RegisterLineMarks(sink LineMarksSink) { r.lineMarks = sink }

func (r *Registry) RegisterGridMap(sink GridMapSink) { r.gridMap = sink }

func (r *Registry) RegisterProcessedDetections(sink ProcessedDetectionsSink) { r.processed = sink }

// Clear removes every registered sink.
func (r *Registry) Clear() {
	*r = Registry{}
}

// Dispatch invokes each registered sink exactly once with the corresponding
// slice of the frame. Sink failures are the sink's business; dispatch never
// reports them.
func (r *Registry) Dispatch(frame *uss.FrameOutput) {
	if r.signalWays != nil {
		r.signalWays(frame.SignalWays, frame.TimestampUs)
	}
	if r.staticFeatures != nil {
		r.staticFeatures(frame.StaticFeatures, frame.TimestampUs)
	}
	if r.dynamicFeatures != nil {
		r.dynamicFeatures(frame.DynamicFeatures, frame.TimestampUs)
	}
	if r.lineMarks != nil {
		r.lineMarks(frame.LineMarks, frame.TimestampUs)
	}
	if r.gridMap != nil {
		r.gridMap(frame.GridMap, frame.TimestampUs)
	}
	if r.processed != nil {
		r.processed(frame.Processed, frame.TimestampUs)
	}
}

// QueryStatus describes the dispatch hook's availability.
func (r *Registry) QueryStatus() Status {
	return Status{
		Available:   true,
		Description: "runtime callback flow available (adapter transport remains stubbed)",
	}
}
