package uss

import "time"

// Processor owns the ego-pose buffer, the diagnostics accumulator, the last
// published output and an immutable configuration. It is single-threaded:
// PushVehicleState and ProcessFrame are not reentrant.
type Processor struct {
	config Config
	ring   *Ring

	states          stateBuffer
	diagnostics     Diagnostics
	lastOutput      *FrameOutput
	lastTimestampUs uint64
}

// NewProcessor builds a processor over the reference sensor ring.
func NewProcessor(config Config) *Processor {
	return &Processor{
		config:      config,
		ring:        DefaultRing(),
		diagnostics: Diagnostics{ReplayMode: true},
	}
}

// Config returns the immutable configuration.
func (p *Processor) Config() Config {
	return p.config
}

// Ring exposes the static sensor-ring model.
func (p *Processor) Ring() *Ring {
	return p.ring
}

// PushVehicleState appends an ego state to the pose buffer. Timestamps must
// strictly increase.
func (p *Processor) PushVehicleState(state VehicleState) error {
	return p.states.push(state)
}

// LastOutput returns the most recent published frame, or nil before the
// first success. Failed frames never replace it.
func (p *Processor) LastOutput() *FrameOutput {
	return p.lastOutput
}

// Diagnostics returns a copy of the accumulated counters and timings.
func (p *Processor) Diagnostics() Diagnostics {
	return p.diagnostics
}

// ProcessFrame runs the stage chain for one frame: timestamp and input
// validation, pose interpolation, signal-way filtering, detection, fusion,
// clustering, publish. Failures update counters and leave the last-frame
// stage timing cleared; the last-good output and last timestamp stay
// untouched.
func (p *Processor) ProcessFrame(input *FrameInput) error {
	t0 := time.Now()
	p.diagnostics.LastStageTiming = StageTiming{}

	if p.config.StrictMonotonicTimestamps && input.TimestampUs <= p.lastTimestampUs {
		p.diagnostics.DroppedFrames++
		p.diagnostics.OutOfOrderFrames++
		return Errf(CodeOutOfOrderTimestamp, "frame timestamp out of order")
	}

	if len(input.SignalWays) == 0 && len(input.StaticFeatures) == 0 {
		p.diagnostics.DroppedFrames++
		p.diagnostics.InvalidInputFrames++
		return Errf(CodeInvalidInput, "frame has no signal ways or static features")
	}
	tDecodeEnd := time.Now()

	tInterpStart := time.Now()
	pose, ok := p.states.interpolate(input.TimestampUs)
	if !ok {
		p.diagnostics.DroppedFrames++
		p.diagnostics.MissingStateFrames++
		return Errf(CodeMissingVehicleState, "no vehicle state available for frame")
	}
	tInterpEnd := time.Now()

	tConvertStart := time.Now()
	output := FrameOutput{
		TimestampUs:     input.TimestampUs,
		ObservationPose: pose,
	}

	for _, sw := range input.SignalWays {
		rangeOK := sw.Distance > p.config.MinRange && sw.Distance <= p.config.MaxRange
		if rangeOK && p.config.groupMatches(sw.GroupID) {
			output.SignalWays = append(output.SignalWays, sw)
		} else {
			p.diagnostics.FilteredSignalWays++
		}
	}

	for _, sf := range input.StaticFeatures {
		if sf.Valid {
			output.StaticFeatures = append(output.StaticFeatures, sf)
		}
	}
	for _, df := range input.DynamicFeatures {
		if df.Valid {
			output.DynamicFeatures = append(output.DynamicFeatures, df)
		}
	}
	for _, lm := range input.LineMarks {
		if lm.Valid {
			output.LineMarks = append(output.LineMarks, lm)
		}
	}
	output.GridMap = input.GridMap
	tConvertEnd := time.Now()

	tPostStart := time.Now()
	output.Processed = p.postProcess(output.SignalWays)
	tPostEnd := time.Now()

	tPublishStart := time.Now()
	p.lastOutput = &output
	p.lastTimestampUs = input.TimestampUs
	p.diagnostics.ProcessedFrames++
	p.diagnostics.ClusteredDetections += uint64(len(output.Processed.Clustered))
	tPublishEnd := time.Now()

	p.diagnostics.LastStageTiming = StageTiming{
		DecodeUs:      uint64(tDecodeEnd.Sub(t0).Microseconds()),
		InterpolateUs: uint64(tInterpEnd.Sub(tInterpStart).Microseconds()),
		ConvertUs:     uint64(tConvertEnd.Sub(tConvertStart).Microseconds()),
		PostprocessUs: uint64(tPostEnd.Sub(tPostStart).Microseconds()),
		PublishUs:     uint64(tPublishEnd.Sub(tPublishStart).Microseconds()),
	}
	p.diagnostics.CumulativeStageTiming.accumulate(p.diagnostics.LastStageTiming)

	return nil
}

func (p *Processor) runTracing() bool {
	return p.config.ProcessingMethod == MethodSignalTracing || p.config.ProcessingMethod == MethodAll
}

func (p *Processor) runFov() bool {
	return p.config.ProcessingMethod == MethodFovIntersection || p.config.ProcessingMethod == MethodAll
}

func (p *Processor) runEllipse() bool {
	return p.config.ProcessingMethod == MethodEllipseIntersection || p.config.ProcessingMethod == MethodAll
}

// postProcess runs the configured detectors over the filtered signal ways
// and derives the fused and clustered sets.
func (p *Processor) postProcess(signalWays []SignalWay) ProcessedDetections {
	var out ProcessedDetections
	ellipses := make([]ellipseModel, 0, len(signalWays))
	fovModels := make([]ellipseModel, 0, len(signalWays))

	for _, sw := range signalWays {
		if p.runTracing() {
			out.Tracing = append(out.Tracing, tracingDetection(p.ring, sw))
		}

		if p.runFov() {
			if pt, ok := fovPieDetection(p.ring, sw); ok {
				out.FovIntersections = append(out.FovIntersections, pt)
			}
			if cone, ok := fovConeModel(p.ring, sw); ok {
				fovModels = append(fovModels, cone)
			}
		}

		if p.runEllipse() {
			if e, ok := ellipseFromSignalWay(p.ring, sw); ok {
				ellipses = append(ellipses, e)
				seed := ellipsePoint(e, seedParam)
				if !p.ring.InsideVehicleContour(seed) {
					out.EllipseIntersections = append(out.EllipseIntersections, seed)
				}
			}
		}
	}

	if p.runEllipse() && len(ellipses) > 1 {
		out.EllipseIntersections = collectEllipseIntersectionsTraverse(p.ring, ellipses, out.EllipseIntersections)
		out.EllipseIntersections = collectEllipseIntersections(p.ring, ellipses, out.EllipseIntersections, ellipseTolerance, ellipseBestLimit)
	}

	if p.runFov() && len(fovModels) > 1 {
		out.FovIntersections = collectEllipseIntersections(p.ring, fovModels, out.FovIntersections, fovConeTolerance, fovConeBestLimit)
	}

	out.Fused = fuseMethodDetections(&out)
	out.Clustered = clusterDetections(out.Fused, p.config.ClusterRadius)

	return out
}
