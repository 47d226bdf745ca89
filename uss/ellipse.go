package uss

import "math"

// ellipseFromSignalWay builds the reflection locus for a bistatic echo:
// an ellipse with the TX and RX sensors as foci and sum of distances equal
// to the path length. Measurements shorter than half the sensor baseline
// cannot close an ellipse and contribute nothing.
func ellipseFromSignalWay(ring *Ring, sw SignalWay) (ellipseModel, bool) {
	tx, rx, ok := ring.SensorPair(sw.GroupID, sw.SignalWayID)
	if !ok {
		return ellipseModel{}, false
	}
	s0 := ring.sensors[tx]
	s1 := ring.sensors[rx]
	d := sw.Distance
	if d <= 0 {
		return ellipseModel{}, false
	}

	dx := s1.X - s0.X
	dy := s1.Y - s0.Y
	halfBaseline := 0.5 * math.Hypot(dx, dy)
	if d <= halfBaseline {
		return ellipseModel{}, false
	}

	return ellipseModel{
		cx:    0.5 * (s0.X + s1.X),
		cy:    0.5 * (s0.Y + s1.Y),
		axisA: d,
		axisB: math.Sqrt(math.Max(0, d*d-halfBaseline*halfBaseline)),
		theta: math.Atan2(dy, dx),
	}, true
}

const (
	ellipseSamples   = 360
	seedParam        = 0.30 * math.Pi
	bisectIters      = 20
	ellipseTolerance = 0.08
	ellipseBestLimit = 0.20
	fovConeTolerance = 0.10
	fovConeBestLimit = 0.25
)

// collectEllipseIntersections harvests near-boundary points: every sample on
// one ellipse whose implicit error against the other falls within tolerance
// is emitted, plus the single best sample per pair within bestLimit.
func collectEllipseIntersections(ring *Ring, models []ellipseModel, out []Point, tolerance, bestLimit float64) []Point {
	if len(models) < 2 {
		return out
	}
	for i := 0; i+1 < len(models); i++ {
		for j := i + 1; j < len(models); j++ {
			bestErr := math.MaxFloat64
			var bestPt Point
			for s := 0; s < ellipseSamples; s++ {
				t := float64(s) / float64(ellipseSamples) * (2.0 * math.Pi)
				p := ellipsePoint(models[i], t)
				err := ellipseImplicitError(models[j], p)
				if err < bestErr {
					bestErr = err
					bestPt = p
				}
				if err <= tolerance && !ring.InsideVehicleContour(p) {
					out = pushUniqueDetection(out, p)
				}
			}
			if bestErr <= bestLimit && !ring.InsideVehicleContour(bestPt) {
				out = pushUniqueDetection(out, bestPt)
			}
		}
	}
	return out
}

// collectEllipseIntersectionsTraverse marches along one ellipse and brackets
// sign changes of the other's implicit equation, bisecting each bracket down
// to a crossing point.
func collectEllipseIntersectionsTraverse(ring *Ring, models []ellipseModel, out []Point) []Point {
	if len(models) < 2 {
		return out
	}
	for i := 0; i+1 < len(models); i++ {
		for j := i + 1; j < len(models); j++ {
			prevT := 0.0
			prevV := ellipseImplicitValue(models[j], ellipsePoint(models[i], prevT))

			for s := 1; s <= ellipseSamples; s++ {
				t := float64(s) / float64(ellipseSamples) * (2.0 * math.Pi)
				p := ellipsePoint(models[i], t)
				v := ellipseImplicitValue(models[j], p)

				if (prevV <= 0 && v >= 0) || (prevV >= 0 && v <= 0) {
					lo, hi := prevT, t
					for it := 0; it < bisectIters; it++ {
						mid := 0.5 * (lo + hi)
						midV := ellipseImplicitValue(models[j], ellipsePoint(models[i], mid))
						if (prevV <= 0 && midV >= 0) || (prevV >= 0 && midV <= 0) {
							hi = mid
						} else {
							lo = mid
							prevV = midV
						}
					}
					root := ellipsePoint(models[i], 0.5*(lo+hi))
					if !ring.InsideVehicleContour(root) {
						out = pushUniqueDetection(out, root)
					}
				}

				prevT = t
				prevV = v
			}
		}
	}
	return out
}
