package uss

import "math"

// tracingDetection places one detection on the bisector of the TX/RX pair
// at the measured range: the two sensor headings are summed and the result
// rescaled back to the measured distance from the pair midpoint.
//
// An undecodable pair degrades to (distance, +-1). That point carries no
// real geometry. When two or more methods contribute detections, it enters
// the fused set only if another method has a point within the support
// radius; when tracing is the only method with detections, every candidate
// passes fusion, this one included.
func tracingDetection(ring *Ring, sw SignalWay) Point {
	tx, rx, ok := ring.SensorPair(sw.GroupID, sw.SignalWayID)
	if !ok {
		side := 1.0
		if sw.GroupID != 0 {
			side = -1.0
		}
		return Point{X: sw.Distance, Y: side}
	}

	s0 := ring.sensors[tx]
	s1 := ring.sensors[rx]
	d := sw.Distance

	vx := math.Cos(s0.Mounting)*d + math.Cos(s1.Mounting)*d
	vy := math.Sin(s0.Mounting)*d + math.Sin(s1.Mounting)*d
	norm := math.Hypot(vx, vy)
	if norm > 1e-9 {
		vx = d * (vx / norm)
		vy = d * (vy / norm)
	}

	return Point{
		X: 0.5*(s0.X+s1.X) + vx,
		Y: 0.5*(s0.Y+s1.Y) + vy,
	}
}

// scaledTracingDetection is the FOV detector's fallback when center rays do
// not intersect inside both sensor sectors.
func scaledTracingDetection(ring *Ring, sw SignalWay) Point {
	p := tracingDetection(ring, sw)
	return Point{X: p.X * 0.98, Y: p.Y * 0.98}
}
