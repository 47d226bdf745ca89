package uss

import "math"

// fovPieDetection reconstructs a detection from the sensor FOV pies.
// Monostatic echoes land at the middle of the sensor's arc; bistatic echoes
// at the intersection of both center rays, validated against both sector
// pies. Invalid intersections fall back to a scaled tracing point.
func fovPieDetection(ring *Ring, sw SignalWay) (Point, bool) {
	tx, rx, ok := ring.SensorPair(sw.GroupID, sw.SignalWayID)
	if !ok {
		return Point{}, false
	}
	s0 := ring.sensors[tx]
	s1 := ring.sensors[rx]
	rangeM := sw.Distance
	if rangeM <= 0 {
		return Point{}, false
	}

	if tx == rx {
		return Point{
			X: s0.X + rangeM*math.Cos(s0.Mounting),
			Y: s0.Y + rangeM*math.Sin(s0.Mounting),
		}, true
	}

	p0 := Point{X: s0.X, Y: s0.Y}
	d0 := Point{X: math.Cos(s0.Mounting), Y: math.Sin(s0.Mounting)}
	p1 := Point{X: s1.X, Y: s1.Y}
	d1 := Point{X: math.Cos(s1.Mounting), Y: math.Sin(s1.Mounting)}
	if candidate, hit := rayIntersection(p0, d0, p1, d1); hit &&
		pointInSensorSector(s0, candidate, rangeM) &&
		pointInSensorSector(s1, candidate, rangeM) {
		return candidate, true
	}

	return scaledTracingDetection(ring, sw), true
}

// fovConeModel approximates the sensor cone of a signal way as an ellipse
// for cross-cone intersection collection: monostatic cones become isotropic
// discs of radius d, bistatic cones flatten towards the pair baseline.
func fovConeModel(ring *Ring, sw SignalWay) (ellipseModel, bool) {
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

	m := ellipseModel{
		cx: 0.5 * (s0.X + s1.X),
		cy: 0.5 * (s0.Y + s1.Y),
	}
	if tx == rx {
		m.axisA = d
		m.axisB = d
		m.theta = s0.Mounting
	} else {
		baseline := math.Hypot(s1.X-s0.X, s1.Y-s0.Y)
		m.axisA = d
		m.axisB = math.Max(0.25*d, 0.5*baseline)
		m.theta = 0.5 * (s0.Mounting + s1.Mounting)
	}
	return m, true
}
