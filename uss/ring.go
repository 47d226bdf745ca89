package uss

import "math"

// SensorPose is one transducer mounted on the vehicle: position in the body
// frame, mounting bearing and full angular field of view, radians.
type SensorPose struct {
	X        float64
	Y        float64
	Mounting float64
	Fov      float64
}

const degToRad = math.Pi / 180.0

// defaultSensors is the reference 12-transducer ring. Indices 0..5 are the
// front bank (left to right), 6..11 the rear bank.
var defaultSensors = [12]SensorPose{
	{3.238, 0.913, 87.0 * degToRad, 60.0 * degToRad},
	{3.6, 0.715, 38.0 * degToRad, 100.0 * degToRad},
	{3.804, 0.276, 7.0 * degToRad, 100.0 * degToRad},
	{3.804, -0.276, -4.0 * degToRad, 75.0 * degToRad},
	{3.6, -0.715, -28.0 * degToRad, 75.0 * degToRad},
	{3.238, -0.913, -87.0 * degToRad, 45.0 * degToRad},
	{-0.775, -0.822, -100.0 * degToRad, 75.0 * degToRad},
	{-0.956, -0.71, -165.0 * degToRad, 75.0 * degToRad},
	{-1.09, -0.25, -175.0 * degToRad, 75.0 * degToRad},
	{-1.09, 0.25, 173.0 * degToRad, 100.0 * degToRad},
	{-0.956, 0.71, 151.0 * degToRad, 100.0 * degToRad},
	{-0.775, 0.822, 99.0 * degToRad, 100.0 * degToRad},
}

// defaultContour is the closed vehicle outline: the 12 sensor positions
// walked in ring order (rear-left around to front-left).
var defaultContour = [12]Point{
	{-0.775, 0.822}, {-0.956, 0.71}, {-1.09, 0.25},
	{-1.09, -0.25}, {-0.956, -0.71}, {-0.775, -0.822},
	{3.238, -0.913}, {3.6, -0.715}, {3.804, -0.276},
	{3.804, 0.276}, {3.6, 0.715}, {3.238, 0.913},
}

// signalWayPairs maps a signal-way id to (tx, rx) sensor offsets within a
// bank. Ids walk short hops along the ring: self-echoes at every third id
// (0, 3, 6, 9, 12, 15), cross-pair echoes between neighbours in between.
var signalWayPairs = [16][2]int{
	{0, 0}, {0, 1}, {1, 0}, {1, 1},
	{1, 2}, {2, 1}, {2, 2}, {2, 3},
	{3, 2}, {3, 3}, {3, 4}, {4, 3},
	{4, 4}, {4, 5}, {5, 4}, {5, 5},
}

// Ring is the static sensor-ring model.
type Ring struct {
	sensors [12]SensorPose
	contour [12]Point
}

// DefaultRing returns the reference ring geometry.
func DefaultRing() *Ring {
	return &Ring{sensors: defaultSensors, contour: defaultContour}
}

// Sensors returns the twelve transducer poses in index order.
func (r *Ring) Sensors() []SensorPose {
	out := make([]SensorPose, len(r.sensors))
	copy(out, r.sensors[:])
	return out
}

// Contour returns the closed vehicle outline in ring order.
func (r *Ring) Contour() []Point {
	out := make([]Point, len(r.contour))
	copy(out, r.contour[:])
	return out
}

// SensorPair resolves a (group, signal-way) pair to absolute TX/RX sensor
// indices. ok is false for group ids above 1 or way ids above 15.
func (r *Ring) SensorPair(groupID, signalWayID uint8) (tx, rx int, ok bool) {
	if groupID > 1 || signalWayID > 15 {
		return 0, 0, false
	}
	base := 0
	if groupID == 1 {
		base = 6
	}
	pair := signalWayPairs[signalWayID]
	return base + pair[0], base + pair[1], true
}

// InsideVehicleContour reports whether p lies strictly inside the closed
// vehicle outline, by ray casting against each contour edge.
func (r *Ring) InsideVehicleContour(p Point) bool {
	inside := false
	n := len(r.contour)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := r.contour[i].X, r.contour[i].Y
		xj, yj := r.contour[j].X, r.contour[j].Y
		if (yi > p.Y) != (yj > p.Y) &&
			p.X < (xj-xi)*(p.Y-yi)/((yj-yi)+epsilon)+xi {
			inside = !inside
		}
	}
	return inside
}

const epsilon = 2.220446049250313e-16
