package uss

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ellipseModel is an axis-aligned-in-local-frame ellipse used both for the
// foci reflection locus and for FOV-cone approximations.
type ellipseModel struct {
	cx    float64
	cy    float64
	axisA float64
	axisB float64
	theta float64
}

func sqr(v float64) float64 { return v * v }

// ellipsePoint evaluates the parametric point at t in the body frame.
func ellipsePoint(e ellipseModel, t float64) Point {
	ct, st := math.Cos(t), math.Sin(t)
	cp, sp := math.Cos(e.theta), math.Sin(e.theta)
	xl := e.axisA * ct
	yl := e.axisB * st
	return Point{
		X: e.cx + xl*cp - yl*sp,
		Y: e.cy + xl*sp + yl*cp,
	}
}

// ellipseImplicitValue evaluates the implicit form in the ellipse's rotated
// frame; zero on the boundary, negative inside.
func ellipseImplicitValue(e ellipseModel, p Point) float64 {
	dx := p.X - e.cx
	dy := p.Y - e.cy
	cp, sp := math.Cos(e.theta), math.Sin(e.theta)
	xr := dx*cp + dy*sp
	yr := -dx*sp + dy*cp
	return sqr(xr)/math.Max(sqr(e.axisA), 1e-9) + sqr(yr)/math.Max(sqr(e.axisB), 1e-9) - 1.0
}

// ellipseImplicitError is the magnitude of the implicit residual.
func ellipseImplicitError(e ellipseModel, p Point) float64 {
	return math.Abs(ellipseImplicitValue(e, p))
}

// wrapToPi normalises an angle into [-pi, pi].
func wrapToPi(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2.0 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2.0 * math.Pi
	}
	return angle
}

// pointInSensorSector reports whether p lies within the sensor's FOV pie out
// to rangeM. Small tolerances absorb float round-off at the sector edges.
func pointInSensorSector(s SensorPose, p Point, rangeM float64) bool {
	dx := p.X - s.X
	dy := p.Y - s.Y
	if math.Hypot(dx, dy) > rangeM+1e-6 {
		return false
	}
	bearing := math.Atan2(dy, dx)
	delta := math.Abs(wrapToPi(bearing - s.Mounting))
	return delta <= 0.5*s.Fov+1e-6
}

// rayIntersection intersects the rays p0+t*d0 and p1+u*d1 by solving the
// 2x2 linear system. Near-parallel rays or intersections behind either
// origin yield ok=false.
func rayIntersection(p0, d0, p1, d1 Point) (Point, bool) {
	a := mat.NewDense(2, 2, []float64{d0.X, -d1.X, d0.Y, -d1.Y})
	if math.Abs(mat.Det(a)) < 1e-6 {
		return Point{}, false
	}
	b := mat.NewVecDense(2, []float64{p1.X - p0.X, p1.Y - p0.Y})
	var tu mat.VecDense
	if err := tu.SolveVec(a, b); err != nil {
		return Point{}, false
	}
	t, u := tu.AtVec(0), tu.AtVec(1)
	if t < 0 || u < 0 {
		return Point{}, false
	}
	return Point{X: p0.X + t*d0.X, Y: p0.Y + t*d0.Y}, true
}

// pushUniqueDetection appends candidate unless an existing detection lies
// within the de-duplication separation.
func pushUniqueDetection(detections []Point, candidate Point) []Point {
	const minSepSq = 0.08 * 0.08
	for _, p := range detections {
		dx := p.X - candidate.X
		dy := p.Y - candidate.Y
		if dx*dx+dy*dy <= minSepSq {
			return detections
		}
	}
	return append(detections, candidate)
}
