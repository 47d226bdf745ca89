package uss

// supportRadius is the cross-method agreement distance: a fused candidate
// needs at least one point from two different methods within this radius.
const supportRadius = 0.55

func hasSupportNear(detections []Point, candidate Point, radius float64) bool {
	radiusSq := radius * radius
	for _, p := range detections {
		dx := p.X - candidate.X
		dy := p.Y - candidate.Y
		if dx*dx+dy*dy <= radiusSq {
			return true
		}
	}
	return false
}

// fuseMethodDetections merges the three per-method lists under the mutual
// support vote. With a single contributing method there is nothing to
// cross-validate against and every candidate passes. If voting empties the
// set entirely, the strongest single method wins: FOV first, then ellipse,
// then tracing.
func fuseMethodDetections(d *ProcessedDetections) []Point {
	candidates := make([]Point, 0, len(d.Tracing)+len(d.FovIntersections)+len(d.EllipseIntersections))
	for _, p := range d.Tracing {
		candidates = pushUniqueDetection(candidates, p)
	}
	for _, p := range d.FovIntersections {
		candidates = pushUniqueDetection(candidates, p)
	}
	for _, p := range d.EllipseIntersections {
		candidates = pushUniqueDetection(candidates, p)
	}

	hasTracing := len(d.Tracing) > 0
	hasFov := len(d.FovIntersections) > 0
	hasEllipse := len(d.EllipseIntersections) > 0
	available := 0
	for _, has := range []bool{hasTracing, hasFov, hasEllipse} {
		if has {
			available++
		}
	}

	fused := make([]Point, 0, len(candidates))
	for _, c := range candidates {
		if available <= 1 {
			fused = pushUniqueDetection(fused, c)
			continue
		}
		support := 0
		if hasSupportNear(d.Tracing, c, supportRadius) {
			support++
		}
		if hasSupportNear(d.FovIntersections, c, supportRadius) {
			support++
		}
		if hasSupportNear(d.EllipseIntersections, c, supportRadius) {
			support++
		}
		if support >= 2 {
			fused = pushUniqueDetection(fused, c)
		}
	}

	if len(fused) == 0 {
		switch {
		case hasFov:
			for _, p := range d.FovIntersections {
				fused = pushUniqueDetection(fused, p)
			}
		case hasEllipse:
			for _, p := range d.EllipseIntersections {
				fused = pushUniqueDetection(fused, p)
			}
		case hasTracing:
			for _, p := range d.Tracing {
				fused = pushUniqueDetection(fused, p)
			}
		}
	}

	return fused
}
