package uss

// clusterDetections melts the fused set into connected components under the
// cluster radius: an n x n adjacency table, iterative flood fill of component
// ids, then one centroid per component in assignment order.
func clusterDetections(in []Point, radius float64) []Point {
	if len(in) == 0 {
		return nil
	}

	n := len(in)
	radiusSq := radius * radius
	adjacency := make([][]bool, n)
	for i := range adjacency {
		adjacency[i] = make([]bool, n)
		adjacency[i][i] = true
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := in[j].X - in[i].X
			dy := in[j].Y - in[i].Y
			if dx*dx+dy*dy <= radiusSq {
				adjacency[i][j] = true
				adjacency[j][i] = true
			}
		}
	}

	clusterID := make([]int, n)
	nextID := 1
	for i := 0; i < n; i++ {
		if clusterID[i] != 0 {
			continue
		}
		clusterID[i] = nextID
		changed := true
		for changed {
			changed = false
			for a := 0; a < n; a++ {
				if clusterID[a] != nextID {
					continue
				}
				for b := 0; b < n; b++ {
					if adjacency[a][b] && clusterID[b] == 0 {
						clusterID[b] = nextID
						changed = true
					}
				}
			}
		}
		nextID++
	}

	sumX := make([]float64, nextID)
	sumY := make([]float64, nextID)
	count := make([]float64, nextID)
	for i := 0; i < n; i++ {
		id := clusterID[i]
		sumX[id] += in[i].X
		sumY[id] += in[i].Y
		count[id]++
	}

	clustered := make([]Point, 0, nextID-1)
	for id := 1; id < nextID; id++ {
		if count[id] <= 0 {
			continue
		}
		clustered = append(clustered, Point{X: sumX[id] / count[id], Y: sumY[id] / count[id]})
	}
	return clustered
}
