package cluster

import "gonum.org/v1/gonum/floats"

// NoiseLabel is the reserved label for vectors no cluster claims.
const NoiseLabel = -1

// Labeler is the density-clustering collaborator: one integer label per
// input vector, NoiseLabel for unclustered points.
type Labeler interface {
	Labels(vectors [][]float64, minClusterSize int) []int
}

// DBSCAN labels vectors by Euclidean density. Eps is the neighbourhood
// radius; minClusterSize doubles as the core-point threshold.
type DBSCAN struct {
	Eps float64
}

func (d DBSCAN) Labels(vectors [][]float64, minClusterSize int) []int {
	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = NoiseLabel
	}
	visited := make([]bool, n)

	next := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		neighbors := d.regionQuery(vectors, i)
		if len(neighbors) < minClusterSize {
			continue // stays noise unless a later cluster claims it
		}
		labels[i] = next
		for cursor := 0; cursor < len(neighbors); cursor++ {
			j := neighbors[cursor]
			if labels[j] == NoiseLabel {
				labels[j] = next
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			expansion := d.regionQuery(vectors, j)
			if len(expansion) >= minClusterSize {
				neighbors = append(neighbors, expansion...)
			}
		}
		next++
	}
	return labels
}

func (d DBSCAN) regionQuery(vectors [][]float64, idx int) []int {
	var neighbors []int
	for j, vec := range vectors {
		if floats.Distance(vectors[idx], vec, 2) <= d.Eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
