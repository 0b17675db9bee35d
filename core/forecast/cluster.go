package forecast

import (
	"math"
	"math/rand"

	"github.com/devpulse/devpulse/schema"
)

// clusterSeed fixes k-means initialization so repeated runs on the same
// subjects group identically.
const clusterSeed = 42

const kmeansMaxIterations = 100

// ClusterSubjects groups subjects by their performance profile using
// k-means over standardized features.
func (e *Engine) ClusterSubjects(features []schema.SubjectFeatures) *schema.ClusterResult {
	result := &schema.ClusterResult{
		FeatureNames: schema.ClusterFeatureNames,
		GeneratedAt:  e.now(),
	}

	// Subjects with all-zero features carry no signal.
	var usable []schema.SubjectFeatures
	for _, f := range features {
		for _, v := range f.Vector() {
			if v != 0 {
				usable = append(usable, f)
				break
			}
		}
	}
	result.SubjectCount = len(usable)
	if len(usable) < schema.ClusterMinSubjects {
		result.Insufficient = true
		return result
	}

	raw := make([][]float64, len(usable))
	for i, f := range usable {
		raw[i] = f.Vector()
	}
	scaled := standardizeColumns(raw)

	k := schema.MaxClusters
	if len(usable) < k {
		k = len(usable)
	}
	assignments := kmeans(scaled, k)

	for id := 0; id < k; id++ {
		cluster := schema.Cluster{ID: id}
		var members [][]float64
		for i, a := range assignments {
			if a != id {
				continue
			}
			cluster.Subjects = append(cluster.Subjects, usable[i].Subject)
			members = append(members, raw[i])
		}
		if len(members) == 0 {
			continue
		}
		cluster.Centroid = columnMeans(members)
		cluster.Label = clusterLabel(cluster.Centroid)
		result.Clusters = append(result.Clusters, cluster)
	}

	return result
}

// clusterLabel names a cluster from its raw-space centroid. Rules apply in
// priority order and the first hit wins.
func clusterLabel(centroid []float64) string {
	leadTime := centroid[0]
	deploys := centroid[1]
	failureRate := centroid[2]
	coverage := centroid[3]
	streak := centroid[4]
	reviewers := centroid[5]

	switch {
	case leadTime < 24 && deploys > 3:
		return "High Performers - Fast delivery with frequent deployments"
	case failureRate < 10 && coverage > 80:
		return "Quality Focused - Emphasize code quality and thorough reviews"
	case streak > 7 && reviewers > 3:
		return "Consistent Collaborators - Regular contributors with strong teamwork"
	case leadTime > 168:
		return "Deliberate Developers - Take time for thorough development"
	default:
		return "Balanced Contributors - Well-rounded development approach"
	}
}

// standardizeColumns scales each feature column to zero mean, unit spread.
func standardizeColumns(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)
	for c := 0; c < cols; c++ {
		col := make([]float64, len(rows))
		for r := range rows {
			col[r] = rows[r][c]
		}
		means[c] = meanOf(col)
		stds[c] = stdOf(col)
		if stds[c] == 0 {
			stds[c] = 1
		}
	}

	out := make([][]float64, len(rows))
	for r := range rows {
		out[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			out[r][c] = (rows[r][c] - means[c]) / stds[c]
		}
	}
	return out
}

// kmeans assigns each row to one of k clusters with deterministic seeding.
func kmeans(rows [][]float64, k int) []int {
	rng := rand.New(rand.NewSource(clusterSeed))
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(len(rows))[:k] {
		centroid := make([]float64, len(rows[idx]))
		copy(centroid, rows[idx])
		centroids[i] = centroid
	}

	assignments := make([]int, len(rows))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for r, row := range rows {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				d := sqDist(row, centroid)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[r] != best {
				assignments[r] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; an emptied cluster keeps its old position.
		for c := range centroids {
			var members [][]float64
			for r, a := range assignments {
				if a == c {
					members = append(members, rows[r])
				}
			}
			if len(members) > 0 {
				centroids[c] = columnMeans(members)
			}
		}
	}
	return assignments
}

func columnMeans(rows [][]float64) []float64 {
	cols := len(rows[0])
	out := make([]float64, cols)
	for _, row := range rows {
		for c, v := range row {
			out[c] += v
		}
	}
	for c := range out {
		out[c] /= float64(len(rows))
	}
	return out
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
