package dotcraft

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/wbrown/dotcraft/imageutil"
	"gonum.org/v1/gonum/floats"
)

// Defaults for KMeansQuantizer, matching OpenCV's kmeans called with
// TERM_CRITERIA_EPS|MAX_ITER (100, 0.2) and 10 attempts.
const (
	DefaultKMeansAttempts      = 10
	DefaultKMeansMaxIterations = 100
	DefaultKMeansEpsilon       = 0.2
)

// KMeansQuantizer clusters samples in RGB space with Lloyd's algorithm.
// Each attempt starts from k distinct random samples and stops after
// MaxIterations or once no centre moves more than Epsilon. The attempt
// with the lowest total squared distance wins.
type KMeansQuantizer struct {
	Attempts      int
	MaxIterations int
	Epsilon       float64
	// Seed makes the result reproducible. Nil draws a random seed.
	Seed *uint64
}

// Quantize implements Quantizer. k is reduced to len(samples) when there
// are fewer samples than clusters.
func (q KMeansQuantizer) Quantize(samples []imageutil.RGB, k int) Palette {
	n := len(samples)
	if n == 0 || k <= 0 {
		return Palette{Index: make([]int, n)}
	}
	k = min(k, n)

	attempts := q.Attempts
	if attempts <= 0 {
		attempts = DefaultKMeansAttempts
	}
	maxIter := q.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultKMeansMaxIterations
	}
	eps := q.Epsilon
	if eps <= 0 {
		eps = DefaultKMeansEpsilon
	}

	data := make([][]float64, n)
	for i, s := range samples {
		data[i] = []float64{float64(s.R), float64(s.G), float64(s.B)}
	}

	rng := newRand(q.Seed)
	bestCompactness := math.Inf(1)
	var bestCenters [][]float64
	var bestLabels []int
	for a := 0; a < attempts; a++ {
		centers, labels, compactness := kmeansAttempt(data, k, maxIter, eps, rng)
		if compactness < bestCompactness {
			bestCompactness = compactness
			bestCenters = centers
			bestLabels = labels
		}
	}

	colors := make([]imageutil.RGB, k)
	for j, c := range bestCenters {
		colors[j] = imageutil.RGB{R: roundChannel(c[0]), G: roundChannel(c[1]), B: roundChannel(c[2])}
	}
	return Palette{Colors: colors, Index: bestLabels}
}

func newRand(seed *uint64) *rand.Rand {
	s := rand.Uint64()
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// kmeansAttempt runs one Lloyd refinement from random initial centres and
// returns the centres, labels and compactness (sum of squared distances).
func kmeansAttempt(data [][]float64, k, maxIter int, eps float64, rng *rand.Rand) ([][]float64, []int, float64) {
	n := len(data)
	centers := make([][]float64, k)
	for j, idx := range rng.Perm(n)[:k] {
		centers[j] = slices.Clone(data[idx])
	}

	labels := make([]int, n)
	sums := make([][]float64, k)
	for j := range sums {
		sums[j] = make([]float64, 3)
	}
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		assignClusters(data, centers, labels)

		for j := range sums {
			floats.Scale(0, sums[j])
			counts[j] = 0
		}
		for i, p := range data {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for j := range counts {
			if counts[j] == 0 {
				reseedEmpty(data, centers, labels, sums, counts, j)
			}
		}

		shift := 0.0
		for j := range centers {
			if counts[j] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[j]), sums[j])
			shift = max(shift, floats.Distance(centers[j], sums[j], 2))
			copy(centers[j], sums[j])
		}
		if shift <= eps {
			break
		}
	}

	compactness := assignClusters(data, centers, labels)
	return centers, labels, compactness
}

// assignClusters labels every point with its nearest centre (lowest index
// on ties) and returns the total squared distance.
func assignClusters(data, centers [][]float64, labels []int) float64 {
	var total float64
	for i, p := range data {
		best := 0
		bestDist := sqDist(p, centers[0])
		for j := 1; j < len(centers); j++ {
			if d := sqDist(p, centers[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		labels[i] = best
		total += bestDist
	}
	return total
}

// reseedEmpty moves the point farthest from its centre, taken from a
// cluster with more than one member, into empty cluster j.
func reseedEmpty(data, centers [][]float64, labels []int, sums [][]float64, counts []int, j int) {
	far, farDist := -1, -1.0
	for i, p := range data {
		if counts[labels[i]] < 2 {
			continue
		}
		if d := sqDist(p, centers[labels[i]]); d > farDist {
			far, farDist = i, d
		}
	}
	if far < 0 {
		return
	}
	old := labels[far]
	floats.Sub(sums[old], data[far])
	counts[old]--
	copy(sums[j], data[far])
	counts[j] = 1
	labels[far] = j
}

func sqDist(a, b []float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}

func roundChannel(v float64) uint8 {
	return uint8(math.Round(max(0, min(255, v))))
}
