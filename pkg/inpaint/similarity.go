package inpaint

import "sync"

// similarityBase holds the eleven control values the similarity LUT
// interpolates between, indexed at fractions k/100 of the table.
var similarityBase = [11]float64{
	1.0, 0.99, 0.96, 0.83, 0.38, 0.11, 0.02, 0.005, 0.0006, 0.0001, 0,
}

var (
	similarityOnce  sync.Once
	similarityTable []float64
)

// initSimilarityTable builds the process-wide distance-to-weight
// lookup table once. Safe to call repeatedly (idempotent, race-safe
// via sync.Once) and from any number of goroutines.
func initSimilarityTable() {
	similarityOnce.Do(func() {
		n := kDistanceScale + 1
		table := make([]float64, n)
		for i := 0; i < n; i++ {
			t := float64(i) / float64(n)
			j := int(100 * t)
			k := j + 1
			var vj, vk float64
			if j < 11 {
				vj = similarityBase[j]
			}
			if k < 11 {
				vk = similarityBase[k]
			}
			table[i] = vj + (100*t-float64(j))*(vk-vj)
		}
		similarityTable = table
	})
}

// similarityWeight maps a scaled patch distance to a voting weight in
// [0, 1]. initSimilarityTable must have run first; Inpainter guarantees
// that on construction.
func similarityWeight(d int) float64 {
	if d < 0 {
		d = 0
	}
	if d > kDistanceScale {
		d = kDistanceScale
	}
	return similarityTable[d]
}
