package compare

import (
	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramCapacity is the initial number of histogram buckets
const DefaultHistogramCapacity = 10

// Histogram counts how many frames exhibit a given number of mismatches.
// Bucket k holds the number of frames with exactly k mismatches.
type Histogram struct {
	buckets []int
}

// NewHistogram creates histogram with given number of zeroed buckets
func NewHistogram(capacity int) *Histogram {
	if capacity < 1 {
		capacity = 1
	}
	return &Histogram{
		buckets: make([]int, capacity),
	}
}

// Grow makes sure there are at least n buckets. Existing counts are kept, new buckets are zero
func (hist *Histogram) Grow(n int) {
	if n <= len(hist.buckets) {
		return
	}
	newLen := maxInt(2*len(hist.buckets), n)
	hist.buckets = append(hist.buckets, make([]int, newLen-len(hist.buckets))...)
}

// Add records a frame with given number of mismatches
func (hist *Histogram) Add(count int) {
	hist.Grow(count + 1)
	hist.buckets[count]++
}

// Len returns current number of buckets
func (hist *Histogram) Len() int {
	return len(hist.buckets)
}

// At returns frequency of given count. Zero for counts beyond storage
func (hist *Histogram) At(count int) int {
	if count < 0 || count >= len(hist.buckets) {
		return 0
	}
	return hist.buckets[count]
}

// Total returns sum of all frequencies, i.e. number of recorded frames
func (hist *Histogram) Total() int {
	total := 0
	for _, v := range hist.buckets {
		total += v
	}
	return total
}

// MaxCount returns highest count with non-zero frequency, -1 for empty histogram
func (hist *Histogram) MaxCount() int {
	for i := len(hist.buckets) - 1; i >= 0; i-- {
		if hist.buckets[i] > 0 {
			return i
		}
	}
	return -1
}

// Mean returns average count per frame
func (hist *Histogram) Mean() float64 {
	if hist.Total() == 0 {
		return 0
	}
	values := make([]float64, len(hist.buckets))
	weights := make([]float64, len(hist.buckets))
	for i, v := range hist.buckets {
		values[i] = float64(i)
		weights[i] = float64(v)
	}
	return stat.Mean(values, weights)
}

// Buckets returns copy of frequencies up to and including MaxCount
func (hist *Histogram) Buckets() []int {
	return append([]int(nil), hist.buckets[:hist.MaxCount()+1]...)
}
