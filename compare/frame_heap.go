package compare

// frameHeap is a min-heap of frames ordered by mismatch count; among equal counts later frames are smaller.
// Copied from container/heap - https://golang.org/pkg/container/heap/
// Why make copy? Just want to avoid type conversion
type frameHeap []FrameStats

func (h frameHeap) Len() int { return len(h) }
func (h frameHeap) Less(i, j int) bool {
	if h[i].Mismatches != h[j].Mismatches {
		return h[i].Mismatches < h[j].Mismatches
	}
	return h[i].Frame > h[j].Frame
}
func (h frameHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push pushes the element x onto the heap.
// The complexity is O(log n) where n = h.Len().
func (h *frameHeap) Push(x FrameStats) {
	*h = append(*h, x)
	h.up(h.Len() - 1)
}

// Pop removes and returns the minimum element (according to Less) from the heap.
// The complexity is O(log n) where n = h.Len().
func (h *frameHeap) Pop() FrameStats {
	n := h.Len() - 1
	h.Swap(0, n)
	h.down(0, n)
	heapSize := len(*h)
	lastNode := (*h)[heapSize-1]
	*h = (*h)[0 : heapSize-1]
	return lastNode
}

func (h frameHeap) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !h.Less(j, i) {
			break
		}
		h.Swap(i, j)
		j = i
	}
}

func (h frameHeap) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && h.Less(j2, j1) {
			j = j2
		}
		if !h.Less(j, i) {
			break
		}
		h.Swap(i, j)
		i = j
	}
	return i > i0
}

// WorstFrames returns up to n frames with the most mismatches, worst first.
// Ties are broken by frame id, lower first. Frames without mismatches are not reported.
func WorstFrames(frames []FrameStats, n int) []FrameStats {
	if n <= 0 {
		return nil
	}
	h := make(frameHeap, 0, n+1)
	for _, f := range frames {
		if f.Mismatches == 0 {
			continue
		}
		h.Push(f)
		if h.Len() > n {
			h.Pop()
		}
	}
	worst := make([]FrameStats, h.Len())
	for i := len(worst) - 1; i >= 0; i-- {
		worst[i] = h.Pop()
	}
	return worst
}
