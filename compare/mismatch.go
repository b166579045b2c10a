package compare

// FrameStats describes a single frame of the mismatch pass
type FrameStats struct {
	Frame int `json:"frame"`
	// Labeled A records in the frame
	Labeled int `json:"labeled"`
	// Matched records whose B label differs from the mapped one
	Mismatches int `json:"mismatches"`
	// Labeled records without accepted match
	Missing int `json:"missing"`
}

// Mismatch is a single disagreement between tables
type Mismatch struct {
	Frame      int `json:"frame"`
	ALabel     int `json:"a_label"`
	BLabel     int `json:"b_label"`
	Expected   int `json:"expected"`
	ASecondary int `json:"a_secondary"`
	BSecondary int `json:"b_secondary"`
}

// Streaks are the longest runs of consecutive processed frames of each kind
type Streaks struct {
	Mismatch int `json:"mismatch"`
	Missing  int `json:"missing"`
	OK       int `json:"ok"`
}

// MismatchResult is the outcome of the mismatch pass
type MismatchResult struct {
	Histogram       *Histogram
	Frames          []FrameStats
	Mismatches      []Mismatch
	TotalMismatches int
	MaxMismatches   int
	TotalMissing    int
	Streaks         Streaks
}

// HistogramMismatches counts, per frame, matched A records whose matched B label differs
// from the label mapping expects. A matched record with an unmapped A label is a mismatch.
// Every A frame contributes one histogram sample.
func HistogramMismatches(ms *MatchSet, mapping *Mapping) *MismatchResult {
	result := &MismatchResult{
		Histogram: NewHistogram(DefaultHistogramCapacity),
		Frames:    make([]FrameStats, 0, len(ms.Frames)),
	}
	var mismatchRun, missingRun, okRun int
	for _, span := range ms.Frames {
		stats := FrameStats{Frame: span.Frame}
		for i := span.AStart; i < span.AEnd; i++ {
			if ms.Matches[i] == Skipped {
				continue
			}
			stats.Labeled++
			match := ms.Matched(i)
			if match == nil {
				stats.Missing++
				continue
			}
			query := &ms.A[i]
			expected, ok := mapping.Lookup(query.Label)
			if ok && expected == match.Label {
				continue
			}
			stats.Mismatches++
			result.Mismatches = append(result.Mismatches, Mismatch{
				Frame:      span.Frame,
				ALabel:     query.Label,
				BLabel:     match.Label,
				Expected:   expected,
				ASecondary: query.Secondary,
				BSecondary: match.Secondary,
			})
		}
		result.Histogram.Add(stats.Mismatches)
		result.TotalMismatches += stats.Mismatches
		result.MaxMismatches = maxInt(result.MaxMismatches, stats.Mismatches)
		result.TotalMissing += stats.Missing
		result.Frames = append(result.Frames, stats)

		mismatchRun = extendRun(mismatchRun, stats.Mismatches > 0, &result.Streaks.Mismatch)
		missingRun = extendRun(missingRun, stats.Missing > 0, &result.Streaks.Missing)
		okRun = extendRun(okRun, stats.Mismatches == 0 && stats.Missing == 0, &result.Streaks.OK)
	}
	return result
}

func extendRun(run int, hit bool, best *int) int {
	if !hit {
		return 0
	}
	run++
	if run > *best {
		*best = run
	}
	return run
}
