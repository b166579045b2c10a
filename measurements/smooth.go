package measurements

import (
	"sort"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// KalmanParams are parameters of 2D Kalman filter used for trajectory smoothing
type KalmanParams struct {
	// Time step between consecutive frames
	Dt float64 `yaml:"dt"`
	// Acceleration control inputs
	Ux float64 `yaml:"ux"`
	Uy float64 `yaml:"uy"`
	// Process noise magnitude
	StdDevA float64 `yaml:"std_dev_a"`
	// Measurement noise on each axis
	StdDevMx float64 `yaml:"std_dev_mx"`
	StdDevMy float64 `yaml:"std_dev_my"`
}

// DefaultKalmanParams returns the same filter setup trackers use for blob centers
func DefaultKalmanParams() KalmanParams {
	return KalmanParams{
		Dt:       1.0,
		Ux:       1.0,
		Uy:       1.0,
		StdDevA:  2.0,
		StdDevMx: 0.1,
		StdDevMy: 0.1,
	}
}

// SmoothStats summarizes what smoothing did to a table
type SmoothStats struct {
	Tracks   int
	Points   int
	MaxShift float64
}

// Smooth replaces the first two features of every labeled record with the state of
// a 2D Kalman filter run along the record's label trajectory in frame order.
// Records with fewer than two features, and unlabeled records, are left as they are.
// A gap of k frames inside a trajectory is predicted over k steps of params.Dt.
// Table order is preserved.
func Smooth(table Table, params KalmanParams) (SmoothStats, error) {
	stats := SmoothStats{}
	order := make([]int, 0, len(table))
	for i := range table {
		if table[i].IsLabeled() && len(table[i].Features) >= 2 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := &table[order[i]], &table[order[j]]
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Frame < b.Frame
	})

	var kf *kalman_filter.Kalman2D
	currentLabel := Unlabeled
	prevFrame := 0
	for _, idx := range order {
		rec := &table[idx]
		raw := rec.Center()
		if kf == nil || rec.Label != currentLabel {
			kf = kalman_filter.NewKalman2D(params.Dt, params.Ux, params.Uy, params.StdDevA, params.StdDevMx, params.StdDevMy, kalman_filter.WithState2D(raw.X, raw.Y))
			currentLabel = rec.Label
			stats.Tracks++
		} else {
			// One prediction per elapsed frame, so gaps in a trajectory are bridged at the filter's velocity
			for step := 0; step < max(rec.Frame-prevFrame, 1); step++ {
				kf.Predict()
			}
			err := kf.Update(raw.X, raw.Y)
			if err != nil {
				return stats, errors.Wrapf(err, "Can't update trajectory filter for label %d at frame %d", rec.Label, rec.Frame)
			}
		}
		stateX, stateY := kf.GetState()
		filtered := NewPoint(stateX, stateY)
		if shift := euclideanDistance(raw, filtered); shift > stats.MaxShift {
			stats.MaxShift = shift
		}
		rec.Features[0] = filtered.X
		rec.Features[1] = filtered.Y
		prevFrame = rec.Frame
		stats.Points++
	}
	return stats, nil
}
