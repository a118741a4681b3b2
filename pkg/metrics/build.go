package metrics

import "time"

// BuildStats captures the work performed to assemble a year grid.
type BuildStats struct {
	Cells      int   `json:"cells"`
	Occupied   int   `json:"occupied"`
	DurationMs int64 `json:"durationMs"`
}

// NewBuildStats records the counts together with the elapsed time since start.
func NewBuildStats(cells, occupied int, start time.Time) BuildStats {
	return BuildStats{
		Cells:      cells,
		Occupied:   occupied,
		DurationMs: time.Since(start).Milliseconds(),
	}
}
