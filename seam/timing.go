package seam

import (
	"fmt"
	"time"

	"carvebench/model"
)

// Timing is the time spent in each carving stage.
type Timing struct {
	Grey        time.Duration
	Conv        time.Duration
	ConvPartial time.Duration
	PathSum     time.Duration
	MinPath     time.Duration
	RmPath      time.Duration
	Malloc      time.Duration
}

// Stage is one labelled timing bucket.
type Stage struct {
	Label    string
	Duration time.Duration
}

// Stages lists the buckets in report order.
func (t Timing) Stages() []Stage {
	return []Stage{
		{"grey", t.Grey},
		{"conv", t.Conv},
		{"convp", t.ConvPartial},
		{"pathsum", t.PathSum},
		{"minpath", t.MinPath},
		{"rmpath", t.RmPath},
		{"malloc", t.Malloc},
	}
}

// Total is the sum of all buckets.
func (t Timing) Total() time.Duration {
	return model.Sum(t.Grey, t.Conv, t.ConvPartial, t.PathSum, t.MinPath, t.RmPath, t.Malloc)
}

// Lines renders the timing table, one tab-separated line per stage
// followed by the total, all in nanoseconds.
func (t Timing) Lines() []string {
	total := t.Total()
	var lines []string
	for _, s := range t.Stages() {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(s.Duration) / float64(total)
		}
		lines = append(lines, fmt.Sprintf("%-7s\t%d\t%3.2f%%", s.Label, s.Duration.Nanoseconds(), pct))
	}
	return append(lines, fmt.Sprintf("%-7s\t%d", "total", total.Nanoseconds()))
}
