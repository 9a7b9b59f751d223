package util

// StageTime is the time attributed to one carving stage.
type StageTime struct {
	Stage string
	Time  int64
}

// StageTimeArray sorts greatest first.
type StageTimeArray []StageTime

func (s StageTimeArray) Len() int {
	return len(s)
}

func (s StageTimeArray) Less(i, j int) bool {
	if s[i].Time != s[j].Time {
		return s[i].Time > s[j].Time
	}
	return s[i].Stage < s[j].Stage
}

func (s StageTimeArray) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Total sums the time of all stages.
func (s StageTimeArray) Total() int64 {
	var total int64
	for _, st := range s {
		total += st.Time
	}
	return total
}
