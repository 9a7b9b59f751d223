package util

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/pprof/profile"

	"carvebench/graph"
)

// SeamPackage prefixes every function of the carving package.
const SeamPackage = "carvebench/seam."

// stageOfFunction maps carving functions to the timing columns.
var stageOfFunction = map[string]string{
	"toGray":                "grey",
	"computeEnergy":         "conv",
	"computeEnergyPartial":  "convp",
	"computePathSum":        "pathsum",
	"computePathSumPartial": "pathsum",
	"findMinSeam":           "minpath",
	"removeSeam":            "rmpath",
	"fromImage":             "malloc",
	"toImage":               "malloc",
	"newPlane":              "malloc",
}

// GetProfileDataFromFile reads a pprof profile from disk.
func GetProfileDataFromFile(path string) (*profile.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prof, err := profile.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return prof, nil
}

// StageOfFunction returns the timing column a carving function is charged
// to. Functions outside the carving package have no stage.
func StageOfFunction(name string) (string, bool) {
	if !strings.HasPrefix(name, SeamPackage) {
		return "", false
	}
	stage, ok := stageOfFunction[graph.ShortName(name)]
	return stage, ok
}

// StageTimesFromProfile charges each cpu sample to the innermost stage
// function on its stack. Samples with no stage function are dropped.
func StageTimesFromProfile(prof *profile.Profile) StageTimeArray {
	index := graph.SampleIndex(prof, "cpu")
	times := make(map[string]int64)
	for _, sample := range prof.Sample {
		if index < 0 || index >= len(sample.Value) {
			continue
		}
		if stage, ok := innermostStage(sample); ok {
			times[stage] += sample.Value[index]
		}
	}
	out := make(StageTimeArray, 0, len(times))
	for stage, t := range times {
		out = append(out, StageTime{Stage: stage, Time: t})
	}
	sort.Sort(out)
	return out
}

func innermostStage(sample *profile.Sample) (string, bool) {
	for _, loc := range sample.Location {
		for _, line := range loc.Line {
			if line.Function == nil {
				continue
			}
			if stage, ok := StageOfFunction(line.Function.Name); ok {
				return stage, true
			}
		}
	}
	return "", false
}

// SeamNodes returns the most expensive carving functions of the profile.
func SeamNodes(prof *profile.Profile, n int) graph.Nodes {
	g := graph.GetGraphFromProfile(prof, graph.SampleIndex(prof, "cpu"))
	nodes := graph.Nodes(g.FindNodesByFunction(func(name string) bool {
		return strings.HasPrefix(name, SeamPackage)
	}))
	if n >= 0 && n < len(nodes) {
		nodes = nodes[:n]
	}
	return nodes
}
