// Package graph aggregates a pprof profile into per-function costs.
//
// The aggregation follows the node accounting of pprof's internal graph
// package, which is not importable: every function on a sample's stack
// gets the sample's value added to its cumulative cost once, and the leaf
// function also gets it as flat cost.
package graph

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/pprof/profile"
)

// Node is one function of the profile.
type Node struct {
	Info      NodeInfo
	Flat, Cum int64
}

// NodeInfo identifies a function.
type NodeInfo struct {
	Name, File string
}

type Nodes []*Node

// Graph holds the nodes with non-zero cost, most expensive first.
type Graph struct {
	Nodes Nodes
	// Total is the summed value of all samples.
	Total int64
}

// SampleIndex returns the index of the sample value named typ, or the last
// one when there is no such value.
func SampleIndex(prof *profile.Profile, typ string) int {
	for i, st := range prof.SampleType {
		if st.Type == typ {
			return i
		}
	}
	return len(prof.SampleType) - 1
}

// GetGraphFromProfile builds the function graph using sample value index.
func GetGraphFromProfile(prof *profile.Profile, index int) *Graph {
	nm := make(NodeMap, len(prof.Function))
	seen := make(map[*Node]bool)
	g := &Graph{}

	for _, sample := range prof.Sample {
		if index < 0 || index >= len(sample.Value) {
			continue
		}
		w := sample.Value[index]
		if w == 0 {
			continue
		}
		g.Total += w
		for k := range seen {
			delete(seen, k)
		}
		leaf := true
		// Location[0] is the leaf; inlined frames come innermost first.
		for _, loc := range sample.Location {
			for _, line := range loc.Line {
				n := nm.FindOrInsertLine(line)
				if n == nil {
					continue
				}
				if leaf {
					n.Flat += w
					leaf = false
				}
				if !seen[n] {
					seen[n] = true
					n.Cum += w
				}
			}
		}
	}
	return SelectNodesForGraph(nm.Nodes(), g)
}

// SelectNodesForGraph keeps the nodes with a cost and sorts them.
func SelectNodesForGraph(nodes Nodes, g *Graph) *Graph {
	for _, n := range nodes {
		if n == nil || (n.Cum == 0 && n.Flat == 0) {
			continue
		}
		g.Nodes = append(g.Nodes, n)
	}
	sortNodes(g.Nodes)
	return g
}

// FindNodesByFunction returns the nodes whose function name satisfies match.
func (g Graph) FindNodesByFunction(match func(name string) bool) []*Node {
	var nodes []*Node
	for _, n := range g.Nodes {
		if match(n.Info.Name) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Top returns at most n of the most expensive nodes.
func (g Graph) Top(n int) Nodes {
	if n < 0 || n > len(g.Nodes) {
		n = len(g.Nodes)
	}
	return g.Nodes[:n]
}

// ShortName strips the package path and generic shape from a function
// name: "a/b/seam.(*plane[...]).removeSeam" becomes "removeSeam".
func ShortName(name string) string {
	name = strings.ReplaceAll(name, "[...]", "")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

type NodeMap map[NodeInfo]*Node

func (nm NodeMap) Nodes() Nodes {
	nodes := make(Nodes, 0, len(nm))
	for _, n := range nm {
		nodes = append(nodes, n)
	}
	return nodes
}

// FindOrInsertLine returns the node of the function owning line.
func (nm NodeMap) FindOrInsertLine(line profile.Line) *Node {
	if line.Function == nil {
		return nil
	}
	info := NodeInfo{Name: line.Function.Name}
	if fname := line.Function.Filename; fname != "" {
		info.File = filepath.Clean(fname)
	}
	if n, ok := nm[info]; ok {
		return n
	}
	n := &Node{Info: info}
	nm[info] = n
	return n
}

func sortNodes(ns Nodes) {
	sort.SliceStable(ns, func(i, j int) bool {
		l, r := ns[i], ns[j]
		if l.Cum != r.Cum {
			return l.Cum > r.Cum
		}
		if l.Flat != r.Flat {
			return l.Flat > r.Flat
		}
		return l.Info.Name < r.Info.Name
	})
}
