// Package metrics derives architectural roles and an overall complexity
// score from the dependency graph's node metrics.
package metrics

import (
	"math"
	"sort"

	"github.com/Benny93/archmap-go/internal/graph"
)

// Thresholds are the adaptive cutoffs for one run, derived from the
// run's own metric distributions. They are pure functions of the input;
// nothing persists across runs.
type Thresholds struct {
	FanOut     int     `json:"fan_out_threshold"`
	FanIn      int     `json:"fan_in_threshold"`
	Centrality float64 `json:"centrality_threshold"`
}

// AdaptiveThresholds computes the cutoffs from the mean fan-out, fan-in,
// and degree centrality: twice the mean, floored at 3/2/0.1 respectively.
func AdaptiveThresholds(nodes map[string]graph.NodeMetrics) Thresholds {
	t := Thresholds{FanOut: 3, FanIn: 2, Centrality: 0.1}
	if len(nodes) == 0 {
		return t
	}

	var fanOutSum, fanInSum int
	var centralitySum float64
	for _, m := range nodes {
		fanOutSum += m.FanOut
		fanInSum += m.FanIn
		centralitySum += m.DegreeCentrality
	}

	n := float64(len(nodes))
	if v := int(math.Round(2 * float64(fanOutSum) / n)); v > t.FanOut {
		t.FanOut = v
	}
	if v := int(math.Round(2 * float64(fanInSum) / n)); v > t.FanIn {
		t.FanIn = v
	}
	if v := 2 * centralitySum / n; v > t.Centrality {
		t.Centrality = v
	}
	return t
}

// DisplayLimits caps each role list in the classifier output.
type DisplayLimits struct {
	Hub        int
	Sink       int
	Bridge     int
	Central    int
	EntryPoint int
	Utility    int
	Isolated   int
}

// DefaultDisplayLimits returns the documented per-role caps.
func DefaultDisplayLimits() DisplayLimits {
	return DisplayLimits{
		Hub:        10,
		Sink:       10,
		Bridge:     8,
		Central:    10,
		EntryPoint: 5,
		Utility:    8,
		Isolated:   20,
	}
}

func (l DisplayLimits) withDefaults() DisplayLimits {
	d := DefaultDisplayLimits()
	if l.Hub <= 0 {
		l.Hub = d.Hub
	}
	if l.Sink <= 0 {
		l.Sink = d.Sink
	}
	if l.Bridge <= 0 {
		l.Bridge = d.Bridge
	}
	if l.Central <= 0 {
		l.Central = d.Central
	}
	if l.EntryPoint <= 0 {
		l.EntryPoint = d.EntryPoint
	}
	if l.Utility <= 0 {
		l.Utility = d.Utility
	}
	if l.Isolated <= 0 {
		l.Isolated = d.Isolated
	}
	return l
}

// FileRole is one node's metric snapshot inside a role list.
type FileRole struct {
	Path                string  `json:"path"`
	FanIn               int     `json:"fan_in"`
	FanOut              int     `json:"fan_out"`
	DegreeCentrality    float64 `json:"degree_centrality"`
	InDegreeCentrality  float64 `json:"in_degree_centrality"`
	OutDegreeCentrality float64 `json:"out_degree_centrality"`
	TotalDegree         int     `json:"total_degree"`
}

// PatternSummary counts how many files landed in each role.
type PatternSummary struct {
	HubCount        int `json:"hub_count"`
	SinkCount       int `json:"sink_count"`
	BridgeCount     int `json:"bridge_count"`
	IsolatedCount   int `json:"isolated_count"`
	EntryPointCount int `json:"entry_point_count"`
	UtilityCount    int `json:"utility_count"`
}

// Insights pairs the thresholds used with the role counts.
type Insights struct {
	Thresholds Thresholds     `json:"thresholds"`
	Summary    PatternSummary `json:"summary"`
}

// Patterns is the classifier output. A node may appear in several lists.
type Patterns struct {
	HubFiles      []FileRole `json:"hub_files"`
	SinkFiles     []FileRole `json:"sink_files"`
	BridgeFiles   []FileRole `json:"bridge_files"`
	CentralFiles  []FileRole `json:"central_files"`
	EntryPoints   []FileRole `json:"entry_points"`
	Utilities     []FileRole `json:"utilities"`
	IsolatedFiles []FileRole `json:"isolated_files"`
	Insights      Insights   `json:"insights"`
}

// ClassifyPatterns tags every node with the architectural roles it
// satisfies. Each role list is sorted by its defining metric descending
// (ties broken by path) and truncated to its display limit.
func ClassifyPatterns(nodes map[string]graph.NodeMetrics, limits DisplayLimits) *Patterns {
	limits = limits.withDefaults()
	thresholds := AdaptiveThresholds(nodes)

	p := &Patterns{}
	for _, m := range nodes {
		role := FileRole{
			Path:                m.Path,
			FanIn:               m.FanIn,
			FanOut:              m.FanOut,
			DegreeCentrality:    m.DegreeCentrality,
			InDegreeCentrality:  m.InDegreeCentrality,
			OutDegreeCentrality: m.OutDegreeCentrality,
			TotalDegree:         m.FanIn + m.FanOut,
		}

		hub := m.FanOut >= thresholds.FanOut
		sink := m.FanIn >= thresholds.FanIn

		if hub {
			p.HubFiles = append(p.HubFiles, role)
		}
		if sink {
			p.SinkFiles = append(p.SinkFiles, role)
		}
		if hub && sink {
			p.BridgeFiles = append(p.BridgeFiles, role)
		}
		if m.DegreeCentrality >= thresholds.Centrality {
			p.CentralFiles = append(p.CentralFiles, role)
		}
		if hub && m.FanIn <= 1 {
			p.EntryPoints = append(p.EntryPoints, role)
		}
		if sink && m.FanOut <= 1 {
			p.Utilities = append(p.Utilities, role)
		}
		if m.FanIn == 0 && m.FanOut == 0 {
			p.IsolatedFiles = append(p.IsolatedFiles, role)
		}
	}

	p.HubFiles = capSorted(p.HubFiles, limits.Hub, byFanOut)
	p.SinkFiles = capSorted(p.SinkFiles, limits.Sink, byFanIn)
	p.BridgeFiles = capSorted(p.BridgeFiles, limits.Bridge, byTotalDegree)
	p.CentralFiles = capSorted(p.CentralFiles, limits.Central, byCentrality)
	p.EntryPoints = capSorted(p.EntryPoints, limits.EntryPoint, byFanOut)
	p.Utilities = capSorted(p.Utilities, limits.Utility, byFanIn)
	p.IsolatedFiles = capSorted(p.IsolatedFiles, limits.Isolated, byPathOnly)

	p.Insights = Insights{
		Thresholds: thresholds,
		Summary: PatternSummary{
			HubCount:        len(p.HubFiles),
			SinkCount:       len(p.SinkFiles),
			BridgeCount:     len(p.BridgeFiles),
			IsolatedCount:   len(p.IsolatedFiles),
			EntryPointCount: len(p.EntryPoints),
			UtilityCount:    len(p.Utilities),
		},
	}
	return p
}

// Role ordering functions. Each returns true when a ranks before b.
func byFanOut(a, b *FileRole) bool      { return a.FanOut > b.FanOut }
func byFanIn(a, b *FileRole) bool       { return a.FanIn > b.FanIn }
func byTotalDegree(a, b *FileRole) bool { return a.TotalDegree > b.TotalDegree }
func byCentrality(a, b *FileRole) bool  { return a.DegreeCentrality > b.DegreeCentrality }
func byPathOnly(a, b *FileRole) bool    { return false }

func capSorted(roles []FileRole, limit int, before func(a, b *FileRole) bool) []FileRole {
	sort.Slice(roles, func(i, j int) bool {
		if before(&roles[i], &roles[j]) {
			return true
		}
		if before(&roles[j], &roles[i]) {
			return false
		}
		return roles[i].Path < roles[j].Path
	})
	if len(roles) > limit {
		roles = roles[:limit]
	}
	return roles
}
