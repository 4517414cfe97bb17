package graph

import "sort"

// Metrics is the per-node metric set plus the ranked top-files list.
type Metrics struct {
	// Nodes maps each node path to its metrics. Every graph node has an
	// entry, including zero-degree ones.
	Nodes map[string]NodeMetrics

	// TopFiles ranks node paths by total degree, descending, ties broken
	// by path, truncated to the configured limit.
	TopFiles []string
}

// ComputeMetrics derives fan-in/out and degree centralities for every
// node. Centralities are normalized by N-1 and defined as zero when the
// graph has at most one node.
func (g *DependencyGraph) ComputeMetrics(topFilesLimit int) *Metrics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if topFilesLimit <= 0 {
		topFilesLimit = DefaultTopFilesLimit
	}

	n := len(g.arena)
	denom := float64(n - 1)

	metrics := &Metrics{Nodes: make(map[string]NodeMetrics, n)}
	for i := range g.arena {
		path := g.arena[i].Path
		fanIn := len(g.incoming[path])
		fanOut := len(g.outgoing[path])

		m := NodeMetrics{Path: path, FanIn: fanIn, FanOut: fanOut}
		if n > 1 {
			m.DegreeCentrality = float64(fanIn+fanOut) / denom
			m.InDegreeCentrality = float64(fanIn) / denom
			m.OutDegreeCentrality = float64(fanOut) / denom
		}
		metrics.Nodes[path] = m
	}

	ranked := make([]string, 0, n)
	for i := range g.arena {
		ranked = append(ranked, g.arena[i].Path)
	}
	sort.Slice(ranked, func(i, j int) bool {
		mi, mj := metrics.Nodes[ranked[i]], metrics.Nodes[ranked[j]]
		di, dj := mi.TotalDegree(), mj.TotalDegree()
		if di != dj {
			return di > dj
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > topFilesLimit {
		ranked = ranked[:topFilesLimit]
	}
	metrics.TopFiles = ranked

	return metrics
}
