// Package graph provides the file-level dependency graph.
//
// Nodes are file records keyed by their repo-relative path; edges are
// resolved internal imports carrying the strategy tag that won the hybrid
// merge. The graph may contain cycles and is never assumed to be a DAG.
package graph

import (
	"github.com/Benny93/archmap-go/internal/resolvers"
	"github.com/Benny93/archmap-go/internal/scanner"
)

// Node represents one repository file in the dependency graph.
type Node struct {
	// Path is the repo-relative, forward-slash separated file path. It
	// is the node's unique key.
	Path string `json:"path"`

	// Language is the file's detected language.
	Language scanner.Language `json:"language"`

	// LOC is the file's line count.
	LOC int `json:"loc"`
}

// Edge represents one internal import between two files.
type Edge struct {
	// Src is the importing file's path.
	Src string `json:"src"`

	// Dst is the imported file's path.
	Dst string `json:"dst"`

	// Method is the resolution strategy tag that produced the edge.
	Method resolvers.Method `json:"method"`
}

// NodeMetrics carries the derived structural metrics for one node. It is
// recomputed on every run and never mutated incrementally.
type NodeMetrics struct {
	Path                string  `json:"path"`
	FanIn               int     `json:"fan_in"`
	FanOut              int     `json:"fan_out"`
	DegreeCentrality    float64 `json:"degree_centrality"`
	InDegreeCentrality  float64 `json:"in_degree_centrality"`
	OutDegreeCentrality float64 `json:"out_degree_centrality"`
}

// TotalDegree returns fan-in plus fan-out.
func (m *NodeMetrics) TotalDegree() int {
	return m.FanIn + m.FanOut
}
