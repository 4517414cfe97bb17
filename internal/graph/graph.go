package graph

import (
	"sort"
	"sync"

	"github.com/Benny93/archmap-go/internal/resolvers"
	"github.com/Benny93/archmap-go/internal/scanner"
)

// DefaultTopFilesLimit caps the ranked top-files list.
const DefaultTopFilesLimit = 50

// DependencyGraph is an in-memory directed graph of repository files.
//
// Nodes live in an insertion-ordered arena and are addressed through a
// path-keyed index, so cyclic import structures never form reference
// cycles. Adjacency maps keep fan-in and fan-out lookups O(1).
type DependencyGraph struct {
	mu    sync.RWMutex
	arena []Node
	index map[string]int

	edges    map[edgeKey]*Edge
	order    []edgeKey
	outgoing map[string]map[string]*Edge
	incoming map[string]map[string]*Edge
}

type edgeKey struct {
	src string
	dst string
}

// New creates an empty dependency graph.
func New() *DependencyGraph {
	return &DependencyGraph{
		index:    make(map[string]int),
		edges:    make(map[edgeKey]*Edge),
		outgoing: make(map[string]map[string]*Edge),
		incoming: make(map[string]map[string]*Edge),
	}
}

// Build assembles the graph from scanned files and merged edges. Every
// file becomes a node, so isolated files appear with zero degree. Only
// internal edges whose destination is a known node are added; everything
// else stays out of the graph (it is categorization input, not topology).
func Build(records []scanner.FileRecord, edges []resolvers.ResolvedEdge) *DependencyGraph {
	g := New()
	for i := range records {
		rec := &records[i]
		g.AddNode(Node{Path: rec.Path, Language: rec.Language, LOC: rec.LOC})
	}
	for _, e := range edges {
		if !e.Internal {
			continue
		}
		g.AddEdge(e.Src, e.Dst, e.Method)
	}
	return g
}

// AddNode adds a node, replacing any existing node with the same path.
func (g *DependencyGraph) AddNode(node Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if i, ok := g.index[node.Path]; ok {
		g.arena[i] = node
		return
	}
	g.index[node.Path] = len(g.arena)
	g.arena = append(g.arena, node)
}

// HasNode reports whether a node with the given path exists.
func (g *DependencyGraph) HasNode(path string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[path]
	return ok
}

// GetNode returns the node with the given path, or nil.
func (g *DependencyGraph) GetNode(path string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i, ok := g.index[path]; ok {
		return &g.arena[i]
	}
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Edges to or
// from unknown paths are ignored, as are duplicate (src, dst) pairs.
func (g *DependencyGraph) AddEdge(src, dst string, method resolvers.Method) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.index[src]; !ok {
		return false
	}
	if _, ok := g.index[dst]; !ok {
		return false
	}

	k := edgeKey{src, dst}
	if _, dup := g.edges[k]; dup {
		return false
	}

	edge := &Edge{Src: src, Dst: dst, Method: method}
	g.edges[k] = edge
	g.order = append(g.order, k)

	if g.outgoing[src] == nil {
		g.outgoing[src] = make(map[string]*Edge)
	}
	g.outgoing[src][dst] = edge

	if g.incoming[dst] == nil {
		g.incoming[dst] = make(map[string]*Edge)
	}
	g.incoming[dst][src] = edge
	return true
}

// NodeCount returns the number of nodes.
func (g *DependencyGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.arena)
}

// EdgeCount returns the number of edges.
func (g *DependencyGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// FanIn returns the number of edges pointing at path.
func (g *DependencyGraph) FanIn(path string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.incoming[path])
}

// FanOut returns the number of edges leaving path.
func (g *DependencyGraph) FanOut(path string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.outgoing[path])
}

// Nodes returns all nodes sorted by path.
func (g *DependencyGraph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]Node, len(g.arena))
	copy(nodes, g.arena)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes
}

// Edges returns all edges in insertion order.
func (g *DependencyGraph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]Edge, 0, len(g.order))
	for _, k := range g.order {
		edges = append(edges, *g.edges[k])
	}
	return edges
}
