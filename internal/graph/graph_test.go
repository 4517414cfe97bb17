package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/archmap-go/internal/resolvers"
	"github.com/Benny93/archmap-go/internal/scanner"
)

func testRecords(paths ...string) []scanner.FileRecord {
	records := make([]scanner.FileRecord, 0, len(paths))
	for _, p := range paths {
		records = append(records, scanner.FileRecord{Path: p, Language: scanner.LangPython, LOC: 1})
	}
	return records
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("EveryFileBecomesANode", func(t *testing.T) {
		t.Parallel()
		g := Build(testRecords("a.py", "b.py", "c.py"), nil)

		assert.Equal(t, 3, g.NodeCount())
		assert.Equal(t, 0, g.EdgeCount())
	})

	t.Run("OnlyInternalEdgesWithKnownDestination", func(t *testing.T) {
		t.Parallel()
		edges := []resolvers.ResolvedEdge{
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "a.py", Dst: "os", Internal: false, Method: resolvers.MethodAST},
			{Src: "a.py", Dst: "ghost.py", Internal: true, Method: resolvers.MethodAST},
		}
		g := Build(testRecords("a.py", "b.py"), edges)

		assert.Equal(t, 2, g.NodeCount())
		assert.Equal(t, 1, g.EdgeCount())
		assert.Equal(t, 1, g.FanOut("a.py"))
		assert.Equal(t, 1, g.FanIn("b.py"))
	})

	t.Run("DuplicateEdgesCollapse", func(t *testing.T) {
		t.Parallel()
		edges := []resolvers.ResolvedEdge{
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodStructural},
		}
		g := Build(testRecords("a.py", "b.py"), edges)

		assert.Equal(t, 1, g.EdgeCount())
		// First insertion wins.
		assert.Equal(t, resolvers.MethodAST, g.Edges()[0].Method)
	})

	t.Run("EdgeCarriesMethodTag", func(t *testing.T) {
		t.Parallel()
		edges := []resolvers.ResolvedEdge{
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodStructuralPreferred},
		}
		g := Build(testRecords("a.py", "b.py"), edges)

		require.Len(t, g.Edges(), 1)
		assert.Equal(t, resolvers.MethodStructuralPreferred, g.Edges()[0].Method)
	})

	t.Run("CyclesAreRepresentable", func(t *testing.T) {
		t.Parallel()
		edges := []resolvers.ResolvedEdge{
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "b.py", Dst: "a.py", Internal: true, Method: resolvers.MethodAST},
		}
		g := Build(testRecords("a.py", "b.py"), edges)

		assert.Equal(t, 2, g.EdgeCount())
		assert.Equal(t, 1, g.FanIn("a.py"))
		assert.Equal(t, 1, g.FanOut("a.py"))
	})
}

func TestComputeMetrics(t *testing.T) {
	t.Parallel()

	t.Run("ExactDegrees", func(t *testing.T) {
		t.Parallel()
		edges := []resolvers.ResolvedEdge{
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "c.py", Dst: "b.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "a.py", Dst: "c.py", Internal: true, Method: resolvers.MethodAST},
		}
		g := Build(testRecords("a.py", "b.py", "c.py"), edges)
		m := g.ComputeMetrics(0)

		assert.Equal(t, 2, m.Nodes["b.py"].FanIn)
		assert.Equal(t, 0, m.Nodes["b.py"].FanOut)
		assert.Equal(t, 2, m.Nodes["a.py"].FanOut)
		assert.Equal(t, 0, m.Nodes["a.py"].FanIn)
	})

	t.Run("CentralityNormalizedByNMinusOne", func(t *testing.T) {
		t.Parallel()
		edges := []resolvers.ResolvedEdge{
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodAST},
		}
		g := Build(testRecords("a.py", "b.py", "c.py"), edges)
		m := g.ComputeMetrics(0)

		assert.InDelta(t, 0.5, m.Nodes["a.py"].DegreeCentrality, 1e-9)
		assert.InDelta(t, 0.5, m.Nodes["a.py"].OutDegreeCentrality, 1e-9)
		assert.InDelta(t, 0.0, m.Nodes["a.py"].InDegreeCentrality, 1e-9)
		assert.InDelta(t, 0.5, m.Nodes["b.py"].InDegreeCentrality, 1e-9)
		assert.InDelta(t, 0.0, m.Nodes["c.py"].DegreeCentrality, 1e-9)
	})

	t.Run("SingleNodeCentralityIsZero", func(t *testing.T) {
		t.Parallel()
		g := Build(testRecords("only.py"), nil)
		m := g.ComputeMetrics(0)

		assert.Equal(t, 0.0, m.Nodes["only.py"].DegreeCentrality)
		assert.Equal(t, 0.0, m.Nodes["only.py"].InDegreeCentrality)
		assert.Equal(t, 0.0, m.Nodes["only.py"].OutDegreeCentrality)
	})

	t.Run("TopFilesRankedAndCapped", func(t *testing.T) {
		t.Parallel()
		edges := []resolvers.ResolvedEdge{
			{Src: "a.py", Dst: "hub.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "b.py", Dst: "hub.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "c.py", Dst: "hub.py", Internal: true, Method: resolvers.MethodAST},
			{Src: "a.py", Dst: "b.py", Internal: true, Method: resolvers.MethodAST},
		}
		g := Build(testRecords("a.py", "b.py", "c.py", "hub.py", "zero.py"), edges)

		m := g.ComputeMetrics(2)
		require.Len(t, m.TopFiles, 2)
		assert.Equal(t, "hub.py", m.TopFiles[0])
		// a.py and b.py tie on total degree 2; path breaks the tie.
		assert.Equal(t, "a.py", m.TopFiles[1])
	})

	t.Run("IsolatedNodesStillHaveMetrics", func(t *testing.T) {
		t.Parallel()
		g := Build(testRecords("a.py", "island.py"), nil)
		m := g.ComputeMetrics(0)

		require.Contains(t, m.Nodes, "island.py")
		assert.Equal(t, 0, m.Nodes["island.py"].FanIn)
		assert.Equal(t, 0, m.Nodes["island.py"].FanOut)
	})
}
