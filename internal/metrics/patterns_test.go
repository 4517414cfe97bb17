package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/archmap-go/internal/graph"
)

func node(path string, fanIn, fanOut int, centrality float64) graph.NodeMetrics {
	return graph.NodeMetrics{
		Path:             path,
		FanIn:            fanIn,
		FanOut:           fanOut,
		DegreeCentrality: centrality,
	}
}

func TestAdaptiveThresholds(t *testing.T) {
	t.Parallel()

	t.Run("FloorsApplyOnEmptyInput", func(t *testing.T) {
		t.Parallel()
		thr := AdaptiveThresholds(nil)

		assert.Equal(t, 3, thr.FanOut)
		assert.Equal(t, 2, thr.FanIn)
		assert.Equal(t, 0.1, thr.Centrality)
	})

	t.Run("FloorsApplyOnSparseGraph", func(t *testing.T) {
		t.Parallel()
		nodes := map[string]graph.NodeMetrics{
			"a.py": node("a.py", 0, 1, 0.01),
			"b.py": node("b.py", 1, 0, 0.01),
		}
		thr := AdaptiveThresholds(nodes)

		// Twice the means (1, 1, 0.02) all fall below the floors.
		assert.Equal(t, 3, thr.FanOut)
		assert.Equal(t, 2, thr.FanIn)
		assert.Equal(t, 0.1, thr.Centrality)
	})

	t.Run("TwiceTheMeanWhenAboveFloor", func(t *testing.T) {
		t.Parallel()
		nodes := map[string]graph.NodeMetrics{
			"a.py": node("a.py", 4, 6, 0.4),
			"b.py": node("b.py", 2, 4, 0.2),
		}
		thr := AdaptiveThresholds(nodes)

		// Means: fan-out 5, fan-in 3, centrality 0.3.
		assert.Equal(t, 10, thr.FanOut)
		assert.Equal(t, 6, thr.FanIn)
		assert.InDelta(t, 0.6, thr.Centrality, 1e-9)
	})
}

func TestClassifyPatterns(t *testing.T) {
	t.Parallel()

	t.Run("EntryPointIsHubWithoutInbound", func(t *testing.T) {
		t.Parallel()
		nodes := map[string]graph.NodeMetrics{
			"main.py": node("main.py", 0, 4, 0.5),
			"a.py":    node("a.py", 1, 0, 0.1),
			"b.py":    node("b.py", 1, 0, 0.1),
			"c.py":    node("c.py", 1, 0, 0.1),
			"d.py":    node("d.py", 1, 0, 0.1),
		}
		p := ClassifyPatterns(nodes, DisplayLimits{})

		require.Len(t, p.HubFiles, 1)
		assert.Equal(t, "main.py", p.HubFiles[0].Path)
		require.Len(t, p.EntryPoints, 1)
		assert.Equal(t, "main.py", p.EntryPoints[0].Path)
		assert.Empty(t, p.SinkFiles)
		assert.Empty(t, p.BridgeFiles)
	})

	t.Run("UtilityIsSinkWithoutOutbound", func(t *testing.T) {
		t.Parallel()
		nodes := map[string]graph.NodeMetrics{
			"helpers.py": node("helpers.py", 5, 0, 0.5),
			"a.py":       node("a.py", 0, 1, 0.1),
			"b.py":       node("b.py", 0, 1, 0.1),
			"c.py":       node("c.py", 0, 1, 0.1),
			"d.py":       node("d.py", 0, 1, 0.1),
			"e.py":       node("e.py", 0, 1, 0.1),
		}
		p := ClassifyPatterns(nodes, DisplayLimits{})

		require.Len(t, p.SinkFiles, 1)
		assert.Equal(t, "helpers.py", p.SinkFiles[0].Path)
		require.Len(t, p.Utilities, 1)
		assert.Equal(t, "helpers.py", p.Utilities[0].Path)
	})

	t.Run("BridgeRequiresBothThresholds", func(t *testing.T) {
		t.Parallel()
		nodes := map[string]graph.NodeMetrics{
			"core.py": node("core.py", 3, 4, 0.9),
			"a.py":    node("a.py", 1, 1, 0.1),
			"b.py":    node("b.py", 1, 1, 0.1),
			"c.py":    node("c.py", 1, 1, 0.1),
			"d.py":    node("d.py", 1, 1, 0.1),
		}
		p := ClassifyPatterns(nodes, DisplayLimits{})

		require.Len(t, p.BridgeFiles, 1)
		assert.Equal(t, "core.py", p.BridgeFiles[0].Path)
		// A bridge with inbound edges is not an entry point.
		assert.Empty(t, p.EntryPoints)
	})

	t.Run("IsolatedMeansZeroDegrees", func(t *testing.T) {
		t.Parallel()
		nodes := map[string]graph.NodeMetrics{
			"island.py": node("island.py", 0, 0, 0),
			"a.py":      node("a.py", 0, 1, 0.1),
			"b.py":      node("b.py", 1, 0, 0.1),
		}
		p := ClassifyPatterns(nodes, DisplayLimits{})

		require.Len(t, p.IsolatedFiles, 1)
		assert.Equal(t, "island.py", p.IsolatedFiles[0].Path)
		assert.Equal(t, 1, p.Insights.Summary.IsolatedCount)
	})

	t.Run("ListsSortedAndCapped", func(t *testing.T) {
		t.Parallel()
		nodes := make(map[string]graph.NodeMetrics)
		for i := 0; i < 6; i++ {
			path := fmt.Sprintf("hub%d.py", i)
			nodes[path] = node(path, 0, 10+i, 0.01)
		}
		// Keep the fan-out mean low so the floor threshold stays at 3.
		for i := 0; i < 60; i++ {
			path := fmt.Sprintf("leaf%02d.py", i)
			nodes[path] = node(path, 1, 0, 0.01)
		}
		p := ClassifyPatterns(nodes, DisplayLimits{Hub: 3})

		require.Len(t, p.HubFiles, 3)
		assert.Equal(t, "hub5.py", p.HubFiles[0].Path)
		assert.Equal(t, "hub4.py", p.HubFiles[1].Path)
		assert.Equal(t, "hub3.py", p.HubFiles[2].Path)
		// Counts reflect the capped lists.
		assert.Equal(t, 3, p.Insights.Summary.HubCount)
	})

	t.Run("TiesBrokenByPath", func(t *testing.T) {
		t.Parallel()
		nodes := map[string]graph.NodeMetrics{
			"z.py": node("z.py", 0, 0, 0),
			"a.py": node("a.py", 0, 0, 0),
			"m.py": node("m.py", 0, 0, 0),
		}
		p := ClassifyPatterns(nodes, DisplayLimits{})

		require.Len(t, p.IsolatedFiles, 3)
		assert.Equal(t, "a.py", p.IsolatedFiles[0].Path)
		assert.Equal(t, "m.py", p.IsolatedFiles[1].Path)
		assert.Equal(t, "z.py", p.IsolatedFiles[2].Path)
	})

	t.Run("ThresholdsEchoedInInsights", func(t *testing.T) {
		t.Parallel()
		p := ClassifyPatterns(nil, DisplayLimits{})

		assert.Equal(t, 3, p.Insights.Thresholds.FanOut)
		assert.Equal(t, 2, p.Insights.Thresholds.FanIn)
		assert.Equal(t, 0.1, p.Insights.Thresholds.Centrality)
	})
}
