package analysis

import (
	"github.com/Benny93/archmap-go/internal/deps"
	"github.com/Benny93/archmap-go/internal/graph"
	"github.com/Benny93/archmap-go/internal/metrics"
	"github.com/Benny93/archmap-go/internal/resolvers"
	"github.com/Benny93/archmap-go/internal/scanner"
)

// Repository identifies the analyzed tree.
type Repository struct {
	RootPath string `json:"root_path"`
}

// FilesSection summarizes the scanned files. File content is ephemeral
// and never appears in the result.
type FilesSection struct {
	Nodes         []graph.Node                 `json:"nodes"`
	FileCount     int                          `json:"file_count"`
	TotalLOC      int                          `json:"loc_total"`
	LanguageStats map[scanner.Language]float64 `json:"language_stats"`
}

// MetricsSection carries the per-node metric maps and the ranked
// top-files list.
type MetricsSection struct {
	FanIn               map[string]int     `json:"fan_in"`
	FanOut              map[string]int     `json:"fan_out"`
	DegreeCentrality    map[string]float64 `json:"degree_centrality"`
	InDegreeCentrality  map[string]float64 `json:"in_degree_centrality"`
	OutDegreeCentrality map[string]float64 `json:"out_degree_centrality"`
	TopFiles            []string           `json:"top_files"`
}

// GraphSection is the JSON-shaped graph export.
type GraphSection struct {
	Nodes []GraphNodeExport `json:"nodes"`
	Edges []graph.Edge      `json:"edges"`
}

// GraphNodeExport is one node with its degrees inlined.
type GraphNodeExport struct {
	Path     string           `json:"path"`
	Language scanner.Language `json:"language"`
	LOC      int              `json:"loc"`
	FanIn    int              `json:"fan_in"`
	FanOut   int              `json:"fan_out"`
}

// Stats reports how much of the run degraded to fallbacks, for the
// external observability collaborator.
type Stats struct {
	SkippedFiles          int                      `json:"skipped_files"`
	PythonParseFailures   int                      `json:"python_parse_failures"`
	PythonPackagesSkipped int                      `json:"python_packages_skipped"`
	JsTsParseFailures     int                      `json:"jsts_parse_failures"`
	RegexOnlyFiles        int                      `json:"regex_only_files"`
	MethodBreakdown       map[resolvers.Method]int `json:"method_breakdown"`
}

// Result is the full pipeline output consumed by downstream
// documentation and diagram collaborators.
type Result struct {
	Repository   Repository               `json:"repository"`
	Files        FilesSection             `json:"files"`
	Edges        []resolvers.ResolvedEdge `json:"edges"`
	Graph        GraphSection             `json:"graph"`
	Metrics      MetricsSection           `json:"metrics"`
	Dependencies *deps.Analysis           `json:"dependencies"`
	Patterns     *metrics.Patterns        `json:"patterns"`
	Complexity   *metrics.Complexity      `json:"complexity"`
	Stats        Stats                    `json:"resolution_stats"`
}

func assembleResult(
	repoRoot string,
	records []scanner.FileRecord,
	scanStats scanner.Stats,
	edges []resolvers.ResolvedEdge,
	g *graph.DependencyGraph,
	graphMetrics *graph.Metrics,
	dependencies *deps.Analysis,
	patterns *metrics.Patterns,
	complexity *metrics.Complexity,
	pythonStats resolvers.PythonStats,
	jsTsStats resolvers.JsTsStats,
) *Result {
	nodes := g.Nodes()

	section := MetricsSection{
		FanIn:               make(map[string]int, len(nodes)),
		FanOut:              make(map[string]int, len(nodes)),
		DegreeCentrality:    make(map[string]float64, len(nodes)),
		InDegreeCentrality:  make(map[string]float64, len(nodes)),
		OutDegreeCentrality: make(map[string]float64, len(nodes)),
		TopFiles:            graphMetrics.TopFiles,
	}
	exports := make([]GraphNodeExport, 0, len(nodes))
	for _, node := range nodes {
		m := graphMetrics.Nodes[node.Path]
		section.FanIn[node.Path] = m.FanIn
		section.FanOut[node.Path] = m.FanOut
		section.DegreeCentrality[node.Path] = m.DegreeCentrality
		section.InDegreeCentrality[node.Path] = m.InDegreeCentrality
		section.OutDegreeCentrality[node.Path] = m.OutDegreeCentrality
		exports = append(exports, GraphNodeExport{
			Path:     node.Path,
			Language: node.Language,
			LOC:      node.LOC,
			FanIn:    m.FanIn,
			FanOut:   m.FanOut,
		})
	}

	breakdown := make(map[resolvers.Method]int)
	for _, e := range edges {
		breakdown[e.Method]++
	}

	return &Result{
		Repository: Repository{RootPath: repoRoot},
		Files: FilesSection{
			Nodes:         nodes,
			FileCount:     len(records),
			TotalLOC:      scanner.TotalLOC(records),
			LanguageStats: scanner.LanguageStats(records),
		},
		Edges: edges,
		Graph: GraphSection{
			Nodes: exports,
			Edges: g.Edges(),
		},
		Metrics:      section,
		Dependencies: dependencies,
		Patterns:     patterns,
		Complexity:   complexity,
		Stats: Stats{
			SkippedFiles:          scanStats.SkippedFiles,
			PythonParseFailures:   pythonStats.ParseFailures,
			PythonPackagesSkipped: pythonStats.PackagesSkipped,
			JsTsParseFailures:     jsTsStats.ParseFailures,
			RegexOnlyFiles:        jsTsStats.RegexOnlyFiles,
			MethodBreakdown:       breakdown,
		},
	}
}
