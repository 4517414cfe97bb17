// Package analysis orchestrates the dependency analysis pipeline.
//
// One call to Analyze runs the whole batch: scan, per-language hybrid
// import resolution, graph assembly, external-dependency categorization,
// pattern classification, and complexity scoring. The pipeline is pure
// and idempotent; nothing persists between runs.
package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/Benny93/archmap-go/internal/deps"
	"github.com/Benny93/archmap-go/internal/graph"
	"github.com/Benny93/archmap-go/internal/metrics"
	"github.com/Benny93/archmap-go/internal/resolvers"
	"github.com/Benny93/archmap-go/internal/scanner"
)

// Options configures one analysis run. Zero-value fields take defaults;
// there is no global configuration state.
type Options struct {
	// Extensions maps supported file extensions to languages.
	Extensions map[string]scanner.Language

	// IgnoreDirs lists directory names pruned during the scan.
	IgnoreDirs []string

	// MaxFileBytes caps the bytes read per file.
	MaxFileBytes int

	// TopFilesLimit caps the ranked top-files list.
	TopFilesLimit int

	// DisplayLimits caps the pattern classifier's role lists.
	DisplayLimits metrics.DisplayLimits
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Extensions:    scanner.DefaultExtensions(),
		IgnoreDirs:    scanner.DefaultIgnoreDirs(),
		MaxFileBytes:  scanner.DefaultMaxFileBytes,
		TopFilesLimit: graph.DefaultTopFilesLimit,
		DisplayLimits: metrics.DefaultDisplayLimits(),
	}
}

// ProgressCallback is called with a phase name and progress (0.0-1.0).
type ProgressCallback func(phase string, progress float64)

// Analyze runs the full pipeline over the repository at repoRoot.
//
// Per-unit failures (unreadable files, unparseable sources, unresolvable
// packages) degrade recall and are counted in Result.Stats; they never
// fail the run. The only errors returned concern the repository root
// itself.
func Analyze(ctx context.Context, repoRoot string, opts Options, progress ProgressCallback) (*Result, error) {
	info, err := os.Stat(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("accessing repository root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", repoRoot)
	}

	report := func(phase string, pct float64) {
		if progress != nil {
			progress(phase, pct)
		}
	}

	// Phase 1: scan.
	report("Scanning files", 0.0)
	records, scanStats, err := scanner.Scan(repoRoot, scanner.Options{
		Extensions:   opts.Extensions,
		IgnoreDirs:   opts.IgnoreDirs,
		MaxFileBytes: opts.MaxFileBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("scanning repository: %w", err)
	}
	report("Scanning files", 1.0)

	// Phase 2: Python hybrid resolution.
	report("Resolving Python imports", 0.0)
	pythonEdges, pythonStats := resolvers.NewPythonResolver(repoRoot).Resolve(ctx, records)
	report("Resolving Python imports", 1.0)

	// Phase 3: JS/TS hybrid resolution.
	report("Resolving JS/TS imports", 0.0)
	jsTsEdges, jsTsStats := resolvers.NewJsTsResolver(repoRoot).Resolve(ctx, records)
	report("Resolving JS/TS imports", 1.0)

	edges := make([]resolvers.ResolvedEdge, 0, len(pythonEdges)+len(jsTsEdges))
	edges = append(edges, pythonEdges...)
	edges = append(edges, jsTsEdges...)

	// Phase 4: graph assembly and metrics.
	report("Building graph", 0.0)
	g := graph.Build(records, edges)
	graphMetrics := g.ComputeMetrics(opts.TopFilesLimit)
	report("Building graph", 1.0)

	// Phase 5: dependency categorization.
	report("Categorizing dependencies", 0.0)
	dependencies := deps.Analyze(edges)
	report("Categorizing dependencies", 1.0)

	// Phase 6: pattern classification.
	report("Classifying patterns", 0.0)
	patterns := metrics.ClassifyPatterns(graphMetrics.Nodes, opts.DisplayLimits)
	report("Classifying patterns", 1.0)

	// Phase 7: complexity scoring.
	report("Scoring complexity", 0.0)
	complexity := metrics.ScoreComplexity(metrics.ComplexityInput{
		TotalFiles:    len(records),
		TotalLOC:      scanner.TotalLOC(records),
		TotalEdges:    len(edges),
		InternalEdges: dependencies.Summary.InternalCount,
		ExternalEdges: dependencies.Summary.ExternalCount,
		Nodes:         graphMetrics.Nodes,
	})
	report("Scoring complexity", 1.0)

	return assembleResult(repoRoot, records, scanStats, edges, g, graphMetrics,
		dependencies, patterns, complexity, pythonStats, jsTsStats), nil
}
