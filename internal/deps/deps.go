// Package deps splits resolved edges into internal and external sets and
// classifies external specifiers into named categories.
package deps

import (
	"sort"
	"strings"

	"github.com/Benny93/archmap-go/internal/resolvers"
)

// Category names. CategoryExternal is the default bucket.
const (
	CategoryFrontend = "Frontend/UI"
	CategoryBackend  = "Backend/API"
	CategoryDatabase = "Database"
	CategoryTesting  = "Testing"
	CategoryBuild    = "Build/Config"
	CategoryUtility  = "Utilities"
	CategoryStdlib   = "Standard Library"
	CategoryExternal = "External Libraries"
)

// keywordCategory pairs a category with its keyword set.
type keywordCategory struct {
	name     string
	keywords []string
}

// categoryTable is checked in order and the first match wins. The order
// is a contract: reordering silently changes classification outputs, so
// it must stay exactly as listed.
var categoryTable = []keywordCategory{
	{CategoryFrontend, []string{"react", "vue", "angular", "svelte", "next", "gatsby", "ui", "component", "style", "css", "tailwind"}},
	{CategoryBackend, []string{"express", "fastapi", "flask", "django", "koa", "hapi", "api", "server", "middleware"}},
	{CategoryDatabase, []string{"sql", "mongo", "redis", "postgres", "mysql", "sqlite", "db", "database", "orm", "prisma", "typeorm"}},
	{CategoryTesting, []string{"test", "spec", "jest", "mocha", "pytest", "unittest", "cypress", "selenium"}},
	{CategoryBuild, []string{"webpack", "babel", "eslint", "prettier", "rollup", "vite", "config", "env", "dotenv"}},
	{CategoryUtility, []string{"util", "helper", "tool", "lodash", "moment", "date-fns", "uuid", "crypto"}},
}

// pythonStdlib holds well-known Python standard-library module names.
var pythonStdlib = map[string]struct{}{
	"os": {}, "sys": {}, "json": {}, "time": {}, "datetime": {}, "collections": {},
	"itertools": {}, "functools": {}, "re": {}, "math": {}, "random": {}, "urllib": {},
	"http": {}, "pathlib": {}, "typing": {}, "dataclasses": {}, "enum": {}, "abc": {},
	"asyncio": {}, "concurrent": {}, "logging": {}, "unittest": {}, "pytest": {},
	"sqlite3": {}, "csv": {}, "xml": {}, "html": {},
}

// jsCommon holds Node builtins and ubiquitous JS packages treated as
// standard for categorization purposes.
var jsCommon = map[string]struct{}{
	"react": {}, "react-dom": {}, "next": {}, "express": {}, "lodash": {}, "axios": {},
	"fs": {}, "path": {}, "crypto": {}, "util": {}, "events": {}, "stream": {},
	"buffer": {}, "url": {}, "http": {}, "https": {}, "querystring": {}, "zlib": {},
}

// Categorize assigns an external specifier to its category. The specifier
// is lowercased and tested against each category's keywords in the fixed
// priority order; the first substring match wins.
func Categorize(specifier string) string {
	lower := strings.ToLower(specifier)

	for _, cat := range categoryTable {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.name
			}
		}
	}
	if isStandardLibrary(lower) {
		return CategoryStdlib
	}
	return CategoryExternal
}

// isStandardLibrary checks the first path/dot segment of the lowercased
// specifier against the maintained stdlib and common-package sets.
func isStandardLibrary(lower string) bool {
	head, _, _ := strings.Cut(lower, "/")
	head, _, _ = strings.Cut(head, ".")
	if _, ok := pythonStdlib[head]; ok {
		return true
	}
	_, ok := jsCommon[head]
	return ok
}

// DependencyCount ranks a destination or source by edge count.
type DependencyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary carries the headline counts of an analysis.
type Summary struct {
	InternalCount         int      `json:"internal_count"`
	ExternalCount         int      `json:"external_count"`
	Categories            []string `json:"categories"`
	UniqueDependencies    int      `json:"unique_dependencies"`
	FilesWithDependencies int      `json:"files_with_dependencies"`
}

// Analysis is the categorizer output.
type Analysis struct {
	// InternalEdges lists edges that resolved to repository files.
	InternalEdges []resolvers.ResolvedEdge `json:"internal_edges"`

	// ExternalGroups maps category names to their external edges.
	ExternalGroups map[string][]resolvers.ResolvedEdge `json:"external_groups"`

	// Summary holds the headline counts.
	Summary Summary `json:"summary"`

	// MostImported ranks destinations by how often they are imported.
	MostImported []DependencyCount `json:"most_imported"`

	// MostImporting ranks sources by how many imports they make.
	MostImporting []DependencyCount `json:"most_importing"`
}

// rankLimit caps the most-imported and most-importing lists.
const rankLimit = 10

// Analyze splits edges by the Internal flag and buckets external edges by
// category in a single pass.
func Analyze(edges []resolvers.ResolvedEdge) *Analysis {
	analysis := &Analysis{
		InternalEdges:  []resolvers.ResolvedEdge{},
		ExternalGroups: make(map[string][]resolvers.ResolvedEdge),
	}

	importedCounts := make(map[string]int)
	importingCounts := make(map[string]int)
	uniqueDst := make(map[string]struct{})
	uniqueSrc := make(map[string]struct{})

	for _, e := range edges {
		importedCounts[e.Dst]++
		importingCounts[e.Src]++
		uniqueDst[e.Dst] = struct{}{}
		uniqueSrc[e.Src] = struct{}{}

		if e.Internal {
			analysis.InternalEdges = append(analysis.InternalEdges, e)
			continue
		}
		category := Categorize(e.Dst)
		analysis.ExternalGroups[category] = append(analysis.ExternalGroups[category], e)
	}

	externalCount := 0
	for _, group := range analysis.ExternalGroups {
		externalCount += len(group)
	}

	// Present categories are listed in table priority order.
	var categories []string
	for _, cat := range categoryTable {
		if _, ok := analysis.ExternalGroups[cat.name]; ok {
			categories = append(categories, cat.name)
		}
	}
	for _, name := range []string{CategoryStdlib, CategoryExternal} {
		if _, ok := analysis.ExternalGroups[name]; ok {
			categories = append(categories, name)
		}
	}

	analysis.Summary = Summary{
		InternalCount:         len(analysis.InternalEdges),
		ExternalCount:         externalCount,
		Categories:            categories,
		UniqueDependencies:    len(uniqueDst),
		FilesWithDependencies: len(uniqueSrc),
	}
	analysis.MostImported = rankCounts(importedCounts)
	analysis.MostImporting = rankCounts(importingCounts)

	return analysis
}

// rankCounts sorts by count descending, name ascending, capped at rankLimit.
func rankCounts(counts map[string]int) []DependencyCount {
	ranked := make([]DependencyCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, DependencyCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > rankLimit {
		ranked = ranked[:rankLimit]
	}
	return ranked
}
