package resolvers

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/Benny93/archmap-go/internal/scanner"
)

// JsTsResolver extracts import edges from JavaScript and TypeScript files
// using a syntax-tree strategy with a regex fallback that always runs as
// a safety net. Specifiers are resolved against the importer's directory
// and any tsconfig path aliases.
type JsTsResolver struct {
	repoRoot string
	config   TsConfig
}

// NewJsTsResolver creates a resolver rooted at repoRoot, loading the
// optional tsconfig.json found there.
func NewJsTsResolver(repoRoot string) *JsTsResolver {
	return &JsTsResolver{
		repoRoot: repoRoot,
		config:   LoadTsConfig(repoRoot),
	}
}

// JsTsStats summarizes degraded units for observability.
type JsTsStats struct {
	// ParseFailures counts files the syntax-tree strategy could not parse.
	ParseFailures int

	// RegexOnlyFiles counts files whose merged edges came from the regex
	// fallback alone.
	RegexOnlyFiles int
}

// Resolve runs both strategies per file and merges them with syntax-tree
// precedence. When the syntax-tree strategy yields nothing for a file
// (parser failure), the regex edges stand on their own.
func (r *JsTsResolver) Resolve(ctx context.Context, records []scanner.FileRecord) ([]ResolvedEdge, JsTsStats) {
	stats := JsTsStats{}
	var edges []ResolvedEdge

	for i := range records {
		rec := &records[i]
		if !rec.IsJsTs() {
			continue
		}

		regexEdges := r.regexEdges(rec)

		treeEdges, err := r.syntaxTreeEdges(ctx, rec)
		if err != nil {
			stats.ParseFailures++
		}
		if len(treeEdges) == 0 && len(regexEdges) > 0 {
			stats.RegexOnlyFiles++
		}

		edges = append(edges, MergeEdges(regexEdges, treeEdges, MethodSyntaxTreePreferred)...)
	}

	return edges, stats
}

// importQuery captures the string source of import statements, re-exports,
// require calls, and dynamic imports.
const importQuery = `
(import_statement source: (string) @spec)
(export_statement source: (string) @spec)
(call_expression
  function: (identifier) @fn
  arguments: (arguments (string) @spec))
(call_expression
  function: (import)
  arguments: (arguments (string) @spec))
`

// grammarFor picks the tree-sitter grammar by file extension.
func grammarFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

func (r *JsTsResolver) syntaxTreeEdges(ctx context.Context, rec *scanner.FileRecord) ([]ResolvedEdge, error) {
	lang := grammarFor(rec.Path)

	tree, err := parseSource(ctx, lang, rec.Content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(importQuery), lang)
	if err != nil {
		return nil, err
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	var edges []ResolvedEdge
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, rec.Content)

		var fnNode, specNode *sitter.Node
		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "fn":
				fnNode = c.Node
			case "spec":
				specNode = c.Node
			}
		}
		if specNode == nil {
			continue
		}
		// The identifier-call pattern matches any call with a string
		// argument; only require() counts.
		if fnNode != nil && nodeText(fnNode, rec.Content) != "require" {
			continue
		}

		spec := stringLiteralValue(nodeText(specNode, rec.Content))
		if spec == "" {
			continue
		}
		edges = append(edges, r.edgeFor(rec.Path, spec, MethodSyntaxTree))
	}

	return DedupeEdges(edges), nil
}

// Fixed fallback patterns, applied in order against the raw text.
var jsImportPatterns = []*regexp.Regexp{
	regexp.MustCompile(`import\s+.*?\s+from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`import\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`export\s+.*?\s+from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`),
}

func (r *JsTsResolver) regexEdges(rec *scanner.FileRecord) []ResolvedEdge {
	text := string(rec.Content)

	var edges []ResolvedEdge
	for _, pattern := range jsImportPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if m[1] == "" {
				continue
			}
			edges = append(edges, r.edgeFor(rec.Path, m[1], MethodRegex))
		}
	}
	return DedupeEdges(edges)
}

func (r *JsTsResolver) edgeFor(src, spec string, method Method) ResolvedEdge {
	if dst, ok := r.resolveSpecifier(spec, src); ok {
		return ResolvedEdge{Src: src, Dst: dst, Internal: true, Method: method}
	}
	return ResolvedEdge{Src: src, Dst: spec, Internal: false, Method: method}
}

// resolveSpecifier maps a specifier to a repo-relative file path. The
// search order is fixed: relative/absolute against the importer's
// directory, exact tsconfig alias, single-wildcard alias, else external.
func (r *JsTsResolver) resolveSpecifier(spec, srcRel string) (string, bool) {
	if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		base := filepath.Join(r.repoRoot, filepath.Dir(filepath.FromSlash(srcRel)), filepath.FromSlash(spec))
		return r.pickExisting(base)
	}

	baseDir := r.repoRoot
	if r.config.BaseURL != "" {
		baseDir = filepath.Join(r.repoRoot, filepath.FromSlash(r.config.BaseURL))
	}

	if replacements, ok := r.config.Paths[spec]; ok {
		for _, repl := range replacements {
			if hit, ok := r.pickExisting(filepath.Join(baseDir, filepath.FromSlash(repl))); ok {
				return hit, true
			}
		}
	}

	// Wildcard aliases, one "*" only. Patterns are visited in sorted
	// order so resolution is deterministic.
	patterns := make([]string, 0, len(r.config.Paths))
	for pattern := range r.config.Paths {
		if strings.Count(pattern, "*") == 1 {
			patterns = append(patterns, pattern)
		}
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		prefix, suffix, _ := strings.Cut(pattern, "*")
		if len(spec) < len(prefix)+len(suffix) ||
			!strings.HasPrefix(spec, prefix) || !strings.HasSuffix(spec, suffix) {
			continue
		}
		mid := spec[len(prefix) : len(spec)-len(suffix)]
		for _, repl := range r.config.Paths[pattern] {
			candidate := filepath.Join(baseDir, filepath.FromSlash(strings.Replace(repl, "*", mid, 1)))
			if hit, ok := r.pickExisting(candidate); ok {
				return hit, true
			}
		}
	}

	return "", false
}

// jsExtensions is the fixed suffix search order.
var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// pickExisting tries the literal path, then each extension suffix, then
// index files, returning the first existing file under the repo root.
func (r *JsTsResolver) pickExisting(base string) (string, bool) {
	candidates := make([]string, 0, 1+2*len(jsExtensions))
	candidates = append(candidates, base)
	for _, ext := range jsExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range jsExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(r.repoRoot, candidate)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}
