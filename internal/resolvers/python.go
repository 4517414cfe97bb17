package resolvers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/Benny93/archmap-go/internal/scanner"
)

// PythonResolver extracts import edges from Python files using two
// strategies: a package-aware structural resolver and a per-file
// syntax-tree fallback. Their edges are merged with structural precedence.
type PythonResolver struct {
	repoRoot string
}

// NewPythonResolver creates a resolver rooted at repoRoot.
func NewPythonResolver(repoRoot string) *PythonResolver {
	return &PythonResolver{repoRoot: repoRoot}
}

// PythonStats summarizes degraded units for observability.
type PythonStats struct {
	// ParseFailures counts Python files the syntax-tree strategy could
	// not parse.
	ParseFailures int

	// PackagesSkipped counts top-level packages the structural strategy
	// gave up on.
	PackagesSkipped int
}

// Resolve runs both strategies over the Python files in records and
// returns the merged edge list. Syntax-tree edges are inserted first;
// structural edges override matching (src, dst) keys.
func (r *PythonResolver) Resolve(ctx context.Context, records []scanner.FileRecord) ([]ResolvedEdge, PythonStats) {
	stats := PythonStats{}

	astEdges := r.syntaxTreeEdges(ctx, records, &stats)
	structuralEdges := r.structuralEdges(ctx, records, &stats)

	return MergeEdges(astEdges, structuralEdges, MethodStructuralPreferred), stats
}

// pythonImport is one import statement extracted from a file.
type pythonImport struct {
	// module is the dotted module path ("" for "from . import x").
	module string

	// level is the number of leading dots in a relative import.
	level int

	// names lists the imported symbols of a from-import; some may be
	// submodules.
	names []string

	// fromImport distinguishes "from X import y" from "import X".
	fromImport bool
}

// syntaxTreeEdges runs the per-file fallback strategy on every Python
// file, regardless of package membership, so loose scripts resolve too.
func (r *PythonResolver) syntaxTreeEdges(ctx context.Context, records []scanner.FileRecord, stats *PythonStats) []ResolvedEdge {
	var edges []ResolvedEdge

	for i := range records {
		rec := &records[i]
		if rec.Language != scanner.LangPython {
			continue
		}

		imports, err := parsePythonImports(ctx, rec.Content)
		if err != nil {
			stats.ParseFailures++
			continue
		}

		for _, imp := range imports {
			level := imp.level
			if !imp.fromImport {
				level = 0
			}
			if dst, ok := r.resolveModulePath(rec.Path, imp.module, level); ok {
				edges = append(edges, ResolvedEdge{Src: rec.Path, Dst: dst, Internal: true, Method: MethodAST})
				continue
			}
			spec := imp.module
			if spec == "" {
				spec = "."
			}
			edges = append(edges, ResolvedEdge{Src: rec.Path, Dst: spec, Internal: false, Method: MethodAST})
		}
	}

	return DedupeEdges(edges)
}

// resolveModulePath maps a (possibly relative) imported module to a repo
// file. The importer's own module name is its path with the extension
// stripped and separators replaced by dots; a relative import truncates
// level trailing components before joining.
func (r *PythonResolver) resolveModulePath(srcRel, module string, level int) (string, bool) {
	srcMod := pythonModuleName(srcRel)

	var fq string
	if level > 0 && srcMod != "" {
		parts := strings.Split(srcMod, ".")
		base := ""
		if level <= len(parts) {
			base = strings.Join(parts[:len(parts)-level], ".")
		}
		if module != "" {
			fq = base + "." + module
		} else {
			fq = base
		}
	} else {
		fq = module
	}

	fq = strings.Trim(fq, ".")
	if fq == "" {
		return "", false
	}

	stem := filepath.Join(r.repoRoot, filepath.FromSlash(strings.ReplaceAll(fq, ".", "/")))
	for _, candidate := range []string{stem + ".py", filepath.Join(stem, "__init__.py")} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			rel, err := filepath.Rel(r.repoRoot, candidate)
			if err != nil {
				return "", false
			}
			return filepath.ToSlash(rel), true
		}
	}
	return "", false
}

// pythonModuleName converts a repo-relative file path to a dotted module
// name ("a/b/c.py" -> "a.b.c"). The __init__ component is kept so that
// relative imports truncate one real level ("pkg/__init__.py" with level 1
// lands on "pkg").
func pythonModuleName(relPath string) string {
	stem := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return strings.ReplaceAll(stem, "/", ".")
}

// parsePythonImports parses content and collects every import statement,
// including those nested inside functions and conditionals.
func parsePythonImports(ctx context.Context, content []byte) ([]pythonImport, error) {
	tree, err := parseSource(ctx, python.GetLanguage(), content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var imports []pythonImport
	collectPythonImports(tree.RootNode(), content, &imports)
	return imports, nil
}

func collectPythonImports(n *sitter.Node, source []byte, out *[]pythonImport) {
	switch n.Type() {
	case "import_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "dotted_name":
				*out = append(*out, pythonImport{module: nodeText(child, source)})
			case "aliased_import":
				if name := child.ChildByFieldName("name"); name != nil {
					*out = append(*out, pythonImport{module: nodeText(name, source)})
				}
			}
		}
		return
	case "import_from_statement":
		imp := pythonImport{fromImport: true}
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			switch mod.Type() {
			case "dotted_name":
				imp.module = nodeText(mod, source)
			case "relative_import":
				for i := 0; i < int(mod.NamedChildCount()); i++ {
					part := mod.NamedChild(i)
					switch part.Type() {
					case "import_prefix":
						imp.level = len(nodeText(part, source))
					case "dotted_name":
						imp.module = nodeText(part, source)
					}
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child == n.ChildByFieldName("module_name") {
				continue
			}
			switch child.Type() {
			case "dotted_name":
				imp.names = append(imp.names, nodeText(child, source))
			case "aliased_import":
				if name := child.ChildByFieldName("name"); name != nil {
					imp.names = append(imp.names, nodeText(name, source))
				}
			case "wildcard_import":
				imp.names = append(imp.names, "*")
			}
		}
		*out = append(*out, imp)
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		collectPythonImports(n.NamedChild(i), source, out)
	}
}
