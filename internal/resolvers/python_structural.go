package resolvers

import (
	"context"
	"strings"

	"github.com/Benny93/archmap-go/internal/scanner"
)

// packageContext is the module index for one structural analysis call.
// It is built per call and discarded with it, replacing any notion of
// process-wide module search paths, so concurrent analyses of different
// repositories cannot interfere.
type packageContext struct {
	// modules maps dotted module names to repo-relative file paths.
	// Both "pkg.sub" (for pkg/sub/__init__.py) and "pkg.sub.mod" (for
	// pkg/sub/mod.py) forms are indexed.
	modules map[string]string
}

func (c *packageContext) lookup(module string) (string, bool) {
	path, ok := c.modules[module]
	return path, ok
}

// structuralEdges runs the package-aware strategy: top-level directories
// containing __init__.py are treated as packages and their files resolved
// against an explicit module index. A failure inside one package skips
// that package only.
func (r *PythonResolver) structuralEdges(ctx context.Context, records []scanner.FileRecord, stats *PythonStats) []ResolvedEdge {
	packages := topLevelPackages(records)
	if len(packages) == 0 {
		return nil
	}

	pctx := buildPackageContext(records, packages)

	var edges []ResolvedEdge
	for _, pkg := range packages {
		pkgEdges, err := r.packageEdges(ctx, pkg, records, pctx)
		if err != nil {
			stats.PackagesSkipped++
			continue
		}
		edges = append(edges, pkgEdges...)
	}
	return DedupeEdges(edges)
}

// topLevelPackages returns the names of top-level directories that contain
// an __init__.py, in scan order.
func topLevelPackages(records []scanner.FileRecord) []string {
	var packages []string
	for i := range records {
		path := records[i].Path
		if dir, ok := strings.CutSuffix(path, "/__init__.py"); ok && !strings.Contains(dir, "/") {
			packages = append(packages, dir)
		}
	}
	return packages
}

// buildPackageContext indexes every Python file under the detected
// packages by its dotted module name.
func buildPackageContext(records []scanner.FileRecord, packages []string) *packageContext {
	inPackage := make(map[string]struct{}, len(packages))
	for _, pkg := range packages {
		inPackage[pkg] = struct{}{}
	}

	pctx := &packageContext{modules: make(map[string]string)}
	for i := range records {
		rec := &records[i]
		if rec.Language != scanner.LangPython {
			continue
		}
		top, _, found := strings.Cut(rec.Path, "/")
		if !found {
			continue
		}
		if _, ok := inPackage[top]; !ok {
			continue
		}

		if dir, ok := strings.CutSuffix(rec.Path, "/__init__.py"); ok {
			pctx.modules[strings.ReplaceAll(dir, "/", ".")] = rec.Path
			continue
		}
		mod := strings.ReplaceAll(strings.TrimSuffix(rec.Path, ".py"), "/", ".")
		pctx.modules[mod] = rec.Path
	}
	return pctx
}

// packageEdges resolves every import of every module in one package. Any
// parse failure aborts (and thereby skips) the whole package.
func (r *PythonResolver) packageEdges(ctx context.Context, pkg string, records []scanner.FileRecord, pctx *packageContext) ([]ResolvedEdge, error) {
	var edges []ResolvedEdge

	addInternal := func(src, dst string) {
		if dst == src {
			return
		}
		edges = append(edges, ResolvedEdge{Src: src, Dst: dst, Internal: true, Method: MethodStructural})
	}

	for i := range records {
		rec := &records[i]
		if rec.Language != scanner.LangPython || !strings.HasPrefix(rec.Path, pkg+"/") {
			continue
		}

		imports, err := parsePythonImports(ctx, rec.Content)
		if err != nil {
			return nil, err
		}

		for _, imp := range imports {
			fq := imp.module
			if imp.fromImport && imp.level > 0 {
				fq = joinRelativeModule(pythonModuleName(rec.Path), imp.module, imp.level)
				if fq == "" {
					continue
				}
			}

			resolvedAny := false
			if dst, ok := pctx.lookup(fq); ok {
				addInternal(rec.Path, dst)
				resolvedAny = true
			}

			// A from-import name may itself be a submodule.
			if imp.fromImport && fq != "" {
				for _, name := range imp.names {
					if name == "*" {
						continue
					}
					if dst, ok := pctx.lookup(fq + "." + name); ok {
						addInternal(rec.Path, dst)
						resolvedAny = true
					}
				}
			}

			if !resolvedAny && fq != "" {
				edges = append(edges, ResolvedEdge{Src: rec.Path, Dst: fq, Internal: false, Method: MethodStructural})
			}
		}
	}

	return edges, nil
}

// joinRelativeModule truncates level trailing components from the
// importer's dotted module name and appends the imported module.
func joinRelativeModule(srcMod, module string, level int) string {
	parts := strings.Split(srcMod, ".")
	base := ""
	if level <= len(parts) {
		base = strings.Join(parts[:len(parts)-level], ".")
	}
	fq := base
	if module != "" {
		fq = base + "." + module
	}
	return strings.Trim(fq, ".")
}
