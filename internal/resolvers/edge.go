// Package resolvers extracts import edges from source files.
//
// Each language runs multiple imperfect strategies (structural, syntax
// tree, regex) whose edges are reconciled by an explicit precedence merge
// keyed on (src, dst). Strategy failures degrade a single file or package,
// never the run.
package resolvers

// Method tags the strategy that produced (or won) an edge.
type Method string

const (
	// MethodStructural marks edges from the package-aware Python resolver.
	MethodStructural Method = "structural"

	// MethodAST marks edges from the per-file Python syntax-tree fallback.
	MethodAST Method = "ast"

	// MethodSyntaxTree marks edges from the JS/TS syntax-tree strategy.
	MethodSyntaxTree Method = "syntax-tree"

	// MethodRegex marks edges from the JS/TS regex fallback.
	MethodRegex Method = "regex"

	// MethodStructuralPreferred marks edges produced by both Python
	// strategies, with the structural result authoritative.
	MethodStructuralPreferred Method = "structural-preferred"

	// MethodSyntaxTreePreferred marks edges produced by both JS/TS
	// strategies, with the syntax-tree result authoritative.
	MethodSyntaxTreePreferred Method = "syntax-tree-preferred"
)

// ResolvedEdge is one extracted import.
type ResolvedEdge struct {
	// Src is the repo-relative path of the importing file.
	Src string `json:"src"`

	// Dst is a repo-relative file path when the import resolved
	// internally, or the raw specifier string when external.
	Dst string `json:"dst"`

	// Internal reports whether Dst is a file inside the repository.
	Internal bool `json:"internal"`

	// Method is the strategy tag that won the merge for this edge.
	Method Method `json:"method"`
}
