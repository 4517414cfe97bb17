package resolvers

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
)

var errNoTree = errors.New("parser returned no syntax tree")

// parseSource parses content with the given grammar and returns the tree.
// The caller owns the tree and must Close it.
func parseSource(ctx context.Context, lang *sitter.Language, content []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, errNoTree
	}
	return tree, nil
}

// nodeText returns the source text spanned by a node.
func nodeText(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

// stringLiteralValue strips the surrounding quotes from a string literal's
// source text. Returns "" when the text is not a quoted literal.
func stringLiteralValue(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'' || text[0] == '`') && text[len(text)-1] == text[0] {
		return text[1 : len(text)-1]
	}
	return ""
}
