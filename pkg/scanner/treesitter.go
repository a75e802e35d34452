package scanner

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// maxTreeDepth is the maximum recursion depth when walking AST trees.
const maxTreeDepth = 1000

var (
	goLang   *sitter.Language
	langOnce sync.Once
)

// language returns the tree-sitter Go grammar, initialized once.
func language() *sitter.Language {
	langOnce.Do(func() {
		goLang = golang.GetLanguage()
	})
	return goLang
}

// parseGo parses Go source using a fresh parser. Fresh parsers avoid
// tree-sitter's sticky cancellation flag: a parser cancelled mid-parse fails
// all subsequent parses. Caller MUST call tree.Close() to free resources.
func parseGo(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}
	return tree, nil
}

// nodeText returns the source text for the given AST node, empty on
// out-of-range byte offsets.
func nodeText(node *sitter.Node, source []byte) (result string) {
	start := node.StartByte()
	end := node.EndByte()
	if start > uint32(len(source)) || end > uint32(len(source)) {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// walkTree recursively visits all nodes in position order. The visitor
// returns false to stop descending into a node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	walkTreeWithDepth(node, visitor, 0)
}

func walkTreeWithDepth(node *sitter.Node, visitor func(*sitter.Node) bool, depth int) {
	if depth > maxTreeDepth {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTreeWithDepth(node.Child(i), visitor, depth+1)
	}
}
