package domain

import (
	"context"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"branchgen.dev/pkg/branchgen/internal/adapter"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

// Extractor turns the source text of a compilation unit into the structural
// model of its last top-level class.
type Extractor interface {
	Extract(ctx context.Context, source m.Source) (m.Class, error)
}

type extractor struct {
	adapter.TSFileAdapter
}

// NewExtractor creates an Extractor backed by the given parser adapter.
func NewExtractor(tsAdapter adapter.TSFileAdapter) Extractor {
	return &extractor{TSFileAdapter: tsAdapter}
}

// Extract parses source and returns the methods of its last top-level class.
// Parse failures and sources without a class yield a *MalformedSourceError.
func (e *extractor) Extract(ctx context.Context, source m.Source) (m.Class, error) {
	tree, err := e.Parse(ctx, source.Path, source.Content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.Class{}, ctxErr
		}

		return m.Class{}, &MalformedSourceError{Path: source.Path, Reason: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return m.Class{}, &MalformedSourceError{
			Path:   source.Path,
			Reason: "syntax error",
			Line:   firstSyntaxErrorLine(root),
		}
	}

	classNode := lastClassDeclaration(root)
	if classNode == nil {
		return m.Class{}, &MalformedSourceError{Path: source.Path, Reason: "no class declaration found"}
	}

	class := extractClass(classNode, source.Content)
	slog.Debug("Extracted class", "source", source.Path, "class", class.Name, "methods", len(class.Methods))

	return class, nil
}

func isClassNode(n *sitter.Node) bool {
	if n == nil {
		return false
	}

	switch n.Type() {
	case "class_declaration", "abstract_class_declaration", "class":
		return true
	}

	return false
}

// lastClassDeclaration returns the last class declared at the top level,
// looking through export statements.
func lastClassDeclaration(root *sitter.Node) *sitter.Node {
	var last *sitter.Node

	for _, stmt := range namedChildren(root) {
		switch {
		case isClassNode(stmt):
			last = stmt
		case stmt.Type() == "export_statement":
			if decl := stmt.ChildByFieldName("declaration"); isClassNode(decl) {
				last = decl
			} else if value := stmt.ChildByFieldName("value"); isClassNode(value) {
				last = value
			}
		}
	}

	return last
}

func extractClass(classNode *sitter.Node, src []byte) m.Class {
	class := m.Class{Name: nodeText(classNode.ChildByFieldName("name"), src)}

	body := classNode.ChildByFieldName("body")
	if body == nil {
		return class
	}

	for _, member := range namedChildren(body) {
		method, ok := extractMethod(member, src)
		if !ok {
			continue
		}

		class.Methods = append(class.Methods, method)
	}

	return class
}

// extractMethod keeps method members only: accessors, the constructor, fields
// and index signatures are discarded.
func extractMethod(member *sitter.Node, src []byte) (m.Method, bool) {
	switch member.Type() {
	case "method_definition", "method_signature", "abstract_method_signature":
	default:
		return m.Method{}, false
	}

	if isAccessor(member) {
		return m.Method{}, false
	}

	name := nodeText(member.ChildByFieldName("name"), src)
	if name == "constructor" || name == "" {
		return m.Method{}, false
	}

	body := member.ChildByFieldName("body")
	if body == nil {
		return m.Method{Name: name, Abstract: true}, true
	}

	return m.Method{
		Name:     name,
		Branches: discoverStatements(statementList(body), src),
	}, true
}

// isAccessor reports whether a method member carries a get or set keyword
// before its name.
func isAccessor(member *sitter.Node) bool {
	count := int(member.ChildCount())
	for i := 0; i < count; i++ {
		child := member.Child(i)
		if child == nil {
			continue
		}

		if child.IsNamed() {
			if child.Type() == "property_identifier" || child.Type() == "private_property_identifier" {
				return false
			}

			continue
		}

		if child.Type() == "get" || child.Type() == "set" {
			return true
		}
	}

	return false
}

// firstSyntaxErrorLine finds the first ERROR or missing node in document order.
func firstSyntaxErrorLine(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row) + 1
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil || (!child.HasError() && !child.IsMissing()) {
			continue
		}

		if line := firstSyntaxErrorLine(child); line > 0 {
			return line
		}
	}

	return 0
}
