package domain

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// decision is a statement or expression recognised as a decision construct.
// The set of kinds is closed: if statements and conditional expressions.
type decision struct {
	kind m.BranchKind
	node *sitter.Node
}

// classifyStatement recognises a decision construct at statement level.
func classifyStatement(n *sitter.Node) (decision, bool) {
	switch n.Type() {
	case "if_statement":
		return decision{kind: m.BranchIf, node: n}, true
	case "expression_statement":
		expr := unwrapParens(firstNamedChild(n))
		if expr != nil && expr.Type() == "ternary_expression" {
			return decision{kind: m.BranchTernary, node: expr}, true
		}
	}

	return decision{}, false
}

// classifyExpression recognises a conditional expression in an expression position.
func classifyExpression(n *sitter.Node) (decision, bool) {
	expr := unwrapParens(n)
	if expr != nil && expr.Type() == "ternary_expression" {
		return decision{kind: m.BranchTernary, node: expr}, true
	}

	return decision{}, false
}

func (d decision) branch(src []byte) m.Branch {
	if d.kind == m.BranchIf {
		return m.Branch{
			Kind:      m.BranchIf,
			Condition: guardText(d.node.ChildByFieldName("condition"), src),
			Children: append(
				discoverStatements(statementList(d.node.ChildByFieldName("consequence")), src),
				discoverStatements(statementList(d.node.ChildByFieldName("alternative")), src)...,
			),
		}
	}

	return m.Branch{
		Kind:      m.BranchTernary,
		Condition: nodeText(d.node.ChildByFieldName("condition"), src),
		Children: append(
			discoverExpression(d.node.ChildByFieldName("consequence"), src),
			discoverExpression(d.node.ChildByFieldName("alternative"), src)...,
		),
	}
}

// discoverStatements emits one Branch per decision construct found directly in
// stmts. Non-decision statements are not descended into.
func discoverStatements(stmts []*sitter.Node, src []byte) []m.Branch {
	var branches []m.Branch

	for _, stmt := range stmts {
		if d, ok := classifyStatement(stmt); ok {
			branches = append(branches, d.branch(src))
		}
	}

	return branches
}

func discoverExpression(n *sitter.Node, src []byte) []m.Branch {
	if n == nil {
		return nil
	}

	if d, ok := classifyExpression(n); ok {
		return []m.Branch{d.branch(src)}
	}

	return nil
}

// statementList returns the statements of an arm: the contents of a block, the
// statement of an else clause, or the single statement itself.
func statementList(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "statement_block":
		return namedChildren(n)
	case "else_clause":
		return statementList(firstNamedChild(n))
	default:
		return []*sitter.Node{n}
	}
}

func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" {
		n = firstNamedChild(n)
	}

	return n
}

// namedChildren returns the named children of n, comments excluded.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)

	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}

		children = append(children, child)
	}

	return children
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}

	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}

	return children[0]
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}

	return n.Content(src)
}

// guardText returns the text of an if guard without its surrounding parentheses.
func guardText(n *sitter.Node, src []byte) string {
	text := strings.TrimSpace(nodeText(n, src))
	if n != nil && n.Type() == "parenthesized_expression" &&
		strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}

	return text
}
