// Package model defines the data structures for branch-aware test scaffolding.
package model

// BranchKind identifies the syntactic decision construct a Branch was built from.
type BranchKind string

const (
	// BranchIf is an if statement; its children come from the then and else arms.
	BranchIf BranchKind = "if"
	// BranchTernary is a statement-level conditional expression.
	BranchTernary BranchKind = "ternary"
)

// Branch is one syntactic decision point.
//
// A Branch without children is a leaf and produces exactly two test cases.
// A Branch with children produces none of its own; only its leaves do.
type Branch struct {
	Kind      BranchKind
	Condition string // source text of the guard, never evaluated
	Children  []Branch
}

// IsLeaf reports whether the branch terminates path expansion.
func (b Branch) IsLeaf() bool {
	return len(b.Children) == 0
}

// Method is one method member of the target class.
type Method struct {
	Name     string
	Abstract bool // declared without a body
	Branches []Branch
}

// Class is the extraction result for the selected class declaration.
type Class struct {
	Name    string
	Methods []Method
}

// BranchCount returns the number of decision points in the method, nested ones included.
func (mt Method) BranchCount() int {
	return countBranches(mt.Branches)
}

func countBranches(branches []Branch) int {
	total := 0
	for _, b := range branches {
		total += 1 + countBranches(b.Children)
	}

	return total
}
