package domain

import (
	"fmt"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

const (
	// DefaultFalseLabel is the negative polarity label of generated titles. The
	// misspelling matches scaffolds produced by earlier versions of the tool.
	DefaultFalseLabel = "flase"

	trueLabel = "true"

	// CaseBody is the skeleton placed in every generated test case.
	CaseBody = "// Arrange\n\n// Act\n\n// Assert\n"
)

// Generator turns method descriptors into placeholder test cases.
type Generator interface {
	Generate(method m.Method) []m.TestCase
	GenerateClass(class m.Class) []m.MethodCases
	// Fingerprint changes whenever the generator would title cases differently.
	Fingerprint() string
}

type generator struct {
	falseLabel string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*generator)

// WithFalseLabel overrides the label used for the negative outcome of a branch.
func WithFalseLabel(label string) GeneratorOption {
	return func(g *generator) {
		if label != "" {
			g.falseLabel = label
		}
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...GeneratorOption) Generator {
	g := &generator{falseLabel: DefaultFalseLabel}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *generator) Fingerprint() string {
	return "false-label=" + g.falseLabel
}

// Generate returns one case for a method without branches, otherwise the path
// expansion of every top-level branch in source order.
func (g *generator) Generate(method m.Method) []m.TestCase {
	if len(method.Branches) == 0 {
		return []m.TestCase{{
			Title: fmt.Sprintf("%s should <do something>", method.Name),
			Body:  CaseBody,
		}}
	}

	seed := fmt.Sprintf("%s should do <", method.Name)

	var cases []m.TestCase
	for _, branch := range method.Branches {
		cases = append(cases, g.expandPath(branch, seed)...)
	}

	return cases
}

// GenerateClass generates the cases of every method, keeping declaration order.
func (g *generator) GenerateClass(class m.Class) []m.MethodCases {
	methods := make([]m.MethodCases, 0, len(class.Methods))
	for _, method := range class.Methods {
		methods = append(methods, m.MethodCases{
			Method: method,
			Cases:  g.Generate(method),
		})
	}

	return methods
}

// expandPath emits the true and false cases of a leaf. For an inner branch it
// expands every child twice, under the true then the false qualified prefix.
func (g *generator) expandPath(branch m.Branch, prefix string) []m.TestCase {
	if branch.IsLeaf() {
		return []m.TestCase{
			{Title: fmt.Sprintf("%s (%s) %s >", prefix, branch.Condition, trueLabel), Body: CaseBody},
			{Title: fmt.Sprintf("%s (%s) %s >", prefix, branch.Condition, g.falseLabel), Body: CaseBody},
		}
	}

	truePrefix := fmt.Sprintf("%s (%s) %s", prefix, branch.Condition, trueLabel)
	falsePrefix := fmt.Sprintf("%s (%s) %s", prefix, branch.Condition, g.falseLabel)

	var cases []m.TestCase
	for _, child := range branch.Children {
		cases = append(cases, g.expandPath(child, truePrefix)...)
		cases = append(cases, g.expandPath(child, falsePrefix)...)
	}

	return cases
}
