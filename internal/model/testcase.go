package model

// TestCase is one placeholder unit test: a title that encodes the decision path
// and a body skeleton for a human to complete.
type TestCase struct {
	Title string
	Body  string
}

// MethodCases groups the generated cases of a single method.
type MethodCases struct {
	Method Method
	Cases  []TestCase
}

// Scaffold is everything the renderer needs to produce one spec file.
type Scaffold struct {
	Source  Source
	Naming  Naming
	Class   Class
	Methods []MethodCases
}

// CaseCount returns the total number of test cases in the scaffold.
func (s Scaffold) CaseCount() int {
	total := 0
	for _, mc := range s.Methods {
		total += len(mc.Cases)
	}

	return total
}

// Plan is the in-memory scaffold of one source, built without writing anything.
type Plan struct {
	Source   Path
	Scaffold Scaffold
	Err      error
}
