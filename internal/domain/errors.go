package domain

import (
	"fmt"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// MalformedSourceError reports a source that cannot be parsed or that declares
// no class. Extraction never returns a partial result alongside it.
type MalformedSourceError struct {
	Path   m.Path
	Reason string
	Line   int // 1-based line of the first syntax error, 0 when unknown
}

func (e *MalformedSourceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed source %s: %s at line %d", e.Path, e.Reason, e.Line)
	}

	return fmt.Sprintf("malformed source %s: %s", e.Path, e.Reason)
}
