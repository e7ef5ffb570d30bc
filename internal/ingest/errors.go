package ingest

import (
	"fmt"
	"strings"
)

// SchemaError means a required column could not be resolved against the
// observed headers. The full raw header list travels with the error so the
// operator can see what the export actually contained.
type SchemaError struct {
	Missing string
	Headers []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q not resolved (observed headers: %s)",
		e.Missing, strings.Join(e.Headers, " | "))
}
