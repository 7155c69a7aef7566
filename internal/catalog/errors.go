package catalog

import "fmt"

// SchemaError reports a missing or malformed field in a catalog record.
// Loading aborts on the first one; rows are rejected at the boundary,
// not at first use.
type SchemaError struct {
	Row    int
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %d: bad field %q: %s", e.Row, e.Field, e.Reason)
}

// DuplicateIDError reports two records sharing a post id.
type DuplicateIDError struct {
	ID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate post id %d", e.ID)
}
