package domain

import "fmt"

// AnnotationsField is the reserved remote field name that carries annotation
// results back on pull. A pulling column mapping must map some local column
// to it.
const AnnotationsField = "annotations"

// ColumnMapping is a bijection between local column names and remote field
// names: keys are local columns, values are remote fields.
type ColumnMapping map[string]string

// LocalFor returns the local column mapped to a remote field.
func (m ColumnMapping) LocalFor(remote string) (string, bool) {
	for local, r := range m {
		if r == remote {
			return local, true
		}
	}
	return "", false
}

// Validate checks that the mapping is non-empty and one-to-one.
func (m ColumnMapping) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("%w: column mapping is empty", ErrInvalidInput)
	}
	seen := make(map[string]string, len(m))
	for local, remote := range m {
		if remote == "" {
			return fmt.Errorf("%w: column %q maps to an empty remote field", ErrInvalidInput, local)
		}
		if prev, ok := seen[remote]; ok {
			return fmt.Errorf("%w: columns %q and %q both map to remote field %q",
				ErrInvalidInput, prev, local, remote)
		}
		seen[remote] = local
	}
	return nil
}
