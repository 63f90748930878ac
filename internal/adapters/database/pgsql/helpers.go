package pgsql

import "fmt"

const defaultListLimit = 10

// orderClause renders the ORDER BY fragment. The column is already validated
// against the per-resource allow-list in the service layer; it is never raw
// client input.
func orderClause(sortBy string, desc bool) string {
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

// stringValues converts a slice of string-typed enums for ANY() binding.
func stringValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
