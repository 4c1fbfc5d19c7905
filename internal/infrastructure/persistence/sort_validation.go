package persistence

import (
	"strings"

	"github.com/catalog/pidreg/internal/domain/shared"
)

// RegistryServerSortFields are the columns registry server listings may be ordered by
var RegistryServerSortFields = map[string]bool{
	"name":       true,
	"type":       true,
	"created_at": true,
	"updated_at": true,
}

// ValidateSortOrder normalizes orderDir to ASC or DESC, using fallback when it is neither.
func ValidateSortOrder(orderDir, fallback string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return fallback
}

// ValidateSortField returns sortField if it is whitelisted, defaultField otherwise.
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY expression from a filter
func orderClause(filter shared.Filter, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(filter.OrderBy, allowed, defaultField) + " " + ValidateSortOrder(filter.OrderDir, "ASC")
}
