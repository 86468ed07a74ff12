package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC, returning
// defaultDir for anything else.
func ValidateSortOrder(orderDir string, defaultDir string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	default:
		return defaultDir
	}
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns defaultField if the input is empty or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"phone":      true,
	"balance":    true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"created_at": true,
	"amount":     true,
}

// orderClause builds "<field> <dir>, <tiebreak> <dir>" from whitelisted input
func orderClause(table, orderBy, orderDir string, allowed map[string]bool, defaultField, defaultDir string) string {
	field := ValidateSortField(orderBy, allowed, defaultField)
	dir := ValidateSortOrder(orderDir, defaultDir)
	return table + "." + field + " " + dir + ", " + table + ".id " + dir
}
