package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField maps a client-facing sort key onto a column from the
// allow-list. Unknown or empty keys yield defaultField.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	column, ok := allowedFields[strings.TrimSpace(sortField)]
	if !ok {
		return defaultField
	}
	return column
}

// ProductSortFields lists the product columns a listing may be ordered by
var ProductSortFields = map[string]string{
	"producto_id":   "producto_id",
	"nombre":        "nombre",
	"marca":         "marca",
	"codigo":        "codigo",
	"cantidad":      "cantidad",
	"costo_venta_1": "costo_venta_1",
	"fecha":         "fecha",
}
