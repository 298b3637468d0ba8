// Package ingest parses bulk upload files (CSV, XLSX) into the canonical
// ingestion schema, normalizing the column-name synonyms merchants actually
// use in their exports.
package ingest

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical column names.
const (
	ColProduct   = "product"
	ColCategory  = "category"
	ColPrice     = "price"
	ColInventory = "inventory"
	ColDate      = "date"
	ColSales     = "sales"
	ColExpiry    = "expiry_date"
)

var requiredColumns = []string{ColProduct, ColPrice, ColInventory}

// columnAliases maps common header synonyms (already lowercased and trimmed)
// onto the canonical schema. Kept as one table so ingestion behavior is
// testable and not scattered through parsing code.
var columnAliases = map[string]string{
	"item":              ColProduct,
	"name":              ColProduct,
	"product name":      ColProduct,
	"product_name":      ColProduct,
	"qty":               ColInventory,
	"stock":             ColInventory,
	"current inventory": ColInventory,
	"inventory_level":   ColInventory,
	"cost":              ColPrice,
	"unit price":        ColPrice,
	"selling price":     ColPrice,
	"cat":               ColCategory,
	"expiration":        ColExpiry,
	"expiry":            ColExpiry,
	"units_sold":        ColSales,
	"sold":              ColSales,
}

// MissingColumnsError reports exactly which required columns a file lacks and
// which columns were found, to aid correction.
type MissingColumnsError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("file is missing required columns: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// NormalizeHeader maps raw header cells onto canonical column names and
// verifies the required set is present. The result maps column index to
// canonical name; unknown columns are dropped.
func NormalizeHeader(header []string) (map[int]string, error) {
	byIndex := make(map[int]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		switch name {
		case ColProduct, ColCategory, ColPrice, ColInventory, ColDate, ColSales, ColExpiry:
			if !seen[name] { // first occurrence wins for duplicate columns
				byIndex[i] = name
				seen[name] = true
			}
		}
	}

	var missing []string
	for _, req := range requiredColumns {
		if !seen[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		found := make([]string, 0, len(seen))
		for name := range seen {
			found = append(found, name)
		}
		sort.Strings(found)
		return nil, &MissingColumnsError{Missing: missing, Found: found}
	}
	return byIndex, nil
}
