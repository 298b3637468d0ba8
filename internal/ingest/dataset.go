package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Row is one ingestion record in the canonical schema.
type Row struct {
	Product   string
	Category  string
	Price     float64
	Inventory int
	Date      *time.Time
	Sales     *int
	Expiry    *time.Time
}

// Dataset is a parsed upload. HasHistory reports whether date and sales
// columns were present, i.e. whether daily history rows can be replaced.
type Dataset struct {
	Rows       []Row
	HasHistory bool
}

const dateLayout = "2006-01-02"

// parseDate accepts "YYYY-MM-DD" with an optional time suffix, which exports
// commonly append.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// fromRecords converts raw string records into a Dataset using the normalized
// header mapping. Rows with an empty product or unparseable required numerics
// are skipped with a log line rather than failing the whole upload.
func fromRecords(byIndex map[int]string, records [][]string, log zerolog.Logger) *Dataset {
	hasDate, hasSales := false, false
	for _, name := range byIndex {
		if name == ColDate {
			hasDate = true
		}
		if name == ColSales {
			hasSales = true
		}
	}

	ds := &Dataset{HasHistory: hasDate && hasSales}

	for n, rec := range records {
		var row Row
		ok := true
		for i, name := range byIndex {
			if i >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[i])
			switch name {
			case ColProduct:
				row.Product = cell
			case ColCategory:
				row.Category = cell
			case ColPrice:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					ok = false
				} else {
					row.Price = v
				}
			case ColInventory:
				v, err := strconv.ParseFloat(cell, 64) // tolerate "12.0"
				if err != nil || v < 0 {
					ok = false
				} else {
					row.Inventory = int(v)
				}
			case ColSales:
				if v, err := strconv.ParseFloat(cell, 64); err == nil && v >= 0 {
					s := int(v)
					row.Sales = &s
				}
			case ColDate:
				if t, tok := parseDate(cell); tok {
					row.Date = &t
				}
			case ColExpiry:
				if t, tok := parseDate(cell); tok {
					row.Expiry = &t
				}
			}
		}
		if row.Product == "" {
			ok = false
		}
		if !ok {
			log.Warn().Int("row", n+1).Msg("skipping malformed ingestion row")
			continue
		}
		if row.Category == "" {
			row.Category = "General"
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}
