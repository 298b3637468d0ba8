package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// ReadCSV parses an upload from r. charsetLabel selects the source encoding
// ("" or "utf-8" reads as-is); merchant exports are frequently windows-125x.
func ReadCSV(r io.Reader, charsetLabel string, log zerolog.Logger) (*Dataset, error) {
	if charsetLabel != "" && !strings.EqualFold(charsetLabel, "utf-8") {
		cr, err := charset.NewReaderLabel(charsetLabel, r)
		if err != nil {
			return nil, fmt.Errorf("unknown charset %q: %w", charsetLabel, err)
		}
		r = cr
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	byIndex, err := NormalizeHeader(header)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	return fromRecords(byIndex, records, log), nil
}

// LoadCSV reads an upload from a file path.
func LoadCSV(path, charsetLabel string, log zerolog.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, charsetLabel, log)
}
