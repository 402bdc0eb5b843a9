// Package parser detects source-file dialects and turns CSV or
// spreadsheet bytes into raw row tuples for the import service.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// Dialect identifies which CSV schema a file follows
type Dialect int

const (
	// DialectUnknown: no recognizable header row was found.
	DialectUnknown Dialect = iota
	// DialectNative: the importer's own schema, one row = one
	// (street, postcode, type, days) fact.
	DialectNative
	// DialectLegacy: the council spreadsheet export, one street name
	// per weekday column Monday..Friday, no postcode.
	DialectLegacy
)

var nativeHeader = []string{"street", "postcode", "type", "days"}

// gocsv's default reader enforces a uniform field count, which would
// turn one ragged row into a file-level failure. Council exports are
// ragged in the wild; a short row surfaces as empty cells and is
// judged per row, never aborting the batch.
func init() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		return r
	})
}

// NativeRow is one row of the native schema
type NativeRow struct {
	Street   string `csv:"street"`
	Postcode string `csv:"postcode"`
	Type     string `csv:"type"`
	Days     string `csv:"days"`
}

// SplitLines splits raw file bytes into cleaned lines: CR and BOM
// stripped, original order and count preserved.
func SplitLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if i == 0 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		lines[i] = line
	}
	return lines
}

// ParseLines parses each line as a single CSV record. Lines that are
// empty or fail to parse yield a nil record, keeping indices aligned
// with the input.
func ParseLines(lines []string) [][]string {
	records := make([][]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r := csv.NewReader(strings.NewReader(line))
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		rec, err := r.Read()
		if err != nil {
			continue
		}
		records[i] = rec
	}
	return records
}

// DetectDialect scans records for the first recognizable header row.
// Everything before the header is ignored. Returns the dialect and the
// header's index, or DialectUnknown and -1.
func DetectDialect(records [][]string) (Dialect, int) {
	for i, rec := range records {
		if rec == nil {
			continue
		}
		if isNativeHeader(rec) {
			return DialectNative, i
		}
		if isLegacyHeader(rec) {
			return DialectLegacy, i
		}
	}
	return DialectUnknown, -1
}

func isNativeHeader(rec []string) bool {
	if len(rec) != len(nativeHeader) {
		return false
	}
	for i, want := range nativeHeader {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), want) {
			return false
		}
	}
	return true
}

func isLegacyHeader(rec []string) bool {
	return len(rec) >= 5 &&
		strings.TrimSpace(rec[0]) == "Monday" &&
		strings.TrimSpace(rec[4]) == "Friday"
}

// ParseNative unmarshals the native-dialect rows. lines must start at
// the header row.
func ParseNative(lines []string) ([]NativeRow, error) {
	var rows []NativeRow
	if err := gocsv.Unmarshal(strings.NewReader(strings.Join(lines, "\n")), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse native rows: %w", err)
	}
	return rows, nil
}

// NativeFromRecord builds a NativeRow from positional cells, for
// sources that arrive as records rather than CSV bytes.
func NativeFromRecord(rec []string) NativeRow {
	cell := func(i int) string {
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	return NativeRow{
		Street:   cell(0),
		Postcode: cell(1),
		Type:     cell(2),
		Days:     cell(3),
	}
}
