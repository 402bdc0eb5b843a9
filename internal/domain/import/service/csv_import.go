package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/binalerts/binalerts/internal/domain/import/parser"
	"github.com/binalerts/binalerts/internal/domain/import/postcode"
	"github.com/binalerts/binalerts/internal/domain/import/report"
)

// importCSV runs the CSV path: find the header row, pick the dialect,
// then feed every row through reconciliation. No header at all is a
// reported outcome, not an error.
func (s *Service) importCSV(ctx context.Context, data []byte, rep *report.Report) {
	lines := parser.SplitLines(data)
	records := parser.ParseLines(lines)
	rep.LinesRead = countNonEmpty(lines)

	dialect, headerIdx := parser.DetectDialect(records)
	switch dialect {
	case parser.DialectNative:
		rows, err := parser.ParseNative(lines[headerIdx:])
		if err != nil {
			s.abort(rep, err)
			return
		}
		s.importNativeRows(ctx, rows, rep)
	case parser.DialectLegacy:
		s.importLegacyRecords(ctx, records[headerIdx+1:], rep)
	default:
		rep.Logf("no recognizable header row found in import file; nothing imported")
	}
}

// importWorkbook reads the first sheet of an xlsx export and routes its
// records through the same dialect rules as CSV.
func (s *Service) importWorkbook(ctx context.Context, r io.Reader, rep *report.Report) {
	records, err := parser.ReadWorkbookRows(r)
	if err != nil {
		s.abort(rep, err)
		return
	}
	rep.LinesRead = countNonEmptyRecords(records)

	dialect, headerIdx := parser.DetectDialect(records)
	switch dialect {
	case parser.DialectNative:
		rows := make([]parser.NativeRow, 0, len(records)-headerIdx-1)
		for _, rec := range records[headerIdx+1:] {
			rows = append(rows, parser.NativeFromRecord(rec))
		}
		s.importNativeRows(ctx, rows, rep)
	case parser.DialectLegacy:
		s.importLegacyRecords(ctx, records[headerIdx+1:], rep)
	default:
		rep.Logf("no recognizable header row found in workbook; nothing imported")
	}
}

func (s *Service) importNativeRows(ctx context.Context, rows []parser.NativeRow, rep *report.Report) {
	for _, row := range rows {
		if err := s.importNativeRow(ctx, row, rep); err != nil {
			s.abort(rep, err)
			return
		}
	}
}

func (s *Service) importNativeRow(ctx context.Context, row parser.NativeRow, rep *report.Report) error {
	raw := fmt.Sprintf("%s,%s,%s,%s", row.Street, row.Postcode, row.Type, row.Days)

	name := strings.TrimSpace(row.Street)
	if name == "" {
		return nil
	}

	pc := ""
	if token := strings.TrimSpace(row.Postcode); token != "" {
		var ok bool
		pc, ok = postcode.Parse(token)
		if !ok {
			s.skipRow(rep, raw, fmt.Errorf("invalid postcode %q", token))
			return nil
		}
	}

	typ, err := s.lookupType(ctx, strings.TrimSpace(row.Type))
	if err != nil {
		if isRowError(err) {
			s.skipRow(rep, raw, err)
			return nil
		}
		return err
	}

	days, err := s.parseDays(row.Days)
	if err != nil {
		s.skipRow(rep, raw, err)
		return nil
	}

	return s.loadFacts(ctx, rep, raw, name, pc, s.cfg.GuessPostcodes, typ, days)
}

// importLegacyRecords handles the council spreadsheet layout: columns
// 0..4 hold one street name per weekday Monday..Friday, no postcode,
// and the collection type is always the configured default.
func (s *Service) importLegacyRecords(ctx context.Context, records [][]string, rep *report.Report) {
	typ, err := s.lookupType(ctx, "")
	if err != nil {
		s.abort(rep, err)
		return
	}

	for _, rec := range records {
		for i := 0; i < 5 && i < len(rec); i++ {
			name := strings.TrimSpace(rec[i])
			if name == "" {
				continue
			}
			day := time.Monday + time.Weekday(i)
			raw := fmt.Sprintf("%s (%s column)", name, day)

			err := s.loadFacts(ctx, rep, raw, name, "", s.cfg.GuessPostcodes, typ, []time.Weekday{day})
			if err != nil {
				s.abort(rep, err)
				return
			}
		}
	}
}

func countNonEmpty(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func countNonEmptyRecords(records [][]string) int {
	n := 0
	for _, rec := range records {
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				n++
				break
			}
		}
	}
	return n
}
