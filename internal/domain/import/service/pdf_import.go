package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/binalerts/binalerts/internal/domain/collection"
	"github.com/binalerts/binalerts/internal/domain/import/dayofweek"
	"github.com/binalerts/binalerts/internal/domain/import/pdftable"
	"github.com/binalerts/binalerts/internal/domain/import/postcode"
	"github.com/binalerts/binalerts/internal/domain/import/report"
)

// importPDFTable consumes reconstructed rows from PDF-derived XML.
// Rows before the first single-letter section header are skipped; each
// header is followed by exactly one blank separator row; an empty
// single-cell row after data marks end-of-table and must be followed
// by the configured trailer sentinel, otherwise the format has changed
// under us and we fail fast rather than silently truncate.
func (s *Service) importPDFTable(ctx context.Context, r io.Reader, rep *report.Report) {
	rows, err := pdftable.Parse(r)
	if err != nil {
		s.abort(rep, err)
		return
	}

	typ, err := s.lookupType(ctx, "")
	if err != nil {
		s.abort(rep, err)
		return
	}

	inTable := false
	for {
		row, ok := rows.Next()
		if !ok {
			if inTable {
				s.abort(rep, errors.New("table ended without end-of-table marker"))
			} else {
				rep.Logf("no table section header found; nothing imported")
			}
			return
		}
		rep.LinesRead++

		if len(row) == 1 {
			text := strings.TrimSpace(row[0].Text)
			switch {
			case isSectionHeader(text):
				if err := s.consumeSectionSeparator(rows, rep, text); err != nil {
					s.abort(rep, err)
					return
				}
				inTable = true
			case text == "" && inTable:
				if err := s.consumeTrailer(rows, rep); err != nil {
					s.abort(rep, err)
				}
				return
			case !inTable:
				// Page furniture before the table proper.
			default:
				s.abort(rep, fmt.Errorf("unexpected single-cell row %q inside table", text))
				return
			}
			continue
		}

		if !inTable {
			continue
		}

		if err := s.importPDFRow(ctx, row, typ, rep); err != nil {
			s.abort(rep, err)
			return
		}
	}
}

// consumeSectionSeparator pulls the one blank-triple row that always
// follows a section header.
func (s *Service) consumeSectionSeparator(rows *pdftable.Rows, rep *report.Report, section string) error {
	sep, ok := rows.Next()
	if !ok || !isBlankTriple(sep) {
		return fmt.Errorf("expected blank separator row after section %q", section)
	}
	rep.LinesRead++
	return nil
}

// consumeTrailer pulls the row after the end-of-table marker and
// requires it to equal the configured sentinel text.
func (s *Service) consumeTrailer(rows *pdftable.Rows, rep *report.Report) error {
	trailer, ok := rows.Next()
	if !ok {
		return fmt.Errorf("end-of-table marker not followed by %q trailer", s.cfg.PDFTrailerSentinel)
	}
	rep.LinesRead++
	if len(trailer) != 1 || strings.TrimSpace(trailer[0].Text) != s.cfg.PDFTrailerSentinel {
		return fmt.Errorf("end-of-table marker not followed by %q trailer", s.cfg.PDFTrailerSentinel)
	}
	return nil
}

// importPDFRow handles one data row: street name split over two cells,
// partial postcode, then the day-of-week text. Postcode guessing is
// disabled on this path because the PDF always supplies one.
func (s *Service) importPDFRow(ctx context.Context, row []pdftable.Cell, typ *collection.Type, rep *report.Report) error {
	texts := make([]string, len(row))
	for i, c := range row {
		texts[i] = strings.TrimSpace(c.Text)
	}
	raw := strings.Join(texts, " | ")

	if len(texts) < 4 {
		s.skipRow(rep, raw, fmt.Errorf("expected 4 cells, got %d", len(texts)))
		return nil
	}

	name := strings.TrimSpace(texts[0] + " " + texts[1])

	pc, ok := postcode.Parse(texts[2])
	if !ok {
		s.skipRow(rep, raw, fmt.Errorf("invalid postcode %q", texts[2]))
		return nil
	}

	tokens := dayofweek.SplitNames(texts[3])
	if len(tokens) > 1 && !s.cfg.AllowMultipleCollectionsPerWeek {
		s.skipRow(rep, raw, fmt.Errorf(
			"multiple collection days %q but multiple collections per week are disabled", texts[3]))
		return nil
	}

	var days []time.Weekday
	for _, t := range tokens {
		d, ok := dayofweek.FromName(t)
		if !ok {
			rep.Logf("ignoring unparseable day %q in row [%s]", t, raw)
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		s.skipRow(rep, raw, fmt.Errorf("no parseable day of week in %q", texts[3]))
		return nil
	}

	return s.loadFacts(ctx, rep, raw, name, pc, false, typ, days)
}

// isSectionHeader recognizes the single-letter alphabetical markers
// that head each group of streets.
func isSectionHeader(text string) bool {
	r, size := utf8.DecodeRuneInString(text)
	return size == len(text) && size > 0 && unicode.IsLetter(r)
}

// isBlankTriple recognizes the empty three-cell separator row that
// follows every section header.
func isBlankTriple(row []pdftable.Cell) bool {
	if len(row) != 3 {
		return false
	}
	for _, c := range row {
		if strings.TrimSpace(c.Text) != "" {
			return false
		}
	}
	return true
}
