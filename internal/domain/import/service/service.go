// Package service orchestrates import runs: it selects the parsing
// path by file type, wires rows through street reconciliation and the
// collection upsert policy, and returns the audit report. One bad row
// never aborts the batch; fatal format errors abort the current file
// but still yield a partial report.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/binalerts/binalerts/internal/domain/collection"
	"github.com/binalerts/binalerts/internal/domain/import/dayofweek"
	"github.com/binalerts/binalerts/internal/domain/import/reconciler"
	"github.com/binalerts/binalerts/internal/domain/import/report"
	"github.com/binalerts/binalerts/pkg/config"
)

// Service is the import orchestrator
type Service struct {
	collections collection.Repository
	reconciler  *reconciler.Reconciler
	policy      *collection.Policy
	cfg         config.ImportConfig
	logger      *slog.Logger
}

// New creates an import service. The policy flags in cfg are
// correctness-critical and must match those the reconciler and policy
// were built with.
func New(
	collections collection.Repository,
	rec *reconciler.Reconciler,
	policy *collection.Policy,
	cfg config.ImportConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		collections: collections,
		reconciler:  rec,
		policy:      policy,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run imports one file, selecting the parsing path by extension, and
// always returns a report — partial when a fatal format error stopped
// the file early, never nil.
func (s *Service) Run(ctx context.Context, filename string, r io.Reader) *report.Report {
	rep := report.New()
	s.logger.Info("starting import", "file", filename)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		data, err := io.ReadAll(r)
		if err != nil {
			s.abort(rep, fmt.Errorf("failed to read file: %w", err))
			break
		}
		s.importCSV(ctx, data, rep)
	case ".xml":
		s.importPDFTable(ctx, r, rep)
	case ".xlsx":
		s.importWorkbook(ctx, r, rep)
	default:
		rep.Logf("unsupported file type %q; nothing imported", filepath.Ext(filename))
	}

	rep.Summarize()
	observe(rep)
	s.logger.Info("import finished",
		"file", filename,
		"lines", rep.LinesRead,
		"collections", rep.CollectionsLoaded,
		"streets_created", rep.StreetsCreated,
		"rows_skipped", rep.RowsSkipped,
	)
	return rep
}

// loadFacts resolves one street reference and applies the upsert policy
// for each day. Row-level data errors are logged and swallowed; any
// other error is fatal for the file.
func (s *Service) loadFacts(
	ctx context.Context,
	rep *report.Report,
	raw string,
	name, postcode string,
	guessAllowed bool,
	typ *collection.Type,
	days []time.Weekday,
) error {
	res, err := s.reconciler.Resolve(ctx, name, postcode, guessAllowed)
	if err != nil {
		if isRowError(err) {
			s.skipRow(rep, raw, err)
			return nil
		}
		return err
	}

	switch res.Guess {
	case reconciler.GuessAdopted:
		rep.Logf("guessed postcode %s for %s from existing records", res.Street.PartialPostcode, name)
	case reconciler.GuessAmbiguous:
		rep.Logf("could not guess postcode for %s: multiple candidates in existing records", name)
	}

	if res.Created {
		rep.StreetsCreated++
		rep.Logf("created street %s", res.Street.Label())
	}

	for _, day := range days {
		desc, err := s.policy.Apply(ctx, res.Street, typ, day)
		if err != nil {
			return err
		}
		rep.CollectionsLoaded++
		rep.Logf("%s: %s", res.Street.Label(), desc)
	}

	return nil
}

// lookupType resolves a type code, falling back to the configured
// default only when the source row carries none. An unknown non-empty
// code is a row-level data error, not a cue to substitute the default:
// a typo in the type column must not silently reclassify a schedule.
func (s *Service) lookupType(ctx context.Context, code string) (*collection.Type, error) {
	if code == "" {
		code = s.cfg.DefaultCollectionTypeCode
		if code == "" {
			return nil, errors.New("no collection type in row and no default type configured")
		}
	}
	return s.collections.GetTypeByCode(ctx, code)
}

func (s *Service) skipRow(rep *report.Report, raw string, err error) {
	rep.RowsSkipped++
	rep.Logf("skipped row [%s]: %v", raw, err)
	s.logger.Warn("row skipped", "row", raw, "error", err)
}

func (s *Service) abort(rep *report.Report, err error) {
	rep.Logf("import aborted: %v", err)
	s.logger.Error("import aborted", "error", err)
}

// isRowError distinguishes per-row data errors, which the loop survives,
// from infrastructure failures, which abort the file.
func isRowError(err error) bool {
	var ambiguous *reconciler.AmbiguousStreetError
	var missing *reconciler.MissingPostcodeError
	return errors.As(err, &ambiguous) || errors.As(err, &missing) ||
		errors.Is(err, collection.ErrTypeNotFound)
}

// parseDays interprets a native-dialect days cell. With multi-week
// collections enabled the cell may hold several day names; otherwise it
// must parse as exactly one.
func (s *Service) parseDays(cell string) ([]time.Weekday, error) {
	if !s.cfg.AllowMultipleCollectionsPerWeek {
		d, ok := dayofweek.FromName(strings.TrimSpace(cell))
		if !ok {
			return nil, fmt.Errorf("unparseable day of week %q", strings.TrimSpace(cell))
		}
		return []time.Weekday{d}, nil
	}

	tokens := dayofweek.SplitNames(cell)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no day of week in %q", cell)
	}
	days := make([]time.Weekday, 0, len(tokens))
	for _, t := range tokens {
		d, ok := dayofweek.FromName(t)
		if !ok {
			return nil, fmt.Errorf("unparseable day of week %q", t)
		}
		days = append(days, d)
	}
	return days, nil
}
