// Command importer loads one waste-collection schedule file (CSV, XLSX
// or PDF-derived XML) into the street database and prints the audit
// report. Partial imports are the explicit failure mode: already
// committed rows stand, and the report says what happened.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/binalerts/binalerts/pkg/config"
)

func main() {
	var (
		defaultType     = flag.String("default-type", "", "collection type code for rows without one")
		allowMultiple   = flag.Bool("allow-multiple", false, "allow multiple collection days per street and type")
		requirePostcode = flag.Bool("require-postcode", false, "fail rows whose postcode cannot be resolved")
		guessPostcodes  = flag.Bool("guess-postcodes", true, "adopt postcodes from existing same-named streets")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: importer [flags] <file.csv|file.xlsx|file.xml>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override environment so a one-off run can change policy.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "default-type":
			cfg.Import.DefaultCollectionTypeCode = *defaultType
		case "allow-multiple":
			cfg.Import.AllowMultipleCollectionsPerWeek = *allowMultiple
		case "require-postcode":
			cfg.Import.StreetsMustHavePostcode = *requirePostcode
		case "guess-postcodes":
			cfg.Import.GuessPostcodes = *guessPostcodes
		}
	})

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		logger.Error("failed to init dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Cleanup()

	f, err := os.Open(path)
	if err != nil {
		logger.Error("failed to open import file", "file", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	rep := deps.Importer.Run(context.Background(), path, f)
	if _, err := rep.WriteTo(os.Stdout); err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}
}
