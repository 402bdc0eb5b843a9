// Package reconciler resolves raw street names from import sources to
// canonical street records. Ambiguity is always surfaced, never
// auto-resolved beyond the single-candidate postcode guess: the engine
// must never silently merge two real-world streets nor duplicate one.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/binalerts/binalerts/internal/domain/street"
)

// GuessOutcome reports what the guess-postcode-from-history heuristic
// did for a row, so callers can log which case occurred.
type GuessOutcome int

const (
	// GuessNotApplicable: a postcode was supplied, guessing was
	// disabled, or no existing street offered a candidate.
	GuessNotApplicable GuessOutcome = iota
	// GuessAdopted: exactly one distinct postcode existed among
	// same-named streets and was adopted.
	GuessAdopted
	// GuessAmbiguous: multiple distinct postcodes existed, so no guess
	// was made.
	GuessAmbiguous
)

// Resolution is the outcome of resolving one raw street reference
type Resolution struct {
	Street  *street.Street
	Created bool
	Guess   GuessOutcome
}

// AmbiguousStreetError is a row-level failure: the name matches several
// streets and no postcode was supplied to pick one. The caller must
// skip the row, not guess.
type AmbiguousStreetError struct {
	Name       string
	Candidates []street.Street
}

func (e *AmbiguousStreetError) Error() string {
	labels := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		labels[i] = c.Label()
	}
	return fmt.Sprintf("street name %q is ambiguous: matches %s", e.Name, strings.Join(labels, ", "))
}

// MissingPostcodeError is a row-level failure raised when streets must
// have postcodes but none was supplied or guessable. Candidate
// postcodes from same-named streets are carried as a hint.
type MissingPostcodeError struct {
	Name  string
	Hints []string
}

func (e *MissingPostcodeError) Error() string {
	if len(e.Hints) == 0 {
		return fmt.Sprintf("street %q has no postcode and none could be guessed", e.Name)
	}
	return fmt.Sprintf("street %q has no postcode; candidates from existing records: %s",
		e.Name, strings.Join(e.Hints, ", "))
}

// Reconciler resolves (name, postcode) pairs to canonical streets
type Reconciler struct {
	streets          street.Repository
	mustHavePostcode bool
	logger           *slog.Logger
}

// New creates a street reconciler. mustHavePostcode turns an
// unresolvable postcode into a row-level error instead of creating a
// street with an empty postcode.
func New(streets street.Repository, mustHavePostcode bool, logger *slog.Logger) *Reconciler {
	return &Reconciler{streets: streets, mustHavePostcode: mustHavePostcode, logger: logger}
}

// Resolve maps a raw street name plus optional postcode to exactly one
// canonical street, creating it when the (name, postcode) pair is new.
// guessAllowed permits adopting a postcode from existing same-named
// streets when the source supplies none.
func (r *Reconciler) Resolve(ctx context.Context, name, postcode string, guessAllowed bool) (Resolution, error) {
	res := Resolution{Guess: GuessNotApplicable}
	name = strings.TrimSpace(name)

	var hints []string
	if postcode == "" && guessAllowed {
		matches, err := r.streets.FindByName(ctx, name)
		if err != nil {
			return res, fmt.Errorf("failed to look up streets for postcode guess: %w", err)
		}

		hints = distinctPostcodes(matches)
		switch len(hints) {
		case 0:
			// Nothing to guess from.
		case 1:
			postcode = hints[0]
			res.Guess = GuessAdopted
			r.logger.Debug("adopted postcode from existing records",
				"street", name, "postcode", postcode)
		default:
			res.Guess = GuessAmbiguous
			r.logger.Debug("postcode guess ambiguous",
				"street", name, "candidates", hints)
		}
	}

	if postcode == "" && r.mustHavePostcode {
		return res, &MissingPostcodeError{Name: name, Hints: hints}
	}

	existing, err := r.streets.FindByNameAndPostcode(ctx, name, postcode)
	if err != nil {
		return res, fmt.Errorf("failed to look up street: %w", err)
	}
	if existing != nil {
		res.Street = existing
		return res, nil
	}

	if postcode == "" {
		matches, err := r.streets.FindByName(ctx, name)
		if err != nil {
			return res, fmt.Errorf("failed to look up streets by name: %w", err)
		}
		if len(matches) > 1 {
			return res, &AmbiguousStreetError{Name: name, Candidates: matches}
		}
	}

	created, err := r.streets.Create(ctx, name, postcode, street.MakeSlug(name, postcode))
	if err != nil {
		return res, fmt.Errorf("failed to create street: %w", err)
	}

	res.Street = created
	res.Created = true
	return res, nil
}

func distinctPostcodes(streets []street.Street) []string {
	seen := make(map[string]bool)
	var postcodes []string
	for _, s := range streets {
		if s.PartialPostcode == "" || seen[s.PartialPostcode] {
			continue
		}
		seen[s.PartialPostcode] = true
		postcodes = append(postcodes, s.PartialPostcode)
	}
	return postcodes
}
