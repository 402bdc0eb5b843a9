package collection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/binalerts/binalerts/internal/domain/street"
)

// Policy is the single point where a new scheduling fact is reconciled
// against prior state. Both the CSV and PDF import paths go through it.
type Policy struct {
	repo          Repository
	allowMultiple bool
}

// NewPolicy creates an upsert policy. When allowMultiple is false a new
// day replaces any existing days for the same street+type; when true,
// days for the same type can coexist and nothing is ever deleted.
func NewPolicy(repo Repository, allowMultiple bool) *Policy {
	return &Policy{repo: repo, allowMultiple: allowMultiple}
}

// Apply upserts one (street, type, day) fact and returns a
// human-readable description of what changed.
func (p *Policy) Apply(ctx context.Context, st *street.Street, typ *Type, day time.Weekday) (string, error) {
	var removed []time.Weekday

	if !p.allowMultiple {
		existing, err := p.repo.FindByStreetAndType(ctx, st.ID, typ.ID)
		if err != nil {
			return "", err
		}
		for _, c := range existing {
			if c.Day == day {
				continue
			}
			if err := p.repo.Delete(ctx, c.ID); err != nil {
				return "", err
			}
			removed = append(removed, c.Day)
		}
	}

	_, created, err := p.repo.Upsert(ctx, st.ID, typ.ID, day)
	if err != nil {
		return "", err
	}

	switch {
	case !created:
		return fmt.Sprintf("collection on %s remains unchanged", day), nil
	case len(removed) == 0:
		return fmt.Sprintf("added %s collection", day), nil
	case len(removed) == 1:
		return fmt.Sprintf("changed collection from %s to %s", removed[0], day), nil
	default:
		return fmt.Sprintf("replaced %s collections with one on %s", joinDays(removed), day), nil
	}
}

func joinDays(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
