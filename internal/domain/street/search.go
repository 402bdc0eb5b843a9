package street

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// RankByName orders candidate streets by fuzzy closeness to the query,
// best match first. Streets whose name does not fuzzy-match at all are
// dropped. The lookup site uses this on top of Repository.SearchByName
// so near-miss spellings ("ashurst rd") still find the street.
func RankByName(streets []Street, query string) []Street {
	names := make([]string, len(streets))
	byName := make(map[string][]Street, len(streets))
	for i, s := range streets {
		names[i] = s.Name
		byName[s.Name] = append(byName[s.Name], s)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	seen := make(map[string]bool, len(ranks))
	var ranked []Street
	for _, r := range ranks {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		ranked = append(ranked, byName[r.Target]...)
	}
	return ranked
}
