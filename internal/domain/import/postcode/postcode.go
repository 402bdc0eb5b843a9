// Package postcode validates partial postcodes: UK outward-code-like
// fragments such as "EN4", used only to disambiguate same-named streets.
package postcode

import "regexp"

// Valid tokens are one or more uppercase letters followed by one or
// more digits, nothing else. Callers are expected to pass
// already-uppercased tokens from source data; lowercase does not match.
var partialPattern = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// Parse returns the token unchanged and true when it is a valid partial
// postcode, or "" and false otherwise. A mismatch is not an error:
// callers decide whether it is fatal for their row.
func Parse(token string) (string, bool) {
	if !partialPattern.MatchString(token) {
		return "", false
	}
	return token, true
}
