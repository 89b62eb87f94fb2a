package version

import (
	"regexp"
	"strings"
)

var (
	// the full set of characters a version string may contain after normalization
	versionCharsetPattern = regexp.MustCompile(`^[*.+!_0-9a-z]+$`)
	// splits a version component into maximal runs of digits, asterisks, or anything else
	versionRunPattern = regexp.MustCompile(`[0-9]+|[*]+|[^0-9*]+`)
)

// Order is the parsed, canonical form of a conda version string, defining a
// strict total order over all valid version strings.
//
// A version string is split into an optional integer epoch (before '!'), the
// main version, and an optional local version (after '+'). The main and local
// parts are split into components at '.' and '_', and each component into
// runs of numerals and non-numerals. Comparison is case-insensitive and
// lexicographic over the component sequences, with these token rules:
//
//   - integers compare numerically
//   - strings compare lexicographically, and sort below integers
//   - 'dev' sorts below every other token, 'post' above every other token
//   - missing tokens are treated as integer 0, so "1.1" == "1.1.0"
//   - a component starting with a letter gets a leading 0 inserted, keeping
//     numbers and strings in phase: "1.1.a1" orders the same as "1.1.0a1"
//
// The epoch dominates the main version, which dominates the local version.
type Order struct {
	raw     string
	version [][]token // the epoch component followed by the main version components
	local   [][]token
}

// ParseOrder returns the parsed form of the given version string, consulting
// (and populating) the process-wide cache. Resolution compares the same raw
// strings many times over, and parsing is pure, so cached values are shared.
func ParseOrder(raw string) (*Order, error) {
	if order := cache.get(raw); order != nil {
		return order, nil
	}
	order, err := newOrder(raw)
	if err != nil {
		return nil, err
	}
	return cache.add(raw, order), nil
}

func newOrder(raw string) (*Order, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return nil, newMalformedVersionError(raw, "empty version string")
	}
	if !versionCharsetPattern.MatchString(normalized) {
		// dashes are tolerated as underscore synonyms, as long as no underscores are present as well
		if strings.Contains(normalized, "-") && !strings.Contains(normalized, "_") {
			normalized = strings.ReplaceAll(normalized, "-", "_")
		}
		if !versionCharsetPattern.MatchString(normalized) {
			return nil, newMalformedVersionError(raw, "invalid character(s)")
		}
	}

	epoch := "0"
	rest := normalized
	switch parts := strings.Split(normalized, "!"); len(parts) {
	case 1:
		// no epoch given
	case 2:
		if !isDigits(parts[0]) {
			return nil, newMalformedVersionError(raw, "epoch must be an integer")
		}
		epoch = parts[0]
		rest = parts[1]
	default:
		return nil, newMalformedVersionError(raw, "duplicated epoch separator '!'")
	}

	localPart := ""
	hasLocal := false
	switch parts := strings.Split(rest, "+"); len(parts) {
	case 1:
		rest = parts[0]
	case 2:
		rest = parts[0]
		localPart = parts[1]
		hasLocal = true
	default:
		return nil, newMalformedVersionError(raw, "duplicated local version separator '+'")
	}

	// the epoch takes part in comparison as the leading component
	version, err := parseComponents(raw, append([]string{epoch}, splitComponents(rest)...))
	if err != nil {
		return nil, err
	}

	var local [][]token
	if hasLocal {
		local, err = parseComponents(raw, splitComponents(localPart))
		if err != nil {
			return nil, err
		}
	}

	return &Order{
		raw:     normalized,
		version: version,
		local:   local,
	}, nil
}

func splitComponents(part string) []string {
	return strings.Split(strings.ReplaceAll(part, "_", "."), ".")
}

func parseComponents(raw string, components []string) ([][]token, error) {
	series := make([][]token, 0, len(components))
	for _, component := range components {
		runs := versionRunPattern.FindAllString(component, -1)
		if len(runs) == 0 {
			return nil, newMalformedVersionError(raw, "empty version component")
		}
		tokens := make([]token, 0, len(runs)+1)
		if !isDigit(component[0]) {
			// components start with a number to keep numbers and strings in phase
			tokens = append(tokens, fillToken)
		}
		for _, run := range runs {
			tokens = append(tokens, newToken(run))
		}
		series = append(series, tokens)
	}
	return series, nil
}

// String returns the normalized form of the original version string.
func (v *Order) String() string {
	return v.raw
}

// Compare returns -1, 0, or 1 if this version orders before, the same as, or
// after the other version. The main version sequences decide first; the local
// version sequences are only consulted on equality.
func (v *Order) Compare(other *Order) int {
	if result := compareSeries(v.version, other.version); result != 0 {
		return result
	}
	return compareSeries(v.local, other.local)
}

func (v *Order) Equal(other *Order) bool {
	return v.Compare(other) == 0
}

func (v *Order) LessThan(other *Order) bool {
	return v.Compare(other) < 0
}

// StartsWith tests whether this version matches the other version up to the
// other's last token, implementing trailing-wildcard constraints ("1.1*").
// If the other version carries a local part, the main versions must be fully
// equal and the prefix test applies to the local sequences instead.
func (v *Order) StartsWith(other *Order) bool {
	t1, t2 := v.version, other.version
	if len(other.local) > 0 {
		if compareSeries(v.version, other.version) != 0 {
			return false
		}
		t1, t2 = v.local, other.local
	}
	if len(t2) == 0 {
		return true
	}

	// all components before the last must match exactly
	last := len(t2) - 1
	if compareSeries(clampSeries(t1, last), t2[:last]) != 0 {
		return false
	}
	var c1 []token
	if len(t1) > last {
		c1 = t1[last]
	}
	c2 := t2[last]

	// within the last component, all runs before the last must match exactly
	lastRun := len(c2) - 1
	if compareComponents(clampComponent(c1, lastRun), c2[:lastRun]) != 0 {
		return false
	}
	have := fillToken
	if len(c1) > lastRun {
		have = c1[lastRun]
	}
	want := c2[lastRun]

	switch want.kind {
	case alphaToken:
		return have.kind == alphaToken && strings.HasPrefix(have.str, want.str)
	case devToken:
		// "dev" prefixes nothing but itself
		return have.kind == devToken
	default:
		// numeric and post tokens require an exact final match
		return compareTokens(have, want) == 0
	}
}

func compareSeries(a, b [][]token) int {
	limit := len(a)
	if len(b) > limit {
		limit = len(b)
	}
	for i := 0; i < limit; i++ {
		// a missing component pads out as the empty component
		var ca, cb []token
		if i < len(a) {
			ca = a[i]
		}
		if i < len(b) {
			cb = b[i]
		}
		if result := compareComponents(ca, cb); result != 0 {
			return result
		}
	}
	return 0
}

func compareComponents(a, b []token) int {
	limit := len(a)
	if len(b) > limit {
		limit = len(b)
	}
	for i := 0; i < limit; i++ {
		// a missing token pads out as integer 0
		ta, tb := fillToken, fillToken
		if i < len(a) {
			ta = a[i]
		}
		if i < len(b) {
			tb = b[i]
		}
		if result := compareTokens(ta, tb); result != 0 {
			return result
		}
	}
	return 0
}

func clampSeries(series [][]token, limit int) [][]token {
	if len(series) < limit {
		return series
	}
	return series[:limit]
}

func clampComponent(component []token, limit int) []token {
	if len(component) < limit {
		return component
	}
	return component[:limit]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if !isDigit(value[i]) {
			return false
		}
	}
	return true
}
