package version

import "strings"

type tokenKind uint8

const (
	alphaToken tokenKind = iota
	numericToken
	devToken  // sorts below every other token
	postToken // sorts above every other token
)

// token is a single run within a version component: an integer, a lowercase
// string, or one of the dev/post sentinels. Numeric runs keep their digits
// (leading zeros stripped) so arbitrarily large components never overflow.
type token struct {
	kind tokenKind
	str  string
}

// the padding value for missing tokens, so that "1.1" == "1.1.0"
var fillToken = token{kind: numericToken, str: "0"}

func newToken(run string) token {
	switch {
	case isDigits(run):
		return token{kind: numericToken, str: stripLeadingZeros(run)}
	case run == "post":
		return token{kind: postToken}
	case run == "dev":
		return token{kind: devToken}
	default:
		return token{kind: alphaToken, str: run}
	}
}

func compareTokens(a, b token) int {
	if a.kind == b.kind {
		switch a.kind {
		case numericToken:
			return compareNumericRuns(a.str, b.str)
		case alphaToken:
			return strings.Compare(a.str, b.str)
		default:
			// the sentinels are only equal to themselves
			return 0
		}
	}
	switch {
	case a.kind == devToken:
		return -1
	case b.kind == devToken:
		return 1
	case a.kind == postToken:
		return 1
	case b.kind == postToken:
		return -1
	case a.kind == alphaToken:
		// strings sort below integers
		return -1
	default:
		return 1
	}
}

// compareNumericRuns compares two leading-zero-stripped digit strings
// numerically: by length first, then lexicographically.
func compareNumericRuns(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func stripLeadingZeros(digits string) string {
	stripped := strings.TrimLeft(digits, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}
