package condamatch

import (
	"regexp"
	"strings"

	"github.com/anchore/condamatch/condamatch/logger"
	"github.com/anchore/condamatch/condamatch/matchspec"
	"github.com/anchore/condamatch/internal/log"
)

// runs of relational characters, which must be whitespace-separated from the
// package name before the spec grammar can tokenize them
var relationRunPattern = regexp.MustCompile(`[><=!]+`)

// NormalizeSpec inserts a space before any run of relational characters so
// that raw constraints like "numpy>=1.2" tokenize as "numpy >=1.2". The spec
// grammar splits on whitespace, so this must happen before parsing.
func NormalizeSpec(raw string) string {
	return relationRunPattern.ReplaceAllString(raw, " $0")
}

// Match is the one-shot convenience: tokenize and compile the given spec,
// then evaluate it against the candidate. Bare constraints like "numpy>=1.2"
// are split before the operator; a spec already containing whitespace is
// taken as tokenized and passed through untouched, since re-splitting would
// tear a constraint like "numpy >=1.7,<2" into a bogus build token.
func Match(spec string, candidate matchspec.Candidate) (bool, error) {
	if !strings.ContainsAny(spec, " \t") {
		spec = NormalizeSpec(spec)
	}
	compiled, err := matchspec.Parse(spec)
	if err != nil {
		return false, err
	}
	log.Debugf("compiled spec %q (strictness=%d)", compiled, compiled.Strictness())
	return compiled.Match(candidate)
}

// SetLogger sets the logger object used for all logging calls from this library.
func SetLogger(l logger.Logger) {
	log.Log = l
}
