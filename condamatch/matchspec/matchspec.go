package matchspec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anchore/condamatch/condamatch/version"
	"github.com/anchore/condamatch/internal/stringutil"
)

// TarballExtension is the conda package archive suffix. A spec ending in it
// is a verbatim filename and is never decomposed into name/version/build.
const TarballExtension = ".tar.bz2"

// matchKind enumerates the tier-specific predicates a spec can compile to.
type matchKind uint8

const (
	matchAny matchKind = iota
	matchVersion
	matchExact
	matchFull
)

type Options struct {
	// Normalize appends a trailing '*' to a bare exact version expression,
	// canonicalizing "numpy 1.7" to "numpy 1.7*" before compiling.
	Normalize bool
}

// MatchSpec is a compiled dependency requirement: a package name, an
// optional version constraint, and an optional build constraint, evaluated
// against many candidates.
type MatchSpec struct {
	Name     string
	Optional bool
	Target   string

	raw          string
	kind         matchKind
	strictness   int
	versionSpec  version.Spec
	exactVersion string
	exactBuild   string
	buildPattern *regexp.Regexp
}

// Parse compiles a spec of the form "<name> [version [build]] [(attr,...)]".
// Note that whitespace delineates the version and build expressions; callers
// holding raw constraints like "numpy>=1.2" must insert a space before the
// operator first (see condamatch.NormalizeSpec).
func Parse(raw string) (*MatchSpec, error) {
	return ParseWithOptions(raw, Options{})
}

func ParseWithOptions(raw string, opts Options) (*MatchSpec, error) {
	m := &MatchSpec{}

	spec, attrs, hasAttrs := strings.Cut(raw, "(")
	if hasAttrs {
		if err := m.parseAttributes(raw, attrs); err != nil {
			return nil, err
		}
	}

	spec = strings.TrimSpace(spec)
	m.raw = spec

	parts := []string{spec}
	if !stringutil.HasAnyOfSuffixes(spec, TarballExtension) {
		parts = strings.Fields(spec)
	}
	if len(parts) < 1 || len(parts) > 3 {
		return nil, version.NewMalformedSpecError(raw, "expected 1 to 3 whitespace separated tokens")
	}

	m.Name = parts[0]
	if len(parts) == 1 {
		m.kind = matchAny
		m.strictness = 1
		return m, nil
	}

	m.strictness = 2
	vspec, err := version.ParseSpec(parts[1])
	if err != nil {
		return nil, err
	}
	if vspec.IsExact() {
		if len(parts) > 2 && !strings.Contains(parts[2], "*") {
			// literal version + literal build: skip the general predicates
			// entirely and compare strings on match
			m.kind = matchExact
			m.strictness = 3
			m.exactVersion = parts[1]
			m.exactBuild = parts[2]
			return m, nil
		}
		if opts.Normalize && !strings.HasSuffix(parts[1], "*") {
			parts[1] += "*"
			vspec, err = version.ParseSpec(parts[1])
			if err != nil {
				return nil, err
			}
			m.raw = strings.Join(parts, " ")
		}
	}
	m.versionSpec = vspec

	if len(parts) == 2 {
		m.kind = matchVersion
		return m, nil
	}

	// the build expression is glob syntax over an opaque identifier
	replaced := strings.NewReplacer(".", `\.`, "*", ".*").Replace(parts[2])
	m.buildPattern, err = regexp.Compile(`^(?:` + replaced + `)$`)
	if err != nil {
		return nil, version.NewMalformedSpecError(raw, "invalid build pattern")
	}
	m.kind = matchFull
	return m, nil
}

func (m *MatchSpec) parseAttributes(raw, attrs string) error {
	attrs = strings.TrimSpace(attrs)
	if !strings.HasSuffix(attrs, ")") {
		return version.NewMalformedSpecError(raw, "unterminated attribute list")
	}
	for _, attr := range strings.Split(strings.TrimSuffix(attrs, ")"), ",") {
		switch {
		case attr == "optional":
			m.Optional = true
		case strings.HasPrefix(attr, "target="):
			m.Target = strings.TrimSpace(strings.Split(attr, "=")[1])
		default:
			return version.NewMalformedSpecError(raw, fmt.Sprintf("unknown attribute %q", attr))
		}
	}
	return nil
}

// Match reports whether the candidate satisfies this spec. A name mismatch
// short-circuits before any version or build predicate runs; predicate
// errors (a malformed candidate version) surface as errors, never as a
// failed match.
func (m *MatchSpec) Match(c Candidate) (bool, error) {
	if c.Name != m.Name {
		return false, nil
	}
	switch m.kind {
	case matchAny:
		return true, nil
	case matchVersion:
		return m.versionSpec.Match(c.Version)
	case matchExact:
		return c.Build == m.exactBuild && c.Version == m.exactVersion, nil
	case matchFull:
		if !m.buildPattern.MatchString(c.Build) {
			return false, nil
		}
		return m.versionSpec.Match(c.Version)
	}
	return false, fmt.Errorf("no matcher populated (kind=%d)", m.kind)
}

// Strictness ranks specificity: 1=name only, 2=name+version,
// 3=name+version+build. A resolver can prefer the strictest of several
// specs matching the same candidate.
func (m *MatchSpec) Strictness() int {
	return m.strictness
}

// IsExact indicates the literal version+build fast path is in use.
func (m *MatchSpec) IsExact() bool {
	return m.kind == matchExact
}

// IsSimple indicates the spec constrains the package name only.
func (m *MatchSpec) IsSimple() bool {
	return m.kind == matchAny
}

func (m *MatchSpec) String() string {
	if !m.Optional && m.Target == "" {
		return m.raw
	}
	attrs := make([]string, 0, 2)
	if m.Optional {
		attrs = append(attrs, "optional")
	}
	if m.Target != "" {
		attrs = append(attrs, "target="+m.Target)
	}
	return fmt.Sprintf("%s (%s)", m.raw, strings.Join(attrs, ","))
}
