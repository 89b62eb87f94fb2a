package version

import (
	"regexp"
	"strings"

	"github.com/anchore/condamatch/internal/stringutil"
)

var (
	// a ^...$ delimited regex segment at the head of a constraint expression
	regexSegmentPattern = regexp.MustCompile(`^\^\S+?\$`)
	// a relational operator immediately followed by exactly one version token;
	// rejects "<= 1.2" (space after operator), "<>1.2" (unknown operator),
	// and "<=!1.2" (nonsensical operator)
	versionRelationPattern = regexp.MustCompile(`^(==|!=|<=|>=|<|>)([^\s<>=!]\S*)$`)
)

// specKind enumerates the matcher codepaths a constraint expression can
// compile to. Every Spec maps to exactly one kind for its lifetime.
type specKind uint8

const (
	anySpec specKind = iota
	exactSpec
	regexSpec
	relationalSpec
	prefixSpec
	wildcardSpec
	allSpec
	anyOfSpec
)

// Spec is a compiled version constraint: a tagged matcher over a version
// string. Leaf specs carry their operands (an operator and parsed version, a
// compiled pattern, or a literal); combinator specs carry child specs.
type Spec struct {
	kind     specKind
	raw      string
	op       Operator
	order    *Order
	pattern  *regexp.Regexp
	operands []Spec
}

// ParseSpec compiles a constraint expression. The grammar cases are tried in
// strict precedence order: regex segment, or-expression, and-expression,
// relational, match-any, interior wildcard, trailing wildcard (prefix match),
// and finally exact string equality.
func ParseSpec(expr string) (Spec, error) {
	if segment := regexSegmentPattern.FindString(expr); segment != "" {
		if len(expr) == len(segment) {
			pattern, err := regexp.Compile(expr)
			if err != nil {
				return Spec{}, NewMalformedSpecError(expr, "invalid regex")
			}
			return Spec{kind: regexSpec, raw: expr, pattern: pattern}, nil
		}

		// the regex segment is the first operand of a boolean combination
		first, err := ParseSpec(segment)
		if err != nil {
			return Spec{}, err
		}
		rest, err := ParseSpec(expr[len(segment)+1:])
		if err != nil {
			return Spec{}, err
		}
		switch expr[len(segment)] {
		case '|':
			return AnyOf(first, rest), nil
		case ',':
			return All(first, rest), nil
		default:
			return Spec{}, NewMalformedSpecError(expr, "invalid separator after regex segment")
		}
	}
	if strings.HasPrefix(expr, "^") {
		return Spec{}, NewMalformedSpecError(expr, "unterminated regex segment")
	}

	if strings.Contains(expr, "|") {
		return parseCombination(expr, "|")
	}
	if strings.Contains(expr, ",") {
		return parseCombination(expr, ",")
	}

	if stringutil.HasAnyOfPrefixes(expr, "=", "<", ">", "!") {
		fields := versionRelationPattern.FindStringSubmatch(expr)
		if fields == nil {
			return Spec{}, NewMalformedSpecError(expr, "invalid version relation")
		}
		op, err := ParseOperator(fields[1])
		if err != nil {
			return Spec{}, NewMalformedSpecError(expr, err.Error())
		}
		order, err := ParseOrder(fields[2])
		if err != nil {
			return Spec{}, err
		}
		return Spec{kind: relationalSpec, raw: expr, op: op, order: order}, nil
	}

	if expr == "*" {
		return Spec{kind: anySpec, raw: expr}, nil
	}

	if strings.Contains(strings.TrimRight(expr, "*"), "*") {
		replaced := strings.NewReplacer(".", `\.`, "+", `\+`, "*", ".*").Replace(expr)
		pattern, err := regexp.Compile(`^(?:` + replaced + `)$`)
		if err != nil {
			return Spec{}, NewMalformedSpecError(expr, "invalid wildcard pattern")
		}
		return Spec{kind: wildcardSpec, raw: expr, pattern: pattern}, nil
	}

	if strings.HasSuffix(expr, "*") {
		order, err := ParseOrder(strings.TrimRight(strings.TrimRight(expr, "*"), "."))
		if err != nil {
			return Spec{}, err
		}
		return Spec{kind: prefixSpec, raw: expr, order: order}, nil
	}

	return Spec{kind: exactSpec, raw: expr}, nil
}

func parseCombination(expr, separator string) (Spec, error) {
	parts := strings.Split(expr, separator)
	operands := make([]Spec, 0, len(parts))
	for _, part := range parts {
		operand, err := ParseSpec(part)
		if err != nil {
			return Spec{}, err
		}
		operands = append(operands, operand)
	}
	if separator == "|" {
		return AnyOf(operands...), nil
	}
	return All(operands...), nil
}

// All combines already-compiled specs into a conjunction.
func All(specs ...Spec) Spec {
	return Spec{kind: allSpec, operands: specs}
}

// AnyOf combines already-compiled specs into a disjunction.
func AnyOf(specs ...Spec) Spec {
	return Spec{kind: anyOfSpec, operands: specs}
}

// Match reports whether the given version string satisfies this spec.
// Relational and prefix specs must parse the candidate, so a malformed
// candidate version surfaces as an error rather than a failed match.
func (s Spec) Match(ver string) (bool, error) {
	switch s.kind {
	case anySpec:
		return true, nil
	case exactSpec:
		return s.raw == ver, nil
	case regexSpec, wildcardSpec:
		return s.pattern.MatchString(ver), nil
	case relationalSpec:
		order, err := ParseOrder(ver)
		if err != nil {
			return false, err
		}
		return s.op.satisfied(order.Compare(s.order)), nil
	case prefixSpec:
		order, err := ParseOrder(ver)
		if err != nil {
			return false, err
		}
		return order.StartsWith(s.order), nil
	case allSpec:
		for _, operand := range s.operands {
			satisfied, err := operand.Match(ver)
			if err != nil {
				return false, err
			}
			if !satisfied {
				return false, nil
			}
		}
		return true, nil
	case anyOfSpec:
		for _, operand := range s.operands {
			satisfied, err := operand.Match(ver)
			if err != nil {
				return false, err
			}
			if satisfied {
				return true, nil
			}
		}
		return false, nil
	}
	return false, NewMalformedSpecError(s.raw, "no matcher populated")
}

// IsExact indicates the spec is a bare version literal matched by string equality.
func (s Spec) IsExact() bool {
	return s.kind == exactSpec
}

// String reconstructs an equivalent constraint expression. Conjunction binds
// tighter than disjunction in the textual grammar, so a disjunction nested
// inside a conjunction is parenthesized.
func (s Spec) String() string {
	return s.render(false)
}

func (s Spec) render(insideAll bool) string {
	switch s.kind {
	case allSpec:
		parts := make([]string, len(s.operands))
		for i, operand := range s.operands {
			parts[i] = operand.render(true)
		}
		return strings.Join(parts, ",")
	case anyOfSpec:
		parts := make([]string, len(s.operands))
		for i, operand := range s.operands {
			parts[i] = operand.render(false)
		}
		joined := strings.Join(parts, "|")
		if insideAll {
			return "(" + joined + ")"
		}
		return joined
	default:
		return s.raw
	}
}
