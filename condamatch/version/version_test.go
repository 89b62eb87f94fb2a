package version

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the documented ordering chain: versions within a group are equal, and each
// group orders strictly before the next
var orderedVersionGroups = [][]string{
	{"0.4", "0.4.0"},
	{"0.4.1.rc", "0.4.1.RC"},
	{"0.4.1"},
	{"0.5a1"},
	{"0.5b3"},
	{"0.5C1", "0.5c1"},
	{"0.5"},
	{"0.9.6"},
	{"0.960923"},
	{"1.0"},
	{"1.1dev1"},
	{"1.1a1"},
	{"1.1.0dev1", "1.1.dev1"},
	{"1.1.a1"},
	{"1.1.0rc1"},
	{"1.1.0", "1.1"},
	{"1.1.0post1", "1.1.post1"},
	{"1.1post1"},
	{"1996.07.12"},
	{"1!0.4.1"},
	{"1!3.1.1.6"},
	{"2!0.4.1"},
}

func mustParseOrder(t *testing.T, raw string) *Order {
	t.Helper()
	order, err := ParseOrder(raw)
	require.NoError(t, err)
	return order
}

func TestOrderChain(t *testing.T) {
	for _, group := range orderedVersionGroups {
		for _, other := range group[1:] {
			t.Run(fmt.Sprintf("%s==%s", group[0], other), func(t *testing.T) {
				a := mustParseOrder(t, group[0])
				b := mustParseOrder(t, other)
				assert.True(t, a.Equal(b), "expected %q == %q", group[0], other)
				assert.True(t, b.Equal(a), "expected %q == %q (reversed)", other, group[0])
			})
		}
	}

	for i, group := range orderedVersionGroups[:len(orderedVersionGroups)-1] {
		next := orderedVersionGroups[i+1]
		t.Run(fmt.Sprintf("%s<%s", group[0], next[0]), func(t *testing.T) {
			a := mustParseOrder(t, group[0])
			b := mustParseOrder(t, next[0])
			assert.True(t, a.LessThan(b), "expected %q < %q", group[0], next[0])
			assert.False(t, b.LessThan(a), "expected !(%q < %q)", next[0], group[0])
		})
	}
}

func TestOrderTotality(t *testing.T) {
	// exactly one of <, ==, > holds for every pair, and Compare is antisymmetric
	var versions []string
	for _, group := range orderedVersionGroups {
		versions = append(versions, group...)
	}

	for _, rawA := range versions {
		for _, rawB := range versions {
			a := mustParseOrder(t, rawA)
			b := mustParseOrder(t, rawB)

			forward := a.Compare(b)
			backward := b.Compare(a)
			assert.Equal(t, forward, -backward, "compare(%q,%q) is not antisymmetric", rawA, rawB)

			outcomes := 0
			if a.LessThan(b) {
				outcomes++
			}
			if a.Equal(b) {
				outcomes++
			}
			if b.LessThan(a) {
				outcomes++
			}
			assert.Equal(t, 1, outcomes, "expected exactly one ordering outcome for %q vs %q", rawA, rawB)
		}
	}
}

func TestOrderEpochDominance(t *testing.T) {
	tests := []struct {
		smaller string
		bigger  string
	}{
		{smaller: "3.1.1.6", bigger: "1!0.4.1"},
		{smaller: "1!0.4.1", bigger: "2!0.4.1"},
		{smaller: "1!9999", bigger: "2!0"},
		{smaller: "0.4.1", bigger: "1!0.4.1"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%s<%s", test.smaller, test.bigger), func(t *testing.T) {
			a := mustParseOrder(t, test.smaller)
			b := mustParseOrder(t, test.bigger)
			assert.True(t, a.LessThan(b))
		})
	}
}

func TestOrderComparisons(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		// component and token padding
		{a: "1.1", b: "1.1.0", expected: 0},
		{a: "1.2.3", b: "1.2", expected: 1},
		{a: "1.2.3", b: "1.3", expected: -1},
		{a: "1.10.1", b: "1.9", expected: 1},
		// case-insensitivity and string-below-integer
		{a: "1.2b1", b: "1.2B1", expected: 0},
		{a: "1.2b1", b: "1.2c1", expected: -1},
		{a: "1.0.1a", b: "1.0.1", expected: -1},
		// dev/post sentinels override the string rule
		{a: "1.0dev", b: "1.0a", expected: -1},
		{a: "1.0post", b: "1.0.1", expected: 1},
		{a: "1.0.dev1", b: "1.0.0dev1", expected: 0},
		// underscores and dashes are component separators like dots
		{a: "1.0_beta", b: "1.0.beta", expected: 0},
		{a: "1.0-beta", b: "1.0.beta", expected: 0},
		// local versions only break ties on the main version; a string local
		// token pads against integer 0 and so sorts below no local at all
		{a: "1.0+local", b: "1.0", expected: -1},
		{a: "1.0+2", b: "1.0", expected: 1},
		{a: "1.0+a", b: "1.0+b", expected: -1},
		{a: "1.0+zzz", b: "1.0.1", expected: -1},
		// numeric runs compare with arbitrary precision
		{a: "20250101000000000000001", b: "20250101000000000000002", expected: -1},
		{a: "1.09", b: "1.9", expected: 0},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%s~%s", test.a, test.b), func(t *testing.T) {
			a := mustParseOrder(t, test.a)
			b := mustParseOrder(t, test.b)
			results := []int{a.Compare(b), b.Compare(a)}
			if diff := deep.Equal(results, []int{test.expected, -test.expected}); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestOrderCanonicalizationIdempotence(t *testing.T) {
	tests := []string{
		"  1.2.3 ",
		"1.2G.Beta15.RC",
		"1!2.15.1_ALPHA",
		"1.0-beta",
		"1.1.0post1+fedora4",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			order := mustParseOrder(t, raw)
			reparsed := mustParseOrder(t, order.String())
			assert.True(t, order.Equal(reparsed))
			assert.Equal(t, order.String(), reparsed.String())
		})
	}
}

func TestParseOrderMalformed(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{name: "empty string", version: ""},
		{name: "only whitespace", version: "   "},
		{name: "invalid characters", version: "1.2$3"},
		{name: "dash and underscore together", version: "1.2-3_4"},
		{name: "duplicated epoch separator", version: "1!2!3"},
		{name: "non-integer epoch", version: "a!1.2"},
		{name: "empty epoch", version: "!1.2"},
		{name: "duplicated local separator", version: "1.2+3+4"},
		{name: "empty component", version: "1..2"},
		{name: "trailing underscore", version: "1.2_"},
		{name: "empty local component", version: "1.2+"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseOrder(test.version)
			var expected *MalformedVersionError
			require.ErrorAs(t, err, &expected)
		})
	}
}

func TestOrderStartsWith(t *testing.T) {
	tests := []struct {
		version  string
		prefix   string
		expected bool
	}{
		{version: "1.7.1", prefix: "1.7", expected: true},
		{version: "1.7", prefix: "1.7", expected: true},
		{version: "1.8.0", prefix: "1.7", expected: false},
		// a numeric final token requires an exact match
		{version: "1.70", prefix: "1.7", expected: false},
		{version: "2.7.10", prefix: "2.7.1", expected: false},
		// a string final token is a literal prefix test
		{version: "1.1.0a1", prefix: "1.1.a", expected: true},
		{version: "1.2.3", prefix: "1.2.3a", expected: false},
		{version: "1.1.0alpha1", prefix: "1.1.al", expected: true},
		// dev prefixes nothing but itself
		{version: "1.1.dev1", prefix: "1.1.dev", expected: true},
		{version: "1.1.developer", prefix: "1.1.dev", expected: false},
		// a prefix carrying a local part pins the main version
		{version: "1.0+fedora4", prefix: "1.0+fed", expected: true},
		{version: "1.0+fedora4", prefix: "1.0.0+fed", expected: true},
		{version: "1.0.1+fedora4", prefix: "1.0+fed", expected: false},
		{version: "1.0", prefix: "1.0+fed", expected: false},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%s~%s", test.version, test.prefix), func(t *testing.T) {
			v := mustParseOrder(t, test.version)
			p := mustParseOrder(t, test.prefix)
			assert.Equal(t, test.expected, v.StartsWith(p))
		})
	}
}

func TestOrderCacheReuse(t *testing.T) {
	cache.reset()
	defer cache.reset()

	first := mustParseOrder(t, "1.2.3")
	second := mustParseOrder(t, "1.2.3")
	assert.Same(t, first, second, "expected repeated parses to share a cached value")

	cache.reset()
	third := mustParseOrder(t, "1.2.3")
	assert.NotSame(t, first, third, "expected a fresh value after cache reset")
	assert.True(t, first.Equal(third))
}

func TestOrderCacheConcurrentPopulate(t *testing.T) {
	cache.reset()
	defer cache.reset()

	versions := []string{"1.0", "1.1", "1.2.3", "2!1.0+local", "1.1.0post1"}

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, raw := range versions {
				order, err := ParseOrder(raw)
				assert.NoError(t, err)
				assert.NotNil(t, order)
			}
		}()
	}
	wg.Wait()

	for _, raw := range versions {
		assert.Same(t, mustParseOrder(t, raw), mustParseOrder(t, raw))
	}
}
