package textutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseWhitespace(t *testing.T) {
	cases := []struct {
		in     string
		expect string
	}{
		{in: "", expect: ""},
		{in: "  青木　研究室  ", expect: "青木 研究室"},
		{in: "a\n\t b", expect: "a b"},
		{in: "　　", expect: ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, CollapseWhitespace(test.in), test.in)
	}
}

func TestLeadingInt(t *testing.T) {
	cases := []struct {
		in       string
		expect   int
		expectOk bool
	}{
		{in: "12", expect: 12, expectOk: true},
		{in: " 7名", expect: 7, expectOk: true},
		{in: "-3", expect: -3, expectOk: true},
		{in: "+4", expect: 4, expectOk: true},
		{in: "abc", expect: 0, expectOk: false},
		{in: "", expect: 0, expectOk: false},
		{in: "-", expect: 0, expectOk: false},
		{in: "9223372036854775807", expect: math.MaxInt64, expectOk: true},
		{in: "9223372036854775808", expect: 0, expectOk: false},
		{in: "99999999999999999999人", expect: 0, expectOk: false},
		{in: "-99999999999999999999", expect: 0, expectOk: false},
	}
	for _, test := range cases {
		n, ok := LeadingInt(test.in)
		require.Equal(t, test.expect, n, test.in)
		require.Equal(t, test.expectOk, ok, test.in)
	}
	require.Equal(t, 9, LeadingIntOr("x", 9))
}

func TestFirstLine(t *testing.T) {
	require.Equal(t, "青木研究室", FirstLine("青木研究室\naoki@example.jp"))
	require.Equal(t, "single", FirstLine("single"))
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"青木研究室", "Kato Lab", "Suzuki Lab"}

	best, similarity := ClosestMatch("kato  lab", candidates)
	require.Equal(t, "Kato Lab", best)
	require.Equal(t, 1.0, similarity)

	best, similarity = ClosestMatch("Suzki Lab", candidates)
	require.Equal(t, "Suzuki Lab", best)
	require.Greater(t, similarity, 0.8)

	best, similarity = ClosestMatch("anything", nil)
	require.Equal(t, "", best)
	require.Equal(t, 0.0, similarity)
}
