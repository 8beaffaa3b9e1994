package labreport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBreakdown(t *testing.T) {
	cases := []struct {
		in     string
		expect CapacityBreakdown
	}{
		{in: "12(3,2,1)", expect: CapacityBreakdown{Total: 12, ThirdYear: 3, Senior: 2, KCourse: 1}},
		{in: " 5 ( 2 , 3 ) ", expect: CapacityBreakdown{Total: 5, ThirdYear: 2, Senior: 3}},
		{in: "3(2、1、0)", expect: CapacityBreakdown{Total: 3, ThirdYear: 2, Senior: 1}},
		{in: "7", expect: CapacityBreakdown{Total: 7}},
		{in: "7名", expect: CapacityBreakdown{Total: 7}},
		{in: "", expect: CapacityBreakdown{}},
		{in: "-", expect: CapacityBreakdown{}},
		{in: "なし", expect: CapacityBreakdown{}},
		{in: "4(x,1,y)", expect: CapacityBreakdown{Total: 4, Senior: 1}},
		{in: "9\n(4,\n5,0)", expect: CapacityBreakdown{Total: 9, ThirdYear: 4, Senior: 5}},
		{in: "99999999999999999999(1,2,3)", expect: CapacityBreakdown{ThirdYear: 1, Senior: 2, KCourse: 3}},
		{in: "99999999999999999999", expect: CapacityBreakdown{}},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, ParseBreakdown(test.in), test.in)
	}
}

func TestParseBreakdownCohortsNeedNotSum(t *testing.T) {
	require.Equal(
		t,
		CapacityBreakdown{Total: 10, ThirdYear: 1, Senior: 1, KCourse: 1},
		ParseBreakdown("10(1,1,1)"),
	)
}

func TestSumBreakdowns(t *testing.T) {
	sum := SumBreakdowns(
		CapacityBreakdown{Total: 6, ThirdYear: 5, Senior: 1},
		CapacityBreakdown{Total: 1, ThirdYear: 1},
		CapacityBreakdown{Total: 3, ThirdYear: 2, Senior: 1},
	)
	require.Equal(t, CapacityBreakdown{Total: 10, ThirdYear: 8, Senior: 2}, sum)
	require.Equal(t, CapacityBreakdown{}, SumBreakdowns())
}
