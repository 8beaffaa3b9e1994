package labreport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func labWith(name string, capacity, first int) LabInfo {
	return LabInfo{
		Name:             name,
		Capacity:         CapacityBreakdown{Total: capacity},
		FirstChoiceCount: first,
	}
}

func TestIdentifyConfirmedAtCapacity(t *testing.T) {
	choices := ChoiceMap{
		"2210001": {Name: "A", First: []string{"X研究室"}},
		"2210002": {Name: "B", First: []string{"Y研究室"}},
		"2210003": {Name: "C", Second: []string{"X研究室"}},
	}
	IdentifyConfirmedFirstChoiceAssignments(choices, []LabInfo{
		labWith("X研究室", 5, 5),
		labWith("Y研究室", 5, 6),
	})

	require.Equal(t, RankFirst, choices["2210001"].Confirmed)
	require.Equal(t, RankNone, choices["2210002"].Confirmed)
	require.Equal(t, RankNone, choices["2210003"].Confirmed)
}

func TestIdentifyConfirmedFixture(t *testing.T) {
	doc := loadFixture(t)
	choices := ParseStudentChoiceMap(doc)
	IdentifyConfirmedFirstChoiceAssignments(choices, ParseLabSummaries(doc))

	confirmed := map[string]Rank{}
	for id, record := range choices {
		confirmed[id] = record.Confirmed
	}
	require.Equal(t, map[string]Rank{
		"2210001": RankFirst,
		"2210002": RankFirst,
		"2210003": RankNone,
		"2210004": RankNone,
		"2210005": RankFirst,
		"2210006": RankNone,
	}, confirmed)
}

func TestIdentifyConfirmedEmpty(t *testing.T) {
	choices := ChoiceMap{}
	IdentifyConfirmedFirstChoiceAssignments(choices, nil)
	require.Empty(t, choices)
}
