package labreport

import (
	"slices"
)

// IdentifyConfirmedFirstChoiceAssignments marks students as confirmed at
// their first rank when the lab they listed first is not over-subscribed.
// This is an optimistic capacity-only flag, students of over-subscribed labs
// keep whatever Confirmed value they had.
//
// The caller hands over the choice map for the duration of the call,
// entries are replaced rather than aliased.
func IdentifyConfirmedFirstChoiceAssignments(choices ChoiceMap, labs []LabInfo) {
	ids := choices.IDs()
	for _, lab := range labs {
		if lab.OverSubscribed() {
			continue
		}
		for _, id := range ids {
			record := choices[id]
			if !slices.Contains(record.First, lab.Name) {
				continue
			}
			record.Confirmed = RankFirst
			choices[id] = record
		}
	}
}
