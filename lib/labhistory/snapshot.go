package labhistory

import (
	"labcompass/lib/labreport"
)

// GlobalKey is the snapshot key of a whole report page, per program
// snapshots are keyed by the program name.
const GlobalKey = "__global__"

type LabSnapshotEntry struct {
	Name               string `json:"name"`
	FirstChoicePrimary int    `json:"firstChoicePrimary"`
	FirstChoiceTotal   int    `json:"firstChoiceTotal"`
}

// LabSnapshot is the persisted first choice counts of a page at a point in
// time. Timestamp is in unix milliseconds.
type LabSnapshot struct {
	Timestamp int64              `json:"timestamp"`
	Labs      []LabSnapshotEntry `json:"labs"`
}

// LabDiff is the signed change of a lab's first choice counts.
type LabDiff struct {
	FirstChoicePrimary int `json:"firstChoicePrimary"`
	FirstChoiceTotal   int `json:"firstChoiceTotal"`
}

func (d LabDiff) IsZero() bool {
	return d.FirstChoicePrimary == 0 && d.FirstChoiceTotal == 0
}

// HistoryState describes how a page changed since the previous snapshot of
// its key. PreviousTimestamp is nil when there was no previous snapshot.
type HistoryState struct {
	DiffMap           map[string]LabDiff `json:"diffMap"`
	PreviousTimestamp *int64             `json:"previousTimestamp"`
	ChangedLabs       int                `json:"changedLabs"`
}

func snapshotEntry(lab labreport.LabInfo) LabSnapshotEntry {
	return LabSnapshotEntry{
		Name:               lab.Name,
		FirstChoicePrimary: lab.Applicants.First.ThirdYear,
		FirstChoiceTotal:   lab.Applicants.First.Total,
	}
}

// ComputeDiff compares current against previous lab by lab. Labs missing
// from previous are compared against zero, labs that only exist in previous
// are ignored. When previous lists a name twice the later entry is used.
// Without a previous snapshot there is nothing to compare and the diff is
// empty.
func ComputeDiff(previous *LabSnapshot, current LabSnapshot) HistoryState {
	state := HistoryState{DiffMap: map[string]LabDiff{}}
	if previous == nil {
		return state
	}

	baseline := make(map[string]LabSnapshotEntry, len(previous.Labs))
	for _, lab := range previous.Labs {
		baseline[lab.Name] = lab
	}
	for _, lab := range current.Labs {
		before := baseline[lab.Name]
		diff := LabDiff{
			FirstChoicePrimary: lab.FirstChoicePrimary - before.FirstChoicePrimary,
			FirstChoiceTotal:   lab.FirstChoiceTotal - before.FirstChoiceTotal,
		}
		if diff.IsZero() {
			continue
		}
		state.DiffMap[lab.Name] = diff
	}

	timestamp := previous.Timestamp
	state.PreviousTimestamp = &timestamp
	state.ChangedLabs = len(state.DiffMap)
	return state
}
