package labreport

import (
	"slices"
	"strings"
)

// detailRows calls fn for every well formed detail table row, in document
// order.
func detailRows(doc Document, fn func(labName string, row Row)) {
	for _, table := range doc.DetailTables() {
		for _, row := range table.Rows {
			if len(row.Cells) != detailCells {
				continue
			}
			labName := row.LabName()
			if labName == "" {
				continue
			}
			fn(labName, row)
		}
	}
}

// ParseLabApplicantNames collects the raw student entries listed under each
// lab per rank. A lab listed by several rows accumulates all of them.
func ParseLabApplicantNames(doc Document) map[string]LabApplicantNames {
	result := map[string]LabApplicantNames{}
	detailRows(doc, func(labName string, row Row) {
		entry, ok := result[labName]
		if !ok {
			entry = LabApplicantNames{First: []string{}, Second: []string{}, Third: []string{}}
		}
		for _, rank := range Ranks {
			bucket := entry.bucket(rank)
			*bucket = append(*bucket, SplitStudentEntries(row.Cells[rank])...)
		}
		result[labName] = entry
	})
	return result
}

// FindStudentPreferences lists every (lab, rank) cell whose text mentions
// studentID. Duplicates are kept.
func FindStudentPreferences(doc Document, studentID string) []StudentPreference {
	if studentID == "" {
		return nil
	}
	var matches []StudentPreference
	detailRows(doc, func(labName string, row Row) {
		for _, rank := range Ranks {
			if strings.Contains(row.CellText(int(rank)), studentID) {
				matches = append(matches, StudentPreference{
					LabName:    labName,
					Preference: rank,
				})
			}
		}
	})
	return matches
}

// ParseStudentChoiceMap builds the choices of every student with an id.
// Within a rank a lab is listed once, the same lab may appear under several
// ranks. The first non-empty name and program seen for a student are kept.
func ParseStudentChoiceMap(doc Document) ChoiceMap {
	choices := ChoiceMap{}
	detailRows(doc, func(labName string, row Row) {
		for _, rank := range Ranks {
			for _, raw := range SplitStudentEntries(row.Cells[rank]) {
				entry := ParseStudentEntry(raw)
				if entry.StudentID == "" {
					continue
				}

				record, ok := choices[entry.StudentID]
				if !ok {
					record = StudentChoiceSummary{
						Name:    entry.Name,
						Program: entry.Program,
						First:   []string{},
						Second:  []string{},
						Third:   []string{},
					}
				}
				bucket := record.bucket(rank)
				if !slices.Contains(*bucket, labName) {
					*bucket = append(*bucket, labName)
				}
				if record.Name == "" {
					record.Name = entry.Name
				}
				if record.Program == "" {
					record.Program = entry.Program
				}
				choices[entry.StudentID] = record
			}
		}
	})
	return choices
}
