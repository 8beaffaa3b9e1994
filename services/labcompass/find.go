package labcompass

import (
	"labcompass/lib/labreport"
	"labcompass/lib/textutil"
)

// minLabSimilarity is the lowest Jaro-Winkler similarity accepted as a
// match for a lab name typed by hand.
const minLabSimilarity = 0.7

// FindLab resolves query to a lab of the view, an exact name wins over the
// closest fuzzy match. Labs listed more than once resolve to their last row.
func FindLab(view View, query string) (labreport.LabInfo, bool) {
	labMap := labreport.BuildLabMap(view.Labs)
	if lab, ok := labMap[query]; ok {
		return lab, true
	}

	names := make([]string, 0, len(view.Labs))
	for _, lab := range view.Labs {
		names = append(names, lab.Name)
	}
	best, similarity := textutil.ClosestMatch(query, names)
	if best == "" || similarity < minLabSimilarity {
		return labreport.LabInfo{}, false
	}
	return labMap[best], true
}

// FindStudent returns the choices of the student with the given id.
func FindStudent(view View, studentID string) (labreport.StudentChoiceSummary, bool) {
	record, ok := view.StudentChoices[studentID]
	return record, ok
}
