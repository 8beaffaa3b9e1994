package labreport

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// upper bounds (exclusive) of the first choice / capacity ratio per status
const (
	availableBelow  = 0.8
	almostFullBelow = 1.0
	overBelow       = 1.2
)

func ClassifyLabStatus(capacityTotal, firstChoiceCount int) LabStatus {
	if capacityTotal <= 0 {
		if firstChoiceCount > 0 {
			return StatusCritical
		}
		return StatusAvailable
	}

	ratio := float64(firstChoiceCount) / float64(capacityTotal)
	switch {
	case ratio < availableBelow:
		return StatusAvailable
	case ratio < almostFullBelow:
		return StatusAlmostFull
	case ratio < overBelow:
		return StatusOver
	}
	return StatusCritical
}

// CompetitionRate is firstChoiceCount / capacityTotal rounded to 2 decimals,
// 0 when there is no capacity.
func CompetitionRate(capacityTotal, firstChoiceCount int) float64 {
	if capacityTotal <= 0 {
		return 0
	}
	return math.Round(float64(firstChoiceCount)/float64(capacityTotal)*100) / 100
}

func parseLabRow(row Row, programName string) (LabInfo, bool) {
	if len(row.Cells) < minSummaryCells {
		return LabInfo{}, false
	}
	name := row.LabName()
	if name == "" {
		return LabInfo{}, false
	}

	capacity := ParseBreakdown(row.CellText(1))
	first := ParseBreakdown(row.CellText(2))
	second := ParseBreakdown(row.CellText(3))
	third := ParseBreakdown(row.CellText(4))
	firstChoiceCount := first.Total

	return LabInfo{
		Name:        name,
		Email:       strings.TrimSpace(row.CellText(5)),
		ProgramName: programName,
		Capacity:    capacity,
		Applicants: PreferenceBucket{
			First:  first,
			Second: second,
			Third:  third,
		},
		Totals:           SumBreakdowns(first, second, third),
		FirstChoiceCount: firstChoiceCount,
		CompetitionRate:  CompetitionRate(capacity.Total, firstChoiceCount),
		Status:           ClassifyLabStatus(capacity.Total, firstChoiceCount),
	}, true
}

// ParseLabSummaries returns one LabInfo per lab row of every summary table,
// in document order.
func ParseLabSummaries(doc Document) []LabInfo {
	var labs []LabInfo
	for _, table := range doc.SummaryTables() {
		programName := table.ProgramName()
		for _, row := range table.Rows {
			lab, ok := parseLabRow(row, programName)
			if !ok {
				continue
			}
			labs = append(labs, lab)
		}
	}
	return labs
}

// CollectSummaryRows maps each lab name to the summary table rows it was
// listed in, in document order.
func CollectSummaryRows(doc Document) map[string][]*goquery.Selection {
	rows := map[string][]*goquery.Selection{}
	for _, table := range doc.SummaryTables() {
		for _, row := range table.Rows {
			if len(row.Cells) < 2 {
				continue
			}
			name := row.LabName()
			if name == "" {
				continue
			}
			rows[name] = append(rows[name], row.Selection)
		}
	}
	return rows
}

// BuildLabMap indexes labs by name, later duplicates replace earlier ones.
func BuildLabMap(labs []LabInfo) map[string]LabInfo {
	out := make(map[string]LabInfo, len(labs))
	for _, lab := range labs {
		out[lab.Name] = lab
	}
	return out
}
