package labreport

import (
	"strings"

	"labcompass/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	studentIDLabel   = "学籍番号"
	studentNameLabel = "氏名"
	programLabel     = "プログラム名"

	registeredLabel = "登録数"
	applicantsLabel = "配属希望人数"
	capacityLabel   = "総定員"

	// CohortName names the ProgramSummary of the whole cohort.
	CohortName = "I類全体"
)

func headerValue(text string) string {
	_, value, _ := strings.Cut(text, "：")
	value, _, _ = strings.Cut(value, "：")
	return strings.TrimSpace(value)
}

// ParseStudentInfo reads the logged in student from the right aligned
// headings of the page. It returns nil when the page carries no student id.
func ParseStudentInfo(doc Document) *StudentInfo {
	var info StudentInfo
	doc.Selection().Find(`h3[align="right"]`).Each(func(_ int, h3 *goquery.Selection) {
		text := textutil.CollapseWhitespace(h3.Text())
		switch {
		case strings.HasPrefix(text, studentIDLabel):
			info.StudentID = headerValue(text)
		case strings.HasPrefix(text, studentNameLabel):
			info.Name = headerValue(text)
		case strings.HasPrefix(text, programLabel):
			info.Program = headerValue(text)
		}
	})
	if info.StudentID == "" {
		return nil
	}
	info.Preferences = []StudentPreference{}
	return &info
}

// ParseProgramSummary reads the cohort totals from the first table of the
// page. It returns nil when none of the expected rows are present.
func ParseProgramSummary(doc Document) *ProgramSummary {
	table := doc.Selection().Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	summary := ProgramSummary{Name: CohortName}
	found := false
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())
		if label == "" {
			return
		}
		value := func() int {
			return textutil.LeadingIntOr(cells.Eq(1).Text(), 0)
		}
		if strings.Contains(label, registeredLabel) {
			summary.Registered = value()
			found = true
		}
		if strings.Contains(label, applicantsLabel) {
			summary.Applicants = value()
			found = true
		}
		if strings.Contains(label, capacityLabel) {
			summary.Capacity = value()
			found = true
		}
	})
	if !found {
		return nil
	}
	return &summary
}
