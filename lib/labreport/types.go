package labreport

import (
	"slices"
)

// CapacityBreakdown is a composite count, a total decomposed into the
// cohorts the report lists in parentheses. The cohorts are not required to
// sum to the total.
type CapacityBreakdown struct {
	Total     int `json:"total"`
	ThirdYear int `json:"thirdYear"`
	Senior    int `json:"senior"`
	KCourse   int `json:"kCourse"`
}

type PreferenceBucket struct {
	First  CapacityBreakdown `json:"first"`
	Second CapacityBreakdown `json:"second"`
	Third  CapacityBreakdown `json:"third"`
}

type LabStatus string

const (
	StatusAvailable  LabStatus = "available"
	StatusAlmostFull LabStatus = "almost-full"
	StatusOver       LabStatus = "over"
	StatusCritical   LabStatus = "critical"
)

// LabInfo is one lab row of a summary table. Name is not unique, the same
// lab may be listed by several rows or tables.
type LabInfo struct {
	Name             string            `json:"name"`
	Email            string            `json:"email,omitempty"`
	ProgramName      string            `json:"programName,omitempty"`
	Capacity         CapacityBreakdown `json:"capacity"`
	Applicants       PreferenceBucket  `json:"applicants"`
	Totals           CapacityBreakdown `json:"totals"`
	FirstChoiceCount int               `json:"firstChoiceCount"`
	CompetitionRate  float64           `json:"competitionRate"`
	Status           LabStatus         `json:"status"`
}

// OverSubscribed reports whether more students listed the lab first than it
// has seats for.
func (l LabInfo) OverSubscribed() bool {
	return l.FirstChoiceCount > l.Capacity.Total
}

// Rank is a preference rank, RankNone means unknown or indeterminate.
type Rank int

const (
	RankNone Rank = iota
	RankFirst
	RankSecond
	RankThird
)

var Ranks = []Rank{RankFirst, RankSecond, RankThird}

type StudentPreference struct {
	LabName    string `json:"labName"`
	Preference Rank   `json:"preference"`
}

type StudentInfo struct {
	StudentID   string              `json:"studentId"`
	Name        string              `json:"name"`
	Program     string              `json:"program"`
	Preferences []StudentPreference `json:"preferences"`
}

// WithPreferences returns a copy of the student with preferences attached.
func (s StudentInfo) WithPreferences(preferences []StudentPreference) StudentInfo {
	s.Preferences = slices.Clone(preferences)
	return s
}

// ProgramSummary holds the whole cohort totals listed at the top of the report.
type ProgramSummary struct {
	Name       string `json:"name"`
	Registered int    `json:"registered"`
	Applicants int    `json:"applicants"`
	Capacity   int    `json:"capacity"`
}

type ProgramAggregate struct {
	Program    string `json:"program"`
	Capacity   int    `json:"capacity"`
	Applicants int    `json:"applicants"`
	Remaining  int    `json:"remaining"`
}

// LabApplicantNames holds the raw student entries listed for a lab, per rank.
type LabApplicantNames struct {
	First  []string `json:"first"`
	Second []string `json:"second"`
	Third  []string `json:"third"`
}

func (n *LabApplicantNames) bucket(rank Rank) *[]string {
	switch rank {
	case RankFirst:
		return &n.First
	case RankSecond:
		return &n.Second
	case RankThird:
		return &n.Third
	}
	return nil
}

// Bucket returns the entries listed at the given rank.
func (n LabApplicantNames) Bucket(rank Rank) []string {
	if b := n.bucket(rank); b != nil {
		return *b
	}
	return nil
}

// StudentChoiceSummary is everything the detail tables say about one student.
// Confirmed is RankNone while the assignment is indeterminate.
type StudentChoiceSummary struct {
	Name      string   `json:"name"`
	Program   string   `json:"program,omitempty"`
	First     []string `json:"first"`
	Second    []string `json:"second"`
	Third     []string `json:"third"`
	Confirmed Rank     `json:"confirmed,omitempty"`
}

func (s *StudentChoiceSummary) bucket(rank Rank) *[]string {
	switch rank {
	case RankFirst:
		return &s.First
	case RankSecond:
		return &s.Second
	case RankThird:
		return &s.Third
	}
	return nil
}

func (s StudentChoiceSummary) Bucket(rank Rank) []string {
	if b := s.bucket(rank); b != nil {
		return *b
	}
	return nil
}

// ChoiceMap maps a student id to the student's choices.
type ChoiceMap map[string]StudentChoiceSummary

// IDs returns the student ids in ascending order.
func (m ChoiceMap) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
