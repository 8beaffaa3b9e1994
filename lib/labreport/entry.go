package labreport

import (
	"regexp"
	"strings"

	"labcompass/lib/htmlutil"
	"labcompass/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	studentIDPattern   = regexp.MustCompile(`\d{6,}`)
	programPattern     = regexp.MustCompile(`\(([^)]+)\)`)
	parenthesesPattern = regexp.MustCompile(`\([^)]*\)`)
)

// StudentEntry is one decoded "id:name(program)" entry of a detail table
// cell. StudentID and Program are empty when the entry does not carry them.
type StudentEntry struct {
	StudentID string
	Name      string
	Program   string
}

func ParseStudentEntry(entry string) StudentEntry {
	segments := strings.Split(entry, ":")
	firstSegment := strings.TrimSpace(segments[0])

	studentID := studentIDPattern.FindString(firstSegment)
	rest := segments
	if studentID != "" {
		rest = segments[1:]
	}
	namePart := strings.TrimSpace(strings.Join(rest, ":"))
	if namePart == "" {
		namePart = firstSegment
	}

	program := ""
	if match := programPattern.FindStringSubmatch(namePart); match != nil {
		program = strings.TrimSpace(match[1])
	}
	name := strings.TrimSpace(parenthesesPattern.ReplaceAllString(namePart, ""))
	if name == "" {
		name = namePart
	}

	return StudentEntry{
		StudentID: studentID,
		Name:      name,
		Program:   program,
	}
}

// SplitStudentEntries splits a cell into its entries, one per line break.
func SplitStudentEntries(cell *goquery.Selection) []string {
	var entries []string
	for _, piece := range htmlutil.SplitLines(htmlutil.InnerHTML(cell)) {
		piece = textutil.CollapseWhitespace(piece)
		if piece == "" {
			continue
		}
		entries = append(entries, piece)
	}
	return entries
}
