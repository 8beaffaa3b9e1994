package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"labcompass/lib/chrono"
	"labcompass/lib/labhistory"
	"labcompass/lib/labreport"
	"labcompass/services/labcompass"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var statusColors = map[labreport.LabStatus]text.Colors{
	labreport.StatusAvailable:  {text.FgGreen},
	labreport.StatusAlmostFull: {text.FgYellow},
	labreport.StatusOver:       {text.FgRed},
	labreport.StatusCritical:   {text.FgHiRed, text.Bold},
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func formatBreakdown(b labreport.CapacityBreakdown) string {
	if b.ThirdYear == 0 && b.Senior == 0 && b.KCourse == 0 {
		return fmt.Sprint(b.Total)
	}
	return fmt.Sprintf("%d (%d/%d/%d)", b.Total, b.ThirdYear, b.Senior, b.KCourse)
}

func formatDelta(n int) string {
	switch {
	case n > 0:
		return fmt.Sprintf("+%d", n)
	case n < 0:
		return fmt.Sprint(n)
	}
	return ""
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).In(chrono.Tokyo()).Format("2006-01-02 15:04")
}

func renderLabs(out io.Writer, labs []labreport.LabInfo, history *labhistory.HistoryState, color bool) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Lab", "Program", "Capacity", "1st", "2nd", "3rd", "Rate", "Status", "Δ 1st"})
	for _, lab := range labs {
		delta := ""
		if history != nil {
			delta = formatDelta(history.DiffMap[lab.Name].FirstChoiceTotal)
		}
		status := string(lab.Status)
		if color {
			status = statusColors[lab.Status].Sprint(status)
		}
		t.AppendRow(table.Row{
			lab.Name,
			lab.ProgramName,
			formatBreakdown(lab.Capacity),
			formatBreakdown(lab.Applicants.First),
			formatBreakdown(lab.Applicants.Second),
			formatBreakdown(lab.Applicants.Third),
			fmt.Sprintf("%.2f", lab.CompetitionRate),
			status,
			delta,
		})
	}
	t.Render()
}

func renderPrograms(out io.Writer, view labcompass.View) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Program", "Capacity", "1st choice", "Remaining"})
	for _, stat := range view.ProgramStats {
		t.AppendRow(table.Row{stat.Program, stat.Capacity, stat.Applicants, stat.Remaining})
	}
	if summary := view.ProgramSummary; summary != nil {
		t.AppendFooter(table.Row{summary.Name, summary.Capacity, summary.Applicants, fmt.Sprintf("%d registered", summary.Registered)})
	}
	t.Render()
}

func renderHistory(out io.Writer, key string, state *labhistory.HistoryState) {
	if state == nil {
		return
	}
	if state.PreviousTimestamp == nil {
		fmt.Fprintf(out, "%s: first snapshot recorded\n", key)
		return
	}
	fmt.Fprintf(
		out, "%s: %d labs changed since %s\n",
		key, state.ChangedLabs, formatTimestamp(*state.PreviousTimestamp),
	)
}

var rankNames = map[labreport.Rank]string{
	labreport.RankFirst:  "1st",
	labreport.RankSecond: "2nd",
	labreport.RankThird:  "3rd",
}

func renderStudent(out io.Writer, view labcompass.View, studentID string) bool {
	record, ok := labcompass.FindStudent(view, studentID)
	if !ok {
		return false
	}
	labMap := labreport.BuildLabMap(view.Labs)

	fmt.Fprintf(out, "%s %s (%s)\n", studentID, record.Name, record.Program)
	if record.Confirmed != labreport.RankNone {
		fmt.Fprintf(out, "confirmed at %s choice\n", rankNames[record.Confirmed])
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Rank", "Lab", "Capacity", "1st choice", "Status"})
	for _, rank := range labreport.Ranks {
		for _, name := range record.Bucket(rank) {
			lab, known := labMap[name]
			if !known {
				t.AppendRow(table.Row{rankNames[rank], name, "", "", ""})
				continue
			}
			t.AppendRow(table.Row{rankNames[rank], name, lab.Capacity.Total, lab.FirstChoiceCount, lab.Status})
		}
	}
	t.Render()
	return true
}

func renderLab(out io.Writer, view labcompass.View, lab labreport.LabInfo) {
	fmt.Fprintf(out, "%s", lab.Name)
	if lab.ProgramName != "" {
		fmt.Fprintf(out, " / %s", lab.ProgramName)
	}
	if lab.Email != "" {
		fmt.Fprintf(out, " <%s>", lab.Email)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(
		out, "capacity %s, first choice %d, rate %.2f, %s\n",
		formatBreakdown(lab.Capacity), lab.FirstChoiceCount, lab.CompetitionRate, lab.Status,
	)

	details, ok := view.Details[lab.Name]
	if !ok {
		return
	}
	t := newTable(out)
	t.AppendHeader(table.Row{"Rank", "Students"})
	for _, rank := range labreport.Ranks {
		t.AppendRow(table.Row{rankNames[rank], strings.Join(details.Bucket(rank), "\n")})
	}
	t.Render()
}
