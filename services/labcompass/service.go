package labcompass

import (
	"context"
	"errors"
	"fmt"

	"labcompass/lib/assert"
	"labcompass/lib/labhistory"
	"labcompass/lib/labreport"
	"labcompass/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("services/labcompass")
var meter = otel.Meter("services/labcompass")

// ErrNoLabs is returned by Analyze for pages without any lab summary table,
// ex. the login page or a maintenance notice.
var ErrNoLabs = errors.New("no lab summary found in the document")

type Options struct {
	// StudentID selects the student whose preferences are resolved, it
	// defaults to the student named in the page header.
	StudentID string
	// SkipHistory analyzes the page without reading or writing snapshots.
	SkipHistory bool
}

// View is everything derived from one report page.
type View struct {
	RunID          string                                 `json:"runId"`
	Labs           []labreport.LabInfo                    `json:"labs"`
	RowMap         map[string][]*goquery.Selection        `json:"-"`
	Details        map[string]labreport.LabApplicantNames `json:"details"`
	Student        *labreport.StudentInfo                 `json:"student"`
	ProgramSummary *labreport.ProgramSummary              `json:"programSummary"`
	ProgramStats   []labreport.ProgramAggregate           `json:"programStats"`
	StudentChoices labreport.ChoiceMap                    `json:"studentChoices"`
	// History is the change of the whole page, ProgramHistory the change of
	// each program's labs. Both are empty when history was skipped.
	History        *labhistory.HistoryState           `json:"history,omitempty"`
	ProgramHistory map[string]labhistory.HistoryState `json:"programHistory,omitempty"`
}

type Service struct {
	history *labhistory.History
	tel     telemetry.API

	runCounter  metric.Int64Counter
	labsCounter metric.Int64Counter
	changedLabs metric.Int64Histogram
}

func NewService(history *labhistory.History, tel telemetry.API) (*Service, error) {
	assert.NotNil(history)
	assert.NotNil(tel)

	runCounter, err := meter.Int64Counter(
		"labcompass_runs_total",
		metric.WithDescription("The total amount of report pages analyzed."),
	)
	if err != nil {
		return nil, err
	}
	labsCounter, err := meter.Int64Counter(
		"labcompass_labs_total",
		metric.WithDescription("The total amount of lab rows parsed."),
	)
	if err != nil {
		return nil, err
	}
	changedLabs, err := meter.Int64Histogram(
		"labcompass_changed_labs",
		metric.WithDescription("The amount of labs whose first choice counts changed since the previous snapshot."),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		history:     history,
		tel:         tel,
		runCounter:  runCounter,
		labsCounter: labsCounter,
		changedLabs: changedLabs,
	}, nil
}

func (s *Service) resolveStudent(doc labreport.Document, opts Options, choices labreport.ChoiceMap) *labreport.StudentInfo {
	student := labreport.ParseStudentInfo(doc)
	if opts.StudentID != "" && (student == nil || student.StudentID != opts.StudentID) {
		record := choices[opts.StudentID]
		student = &labreport.StudentInfo{
			StudentID: opts.StudentID,
			Name:      record.Name,
			Program:   record.Program,
		}
	}
	if student == nil {
		return nil
	}
	resolved := student.WithPreferences(labreport.FindStudentPreferences(doc, student.StudentID))
	if resolved.Preferences == nil {
		resolved.Preferences = []labreport.StudentPreference{}
	}
	return &resolved
}

// labsByProgram groups labs by program in order of first appearance, labs
// without a program are left out.
func labsByProgram(labs []labreport.LabInfo) ([]string, map[string][]labreport.LabInfo) {
	var order []string
	groups := map[string][]labreport.LabInfo{}
	for _, lab := range labs {
		if lab.ProgramName == "" {
			continue
		}
		if _, ok := groups[lab.ProgramName]; !ok {
			order = append(order, lab.ProgramName)
		}
		groups[lab.ProgramName] = append(groups[lab.ProgramName], lab)
	}
	return order, groups
}

func (s *Service) record(ctx context.Context, view *View) {
	ctx, span := tracer.Start(ctx, "record")
	defer span.End()

	global := s.history.Record(ctx, labhistory.GlobalKey, view.Labs)
	view.History = &global
	s.changedLabs.Record(ctx, int64(global.ChangedLabs), metric.WithAttributes(
		attribute.String("key", labhistory.GlobalKey),
	))

	order, groups := labsByProgram(view.Labs)
	view.ProgramHistory = make(map[string]labhistory.HistoryState, len(order))
	for _, program := range order {
		state := s.history.Record(ctx, program, groups[program])
		view.ProgramHistory[program] = state
		s.changedLabs.Record(ctx, int64(state.ChangedLabs), metric.WithAttributes(
			attribute.String("key", program),
		))
	}
}

// Analyze runs every extractor over doc once and records the page in the
// snapshot history.
func (s *Service) Analyze(ctx context.Context, doc labreport.Document, opts Options) (View, error) {
	ctx, span := tracer.Start(ctx, "Analyze")
	defer span.End()

	runID, err := random.String(8)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return View{}, fmt.Errorf("generate run id: %w", err)
	}
	span.SetAttributes(attribute.String("run_id", runID))
	s.runCounter.Add(ctx, 1)

	labs := labreport.ParseLabSummaries(doc)
	if len(labs) == 0 {
		s.tel.ReportWarning("analyze.no-labs", telemetry.KV{Key: "run_id", Value: runID})
		span.SetStatus(codes.Error, ErrNoLabs.Error())
		return View{RunID: runID}, ErrNoLabs
	}
	s.labsCounter.Add(ctx, int64(len(labs)))

	choices := labreport.ParseStudentChoiceMap(doc)
	labreport.IdentifyConfirmedFirstChoiceAssignments(choices, labs)

	view := View{
		RunID:          runID,
		Labs:           labs,
		RowMap:         labreport.CollectSummaryRows(doc),
		Details:        labreport.ParseLabApplicantNames(doc),
		Student:        s.resolveStudent(doc, opts, choices),
		ProgramSummary: labreport.ParseProgramSummary(doc),
		ProgramStats:   labreport.AggregatePrograms(labs),
		StudentChoices: choices,
	}
	if !opts.SkipHistory {
		s.record(ctx, &view)
	}

	s.tel.ReportCount("analyze.labs", int64(len(view.Labs)))
	s.tel.ReportCount("analyze.students", int64(len(view.StudentChoices)))
	s.tel.ReportDebug(
		"analyze done",
		telemetry.KV{Key: "run_id", Value: runID},
		telemetry.KV{Key: "programs", Value: len(view.ProgramStats)},
	)
	return view, nil
}
