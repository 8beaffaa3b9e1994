package labreport

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAggregatePrograms(t *testing.T) {
	labs := ParseLabSummaries(loadFixture(t))

	expected := []ProgramAggregate{
		{Program: UnknownProgram, Capacity: 0, Applicants: 2, Remaining: 0},
		{Program: "メディア情報学プログラム", Capacity: 9, Applicants: 11, Remaining: 0},
		{Program: "経営・社会情報学プログラム", Capacity: 10, Applicants: 4, Remaining: 6},
	}
	if diff := cmp.Diff(expected, AggregatePrograms(labs)); diff != "" {
		t.Fatalf("aggregate mismatch (-want +got):\n%s", diff)
	}

	reversed := slices.Clone(labs)
	slices.Reverse(reversed)
	if diff := cmp.Diff(expected, AggregatePrograms(reversed)); diff != "" {
		t.Fatalf("aggregate depends on input order (-want +got):\n%s", diff)
	}
}

func TestAggregateProgramsEmpty(t *testing.T) {
	if got := AggregatePrograms(nil); len(got) != 0 {
		t.Fatalf("expected no programs, got %v", got)
	}
}
