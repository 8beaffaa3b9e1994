package labreport

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UnknownProgram is the bucket for labs whose table has no program label.
const UnknownProgram = "プログラム不明"

// AggregatePrograms sums capacity and first choice applicants per program.
// The result is sorted by program name in Japanese collation order.
func AggregatePrograms(labs []LabInfo) []ProgramAggregate {
	index := map[string]int{}
	var out []ProgramAggregate
	for _, lab := range labs {
		program := lab.ProgramName
		if program == "" {
			program = UnknownProgram
		}
		i, ok := index[program]
		if !ok {
			i = len(out)
			index[program] = i
			out = append(out, ProgramAggregate{Program: program})
		}
		out[i].Capacity += lab.Capacity.Total
		out[i].Applicants += lab.FirstChoiceCount
	}

	for i := range out {
		out[i].Remaining = max(out[i].Capacity-out[i].Applicants, 0)
	}

	collator := collate.New(language.Japanese)
	slices.SortStableFunc(out, func(a, b ProgramAggregate) int {
		return collator.CompareString(a.Program, b.Program)
	})
	return out
}
