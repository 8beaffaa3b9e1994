package labreport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDocumentTables(t *testing.T) {
	doc := loadFixture(t)
	require.Len(t, doc.Tables(), 7)
	require.Len(t, doc.SummaryTables(), 3)
	require.Len(t, doc.DetailTables(), 2)
}

func TestParseLabApplicantNames(t *testing.T) {
	names := ParseLabApplicantNames(loadFixture(t))

	expected := map[string]LabApplicantNames{
		"青木研究室": {
			First:  []string{"2210001:電通 太郎(メディア)", "2210002:調布 花子(メディア)"},
			Second: []string{"2210005:府中 次郎(経営)"},
			Third:  []string{},
		},
		"加藤研究室": {
			First:  []string{"2210003:三鷹 三郎(メディア)", "2210004:国領 四郎(メディア)", "2210003:(メディア)"},
			Second: []string{"2210001:電通 太郎(メディア)"},
			Third:  []string{"2210004:国領 四郎", "2210006:布田 六郎(経営)"},
		},
		"佐藤研究室": {
			First:  []string{"2210005:府中 次郎(経営)", "名無し"},
			Second: []string{"2210002:調布 花子(メディア)"},
			Third:  []string{},
		},
	}
	if diff := cmp.Diff(expected, names); diff != "" {
		t.Fatalf("applicant names mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, expected["加藤研究室"].Third, names["加藤研究室"].Bucket(RankThird))
	require.Nil(t, names["加藤研究室"].Bucket(RankNone))
}

func TestFindStudentPreferences(t *testing.T) {
	doc := loadFixture(t)

	require.Equal(t, []StudentPreference{
		{LabName: "青木研究室", Preference: RankFirst},
		{LabName: "加藤研究室", Preference: RankSecond},
	}, FindStudentPreferences(doc, "2210001"))

	require.Equal(t, []StudentPreference{
		{LabName: "加藤研究室", Preference: RankFirst},
		{LabName: "加藤研究室", Preference: RankThird},
	}, FindStudentPreferences(doc, "2210004"))

	require.Empty(t, FindStudentPreferences(doc, "9999999"))
	require.Empty(t, FindStudentPreferences(doc, ""))
}

func TestParseStudentChoiceMap(t *testing.T) {
	choices := ParseStudentChoiceMap(loadFixture(t))

	expected := ChoiceMap{
		"2210001": {
			Name: "電通 太郎", Program: "メディア",
			First: []string{"青木研究室"}, Second: []string{"加藤研究室"}, Third: []string{},
		},
		"2210002": {
			Name: "調布 花子", Program: "メディア",
			First: []string{"青木研究室"}, Second: []string{"佐藤研究室"}, Third: []string{},
		},
		"2210003": {
			Name: "三鷹 三郎", Program: "メディア",
			First: []string{"加藤研究室"}, Second: []string{}, Third: []string{},
		},
		"2210004": {
			Name: "国領 四郎", Program: "メディア",
			First: []string{"加藤研究室"}, Second: []string{}, Third: []string{"加藤研究室"},
		},
		"2210005": {
			Name: "府中 次郎", Program: "経営",
			First: []string{"佐藤研究室"}, Second: []string{"青木研究室"}, Third: []string{},
		},
		"2210006": {
			Name: "布田 六郎", Program: "経営",
			First: []string{}, Second: []string{}, Third: []string{"加藤研究室"},
		},
	}
	if diff := cmp.Diff(expected, choices); diff != "" {
		t.Fatalf("choice map mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"2210001", "2210002", "2210003", "2210004", "2210005", "2210006"}, choices.IDs())
}

func TestParseStudentChoiceMapFillsMissingProgram(t *testing.T) {
	doc := mustParse(t, `<table>
<tr><th>研究室名</th><th>第1希望学生</th><th>第2希望学生</th><th>第3希望学生</th></tr>
<tr><td>A研究室</td><td>2210010:無所属</td><td></td><td></td></tr>
<tr><td>B研究室</td><td></td><td>2210010:別名(情報)</td><td></td></tr>
</table>`)

	choices := ParseStudentChoiceMap(doc)
	require.Equal(t, "無所属", choices["2210010"].Name)
	require.Equal(t, "情報", choices["2210010"].Program)
	require.Equal(t, []string{"A研究室"}, choices["2210010"].First)
	require.Equal(t, []string{"B研究室"}, choices["2210010"].Second)
}
