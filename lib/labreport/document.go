package labreport

import (
	"fmt"
	"io"
	"os"
	"strings"

	"labcompass/lib/htmlutil"
	"labcompass/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var summaryHeaderKeywords = []string{"研究室名", "第1希望"}

const (
	detailHeaderKeyword = "第1希望学生"

	minSummaryCells = 5
	detailCells     = 4

	programWalkLimit = 10
)

// Document is a parsed report page.
type Document struct {
	doc *goquery.Document
}

func NewDocument(doc *goquery.Document) Document {
	return Document{doc: doc}
}

// NewDocumentFromReader parses utf-8 html from r.
func NewDocumentFromReader(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Document{}, err
	}
	return Document{doc: doc}, nil
}

func ParseString(markup string) (Document, error) {
	return NewDocumentFromReader(strings.NewReader(markup))
}

func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	doc, err := NewDocumentFromReader(f)
	if err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func (d Document) Selection() *goquery.Selection {
	if d.doc == nil {
		return &goquery.Selection{}
	}
	return d.doc.Selection
}

// Tables returns every table of the document in document order.
func (d Document) Tables() []Table {
	var tables []Table
	d.Selection().Find("table").Each(func(_ int, sel *goquery.Selection) {
		tables = append(tables, newTable(sel))
	})
	return tables
}

func (d Document) SummaryTables() []Table {
	var out []Table
	for _, t := range d.Tables() {
		if t.IsSummaryTable() {
			out = append(out, t)
		}
	}
	return out
}

func (d Document) DetailTables() []Table {
	var out []Table
	for _, t := range d.Tables() {
		if t.IsDetailTable() {
			out = append(out, t)
		}
	}
	return out
}

// Table is one header row of header cells followed by body rows of data
// cells. The header row is the first row of the table.
type Table struct {
	sel    *goquery.Selection
	Header []string
	Rows   []Row
}

type Row struct {
	Selection *goquery.Selection
	Cells     []*goquery.Selection
}

func newTable(sel *goquery.Selection) Table {
	t := Table{sel: sel}

	rows := sel.Find("tr")
	if rows.Length() == 0 {
		return t
	}
	rows.First().Find("th").Each(func(_ int, th *goquery.Selection) {
		t.Header = append(t.Header, strings.TrimSpace(th.Text()))
	})
	rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
		row := Row{Selection: tr}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row.Cells = append(row.Cells, td)
		})
		t.Rows = append(t.Rows, row)
	})
	return t
}

func (t Table) IsSummaryTable() bool {
	if len(t.Header) < minSummaryCells {
		return false
	}
	joined := strings.Join(t.Header, "")
	for _, keyword := range summaryHeaderKeywords {
		if !strings.Contains(joined, keyword) {
			return false
		}
	}
	return true
}

func (t Table) IsDetailTable() bool {
	if len(t.Header) != detailCells {
		return false
	}
	for _, h := range t.Header {
		if strings.Contains(h, detailHeaderKeyword) {
			return true
		}
	}
	return false
}

// ProgramName finds the label of the definition list the table is nested
// in. It walks up from the table's parent through previous siblings and
// parents, at most programWalkLimit steps, and stops at the first <dt>.
func (t Table) ProgramName() string {
	if t.sel == nil || len(t.sel.Nodes) == 0 {
		return ""
	}

	cursor := htmlutil.ParentElement(t.sel.Nodes[0])
	for hops := 0; cursor != nil && hops < programWalkLimit; hops++ {
		previous := htmlutil.PreviousElementSibling(cursor)
		if previous == nil {
			cursor = htmlutil.ParentElement(cursor)
			continue
		}
		if htmlutil.IsTag(previous, "dt") {
			return textutil.CollapseWhitespace(htmlutil.GetText(previous))
		}
		cursor = previous
	}
	return ""
}

// CellText returns the text content of cell i, or "" if the row is shorter.
func (r Row) CellText(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i].Text()
}

// LabName is the whitespace collapsed first line of the first cell.
func (r Row) LabName() string {
	return textutil.CollapseWhitespace(textutil.FirstLine(r.CellText(0)))
}
