// Package htmltable extracts tabular data from HTML documents into a
// generic table abstraction: ordered column names plus rows mapping column
// name to cell text. A column absent from a row means the cell had no data.
package htmltable

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var ErrNoTable = errors.New("no matching table found")

// Row maps a column name to the raw cell text. Absent keys are NA cells.
type Row map[string]string

// Table is one extracted HTML table.
type Table struct {
	Columns []string
	Rows    []Row
}

// Parse extracts the first <table> in the document whose header row
// contains match as a substring of some header cell. Returns ErrNoTable
// when no table qualifies.
func Parse(r io.Reader, match string) (*Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	for _, tbl := range findTables(doc) {
		t := extractTable(tbl)
		if t == nil {
			continue
		}
		for _, col := range t.Columns {
			if strings.Contains(col, match) {
				return t, nil
			}
		}
	}
	return nil, ErrNoTable
}

func findTables(n *html.Node) []*html.Node {
	var tables []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return tables
}

// extractTable reads a table node into a Table. The first row supplies the
// column names; cells beyond the header width are dropped, and short rows
// simply omit the trailing columns. Returns nil for a table with no rows.
func extractTable(tbl *html.Node) *Table {
	var rows [][]string
	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, rowCells(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			// Nested tables are extracted separately by findTables.
			if c.Type == html.ElementNode && c.Data == "table" {
				continue
			}
			walkRows(c)
		}
	}
	walkRows(tbl)

	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}

	t := &Table{Columns: rows[0]}
	for _, cells := range rows[1:] {
		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
			cells = append(cells, cellText(c))
		}
	}
	return cells
}

// cellText collects the text content of a cell with whitespace runs
// collapsed to single spaces.
func cellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
