package htmltable

import (
	"errors"
	"strings"
	"testing"
)

const samplePage = `
<html><body>
<table class="infobox">
  <tr><th>Fact</th><th>Value</th></tr>
  <tr><td>Founded</td><td>1957</td></tr>
</table>
<table class="wikitable sortable">
  <tbody>
    <tr><th>Symbol</th><th>Security</th><th>GICS Sector</th></tr>
    <tr><td><a href="/wiki/Apple">AAPL</a></td><td>Apple   Inc.</td><td>Information Technology</td></tr>
    <tr><td>MSFT</td><td>Microsoft</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseSelectsMatchingTable(t *testing.T) {
	table, err := Parse(strings.NewReader(samplePage), "Symbol")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantCols := []string{"Symbol", "Security", "GICS Sector"}
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("expected %d columns, got %v", len(wantCols), table.Columns)
	}
	for i, c := range wantCols {
		if table.Columns[i] != c {
			t.Errorf("column %d: expected %q, got %q", i, c, table.Columns[i])
		}
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestParseCellTextAndLinks(t *testing.T) {
	table, err := Parse(strings.NewReader(samplePage), "Symbol")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	row := table.Rows[0]
	if row["Symbol"] != "AAPL" {
		t.Errorf("expected link text extracted, got %q", row["Symbol"])
	}
	if row["Security"] != "Apple Inc." {
		t.Errorf("expected whitespace collapsed, got %q", row["Security"])
	}
}

func TestParseShortRowOmitsTrailingColumns(t *testing.T) {
	table, err := Parse(strings.NewReader(samplePage), "Symbol")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	row := table.Rows[1]
	if row["Symbol"] != "MSFT" {
		t.Errorf("expected MSFT, got %q", row["Symbol"])
	}
	if _, ok := row["GICS Sector"]; ok {
		t.Error("short row should omit the missing column, not fill it")
	}
}

func TestParseNoMatchingTable(t *testing.T) {
	_, err := Parse(strings.NewReader(samplePage), "Ticker")
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}

	_, err = Parse(strings.NewReader("<html><body><p>no tables</p></body></html>"), "Symbol")
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("expected ErrNoTable for table-free page, got %v", err)
	}
}

func TestParseExtraCellsDropped(t *testing.T) {
	page := `<table><tr><th>Symbol</th></tr><tr><td>A</td><td>extra</td></tr></table>`
	table, err := Parse(strings.NewReader(page), "Symbol")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0]["Symbol"] != "A" {
		t.Errorf("unexpected rows: %v", table.Rows)
	}
	if len(table.Rows[0]) != 1 {
		t.Errorf("cells beyond header width must be dropped, got %v", table.Rows[0])
	}
}
