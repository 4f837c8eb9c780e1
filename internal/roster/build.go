package roster

import (
	"sort"
	"strings"

	"sp500watch/internal/models"
)

// naSentinels are cell values (after trimming, lower-cased) that mean
// "no data" in the source table and become null.
var naSentinels = map[string]bool{
	"":    true,
	"n/a": true,
	"na":  true,
	"—":   true,
	"–":   true,
}

// BuildRecord maps one raw table row through the resolved column mapping
// into a canonical company record. Missing and not-available cells become
// null, strings are trimmed, and the symbol is upper-cased. Rows are never
// rejected here, even with a null symbol; Finalize filters those.
func BuildRecord(mapping ColumnMapping, row map[string]string) models.Company {
	var c models.Company
	if sym := cellValue(mapping, row, FieldSymbol); sym != nil {
		c.Symbol = strings.ToUpper(*sym)
	}
	c.Name = cellValue(mapping, row, FieldName)
	c.Sector = cellValue(mapping, row, FieldSector)
	c.SubSector = cellValue(mapping, row, FieldSubSector)
	c.Headquarters = cellValue(mapping, row, FieldHeadquarters)
	c.DateAdded = cellValue(mapping, row, FieldDateAdded)
	return c
}

func cellValue(mapping ColumnMapping, row map[string]string, field string) *string {
	col, ok := mapping[field]
	if !ok {
		return nil
	}
	raw, ok := row[col]
	if !ok {
		return nil
	}
	v := strings.TrimSpace(raw)
	if naSentinels[strings.ToLower(v)] {
		return nil
	}
	return &v
}

// Finalize turns candidate records into the final record set: records with
// an empty symbol are dropped, the first record seen for each symbol wins,
// and the result is sorted ascending by symbol. Deterministic for identical
// input.
func Finalize(records []models.Company) []models.Company {
	seen := make(map[string]bool, len(records))
	uniq := make([]models.Company, 0, len(records))
	for _, r := range records {
		if r.Symbol == "" || seen[r.Symbol] {
			continue
		}
		seen[r.Symbol] = true
		uniq = append(uniq, r)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].Symbol < uniq[j].Symbol })
	return uniq
}
