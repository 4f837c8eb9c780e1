package roster

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical field names produced by the record builder.
const (
	FieldSymbol       = "symbol"
	FieldName         = "name"
	FieldSector       = "sector"
	FieldSubSector    = "sub_sector"
	FieldHeadquarters = "headquarters"
	FieldDateAdded    = "date_added"
)

// fieldCandidates maps each canonical field to its accepted source column
// names in priority order, after header normalization. Wikipedia has renamed
// these columns more than once, so each field carries every variant we have
// seen.
var fieldCandidates = []struct {
	field      string
	candidates []string
}{
	{FieldSymbol, []string{"symbol"}},
	{FieldName, []string{"security", "company", "name"}},
	{FieldSector, []string{"gics sector", "sector"}},
	{FieldSubSector, []string{"gics sub-industry", "gics sub industry", "sub-industry", "sub industry"}},
	{FieldHeadquarters, []string{"headquarters location", "headquarters"}},
	{FieldDateAdded, []string{"date first added", "date added"}},
}

// ColumnMapping maps a canonical field name to the source column that
// supplies it. A field with no accepted column present is absent from the
// map; its cells are always null downstream.
type ColumnMapping map[string]string

// NormalizeHeader canonicalizes a source column header: unicode
// compatibility normalization, both unicode hyphen variants to plain "-",
// whitespace runs collapsed to a single space, trimmed, lower-cased.
func NormalizeHeader(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "‑", "-")
	s = strings.ReplaceAll(s, "‐", "-")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// ResolveColumns resolves the source table's headers against the canonical
// schema. For each canonical field the first accepted candidate present in
// the headers wins. Pure and order-insensitive; an empty header list yields
// an all-absent mapping.
func ResolveColumns(headers []string) ColumnMapping {
	lookup := make(map[string]string, len(headers))
	for _, h := range headers {
		n := NormalizeHeader(h)
		// First occurrence wins when headers collide after normalization.
		if _, ok := lookup[n]; !ok {
			lookup[n] = h
		}
	}

	mapping := make(ColumnMapping, len(fieldCandidates))
	for _, fc := range fieldCandidates {
		for _, cand := range fc.candidates {
			if orig, ok := lookup[cand]; ok {
				mapping[fc.field] = orig
				break
			}
		}
	}
	return mapping
}
