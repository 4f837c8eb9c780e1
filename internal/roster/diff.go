package roster

import (
	"sort"
	"time"

	"sp500watch/internal/models"
)

// attrFields are the non-key fields compared during reconciliation, with
// accessors into the fixed record shape.
var attrFields = []struct {
	name string
	get  func(models.Company) *string
}{
	{FieldName, func(c models.Company) *string { return c.Name }},
	{FieldSector, func(c models.Company) *string { return c.Sector }},
	{FieldSubSector, func(c models.Company) *string { return c.SubSector }},
	{FieldHeadquarters, func(c models.Company) *string { return c.Headquarters }},
	{FieldDateAdded, func(c models.Company) *string { return c.DateAdded }},
}

// Diff reconciles an old record set against a new one, both keyed uniquely
// by symbol. It returns the full change event for the audit log and a
// compact symbol-only summary for the caller. Added, removed and updated
// are pairwise disjoint and each list is sorted ascending; updated entries
// carry only fields whose values actually differ.
func Diff(oldSet, newSet []models.Company) (models.ChangeEvent, models.DiffSummary) {
	oldMap := make(map[string]models.Company, len(oldSet))
	for _, c := range oldSet {
		oldMap[c.Symbol] = c
	}
	newMap := make(map[string]models.Company, len(newSet))
	for _, c := range newSet {
		newMap[c.Symbol] = c
	}

	added := []string{}
	for sym := range newMap {
		if _, ok := oldMap[sym]; !ok {
			added = append(added, sym)
		}
	}
	sort.Strings(added)

	removed := []string{}
	for sym := range oldMap {
		if _, ok := newMap[sym]; !ok {
			removed = append(removed, sym)
		}
	}
	sort.Strings(removed)

	var updatedSyms []string
	detail := make(map[string]map[string]models.FieldChange)
	for sym, o := range oldMap {
		n, ok := newMap[sym]
		if !ok {
			continue
		}
		changes := fieldChanges(o, n)
		if len(changes) == 0 {
			continue
		}
		updatedSyms = append(updatedSyms, sym)
		detail[sym] = changes
	}
	sort.Strings(updatedSyms)

	updated := make([]models.UpdatedCompany, 0, len(updatedSyms))
	for _, sym := range updatedSyms {
		updated = append(updated, models.UpdatedCompany{Symbol: sym, Changes: detail[sym]})
	}
	if updatedSyms == nil {
		updatedSyms = []string{}
	}

	event := models.ChangeEvent{
		TS:      time.Now().UTC(),
		Counts:  models.Counts{Old: len(oldSet), New: len(newSet)},
		Added:   added,
		Removed: removed,
		Updated: updated,
	}
	summary := models.DiffSummary{Added: added, Removed: removed, Updated: updatedSyms}
	return event, summary
}

func fieldChanges(o, n models.Company) map[string]models.FieldChange {
	var changes map[string]models.FieldChange
	for _, f := range attrFields {
		ov, nv := f.get(o), f.get(n)
		if valueEqual(ov, nv) {
			continue
		}
		if changes == nil {
			changes = make(map[string]models.FieldChange)
		}
		changes[f.name] = models.FieldChange{Old: ov, New: nv}
	}
	return changes
}

// valueEqual is value equality on nullable strings: two nulls are equal,
// a null never equals a non-null.
func valueEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
