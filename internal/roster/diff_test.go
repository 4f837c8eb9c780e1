package roster

import (
	"reflect"
	"testing"

	"sp500watch/internal/models"
)

func company(symbol, sector string) models.Company {
	return models.Company{Symbol: symbol, Sector: strPtr(sector)}
}

func TestDiffIdenticalSets(t *testing.T) {
	set := []models.Company{company("AAPL", "Tech")}
	event, summary := Diff(set, set)

	if len(summary.Added) != 0 || len(summary.Removed) != 0 || len(summary.Updated) != 0 {
		t.Errorf("expected empty summary for identical sets, got %+v", summary)
	}
	if event.Counts.Old != event.Counts.New || event.Counts.Old != 1 {
		t.Errorf("expected counts {1 1}, got %+v", event.Counts)
	}
	// A change event is still emitted with empty (not nil) lists.
	if event.Added == nil || event.Removed == nil || event.Updated == nil {
		t.Error("event lists must be empty, not nil")
	}
}

func TestDiffAddAndUpdate(t *testing.T) {
	oldSet := []models.Company{company("AAPL", "Tech")}
	newSet := []models.Company{company("AAPL", "Technology"), company("MSFT", "Tech")}

	event, summary := Diff(oldSet, newSet)

	if !reflect.DeepEqual(summary.Added, []string{"MSFT"}) {
		t.Errorf("expected added [MSFT], got %v", summary.Added)
	}
	if len(summary.Removed) != 0 {
		t.Errorf("expected no removed, got %v", summary.Removed)
	}
	if !reflect.DeepEqual(summary.Updated, []string{"AAPL"}) {
		t.Errorf("expected updated [AAPL], got %v", summary.Updated)
	}

	if len(event.Updated) != 1 {
		t.Fatalf("expected 1 updated entry, got %d", len(event.Updated))
	}
	changes := event.Updated[0].Changes
	fc, ok := changes[FieldSector]
	if !ok {
		t.Fatalf("expected sector change, got %v", changes)
	}
	if fc.Old == nil || *fc.Old != "Tech" || fc.New == nil || *fc.New != "Technology" {
		t.Errorf("expected sector Tech -> Technology, got %+v", fc)
	}
	if len(changes) != 1 {
		t.Errorf("expected exactly one changed field, got %v", changes)
	}
}

func TestDiffEmptyOldSet(t *testing.T) {
	newSet := []models.Company{company("AAPL", "Tech"), company("MSFT", "Tech")}
	event, summary := Diff(nil, newSet)

	if !reflect.DeepEqual(summary.Added, []string{"AAPL", "MSFT"}) {
		t.Errorf("expected every new key added, got %v", summary.Added)
	}
	if len(summary.Removed) != 0 || len(summary.Updated) != 0 {
		t.Errorf("expected nothing removed/updated, got %+v", summary)
	}
	if event.Counts.Old != 0 || event.Counts.New != 2 {
		t.Errorf("expected counts {0 2}, got %+v", event.Counts)
	}
}

func TestDiffEmptyNewSet(t *testing.T) {
	oldSet := []models.Company{company("MSFT", "Tech"), company("AAPL", "Tech")}
	_, summary := Diff(oldSet, nil)

	if !reflect.DeepEqual(summary.Removed, []string{"AAPL", "MSFT"}) {
		t.Errorf("expected every old key removed sorted, got %v", summary.Removed)
	}
	if len(summary.Added) != 0 || len(summary.Updated) != 0 {
		t.Errorf("expected nothing added/updated, got %+v", summary)
	}
}

func TestDiffNullVersusValue(t *testing.T) {
	oldSet := []models.Company{{Symbol: "AAPL"}}
	newSet := []models.Company{{Symbol: "AAPL", DateAdded: strPtr("1982-11-30")}}

	event, summary := Diff(oldSet, newSet)
	if !reflect.DeepEqual(summary.Updated, []string{"AAPL"}) {
		t.Fatalf("null -> value must count as a change, got %+v", summary)
	}
	fc := event.Updated[0].Changes[FieldDateAdded]
	if fc.Old != nil {
		t.Errorf("expected old null, got %q", *fc.Old)
	}
	if fc.New == nil || *fc.New != "1982-11-30" {
		t.Errorf("expected new 1982-11-30, got %v", fc.New)
	}
}

func TestDiffPartitionProperty(t *testing.T) {
	oldSet := []models.Company{
		company("A", "s1"), company("B", "s1"), company("C", "s1"), company("D", "s1"),
	}
	newSet := []models.Company{
		company("B", "s1"), company("C", "s2"), company("D", "s1"), company("E", "s1"),
	}

	event, summary := Diff(oldSet, newSet)

	inList := func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	}

	// Pairwise disjoint.
	for _, sym := range summary.Added {
		if inList(summary.Removed, sym) || inList(summary.Updated, sym) {
			t.Errorf("symbol %s appears in more than one bucket", sym)
		}
	}
	for _, sym := range summary.Removed {
		if inList(summary.Updated, sym) {
			t.Errorf("symbol %s appears in removed and updated", sym)
		}
	}

	// Every key lands in exactly one of added/removed/updated/unchanged.
	all := map[string]bool{}
	for _, c := range oldSet {
		all[c.Symbol] = true
	}
	for _, c := range newSet {
		all[c.Symbol] = true
	}
	counted := len(summary.Added) + len(summary.Removed) + len(summary.Updated)
	unchanged := len(all) - counted
	if unchanged != 2 { // B and D
		t.Errorf("expected 2 unchanged keys, got %d", unchanged)
	}

	// Field-diff soundness: every updated entry has at least one real delta.
	for _, u := range event.Updated {
		if len(u.Changes) == 0 {
			t.Errorf("updated entry %s has no changes", u.Symbol)
		}
		for field, fc := range u.Changes {
			if valueEqual(fc.Old, fc.New) {
				t.Errorf("no-op change recorded for %s.%s", u.Symbol, field)
			}
		}
	}
}

func TestDiffUpdatedSortedForReproducibility(t *testing.T) {
	oldSet := []models.Company{company("Z", "a"), company("M", "a"), company("A", "a")}
	newSet := []models.Company{company("Z", "b"), company("M", "b"), company("A", "b")}

	_, summary := Diff(oldSet, newSet)
	if !reflect.DeepEqual(summary.Updated, []string{"A", "M", "Z"}) {
		t.Errorf("expected updated sorted ascending, got %v", summary.Updated)
	}
}
