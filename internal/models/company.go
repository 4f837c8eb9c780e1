package models

import "time"

// Company represents one S&P 500 constituent as canonicalized from the
// source table. Symbol is the unique primary key (uppercase, trimmed);
// every other field is nullable because the source table does not
// guarantee them.
type Company struct {
	Symbol       string  `json:"symbol"`
	Name         *string `json:"name"`
	Sector       *string `json:"sector"`
	SubSector    *string `json:"sub_sector"`
	Headquarters *string `json:"headquarters"`
	DateAdded    *string `json:"date_added"`
}

// FieldChange records one field's old and new value for an updated company.
type FieldChange struct {
	Old *string `json:"old"`
	New *string `json:"new"`
}

// UpdatedCompany is one entry in a ChangeEvent's updated list: the symbol
// plus every field that differs between the two snapshots.
type UpdatedCompany struct {
	Symbol  string                 `json:"symbol"`
	Changes map[string]FieldChange `json:"changes"`
}

// Counts holds the sizes of the two snapshots a reconciliation compared.
type Counts struct {
	Old int `json:"old"`
	New int `json:"new"`
}

// ChangeEvent is the structured diff of one reconciliation run. It is
// appended to the change log and never rewritten.
type ChangeEvent struct {
	TS      time.Time        `json:"ts"`
	Counts  Counts           `json:"counts"`
	Added   []string         `json:"added"`
	Removed []string         `json:"removed"`
	Updated []UpdatedCompany `json:"updated"`
}

// DiffSummary is the compact symbol-only view of a ChangeEvent returned
// to callers of a refresh.
type DiffSummary struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Updated []string `json:"updated"`
}
