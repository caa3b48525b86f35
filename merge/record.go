package merge

import (
	"fmt"
	"strings"
)

type Name struct {
	Last  string `json:"last"`
	First string `json:"first"`
}

// Record is one data row: the name pair plus every
// field after the highest name column, in CSV order
type Record struct {
	Name   Name     `json:"name"`
	Extras []string `json:"extras"`
}

// FullName joins last and first name, last first
func (r Record) FullName() string {
	return strings.TrimSpace(r.Name.Last + " " + r.Name.First)
}

// ShortRowPolicy decides what happens to rows that
// lack one of the name columns
type ShortRowPolicy int

const (
	PadShortRows    ShortRowPolicy = iota // missing names become ""
	SkipShortRows                         // row is dropped
	RejectShortRows                       // load fails with ErrShortRow
)

func ParseShortRowPolicy(s string) (ShortRowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pad":
		return PadShortRows, nil
	case "skip":
		return SkipShortRows, nil
	case "error":
		return RejectShortRows, nil
	}
	return 0, fmt.Errorf("invalid short rows policy %q (expected pad, skip or error)", s)
}

func (p ShortRowPolicy) String() string {
	switch p {
	case SkipShortRows:
		return "skip"
	case RejectShortRows:
		return "error"
	default:
		return "pad"
	}
}

// BuildRecord shapes a row using resolved columns. The
// boolean is false when the row was skipped by policy.
func BuildRecord(row []string, cols Columns, policy ShortRowPolicy) (Record, bool, error) {
	need := cols.Max() + 1
	if len(row) < need {
		switch policy {
		case SkipShortRows:
			return Record{}, false, nil
		case RejectShortRows:
			return Record{}, false, fmt.Errorf("%w: got %d fields, need %d", ErrShortRow, len(row), need)
		}
	}

	rec := Record{
		Name:   Name{Last: fieldAt(row, cols.Last), First: fieldAt(row, cols.First)},
		Extras: []string{},
	}
	if need < len(row) {
		rec.Extras = append(rec.Extras, row[need:]...)
	}
	return rec, true, nil
}

func fieldAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
