// Package table holds a process snapshot together with its sort order and
// produces the sorted view renderers draw.
package table

import (
	"errors"
	"slices"
	"strings"

	"github.com/haskel/gpuscope/internal/process"
)

// ErrUninitialized is the snapshot of a table that has not been refreshed yet.
var ErrUninitialized = errors.New("process table not refreshed yet")

type Column int

const (
	ColumnPID Column = iota
	ColumnName
	ColumnMemory
)

func (c Column) String() string {
	switch c {
	case ColumnPID:
		return "pid"
	case ColumnName:
		return "name"
	case ColumnMemory:
		return "memory"
	default:
		return "unknown"
	}
}

func (c Column) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Sort is the active column and direction of a table.
type Sort struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// DefaultSort shows the heaviest memory users first.
func DefaultSort() Sort {
	return Sort{Column: ColumnMemory, Direction: Descending}
}

// Click applies a header click: the active column flips direction, any
// other column becomes active in ascending order.
func (s *Sort) Click(c Column) {
	if s.Column == c {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Column = c
	s.Direction = Ascending
}

// Compare orders a before b by the sort column and direction. Descending
// swaps the operands instead of negating the result, so Unavailable memory
// stays the maximum in both directions.
func (s Sort) Compare(a, b *process.Record) int {
	if s.Direction == Descending {
		a, b = b, a
	}
	switch s.Column {
	case ColumnPID:
		switch {
		case a.PID < b.PID:
			return -1
		case a.PID > b.PID:
			return 1
		}
		return 0
	case ColumnName:
		return strings.Compare(a.Name, b.Name)
	default:
		return a.UsedGPUMemory.Compare(b.UsedGPUMemory)
	}
}

// Table is one process table: its latest snapshot and its sort order.
// A snapshot is either a record list or an error, replaced wholesale.
type Table struct {
	sort    Sort
	records []process.Record
	err     error
}

func New() *Table {
	return &Table{
		sort: DefaultSort(),
		err:  ErrUninitialized,
	}
}

func (t *Table) Sort() Sort {
	return t.sort
}

func (t *Table) Click(c Column) {
	t.sort.Click(c)
}

// Replace installs a successful snapshot.
func (t *Table) Replace(records []process.Record) {
	t.records = records
	t.err = nil
}

// Fail installs a failed snapshot, discarding the previous records.
func (t *Table) Fail(err error) {
	t.records = nil
	t.err = err
}

// Err returns the snapshot error, if any.
func (t *Table) Err() error {
	return t.err
}

// Sorted returns a sorted copy of the snapshot, or the snapshot error
// unchanged.
func (t *Table) Sorted() ([]process.Record, error) {
	if t.err != nil {
		return nil, t.err
	}
	out := slices.Clone(t.records)
	if out == nil {
		out = []process.Record{}
	}
	slices.SortFunc(out, func(a, b process.Record) int {
		return t.sort.Compare(&a, &b)
	})
	return out, nil
}
