package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haskel/gpuscope/internal/process"
)

func pids(records []process.Record) []uint32 {
	out := make([]uint32, len(records))
	for i, r := range records {
		out[i] = r.PID
	}
	return out
}

func TestSort_Default(t *testing.T) {
	s := DefaultSort()
	assert.Equal(t, ColumnMemory, s.Column)
	assert.Equal(t, Descending, s.Direction)
}

func TestSort_ClickSameColumnTwiceRestoresDirection(t *testing.T) {
	for _, start := range []Direction{Ascending, Descending} {
		for _, c := range []Column{ColumnPID, ColumnName, ColumnMemory} {
			s := Sort{Column: c, Direction: start}

			s.Click(c)
			assert.NotEqual(t, start, s.Direction)

			s.Click(c)
			assert.Equal(t, start, s.Direction)
			assert.Equal(t, c, s.Column)
		}
	}
}

func TestSort_ClickOtherColumnIsAscending(t *testing.T) {
	for _, start := range []Direction{Ascending, Descending} {
		s := Sort{Column: ColumnMemory, Direction: start}
		s.Click(ColumnMemory)
		s.Click(ColumnName)

		assert.Equal(t, ColumnName, s.Column)
		assert.Equal(t, Ascending, s.Direction)
	}
}

func TestTable_StartsUninitialized(t *testing.T) {
	tbl := New()

	records, err := tbl.Sorted()
	assert.ErrorIs(t, err, ErrUninitialized)
	assert.Nil(t, records)
	assert.Equal(t, DefaultSort(), tbl.Sort())
}

func TestTable_MemoryUnavailableIsMaximum(t *testing.T) {
	tbl := New()
	tbl.Replace([]process.Record{
		{PID: 2, UsedGPUMemory: process.Unavailable()},
		{PID: 1, UsedGPUMemory: process.Used(100)},
	})

	tbl.sort = Sort{Column: ColumnMemory, Direction: Ascending}
	records, err := tbl.Sorted()
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, pids(records))

	tbl.sort = Sort{Column: ColumnMemory, Direction: Descending}
	records, err = tbl.Sorted()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 1}, pids(records))
}

func TestTable_MemoryNeverInterleavesUnavailable(t *testing.T) {
	tbl := New()
	tbl.Replace([]process.Record{
		{PID: 1, UsedGPUMemory: process.Used(300)},
		{PID: 2, UsedGPUMemory: process.Unavailable()},
		{PID: 3, UsedGPUMemory: process.Used(100)},
		{PID: 4, UsedGPUMemory: process.Unavailable()},
		{PID: 5, UsedGPUMemory: process.Used(200)},
	})

	tbl.sort = Sort{Column: ColumnMemory, Direction: Ascending}
	records, err := tbl.Sorted()
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 5, 1}, pids(records[:3]))
	assert.False(t, records[3].UsedGPUMemory.Available())
	assert.False(t, records[4].UsedGPUMemory.Available())

	tbl.sort = Sort{Column: ColumnMemory, Direction: Descending}
	records, err = tbl.Sorted()
	require.NoError(t, err)
	assert.False(t, records[0].UsedGPUMemory.Available())
	assert.False(t, records[1].UsedGPUMemory.Available())
	assert.Equal(t, []uint32{1, 5, 3}, pids(records[2:]))
}

func TestTable_SortByPIDAndName(t *testing.T) {
	tbl := New()
	tbl.Replace([]process.Record{
		{PID: 30, Name: "blender"},
		{PID: 10, Name: "python"},
		{PID: 20, Name: "Xorg"},
	})

	tbl.Click(ColumnPID)
	records, err := tbl.Sorted()
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 20, 30}, pids(records))

	tbl.Click(ColumnPID)
	records, err = tbl.Sorted()
	require.NoError(t, err)
	assert.Equal(t, []uint32{30, 20, 10}, pids(records))

	// Byte-wise order: uppercase sorts before lowercase.
	tbl.Click(ColumnName)
	records, err = tbl.Sorted()
	require.NoError(t, err)
	assert.Equal(t, []uint32{20, 30, 10}, pids(records))
}

func TestTable_FailureOverwritesRecords(t *testing.T) {
	tbl := New()
	tbl.Replace([]process.Record{{PID: 1}})

	fetchErr := errors.New("driver gone")
	tbl.Fail(fetchErr)

	records, err := tbl.Sorted()
	assert.Nil(t, records)
	assert.Same(t, fetchErr, err, "error must propagate untouched")
	assert.Equal(t, fetchErr, tbl.Err())

	tbl.Replace(nil)
	records, err = tbl.Sorted()
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestTable_SortedDoesNotReorderSnapshot(t *testing.T) {
	tbl := New()
	snapshot := []process.Record{{PID: 3}, {PID: 1}, {PID: 2}}
	tbl.Replace(snapshot)
	tbl.Click(ColumnPID)

	_, err := tbl.Sorted()
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 1, 2}, pids(snapshot))
}

func TestColumnAndDirection_Text(t *testing.T) {
	assert.Equal(t, "pid", ColumnPID.String())
	assert.Equal(t, "name", ColumnName.String())
	assert.Equal(t, "memory", ColumnMemory.String())
	assert.Equal(t, "ascending", Ascending.String())
	assert.Equal(t, "descending", Descending.String())
}
