package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursemark/coursemark/internal/domain/entity"
)

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timestamps.csv")

	lectures := []entity.Lecture{
		{SectionNumber: 1, LectureNumber: 1, Title: "1. Welcome", Found: true},
		{SectionNumber: 1, LectureNumber: 2, Title: "2. Setup", Found: false},
	}
	entries := []entity.TimestampEntry{
		{StartSeconds: 0, EndSeconds: 610},
		{StartSeconds: 610, EndSeconds: 910},
	}

	require.NoError(t, NewCSVExporter(zap.NewNop()).Export(path, lectures, entries))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Section", "Lecture", "Title", "Start", "End", "Duration", "Found"}, rows[0])
	assert.Equal(t, []string{"1", "1", "1. Welcome", "00:00:00.00", "00:10:10.00", "00:10:10.00", "Yes"}, rows[1])
	assert.Equal(t, []string{"1", "2", "2. Setup", "00:10:10.00", "00:15:10.00", "00:05:00.00", "No"}, rows[2])
}

func TestExportCountMismatch(t *testing.T) {
	err := NewCSVExporter(zap.NewNop()).Export(
		filepath.Join(t.TempDir(), "out.csv"),
		[]entity.Lecture{{Title: "a"}},
		nil,
	)
	assert.Error(t, err)
}
