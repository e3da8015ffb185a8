// Package report exports discovery results for the operator.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/coursemark/coursemark/internal/domain/entity"
	"github.com/coursemark/coursemark/pkg/timefmt"
)

type CSVExporter struct {
	logger *zap.Logger
}

func NewCSVExporter(logger *zap.Logger) *CSVExporter {
	return &CSVExporter{logger: logger}
}

// Export writes one row per lecture with its discovered (or estimated) time
// span. Entries must be ordered 1:1 with lectures.
func (e *CSVExporter) Export(path string, lectures []entity.Lecture, entries []entity.TimestampEntry) error {
	if len(lectures) != len(entries) {
		return fmt.Errorf("lecture/timestamp count mismatch: %d vs %d", len(lectures), len(entries))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Section", "Lecture", "Title", "Start", "End", "Duration", "Found"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, l := range lectures {
		found := "No"
		if l.Found {
			found = "Yes"
		}
		row := []string{
			strconv.Itoa(l.SectionNumber),
			strconv.Itoa(l.LectureNumber),
			l.Title,
			timefmt.SecondsToHMS(entries[i].StartSeconds),
			timefmt.SecondsToHMS(entries[i].EndSeconds),
			timefmt.SecondsToHMS(entries[i].Duration()),
			found,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	e.logger.Info("timestamps exported", zap.String("path", path), zap.Int("rows", len(lectures)))
	return nil
}
