// Package excel loads the course schedule from a spreadsheet. Column A is
// the entry kind, column B the title, column C the duration.
package excel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/coursemark/coursemark/internal/domain/entity"
)

type ScheduleSource struct {
	logger *zap.Logger
}

func NewScheduleSource(logger *zap.Logger) *ScheduleSource {
	return &ScheduleSource{logger: logger}
}

// Load reads the first sheet of the workbook. Section rows advance the
// section counter without producing a lecture; every other row becomes a
// lecture numbered in file order. The first row is a header.
func (s *ScheduleSource) Load(path string) ([]entity.Lecture, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read schedule rows: %w", err)
	}

	var lectures []entity.Lecture
	section, number := 0, 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		kind, title, duration := cell(row, 0), cell(row, 1), cell(row, 2)
		if kind == "" && title == "" {
			continue
		}

		if entity.ParseLectureKind(kind) == entity.KindSection {
			section++
			s.logger.Debug("section row", zap.Int("section", section), zap.String("title", title))
			continue
		}

		number++
		minutes := s.parseDuration(duration)
		lectures = append(lectures, entity.Lecture{
			Kind:            entity.ParseLectureKind(kind),
			Title:           title,
			DurationMinutes: minutes,
			LectureNumber:   number,
			SectionNumber:   section,
		})
		s.logger.Debug("lecture row",
			zap.String("title", title),
			zap.Int("minutes", minutes),
			zap.Int("section", section),
		)
	}

	s.logger.Info("schedule loaded",
		zap.String("path", path),
		zap.Int("lectures", len(lectures)),
		zap.Int("sections", section),
	)
	return lectures, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*hr?`)
	minutePattern = regexp.MustCompile(`(\d+)\s*min`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// parseDuration turns a free-form duration cell ("2hr", "90 min",
// "1hr 30min", bare "45") into minutes. When the cell carries a
// "chapter | duration" pair, only the part after the last '|' counts.
// Unparseable cells yield 0 with a warning.
func (s *ScheduleSource) parseDuration(raw string) int {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 0
	}

	if idx := strings.LastIndex(text, "|"); idx >= 0 {
		text = strings.TrimSpace(text[idx+1:])
	}

	total := 0
	if m := hourPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		total += hours * 60
	}
	if m := minutePattern.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		total += minutes
	}
	if total == 0 {
		if m := numberPattern.FindString(text); m != "" {
			total, _ = strconv.Atoi(m)
		}
	}

	if total == 0 {
		s.logger.Warn("could not parse duration, using 0 minutes", zap.String("value", raw))
	}
	return total
}
