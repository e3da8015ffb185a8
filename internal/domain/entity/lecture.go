package entity

import (
	"sort"
	"strings"
)

type LectureKind string

const (
	KindVideo    LectureKind = "video"
	KindDocument LectureKind = "document"
	KindSection  LectureKind = "section"
)

// ParseLectureKind maps free-form schedule cells ("Video", "Doc", "Section")
// onto a kind. Anything unrecognized is treated as a video lecture so the
// walker still searches for it.
func ParseLectureKind(s string) LectureKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "doc", "document":
		return KindDocument
	case "section", "section-header":
		return KindSection
	default:
		return KindVideo
	}
}

// Lecture is one schedule entry. Ordering and duration fields are fixed at
// ingestion; Found is flipped by the discovery run and never after export.
type Lecture struct {
	Kind            LectureKind
	Title           string
	DurationMinutes int
	LectureNumber   int
	SectionNumber   int

	// Estimated offsets from the start of the recording, in minutes.
	EstStartMinutes float64
	EstEndMinutes   float64

	Found bool
}

// SortLectures orders lectures by (section, lecture number) in place.
func SortLectures(lectures []Lecture) {
	sort.SliceStable(lectures, func(i, j int) bool {
		if lectures[i].SectionNumber != lectures[j].SectionNumber {
			return lectures[i].SectionNumber < lectures[j].SectionNumber
		}
		return lectures[i].LectureNumber < lectures[j].LectureNumber
	})
}

// CalculateEstimates walks the ordered lectures accumulating durations into
// estimated start/end offsets.
func CalculateEstimates(lectures []Lecture) {
	current := 0.0
	for i := range lectures {
		lectures[i].EstStartMinutes = current
		lectures[i].EstEndMinutes = current + float64(lectures[i].DurationMinutes)
		current = lectures[i].EstEndMinutes
	}
}

// TimestampEntry is the discovered (or estimated) time span of one lecture,
// in seconds from the start of the recording. Entries are owned exclusively
// by the discovery walker: End is first set to a duration-based estimate and
// later overwritten when the next lecture's true start is found.
type TimestampEntry struct {
	StartSeconds float64
	EndSeconds   float64
}

// Duration returns the span length in seconds.
func (e TimestampEntry) Duration() float64 {
	return e.EndSeconds - e.StartSeconds
}
