package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLectureKind(t *testing.T) {
	assert.Equal(t, KindDocument, ParseLectureKind("Doc"))
	assert.Equal(t, KindDocument, ParseLectureKind("document"))
	assert.Equal(t, KindSection, ParseLectureKind(" Section "))
	assert.Equal(t, KindVideo, ParseLectureKind("Video"))
	assert.Equal(t, KindVideo, ParseLectureKind("Quiz"))
}

func TestSortLectures(t *testing.T) {
	lectures := []Lecture{
		{SectionNumber: 2, LectureNumber: 3},
		{SectionNumber: 1, LectureNumber: 2},
		{SectionNumber: 1, LectureNumber: 1},
	}
	SortLectures(lectures)

	assert.Equal(t, 1, lectures[0].LectureNumber)
	assert.Equal(t, 2, lectures[1].LectureNumber)
	assert.Equal(t, 3, lectures[2].LectureNumber)
}

func TestCalculateEstimates(t *testing.T) {
	lectures := []Lecture{
		{DurationMinutes: 10},
		{DurationMinutes: 5},
		{DurationMinutes: 20},
	}
	CalculateEstimates(lectures)

	assert.Equal(t, 0.0, lectures[0].EstStartMinutes)
	assert.Equal(t, 10.0, lectures[0].EstEndMinutes)
	assert.Equal(t, 10.0, lectures[1].EstStartMinutes)
	assert.Equal(t, 15.0, lectures[1].EstEndMinutes)
	assert.Equal(t, 15.0, lectures[2].EstStartMinutes)
	assert.Equal(t, 35.0, lectures[2].EstEndMinutes)
}

func TestNewChapterCollapsesLineBreaks(t *testing.T) {
	ch := NewChapter(1.5, 10.25, "Intro\r\nto Go")
	assert.Equal(t, int64(1500), ch.StartMillis)
	assert.Equal(t, int64(10250), ch.EndMillis)
	assert.Equal(t, "Intro  to Go", ch.Title)
}
