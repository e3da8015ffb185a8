package entity

import "strings"

// Chapter is a named time range written into the video container, with
// millisecond resolution.
type Chapter struct {
	StartMillis int64
	EndMillis   int64
	Title       string
}

// NewChapter builds a chapter from second-resolution timestamps. Embedded
// line breaks in the title are collapsed to spaces so the metadata file
// stays well-formed.
func NewChapter(startSeconds, endSeconds float64, title string) Chapter {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	return Chapter{
		StartMillis: int64(startSeconds * 1000),
		EndMillis:   int64(endSeconds * 1000),
		Title:       title,
	}
}
