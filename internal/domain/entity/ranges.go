package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a 1-based inclusive selection, with 0 meaning unbounded on that
// side.
type Range struct {
	Start int
	End   int
}

// ParseRange parses "1-5", "3-", "-7", or a bare "3".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	if !strings.Contains(s, "-") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Range{}, fmt.Errorf("range %q is not a positive number", s)
		}
		return Range{Start: n, End: n}, nil
	}

	parts := strings.SplitN(s, "-", 2)
	var r Range
	if parts[0] != "" {
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 1 {
			return Range{}, fmt.Errorf("range start %q is not a positive number", parts[0])
		}
		r.Start = n
	}
	if parts[1] != "" {
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			return Range{}, fmt.Errorf("range end %q is not a positive number", parts[1])
		}
		r.End = n
	}
	if r.Start == 0 && r.End == 0 {
		return Range{}, fmt.Errorf("range %q selects nothing", s)
	}
	if r.Start > 0 && r.End > 0 && r.Start > r.End {
		return Range{}, fmt.Errorf("range start %d is after end %d", r.Start, r.End)
	}
	return r, nil
}

func (r Range) contains(n int) bool {
	if r.Start > 0 && n < r.Start {
		return false
	}
	if r.End > 0 && n > r.End {
		return false
	}
	return true
}

// FilterByLectureRange keeps lectures whose lecture number falls in r.
func FilterByLectureRange(lectures []Lecture, r Range) []Lecture {
	var out []Lecture
	for _, l := range lectures {
		if r.contains(l.LectureNumber) {
			out = append(out, l)
		}
	}
	return out
}

// FilterBySectionRange keeps lectures whose section number falls in r.
func FilterBySectionRange(lectures []Lecture, r Range) []Lecture {
	var out []Lecture
	for _, l := range lectures {
		if r.contains(l.SectionNumber) {
			out = append(out, l)
		}
	}
	return out
}
