package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursemark/coursemark/internal/domain/entity"
)

type searchCall struct {
	window entity.SearchWindow
	target string
}

// scriptedSearcher answers searches in call order and records every call.
type scriptedSearcher struct {
	calls   []searchCall
	respond func(call int, window entity.SearchWindow, target string) (SearchResult, error)
}

func (s *scriptedSearcher) Search(_ context.Context, _ string, window entity.SearchWindow, target string, _ *entity.CropRegion) (SearchResult, error) {
	call := len(s.calls)
	s.calls = append(s.calls, searchCall{window: window, target: target})
	return s.respond(call, window, target)
}

func foundAt(ts float64) (SearchResult, error) {
	return SearchResult{Found: true, TimestampSeconds: ts}, nil
}

func missed() (SearchResult, error) {
	return SearchResult{}, nil
}

func TestDeriveSearchText(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		kind     entity.LectureKind
		strip    bool
		truncate int
		want     string
	}{
		{name: "plain video title untouched", title: "Introduction to X", kind: entity.KindVideo, want: "Introduction to X"},
		{name: "strip numbered prefix", title: "150. Introduction to X", kind: entity.KindVideo, strip: true, want: "Introduction to X"},
		{name: "document kind always strips", title: "150. Course notes", kind: entity.KindDocument, want: "Course notes"},
		{name: "no whitespace keeps title", title: "Introduction", kind: entity.KindVideo, strip: true, want: "Introduction"},
		{name: "truncate to first N characters", title: "Introduction to X", kind: entity.KindVideo, truncate: 10, want: "Introducti"},
		{name: "truncate then trim", title: "Intro    and more", kind: entity.KindVideo, truncate: 8, want: "Intro"},
		{name: "multi-space prefix run", title: "150.   Introduction", kind: entity.KindVideo, strip: true, want: "Introduction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSearchText(tt.title, tt.kind, tt.strip, tt.truncate))
		})
	}
}

func TestRunRetroactiveCorrection(t *testing.T) {
	lectures := []entity.Lecture{
		{Title: "A", Kind: entity.KindVideo, DurationMinutes: 10, LectureNumber: 1},
		{Title: "B", Kind: entity.KindVideo, DurationMinutes: 5, LectureNumber: 2},
	}
	searcher := &scriptedSearcher{respond: func(call int, _ entity.SearchWindow, _ string) (SearchResult, error) {
		switch call {
		case 0:
			return foundAt(0)
		default:
			return foundAt(650)
		}
	}}

	entries, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4", lectures, DiscoverOptions{WindowSeconds: 90})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// A's end is corrected to B's observed start, not its own estimate.
	assert.Equal(t, entity.TimestampEntry{StartSeconds: 0, EndSeconds: 650}, entries[0])
	// B keeps the duration-based estimate, never corrected by a successor.
	assert.Equal(t, entity.TimestampEntry{StartSeconds: 650, EndSeconds: 950}, entries[1])
	assert.True(t, lectures[0].Found)
	assert.True(t, lectures[1].Found)

	// B's search was centered at A's provisional end.
	require.Len(t, searcher.calls, 2)
	assert.InDelta(t, 600.0, searcher.calls[1].window.CenterSeconds, 1e-9)
}

func TestRunMissFallsBackToCursor(t *testing.T) {
	lectures := []entity.Lecture{
		{Title: "A", Kind: entity.KindVideo, DurationMinutes: 10},
		{Title: "B", Kind: entity.KindVideo, DurationMinutes: 5},
		{Title: "C", Kind: entity.KindVideo, DurationMinutes: 5},
	}
	searcher := &scriptedSearcher{respond: func(call int, _ entity.SearchWindow, _ string) (SearchResult, error) {
		switch call {
		case 0:
			return foundAt(100)
		case 1:
			return missed()
		default:
			return foundAt(1100)
		}
	}}

	entries, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4", lectures, DiscoverOptions{WindowSeconds: 90})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// The miss starts at the cursor value current at invocation time.
	assert.Equal(t, 700.0, entries[1].StartSeconds)
	assert.False(t, lectures[1].Found)

	// The miss never stalls the schedule: C is still searched and found.
	assert.True(t, lectures[2].Found)
	assert.Equal(t, 1100.0, entries[2].StartSeconds)

	// C's find corrects only its immediate predecessor.
	assert.Equal(t, 1100.0, entries[1].EndSeconds)
	assert.Equal(t, 700.0, entries[0].EndSeconds)
}

func TestRunConsecutiveMissesKeepEstimatedEnds(t *testing.T) {
	lectures := []entity.Lecture{
		{Title: "A", DurationMinutes: 10},
		{Title: "B", DurationMinutes: 10},
		{Title: "C", DurationMinutes: 10},
		{Title: "D", DurationMinutes: 10},
	}
	searcher := &scriptedSearcher{respond: func(call int, _ entity.SearchWindow, _ string) (SearchResult, error) {
		if call == 3 {
			return foundAt(2000)
		}
		if call == 0 {
			return foundAt(0)
		}
		return missed()
	}}

	entries, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4", lectures, DiscoverOptions{WindowSeconds: 90})
	require.NoError(t, err)

	// D's find closes C; the earlier missed entries keep their estimates.
	assert.Equal(t, 2000.0, entries[2].EndSeconds)
	assert.Equal(t, 1200.0, entries[1].EndSeconds)
	assert.Equal(t, 600.0, entries[0].EndSeconds)
}

func TestRunDocumentPredecessorWidensWindow(t *testing.T) {
	lectures := []entity.Lecture{
		{Title: "1. Notes", Kind: entity.KindDocument, DurationMinutes: 2},
		{Title: "2. Video", Kind: entity.KindVideo, DurationMinutes: 10},
	}
	searcher := &scriptedSearcher{respond: func(int, entity.SearchWindow, string) (SearchResult, error) {
		return missed()
	}}

	_, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4", lectures, DiscoverOptions{WindowSeconds: 90})
	require.NoError(t, err)
	require.Len(t, searcher.calls, 2)

	assert.InDelta(t, 90.0, 2*searcher.calls[0].window.HalfWidthSeconds, 1e-9)
	assert.InDelta(t, 150.0, 2*searcher.calls[1].window.HalfWidthSeconds, 1e-9)

	// Document titles lose their numbered prefix even without strip-prefix.
	assert.Equal(t, "Notes", searcher.calls[0].target)
	assert.Equal(t, "2. Video", searcher.calls[1].target)
}

func TestRunFullSchedule(t *testing.T) {
	lectures := []entity.Lecture{
		{Title: "One", DurationMinutes: 10},
		{Title: "Two", DurationMinutes: 10},
		{Title: "Three", DurationMinutes: 10},
	}
	starts := []float64{0, 610, 1205}
	searcher := &scriptedSearcher{respond: func(call int, _ entity.SearchWindow, _ string) (SearchResult, error) {
		return foundAt(starts[call])
	}}

	entries, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4", lectures, DiscoverOptions{WindowSeconds: 90})
	require.NoError(t, err)

	want := []entity.TimestampEntry{
		{StartSeconds: 0, EndSeconds: 610},
		{StartSeconds: 610, EndSeconds: 1205},
		{StartSeconds: 1205, EndSeconds: 1805},
	}
	assert.Equal(t, want, entries)
	for _, l := range lectures {
		assert.True(t, l.Found)
	}
}

func TestRunAbortPropagates(t *testing.T) {
	lectures := []entity.Lecture{{Title: "A", DurationMinutes: 10}, {Title: "B", DurationMinutes: 10}}
	searcher := &scriptedSearcher{respond: func(call int, _ entity.SearchWindow, _ string) (SearchResult, error) {
		if call == 0 {
			return foundAt(0)
		}
		return SearchResult{}, ErrAborted
	}}

	_, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4", lectures, DiscoverOptions{WindowSeconds: 90})
	assert.ErrorIs(t, err, ErrAborted)
}

func TestRunSearchErrorDegradesToMiss(t *testing.T) {
	lectures := []entity.Lecture{{Title: "A", DurationMinutes: 10}, {Title: "B", DurationMinutes: 10}}
	searcher := &scriptedSearcher{respond: func(call int, _ entity.SearchWindow, _ string) (SearchResult, error) {
		if call == 0 {
			return SearchResult{}, fmt.Errorf("decoder blew up")
		}
		return foundAt(700)
	}}

	entries, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4", lectures, DiscoverOptions{WindowSeconds: 90})
	require.NoError(t, err)
	assert.False(t, lectures[0].Found)
	assert.Equal(t, 0.0, entries[0].StartSeconds)
	assert.True(t, lectures[1].Found)
}

func TestRunInvalidCropFailsFast(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(int, entity.SearchWindow, string) (SearchResult, error) {
		return foundAt(0)
	}}

	_, err := NewDiscovery(searcher, zap.NewNop()).Run(context.Background(), "v.mp4",
		[]entity.Lecture{{Title: "A"}},
		DiscoverOptions{WindowSeconds: 90, Crop: &entity.CropRegion{Left: 90, Top: 0, Right: 10, Bottom: 100}},
	)
	require.Error(t, err)
	assert.Empty(t, searcher.calls, "no search may run with a degenerate crop")
}
