package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/coursemark/coursemark/internal/domain/entity"
	"github.com/coursemark/coursemark/internal/infra/metrics"
	"github.com/coursemark/coursemark/pkg/timefmt"
)

// Searcher locates the first on-screen occurrence of a phrase within a
// window of a video. BoundarySearch is the production implementation.
type Searcher interface {
	Search(ctx context.Context, videoPath string, window entity.SearchWindow, targetText string, crop *entity.CropRegion) (SearchResult, error)
}

// Window widening applied to a search whose predecessor has no reliable
// visual start marker.
const documentWindowBonusSeconds = 60

// DiscoverOptions tune one discovery run.
type DiscoverOptions struct {
	// WindowSeconds is the total width of the search window around the
	// estimated start of each lecture.
	WindowSeconds float64

	Crop *entity.CropRegion

	// TruncateLength caps the derived search text; 0 disables truncation.
	TruncateLength int

	// StripPrefix drops everything up to the first whitespace run of every
	// title, not just document-kind ones.
	StripPrefix bool
}

// Discovery walks the ordered lecture schedule, searching for each lecture's
// title in turn. Each found boundary corrects the previous entry's end and
// re-centers the next search, so estimate drift cannot compound across the
// whole recording.
type Discovery struct {
	searcher Searcher
	logger   *zap.Logger
}

func NewDiscovery(searcher Searcher, logger *zap.Logger) *Discovery {
	return &Discovery{searcher: searcher, logger: logger}
}

// Run produces one TimestampEntry per lecture, in order, and flips each
// lecture's Found flag. A miss never stalls the walk: the entry falls back
// to the running cursor and the next search proceeds from the estimate.
// Only operator interruption aborts the run.
func (d *Discovery) Run(ctx context.Context, videoPath string, lectures []entity.Lecture, opts DiscoverOptions) ([]entity.TimestampEntry, error) {
	if opts.Crop != nil {
		if err := opts.Crop.Validate(); err != nil {
			return nil, fmt.Errorf("invalid crop region: %w", err)
		}
	}

	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "discover_timestamps")
	defer span.End()
	span.SetAttributes(attribute.Int("lectures.count", len(lectures)))

	entries := make([]entity.TimestampEntry, 0, len(lectures))
	lastEndSeconds := 0.0

	for i := range lectures {
		lecture := &lectures[i]
		log := d.logger.With(
			zap.Int("lecture", lecture.LectureNumber),
			zap.Int("section", lecture.SectionNumber),
			zap.String("title", lecture.Title),
		)
		log.Info("searching lecture", zap.Int("position", i+1), zap.Int("of", len(lectures)))

		searchText := DeriveSearchText(lecture.Title, lecture.Kind, opts.StripPrefix, opts.TruncateLength)

		windowWidth := opts.WindowSeconds
		if i > 0 && lectures[i-1].Kind == entity.KindDocument {
			windowWidth += documentWindowBonusSeconds
			log.Info("search window extended, previous lecture is a document")
		}

		result, err := d.searcher.Search(ctx, videoPath, entity.SearchWindow{
			CenterSeconds:    lastEndSeconds,
			HalfWidthSeconds: windowWidth / 2,
		}, searchText, opts.Crop)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil, err
			}
			// An external decode fault for one lecture degrades to a miss.
			log.Warn("search failed, treating lecture as not found", zap.Error(err))
			result = SearchResult{}
		}

		var startSeconds float64
		if result.Found {
			lecture.Found = true
			startSeconds = result.TimestampSeconds
			metrics.LecturesSearchedTotal.WithLabelValues("found").Inc()
		} else {
			lecture.Found = false
			startSeconds = lastEndSeconds
			metrics.LecturesSearchedTotal.WithLabelValues("missed").Inc()
			log.Warn("lecture start not found, falling back to estimate",
				zap.String("estimate", timefmt.SecondsToHMS(startSeconds)),
			)
		}

		// Close the previous entry exactly at the boundary just observed.
		if i > 0 {
			entries[i-1].EndSeconds = startSeconds
			log.Debug("previous lecture end corrected",
				zap.String("end", timefmt.SecondsToHMS(startSeconds)),
			)
		}

		// Provisional end; the next iteration overwrites it, except for the
		// final lecture, which keeps the duration-based estimate.
		endSeconds := startSeconds + float64(lecture.DurationMinutes)*60

		entries = append(entries, entity.TimestampEntry{
			StartSeconds: startSeconds,
			EndSeconds:   endSeconds,
		})
		lastEndSeconds = endSeconds

		log.Info("lecture placed",
			zap.Bool("found", lecture.Found),
			zap.String("start", timefmt.SecondsToHMS(startSeconds)),
			zap.String("end", timefmt.SecondsToHMS(endSeconds)),
		)
	}

	return entries, nil
}

// DeriveSearchText turns a lecture title into the phrase handed to OCR
// matching. Document-kind titles (and all titles when strip is set) lose
// their numbered prefix: everything up to and including the first whitespace
// run. Truncation keeps the first truncate runes. The result is trimmed.
func DeriveSearchText(title string, kind entity.LectureKind, strip bool, truncate int) string {
	text := title
	if strip || kind == entity.KindDocument {
		if idx := strings.IndexFunc(text, unicode.IsSpace); idx >= 0 {
			rest := text[idx:]
			text = strings.TrimLeftFunc(rest, unicode.IsSpace)
		}
	}

	if truncate > 0 {
		runes := []rune(text)
		if len(runes) > truncate {
			text = string(runes[:truncate])
		}
	}

	return strings.TrimSpace(text)
}
