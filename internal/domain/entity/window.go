package entity

// SearchWindow is a time span to scan for a lecture title, centered on an
// estimate. A window whose start would fall before the beginning of the
// video is clamped to zero and the lost span is appended to the far end, so
// the total scanned duration is always preserved exactly.
type SearchWindow struct {
	CenterSeconds    float64
	HalfWidthSeconds float64
}

// ResolvedWindow is the concrete span handed to the decoder.
type ResolvedWindow struct {
	StartSeconds    float64
	DurationSeconds float64
}

// EndSeconds returns the exclusive end of the span.
func (w ResolvedWindow) EndSeconds() float64 {
	return w.StartSeconds + w.DurationSeconds
}

// Resolve applies the clamp-and-extend rule.
func (w SearchWindow) Resolve() ResolvedWindow {
	start := w.CenterSeconds - w.HalfWidthSeconds
	duration := 2 * w.HalfWidthSeconds
	if start < 0 {
		// Push the span lost below zero onto the end.
		duration += -start
		start = 0
	}
	return ResolvedWindow{StartSeconds: start, DurationSeconds: duration}
}
