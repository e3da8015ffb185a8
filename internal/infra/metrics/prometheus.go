package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursemark_frames_scanned_total",
		Help: "Total number of frames decoded and fed to OCR",
	})

	OCRErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursemark_ocr_errors_total",
		Help: "Total number of frames skipped due to OCR or decode errors",
	})

	LecturesSearchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursemark_lectures_searched_total",
		Help: "Total number of lecture boundary searches, by outcome",
	}, []string{"outcome"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coursemark_search_duration_seconds",
		Help:    "Wall-clock duration of one lecture boundary search",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
)
