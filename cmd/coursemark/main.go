package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coursemark/coursemark/internal/domain/entity"
	"github.com/coursemark/coursemark/internal/domain/port"
	"github.com/coursemark/coursemark/internal/infra/config"
	"github.com/coursemark/coursemark/internal/infra/excel"
	"github.com/coursemark/coursemark/internal/infra/ffmpeg"
	"github.com/coursemark/coursemark/internal/infra/metrics"
	"github.com/coursemark/coursemark/internal/infra/report"
	"github.com/coursemark/coursemark/internal/infra/tracing"
	"github.com/coursemark/coursemark/internal/infra/vision"
	"github.com/coursemark/coursemark/internal/usecase"
	"github.com/coursemark/coursemark/pkg/logger"
	"github.com/coursemark/coursemark/pkg/timefmt"
)

type cliOptions struct {
	lectureRange string
	sectionRange string
	output       string
	window       float64
	crop         []float64
	truncate     int
	saveFrames   bool
	stripPrefix  bool
	verbose      bool
}

func main() {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "coursemark <video> <schedule.xlsx>",
		Short: "Locate lecture start times in a recording and write them as chapters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], opts)
		},
		SilenceUsage: true,
	}

	flags := root.Flags()
	flags.StringVarP(&opts.lectureRange, "range", "r", "", `lectures to process ("1-5", "3-", "-7")`)
	flags.StringVarP(&opts.sectionRange, "section", "s", "", `sections to process ("1-2", "2-", "-3")`)
	flags.StringVarP(&opts.output, "output", "o", "timestamps.csv", "output CSV file")
	flags.Float64VarP(&opts.window, "window", "w", 90, "search window width in seconds around each estimated start")
	flags.Float64SliceVar(&opts.crop, "crop", nil, "crop region as percentages: left,top,right,bottom")
	flags.IntVarP(&opts.truncate, "truncate", "t", 0, "truncate search text to the first N characters")
	flags.BoolVar(&opts.saveFrames, "save-frames", false, "save the frames where titles are found")
	flags.BoolVar(&opts.stripPrefix, "strip-prefix", false, "strip numbered prefixes from every title before searching")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug output")
	root.MarkFlagsMutuallyExclusive("range", "section")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(videoPath, schedulePath string, opts *cliOptions) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("video file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log, logPath, err := logger.NewWithRunFile(level, cfg.LogsDir, videoPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	log.Info("starting discovery run", zap.String("video", videoPath), zap.String("log_file", logPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTELEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTELEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	if cfg.MetricsPort > 0 {
		srv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, metrics.RunInfo{ID: runID, Video: videoPath}, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	crop, err := cropFromFlag(opts.crop)
	if err != nil {
		return err
	}

	lectures, err := loadLectures(schedulePath, opts, log)
	if err != nil {
		return err
	}

	ocr, err := vision.NewTesseractRecognizer(cfg.OCRLanguage)
	if err != nil {
		return fmt.Errorf("init ocr engine: %w", err)
	}
	defer ocr.Close()

	frames := ffmpeg.NewFrameSource(cfg.FFmpegPath, log)
	search := usecase.NewBoundarySearch(frames, ocr, usecase.BoundarySearchConfig{
		RateHz:     cfg.FrameRateHz,
		SaveFrames: opts.saveFrames,
	}, log)
	discovery := usecase.NewDiscovery(search, log)

	entries, err := discovery.Run(ctx, videoPath, lectures, usecase.DiscoverOptions{
		WindowSeconds:  opts.window,
		Crop:           crop,
		TruncateLength: opts.truncate,
		StripPrefix:    opts.stripPrefix,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrAborted) {
			log.Warn("run interrupted by user")
			return err
		}
		return fmt.Errorf("discover timestamps: %w", err)
	}

	var exporter port.ResultExporter = report.NewCSVExporter(log)
	if err := exporter.Export(opts.output, lectures, entries); err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	fmt.Printf("\nTimestamps exported to: %s\n", opts.output)

	printSummary(lectures)

	stdin := bufio.NewScanner(os.Stdin)
	hadMisses := promptManualTimestamps(stdin, lectures, entries)
	if hadMisses && !confirm(stdin, "\nProceed with chapter creation? (y/n): ") {
		fmt.Println("Chapter creation cancelled")
		return nil
	}

	return writeChapters(ctx, videoPath, lectures, entries, cfg, log)
}

func cropFromFlag(values []float64) (*entity.CropRegion, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("crop needs exactly 4 values (left,top,right,bottom), got %d", len(values))
	}
	crop := &entity.CropRegion{Left: values[0], Top: values[1], Right: values[2], Bottom: values[3]}
	if err := crop.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crop region: %w", err)
	}
	return crop, nil
}

func loadLectures(schedulePath string, opts *cliOptions, log *zap.Logger) ([]entity.Lecture, error) {
	var source port.ScheduleSource = excel.NewScheduleSource(log)
	lectures, err := source.Load(schedulePath)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	entity.SortLectures(lectures)

	switch {
	case opts.lectureRange != "":
		r, err := entity.ParseRange(opts.lectureRange)
		if err != nil {
			return nil, fmt.Errorf("invalid --range: %w", err)
		}
		lectures = entity.FilterByLectureRange(lectures, r)
	case opts.sectionRange != "":
		r, err := entity.ParseRange(opts.sectionRange)
		if err != nil {
			return nil, fmt.Errorf("invalid --section: %w", err)
		}
		lectures = entity.FilterBySectionRange(lectures, r)
	}

	if len(lectures) == 0 {
		return nil, fmt.Errorf("no lectures selected")
	}

	entity.CalculateEstimates(lectures)
	return lectures, nil
}

func printSummary(lectures []entity.Lecture) {
	var found, missed []int
	for _, l := range lectures {
		if l.Found {
			found = append(found, l.LectureNumber)
		} else {
			missed = append(missed, l.LectureNumber)
		}
	}

	fmt.Println("\n=== Search summary ===")
	fmt.Printf("Lectures processed: %d\n", len(lectures))
	fmt.Printf("Found: %d %v\n", len(found), found)
	fmt.Printf("Not found: %d %v\n", len(missed), missed)
	fmt.Println(strings.Repeat("=", 22))
}

// promptManualTimestamps lets the operator supply an HH:MM:SS start for each
// missed lecture. Blank input skips a lecture; malformed input re-prompts.
// Reports whether any lecture was initially missing.
func promptManualTimestamps(scanner *bufio.Scanner, lectures []entity.Lecture, entries []entity.TimestampEntry) bool {
	hadMisses := false

	for i := range lectures {
		if lectures[i].Found {
			continue
		}
		hadMisses = true

		fmt.Printf("\n%d. %s\n", i+1, lectures[i].Title)
		fmt.Printf("   Search started from: %s\n", timefmt.SecondsToHMS(entries[i].StartSeconds))

		for {
			fmt.Print("Enter timestamp manually (HH:MM:SS) or press Enter to skip: ")
			if !scanner.Scan() {
				return hadMisses
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				break
			}

			seconds, err := timefmt.ParseHMS(input)
			if err != nil {
				fmt.Println("Invalid format, use HH:MM:SS")
				continue
			}

			entries[i] = entity.TimestampEntry{
				StartSeconds: seconds,
				EndSeconds:   seconds + float64(lectures[i].DurationMinutes)*60,
			}
			lectures[i].Found = true
			fmt.Printf("Timestamp set to %s\n", timefmt.SecondsToHMS(seconds))
			break
		}
	}

	return hadMisses
}

func confirm(scanner *bufio.Scanner, prompt string) bool {
	fmt.Print(prompt)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func writeChapters(ctx context.Context, videoPath string, lectures []entity.Lecture, entries []entity.TimestampEntry, cfg *config.Config, log *zap.Logger) error {
	var chapters []entity.Chapter
	for i, l := range lectures {
		if !l.Found {
			continue
		}
		chapters = append(chapters, entity.NewChapter(entries[i].StartSeconds, entries[i].EndSeconds, l.Title))
	}
	if len(chapters) == 0 {
		fmt.Println("\nNo lectures found, skipping chapter creation")
		return nil
	}

	fmt.Println("\nAdding chapters to video...")
	var sink port.ChapterSink = ffmpeg.NewChapterSink(cfg.FFmpegPath, cfg.FFprobePath, log)
	outputPath, err := sink.WriteChapters(ctx, videoPath, chapters, "")
	if err != nil {
		return fmt.Errorf("write chapters: %w", err)
	}

	fmt.Printf("Chapters added to: %s\n", outputPath)
	return nil
}
