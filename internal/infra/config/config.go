package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	FFmpegPath  string `env:"FFMPEG_PATH"  envDefault:"ffmpeg"`
	FFprobePath string `env:"FFPROBE_PATH" envDefault:"ffprobe"`

	FrameRateHz float64 `env:"FRAME_RATE_HZ" envDefault:"1.0"`
	OCRLanguage string  `env:"OCR_LANGUAGE"  envDefault:"eng"`

	LogsDir  string `env:"LOGS_DIR"  envDefault:"logs"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// MetricsPort 0 disables the /metrics endpoint; OTELEndpoint ""
	// disables tracing.
	MetricsPort  int    `env:"METRICS_PORT"  envDefault:"0"`
	OTELEndpoint string `env:"OTEL_ENDPOINT" envDefault:""`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
