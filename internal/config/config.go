package config

import "time"

// Config is one recorder run.
type Config struct {
	InputPath    string // frames base path, frame directory or PDF export
	FrameCount   int
	PagePath     string
	Output       string // video file; empty with PNGDir set writes stills only
	PNGDir       string
	Width        int
	Height       int
	FPS          int
	Workers      int
	Variant      int
	ScriptPath   string
	Duration     float64 // seconds of scrolling, excluding the preloader
	FadeDuration float64
	DPI          int
	AudioPath    string
	VideoEncoder string
	Quality      int
	Preset       string

	QRBaseURL string // stamps a QR of the CTA link when set
	QRSize    int

	LoadRetries    int
	LoadRetryDelay time.Duration
	LoadTimeout    time.Duration

	ShowStats    bool
	BuildVersion string
}

// SegmentParams describe the encoded stream for the finishing filter.
type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	FadeDuration  float64
	Background    string // hex colour the fades go through
}

// Params derives the encoder parameters of a run.
func (c *Config) Params(duration float64, background string) SegmentParams {
	return SegmentParams{
		Width:        c.Width,
		Height:       c.Height,
		FPS:          c.FPS,
		Duration:     duration,
		FadeDuration: c.FadeDuration,
		Background:   background,
	}
}
