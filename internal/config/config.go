// Package config holds the tunable constants of the visualizer.
package config

import (
	"errors"
	"fmt"

	"github.com/olivier-w/spectra/internal/beat"
	"github.com/olivier-w/spectra/internal/particle"
	"github.com/olivier-w/spectra/internal/spectrum"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Camera struct {
	Speed    float64 // units per frame
	InitialZ float64
}

type Tunnel struct {
	HistoryLength int
	ZStep         float64
	ZOffset       float64
	SkipAmount    int
	WireframeSkip int
}

type CentralObject struct {
	ZOffset float64
	Size    float64
}

type RotatingElements struct {
	ZOffset float64
}

type AudioCircles struct {
	Enabled bool
	ZOffset float64
}

type Film struct {
	Bars  float64
	Alpha float64
}

type Beat struct {
	BPM          float64
	BeatsPerBar  int
	BarsPerBlock int
	BurstCount   int
}

type Analyzer struct {
	FFTSize   int
	Smoothing float64
	MinDB     float64
	MaxDB     float64
}

// Config is the full runtime configuration.
type Config struct {
	Camera           Camera
	Tunnel           Tunnel
	CentralObject    CentralObject
	RotatingElements RotatingElements
	AudioCircles     AudioCircles
	Film             Film
	Beat             Beat
	Analyzer         Analyzer

	MaxParticles int
	FPS          int
	Seed         uint64 // 0 picks a random seed
	ThemeIndex   int
}

func Default() Config {
	return Config{
		Camera: Camera{Speed: 15, InitialZ: 800},
		Tunnel: Tunnel{
			HistoryLength: spectrum.DefaultHistoryLength,
			ZStep:         20,
			ZOffset:       50,
			SkipAmount:    3,
			WireframeSkip: 5,
		},
		CentralObject:    CentralObject{ZOffset: -4000, Size: 1000},
		RotatingElements: RotatingElements{ZOffset: -1000},
		AudioCircles:     AudioCircles{ZOffset: -1500},
		Film:             Film{Bars: 2, Alpha: 80},
		Beat: Beat{
			BPM:          beat.DefaultBPM,
			BeatsPerBar:  beat.DefaultBeatsPerBar,
			BarsPerBlock: beat.DefaultBarsPerBlock,
			BurstCount:   100,
		},
		Analyzer: Analyzer{
			FFTSize:   spectrum.DefaultSize,
			Smoothing: spectrum.DefaultSmoothing,
			MinDB:     spectrum.DefaultMinDB,
			MaxDB:     spectrum.DefaultMaxDB,
		},
		MaxParticles: particle.MaxParticles,
		FPS:          30,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalid.
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Camera.Speed >= 0, "camera speed must not be negative"},
		{c.Tunnel.HistoryLength >= 2, "tunnel history length must be at least 2"},
		{c.Tunnel.ZStep > 0, "tunnel z step must be positive"},
		{c.Tunnel.SkipAmount > 0, "tunnel skip amount must be positive"},
		{c.Tunnel.WireframeSkip > 0, "tunnel wireframe skip must be positive"},
		{c.CentralObject.Size > 0, "central object size must be positive"},
		{c.CentralObject.ZOffset < 0, "central object must sit in front of the camera"},
		{c.RotatingElements.ZOffset < 0, "rotating elements must sit in front of the camera"},
		{c.AudioCircles.ZOffset < 0, "audio circles must sit in front of the camera"},
		{c.Film.Bars > 0, "film duration must be positive"},
		{c.Film.Alpha >= 0 && c.Film.Alpha <= 255, "film alpha must be within 0-255"},
		{c.Beat.BPM > 0, "bpm must be positive"},
		{c.Beat.BeatsPerBar > 0, "beats per bar must be positive"},
		{c.Beat.BarsPerBlock > 0, "bars per block must be positive"},
		{c.Beat.BurstCount >= 0, "burst count must not be negative"},
		{c.Analyzer.FFTSize >= 32 && c.Analyzer.FFTSize&(c.Analyzer.FFTSize-1) == 0, "fft size must be a power of two >= 32"},
		{c.Analyzer.Smoothing >= 0 && c.Analyzer.Smoothing < 1, "smoothing must be within [0,1)"},
		{c.Analyzer.MinDB < c.Analyzer.MaxDB, "min decibels must be below max decibels"},
		{c.MaxParticles > 0, "max particles must be positive"},
		{c.FPS >= 1 && c.FPS <= 120, "fps must be within 1-120"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalid, chk.msg)
		}
	}
	return nil
}

// Bins is the spectrum length the analyzer produces.
func (c Config) Bins() int { return c.Analyzer.FFTSize / 2 }
