package spectrum

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	// DefaultSize is the transform length. The byte spectrum has DefaultSize/2 bins.
	DefaultSize      = 256
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0

	minSize = 32
)

// ErrInvalidSize is returned for transform sizes that are not a power of two
// or too small to give every band at least one bin.
var ErrInvalidSize = errors.New("invalid transform size")

// Analyzer turns time-domain samples into a smoothed byte spectrum in the
// manner of a browser AnalyserNode: Blackman window, FFT, linear magnitude
// smoothing carried across calls, then decibel scaling to 0–255.
type Analyzer struct {
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	fft      *fourier.FFT
	window   []float64
	buf      []float64
	mono     []float64
	coeffs   []complex128
	smoothed []float64
	bytes    []uint8
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithSmoothing sets the time constant applied to magnitudes between calls.
func WithSmoothing(tau float64) AnalyzerOption {
	return func(a *Analyzer) { a.smoothing = tau }
}

// WithDecibelRange sets the range mapped onto 0–255.
func WithDecibelRange(minDB, maxDB float64) AnalyzerOption {
	return func(a *Analyzer) {
		a.minDB = minDB
		a.maxDB = maxDB
	}
}

// NewAnalyzer creates an Analyzer for the given transform size.
func NewAnalyzer(size int, opts ...AnalyzerOption) (*Analyzer, error) {
	if size < minSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	a := &Analyzer{
		size:      size,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.smoothing < 0 || a.smoothing >= 1 {
		return nil, fmt.Errorf("smoothing %.2f outside [0,1)", a.smoothing)
	}
	if a.maxDB <= a.minDB {
		return nil, fmt.Errorf("decibel range %.1f..%.1f is empty", a.minDB, a.maxDB)
	}

	w := make([]float64, size)
	for i := range w {
		w[i] = 1
	}
	a.window = window.Blackman(w)
	a.fft = fourier.NewFFT(size)
	a.buf = make([]float64, size)
	a.coeffs = make([]complex128, size/2+1)
	a.smoothed = make([]float64, size/2)
	a.bytes = make([]uint8, size/2)
	return a, nil
}

// Size returns the transform length.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of frequency bins produced per call.
func (a *Analyzer) Bins() int { return a.size / 2 }

// Reset forgets the smoothed magnitudes.
func (a *Analyzer) Reset() {
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
}

// Analyze runs one analysis step over mono samples in [-1,1]. Only the most
// recent Size samples are used; shorter input is zero-padded, so calling with
// nil lets the smoothed spectrum decay like silence.
func (a *Analyzer) Analyze(samples []float64) AudioData {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	n := copy(a.buf, samples)
	for i := n; i < a.size; i++ {
		a.buf[i] = 0
	}
	for i := range a.buf {
		a.buf[i] *= a.window[i]
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.buf)

	dbRange := a.maxDB - a.minDB
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / float64(a.size)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag

		scaled := 0.0
		if a.smoothed[k] > 0 {
			db := 20 * math.Log10(a.smoothed[k])
			scaled = 255 * (db - a.minDB) / dbRange
		}
		switch {
		case scaled <= 0:
			a.bytes[k] = 0
		case scaled >= 255:
			a.bytes[k] = 255
		default:
			a.bytes[k] = uint8(scaled)
		}
	}

	return Levels(a.bytes)
}

// AnalyzePCM mixes interleaved signed 16-bit little-endian PCM down to mono
// and analyzes it.
func (a *Analyzer) AnalyzePCM(pcm []byte, channels int) AudioData {
	if channels < 1 {
		channels = 1
	}
	frameSize := channels * 2
	frames := len(pcm) / frameSize
	if cap(a.mono) < frames {
		a.mono = make([]float64, frames)
	}
	a.mono = a.mono[:frames]

	for f := range frames {
		var sum float64
		for ch := range channels {
			off := f*frameSize + ch*2
			sum += float64(int16(binary.LittleEndian.Uint16(pcm[off:]))) / 32768.0
		}
		a.mono[f] = sum / float64(channels)
	}
	return a.Analyze(a.mono)
}
