package spectrum

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func tone(size, bin int, amp float64) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(size))
	}
	return out
}

func TestNewAnalyzerRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, 16, 100, 300} {
		if _, err := NewAnalyzer(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
	if _, err := NewAnalyzer(256, WithSmoothing(1)); err == nil {
		t.Fatal("expected smoothing of 1 to be rejected")
	}
	if _, err := NewAnalyzer(256, WithDecibelRange(-30, -100)); err == nil {
		t.Fatal("expected inverted decibel range to be rejected")
	}
}

func TestAnalyzeSilenceIsZero(t *testing.T) {
	a, err := NewAnalyzer(DefaultSize)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	got := a.Analyze(nil)
	if len(got.Frequencies) != a.Bins() {
		t.Fatalf("expected %d bins, got %d", a.Bins(), len(got.Frequencies))
	}
	if got.Volume != 0 {
		t.Fatalf("expected zero volume for silence, got %v", got.Volume)
	}
}

func TestAnalyzeLocatesLowTone(t *testing.T) {
	a, err := NewAnalyzer(DefaultSize)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	var got AudioData
	for range 5 {
		got = a.Analyze(tone(DefaultSize, 4, 0.9))
	}
	if got.Frequencies[4] != 255 {
		t.Fatalf("expected saturated bin 4, got %d", got.Frequencies[4])
	}
	if got.Frequencies[100] >= got.Frequencies[4] {
		t.Fatalf("expected far bin below peak: %d >= %d", got.Frequencies[100], got.Frequencies[4])
	}
	if got.Bass <= got.Treble {
		t.Fatalf("expected bass %v above treble %v", got.Bass, got.Treble)
	}
}

func TestAnalyzeSmoothingDecays(t *testing.T) {
	a, err := NewAnalyzer(DefaultSize)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	a.Analyze(tone(DefaultSize, 20, 1))

	prev := a.Analyze(nil).Frequencies[20]
	if prev == 0 {
		t.Fatal("expected smoothing to carry energy into the next frame")
	}
	for range 40 {
		cur := a.Analyze(nil).Frequencies[20]
		if cur > prev {
			t.Fatalf("expected non-increasing decay, got %d after %d", cur, prev)
		}
		prev = cur
	}
	if prev != 0 {
		t.Fatalf("expected energy to decay to zero, got %d", prev)
	}

	a.Analyze(tone(DefaultSize, 20, 1))
	a.Reset()
	if got := a.Analyze(nil).Volume; got != 0 {
		t.Fatalf("expected reset to drop smoothed energy, got volume %v", got)
	}
}

func TestAnalyzePCMMixesStereo(t *testing.T) {
	a, err := NewAnalyzer(DefaultSize)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	samples := tone(DefaultSize, 8, 0.5)
	pcm := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := uint16(int16(s * 32767))
		binary.LittleEndian.PutUint16(pcm[i*4:], v)
		binary.LittleEndian.PutUint16(pcm[i*4+2:], v)
	}

	got := a.AnalyzePCM(pcm, 2)
	if got.Volume == 0 {
		t.Fatal("expected non-zero volume for a stereo tone")
	}
	if got.Frequencies[8] == 0 {
		t.Fatal("expected energy at the tone bin")
	}
}
