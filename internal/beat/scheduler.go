// Package beat turns elapsed playback time into bar and block counts and
// fires once each time a new block begins.
package beat

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultBPM          = 142.0
	DefaultBeatsPerBar  = 4
	DefaultBarsPerBlock = 16
)

// ErrInvalidTempo is returned by New for non-positive timing parameters.
var ErrInvalidTempo = errors.New("invalid tempo")

// Scheduler tracks the last block that fired. It is not safe for concurrent
// use; the frame loop owns it.
type Scheduler struct {
	bpm          float64
	beatsPerBar  int
	barsPerBlock int

	secondsPerBar float64
	lastBlock     int
}

// New builds a scheduler for the given tempo and grouping.
func New(bpm float64, beatsPerBar, barsPerBlock int) (*Scheduler, error) {
	if !(bpm > 0) || math.IsInf(bpm, 0) {
		return nil, fmt.Errorf("%w: bpm %v", ErrInvalidTempo, bpm)
	}
	if beatsPerBar <= 0 || barsPerBlock <= 0 {
		return nil, fmt.Errorf("%w: %d beats/bar, %d bars/block", ErrInvalidTempo, beatsPerBar, barsPerBlock)
	}
	return &Scheduler{
		bpm:           bpm,
		beatsPerBar:   beatsPerBar,
		barsPerBlock:  barsPerBlock,
		secondsPerBar: 60 / bpm * float64(beatsPerBar),
	}, nil
}

// Default returns a 142 BPM scheduler firing every 16 bars of 4/4.
func Default() *Scheduler {
	s, _ := New(DefaultBPM, DefaultBeatsPerBar, DefaultBarsPerBlock)
	return s
}

func (s *Scheduler) BPM() float64           { return s.bpm }
func (s *Scheduler) BarsPerBlock() int      { return s.barsPerBlock }
func (s *Scheduler) SecondsPerBar() float64 { return s.secondsPerBar }

// BlockDuration is the length of one block in seconds.
func (s *Scheduler) BlockDuration() float64 {
	return s.secondsPerBar * float64(s.barsPerBlock)
}

// Bar returns the zero-based bar index at elapsed seconds.
func (s *Scheduler) Bar(elapsed float64) int {
	if elapsed <= 0 {
		return 0
	}
	return int(math.Floor(elapsed / s.secondsPerBar))
}

// Block returns the zero-based block index at elapsed seconds.
func (s *Scheduler) Block(elapsed float64) int {
	return s.Bar(elapsed) / s.barsPerBlock
}

// Check reports whether elapsed has entered a block later than the last one
// that fired, and records it if so. Seeking backwards never fires.
func (s *Scheduler) Check(elapsed float64) bool {
	block := s.Block(elapsed)
	if block <= s.lastBlock {
		return false
	}
	s.lastBlock = block
	return true
}

// LastTriggeredBlock returns the most recent block that fired, 0 if none.
func (s *Scheduler) LastTriggeredBlock() int { return s.lastBlock }

// Reset forgets fired blocks so the next track starts over.
func (s *Scheduler) Reset() { s.lastBlock = 0 }
