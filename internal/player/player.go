package player

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/olivier-w/spectra/internal/spectrum"
)

// tapBytes is how much recent PCM the analysis tap keeps (about 370 ms).
const tapBytes = 1 << 16

// countingReader tracks bytes handed to oto and copies them into the tap.
type countingReader struct {
	reader io.Reader
	tap    io.Writer
	mu     sync.Mutex
	pos    int64
	eof    bool
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	if n > 0 && cr.tap != nil {
		cr.tap.Write(p[:n])
	}
	cr.mu.Lock()
	cr.pos += int64(n)
	if errors.Is(err, io.EOF) {
		cr.eof = true
	}
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) EOF() bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.eof
}

func (cr *countingReader) Reset(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.eof = false
	cr.mu.Unlock()
}

// output is the part of *oto.Player the Player drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	BufferedSize() int
	SetVolume(float64)
}

// Player plays one decoded track through oto and exposes the PCM it has
// played for analysis. It starts paused.
type Player struct {
	file    *os.File
	decoder audioDecoder
	counter *countingReader
	tap     *spectrum.RingBuffer
	otoCtx  *oto.Context
	out     output
	log     *slog.Logger

	duration time.Duration
	started  bool
	paused   bool
	closed   bool
	done     chan struct{}
	stopMon  chan struct{}
	cleanup  func()
	mu       sync.Mutex
}

// Option configures a Player.
type Option func(*Player)

func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.log = l }
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   outputRate,
			ChannelCount: outputChannels,
			Format:       oto.FormatSignedInt16LE,
		})
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens path and prepares it for playback without starting it.
func New(path string, opts ...Option) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	stream, err := newStereoStream(dec)
	if err != nil {
		f.Close()
		return nil, err
	}
	ctx, err := initOto()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio device: %w", err)
	}

	tap := spectrum.NewRingBuffer(tapBytes)
	p := &Player{
		file:     f,
		decoder:  stream,
		counter:  &countingReader{reader: stream, tap: tap},
		tap:      tap,
		otoCtx:   ctx,
		duration: bytesToDuration(stream.Length()),
		paused:   true,
		done:     make(chan struct{}),
		stopMon:  make(chan struct{}),
		cleanup:  func() { f.Close() },
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}
	p.out = ctx.NewPlayer(p.counter)
	p.log.Info("track loaded", "path", path, "duration", p.duration, "sampleRate", dec.SampleRate(), "channels", dec.ChannelCount())
	return p, nil
}

func bytesToDuration(n int64) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(float64(n) / outputByteRate * float64(time.Second))
}

// monitor closes done once the decoder is exhausted and oto has drained.
func (p *Player) monitor(done, stop chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		p.mu.Lock()
		finished := !p.paused && p.counter.EOF() && (p.out.BufferedSize() == 0 || !p.out.IsPlaying())
		p.mu.Unlock()
		if finished {
			p.log.Info("track finished")
			close(done)
			return
		}
	}
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.out == nil {
		return
	}
	if !p.started {
		p.started = true
		go p.monitor(p.done, p.stopMon)
	}
	p.out.Play()
	p.paused = false
}

// Pause stops playback without losing the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil {
		p.out.Pause()
	}
	p.paused = true
}

// TogglePause switches between playing and paused and reports whether the
// player is now playing.
func (p *Player) TogglePause() bool {
	if p.Paused() {
		p.Play()
	} else {
		p.Pause()
	}
	return !p.Paused()
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position is the audible position: bytes read minus what oto still buffers.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	buffered := 0
	if p.out != nil {
		buffered = p.out.BufferedSize()
	}
	p.mu.Unlock()
	return bytesToDuration(p.counter.Pos() - int64(buffered))
}

func (p *Player) Duration() time.Duration { return p.duration }

// Channels is the interleaved channel count of the tap.
func (p *Player) Channels() int { return outputChannels }

// Done closes when the track has played to the end. Restart replaces it.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Recent returns up to n bytes of the PCM most recently heard, aligned to
// whole frames.
func (p *Player) Recent(n int) []byte {
	p.mu.Lock()
	buffered := 0
	if p.out != nil {
		buffered = p.out.BufferedSize()
	}
	p.mu.Unlock()

	window := p.tap.Latest(n+buffered, outputFrameSize)
	if len(window) > n {
		window = window[:n-n%outputFrameSize]
	}
	return window
}

// Restart rewinds to the start. The player stays paused until Play.
func (p *Player) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if p.out != nil {
		p.out.Pause()
	}
	if _, err := p.decoder.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	p.counter.Reset(0)
	p.tap.Clear()
	p.out = p.otoCtx.NewPlayer(p.counter)

	close(p.stopMon)
	p.stopMon = make(chan struct{})
	p.done = make(chan struct{})
	p.started = false
	p.paused = true
	return nil
}

// Close stops playback and releases the file. It is safe to call twice.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.out != nil {
		p.out.Pause()
	}
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}
