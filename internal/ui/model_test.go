package ui

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/spectra/internal/config"
	"github.com/olivier-w/spectra/internal/player"
	"github.com/olivier-w/spectra/internal/render"
	"github.com/olivier-w/spectra/internal/scene"
	"github.com/olivier-w/spectra/internal/spectrum"
	"github.com/olivier-w/spectra/internal/theme"
)

type fakeAudio struct {
	playing  bool
	pos      time.Duration
	restarts int
	closed   int
	done     chan struct{}
}

func newFakeAudio() *fakeAudio { return &fakeAudio{done: make(chan struct{})} }

func (a *fakeAudio) Play()                   { a.playing = true }
func (a *fakeAudio) Pause()                  { a.playing = false }
func (a *fakeAudio) Paused() bool            { return !a.playing }
func (a *fakeAudio) Position() time.Duration { return a.pos }
func (a *fakeAudio) Duration() time.Duration { return 3 * time.Minute }
func (a *fakeAudio) Channels() int           { return 2 }
func (a *fakeAudio) Done() <-chan struct{}   { return a.done }
func (a *fakeAudio) Close()                  { a.closed++ }

// Recent returns a loud square wave.
func (a *fakeAudio) Recent(n int) []byte {
	pcm := make([]byte, n)
	for i := 0; i+1 < n; i += 2 {
		if (i/8)%2 == 0 {
			pcm[i], pcm[i+1] = 0xff, 0x7f
		} else {
			pcm[i], pcm[i+1] = 0x01, 0x80
		}
	}
	return pcm
}

func (a *fakeAudio) Restart() error {
	a.restarts++
	a.playing = false
	a.pos = 0
	return nil
}

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	cfg := config.Default()
	state, err := scene.New(cfg, theme.Default(), render.Viewport(80, 21), scene.WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}
	analyzer, err := spectrum.NewAnalyzer(cfg.Analyzer.FFTSize)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	opts = append([]Option{WithRenderer(render.NewPlain())}, opts...)
	m := New(state, analyzer, cfg.FPS, opts...)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func withAudio(t *testing.T, m Model, a *fakeAudio) Model {
	t.Helper()
	next, _ := m.Update(audioLoadedMsg{audio: a, meta: player.Metadata{Title: "Night Drive"}})
	return next.(Model)
}

func click(m Model) Model {
	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return next.(Model)
}

func press(m Model, keys string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return next.(Model)
}

func TestFirstClickPlaysLaterClicksCycleTheme(t *testing.T) {
	a := newFakeAudio()
	m := withAudio(t, newTestModel(t), a)

	m = click(m)
	if !a.playing || !m.playing {
		t.Fatal("expected first click to start playback")
	}
	if m.state.ThemeIndex() != 0 {
		t.Fatalf("expected theme unchanged on first click, got %d", m.state.ThemeIndex())
	}

	m = click(m)
	if m.state.ThemeIndex() != 1 {
		t.Fatalf("expected second click to cycle theme, got %d", m.state.ThemeIndex())
	}
	if !a.playing {
		t.Fatal("expected playback to continue on theme change")
	}
}

func TestSpaceTogglesPlayback(t *testing.T) {
	a := newFakeAudio()
	m := withAudio(t, newTestModel(t), a)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if !a.playing {
		t.Fatal("expected space to start playback")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if a.playing || m.playing {
		t.Fatal("expected second space to pause")
	}
}

func TestKeysDriveSimulation(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "t")
	if m.state.ThemeIndex() != 1 {
		t.Fatalf("expected theme 1, got %d", m.state.ThemeIndex())
	}
	m = press(m, "3")
	if m.state.Particles() != 2 {
		t.Fatalf("expected 2 spawned particles, got %d", m.state.Particles())
	}
	m = press(m, "c")
	if m.state.Particles() != 0 {
		t.Fatalf("expected clear, got %d", m.state.Particles())
	}
	m = press(m, "r")
	if m.state.MovingForward() {
		t.Fatal("expected r to reverse the camera")
	}
}

func TestFrameRendersSceneAndHUD(t *testing.T) {
	a := newFakeAudio()
	m := withAudio(t, newTestModel(t), a)
	m = click(m)

	for range 5 {
		next, cmd := m.Update(frameMsg(time.Now()))
		if cmd == nil {
			t.Fatal("expected next frame to be scheduled")
		}
		m = next.(Model)
	}
	if m.state.Frame() != 5 {
		t.Fatalf("expected 5 frames, got %d", m.state.Frame())
	}
	if m.state.HistoryLen() == 0 {
		t.Fatal("expected playing frames to feed the tunnel history")
	}

	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 24 {
		t.Fatalf("expected 24 lines, got %d", len(lines))
	}
	if !strings.Contains(view, "Night Drive") || !strings.Contains(view, "Pastel") {
		t.Fatalf("expected HUD with title and theme, got %q", lines[len(lines)-3])
	}
}

func TestPausedFramesClearHistory(t *testing.T) {
	a := newFakeAudio()
	m := withAudio(t, newTestModel(t), a)
	m = click(m)
	next, _ := m.Update(frameMsg(time.Now()))
	m = next.(Model)

	a.Pause()
	next, _ = m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if m.playing {
		t.Fatal("expected model to follow the player's paused state")
	}
	if m.state.HistoryLen() != 0 {
		t.Fatalf("expected history cleared while paused, got %d", m.state.HistoryLen())
	}
}

func TestPlaybackEndedRestartsPaused(t *testing.T) {
	a := newFakeAudio()
	m := withAudio(t, newTestModel(t), a)
	m = click(m)

	next, cmd := m.Update(playbackEndedMsg{audio: a})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a new wait on the restarted track")
	}
	if a.restarts != 1 || m.playing {
		t.Fatalf("expected one paused restart, got restarts=%d playing=%v", a.restarts, m.playing)
	}
	if m.state.LastBlock() != 0 {
		t.Fatalf("expected beat tracker reset, got %d", m.state.LastBlock())
	}

	other := newFakeAudio()
	next, _ = m.Update(playbackEndedMsg{audio: other})
	if next.(Model).audio != Audio(a) || a.restarts != 1 {
		t.Fatal("expected stale end message to be ignored")
	}
}

func TestAudioFailureShowsNoAudio(t *testing.T) {
	loads := 0
	loader := func() (Audio, player.Metadata, error) {
		loads++
		return nil, player.Metadata{}, errors.New("no device")
	}
	m := newTestModel(t, WithLoader(loader))

	next, _ := m.Update(loadCmd(loader)())
	m = next.(Model)
	if !strings.Contains(m.View(), "no audio") {
		t.Fatal("expected HUD to report missing audio")
	}

	m = click(m)
	if m.playing {
		t.Fatal("expected playback to stay off without audio")
	}
	if !m.loading || !m.pendingPlay {
		t.Fatal("expected toggle to retry loading")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if next.(Model).View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestPendingPlayStartsWhenLoaded(t *testing.T) {
	a := newFakeAudio()
	loader := func() (Audio, player.Metadata, error) { return a, player.Metadata{Title: "x"}, nil }
	m := newTestModel(t, WithLoader(loader))

	m = press(m, "p")
	if !m.pendingPlay {
		t.Fatal("expected play request to wait for the loader")
	}
	next, _ := m.Update(loadCmd(loader)())
	m = next.(Model)
	if !a.playing || !m.playing {
		t.Fatal("expected playback once audio arrived")
	}
}

func TestQuitClosesAudio(t *testing.T) {
	a := newFakeAudio()
	m := withAudio(t, newTestModel(t), a)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !next.(Model).quitting {
		t.Fatal("expected quit")
	}
	if a.closed != 1 {
		t.Fatalf("expected audio closed once, got %d", a.closed)
	}
}

func TestHUDToggleResizesScene(t *testing.T) {
	m := newTestModel(t)
	with := m.sceneRows()
	m = press(m, "h")
	if m.sceneRows() != 24 || with >= 24 {
		t.Fatalf("expected hidden HUD to give the scene every row, got %d then %d", with, m.sceneRows())
	}
}

func TestWindowTitle(t *testing.T) {
	if got := windowTitle("Song", true); got != "⏸ Song - spectra" {
		t.Fatalf("unexpected paused title %q", got)
	}
	if got := windowTitle("", false); got != "▶ spectra - spectra" {
		t.Fatalf("unexpected playing title %q", got)
	}
}
