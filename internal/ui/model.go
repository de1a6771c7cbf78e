package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/spectra/internal/player"
	"github.com/olivier-w/spectra/internal/render"
	"github.com/olivier-w/spectra/internal/scene"
	"github.com/olivier-w/spectra/internal/spectrum"
	"github.com/olivier-w/spectra/internal/util"
)

// Audio is the playback source the frame loop reads from. *player.Player
// implements it.
type Audio interface {
	Play()
	Pause()
	Paused() bool
	Position() time.Duration
	Duration() time.Duration
	Recent(n int) []byte
	Channels() int
	Done() <-chan struct{}
	Restart() error
	Close()
}

// Loader opens the audio source. It is retried on the next play toggle after
// a failure.
type Loader func() (Audio, player.Metadata, error)

// Model is the Bubbletea model for the visualizer screen.
type Model struct {
	state    *scene.State
	renderer *render.Renderer
	analyzer *spectrum.Analyzer
	fps      int
	log      *slog.Logger

	audio       Audio
	load        Loader
	loading     bool
	pendingPlay bool
	audioErr    error
	metadata    player.Metadata

	keys     keyMap
	help     help.Model
	progress progress.Model
	spinner  spinner.Model

	width    int
	height   int
	started  bool
	playing  bool
	showHUD  bool
	elapsed  time.Duration
	frame    string
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithLoader sets how the track is opened. Without one the model runs with no
// audio and never plays.
func WithLoader(load Loader) Option {
	return func(m *Model) { m.load = load }
}

// WithRenderer replaces the terminal renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// New creates the visualizer model driving state at fps frames per second.
func New(state *scene.State, analyzer *spectrum.Analyzer, fps int, opts ...Option) Model {
	m := Model{
		state:    state,
		analyzer: analyzer,
		fps:      fps,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyle)),
		showHUD:  true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.renderer == nil {
		m.renderer = render.New()
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	if m.fps < 1 {
		m.fps = 30
	}
	if m.load != nil {
		m.loading = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameCmd(m.fps), tea.SetWindowTitle("spectra")}
	if m.load != nil {
		cmds = append(cmds, loadCmd(m.load), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func loadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		a, meta, err := load()
		return audioLoadedMsg{audio: a, meta: meta, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !m.started {
			return m.togglePlay()
		}
		m.state.CycleTheme()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		m.step()
		return m, frameCmd(m.fps)

	case audioLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Warn("audio unavailable", "err", msg.err)
			m.audioErr = msg.err
			m.pendingPlay = false
			m.playing = false
			return m, nil
		}
		m.audio = msg.audio
		m.audioErr = nil
		m.metadata = msg.meta
		cmds := []tea.Cmd{checkDone(m.audio), tea.SetWindowTitle(windowTitle(m.metadata.Label(), true))}
		if m.pendingPlay {
			m.pendingPlay = false
			m.audio.Play()
			m.playing = true
			cmds[1] = tea.SetWindowTitle(windowTitle(m.metadata.Label(), false))
		}
		return m, tea.Batch(cmds...)

	case playbackEndedMsg:
		if msg.audio != m.audio || m.audio == nil {
			return m, nil
		}
		m.state.TrackEnded()
		m.playing = false
		if err := m.audio.Restart(); err != nil {
			m.log.Error("restart failed", "err", err)
		}
		m.elapsed = 0
		m.log.Info("playback ended")
		return m, tea.Batch(checkDone(m.audio), tea.SetWindowTitle(windowTitle(m.metadata.Label(), true)))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-20, 10)
		m.state.Resize(render.Viewport(m.width, m.sceneRows()))
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.audio != nil {
			m.audio.Close()
		}
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Play):
		return m.togglePlay()
	case key.Matches(msg, m.keys.Theme):
		m.state.CycleTheme()
	case key.Matches(msg, m.keys.Spawn):
		m.state.SpawnKey()
	case key.Matches(msg, m.keys.Clear):
		m.state.ClearParticles()
	case key.Matches(msg, m.keys.Reverse):
		m.state.ToggleDirection()
	case key.Matches(msg, m.keys.HUD):
		m.showHUD = !m.showHUD
		m.state.Resize(render.Viewport(m.width, m.sceneRows()))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.state.Resize(render.Viewport(m.width, m.sceneRows()))
	}
	return m, nil
}

// togglePlay starts or pauses playback. With no source loaded yet it retries
// the loader and plays once it arrives.
func (m Model) togglePlay() (tea.Model, tea.Cmd) {
	m.started = true
	if m.audio == nil {
		if m.load == nil || m.loading {
			m.pendingPlay = m.load != nil
			return m, nil
		}
		m.loading = true
		m.pendingPlay = true
		return m, tea.Batch(loadCmd(m.load), m.spinner.Tick)
	}
	if m.playing {
		m.audio.Pause()
		m.playing = false
	} else {
		m.audio.Play()
		m.playing = true
	}
	return m, tea.SetWindowTitle(windowTitle(m.metadata.Label(), !m.playing))
}

// step advances the simulation one frame and renders it.
func (m *Model) step() {
	var (
		audio   spectrum.AudioData
		elapsed float64
	)
	if m.audio != nil {
		m.elapsed = m.audio.Position()
		elapsed = m.elapsed.Seconds()
		m.playing = !m.audio.Paused()
		if m.playing {
			pcm := m.audio.Recent(m.analyzer.Size() * m.audio.Channels() * 2)
			audio = m.analyzer.AnalyzePCM(pcm, m.audio.Channels())
		}
	}
	dl := m.state.Step(scene.FrameInput{Audio: audio, Elapsed: elapsed, Playing: m.playing})
	if m.width > 0 {
		m.frame = m.renderer.Render(dl, m.width, m.sceneRows())
	}
}

// hudRows is the title and transport lines plus however tall the help is.
func (m Model) hudRows() int {
	if !m.showHUD {
		return 0
	}
	return 2 + lipgloss.Height(m.help.View(m.keys))
}

func (m Model) sceneRows() int {
	return max(m.height-m.hudRows(), 1)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.showHUD {
		return m.frame
	}
	return m.frame + "\n" + m.hud()
}

func (m Model) hud() string {
	var b strings.Builder

	title := m.metadata.Label()
	if title == "" {
		title = "no track"
	}
	th := m.state.Theme()
	info := fmt.Sprintf("%s  %d particles", th.Name, m.state.Particles())
	b.WriteString(headerStyle.Render("spectra") + "  " + titleStyle.Render(title) + "  " + statusStyle.Render(info))
	b.WriteString("\n")

	switch {
	case m.audioErr != nil:
		b.WriteString(warnStyle.Render("no audio: " + m.audioErr.Error()))
	case m.audio == nil && m.loading:
		b.WriteString(m.spinner.View() + statusStyle.Render(" loading"))
	case m.audio == nil:
		b.WriteString(warnStyle.Render("no audio"))
	default:
		var ratio float64
		if d := m.audio.Duration(); d > 0 {
			ratio = min(max(m.elapsed.Seconds()/d.Seconds(), 0), 1)
		}
		icon := "❚❚"
		if m.playing {
			icon = "▶"
		}
		b.WriteString(statusStyle.Render(icon) + " " +
			timeStyle.Render(util.FormatDuration(m.elapsed)) + " " +
			m.progress.ViewAs(ratio) + " " +
			timeStyle.Render(util.FormatDuration(m.audio.Duration())))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func windowTitle(title string, paused bool) string {
	if title == "" {
		title = "spectra"
	}
	if paused {
		return "⏸ " + title + " - spectra"
	}
	return "▶ " + title + " - spectra"
}
