package scene

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/beat"
	"github.com/olivier-w/spectra/internal/config"
	"github.com/olivier-w/spectra/internal/particle"
	"github.com/olivier-w/spectra/internal/spectrum"
	"github.com/olivier-w/spectra/internal/theme"
)

const (
	timeStep      = 0.02
	keySpawnCount = 2
	spawnNear     = 500.0
	spawnFar      = 4000.0
	burstFar      = 1500.0
)

// FrameInput is what the frame loop knows about playback this frame.
type FrameInput struct {
	Audio   spectrum.AudioData
	Elapsed float64 // playback position in seconds
	Playing bool
}

// State is the whole simulation. It is owned by a single frame loop and is
// not safe for concurrent use.
type State struct {
	cfg      config.Config
	themes   *theme.Table
	themeIdx int
	theme    theme.Theme

	particles *particle.Manager
	history   *spectrum.History
	beats     *beat.Scheduler
	camera    rig
	film      film

	time     float64
	frame    int
	viewport Viewport
	rng      *rand.Rand
	log      *slog.Logger

	dl DrawList
}

// Option configures a State.
type Option func(*State)

func WithLogger(l *slog.Logger) Option {
	return func(s *State) { s.log = l }
}

// WithRand seeds every random decision the simulation makes.
func WithRand(rng *rand.Rand) Option {
	return func(s *State) { s.rng = rng }
}

// New builds the simulation at its start position with the configured theme.
func New(cfg config.Config, themes *theme.Table, vp Viewport, opts ...Option) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if themes == nil || themes.Len() == 0 {
		return nil, theme.ErrEmptyTable
	}
	beats, err := beat.New(cfg.Beat.BPM, cfg.Beat.BeatsPerBar, cfg.Beat.BarsPerBlock)
	if err != nil {
		return nil, fmt.Errorf("beat scheduler: %w", err)
	}

	s := &State{
		cfg:      cfg,
		themes:   themes,
		history:  spectrum.NewHistory(cfg.Tunnel.HistoryLength),
		beats:    beats,
		camera:   newRig(cfg.Camera.InitialZ, cfg.Camera.Speed, cfg.FPS),
		viewport: vp,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.particles = particle.NewManager(nil,
		particle.WithCapacity(cfg.MaxParticles),
		particle.WithRand(s.rng),
	)
	s.SetTheme(cfg.ThemeIndex)
	return s, nil
}

// Step advances one frame and returns what to draw. The returned list is
// reused by the next call.
func (s *State) Step(in FrameInput) *DrawList {
	if in.Playing && in.Elapsed > 0 && s.beats.Check(in.Elapsed) {
		s.burst(in.Elapsed)
	}

	audio := in.Audio
	cameraZ := s.camera.advance()
	s.frame++
	s.time += timeStep

	s.dl.reset()
	s.dl.Camera = CameraAt(cameraZ)
	s.dl.Viewport = s.viewport
	s.dl.Background = s.theme.BackgroundRGBA()

	s.film.step(&s.dl, s.frame)
	CentralObject(&s.dl, s.time, cameraZ, s.cfg.CentralObject, s.theme.Palette)

	if in.Playing {
		center := mgl64.Vec3{0, 0, cameraZ - s.uniform(spawnNear, spawnFar)}
		s.particles.SpawnFromAudio(center, audio, s.theme.ParticleTypes)

		if len(audio.Frequencies) > 0 {
			s.history.Push(audio.Frequencies)
			Tunnel(&s.dl, s.history, cameraZ, s.cfg.Tunnel, s.theme.Hue, s.viewport)
		}
		RotatingElements(&s.dl, audio, s.time, cameraZ, s.cfg, true, s.theme.Palette)
		if s.cfg.AudioCircles.Enabled {
			AudioCircles(&s.dl, audio, cameraZ, s.cfg.AudioCircles, s.theme.Palette)
		}
	} else {
		s.history.Clear()
	}

	s.particles.Update(&audio)
	s.dl.Sprites = s.particles.Sprites(s.frame, s.dl.Sprites)
	return &s.dl
}

// burst shows the film plane and, if the theme allows any particles, a
// cluster of sparks or of a random allowed kind.
func (s *State) burst(elapsed float64) {
	cameraZ := s.camera.z
	palette := s.theme.Colors()
	duration := int(s.beats.SecondsPerBar() * s.cfg.Film.Bars * float64(s.cfg.FPS))
	s.film = newFilm(palette[s.rng.IntN(len(palette))], s.frame, duration, s.cfg.Film.Alpha, s.viewport, cameraZ)

	allowed := s.theme.ParticleTypes
	if len(allowed) == 0 {
		s.log.Info("beat burst", "elapsed", elapsed, "block", s.beats.LastTriggeredBlock(), "particles", 0)
		return
	}
	kind := particle.Spark
	if !s.theme.Allows(particle.Spark) {
		kind = allowed[s.rng.IntN(len(allowed))]
	}
	pos := mgl64.Vec3{
		s.uniform(-s.viewport.Width/4, s.viewport.Width/4),
		s.uniform(-s.viewport.Height/4, s.viewport.Height/4),
		cameraZ - s.uniform(spawnNear, burstFar),
	}
	s.particles.SpawnBatch(pos, s.cfg.Beat.BurstCount, kind)
	s.log.Info("beat burst",
		"elapsed", elapsed,
		"block", s.beats.LastTriggeredBlock(),
		"kind", kind.String(),
		"particles", s.particles.Len(),
	)
}

// TrackEnded rewinds the beat tracker so the next playthrough bursts again.
func (s *State) TrackEnded() {
	s.beats.Reset()
	s.log.Debug("beat tracker reset")
}

// CycleTheme switches to the next theme, wrapping at the end.
func (s *State) CycleTheme() {
	s.SetTheme(s.themeIdx + 1)
}

// SetTheme selects theme i modulo the table size. Live particles keep their
// colors; new ones use the new palette.
func (s *State) SetTheme(i int) {
	n := s.themes.Len()
	s.themeIdx = (i%n + n) % n
	s.theme = s.themes.At(s.themeIdx)
	s.particles.SetPalette(s.theme.Colors())
}

// SpawnKey adds a couple of particles of a random allowed kind somewhere on
// screen in front of the camera.
func (s *State) SpawnKey() (particle.Kind, bool) {
	allowed := s.theme.ParticleTypes
	if len(allowed) == 0 {
		return particle.Standard, false
	}
	pos := mgl64.Vec3{
		s.uniform(-s.viewport.Width/2, s.viewport.Width/2),
		s.uniform(-s.viewport.Height/2, s.viewport.Height/2),
		s.camera.z - s.uniform(spawnNear, spawnFar),
	}
	kind := allowed[s.rng.IntN(len(allowed))]
	s.particles.SpawnBatch(pos, keySpawnCount, kind)
	return kind, true
}

func (s *State) ClearParticles() { s.particles.Clear() }

// ToggleDirection reverses the camera. Velocity eases to the new direction.
func (s *State) ToggleDirection() { s.camera.toggle() }

// Resize updates the viewport used by layout-dependent visuals.
func (s *State) Resize(vp Viewport) { s.viewport = vp }

func (s *State) Theme() theme.Theme { return s.theme }
func (s *State) ThemeIndex() int    { return s.themeIdx }
func (s *State) CameraZ() float64   { return s.camera.z }
func (s *State) Frame() int         { return s.frame }
func (s *State) Time() float64      { return s.time }
func (s *State) Particles() int     { return s.particles.Len() }
func (s *State) HistoryLen() int    { return s.history.Len() }
func (s *State) LastBlock() int     { return s.beats.LastTriggeredBlock() }

// MovingForward reports the camera's target direction.
func (s *State) MovingForward() bool { return s.camera.forward }

// CountByKind reports live particles of one kind.
func (s *State) CountByKind(k particle.Kind) int { return s.particles.CountByKind(k) }

func (s *State) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
