package particle

import (
	"image/color"
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/spectrum"
)

// MaxParticles is the default pool capacity.
const MaxParticles = 500

const batchSpread = 20.0

// volume thresholds checked from loudest to quietest when picking an
// audio-driven particle kind.
var preferred = [...]struct {
	threshold float64
	kind      Kind
}{
	{0.8, Fire},
	{0.6, Spark},
	{0.4, Trail},
	{0.2, Audio},
}

// Manager owns the live particle pool. Particles are kept in spawn order and
// the oldest one is evicted when a spawn would exceed capacity.
type Manager struct {
	particles []Particle
	capacity  int
	palette   []color.RGBA
	rng       *rand.Rand
}

// Option configures a Manager.
type Option func(*Manager)

// WithCapacity overrides MaxParticles.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithRand sets the random source used for spawning and updates.
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// NewManager creates an empty pool that colors new particles from palette.
func NewManager(palette []color.RGBA, opts ...Option) *Manager {
	m := &Manager{capacity: MaxParticles}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.particles = make([]Particle, 0, m.capacity)
	m.SetPalette(palette)
	return m
}

// SetPalette replaces the base colors for future spawns. Live particles keep
// their colors.
func (m *Manager) SetPalette(palette []color.RGBA) {
	m.palette = slices.Clone(palette)
}

// Spawn adds one particle of the given kind at pos.
func (m *Manager) Spawn(pos mgl64.Vec3, kind Kind) {
	if len(m.particles) >= m.capacity {
		m.particles = slices.Delete(m.particles, 0, 1)
	}
	style := Box
	if m.rng.IntN(2) == 1 {
		style = Sphere
	}
	m.particles = append(m.particles, newParticle(m.rng, pos, kind, style, m.baseColor()))
}

// SpawnBatch adds count particles scattered up to 20 units around pos on each axis.
func (m *Manager) SpawnBatch(pos mgl64.Vec3, count int, kind Kind) {
	for range count {
		offset := mgl64.Vec3{
			uniform(m.rng, -batchSpread, batchSpread),
			uniform(m.rng, -batchSpread, batchSpread),
			uniform(m.rng, -batchSpread, batchSpread),
		}
		m.Spawn(pos.Add(offset), kind)
	}
}

// SpawnFromAudio spawns at most one particle with probability equal to the
// current volume, placed 100–300 units from center in a random direction.
// It reports the kind spawned.
func (m *Manager) SpawnFromAudio(center mgl64.Vec3, audio spectrum.AudioData, allowed []Kind) (Kind, bool) {
	if len(allowed) == 0 {
		return Standard, false
	}
	if m.rng.Float64() >= audio.Volume {
		return Standard, false
	}
	offset := randomUnit(m.rng).Mul(uniform(m.rng, 100, 300))
	kind, _ := ChooseKind(m.rng, audio.Volume, allowed)
	m.Spawn(center.Add(offset), kind)
	return kind, true
}

// ChooseKind picks the particle kind for an audio-driven spawn. The loudest
// threshold the volume exceeds wins if its kind is allowed. Otherwise the
// result is Standard when allowed, else a random allowed kind.
func ChooseKind(rng *rand.Rand, volume float64, allowed []Kind) (Kind, bool) {
	if len(allowed) == 0 {
		return Standard, false
	}
	for _, pref := range preferred {
		if volume > pref.threshold && slices.Contains(allowed, pref.kind) {
			return pref.kind, true
		}
	}
	if slices.Contains(allowed, Standard) {
		return Standard, true
	}
	return allowed[rng.IntN(len(allowed))], true
}

// Update advances every particle and drops the ones that died. Iterating from
// the back lets removal happen in place without skipping anything.
func (m *Manager) Update(audio *spectrum.AudioData) {
	for i := len(m.particles) - 1; i >= 0; i-- {
		p := &m.particles[i]
		p.Update(m.rng, audio)
		if p.Dead() {
			m.particles = slices.Delete(m.particles, i, i+1)
		}
	}
}

// Sprites appends a draw request per particle to dst, oldest first.
func (m *Manager) Sprites(frame int, dst []Sprite) []Sprite {
	for i := range m.particles {
		dst = append(dst, m.particles[i].Sprite(frame))
	}
	return dst
}

// Len returns the number of live particles.
func (m *Manager) Len() int { return len(m.particles) }

// Capacity returns the pool limit.
func (m *Manager) Capacity() int { return m.capacity }

// CountByKind returns how many live particles have the given kind.
func (m *Manager) CountByKind(kind Kind) int {
	n := 0
	for i := range m.particles {
		if m.particles[i].Kind == kind {
			n++
		}
	}
	return n
}

// Clear removes every particle immediately.
func (m *Manager) Clear() {
	m.particles = m.particles[:0]
}

func (m *Manager) baseColor() color.RGBA {
	if len(m.palette) == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return m.palette[m.rng.IntN(len(m.palette))]
}
