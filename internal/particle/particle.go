package particle

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/spectrum"
)

// Particle is a single animated point. Kind selects the update rule; the
// unexported fields are per-kind state only that kind's rule touches.
type Particle struct {
	Kind     Kind
	Style    Style
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Size     float64
	Life     int
	MaxLife  int
	Color    color.RGBA

	frequency   float64      // audio: selects the driving band
	initialSize float64      // audio
	trail       []mgl64.Vec3 // trail: recent positions, oldest first
	frames      int          // fire
	intensity   float64      // spark
}

// newParticle builds a particle of the given kind around pos. Common defaults
// are rolled first and the kind's spawn rule overrides what it needs.
func newParticle(rng *rand.Rand, pos mgl64.Vec3, kind Kind, style Style, base color.RGBA) Particle {
	p := Particle{
		Kind:     kind,
		Style:    style,
		Position: pos,
		Velocity: randomUnit(rng).Mul(uniform(rng, 1, 3)),
		Size:     uniform(rng, 5, 15),
		MaxLife:  int(uniform(rng, 60, 240)),
	}
	if kind >= kindCount {
		p.Kind = Standard
	}
	rules[p.Kind].spawn(&p, rng, base)
	p.Life = p.MaxLife
	return p
}

// Update advances the particle by one frame. audio may be nil.
func (p *Particle) Update(rng *rand.Rand, audio *spectrum.AudioData) {
	rules[p.Kind].update(p, rng, audio)
}

// Dead reports whether the particle has run out of life.
func (p *Particle) Dead() bool {
	return p.Life <= 0
}

// Alpha fades linearly from 255 at spawn to 0 at death.
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 || p.Life <= 0 {
		return 0
	}
	return 255 * float64(p.Life) / float64(p.MaxLife)
}

// Intensity is the spark glow factor. Other kinds report 0.
func (p *Particle) Intensity() float64 {
	return p.intensity
}

// TrailPoints returns the recorded trail, oldest first.
func (p *Particle) TrailPoints() []mgl64.Vec3 {
	return p.trail
}

func (p *Particle) move() {
	p.Position = p.Position.Add(p.Velocity)
}

func (p *Particle) age() {
	p.Life--
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randomUnit returns a direction uniformly distributed on the unit sphere.
func randomUnit(rng *rand.Rand) mgl64.Vec3 {
	angle := rng.Float64() * 2 * math.Pi
	z := rng.Float64()*2 - 1
	r := math.Sqrt(1 - z*z)
	return mgl64.Vec3{r * math.Cos(angle), r * math.Sin(angle), z}
}

func limit(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if l := v.Len(); l > max {
		return v.Mul(max / l)
	}
	return v
}
