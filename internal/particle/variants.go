package particle

import (
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/spectrum"
)

const (
	audioLife        = 80
	audioMaxSpeed    = 10.0
	trailMaxLength   = 10
	fireMaxSpeed     = 5.0
	fireVerticalDamp = 0.98
	fireShrink       = 0.99
	sparkGravity     = 0.1
	sparkDrag        = 0.98
	sparkFade        = 0.95
)

type rule struct {
	spawn  func(p *Particle, rng *rand.Rand, base color.RGBA)
	update func(p *Particle, rng *rand.Rand, audio *spectrum.AudioData)
}

// rules is the dispatch table for every Kind.
var rules = [kindCount]rule{
	Standard: {spawn: spawnStandard, update: updateStandard},
	Audio:    {spawn: spawnAudio, update: updateAudio},
	Trail:    {spawn: spawnTrail, update: updateTrail},
	Fire:     {spawn: spawnFire, update: updateFire},
	Spark:    {spawn: spawnSpark, update: updateSpark},
}

func spawnStandard(p *Particle, rng *rand.Rand, base color.RGBA) {
	p.Color = jitter(rng, base, 20, alphaBetween(rng, 180, 255))
}

func updateStandard(p *Particle, _ *rand.Rand, _ *spectrum.AudioData) {
	p.move()
	p.age()
}

func spawnAudio(p *Particle, rng *rand.Rand, base color.RGBA) {
	p.MaxLife = audioLife
	p.Color = jitter(rng, base, 25, alphaBetween(rng, 180, 255))
	p.frequency = rng.Float64()
	p.initialSize = p.Size
}

func updateAudio(p *Particle, _ *rand.Rand, audio *spectrum.AudioData) {
	if audio != nil {
		p.Size = p.initialSize * (1 + audio.Volume*2)

		var level float64
		switch {
		case p.frequency < 0.3:
			level = audio.Bass
		case p.frequency < 0.7:
			level = audio.Mid
		default:
			level = audio.Treble
		}
		p.Velocity = limit(p.Velocity.Mul(1+level*0.1), audioMaxSpeed)
	}
	p.move()
	p.age()
}

func spawnTrail(p *Particle, rng *rand.Rand, base color.RGBA) {
	p.Color = jitter(rng, base, 30, alphaBetween(rng, 200, 255))
	p.Velocity = p.Velocity.Mul(uniform(rng, 3, 6))
	p.MaxLife = int(uniform(rng, 120, 200))
	p.trail = make([]mgl64.Vec3, 0, trailMaxLength+1)
}

func updateTrail(p *Particle, _ *rand.Rand, _ *spectrum.AudioData) {
	p.move()
	p.age()

	p.trail = append(p.trail, p.Position)
	if len(p.trail) > trailMaxLength {
		copy(p.trail, p.trail[1:])
		p.trail = p.trail[:trailMaxLength]
	}
}

func spawnFire(p *Particle, rng *rand.Rand, base color.RGBA) {
	p.Velocity = mgl64.Vec3{uniform(rng, -0.5, 0.5), uniform(rng, -2, -1), 0}
	p.MaxLife = int(uniform(rng, 30, 70))
	p.Color = warm(rng, base, 30, alphaBetween(rng, 150, 220))
	p.Size = uniform(rng, 8, 20)
}

func updateFire(p *Particle, rng *rand.Rand, _ *spectrum.AudioData) {
	p.frames++

	p.Velocity[0] += uniform(rng, -0.2, 0.2)
	p.Velocity[1] += uniform(rng, -0.1, 0.05)
	p.Velocity[2] += uniform(rng, -0.2, 0.2)

	p.Velocity[1] *= fireVerticalDamp
	p.Velocity = limit(p.Velocity, fireMaxSpeed)

	p.move()
	p.age()
	p.Size *= fireShrink
}

func spawnSpark(p *Particle, rng *rand.Rand, base color.RGBA) {
	p.Velocity = p.Velocity.Mul(uniform(rng, 4, 7))
	p.MaxLife = int(uniform(rng, 20, 50))
	p.Color = brighten(rng, base, alphaBetween(rng, 220, 255))
	p.intensity = uniform(rng, 0.5, 1)
	p.Size = uniform(rng, 1, 4)
}

func updateSpark(p *Particle, _ *rand.Rand, _ *spectrum.AudioData) {
	p.Velocity[1] += sparkGravity
	p.Velocity = p.Velocity.Mul(sparkDrag)

	p.move()
	p.age()
	p.intensity *= sparkFade
}
