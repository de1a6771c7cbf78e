package particle

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

const boxSpin = 0.005

// Sprite is a draw request for one particle.
type Sprite struct {
	Kind     Kind
	Style    Style
	Position mgl64.Vec3
	Size     float64
	Color    color.RGBA // A carries the life fade
	Rotation mgl64.Vec2 // X/Y rotation in radians, boxes only
	Glow     float64    // spark intensity
	Trail    []mgl64.Vec3
}

// Sprite maps the particle to a draw request for the given frame number.
func (p *Particle) Sprite(frame int) Sprite {
	c := p.Color
	c.A = uint8(p.Alpha())

	s := Sprite{
		Kind:     p.Kind,
		Style:    p.Style,
		Position: p.Position,
		Size:     p.Size,
		Color:    c,
		Glow:     p.intensity,
		Trail:    p.trail,
	}
	if p.Style == Box {
		spin := float64(frame) * boxSpin
		s.Rotation = mgl64.Vec2{spin + p.Position.X(), spin + p.Position.Y()}
	}
	return s
}
