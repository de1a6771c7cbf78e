// Package render rasterizes a scene.DrawList into a colored terminal frame.
package render

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/particle"
	"github.com/olivier-w/spectra/internal/scene"
)

const (
	sphereRings    = 6
	sphereMeridian = 8
	sphereSamples  = 32
	maxSpriteRows  = 4.0
)

// Renderer keeps its buffers between frames. It is not safe for concurrent
// use.
type Renderer struct {
	profile colorProfile
	canvas  canvas
	sb      strings.Builder
	ring    []mgl64.Vec3
}

// New returns a renderer using the terminal's detected color support.
func New() *Renderer {
	return &Renderer{profile: detectColorProfile()}
}

// NewPlain returns a renderer that emits no escape sequences.
func NewPlain() *Renderer {
	return &Renderer{profile: colorNone}
}

// Render draws dl into a cols x rows block of text.
func (r *Renderer) Render(dl *scene.DrawList, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	r.canvas.resize(cols, rows)
	r.canvas.clear(rgb{R: dl.Background.R, G: dl.Background.G, B: dl.Background.B})
	p := newProjector(dl.Camera, cols, rows)

	for _, pl := range dl.Planes {
		r.drawPlane(p, pl)
	}
	for _, s := range dl.Spheres {
		r.drawSphere(p, s)
	}
	for _, s := range dl.Strips {
		r.drawStrip(p, s)
	}
	for i := range dl.Sprites {
		r.drawSprite(p, &dl.Sprites[i])
	}
	return r.flush()
}

func (r *Renderer) drawPlane(p projector, pl scene.Plane) {
	half := pl.Size / 2
	a, okA := p.project(pl.Center.Add(mgl64.Vec3{-half, -half, 0}))
	b, okB := p.project(pl.Center.Add(mgl64.Vec3{half, half, 0}))
	if !okA || !okB {
		return
	}
	c := rgb{R: pl.Color.R, G: pl.Color.G, B: pl.Color.B}
	r.canvas.tint(
		int(math.Floor(a.x/dotsX)), int(math.Floor(a.y/dotsY)),
		int(math.Floor(b.x/dotsX)), int(math.Floor(b.y/dotsY)),
		c, pl.Color.A,
	)
}

func (r *Renderer) drawSphere(p projector, s scene.WireSphere) {
	c := rgb{R: s.Color.R, G: s.Color.G, B: s.Color.B}
	if cap(r.ring) < sphereSamples+1 {
		r.ring = make([]mgl64.Vec3, sphereSamples+1)
	}
	ring := r.ring[:sphereSamples+1]

	// latitude rings
	for k := 1; k < sphereRings; k++ {
		theta := math.Pi * float64(k) / sphereRings
		for i := range ring {
			phi := 2 * math.Pi * float64(i) / sphereSamples
			ring[i] = spherePoint(s, theta, phi)
		}
		r.polyline(p, ring, c, s.Color.A)
	}
	// meridians
	for m := range sphereMeridian {
		phi := 2 * math.Pi * float64(m) / sphereMeridian
		for i := range ring {
			theta := math.Pi * float64(i) / sphereSamples
			ring[i] = spherePoint(s, theta, phi)
		}
		r.polyline(p, ring, c, s.Color.A)
	}
}

func spherePoint(s scene.WireSphere, theta, phi float64) mgl64.Vec3 {
	sin, cos := math.Sincos(theta)
	local := mgl64.Vec3{
		s.Radius * sin * math.Cos(phi),
		s.Radius * cos,
		s.Radius * sin * math.Sin(phi),
	}
	return s.Center.Add(s.Orientation.Mul3x1(local))
}

func (r *Renderer) polyline(p projector, pts []mgl64.Vec3, c rgb, alpha uint8) {
	prev, prevOK := p.project(pts[0])
	for _, v := range pts[1:] {
		cur, ok := p.project(v)
		if ok && prevOK {
			r.canvas.line(prev, cur, c, c, alpha, alpha)
		}
		prev, prevOK = cur, ok
	}
}

func (r *Renderer) drawStrip(p projector, s scene.Strip) {
	if len(s.Vertices) == 0 {
		return
	}
	first := s.Vertices[0]
	prev, prevOK := p.project(first.Pos)
	prevColor := rgb{R: first.Color.R, G: first.Color.G, B: first.Color.B}
	prevAlpha := first.Color.A
	if len(s.Vertices) == 1 && prevOK {
		r.canvas.dot(int(prev.x), int(prev.y), prev.depth, prevColor, prevAlpha)
		return
	}
	for _, v := range s.Vertices[1:] {
		cur, ok := p.project(v.Pos)
		c := rgb{R: v.Color.R, G: v.Color.G, B: v.Color.B}
		if ok && prevOK {
			r.canvas.line(prev, cur, prevColor, c, prevAlpha, v.Color.A)
		}
		prev, prevOK, prevColor, prevAlpha = cur, ok, c, v.Color.A
	}
}

func (r *Renderer) drawSprite(p projector, s *particle.Sprite) {
	c := rgb{R: s.Color.R, G: s.Color.G, B: s.Color.B}
	if len(s.Trail) > 1 {
		r.drawTrail(p, s.Trail, c, s.Color.A)
	}

	pt, ok := p.project(s.Position)
	if !ok || s.Color.A == 0 {
		return
	}
	size := p.rows(s.Size, pt.depth)
	glyph := spriteGlyph(s, size)
	col, row := int(math.Floor(pt.x/dotsX)), int(math.Floor(pt.y/dotsY))

	radius := math.Min(size/2, maxSpriteRows)
	if radius < 1 {
		r.canvas.glyph(col, row, pt.depth, glyph, c, s.Color.A)
		return
	}
	// Cells are about twice as tall as they are wide.
	rr := int(radius)
	for dy := -rr; dy <= rr; dy++ {
		for dx := -2 * rr; dx <= 2*rr; dx++ {
			fx := float64(dx) / 2
			if s.Style == particle.Sphere && fx*fx+float64(dy*dy) > radius*radius {
				continue
			}
			r.canvas.glyph(col+dx, row+dy, pt.depth, glyph, c, s.Color.A)
		}
	}
}

func (r *Renderer) drawTrail(p projector, trail []mgl64.Vec3, c rgb, alpha uint8) {
	n := len(trail)
	prev, prevOK := p.project(trail[0])
	for i := 1; i < n; i++ {
		cur, ok := p.project(trail[i])
		if ok && prevOK {
			// fade toward the oldest point
			a0 := uint8(float64(alpha) * float64(i-1) / float64(n))
			a1 := uint8(float64(alpha) * float64(i) / float64(n))
			r.canvas.line(prev, cur, c, c, a0, a1)
		}
		prev, prevOK = cur, ok
	}
}

func spriteGlyph(s *particle.Sprite, rows float64) rune {
	switch {
	case s.Kind == particle.Spark && s.Glow > 0.5:
		return '✦'
	case s.Kind == particle.Spark:
		return '*'
	case rows < 0.35:
		return '·'
	case s.Style == particle.Sphere:
		return '●'
	case rows >= 1:
		return '█'
	default:
		return '■'
	}
}

func (r *Renderer) flush() string {
	r.sb.Reset()
	state := newANSIState(r.profile)
	for y := range r.canvas.rows {
		if y > 0 {
			r.sb.WriteByte('\n')
		}
		for x := range r.canvas.cols {
			cl := &r.canvas.cells[y*r.canvas.cols+x]
			state.set(&r.sb, cl.fg, cl.bg)
			switch {
			case cl.glyph != 0:
				r.sb.WriteRune(cl.glyph)
			case cl.dots != 0:
				r.sb.WriteRune(rune(0x2800 + int(cl.dots)))
			default:
				r.sb.WriteByte(' ')
			}
		}
		state.reset(&r.sb)
	}
	return r.sb.String()
}
