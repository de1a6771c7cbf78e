package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/scene"
)

// CellWidth and CellHeight are the virtual size of one terminal cell in world
// units. A 120x40 terminal becomes a 960x640 viewport.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Viewport returns the scene viewport for a terminal of cols x rows cells.
func Viewport(cols, rows int) scene.Viewport {
	return scene.Viewport{Width: float64(cols) * CellWidth, Height: float64(rows) * CellHeight}
}

// point is a projected position in dot coordinates. depth is the distance
// along the view axis.
type point struct {
	x, y  float64
	depth float64
}

type projector struct {
	viewProj mgl64.Mat4
	near     float64
	far      float64
	focal    float64 // rows per world unit at depth 1
	dotW     float64
	dotH     float64
}

func newProjector(cam scene.Camera, cols, rows int) projector {
	aspect := (float64(cols) * CellWidth) / (float64(rows) * CellHeight)
	proj := mgl64.Perspective(cam.FOV, aspect, cam.Near, cam.Far)
	view := mgl64.LookAtV(cam.Eye, cam.Target, cam.Up)
	return projector{
		viewProj: proj.Mul4(view),
		near:     cam.Near,
		far:      cam.Far,
		focal:    float64(rows) / 2 / math.Tan(cam.FOV/2),
		dotW:     float64(cols * dotsX),
		dotH:     float64(rows * dotsY),
	}
}

// project maps a world position to dot coordinates. Screen Y grows with
// world Y so +Y is down the screen. ok is false outside the near/far range.
func (p projector) project(v mgl64.Vec3) (point, bool) {
	clip := p.viewProj.Mul4x1(v.Vec4(1))
	w := clip.W()
	if w < p.near || w > p.far {
		return point{}, false
	}
	ndcX := clip.X() / w
	ndcY := clip.Y() / w
	return point{
		x:     (ndcX + 1) / 2 * p.dotW,
		y:     (ndcY + 1) / 2 * p.dotH,
		depth: w,
	}, true
}

// rows returns how many terminal rows a world length spans at depth.
func (p projector) rows(length, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return length * p.focal / depth
}
