// Package scene advances the visualizer one frame at a time and describes
// what to draw as a DrawList of 3D primitives.
package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/particle"
)

// Viewport is the virtual canvas size in world units.
type Viewport struct {
	Width  float64
	Height float64
}

// Dimension is the shorter side.
func (v Viewport) Dimension() float64 {
	return math.Min(v.Width, v.Height)
}

func (v Viewport) Aspect() float64 {
	if v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// Camera is a perspective camera looking down -Z with +Y pointing down the
// screen.
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
	FOV    float64 // vertical, radians
	Near   float64
	Far    float64
}

const (
	cameraFOV  = math.Pi / 6
	cameraNear = 1.0
	cameraFar  = 5000.0
)

// CameraAt is the default camera at depth z looking toward -Z.
func CameraAt(z float64) Camera {
	return Camera{
		Eye:    mgl64.Vec3{0, 0, z},
		Target: mgl64.Vec3{0, 0, z - 1},
		Up:     mgl64.Vec3{0, 1, 0},
		FOV:    cameraFOV,
		Near:   cameraNear,
		Far:    cameraFar,
	}
}

// Vertex is a strip point with its own stroke color.
type Vertex struct {
	Pos   mgl64.Vec3
	Color color.RGBA
}

// Strip is an open polyline.
type Strip struct {
	Vertices []Vertex
	Weight   float64
}

// WireSphere is an unfilled sphere drawn as a wireframe.
type WireSphere struct {
	Center      mgl64.Vec3
	Radius      float64
	Orientation mgl64.Mat3
	Color       color.RGBA
	Weight      float64
}

// Plane is a filled square facing the camera.
type Plane struct {
	Center mgl64.Vec3
	Size   float64
	Color  color.RGBA
}

// DrawList is everything to draw for one frame. Slices are reused across
// frames; consumers must not retain them.
type DrawList struct {
	Camera     Camera
	Viewport   Viewport
	Background color.RGBA
	Planes     []Plane
	Spheres    []WireSphere
	Strips     []Strip
	Sprites    []particle.Sprite
}

func (d *DrawList) reset() {
	d.Planes = d.Planes[:0]
	d.Spheres = d.Spheres[:0]
	d.Strips = d.Strips[:0]
	d.Sprites = d.Sprites[:0]
}

// Empty reports whether nothing but the background would be drawn.
func (d *DrawList) Empty() bool {
	return len(d.Planes) == 0 && len(d.Spheres) == 0 && len(d.Strips) == 0 && len(d.Sprites) == 0
}

func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	c.A = uint8(math.Round(clamp(alpha, 0, 255)))
	return c
}

// remap linearly maps v from [a,b] onto [c,d] without clamping.
func remap(v, a, b, c, d float64) float64 {
	if a == b {
		return c
	}
	return c + (v-a)*(d-c)/(b-a)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
