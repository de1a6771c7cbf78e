package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/spectra/internal/config"
	"github.com/olivier-w/spectra/internal/spectrum"
	"github.com/olivier-w/spectra/internal/theme"
)

// tunnelSaturation matches a 200/255 saturation stroke.
const tunnelSaturation = 200.0 / 255.0

// Tunnel draws the spectrum history as a receding wireframe. Every
// SkipAmount-th bin becomes a left and a right strip running back through
// history; every WireframeSkip-th history row adds a cross strip per side.
func Tunnel(dl *DrawList, history *spectrum.History, cameraZ float64, cfg config.Tunnel, hue theme.HueRange, vp Viewport) {
	rows := history.Len()
	if rows < 2 {
		return
	}
	bins := len(history.At(0))
	if bins == 0 {
		return
	}

	dim := vp.Dimension()
	drop := vp.Height / 20
	weight := clamp(remap(vp.Width, 300, 1920, 0.5, 2), 0.5, 2)
	hue = hue.Opposite()

	hues := make([]color.RGBA, bins)
	xs := make([]float64, bins)
	for i := range bins {
		hues[i] = tunnelColor(remap(float64(i), 0, float64(bins-1), hue[0], hue[1]))
		xs[i] = remap(float64(i), 0, float64(bins-1), 0, dim/2.5)
	}
	y := func(v uint8) float64 {
		return remap(float64(v), 0, 255, 0, dim/4) + drop
	}
	z := func(j int) float64 {
		return cameraZ - cfg.ZOffset - float64(j)*cfg.ZStep
	}

	for i := 0; i < bins; i += cfg.SkipAmount {
		for _, sign := range [2]float64{-1, 1} {
			strip := Strip{Vertices: make([]Vertex, 0, rows), Weight: weight}
			for j := range rows {
				row := history.At(j)
				if i >= len(row) {
					continue
				}
				alpha := remap(float64(j), 0, float64(rows-1), 255, 10)
				strip.Vertices = append(strip.Vertices, Vertex{
					Pos:   mgl64.Vec3{sign * xs[i], y(row[i]), z(j)},
					Color: withAlpha(hues[i], alpha),
				})
			}
			dl.Strips = append(dl.Strips, strip)
		}
	}

	for j := 0; j < rows; j += cfg.WireframeSkip {
		row := history.At(j)
		alpha := remap(float64(j), 0, float64(rows-1), 200, 0)
		for _, sign := range [2]float64{-1, 1} {
			strip := Strip{Vertices: make([]Vertex, 0, len(row)), Weight: weight * 0.5}
			for i := 0; i < len(row) && i < bins; i++ {
				strip.Vertices = append(strip.Vertices, Vertex{
					Pos:   mgl64.Vec3{sign * xs[i], y(row[i]), z(j)},
					Color: withAlpha(hues[i], alpha),
				})
			}
			dl.Strips = append(dl.Strips, strip)
		}
	}
}

func tunnelColor(hue float64) color.RGBA {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	return rgba(colorful.Hsv(hue, tunnelSaturation, 1), 255)
}

// CentralObject is the large, slowly turning wire sphere far ahead of the
// camera.
func CentralObject(dl *DrawList, time, cameraZ float64, cfg config.CentralObject, palette []colorful.Color) {
	dl.Spheres = append(dl.Spheres, WireSphere{
		Center:      mgl64.Vec3{0, 0, cameraZ + cfg.ZOffset},
		Radius:      cfg.Size,
		Orientation: mgl64.Rotate3DX(time * 0.05).Mul3(mgl64.Rotate3DY(time * 0.08)),
		Color:       rgba(palette[2], 150),
		Weight:      1,
	})
}

// RotatingElements is the audio-driven sphere sharing the central object's
// depth. Its radius is scaled so it keeps the apparent size it would have at
// the rotating elements' own offset.
func RotatingElements(dl *DrawList, audio spectrum.AudioData, time, cameraZ float64, cfg config.Config, playing bool, palette []colorful.Color) {
	speed := time
	radius := 100.0
	alpha := 100.0
	if playing {
		speed = time + audio.Volume*2
		radius = 50 + audio.Mid*100
		alpha = 50 + audio.Volume*150
	}
	scale := cfg.CentralObject.ZOffset / cfg.RotatingElements.ZOffset

	orient := mgl64.Rotate3DZ(speed).
		Mul3(mgl64.Rotate3DX(speed * 0.5)).
		Mul3(mgl64.Rotate3DY(speed * 0.3))

	dl.Spheres = append(dl.Spheres, WireSphere{
		Center:      mgl64.Vec3{0, 0, cameraZ + cfg.CentralObject.ZOffset},
		Radius:      radius * scale,
		Orientation: orient,
		Color:       rgba(palette[3], alpha),
		Weight:      1 + audio.Treble*2,
	})
}

// AudioCircles is a treble-driven sphere closer to the camera, tinted from
// palette[0] toward palette[1] as treble rises.
func AudioCircles(dl *DrawList, audio spectrum.AudioData, cameraZ float64, cfg config.AudioCircles, palette []colorful.Color) {
	treble := clamp(audio.Treble, 0, 1)
	dl.Spheres = append(dl.Spheres, WireSphere{
		Center:      mgl64.Vec3{0, 0, cameraZ + cfg.ZOffset},
		Radius:      100 + treble*200,
		Orientation: mgl64.Rotate3DX(math.Pi / 2),
		Color:       rgba(palette[0].BlendRgb(palette[1], treble), 255),
		Weight:      1 + treble,
	})
}

func rgba(c colorful.Color, alpha float64) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return withAlpha(color.RGBA{R: r, G: g, B: b}, alpha)
}
