package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	filmStartDepth = 500.0
	filmDrift      = 10.0 // units per frame away from the camera
	filmFadeIn     = 0.1
	filmFadeOut    = 0.95
)

// film is the translucent screen-filling plane shown after a burst.
type film struct {
	visible  bool
	color    color.RGBA
	start    int // frame the film appeared on
	duration int // frames
	peak     float64
	size     float64
	z        float64
}

func newFilm(c color.RGBA, frame, duration int, peak float64, vp Viewport, cameraZ float64) film {
	return film{
		visible:  true,
		color:    c,
		start:    frame,
		duration: max(duration, 1),
		peak:     peak,
		size:     math.Max(vp.Width, vp.Height) * 2,
		z:        cameraZ - filmStartDepth,
	}
}

// alpha fades in over the first tenth and out over the last twentieth.
func (f *film) alpha(progress float64) float64 {
	switch {
	case progress < filmFadeIn:
		return remap(progress, 0, filmFadeIn, 0, f.peak)
	case progress > filmFadeOut:
		return remap(progress, filmFadeOut, 1, f.peak, 0)
	default:
		return f.peak
	}
}

// step advances the film to frame and appends it to dl while it lasts.
func (f *film) step(dl *DrawList, frame int) {
	if !f.visible {
		return
	}
	elapsed := frame - f.start
	if elapsed > f.duration {
		f.visible = false
		return
	}
	progress := float64(elapsed) / float64(f.duration)
	f.z -= filmDrift
	dl.Planes = append(dl.Planes, Plane{
		Center: mgl64.Vec3{0, 0, f.z},
		Size:   f.size,
		Color:  withAlpha(f.color, f.alpha(progress)),
	})
}
