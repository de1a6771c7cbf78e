// Package theme holds the color themes that drive backgrounds, particle
// palettes and the particle kinds each theme allows.
package theme

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/spectra/internal/particle"
)

// MinPaletteSize is the number of palette entries the scene indexes directly.
const MinPaletteSize = 4

var (
	ErrPaletteTooShort     = errors.New("palette needs at least 4 colors")
	ErrUnknownParticleType = errors.New("unknown particle type")
	ErrInvalidColor        = errors.New("invalid color")
	ErrEmptyTable          = errors.New("no themes")
)

// HueRange is a tunnel hue span in degrees.
type HueRange [2]float64

// Opposite returns the complementary span, each end rotated by 180°.
func (r HueRange) Opposite() HueRange {
	return HueRange{oppositeHue(r[0]), oppositeHue(r[1])}
}

func oppositeHue(h float64) float64 {
	h += 180
	for h >= 360 {
		h -= 360
	}
	return h
}

// Theme is a compiled color theme.
type Theme struct {
	Name          string
	Background    colorful.Color
	Palette       []colorful.Color
	ParticleTypes []particle.Kind
	Hue           HueRange
}

// Colors returns the palette as opaque RGBA values for the particle system.
func (t Theme) Colors() []color.RGBA {
	out := make([]color.RGBA, len(t.Palette))
	for i, c := range t.Palette {
		out[i] = toRGBA(c)
	}
	return out
}

// BackgroundRGBA returns the opaque background color.
func (t Theme) BackgroundRGBA() color.RGBA {
	return toRGBA(t.Background)
}

// Allows reports whether the theme lets particles of kind k spawn.
func (t Theme) Allows(k particle.Kind) bool {
	for _, allowed := range t.ParticleTypes {
		if allowed == k {
			return true
		}
	}
	return false
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Spec is the uncompiled, serializable form of a theme.
type Spec struct {
	Name          string    `json:"name"`
	Background    string    `json:"background"`
	Palette       []string  `json:"palette"`
	ParticleTypes []string  `json:"particleTypes"`
	HueRange      *HueRange `json:"hueRange,omitempty"`
}

// Compile parses colors and particle types. hue is used when the spec does not
// carry its own range.
func (s Spec) Compile(hue HueRange) (Theme, error) {
	if len(s.Palette) < MinPaletteSize {
		return Theme{}, fmt.Errorf("theme %q: %w (got %d)", s.Name, ErrPaletteTooShort, len(s.Palette))
	}
	bg, err := parseHex(s.Background)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %q background: %w", s.Name, err)
	}

	t := Theme{
		Name:          s.Name,
		Background:    bg,
		Palette:       make([]colorful.Color, 0, len(s.Palette)),
		ParticleTypes: make([]particle.Kind, 0, len(s.ParticleTypes)),
		Hue:           hue,
	}
	if s.HueRange != nil {
		t.Hue = *s.HueRange
	}
	for i, hex := range s.Palette {
		c, err := parseHex(hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %q palette[%d]: %w", s.Name, i, err)
		}
		t.Palette = append(t.Palette, c)
	}
	for _, name := range s.ParticleTypes {
		k, err := particle.ParseKind(name)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %q: %w: %q", s.Name, ErrUnknownParticleType, name)
		}
		t.ParticleTypes = append(t.ParticleTypes, k)
	}
	return t, nil
}

func parseHex(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return c, nil
}
