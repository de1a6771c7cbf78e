package theme

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// hueRanges are the tunnel hue spans, selected by theme index. There is one
// more range than built-in themes so the sixth loaded theme still gets its own.
var hueRanges = []HueRange{
	{180, 240},
	{300, 360},
	{120, 180},
	{0, 60},
	{240, 300},
	{180, 240},
}

// DefaultHueRange returns the tunnel hue span for theme index i.
func DefaultHueRange(i int) HueRange {
	return hueRanges[wrap(i, len(hueRanges))]
}

var builtin = []Spec{
	{
		Name:          "Pastel",
		Background:    "#f0e6ff",
		Palette:       []string{"#6699FF", "#9D84FF", "#FF80FF", "#FFFF80", "#4DFFFF"},
		ParticleTypes: []string{"standard", "audio", "spark"},
	},
	{
		Name:          "Default",
		Background:    "#000000",
		Palette:       []string{"#FF6496", "#64C8FF", "#96FF64", "#FFC864", "#C864FF"},
		ParticleTypes: []string{"standard"},
	},
	{
		Name:          "Ocean",
		Background:    "#4682B4",
		Palette:       []string{"#64ffda", "#8892b0", "#ccd6f6", "#112240", "#b2fcfd"},
		ParticleTypes: []string{"standard", "audio", "trail"},
	},
	{
		Name:          "Sunset",
		Background:    "#5c252d",
		Palette:       []string{"#ff6b6b", "#f06543", "#ffb238", "#e43f6f", "#c81d25"},
		ParticleTypes: []string{"fire", "trail", "spark"},
	},
	{
		Name:          "Forest",
		Background:    "#1e2a26",
		Palette:       []string{"#4a7c59", "#6a994e", "#a7c957", "#f2e8cf", "#bc4749"},
		ParticleTypes: []string{"standard", "audio", "trail"},
	},
}

// Builtin returns the serializable form of the built-in themes.
func Builtin() []Spec {
	out := make([]Spec, len(builtin))
	copy(out, builtin)
	return out
}

// Table is an ordered, non-empty list of compiled themes.
type Table struct {
	themes []Theme
}

// Default compiles the built-in themes. They are known to be valid.
func Default() *Table {
	t, err := Compile(builtin)
	if err != nil {
		panic(err)
	}
	return t
}

// Compile validates and compiles specs in order. Themes without an explicit
// hue range take the one for their position.
func Compile(specs []Spec) (*Table, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{themes: make([]Theme, 0, len(specs))}
	for i, s := range specs {
		th, err := s.Compile(DefaultHueRange(i))
		if err != nil {
			return nil, err
		}
		t.themes = append(t.themes, th)
	}
	return t, nil
}

// Overlay merges extra into base: a spec whose name matches a base theme
// replaces it in place, anything else is appended.
func Overlay(base, extra []Spec) []Spec {
	out := make([]Spec, len(base), len(base)+len(extra))
	copy(out, base)
	for _, s := range extra {
		replaced := false
		for i := range out {
			if out[i].Name == s.Name {
				out[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, s)
		}
	}
	return out
}

// Decode reads a JSON array of theme specs.
func Decode(r io.Reader) ([]Spec, error) {
	var specs []Spec
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&specs); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	return specs, nil
}

// LoadFile overlays the themes in path onto the built-in ones and compiles
// the result.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open themes: %w", err)
	}
	defer f.Close()

	specs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := Compile(Overlay(builtin, specs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Len returns the number of themes.
func (t *Table) Len() int { return len(t.themes) }

// At returns theme i, wrapping around the table in both directions.
func (t *Table) At(i int) Theme {
	return t.themes[wrap(i, len(t.themes))]
}

// Index returns the position of the theme with the given name, or -1.
func (t *Table) Index(name string) int {
	for i, th := range t.themes {
		if th.Name == name {
			return i
		}
	}
	return -1
}

// Names lists theme names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.themes))
	for i, th := range t.themes {
		names[i] = th.Name
	}
	return names
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
