package theme

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivier-w/spectra/internal/particle"
)

func TestDefaultTable(t *testing.T) {
	table := Default()
	if table.Len() != 5 {
		t.Fatalf("expected 5 built-in themes, got %d", table.Len())
	}
	want := []string{"Pastel", "Default", "Ocean", "Sunset", "Forest"}
	for i, name := range table.Names() {
		if name != want[i] {
			t.Fatalf("theme %d: expected %s, got %s", i, want[i], name)
		}
	}

	sunset := table.At(3)
	if !sunset.Allows(particle.Fire) || !sunset.Allows(particle.Spark) || sunset.Allows(particle.Standard) {
		t.Fatalf("unexpected sunset particle types %v", sunset.ParticleTypes)
	}
	if got := sunset.Hue; got != (HueRange{0, 60}) {
		t.Fatalf("expected sunset hue [0,60], got %v", got)
	}
	if bg := table.At(1).BackgroundRGBA(); bg.R != 0 || bg.G != 0 || bg.B != 0 || bg.A != 255 {
		t.Fatalf("expected opaque black background, got %+v", bg)
	}
	if c := table.At(1).Colors()[0]; c.R != 0xFF || c.G != 0x64 || c.B != 0x96 {
		t.Fatalf("expected #FF6496, got %+v", c)
	}
}

func TestAtWraps(t *testing.T) {
	table := Default()
	tests := []struct {
		index int
		want  string
	}{
		{0, "Pastel"},
		{5, "Pastel"},
		{7, "Ocean"},
		{-1, "Forest"},
	}
	for _, tt := range tests {
		if got := table.At(tt.index).Name; got != tt.want {
			t.Fatalf("At(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestHueRangeOpposite(t *testing.T) {
	tests := []struct {
		in, want HueRange
	}{
		{HueRange{180, 240}, HueRange{0, 60}},
		{HueRange{300, 360}, HueRange{120, 180}},
		{HueRange{0, 60}, HueRange{180, 240}},
	}
	for _, tt := range tests {
		if got := tt.in.Opposite(); got != tt.want {
			t.Fatalf("%v.Opposite() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompileRejectsShortPalette(t *testing.T) {
	_, err := Compile([]Spec{{
		Name:       "Tiny",
		Background: "#000000",
		Palette:    []string{"#ffffff", "#000000", "#ff0000"},
	}})
	if !errors.Is(err, ErrPaletteTooShort) {
		t.Fatalf("expected ErrPaletteTooShort, got %v", err)
	}
}

func TestCompileRejectsBadInput(t *testing.T) {
	palette := []string{"#111111", "#222222", "#333333", "#444444"}
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"bad background", Spec{Name: "x", Background: "black", Palette: palette}, ErrInvalidColor},
		{"bad palette", Spec{Name: "x", Background: "#000000", Palette: append([]string{"#zzzzzz"}, palette...)}, ErrInvalidColor},
		{"bad particle", Spec{Name: "x", Background: "#000000", Palette: palette, ParticleTypes: []string{"plasma"}}, ErrUnknownParticleType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile([]Spec{tt.spec}); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Compile(nil); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestEmptyParticleTypesAllowed(t *testing.T) {
	table, err := Compile([]Spec{{
		Name:       "Quiet",
		Background: "#101010",
		Palette:    []string{"#111111", "#222222", "#333333", "#444444"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(table.At(0).ParticleTypes); n != 0 {
		t.Fatalf("expected no particle types, got %d", n)
	}
}

func TestDecodeAndOverlay(t *testing.T) {
	doc := `[
		{"name": "Ocean", "background": "#000010", "palette": ["#111111", "#222222", "#333333", "#444444"], "particleTypes": ["spark"]},
		{"name": "Neon", "background": "#000000", "palette": ["#ff00ff", "#00ffff", "#ffff00", "#ffffff"], "particleTypes": ["fire"], "hueRange": [90, 150]}
	]`
	specs, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	table, err := Compile(Overlay(Builtin(), specs))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if table.Len() != 6 {
		t.Fatalf("expected 6 themes, got %d", table.Len())
	}
	ocean := table.At(table.Index("Ocean"))
	if table.Index("Ocean") != 2 || !ocean.Allows(particle.Spark) || ocean.Allows(particle.Trail) {
		t.Fatalf("expected Ocean replaced in place, got index %d types %v", table.Index("Ocean"), ocean.ParticleTypes)
	}
	neon := table.At(5)
	if neon.Name != "Neon" || neon.Hue != (HueRange{90, 150}) {
		t.Fatalf("expected appended Neon with its own hue, got %s %v", neon.Name, neon.Hue)
	}
	if len(builtin[2].ParticleTypes) != 3 {
		t.Fatal("overlay must not modify the built-in specs")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	if _, err := Decode(strings.NewReader(`[{"name":"x","colour":"#fff"}]`)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "themes.json")
	doc := `[{"name":"Mono","background":"#000000","palette":["#ffffff","#cccccc","#999999"],"particleTypes":["standard"]}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrPaletteTooShort) {
		t.Fatalf("expected ErrPaletteTooShort from file, got %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
