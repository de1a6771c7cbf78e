package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/spectra/internal/player"
	"github.com/olivier-w/spectra/internal/theme"
)

func TestCheckTrack(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.flac")
	cover := filepath.Join(dir, "cover.png")
	for _, p := range []string{song, cover} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := checkTrack(song); err != nil {
		t.Fatalf("expected flac to pass, got %v", err)
	}
	if err := checkTrack(cover); !errors.Is(err, player.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if err := checkTrack(dir); err == nil {
		t.Fatal("expected directory to be rejected")
	}
	if err := checkTrack(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Fatal("expected missing file to be rejected")
	}
}

func TestResolveTheme(t *testing.T) {
	themes := theme.Default()
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"Ocean", 2, false},
		{"4", 4, false},
		{"9", 0, true},
		{"Neon", 0, true},
	}
	for _, tt := range tests {
		got, err := resolveTheme(themes, tt.name)
		if tt.wantErr {
			if !errors.Is(err, errUnknownTheme) {
				t.Fatalf("resolveTheme(%q): expected errUnknownTheme, got %v", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("resolveTheme(%q) = %d, %v; want %d", tt.name, got, err, tt.want)
		}
	}
}

func TestLoadThemesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.json")
	data := `[{"name":"Neon","background":"#000000","palette":["#ff00ff","#00ffff","#ffff00","#ffffff"],"particleTypes":["spark"]}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	themes, err := loadThemes(path)
	if err != nil {
		t.Fatalf("loadThemes: %v", err)
	}
	if themes.Len() != 6 || themes.Index("Neon") != 5 {
		t.Fatalf("expected Neon appended, got %v", themes.Names())
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"theme", "themes", "fps", "bins", "max-particles", "bpm", "debug", "seed", "no-audio"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("missing flag --%s", name)
		}
	}
	if err := cmd.Args(cmd, []string{"a.mp3", "b.mp3"}); err == nil {
		t.Fatal("expected more than one file to be rejected")
	}
}
