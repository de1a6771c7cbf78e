package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olivier-w/spectra/internal/media"
	"github.com/olivier-w/spectra/internal/player"
	"github.com/olivier-w/spectra/internal/theme"
	"github.com/olivier-w/spectra/internal/ui"
)

var errUnknownTheme = errors.New("unknown theme")

// checkTrack rejects paths that can never play, so the UI only has to deal
// with device failures.
func checkTrack(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if !media.IsAudioFile(path) {
		return fmt.Errorf("%w %s (supported: %s)", player.ErrUnsupportedFormat, filepath.Ext(path), media.SupportedExtsList())
	}
	return nil
}

// trackLoader opens path each time it is called. The UI calls it at startup
// and again on a play toggle after a failure.
func trackLoader(path string, log *slog.Logger) ui.Loader {
	return func() (ui.Audio, player.Metadata, error) {
		meta := player.ReadMetadata(path)
		p, err := player.New(path, player.WithLogger(log))
		if err != nil {
			return nil, meta, err
		}
		return p, meta, nil
	}
}

func loadThemes(path string) (*theme.Table, error) {
	if path == "" {
		return theme.Default(), nil
	}
	return theme.LoadFile(path)
}

// resolveTheme accepts a theme name or a zero-based index.
func resolveTheme(themes *theme.Table, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	if i := themes.Index(name); i >= 0 {
		return i, nil
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < themes.Len() {
		return i, nil
	}
	return 0, fmt.Errorf("%w %q (have %v)", errUnknownTheme, name, themes.Names())
}
