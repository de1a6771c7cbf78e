package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/spectra/internal/config"
	"github.com/olivier-w/spectra/internal/render"
	"github.com/olivier-w/spectra/internal/scene"
	"github.com/olivier-w/spectra/internal/spectrum"
	"github.com/olivier-w/spectra/internal/ui"
	"github.com/spf13/cobra"
)

const debugLogFile = "spectra-debug.log"

type options struct {
	cfg        config.Config
	themeName  string
	themesPath string
	bins       int
	debug      bool
	noAudio    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:          "spectra [file]",
		Short:        "Audio-reactive tunnel visualizer for the terminal",
		Long:         "spectra plays an audio file and flies a camera through a tunnel built from its spectrum.\nWithout a file it lists the audio files in the current directory.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return run(opts, path)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.themeName, "theme", "", "starting theme, by name or index")
	f.StringVar(&opts.themesPath, "themes", "", "JSON file of extra themes")
	f.IntVar(&opts.cfg.FPS, "fps", opts.cfg.FPS, "frames per second")
	f.IntVar(&opts.bins, "bins", opts.cfg.Bins(), "spectrum bins (half the FFT size, power of two)")
	f.IntVar(&opts.cfg.MaxParticles, "max-particles", opts.cfg.MaxParticles, "particle pool size")
	f.Float64Var(&opts.cfg.Beat.BPM, "bpm", opts.cfg.Beat.BPM, "tempo for beat bursts")
	f.Uint64Var(&opts.cfg.Seed, "seed", 0, "random seed (0 for random)")
	f.BoolVar(&opts.cfg.AudioCircles.Enabled, "circles", false, "draw the audio circles")
	f.BoolVar(&opts.debug, "debug", false, "write a diagnostic log to "+debugLogFile)
	f.BoolVar(&opts.noAudio, "no-audio", false, "run the visuals without playing anything")
	return cmd
}

func run(opts options, path string) error {
	logger, closeLog, err := newLogger(opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := opts.cfg
	cfg.Analyzer.FFTSize = opts.bins * 2
	themes, err := loadThemes(opts.themesPath)
	if err != nil {
		return err
	}
	if cfg.ThemeIndex, err = resolveTheme(themes, opts.themeName); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if path == "" && !opts.noAudio {
		path, err = browse(".")
		if err != nil || path == "" {
			return err
		}
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	sceneOpts := []scene.Option{scene.WithLogger(logger)}
	if rng != nil {
		sceneOpts = append(sceneOpts, scene.WithRand(rng))
	}
	state, err := scene.New(cfg, themes, render.Viewport(80, 24), sceneOpts...)
	if err != nil {
		return err
	}
	analyzer, err := spectrum.NewAnalyzer(cfg.Analyzer.FFTSize,
		spectrum.WithSmoothing(cfg.Analyzer.Smoothing),
		spectrum.WithDecibelRange(cfg.Analyzer.MinDB, cfg.Analyzer.MaxDB),
	)
	if err != nil {
		return err
	}

	modelOpts := []ui.Option{ui.WithLogger(logger)}
	if !opts.noAudio {
		if err := checkTrack(path); err != nil {
			return err
		}
		modelOpts = append(modelOpts, ui.WithLoader(trackLoader(path, logger)))
	}
	logger.Info("starting", "path", path, "fps", cfg.FPS, "bins", cfg.Bins(), "theme", themes.At(cfg.ThemeIndex).Name)

	model := ui.New(state, analyzer, cfg.FPS, modelOpts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// newLogger writes to a file while bubbletea owns the terminal.
func newLogger(debug bool) (*slog.Logger, func(), error) {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := tea.LogToFile(debugLogFile, "spectra")
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func browse(dir string) (string, error) {
	browser := ui.NewBrowser(dir)
	if err := browser.Error(); err != nil {
		return "", err
	}
	final, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("browser: %w", err)
	}
	bm, ok := final.(ui.BrowserModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T from browser", final)
	}
	result := bm.Result()
	if result.Cancelled {
		return "", nil
	}
	return result.Path, nil
}
