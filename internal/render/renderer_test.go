package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/spectra/internal/particle"
	"github.com/olivier-w/spectra/internal/scene"
)

func plainList() *scene.DrawList {
	return &scene.DrawList{Camera: scene.CameraAt(0)}
}

func lines(t *testing.T, out string, rows int) [][]rune {
	t.Helper()
	parts := strings.Split(out, "\n")
	if len(parts) != rows {
		t.Fatalf("expected %d rows, got %d", rows, len(parts))
	}
	grid := make([][]rune, rows)
	for i, p := range parts {
		grid[i] = []rune(p)
	}
	return grid
}

func TestViewport(t *testing.T) {
	vp := Viewport(120, 40)
	if vp.Width != 960 || vp.Height != 640 {
		t.Fatalf("expected 960x640, got %vx%v", vp.Width, vp.Height)
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	r := NewPlain()
	grid := lines(t, r.Render(plainList(), 30, 10), 10)
	for y, row := range grid {
		if len(row) != 30 {
			t.Fatalf("row %d: expected 30 cells, got %d", y, len(row))
		}
		for _, ch := range row {
			if ch != ' ' {
				t.Fatalf("expected blank frame, got %q", ch)
			}
		}
	}
	if r.Render(plainList(), 0, 10) != "" {
		t.Fatal("expected empty output for zero width")
	}
}

func sprite(style particle.Style, z, size float64) particle.Sprite {
	return particle.Sprite{
		Kind:     particle.Standard,
		Style:    style,
		Position: mgl64.Vec3{0, 0, z},
		Size:     size,
		Color:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

func TestSpriteAtScreenCenter(t *testing.T) {
	dl := plainList()
	dl.Sprites = append(dl.Sprites, sprite(particle.Sphere, -500, 10))
	grid := lines(t, NewPlain().Render(dl, 40, 20), 20)
	if grid[10][20] != '●' {
		t.Fatalf("expected sphere glyph at center, got %q", grid[10][20])
	}
}

func TestSpriteBehindCameraIsHidden(t *testing.T) {
	dl := plainList()
	dl.Sprites = append(dl.Sprites, sprite(particle.Sphere, 100, 10))
	out := NewPlain().Render(dl, 40, 20)
	if strings.ContainsRune(out, '●') {
		t.Fatal("expected sprite behind the camera to be culled")
	}
}

func TestNearestSpriteWins(t *testing.T) {
	far := sprite(particle.Sphere, -500, 10)
	near := sprite(particle.Box, -200, 3)

	for _, order := range [][]particle.Sprite{{far, near}, {near, far}} {
		dl := plainList()
		dl.Sprites = append(dl.Sprites, order...)
		grid := lines(t, NewPlain().Render(dl, 40, 20), 20)
		if grid[10][20] != '■' {
			t.Fatalf("expected nearer box to cover the sphere, got %q", grid[10][20])
		}
	}
}

func TestStripDrawsBraille(t *testing.T) {
	dl := plainList()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	dl.Strips = append(dl.Strips, scene.Strip{
		Vertices: []scene.Vertex{
			{Pos: mgl64.Vec3{-50, 0, -300}, Color: white},
			{Pos: mgl64.Vec3{50, 0, -300}, Color: white},
		},
		Weight: 1,
	})
	grid := lines(t, NewPlain().Render(dl, 40, 20), 20)
	count := 0
	for _, row := range grid {
		for _, ch := range row {
			if ch >= 0x2800 && ch <= 0x28FF {
				count++
			}
		}
	}
	if count < 5 {
		t.Fatalf("expected a braille line, got %d dot cells", count)
	}
}

func TestWireSphereVisible(t *testing.T) {
	dl := plainList()
	dl.Spheres = append(dl.Spheres, scene.WireSphere{
		Center:      mgl64.Vec3{0, 0, -1000},
		Radius:      100,
		Orientation: mgl64.Ident3(),
		Color:       color.RGBA{R: 100, G: 100, B: 255, A: 150},
	})
	out := NewPlain().Render(dl, 40, 20)
	if strings.TrimSpace(strings.ReplaceAll(out, "\n", "")) == "" {
		t.Fatal("expected the sphere wireframe to be drawn")
	}
}

func TestPlaneTintsBackground(t *testing.T) {
	var c canvas
	c.resize(4, 2)
	c.clear(rgb{})
	c.tint(-10, -10, 10, 10, rgb{R: 255, G: 255, B: 255}, 255)
	for i, cl := range c.cells {
		if cl.bg != (rgb{R: 255, G: 255, B: 255}) {
			t.Fatalf("cell %d not tinted: %+v", i, cl.bg)
		}
	}
}

func TestBlend(t *testing.T) {
	black, white := rgb{}, rgb{R: 255, G: 255, B: 255}
	if blend(black, white, 0) != black || blend(black, white, 255) != white {
		t.Fatal("expected alpha endpoints to pick dst and src")
	}
	mid := blend(black, white, 128)
	if mid.R < 120 || mid.R > 136 {
		t.Fatalf("expected mid gray, got %+v", mid)
	}
}

func TestColorSequence(t *testing.T) {
	c := rgb{R: 1, G: 2, B: 3}
	if got := colorSequence(colorTrueColor, c, false); got != "\x1b[38;2;1;2;3m" {
		t.Fatalf("unexpected fg sequence %q", got)
	}
	if got := colorSequence(colorTrueColor, c, true); got != "\x1b[48;2;1;2;3m" {
		t.Fatalf("unexpected bg sequence %q", got)
	}
	if got := colorSequence(colorANSI16, rgb{R: 205, G: 49, B: 49}, true); got != "\x1b[41m" {
		t.Fatalf("unexpected ansi16 bg %q", got)
	}
}

func TestColoredOutputResetsEachLine(t *testing.T) {
	r := &Renderer{profile: colorTrueColor}
	dl := plainList()
	dl.Background = color.RGBA{R: 10, G: 20, B: 30, A: 255}
	out := r.Render(dl, 5, 3)
	if strings.Count(out, "\x1b[0m") != 3 {
		t.Fatalf("expected one reset per line, got %q", out)
	}
	if !strings.Contains(out, "\x1b[48;2;10;20;30m") {
		t.Fatal("expected background color escape")
	}
}
