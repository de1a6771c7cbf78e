package render

import "math"

// Each cell is a 2x4 braille dot grid; lines and wireframes are plotted at
// dot resolution while particles take whole cells.
const (
	dotsX = 2
	dotsY = 4
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [dotsX][dotsY]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

type cell struct {
	glyph rune // non-zero when a particle owns the cell
	dots  uint8
	fg    rgb
	bg    rgb
	depth float64
}

type canvas struct {
	cols, rows int
	cells      []cell
}

func (c *canvas) resize(cols, rows int) {
	c.cols, c.rows = cols, rows
	if n := cols * rows; cap(c.cells) < n {
		c.cells = make([]cell, n)
	} else {
		c.cells = c.cells[:n]
	}
}

func (c *canvas) clear(bg rgb) {
	for i := range c.cells {
		c.cells[i] = cell{bg: bg, fg: bg, depth: math.Inf(1)}
	}
}

func (c *canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

// tint blends a translucent layer over the background of every cell in the
// given cell rectangle.
func (c *canvas) tint(x0, y0, x1, y1 int, col rgb, alpha uint8) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.cols-1), min(y1, c.rows-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cl := &c.cells[y*c.cols+x]
			cl.bg = blend(cl.bg, col, alpha)
			if cl.dots == 0 && cl.glyph == 0 {
				cl.fg = cl.bg
			}
		}
	}
}

// dot sets one braille dot if it is not behind what the cell already shows.
func (c *canvas) dot(dx, dy int, depth float64, col rgb, alpha uint8) {
	if dx < 0 || dy < 0 {
		return
	}
	cl := c.at(dx/dotsX, dy/dotsY)
	if cl == nil || cl.glyph != 0 && depth > cl.depth {
		return
	}
	if depth <= cl.depth || cl.dots == 0 {
		cl.fg = blend(cl.bg, col, alpha)
		cl.depth = depth
	}
	cl.dots |= 1 << brailleBits[dx%dotsX][dy%dotsY]
}

// glyph places a particle character in a cell when it is nearest.
func (c *canvas) glyph(col, row int, depth float64, r rune, fg rgb, alpha uint8) {
	cl := c.at(col, row)
	if cl == nil || depth > cl.depth {
		return
	}
	cl.glyph = r
	cl.dots = 0
	cl.fg = blend(cl.bg, fg, alpha)
	cl.depth = depth
}

// line plots dots from a to b, interpolating depth and color.
func (c *canvas) line(a, b point, ca, cb rgb, aa, ab uint8) {
	x0, y0 := int(math.Round(a.x)), int(math.Round(a.y))
	x1, y1 := int(math.Round(b.x)), int(math.Round(b.y))
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	steps := max(dx, -dy)
	maxDots := (c.cols*dotsX + c.rows*dotsY) * 2
	if steps > maxDots {
		return
	}
	err := dx + dy
	for i := 0; ; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		col := ca
		if ca != cb {
			col = fromColorful(ca.colorful().BlendRgb(cb.colorful(), t))
		}
		alpha := uint8(math.Round(float64(aa) + (float64(ab)-float64(aa))*t))
		c.dot(x0, y0, a.depth+(b.depth-a.depth)*t, col, alpha)

		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
