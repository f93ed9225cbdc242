package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille cell dot bits, indexed [row][col]. Each cell is 2x4 dots.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a dot canvas of Width x Height braille cells.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// PlotTopDown draws the x-y projection of xs centered on the origin,
// scaled so that a distance of extent fills the shorter half-axis.
func (c *Canvas) PlotTopDown(xs []mgl64.Vec3, extent float64) {
	if extent <= 0 {
		return
	}
	w, h := c.Width*2, c.Height*4
	scale := float64(min(w, h)) / 2 / extent
	for _, x := range xs {
		px := w/2 + int(math.Round(x.X()*scale))
		py := h/2 - int(math.Round(x.Y()*scale))
		c.Set(px, py)
	}
}

// Extent is the largest x-y distance from the origin among xs.
func Extent(xs []mgl64.Vec3) float64 {
	var r float64
	for _, x := range xs {
		r = math.Max(r, math.Hypot(x.X(), x.Y()))
	}
	return r
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
