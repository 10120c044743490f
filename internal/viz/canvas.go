package viz

import (
	"math"
	"strings"

	"github.com/san-kum/jansim/internal/dynamo"
)

// Braille cells are 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a character grid with 2x4 addressable dots per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights dot (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Frame maps metres onto a canvas's dot grid with a uniform scale, y up.
type Frame struct {
	minX, maxY float64
	scale      float64
}

// Fit returns the frame that shows every point on c with a one-dot margin.
func Fit(c *Canvas, points []dynamo.Vec2) Frame {
	if len(points) == 0 {
		return Frame{scale: 1}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	dotsX, dotsY := float64(c.Width*2-3), float64(c.Height*4-3)
	scale := math.Inf(1)
	if maxX > minX {
		scale = dotsX / (maxX - minX)
	}
	if maxY > minY {
		scale = math.Min(scale, dotsY/(maxY-minY))
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	return Frame{minX: minX - 1/scale, maxY: maxY + 1/scale, scale: scale}
}

func (f Frame) Dot(p dynamo.Vec2) (int, int) {
	return int(math.Round((p.X - f.minX) * f.scale)), int(math.Round((f.maxY - p.Y) * f.scale))
}

// Segment draws a to b in world coordinates.
func (c *Canvas) Segment(f Frame, a, b dynamo.Vec2) {
	x0, y0 := f.Dot(a)
	x1, y1 := f.Dot(b)
	c.DrawLine(x0, y0, x1, y1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
