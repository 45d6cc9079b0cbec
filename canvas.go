package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"elemerge/internal/board"
	"elemerge/internal/catalog"
)

// Canvas draws the board into terminal cells. One cell covers
// cellW x cellH board units.
type Canvas struct {
	surface *board.Surface
	catalog *catalog.Catalog
	cellW   float64
	cellH   float64
}

func NewCanvas(surface *board.Surface, cat *catalog.Catalog, cellW, cellH float64) *Canvas {
	return &Canvas{
		surface: surface,
		catalog: cat,
		cellW:   cellW,
		cellH:   cellH,
	}
}

// pointerAt converts a screen cell to pointer units.
func (c *Canvas) pointerAt(col, row int) board.Point {
	return board.Point{X: float64(col) * c.cellW, Y: float64(row) * c.cellH}
}

// cellOf converts a canvas position to a cell relative to the canvas top.
func (c *Canvas) cellOf(x, y float64) point {
	return point{
		X: int(math.Floor(x / c.cellW)),
		Y: int(math.Floor(y / c.cellH)),
	}
}

func (c *Canvas) tileWidth(kind string) int {
	return runewidth.StringWidth(c.catalog.Lookup(kind)) + tilePadding
}

// TileAt returns the top-most item covering the canvas cell (col, row).
func (c *Canvas) TileAt(col, row int) (board.Item, bool) {
	items := c.surface.Store().ByStack()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		p := c.cellOf(it.X, it.Y)
		if col >= p.X && col < p.X+c.tileWidth(it.Kind) && row >= p.Y && row < p.Y+tileHeight {
			return it, true
		}
	}
	return board.Item{}, false
}

// Render draws the canvas. The item being dragged is hidden and drawn
// as a ghost at the drop target instead.
func (c *Canvas) Render(width, height int, drag *dragState) *grid {
	g := newGrid(width, height)

	hidden := ""
	if drag != nil {
		hidden = drag.gesture.ItemID
	}
	for _, it := range c.surface.Store().ByStack() {
		if it.ID == hidden {
			continue
		}
		p := c.cellOf(it.X, it.Y)
		c.drawTileAt(g, c.catalog.Lookup(it.Kind), p.X, p.Y, styleTile)
	}

	if drag != nil {
		target := c.surface.Target(drag.gesture, c.pointerAt(drag.col, drag.row))
		p := c.cellOf(target.X, target.Y)
		c.drawTileAt(g, c.catalog.Lookup(drag.gesture.Kind), p.X, p.Y, styleGhost)
	}
	return g
}

func (c *Canvas) drawTileAt(g *grid, label string, x, y int, st cellStyle) {
	inner := runewidth.StringWidth(label) + 2
	g.put(x, y, "╭"+strings.Repeat("─", inner)+"╮", st)
	g.put(x, y+1, "│ "+label+" │", st)
	g.put(x, y+2, "╰"+strings.Repeat("─", inner)+"╯", st)
}

// cell holds one terminal column. A wide rune occupies its own cell
// followed by a continuation cell with an empty ch.
type cell struct {
	ch    string
	style cellStyle
}

type grid struct {
	width  int
	height int
	cells  [][]cell
}

func newGrid(width, height int) *grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{ch: " "}
		}
	}
	return &grid{width: width, height: height, cells: cells}
}

func (g *grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *grid) put(x, y int, s string, st cellStyle) {
	if y < 0 || y >= g.height {
		return
	}
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// Combining marks and variation selectors ride on the previous cell.
			if g.inBounds(col-1, y) && g.cells[y][col-1].ch != "" {
				g.cells[y][col-1].ch += string(r)
			}
			continue
		}
		if w == 2 {
			if g.inBounds(col, y) && g.inBounds(col+1, y) {
				g.set(col, y, string(r), st)
				g.set(col+1, y, "", st)
			} else if g.inBounds(col, y) {
				g.set(col, y, " ", st)
			}
		} else if g.inBounds(col, y) {
			g.set(col, y, string(r), st)
		}
		col += w
	}
}

// set writes one cell, blanking any wide rune it cuts in half.
func (g *grid) set(x, y int, ch string, st cellStyle) {
	row := g.cells[y]
	if row[x].ch == "" && x > 0 && ch != "" {
		row[x-1] = cell{ch: " ", style: row[x-1].style}
	}
	if runewidth.StringWidth(row[x].ch) == 2 && x+1 < g.width {
		row[x+1] = cell{ch: " ", style: row[x+1].style}
	}
	row[x] = cell{ch: ch, style: st}
}

func (g *grid) plain() []string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteString(c.ch)
		}
		lines[y] = b.String()
	}
	return lines
}

// styled renders each row, grouping runs of equal style.
func (g *grid) styled(styles map[cellStyle]lipgloss.Style) []string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var b, run strings.Builder
		current := styleNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[current]; ok && current != styleNone {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.style != current {
				flush()
				current = c.style
			}
			run.WriteString(c.ch)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

// ExportToPNG writes the placed tiles to an image. Board units map one
// to one onto pixels.
func (c *Canvas) ExportToPNG(filename string) error {
	items := c.surface.Store().ByStack()
	if len(items) == 0 {
		return fmt.Errorf("nothing to export")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, it := range items {
		w := float64(c.pngTileWidth(it.Kind)) * c.cellW
		h := tileHeight * c.cellH
		minX = math.Min(minX, it.X)
		minY = math.Min(minY, it.Y)
		maxX = math.Max(maxX, it.X+w)
		maxY = math.Max(maxY, it.Y+h)
	}

	padding := 2 * c.cellW
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	dc := gg.NewContext(int(maxX-minX), int(maxY-minY))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, it := range items {
		c.drawTilePNG(dc, it, minX, minY)
	}

	return dc.SavePNG(filename)
}

// The bundled mono font has no emoji, so exported tiles show text only.
func (c *Canvas) pngLabel(kind string) string {
	if k, ok := c.catalog.Get(kind); ok {
		return k.Text
	}
	return kind
}

func (c *Canvas) pngTileWidth(kind string) int {
	return runewidth.StringWidth(c.pngLabel(kind)) + tilePadding
}

func (c *Canvas) drawTilePNG(dc *gg.Context, it board.Item, minX, minY float64) {
	x := it.X - minX
	y := it.Y - minY
	w := float64(c.pngTileWidth(it.Kind)) * c.cellW
	h := tileHeight * c.cellH

	dc.DrawRoundedRectangle(x, y, w, h, c.cellW)
	dc.SetColor(color.RGBA{R: 0xf4, G: 0xf5, B: 0xf6, A: 0xff})
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.DrawStringAnchored(c.pngLabel(it.Kind), x+w/2, y+h/2, 0.5, 0.35)
}
