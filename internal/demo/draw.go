package demo

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	colorBackground = color.RGBA{20, 24, 32, 255}
	colorPlayer     = color.RGBA{90, 170, 240, 255}
	colorJumping    = color.RGBA{240, 200, 90, 255}
	colorLabel      = color.RGBA{150, 150, 150, 255}
	colorValue      = color.RGBA{230, 230, 230, 255}
	colorPressed    = color.RGBA{120, 220, 120, 255}
	colorReleased   = color.RGBA{230, 120, 120, 255}
)

const hudLineHeight = 16

type coloredTextSegment struct {
	text  string
	color color.Color
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	c := colorPlayer
	size := float32(playerSize)
	if g.jumpTimer > 0 {
		c = colorJumping
		size += float32(g.jumpTimer) / 2
	}
	offset := (size - playerSize) / 2
	vector.DrawFilledRect(screen, float32(g.playerX)-offset, float32(g.playerY)-offset, size, size, c, false)

	if g.config.Display.ShowHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	m := g.monitor.Snapshot()
	lines := [][]coloredTextSegment{
		{{"held      ", colorLabel}, {strings.Join(quoteKeys(g.keys.Held()), " "), colorValue}},
		{{"pressed   ", colorLabel}, {strings.Join(quoteKeys(g.justPressed), " "), colorPressed}},
		{{"released  ", colorLabel}, {strings.Join(quoteKeys(g.justReleased), " "), colorReleased}},
		{{"axis      ", colorLabel}, {fmt.Sprintf("x=%+d y=%+d", g.axis("horizontal"), g.axis("vertical")), colorValue}},
		{{"jumps     ", colorLabel}, {fmt.Sprintf("%d", g.jumps), colorValue}},
		{{"frames    ", colorLabel}, {fmt.Sprintf("%d  events %d  dropped %d", m.Frames, m.EventsDelivered, m.EventsDropped), colorValue}},
	}
	for i, segs := range lines {
		drawColoredTextSegments(screen, 8, 8+i*hudLineHeight, segs)
	}
}

func drawColoredTextSegments(screen *ebiten.Image, x, y int, segments []coloredTextSegment) {
	face := basicfont.Face7x13
	baseline := y + face.Ascent
	curX := x
	for _, seg := range segments {
		ebitext.Draw(screen, seg.text, face, curX, baseline, seg.color)
		curX += font.MeasureString(face, seg.text).Round()
	}
}

// quoteKeys makes keys like " " visible on screen.
func quoteKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}
