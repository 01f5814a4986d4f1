// Package demo is a small ebiten game that consumes keyboard.State the way a
// real game loop would: feed events, poll, then advance the frame.
package demo

import (
	"slices"

	"framekeys/internal/config"
	"framekeys/internal/keyboard"
	"framekeys/internal/keytracker"
	"framekeys/internal/mathutil"
	"framekeys/internal/monitoring"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	playerSize = 24
	jumpFrames = 12
)

// Game owns the keyboard state for the whole session.
type Game struct {
	config  *config.Config
	keys    *keyboard.State
	input   frameInput
	tracker *keytracker.Tracker // nil when the ebiten source is disabled
	queue   *keyboard.Queue
	monitor *monitoring.InputMonitor

	focused bool

	playerX, playerY float64
	jumpTimer        int
	jumps            int

	// HUD data for the last completed frame
	justPressed  []string
	justReleased []string
}

// frameInput forwards events to the keyboard state and remembers every key
// that went up during the frame, including keys pressed inside the same
// frame that never show up in Held.
type frameInput struct {
	keys *keyboard.State
	ups  []string
}

func (f *frameInput) OnKeyDown(key string) {
	f.keys.OnKeyDown(key)
}

func (f *frameInput) OnKeyUp(key string) {
	f.ups = append(f.ups, key)
	f.keys.OnKeyUp(key)
}

// NewGame wires the enabled sources into a fresh keyboard state. tracker may
// be nil; queue carries events from the bridge and evdev sources.
func NewGame(cfg *config.Config, tracker *keytracker.Tracker, queue *keyboard.Queue, monitor *monitoring.InputMonitor) *Game {
	keys := keyboard.NewState()
	return &Game{
		config:  cfg,
		keys:    keys,
		input:   frameInput{keys: keys},
		tracker: tracker,
		queue:   queue,
		monitor: monitor,
		focused: true,
		playerX: float64(cfg.GetScreenWidth()-playerSize) / 2,
		playerY: float64(cfg.GetScreenHeight()-playerSize) / 2,
	}
}

// Keys exposes the keyboard state to other systems of the game.
func (g *Game) Keys() *keyboard.State {
	return g.keys
}

func (g *Game) Update() error {
	return g.Step(ebiten.IsFocused())
}

// Step runs one logical frame. Events are applied first, everything in
// between polls, and AdvanceFrame closes the frame.
func (g *Game) Step(focused bool) error {
	frameTimer := g.monitor.StartFrame()
	defer frameTimer.EndFrame()

	g.monitor.RecordDelivered(g.collectInput(focused))

	g.updateEdges()
	g.updatePlayer()
	quit := g.anyJustReleased(g.config.GetAction("quit"))

	g.keys.AdvanceFrame()
	g.monitor.SetHeldKeys(g.keys.Len())

	if quit {
		return ebiten.Termination
	}
	return nil
}

// collectInput feeds every source into the keyboard state and returns the
// number of events delivered.
func (g *Game) collectInput(focused bool) int {
	g.input.ups = g.input.ups[:0]
	n := 0
	if g.tracker != nil {
		switch {
		case focused:
			n += g.tracker.Update(&g.input)
		case g.focused:
			// ebiten stops reporting releases once the window loses focus
			n += g.tracker.Reset(&g.input)
		}
	}
	g.focused = focused
	if g.queue != nil {
		n += g.queue.Drain(&g.input)
	}
	return n
}

// updateEdges collects this frame's edges for the HUD. AdvanceFrame leaves
// the frame set equal to the live set, so a key can only be just released
// if a key-up for it arrived this frame.
func (g *Game) updateEdges() {
	g.justPressed = g.justPressed[:0]
	for _, k := range g.keys.Held() {
		if g.keys.WasJustPressed(k) {
			g.justPressed = append(g.justPressed, k)
		}
	}
	g.justReleased = g.justReleased[:0]
	for _, k := range g.input.ups {
		if g.keys.WasJustReleased(k) && !slices.Contains(g.justReleased, k) {
			g.justReleased = append(g.justReleased, k)
		}
	}
}

func (g *Game) updatePlayer() {
	speed := g.config.GetMoveSpeed()
	g.playerX += float64(g.axis("horizontal")) * speed
	g.playerY += float64(g.axis("vertical")) * speed
	g.playerX = mathutil.Clamp(g.playerX, 0, float64(g.config.GetScreenWidth()-playerSize))
	g.playerY = mathutil.Clamp(g.playerY, 0, float64(g.config.GetScreenHeight()-playerSize))

	if g.jumpTimer > 0 {
		g.jumpTimer--
	}
	if g.jumpTimer == 0 && g.anyJustPressed(g.config.GetAction("jump")) {
		g.jumps++
		g.jumpTimer = jumpFrames
	}
}

// axis sums every binding of the named axis, so pressing A and ArrowRight
// together cancels out just like a single pair would.
func (g *Game) axis(name string) int {
	sum := 0
	for _, p := range g.config.GetAxis(name) {
		sum += g.keys.InputAxis(p.Negative, p.Positive)
	}
	return mathutil.Sign(sum)
}

func (g *Game) anyJustPressed(keys []string) bool {
	for _, k := range keys {
		if g.keys.WasJustPressed(k) {
			return true
		}
	}
	return false
}

func (g *Game) anyJustReleased(keys []string) bool {
	for _, k := range keys {
		if g.keys.WasJustReleased(k) {
			return true
		}
	}
	return false
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.GetScreenWidth(), g.config.GetScreenHeight()
}
