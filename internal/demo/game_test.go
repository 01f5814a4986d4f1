package demo

import (
	"testing"

	"framekeys/internal/config"
	"framekeys/internal/keyboard"
	"framekeys/internal/keytracker"
	"framekeys/internal/monitoring"

	"github.com/hajimehoshi/ebiten/v2"
)

type fakeKeyboard struct {
	down []ebiten.Key
}

func (f *fakeKeyboard) poll(keys []ebiten.Key) []ebiten.Key {
	return append(keys, f.down...)
}

func newTestGame(t *testing.T) (*Game, *fakeKeyboard, *keyboard.Queue) {
	t.Helper()
	cfg := config.Default()
	kb := &fakeKeyboard{}
	mon := monitoring.NewInputMonitor()
	q := keyboard.NewQueue(cfg.Input.QueueSize, mon)
	return NewGame(cfg, keytracker.New(kb.poll), q, mon), kb, q
}

// mustStep runs a frame that is not expected to end the game.
func mustStep(t *testing.T, g *Game, focused bool) {
	t.Helper()
	if err := g.Step(focused); err != nil {
		t.Fatalf("Step(%v): %v", focused, err)
	}
}

func TestStepMovesPlayerWithAxis(t *testing.T) {
	g, kb, _ := newTestGame(t)
	startX, startY := g.playerX, g.playerY

	kb.down = []ebiten.Key{ebiten.KeyD}
	if err := g.Step(true); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if g.playerX != startX+g.config.GetMoveSpeed() {
		t.Errorf("playerX = %v, want %v", g.playerX, startX+g.config.GetMoveSpeed())
	}
	if g.playerY != startY {
		t.Errorf("playerY moved to %v", g.playerY)
	}

	// Holding both directions cancels out.
	kb.down = []ebiten.Key{ebiten.KeyD, ebiten.KeyA}
	x := g.playerX
	mustStep(t, g, true)
	if g.playerX != x {
		t.Errorf("opposite keys should cancel, playerX %v -> %v", x, g.playerX)
	}
}

func TestAxisCombinesSources(t *testing.T) {
	g, kb, q := newTestGame(t)

	// ebiten reports A, a browser reports "d": the two bindings cancel.
	kb.down = []ebiten.Key{ebiten.KeyA}
	q.Push(keyboard.Event{Key: "d", Down: true})
	mustStep(t, g, true)

	if got := g.axis("horizontal"); got != 0 {
		t.Errorf("axis(horizontal) = %d, want 0", got)
	}
	if got := g.axis("unbound"); got != 0 {
		t.Errorf("axis(unbound) = %d, want 0", got)
	}
}

func TestStepJumpOnlyOnPressEdge(t *testing.T) {
	g, kb, _ := newTestGame(t)

	kb.down = []ebiten.Key{ebiten.KeySpace}
	for i := 0; i < jumpFrames*3; i++ {
		mustStep(t, g, true)
	}
	if g.jumps != 1 {
		t.Errorf("holding Space should jump once, got %d", g.jumps)
	}

	kb.down = nil
	for i := 0; i < jumpFrames; i++ {
		mustStep(t, g, true)
	}
	kb.down = []ebiten.Key{ebiten.KeySpace}
	mustStep(t, g, true)
	if g.jumps != 2 {
		t.Errorf("second press should jump again, got %d", g.jumps)
	}
}

func TestStepQuitOnEscapeRelease(t *testing.T) {
	g, kb, _ := newTestGame(t)

	kb.down = []ebiten.Key{ebiten.KeyEscape}
	if err := g.Step(true); err != nil {
		t.Fatalf("press should not quit: %v", err)
	}
	kb.down = nil
	if err := g.Step(true); err != ebiten.Termination {
		t.Fatalf("release should return ebiten.Termination, got %v", err)
	}
}

func TestStepEdgesClearAfterFrame(t *testing.T) {
	g, kb, _ := newTestGame(t)

	kb.down = []ebiten.Key{ebiten.KeyW}
	mustStep(t, g, true)
	if len(g.justPressed) != 1 || g.justPressed[0] != "W" {
		t.Fatalf("justPressed = %v, want [W]", g.justPressed)
	}
	if g.keys.WasJustPressed("W") {
		t.Error("Step must advance the frame before returning")
	}

	mustStep(t, g, true)
	if len(g.justPressed) != 0 {
		t.Errorf("justPressed = %v, want none on the second frame", g.justPressed)
	}

	kb.down = nil
	mustStep(t, g, true)
	if len(g.justReleased) != 1 || g.justReleased[0] != "W" {
		t.Errorf("justReleased = %v, want [W]", g.justReleased)
	}
}

func TestStepFocusLossReleasesKeys(t *testing.T) {
	g, kb, _ := newTestGame(t)

	kb.down = []ebiten.Key{ebiten.KeyS}
	mustStep(t, g, true)
	if !g.keys.IsPressed("S") {
		t.Fatal("S should be held")
	}

	mustStep(t, g, false)
	if g.keys.IsPressed("S") {
		t.Error("losing focus should release S")
	}
	if len(g.justReleased) != 1 {
		t.Errorf("justReleased = %v, want [S]", g.justReleased)
	}

	// Unfocused frames do not poll ebiten at all.
	mustStep(t, g, false)
	if g.keys.IsPressed("S") {
		t.Error("unfocused frames must not re-press S")
	}
}

func TestStepCountsDeliveredEvents(t *testing.T) {
	g, kb, q := newTestGame(t)

	kb.down = []ebiten.Key{ebiten.KeyA}
	q.Push(keyboard.Event{Key: "30", Down: true})
	q.Push(keyboard.Event{Key: "30"})
	mustStep(t, g, true)

	m := g.monitor.Snapshot()
	if m.EventsDelivered != 3 {
		t.Errorf("EventsDelivered = %d, want 3", m.EventsDelivered)
	}
	if m.Frames != 1 {
		t.Errorf("Frames = %d, want 1", m.Frames)
	}
	if m.HeldKeys != 1 {
		t.Errorf("HeldKeys = %d, want 1", m.HeldKeys)
	}
}

func TestPlayerStaysOnScreen(t *testing.T) {
	g, kb, _ := newTestGame(t)

	kb.down = []ebiten.Key{ebiten.KeyA, ebiten.KeyW}
	for i := 0; i < 1000; i++ {
		mustStep(t, g, true)
	}
	if g.playerX != 0 || g.playerY != 0 {
		t.Errorf("player should stop at the top-left corner, got (%v, %v)", g.playerX, g.playerY)
	}
}

func TestLayoutFromConfig(t *testing.T) {
	g, _, _ := newTestGame(t)
	w, h := g.Layout(1920, 1080)
	if w != g.config.GetScreenWidth() || h != g.config.GetScreenHeight() {
		t.Errorf("Layout = %dx%d", w, h)
	}
}

func TestQuoteKeys(t *testing.T) {
	got := quoteKeys([]string{" ", "a"})
	if got[0] != `" "` || got[1] != `"a"` {
		t.Errorf("quoteKeys = %v", got)
	}
}

func TestStepShowsKeyPressedAndReleasedInOneFrame(t *testing.T) {
	g, _, q := newTestGame(t)

	q.Push(keyboard.Event{Key: "a", Down: true})
	q.Push(keyboard.Event{Key: "a"})
	mustStep(t, g, true)

	if len(g.justReleased) != 1 || g.justReleased[0] != "a" {
		t.Errorf("justReleased = %v, want [a]", g.justReleased)
	}
	if len(g.justPressed) != 0 {
		t.Errorf("justPressed = %v, want none", g.justPressed)
	}

	mustStep(t, g, true)
	if len(g.justReleased) != 0 {
		t.Errorf("justReleased = %v, want none on the next frame", g.justReleased)
	}
}

func TestStepReportsRepeatedReleaseOnce(t *testing.T) {
	g, _, q := newTestGame(t)

	for i := 0; i < 2; i++ {
		q.Push(keyboard.Event{Key: "s", Down: true})
		q.Push(keyboard.Event{Key: "s"})
	}
	mustStep(t, g, true)

	if len(g.justReleased) != 1 || g.justReleased[0] != "s" {
		t.Errorf("justReleased = %v, want [s]", g.justReleased)
	}
}
