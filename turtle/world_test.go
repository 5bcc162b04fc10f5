package turtle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/turtlico/turtlicoscript/tcs"
)

func intp(n int) *int { return &n }

func TestPlaceBlockStacksLayers(t *testing.T) {
	w := NewWorld(Options{})
	id := w.addSprite()

	for _, name := range []string{"grass", "wood", "bricks", "fence"} {
		if err := w.applyBlock(id, blockTarget{block: name}); err != nil {
			t.Fatalf("place %s: %v", name, err)
		}
	}
	stack, ok := w.Block(1, ScreenHeight-1)
	if !ok {
		t.Fatalf("cell out of range")
	}
	if stack != [Layers]string{"fence", "bricks", "wood"} {
		t.Fatalf("unexpected stack %v", stack)
	}

	if err := w.applyBlock(id, blockTarget{destroyBlock: true}); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if stack, _ := w.Block(1, ScreenHeight-1); stack != ([Layers]string{}) {
		t.Fatalf("destroy left %v", stack)
	}
}

func TestBlockTargetSelection(t *testing.T) {
	w := NewWorld(Options{})
	id := w.addSprite()

	if err := w.applyBlock(id, blockTarget{block: "grass", onSprite: true}); err != nil {
		t.Fatalf("on sprite: %v", err)
	}
	if err := w.applyBlock(id, blockTarget{block: "wood", x: intp(4)}); err != nil {
		t.Fatalf("x only: %v", err)
	}
	if err := w.applyBlock(id, blockTarget{block: "flower", y: intp(2)}); err != nil {
		t.Fatalf("y only: %v", err)
	}
	checks := []struct {
		x, y int
		want string
	}{
		{0, ScreenHeight - 1, "grass"},
		{4, ScreenHeight - 1, "wood"},
		{0, 2, "flower"},
	}
	for _, c := range checks {
		if stack, _ := w.Block(c.x, c.y); stack[0] != c.want {
			t.Fatalf("cell %d,%d: got %v want %s", c.x, c.y, stack, c.want)
		}
	}
}

func TestBlockErrors(t *testing.T) {
	w := NewWorld(Options{})
	id := w.addSprite()

	err := w.applyBlock(id, blockTarget{block: "grass", x: intp(ScreenWidth), y: intp(0)})
	var rt *tcs.RuntimeError
	if !errors.As(err, &rt) || rt.Kind != tcs.RuntimeNativeLibraryError {
		t.Fatalf("expected out of world error, got %v", err)
	}
	err = w.applyBlock(id, blockTarget{block: "lava"})
	if !errors.As(err, &rt) || rt.Kind != tcs.RuntimeInvalidBlock || rt.Name != "lava" {
		t.Fatalf("expected invalid block, got %v", err)
	}
}

func TestScriptDirBlocks(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stone.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write block: %v", err)
	}
	w := NewWorld(Options{ScriptDir: dir})
	id := w.addSprite()
	if err := w.setSkin(id, "./stone.png"); err != nil {
		t.Fatalf("skin: %v", err)
	}
	if s, _ := w.Sprite(id); s.Skin != "./stone.png" {
		t.Fatalf("unexpected skin %q", s.Skin)
	}
	if err := w.setSkin(id, "./missing.png"); err == nil {
		t.Fatalf("expected missing block error")
	}
}

func TestRender(t *testing.T) {
	w := NewWorld(Options{})
	id := w.addSprite()
	if err := w.applyBlock(id, blockTarget{block: "wood", x: intp(2), y: intp(0)}); err != nil {
		t.Fatalf("place: %v", err)
	}
	rows := strings.Split(w.Render(), "\n")
	if len(rows) != ScreenHeight {
		t.Fatalf("expected %d rows, got %d", ScreenHeight, len(rows))
	}
	if rows[0] != "..w............." {
		t.Fatalf("unexpected top row %q", rows[0])
	}
	if !strings.HasPrefix(rows[ScreenHeight-1], ">.") {
		t.Fatalf("expected sprite facing right, got %q", rows[ScreenHeight-1])
	}
}

func TestTickReleasesWaiters(t *testing.T) {
	w := NewWorld(Options{})
	done := make(chan bool, 1)
	go func() { done <- w.nextFrame() }()
	w.Tick(time.Millisecond, false)
	if !<-done {
		t.Fatalf("expected update frame")
	}

	w.Tick(time.Millisecond, false)
	w.Tick(time.Millisecond, true)
	if w.nextFrame() {
		t.Fatalf("pending frame must be replaced by cancellation")
	}

	w.Close()
	w.Tick(time.Millisecond, false)
	if w.nextFrame() {
		t.Fatalf("closed world must not deliver frames")
	}
}
