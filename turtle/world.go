package turtle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/turtlico/turtlicoscript/tcs"
)

const (
	// NormalSpeed is the movement speed at speed 1, in pixels per second.
	NormalSpeed = 64.0
	// NormalRotationSpeed is the turning speed at speed 1, in degrees per second.
	NormalRotationSpeed = 180.0
	BlockSize           = 32.0
	ScreenWidth         = 16
	ScreenHeight        = 10
	// Layers is the depth of the block grid. Placing a block pushes the
	// existing ones one layer down.
	Layers = 3
)

// DefaultBlocks are the block names every world knows.
var DefaultBlocks = []string{"bricks", "fence", "flower", "grass", "turtle", "wood"}

// SyncState is the message a world sends to blocked natives once per frame.
type SyncState int

const (
	SyncUpdate SyncState = iota
	SyncCancelled
)

// Options configures a World.
type Options struct {
	// ScriptDir resolves "./name" block references to files next to the
	// script.
	ScriptDir string
	Logger    *slog.Logger
}

// World is the shared scene a script and its host operate on. The script's
// natives mutate it from the interpreter goroutine while the host calls Tick
// from its frame loop.
type World struct {
	mu      sync.Mutex
	sprites map[SpriteID]*Sprite
	blocks  map[string]struct{}
	grid    [ScreenWidth][ScreenHeight][Layers]string
	input   Input

	frames chan SyncState
	closed bool

	scriptDir string
	logger    *slog.Logger
}

// Input is the user input observed during the last frame.
type Input struct {
	Keys      []string
	Primary   bool
	Secondary bool
}

func (i Input) active() bool {
	return len(i.Keys) > 0 || i.Primary || i.Secondary
}

func NewWorld(opts Options) *World {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	w := &World{
		sprites:   make(map[SpriteID]*Sprite),
		blocks:    make(map[string]struct{}),
		frames:    make(chan SyncState, 1),
		scriptDir: opts.ScriptDir,
		logger:    opts.Logger,
	}
	for _, name := range DefaultBlocks {
		w.blocks[name] = struct{}{}
	}
	return w
}

// Tick animates every sprite by delta and releases natives waiting for the
// next frame. A cancelled tick wakes them with SyncCancelled.
func (w *World) Tick(delta time.Duration, cancelled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sprite := range w.sprites {
		sprite.animate(delta.Seconds())
	}
	if w.closed {
		return
	}

	state := SyncUpdate
	if cancelled {
		state = SyncCancelled
	}
	select {
	case w.frames <- state:
		return
	default:
	}
	// A frame is still pending. Cancellation replaces it so a waiting native
	// cannot miss it.
	if cancelled {
		select {
		case <-w.frames:
		default:
		}
		select {
		case w.frames <- state:
		default:
		}
	}
}

// SetInput records the input of the current frame.
func (w *World) SetInput(input Input) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.input = input
}

// Close stops frame delivery. Natives blocked on a frame return as if
// cancelled.
func (w *World) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.frames)
}

// nextFrame blocks until the host ticks. It reports false when the run was
// cancelled or the world closed.
func (w *World) nextFrame() bool {
	state, ok := <-w.frames
	return ok && state == SyncUpdate
}

func (w *World) addSprite() SpriteID {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := SpriteID(0)
	for {
		if _, taken := w.sprites[id]; !taken {
			break
		}
		id++
	}
	w.sprites[id] = newSprite()
	w.logger.Debug("sprite added", "sprite", id)
	return id
}

// withSprite runs fn with the world locked.
func (w *World) withSprite(id SpriteID, fn func(*Sprite) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sprite, ok := w.sprites[id]
	if !ok {
		return tcs.ErrNativeLibrary("unknown sprite %d", id)
	}
	return fn(sprite)
}

// Sprite returns a copy of the sprite's state.
func (w *World) Sprite(id SpriteID) (Sprite, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sprite, ok := w.sprites[id]
	if !ok {
		return Sprite{}, false
	}
	return *sprite, true
}

// resolveBlock checks a block name. Names starting with "./" are loaded from
// the script directory on first use.
func (w *World) resolveBlock(name string) (string, error) {
	if _, ok := w.blocks[name]; ok {
		return name, nil
	}
	if rel, ok := strings.CutPrefix(name, "./"); ok && w.scriptDir != "" {
		path := filepath.Join(w.scriptDir, filepath.FromSlash(rel))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			w.blocks[name] = struct{}{}
			w.logger.Debug("block loaded", "block", name, "path", path)
			return name, nil
		}
	}
	return "", tcs.ErrInvalidBlock(name)
}

func (w *World) setSkin(id SpriteID, skin string) error {
	return w.withSprite(id, func(s *Sprite) error {
		name, err := w.resolveBlock(skin)
		if err != nil {
			return err
		}
		s.Skin = name
		return nil
	})
}

// blockTarget selects the cell place_block and destroy_block act on: explicit
// coordinates win, a lone coordinate keeps the sprite's other axis, and with
// none the cell in front of the sprite is used unless onSprite is set.
type blockTarget struct {
	x, y         *int
	onSprite     bool
	block        string
	destroyBlock bool
}

func (w *World) applyBlock(id SpriteID, target blockTarget) error {
	return w.withSprite(id, func(s *Sprite) error {
		fx, fy := s.forwardBlock()
		bx, by := fx, fy
		if target.onSprite || target.y != nil {
			bx = s.BlockX()
		}
		if target.onSprite || target.x != nil {
			by = s.BlockY()
		}
		if target.x != nil {
			bx = *target.x
		}
		if target.y != nil {
			by = *target.y
		}
		if bx < 0 || bx >= ScreenWidth || by < 0 || by >= ScreenHeight {
			return tcs.ErrNativeLibrary("block position %d, %d is outside the world", bx, by)
		}

		cell := &w.grid[bx][by]
		if target.destroyBlock {
			*cell = [Layers]string{}
			return nil
		}
		name, err := w.resolveBlock(target.block)
		if err != nil {
			return err
		}
		copy(cell[1:], cell[:Layers-1])
		cell[0] = name
		return nil
	})
}

// Block returns the block stack at a cell, top layer first.
func (w *World) Block(x, y int) ([Layers]string, bool) {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return [Layers]string{}, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.grid[x][y], true
}

// Render draws the grid as text: one character per cell, '.' for empty cells,
// the first letter of the top block otherwise and a direction arrow for
// sprites.
func (w *World) Render() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var rows [ScreenHeight][ScreenWidth]rune
	for x := 0; x < ScreenWidth; x++ {
		for y := 0; y < ScreenHeight; y++ {
			rows[y][x] = '.'
			if top := w.grid[x][y][0]; top != "" {
				if r, _ := utf8.DecodeRuneInString(strings.TrimPrefix(top, "./")); r != utf8.RuneError {
					rows[y][x] = r
				}
			}
		}
	}

	ids := make([]SpriteID, 0, len(w.sprites))
	for id := range w.sprites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s := w.sprites[id]
		x, y := s.BlockX(), s.BlockY()
		if x >= 0 && x < ScreenWidth && y >= 0 && y < ScreenHeight {
			rows[y][x] = arrow(s.RenderedRot)
		}
	}

	var sb strings.Builder
	for y, row := range rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row[:]))
	}
	return sb.String()
}

func arrow(rot float64) rune {
	switch int(normalizeAngle(rot+45)) / 90 {
	case 1:
		return 'v'
	case 2:
		return '<'
	case 3:
		return '^'
	}
	return '>'
}

func (w *World) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fmt.Sprintf("world (%d sprites)", len(w.sprites))
}
