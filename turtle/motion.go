package turtle

import (
	"math"

	"github.com/turtlico/turtlicoscript/tcs"
)

// moveTo sets the sprite's target position in pixels and blocks until the
// sprite arrives, unless its speed is zero.
func (w *World) moveTo(id SpriteID, x, y float64) error {
	animated := false
	err := w.withSprite(id, func(s *Sprite) error {
		s.X, s.Y = x, y
		if s.Speed <= 0 {
			s.RenderedX, s.RenderedY = x, y
			return nil
		}
		animated = !s.settled()
		return nil
	})
	if err != nil || !animated {
		return err
	}
	return w.waitUntil(id, (*Sprite).settled)
}

// setTarget moves the target without waiting for the sprite.
func (w *World) setTarget(id SpriteID, x, y float64) error {
	return w.withSprite(id, func(s *Sprite) error {
		s.X, s.Y = x, y
		return nil
	})
}

// forward moves the sprite distance blocks along its heading.
func (w *World) forward(id SpriteID, distance float64) error {
	var x, y float64
	err := w.withSprite(id, func(s *Sprite) error {
		rad := s.Rot * math.Pi / 180
		x = math.Round(s.X + math.Cos(rad)*distance*BlockSize)
		y = math.Round(s.Y + math.Sin(rad)*distance*BlockSize)
		return nil
	})
	if err != nil {
		return err
	}
	return w.moveTo(id, x, y)
}

// turn sets the heading in degrees, clockwise from the right. With relative
// set, rot is added to the current heading.
func (w *World) turn(id SpriteID, rot float64, relative bool) error {
	animated := false
	err := w.withSprite(id, func(s *Sprite) error {
		if relative {
			rot += s.Rot
		}
		s.Rot = normalizeAngle(rot)
		if s.Speed <= 0 {
			s.RenderedRot = s.Rot
			return nil
		}
		animated = !s.turned()
		return nil
	})
	if err != nil || !animated {
		return err
	}
	return w.waitUntil(id, (*Sprite).turned)
}

func (w *World) setSpeed(id SpriteID, speed float64) error {
	return w.withSprite(id, func(s *Sprite) error {
		s.Speed = speed
		return nil
	})
}

func (w *World) blockXY(id SpriteID) (int, int, error) {
	var x, y int
	err := w.withSprite(id, func(s *Sprite) error {
		x, y = s.BlockX(), s.BlockY()
		return nil
	})
	return x, y, err
}

// waitUntil blocks frame by frame until done holds for the sprite.
func (w *World) waitUntil(id SpriteID, done func(*Sprite) bool) error {
	for {
		if !w.nextFrame() {
			return tcs.Interrupted()
		}
		finished := false
		err := w.withSprite(id, func(s *Sprite) error {
			finished = done(s)
			return nil
		})
		if err != nil {
			return err
		}
		if finished {
			return nil
		}
	}
}

// waitForInput blocks until a frame reports user input.
func (w *World) waitForInput() error {
	for {
		if !w.nextFrame() {
			return tcs.Interrupted()
		}
		w.mu.Lock()
		active := w.input.active()
		w.mu.Unlock()
		if active {
			return nil
		}
	}
}
