package turtle

import "math"

// SpriteID identifies a sprite within its world.
type SpriteID int32

// Sprite is a movable figure. X, Y and Rot are the targets set by the script;
// the rendered values chase them frame by frame at the sprite's speed.
type Sprite struct {
	Skin string
	// Speed scales NormalSpeed and NormalRotationSpeed. Zero moves instantly.
	Speed float64

	X, Y, Rot                         float64
	RenderedX, RenderedY, RenderedRot float64
}

func newSprite() *Sprite {
	y := BlockSize * (ScreenHeight - 1)
	return &Sprite{
		Skin:      "turtle",
		Speed:     1,
		Y:         y,
		RenderedY: y,
	}
}

// animate advances the rendered state by delta seconds.
func (s *Sprite) animate(delta float64) {
	s.RenderedRot = s.stepRotation(delta)

	step := s.Speed * NormalSpeed * delta
	angle := math.Atan2(s.Y-s.RenderedY, s.X-s.RenderedX)
	s.RenderedX = approach(s.RenderedX, s.X, step*math.Cos(angle))
	s.RenderedY = approach(s.RenderedY, s.Y, step*math.Sin(angle))
}

func (s *Sprite) stepRotation(delta float64) float64 {
	step := s.Speed * NormalRotationSpeed * delta
	if math.Abs(s.Rot-s.RenderedRot) <= step {
		return s.Rot
	}
	var clockwise, counter float64
	if s.RenderedRot > s.Rot {
		clockwise = 360 - s.RenderedRot + s.Rot
		counter = s.RenderedRot - s.Rot
	} else {
		clockwise = s.Rot - s.RenderedRot
		counter = s.RenderedRot + 360 - s.Rot
	}
	if clockwise < counter {
		return normalizeAngle(s.RenderedRot + step)
	}
	return normalizeAngle(s.RenderedRot - step)
}

// approach moves from toward target by step without overshooting.
func approach(from, target, step float64) float64 {
	if target < from {
		return math.Max(from+step, target)
	}
	return math.Min(from+step, target)
}

func (s *Sprite) settled() bool {
	return s.RenderedX == s.X && s.RenderedY == s.Y
}

func (s *Sprite) turned() bool {
	return s.RenderedRot == s.Rot
}

// BlockX is the grid column under the rendered position.
func (s *Sprite) BlockX() int {
	return cell(s.RenderedX)
}

// BlockY is the grid row under the rendered position.
func (s *Sprite) BlockY() int {
	return cell(s.RenderedY)
}

func (s *Sprite) forwardBlock() (int, int) {
	rad := s.Rot * math.Pi / 180
	return cell(s.RenderedX + math.Cos(rad)*BlockSize), cell(s.RenderedY + math.Sin(rad)*BlockSize)
}

// cell converts a pixel coordinate to a grid index. The epsilon absorbs the
// rounding error of cos and sin at right angles.
func cell(px float64) int {
	return int(math.Floor(px/BlockSize + 1e-9))
}

func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		return 360 + angle
	}
	return angle
}
