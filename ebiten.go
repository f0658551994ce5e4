package xrpanel

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Tick advances the picker by one ebiten tick. Call it from Game.Update.
func (p *ElementPicker) Tick() {
	p.Update(1.0 / float64(ebiten.TPS()))
}

// CursorHitSource turns the desktop mouse cursor into a ray hit for one hand,
// so a panel can be exercised without a headset. The panel occupies the
// window rectangle at Origin with the given size; window y grows downward
// and is flipped into the panel's bottom-left origin.
type CursorHitSource struct {
	Hand          Hand
	Origin        Vec2
	Width, Height float64

	// Cursor returns the cursor position. Nil means ebiten.CursorPosition.
	Cursor func() (int, int)

	hit [1]RayHit
}

// NewCursorHitSource creates a cursor source for a panel drawn at origin.
func NewCursorHitSource(hand Hand, origin Vec2, width, height float64) *CursorHitSource {
	return &CursorHitSource{Hand: hand, Origin: origin, Width: width, Height: height}
}

// Hits implements HitSource. It reports no hit while the cursor is outside
// the panel rectangle.
func (c *CursorHitSource) Hits() []RayHit {
	cursor := c.Cursor
	if cursor == nil {
		cursor = ebiten.CursorPosition
	}
	mx, my := cursor()
	x := float64(mx) - c.Origin.X
	y := float64(my) - c.Origin.Y
	if x < 0 || y < 0 || x > c.Width || y > c.Height {
		return nil
	}
	c.hit[0] = RayHit{Hand: c.Hand, PanelCoord: Vec2{x, c.Height - y}}
	return c.hit[:]
}

// WindowToPanel maps a window point to the panel's bottom-left based
// coordinate space.
func (c *CursorHitSource) WindowToPanel(p Vec2) Vec2 {
	return Vec2{p.X - c.Origin.X, c.Height - (p.Y - c.Origin.Y)}
}

// MouseTrigger feeds a mouse button into a Trigger each frame.
type MouseTrigger struct {
	Trigger *Trigger
	Button  ebiten.MouseButton
}

// NewMouseTrigger creates a trigger driven by button.
func NewMouseTrigger(button ebiten.MouseButton) *MouseTrigger {
	return &MouseTrigger{
		Trigger: NewTrigger(ebiten.IsMouseButtonPressed(button)),
		Button:  button,
	}
}

// Poll samples the button. Call it once per Game.Update before Tick.
func (m *MouseTrigger) Poll() {
	m.Trigger.Update(ebiten.IsMouseButtonPressed(m.Button))
}

// KeyTrigger feeds a keyboard key into a Trigger each frame, standing in for
// a second hand's pinch.
type KeyTrigger struct {
	Trigger *Trigger
	Key     ebiten.Key
}

// NewKeyTrigger creates a trigger driven by key.
func NewKeyTrigger(key ebiten.Key) *KeyTrigger {
	return &KeyTrigger{Trigger: NewTrigger(ebiten.IsKeyPressed(key)), Key: key}
}

// Poll samples the key.
func (k *KeyTrigger) Poll() {
	k.Trigger.Update(ebiten.IsKeyPressed(k.Key))
}

// ToRGBA converts the colour to a premultiplied 8-bit color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: channel(c.R * c.A),
		G: channel(c.G * c.A),
		B: channel(c.B * c.A),
		A: channel(c.A),
	}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
