package xrpanel

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to four float64 fields of an Element together.
// Create one with TweenPosition, TweenSize or TweenColor and call Update(dt)
// each frame. A group whose element is disposed stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Element
	layout bool // fields affect world bounds
	Done   bool
}

// Update advances the tweens by dt seconds and writes the values back.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.layout && g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition animates the element's local X and Y.
func TweenPosition(el *Element, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: el, layout: true}
	g.tweens[0] = gween.New(float32(el.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(el.Y), float32(toY), duration, fn)
	g.fields[0] = &el.X
	g.fields[1] = &el.Y
	return g
}

// TweenSize animates the element's Width and Height.
func TweenSize(el *Element, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: el}
	g.tweens[0] = gween.New(float32(el.Width), float32(toW), duration, fn)
	g.tweens[1] = gween.New(float32(el.Height), float32(toH), duration, fn)
	g.fields[0] = &el.Width
	g.fields[1] = &el.Height
	return g
}

// TweenColor animates all four components of the element's Color.
func TweenColor(el *Element, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: el}
	g.tweens[0] = gween.New(float32(el.Color.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(el.Color.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(el.Color.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(el.Color.A), float32(to.A), duration, fn)
	g.fields[0] = &el.Color.R
	g.fields[1] = &el.Color.G
	g.fields[2] = &el.Color.B
	g.fields[3] = &el.Color.A
	return g
}

// StateTint picks an element colour from its pseudo-states.
type StateTint struct {
	Normal Color
	Hover  Color
	Active Color
}

// For returns the tint for el's current pseudo-states. Active wins over
// hover.
func (s StateTint) For(el *Element) Color {
	switch {
	case el.IsActive():
		return s.Active
	case el.IsHovered():
		return s.Hover
	default:
		return s.Normal
	}
}

// TintFeedback fades elements toward their StateTint colour whenever their
// hover or active state changes.
type TintFeedback struct {
	Tint     StateTint
	Duration float32
	Ease     ease.TweenFunc

	tweens  map[*Element]*TweenGroup
	targets map[*Element]Color
}

// NewTintFeedback creates feedback with the given tint and fade time.
func NewTintFeedback(tint StateTint, duration float32) *TintFeedback {
	return &TintFeedback{
		Tint:     tint,
		Duration: duration,
		Ease:     ease.OutQuad,
		tweens:   make(map[*Element]*TweenGroup),
		targets:  make(map[*Element]Color),
	}
}

// Update starts fades for elements whose wanted colour changed and advances
// running fades by dt seconds. Disposed elements are forgotten.
func (f *TintFeedback) Update(elements []*Element, dt float32) {
	for _, el := range elements {
		if !alive(el) {
			continue
		}
		want := f.Tint.For(el)
		if cur, ok := f.targets[el]; ok && cur == want {
			continue
		}
		f.targets[el] = want
		f.tweens[el] = TweenColor(el, want, f.Duration, f.Ease)
	}
	for el, g := range f.tweens {
		g.Update(dt)
		if g.Done {
			delete(f.tweens, el)
		}
	}
	for el := range f.targets {
		if el.IsDisposed() {
			delete(f.targets, el)
			delete(f.tweens, el)
		}
	}
}

// Animating reports whether any fade is still running.
func (f *TintFeedback) Animating() bool {
	return len(f.tweens) > 0
}
