package trackball

import (
	"time"

	"github.com/Faultbox/plyview/pkg/math"
)

// Button is a pointer button as seen by the trackball.
type Button int

const (
	ButtonNone Button = iota
	ButtonRotate
	ButtonPan
)

// DefaultPinchGain converts the accumulated change in finger spread into a pinch scale.
const DefaultPinchGain = 4

// Pointer turns raw mouse and multi-touch input into gesture events.
// A rotate drag uses one pointer; a pan drag with the mouse reports
// Touches fingers so it passes the controller's minimum.
// Each method's result is only valid until the next call.
type Pointer struct {
	Touches   uint32
	PinchGain float32

	button Button
	pinch  bool
	spread float32 // accumulated change in finger distance
	events []Event
}

// NewPointer returns a pointer whose mouse pan reports touches fingers.
func NewPointer(touches uint32) *Pointer {
	return &Pointer{
		Touches:   touches,
		PinchGain: DefaultPinchGain,
		events:    make([]Event, 0, 2),
	}
}

// Press starts a drag. A second button while dragging is ignored.
func (p *Pointer) Press(b Button, pos math.Vec2, t time.Time) []Event {
	p.events = p.events[:0]
	if p.button != ButtonNone || p.pinch || b == ButtonNone {
		return p.events
	}
	p.button = b
	return p.emit(p.mouseEvent(Began, pos, t))
}

// Move continues the current drag, if any.
func (p *Pointer) Move(pos math.Vec2, t time.Time) []Event {
	p.events = p.events[:0]
	if p.button == ButtonNone {
		return p.events
	}
	return p.emit(p.mouseEvent(Changed, pos, t))
}

// Release ends the drag started by b.
func (p *Pointer) Release(b Button, pos math.Vec2, t time.Time) []Event {
	p.events = p.events[:0]
	if p.button == ButtonNone || b != p.button {
		return p.events
	}
	ev := p.mouseEvent(Ended, pos, t)
	p.button = ButtonNone
	return p.emit(ev)
}

// Pinch feeds one multi-finger sample: the fingers' center in window pixels and
// the change in their spread since the previous sample, normalized to the window.
// The first sample begins a pan and a zoom together.
func (p *Pointer) Pinch(fingers uint32, center math.Vec2, dSpread float32, t time.Time) []Event {
	p.events = p.events[:0]
	if p.button != ButtonNone {
		return p.events
	}

	phase := Changed
	if !p.pinch {
		p.pinch = true
		p.spread = 0
		phase = Began
	}
	p.spread += dSpread

	p.emit(Event{Kind: Pan, Phase: phase, Points: []math.Vec2{center}, TouchCount: fingers, Time: t})
	return p.emit(Event{Kind: Zoom, Phase: phase, Scale: p.scale(), TouchCount: fingers, Time: t})
}

// Lift ends a pinch when fingers leave the surface.
func (p *Pointer) Lift(t time.Time) []Event {
	p.events = p.events[:0]
	if !p.pinch {
		return p.events
	}
	p.pinch = false
	p.emit(Event{Kind: Pan, Phase: Ended, TouchCount: p.Touches, Time: t})
	return p.emit(Event{Kind: Zoom, Phase: Ended, TouchCount: p.Touches, Time: t})
}

// Cancel abandons whatever gesture is in progress.
func (p *Pointer) Cancel(t time.Time) []Event {
	p.events = p.events[:0]
	switch {
	case p.button == ButtonRotate:
		p.emit(Event{Kind: Rotate, Phase: Cancelled, Time: t})
	case p.button == ButtonPan:
		p.emit(Event{Kind: Pan, Phase: Cancelled, TouchCount: p.Touches, Time: t})
	case p.pinch:
		p.emit(Event{Kind: Pan, Phase: Cancelled, TouchCount: p.Touches, Time: t})
		p.emit(Event{Kind: Zoom, Phase: Cancelled, TouchCount: p.Touches, Time: t})
	}
	p.button = ButtonNone
	p.pinch = false
	return p.events
}

// Dragging reports whether a mouse drag or pinch is in progress.
func (p *Pointer) Dragging() bool {
	return p.button != ButtonNone || p.pinch
}

func (p *Pointer) mouseEvent(phase Phase, pos math.Vec2, t time.Time) Event {
	if p.button == ButtonPan {
		return Event{Kind: Pan, Phase: phase, Points: []math.Vec2{pos}, TouchCount: p.Touches, Time: t}
	}
	return Event{Kind: Rotate, Phase: phase, Points: []math.Vec2{pos}, Time: t}
}

func (p *Pointer) scale() float32 {
	return max(1+p.spread*p.PinchGain, 0.05)
}

func (p *Pointer) emit(ev Event) []Event {
	p.events = append(p.events, ev)
	return p.events
}
