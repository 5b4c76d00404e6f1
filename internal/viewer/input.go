package viewer

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/plyview/internal/trackball"
	"github.com/Faultbox/plyview/pkg/math"
)

// Frame is everything the input layer saw since the previous poll.
type Frame struct {
	Quit          bool
	Resized       bool
	Reset         bool
	NextModel     bool
	ToggleShading bool
	Wheel         float32 // notches, positive toward the model
	Gestures      []trackball.Event
	Dropped       []string
}

// Input polls SDL events and translates them into viewer actions.
type Input struct {
	pointer *trackball.Pointer
	frame   Frame
}

// NewInput creates an input handler. Mouse pans report touches fingers.
func NewInput(touches uint32) *Input {
	return &Input{
		pointer: trackball.NewPointer(touches),
		frame: Frame{
			Gestures: make([]trackball.Event, 0, 16),
		},
	}
}

// Update drains the SDL queue. width and height are the window size used to
// turn normalized touch coordinates into pixels.
func (i *Input) Update(width, height int) *Frame {
	f := &i.frame
	f.Quit, f.Resized, f.Reset, f.NextModel, f.ToggleShading = false, false, false, false, false
	f.Wheel = 0
	f.Gestures = f.Gestures[:0]
	f.Dropped = f.Dropped[:0]

	now := time.Now()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			f.Quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
				f.Resized = true
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.gestures(i.pointer.Cancel(now))
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			switch e.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				f.Quit = true
			case sdl.SCANCODE_R:
				i.gestures(i.pointer.Cancel(now))
				f.Reset = true
			case sdl.SCANCODE_TAB:
				f.NextModel = true
			case sdl.SCANCODE_N:
				f.ToggleShading = true
			}

		case *sdl.MouseButtonEvent:
			if e.Which == sdl.TOUCH_MOUSEID {
				continue
			}
			pos := math.Vec2{X: float32(e.X), Y: float32(e.Y)}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.gestures(i.pointer.Press(button(e.Button), pos, now))
			} else {
				i.gestures(i.pointer.Release(button(e.Button), pos, now))
			}

		case *sdl.MouseMotionEvent:
			if e.Which == sdl.TOUCH_MOUSEID {
				continue
			}
			i.gestures(i.pointer.Move(math.Vec2{X: float32(e.X), Y: float32(e.Y)}, now))

		case *sdl.MouseWheelEvent:
			y := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				y = -y
			}
			f.Wheel += y

		case *sdl.MultiGestureEvent:
			if e.NumFingers < 2 {
				continue
			}
			center := math.Vec2{X: e.X * float32(width), Y: e.Y * float32(height)}
			i.gestures(i.pointer.Pinch(uint32(e.NumFingers), center, e.DDist, now))

		case *sdl.TouchFingerEvent:
			if e.Type == sdl.FINGERUP {
				i.gestures(i.pointer.Lift(now))
			}

		case *sdl.DropEvent:
			if e.Type == sdl.DROPFILE && e.File != "" {
				f.Dropped = append(f.Dropped, e.File)
			}
		}
	}

	return f
}

func (i *Input) gestures(evs []trackball.Event) {
	// The pointer reuses its buffer, so copy the events out.
	i.frame.Gestures = append(i.frame.Gestures, evs...)
}

func button(b uint8) trackball.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return trackball.ButtonRotate
	case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
		return trackball.ButtonPan
	default:
		return trackball.ButtonNone
	}
}
