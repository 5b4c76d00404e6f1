package trackball

import (
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/plyview/internal/camera"
	"github.com/Faultbox/plyview/internal/logger"
	"github.com/Faultbox/plyview/pkg/math"
	"github.com/Faultbox/plyview/pkg/ply"
)

// Kind identifies a gesture.
type Kind int

const (
	Rotate Kind = iota
	Pan
	Zoom
	numKinds
)

func (k Kind) String() string {
	switch k {
	case Rotate:
		return "rotate"
	case Pan:
		return "pan"
	case Zoom:
		return "zoom"
	default:
		return "unknown"
	}
}

// Phase is a step in a gesture's lifecycle.
type Phase int

const (
	Began Phase = iota
	Changed
	Ended
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// State reports whether a gesture is in progress.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// DefaultMinTouches is the touch count pan and zoom samples need.
const DefaultMinTouches = 2

// Event is one sample from the input layer.
type Event struct {
	Kind       Kind
	Phase      Phase
	Points     []math.Vec2 // one or two pointer positions in window pixels
	Scale      float32     // pinch scale relative to the start of the gesture, zoom only
	TouchCount uint32      // pan and zoom only
	Time       time.Time
}

// session is the state captured when a gesture begins.
type session struct {
	active   bool
	start    math.Vec2
	model    math.Mat4
	distance float32
	began    time.Time
}

// Controller applies gesture events to a camera and a model matrix.
// Every Changed sample is computed from the snapshot taken at Began,
// never from the previous sample.
type Controller struct {
	cam        *camera.Camera
	proj       *Projector
	MinTouches uint32

	model    math.Mat4
	sessions [numKinds]session
	log      *zap.Logger
}

// NewController creates a controller driving cam. The model matrix starts as identity.
func NewController(cam *camera.Camera, proj *Projector) *Controller {
	return &Controller{
		cam:        cam,
		proj:       proj,
		MinTouches: DefaultMinTouches,
		model:      math.Identity(),
		log:        logger.Named("trackball"),
	}
}

// Camera returns the controlled camera.
func (c *Controller) Camera() *camera.Camera { return c.cam }

// Projector returns the trackball projector.
func (c *Controller) Projector() *Projector { return c.proj }

// Model returns the current model-to-world matrix.
func (c *Controller) Model() math.Mat4 { return c.model }

// State returns whether a gesture of kind k is in progress.
func (c *Controller) State(k Kind) State {
	if k < 0 || k >= numKinds || !c.sessions[k].active {
		return Idle
	}
	return Active
}

// Reset centers mesh at the origin and abandons any gesture in progress.
func (c *Controller) Reset(mesh *ply.Mesh) {
	c.sessions = [numKinds]session{}
	if mesh == nil {
		c.model = math.Identity()
		return
	}
	c.model = mesh.ModelTranslation()
}

// SetViewport updates the projector and camera for a new window size.
func (c *Controller) SetViewport(width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.proj.Viewport = math.Vec2{X: width, Y: height}
	c.cam.SetAspectRatio(width / height)
}

// Handle applies ev and reports whether the model or camera changed.
// Samples that do not fit the current state are ignored.
func (c *Controller) Handle(ev Event) bool {
	if ev.Kind < 0 || ev.Kind >= numKinds {
		return false
	}
	// Pan and zoom samples with too few touches are dropped, but a gesture
	// can always end or be cancelled.
	enough := ev.Kind == Rotate || ev.TouchCount >= c.MinTouches
	s := &c.sessions[ev.Kind]

	switch ev.Phase {
	case Began:
		if !enough {
			return false
		}
		return c.begin(ev, s)
	case Changed:
		if !s.active || !enough {
			return false
		}
		return c.apply(ev, s)
	case Ended:
		if !s.active {
			return false
		}
		changed := enough && c.apply(ev, s)
		s.active = false
		c.log.Debug("gesture ended",
			zap.Stringer("kind", ev.Kind),
			zap.Duration("duration", ev.Time.Sub(s.began)),
		)
		return changed
	case Cancelled:
		if !s.active {
			return false
		}
		c.restore(ev.Kind, s)
		s.active = false
		c.log.Debug("gesture cancelled", zap.Stringer("kind", ev.Kind))
		return true
	}
	return false
}

func (c *Controller) begin(ev Event, s *session) bool {
	// Rotate and pan both rewrite the model matrix, so only one may run at a time.
	if (ev.Kind == Rotate && c.sessions[Pan].active) || (ev.Kind == Pan && c.sessions[Rotate].active) {
		return false
	}
	if ev.Kind != Zoom && len(ev.Points) == 0 {
		return false
	}

	*s = session{
		active:   true,
		model:    c.model,
		distance: c.cam.Distance(),
		began:    ev.Time,
	}
	if len(ev.Points) > 0 {
		s.start = centroid(ev.Points)
	}

	c.log.Debug("gesture began",
		zap.Stringer("kind", ev.Kind),
		zap.Float32("x", s.start.X),
		zap.Float32("y", s.start.Y),
	)
	return false
}

// apply recomputes the transform for ev from the session snapshot.
func (c *Controller) apply(ev Event, s *session) bool {
	switch ev.Kind {
	case Rotate:
		if len(ev.Points) == 0 {
			return false
		}
		r := c.proj.RotationMatrix(s.start, centroid(ev.Points))
		c.model = r.Mul(s.model)
	case Pan:
		if len(ev.Points) == 0 {
			return false
		}
		delta := c.proj.PanDelta(s.start, centroid(ev.Points),
			c.cam.InverseViewProjection(), c.cam.Distance()/camera.DefaultDistance)
		c.model = math.TranslateVec3(delta).Mul(s.model)
	case Zoom:
		if !(ev.Scale > 0) {
			return false
		}
		// Extreme scales overflow to +Inf or underflow to 0.
		d := ZoomDistance(s.distance, ev.Scale)
		if !(d > 0) || gomath.IsInf(float64(d), 0) {
			return false
		}
		c.cam.SetDistance(d)
	}
	return true
}

func (c *Controller) restore(k Kind, s *session) {
	switch k {
	case Rotate, Pan:
		c.model = s.model
	case Zoom:
		c.cam.SetDistance(s.distance)
	}
}

func centroid(points []math.Vec2) math.Vec2 {
	var sum math.Vec2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float32(len(points)))
}
