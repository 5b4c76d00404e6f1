package viewer

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/plyview/internal/frames"
	"github.com/Faultbox/plyview/pkg/math"
	"github.com/Faultbox/plyview/pkg/ply"
)

// Material is a Blinn-Phong surface.
type Material struct {
	Ambient, Diffuse, Specular [4]float32
	Shininess                  float32
}

// Light is a directional light given in eye space.
type Light struct {
	Position                   [3]float32
	Ambient, Diffuse, Specular [4]float32
}

// Default lighting: a white key light over a steel-blue front face and a dark back face.
var (
	DefaultLight = Light{
		Position: [3]float32{0.6, 0.6, 1.0},
		Ambient:  [4]float32{0.175, 0.175, 0.175, 1},
		Diffuse:  [4]float32{0.6, 0.6, 0.6, 1},
		Specular: [4]float32{0.95, 0.95, 0.95, 1},
	}
	FrontMaterial = Material{
		Ambient:   [4]float32{0.19216, 0.52941, 0.80784, 1},
		Diffuse:   [4]float32{0.19216, 0.52941, 0.80784, 1},
		Specular:  [4]float32{0.19216, 0.52941, 0.80784, 1},
		Shininess: 9,
	}
	BackMaterial = Material{
		Ambient:   [4]float32{0.02745, 0.08627, 0.13725, 1},
		Diffuse:   [4]float32{0.2, 0.2, 0.2, 1},
		Specular:  [4]float32{0.398, 0.398, 0.398, 1},
		Shininess: 5,
	}
)

// Shading selects which normals are uploaded.
type Shading int

const (
	Flat Shading = iota
	Smooth
)

func (s Shading) String() string {
	if s == Smooth {
		return "smooth"
	}
	return "flat"
}

// FrameUniforms is the std140 layout of the Frame uniform block.
type FrameUniforms struct {
	ViewProjection math.Mat4
	View           math.Mat4
	Model          math.Mat4
	Distance       float32
	_              [3]float32
}

// RendererConfig holds renderer configuration.
type RendererConfig struct {
	Width          int
	Height         int
	FramesInFlight int
	Background     [4]float32
}

type inFlight struct {
	slot  *frames.Slot
	fence uintptr
}

// Renderer draws one mesh with per-frame uniforms ring-buffered across frame slots.
type Renderer struct {
	config RendererConfig
	log    *zap.Logger

	program uint32
	vao     uint32
	vbo     [2]uint32 // positions, normals

	ubo    uint32
	stride int

	slots   *frames.Pool
	pending []inFlight

	mesh      *ply.Mesh
	shading   Shading
	drawCount int32
}

// NewRenderer creates the renderer. The OpenGL context must already exist.
func NewRenderer(cfg RendererConfig, log *zap.Logger) (*Renderer, error) {
	if cfg.FramesInFlight < 1 {
		cfg.FramesInFlight = frames.DefaultInFlight
	}
	r := &Renderer{
		config: cfg,
		log:    log,
		slots:  frames.NewPool(cfg.FramesInFlight),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])

	var err error
	r.program, err = compileProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.setLighting(DefaultLight, FrontMaterial, BackMaterial)

	r.createUniformRing()

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(2, &r.vbo[0])

	gl.BindVertexArray(r.vao)
	for loc, vbo := range r.vbo {
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.VertexAttribPointer(uint32(loc), 3, gl.FLOAT, false, 3*4, nil)
		gl.EnableVertexAttribArray(uint32(loc))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// createUniformRing allocates one Frame block per slot, each at an aligned offset.
func (r *Renderer) createUniformRing() {
	var align int32
	gl.GetIntegerv(gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT, &align)
	size := int(unsafe.Sizeof(FrameUniforms{}))
	r.stride = alignUp(size, int(align))

	gl.GenBuffers(1, &r.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, r.stride*r.slots.Size(), nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	block := gl.GetUniformBlockIndex(r.program, gl.Str("Frame\x00"))
	gl.UniformBlockBinding(r.program, block, frameBlockBinding)

	r.log.Debug("uniform ring created",
		zap.Int("slots", r.slots.Size()),
		zap.Int("stride", r.stride),
	)
}

func (r *Renderer) setLighting(light Light, front, back Material) {
	gl.UseProgram(r.program)
	gl.Uniform3fv(uniform(r.program, "uLightPosition"), 1, &light.Position[0])
	gl.Uniform4fv(uniform(r.program, "uLightAmbient"), 1, &light.Ambient[0])
	gl.Uniform4fv(uniform(r.program, "uLightDiffuse"), 1, &light.Diffuse[0])
	gl.Uniform4fv(uniform(r.program, "uLightSpecular"), 1, &light.Specular[0])
	for name, m := range map[string]Material{"uFront": front, "uBack": back} {
		gl.Uniform4fv(uniform(r.program, name+".ambient"), 1, &m.Ambient[0])
		gl.Uniform4fv(uniform(r.program, name+".diffuse"), 1, &m.Diffuse[0])
		gl.Uniform4fv(uniform(r.program, name+".specular"), 1, &m.Specular[0])
		gl.Uniform1f(uniform(r.program, name+".shininess"), m.Shininess)
	}
	gl.UseProgram(0)
}

// SetMesh uploads mesh, replacing the previous one.
func (r *Renderer) SetMesh(mesh *ply.Mesh) {
	r.mesh = mesh
	r.drawCount = int32(mesh.DrawCount())

	upload(r.vbo[0], mesh.FlatVertexData())
	r.uploadNormals()

	r.log.Debug("mesh uploaded",
		zap.Int32("vertices", r.drawCount),
		zap.Stringer("shading", r.shading),
	)
}

// Shading returns the current shading mode.
func (r *Renderer) Shading() Shading { return r.shading }

// SetShading switches between flat and smooth normals.
func (r *Renderer) SetShading(s Shading) {
	if s == r.shading {
		return
	}
	r.shading = s
	if r.mesh != nil {
		r.uploadNormals()
	}
}

func (r *Renderer) uploadNormals() {
	if r.shading == Smooth {
		upload(r.vbo[1], r.mesh.SmoothNormalData())
	} else {
		upload(r.vbo[1], r.mesh.FlatNormalData())
	}
}

func upload(vbo uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Resize handles window resize. width and height are in framebuffer pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Draw renders one frame. It blocks while every frame slot is still queued on the GPU.
func (r *Renderer) Draw(ctx context.Context, u FrameUniforms) error {
	r.reap(false)
	slot := r.slots.TryAcquire()
	if slot == nil {
		if err := r.waitOldest(ctx); err != nil {
			return err
		}
		var err error
		if slot, err = r.slots.Acquire(ctx); err != nil {
			return err
		}
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if r.drawCount > 0 {
		offset := slot.Index() * r.stride
		gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
		gl.BufferSubData(gl.UNIFORM_BUFFER, offset, int(unsafe.Sizeof(u)), unsafe.Pointer(&u))
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
		gl.BindBufferRange(gl.UNIFORM_BUFFER, frameBlockBinding, r.ubo, offset, int(unsafe.Sizeof(u)))

		gl.UseProgram(r.program)
		gl.BindVertexArray(r.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, r.drawCount)
		gl.BindVertexArray(0)
	}

	r.pending = append(r.pending, inFlight{
		slot:  slot,
		fence: gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0),
	})
	return nil
}

// reap releases the slots of frames the GPU has finished.
func (r *Renderer) reap(all bool) {
	for len(r.pending) > 0 {
		f := r.pending[0]
		if !all {
			status := gl.ClientWaitSync(f.fence, 0, 0)
			if status != gl.ALREADY_SIGNALED && status != gl.CONDITION_SATISFIED && status != gl.WAIT_FAILED {
				return
			}
		}
		gl.DeleteSync(f.fence)
		f.slot.Release()
		r.pending = r.pending[1:]
	}
}

// waitOldest blocks until the oldest queued frame completes.
func (r *Renderer) waitOldest(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}
	f := r.pending[0]
	timeout := uint64(10 * time.Millisecond)
	for {
		switch gl.ClientWaitSync(f.fence, gl.SYNC_FLUSH_COMMANDS_BIT, timeout) {
		case gl.TIMEOUT_EXPIRED:
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("waiting for frame %d: %w", f.slot.Index(), err)
			}
			continue
		case gl.WAIT_FAILED:
			r.log.Warn("fence wait failed", zap.Int("slot", f.slot.Index()))
		}
		gl.DeleteSync(f.fence)
		f.slot.Release()
		r.pending = r.pending[1:]
		return nil
	}
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	gl.Finish()
	r.reap(true)

	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	gl.DeleteBuffers(2, &r.vbo[0])
	if r.ubo != 0 {
		gl.DeleteBuffers(1, &r.ubo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
