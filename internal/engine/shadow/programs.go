package shadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/helios3d/helios/internal/engine/shader"
)

// Mode selects how a depth program receives the per-draw model matrix:
// from a uniform, or from per-instance vertex attributes.
type Mode int

const (
	NonInstanced Mode = iota
	Instanced
)

// Program is a depth-only shader program. SetModel dispatches on Mode
// instead of a virtual hierarchy: the instanced variant reads the model
// matrix from vertex attributes, so SetModel is a no-op for it.
type Program struct {
	id   uint32
	mode Mode

	locLightSpace int32
	locModel      int32
	locLightPos   int32 // omnidirectional only
	locFarPlane   int32 // omnidirectional only
}

// Use activates the program.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// SetLightSpace sets the combined light projection*view matrix.
func (p *Program) SetLightSpace(m mgl32.Mat4) {
	shader.SetMat4(p.locLightSpace, m)
}

// SetModel sets the per-draw model matrix. Instanced programs take the
// model matrix from per-instance attributes instead.
func (p *Program) SetModel(m mgl32.Mat4) {
	if p.mode == Instanced {
		return
	}
	shader.SetMat4(p.locModel, m)
}

// SetLightPosition sets the world-space light position consumed by the
// omnidirectional fragment stage.
func (p *Program) SetLightPosition(v mgl32.Vec3) {
	shader.SetVec3(p.locLightPos, v)
}

// SetFarPlane sets the far plane used to normalize linear depth in the
// omnidirectional fragment stage.
func (p *Program) SetFarPlane(f float32) {
	shader.SetFloat(p.locFarPlane, f)
}

// Programs holds the depth-only program variants: the plain
// perspective/orthographic one for directional and spot passes, and the
// omnidirectional one that writes linear distance for point lights. Both
// come in instanced and non-instanced modes.
type Programs struct {
	depth [2]Program // indexed by Mode
	omni  [2]Program
}

// NewPrograms compiles all depth program variants.
func NewPrograms() (*Programs, error) {
	p := &Programs{}

	for _, mode := range []Mode{NonInstanced, Instanced} {
		prog, err := newDepthProgram(depthVertexSrc(mode), depthFragmentSrc, mode, false)
		if err != nil {
			return nil, fmt.Errorf("depth program (mode %d): %w", mode, err)
		}
		p.depth[mode] = prog

		prog, err = newDepthProgram(omniVertexSrc(mode), omniFragmentSrc, mode, true)
		if err != nil {
			return nil, fmt.Errorf("omnidirectional depth program (mode %d): %w", mode, err)
		}
		p.omni[mode] = prog
	}

	return p, nil
}

// Depth returns the perspective/orthographic depth program for the mode.
func (p *Programs) Depth(mode Mode) *Program {
	return &p.depth[mode]
}

// Omni returns the omnidirectional depth program for the mode.
func (p *Programs) Omni(mode Mode) *Program {
	return &p.omni[mode]
}

// Destroy releases the compiled programs.
func (p *Programs) Destroy() {
	for i := range p.depth {
		if p.depth[i].id != 0 {
			gl.DeleteProgram(p.depth[i].id)
			p.depth[i].id = 0
		}
		if p.omni[i].id != 0 {
			gl.DeleteProgram(p.omni[i].id)
			p.omni[i].id = 0
		}
	}
}

func newDepthProgram(vertSrc, fragSrc string, mode Mode, omni bool) (Program, error) {
	id, err := shader.CompileProgram(vertSrc, fragSrc)
	if err != nil {
		return Program{}, err
	}

	prog := Program{
		id:            id,
		mode:          mode,
		locLightSpace: shader.Uniform(id, "uLightSpace"),
		locModel:      shader.Uniform(id, "uModel"),
	}
	if omni {
		prog.locLightPos = shader.Uniform(id, "uLightPos")
		prog.locFarPlane = shader.Uniform(id, "uFarPlane")
	}
	return prog, nil
}

// modelSource returns the vertex-shader input declaration and expression
// for the model matrix under the given mode. Instance matrices occupy
// attribute locations 4-7.
func modelSource(mode Mode) (decl, expr string) {
	if mode == Instanced {
		return "layout(location = 4) in mat4 aInstanceModel;", "aInstanceModel"
	}
	return "uniform mat4 uModel;", "uModel"
}

func depthVertexSrc(mode Mode) string {
	decl, expr := modelSource(mode)
	return fmt.Sprintf(`#version 410 core
layout(location = 0) in vec3 aPos;
%s
uniform mat4 uLightSpace;

void main() {
    gl_Position = uLightSpace * %s * vec4(aPos, 1.0);
}
`, decl, expr)
}

const depthFragmentSrc = `#version 410 core
void main() {}
`

func omniVertexSrc(mode Mode) string {
	decl, expr := modelSource(mode)
	return fmt.Sprintf(`#version 410 core
layout(location = 0) in vec3 aPos;
%s
uniform mat4 uLightSpace;

out vec3 vWorldPos;

void main() {
    vec4 world = %s * vec4(aPos, 1.0);
    vWorldPos = world.xyz;
    gl_Position = uLightSpace * world;
}
`, decl, expr)
}

// The omnidirectional pass writes linear distance normalized by the far
// plane so the shading pass can compare against length(fragPos-lightPos)
// without unprojecting device depth per face.
const omniFragmentSrc = `#version 410 core
in vec3 vWorldPos;

uniform vec3 uLightPos;
uniform float uFarPlane;

void main() {
    gl_FragDepth = length(vWorldPos - uLightPos) / uFarPlane;
}
`
