package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/helios3d/helios/internal/engine/lighting"
	"github.com/helios3d/helios/internal/engine/shader"
	"github.com/helios3d/helios/internal/engine/shadow"
)

// shadingProgram is the forward lighting program that consumes the light
// uniform blocks and shadow textures produced by the lighting stack. Like
// the depth programs it comes in instanced and non-instanced modes.
type shadingProgram struct {
	id   uint32
	mode shadow.Mode

	locView       int32
	locProjection int32
	locModel      int32
	locColor      int32
	locNumDir     int32
	locNumPoint   int32
	locNumSpot    int32
}

// newShadingProgram compiles the shading program for one mode with the
// light capacities and cascade count baked into the shader source.
func newShadingProgram(mode shadow.Mode, splits, maxDir, maxPoint, maxSpot int) (*shadingProgram, error) {
	id, err := shader.CompileProgram(
		shadingVertexSrc(mode),
		shadingFragmentSrc(splits, maxDir, maxPoint, maxSpot),
	)
	if err != nil {
		return nil, err
	}

	p := &shadingProgram{
		id:            id,
		mode:          mode,
		locView:       shader.Uniform(id, "uView"),
		locProjection: shader.Uniform(id, "uProjection"),
		locModel:      shader.Uniform(id, "uModel"),
		locColor:      shader.Uniform(id, "uColor"),
		locNumDir:     shader.Uniform(id, "uNumDirectional"),
		locNumPoint:   shader.Uniform(id, "uNumPoint"),
		locNumSpot:    shader.Uniform(id, "uNumSpot"),
	}

	// Bind the light blocks and shadow samplers to their fixed slots.
	// These numbers are shared contracts with the lighting stack.
	shader.BlockBinding(id, "DirectionalLights", lighting.DirectionalBlockBinding)
	shader.BlockBinding(id, "PointLights", lighting.PointBlockBinding)
	shader.BlockBinding(id, "SpotLights", lighting.SpotBlockBinding)

	gl.UseProgram(id)
	shader.SetInt(shader.Uniform(id, "uDirShadow"), shadow.DirectionalTextureUnit)
	shader.SetInt(shader.Uniform(id, "uCubeShadow"), shadow.PointTextureUnit)
	shader.SetInt(shader.Uniform(id, "uSpotShadow"), shadow.SpotTextureUnit)
	gl.UseProgram(0)

	return p, nil
}

func (p *shadingProgram) use(view, projection mgl32.Mat4, numDir, numPoint, numSpot int) {
	gl.UseProgram(p.id)
	shader.SetMat4(p.locView, view)
	shader.SetMat4(p.locProjection, projection)
	shader.SetInt(p.locNumDir, int32(numDir))
	shader.SetInt(p.locNumPoint, int32(numPoint))
	shader.SetInt(p.locNumSpot, int32(numSpot))
}

func (p *shadingProgram) setObject(model mgl32.Mat4, color mgl32.Vec3) {
	shader.SetVec3(p.locColor, color)
	if p.mode == shadow.NonInstanced {
		shader.SetMat4(p.locModel, model)
	}
}

func (p *shadingProgram) destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func shadingVertexSrc(mode shadow.Mode) string {
	decl := "uniform mat4 uModel;"
	expr := "uModel"
	if mode == shadow.Instanced {
		decl = "layout(location = 4) in mat4 aInstanceModel;"
		expr = "aInstanceModel"
	}
	return fmt.Sprintf(`#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoord;
%s

uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vViewPos;
out vec3 vNormal;

void main() {
    mat4 model = %s;
    vec4 world = model * vec4(aPos, 1.0);
    vWorldPos = world.xyz;
    vec4 view = uView * world;
    vViewPos = view.xyz;
    vNormal = mat3(transpose(inverse(uView * model))) * aNormal;
    gl_Position = uProjection * view;
}
`, decl, expr)
}

// shadingFragmentSrc builds the fragment shader with the cascade count
// and light capacities baked in. The struct layouts mirror the std140
// packing of the uniform blocks float for float.
func shadingFragmentSrc(splits, maxDir, maxPoint, maxSpot int) string {
	return fmt.Sprintf(`#version 410 core
const int CASCADES = %d;
const int LAYERS = CASCADES + 1;
const int MAX_DIR = %d;
const int MAX_POINT = %d;
const int MAX_SPOT = %d;

struct DirLight {
    vec4 color;
    vec4 direction;        // view space
    vec4 params;           // intensity, farPlane
    vec4 ranges[CASCADES]; // split distances, one per 16-byte slot
    mat4 matrices[LAYERS];
};

struct PointLight {
    vec4 color;
    vec4 worldPos;
    vec4 viewPos;
    vec4 atten; // constant, linear, quadratic, intensity
    vec4 range; // near, far
};

struct SpotLight {
    vec4 color;
    vec4 direction; // view space
    vec4 position;  // view space
    vec4 cut;       // inner, outer (radians), constant, linear
    vec4 params;    // quadratic, intensity
    mat4 matrix;
};

layout(std140) uniform DirectionalLights { DirLight uDir[MAX_DIR]; };
layout(std140) uniform PointLights { PointLight uPoint[MAX_POINT]; };
layout(std140) uniform SpotLights { SpotLight uSpot[MAX_SPOT]; };

uniform sampler2DArrayShadow uDirShadow;
uniform samplerCube uCubeShadow;
uniform sampler2DShadow uSpotShadow;

uniform int uNumDirectional;
uniform int uNumPoint;
uniform int uNumSpot;
uniform vec3 uColor;

in vec3 vWorldPos;
in vec3 vViewPos;
in vec3 vNormal;

out vec4 FragColor;

float dirShadow(DirLight l) {
    int layer = CASCADES;
    for (int i = 0; i < CASCADES; ++i) {
        if (-vViewPos.z < l.ranges[i].x) {
            layer = i;
            break;
        }
    }
    vec4 pos = l.matrices[layer] * vec4(vWorldPos, 1.0);
    vec3 proj = pos.xyz / pos.w * 0.5 + 0.5;
    if (proj.z > 1.0) {
        return 0.0;
    }
    return 1.0 - texture(uDirShadow, vec4(proj.xy, float(layer), proj.z - 0.002));
}

float pointShadow(PointLight l) {
    vec3 d = vWorldPos - l.worldPos.xyz;
    float closest = texture(uCubeShadow, d).r * l.range.y;
    return length(d) - 0.05 > closest ? 1.0 : 0.0;
}

float spotShadow(SpotLight l) {
    vec4 pos = l.matrix * vec4(vWorldPos, 1.0);
    if (pos.w <= 0.0) {
        return 0.0;
    }
    vec3 proj = pos.xyz / pos.w * 0.5 + 0.5;
    if (proj.z > 1.0) {
        return 0.0;
    }
    return 1.0 - texture(uSpotShadow, vec3(proj.xy, proj.z - 0.002));
}

vec3 blinnPhong(vec3 n, vec3 v, vec3 ldir, vec3 lightColor, float intensity) {
    float diff = max(dot(n, ldir), 0.0);
    vec3 h = normalize(ldir + v);
    float spec = pow(max(dot(n, h), 0.0), 32.0);
    return (diff * uColor + 0.3 * spec) * lightColor * intensity;
}

void main() {
    vec3 n = normalize(vNormal);
    vec3 v = normalize(-vViewPos);

    vec3 result = 0.08 * uColor;

    for (int i = 0; i < uNumDirectional; ++i) {
        vec3 ldir = normalize(-uDir[i].direction.xyz);
        vec3 contrib = blinnPhong(n, v, ldir, uDir[i].color.rgb, uDir[i].params.x);
        result += (1.0 - dirShadow(uDir[i])) * contrib;
    }

    for (int i = 0; i < uNumPoint; ++i) {
        vec3 lv = uPoint[i].viewPos.xyz - vViewPos;
        float dist = length(lv);
        float atten = 1.0 / (uPoint[i].atten.x + uPoint[i].atten.y * dist + uPoint[i].atten.z * dist * dist);
        vec3 contrib = blinnPhong(n, v, normalize(lv), uPoint[i].color.rgb, uPoint[i].atten.w);
        result += (1.0 - pointShadow(uPoint[i])) * atten * contrib;
    }

    for (int i = 0; i < uNumSpot; ++i) {
        vec3 lv = uSpot[i].position.xyz - vViewPos;
        float dist = length(lv);
        vec3 ldir = normalize(lv);
        float cosDir = dot(-ldir, normalize(uSpot[i].direction.xyz));
        float cosInner = cos(uSpot[i].cut.x);
        float cosOuter = cos(uSpot[i].cut.y);
        float cone = clamp((cosDir - cosOuter) / (cosInner - cosOuter), 0.0, 1.0);
        float atten = 1.0 / (uSpot[i].cut.z + uSpot[i].cut.w * dist + uSpot[i].params.x * dist * dist);
        vec3 contrib = blinnPhong(n, v, ldir, uSpot[i].color.rgb, uSpot[i].params.y);
        result += (1.0 - spotShadow(uSpot[i])) * cone * atten * contrib;
    }

    FragColor = vec4(result, 1.0);
}
`, splits, maxDir, maxPoint, maxSpot)
}
