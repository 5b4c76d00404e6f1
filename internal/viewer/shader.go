package viewer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// frameBlockBinding is the uniform buffer binding point of the Frame block.
const frameBlockBinding = 0

// Per-frame uniforms, std140. Keep in sync with FrameUniforms.
const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

layout (std140) uniform Frame {
	mat4 uViewProjection;
	mat4 uView;
	mat4 uModel;
	float uDistance;
};

out vec3 vNormal;
out vec3 vPosition;

void main() {
	vec4 world = uModel * vec4(aPosition, 1.0);
	vec4 eye = uView * world;

	// Model and view are rigid, so their upper 3x3 transforms normals.
	vNormal = mat3(uView) * mat3(uModel) * aNormal;
	vPosition = eye.xyz;
	gl_Position = uViewProjection * world;
}
`

const meshFragmentShader = `
#version 410 core

struct Material {
	vec4 ambient;
	vec4 diffuse;
	vec4 specular;
	float shininess;
};

uniform vec3 uLightPosition;
uniform vec4 uLightAmbient;
uniform vec4 uLightDiffuse;
uniform vec4 uLightSpecular;
uniform Material uFront;
uniform Material uBack;

in vec3 vNormal;
in vec3 vPosition;

out vec4 FragColor;

vec4 shade(Material m, vec3 n) {
	vec3 l = normalize(uLightPosition);
	vec3 v = normalize(-vPosition);
	vec3 h = normalize(l + v);

	float diffuse = max(dot(n, l), 0.0);
	float specular = diffuse > 0.0 ? pow(max(dot(n, h), 0.0), m.shininess) : 0.0;

	return uLightAmbient * m.ambient
		+ uLightDiffuse * m.diffuse * diffuse
		+ uLightSpecular * m.specular * specular;
}

void main() {
	vec3 n = normalize(vNormal);
	if (gl_FrontFacing) {
		FragColor = vec4(shade(uFront, n).rgb, 1.0);
	} else {
		FragColor = vec4(shade(uBack, -n).rgb, 1.0);
	}
}
`

// compileProgram compiles vertex and fragment shaders and links them into a program.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", gl.GoStr(&log[0]))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}

	return shader, nil
}

// uniform returns the location of a uniform, or -1 if the program has none by that name.
func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
