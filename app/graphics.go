package app

//OpenGL Windowing Calls and Structs
import (
	"strings"

	"diesel.com/elastic/geometry"
	"diesel.com/elastic/utils"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

//Attribute locations of the interleaved vertex buffer
const (
	DSL_VERTEX = 0
	DSL_NORMAL = 1
)

//PressureTint scales the hand pressure into the surface color ramp
const PressureTint = 50

type AppWindow struct {
	Width  int
	Height int
	Name   string
}

//DieselContext holds the GL objects of the surface
type DieselContext struct {
	Window      *glfw.Window
	Program     uint32
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IndexCount  int32
	VertexCount int

	ModelLoc    int32
	ViewLoc     int32
	ProjLoc     int32
	LightLoc    int32
	PressureLoc int32

	Frames int32
	packed []float32 //CPU side copy of the interleaved VBO
}

const vertexShaderSRC = `
#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 fragNormal;

void main() {
	fragNormal = mat3(transpose(inverse(model))) * normal;
	gl_Position = projection * view * model * vec4(position, 1.0);
}
` + "\x00"

const fragmentShaderSRC = `
#version 410 core
in vec3 fragNormal;

uniform vec3 lightDir;
uniform float pressure;

out vec4 color;

void main() {
	float diffuse = max(dot(normalize(fragNormal), normalize(-lightDir)), 0.0);
	vec3 base = mix(vec3(0.55, 0.65, 0.8), vec3(0.9, 0.25, 0.2), clamp(pressure, 0.0, 1.0));
	color = vec4(base * (0.25 + 0.75 * diffuse), 1.0);
}
` + "\x00"

// InitGLFW initializes glfw and returns a Window to use.
func InitGLFW(a *AppWindow) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(a.Width, a.Height, a.Name, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create window")
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	return window, nil
}

// InitOpenGL compiles the surface program and uploads the initial mesh
func InitOpenGL(mesh *geometry.Mesh) (*DieselContext, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gl init")
	}
	log.WithField("version", gl.GoStr(gl.GetString(gl.VERSION))).Info("OpenGL ready")

	vtxSHO, err := compileShader(vertexShaderSRC, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	frgSHO, err := compileShader(fragmentShaderSRC, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	prog, err := linkProgram(vtxSHO, frgSHO)
	if err != nil {
		return nil, err
	}

	dsl := &DieselContext{Program: prog}
	dsl.ModelLoc = gl.GetUniformLocation(prog, gl.Str("model\x00"))
	dsl.ViewLoc = gl.GetUniformLocation(prog, gl.Str("view\x00"))
	dsl.ProjLoc = gl.GetUniformLocation(prog, gl.Str("projection\x00"))
	dsl.LightLoc = gl.GetUniformLocation(prog, gl.Str("lightDir\x00"))
	dsl.PressureLoc = gl.GetUniformLocation(prog, gl.Str("pressure\x00"))

	if err := MakeVAO(mesh, dsl); err != nil {
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	return dsl, nil
}

//MakeVAO creates the interleaved position/normal buffer and the element buffer
func MakeVAO(mesh *geometry.Mesh, dsl *DieselContext) error {
	data, err := utils.InterleaveVertexData(nil, mesh.Vertexes, mesh.Normals)
	if err != nil {
		return err
	}
	if len(mesh.Indices) == 0 {
		return errors.New("mesh has no triangles to draw")
	}
	dsl.packed = data
	dsl.VertexCount = mesh.VertexCount()
	dsl.IndexCount = int32(len(mesh.Indices))

	gl.GenVertexArrays(1, &dsl.VAO)
	gl.BindVertexArray(dsl.VAO)

	gl.GenBuffers(1, &dsl.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, dsl.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(&data[0]), gl.DYNAMIC_DRAW) //float 32 (4 bytes)

	stride := int32(utils.FloatsPerVertex * 4)
	gl.EnableVertexAttribArray(DSL_VERTEX)
	gl.VertexAttribPointer(DSL_VERTEX, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(DSL_NORMAL)
	gl.VertexAttribPointer(DSL_NORMAL, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	gl.GenBuffers(1, &dsl.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, dsl.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return nil
}

//UploadVertices writes packed vertex data into the mapped VBO
func UploadVertices(dsl *DieselContext, data []float32) error {
	if len(data) != dsl.VertexCount*utils.FloatsPerVertex {
		return errors.Errorf("upload of %d floats into a %d vertex buffer", len(data), dsl.VertexCount)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, dsl.VBO)
	ptr := gl.MapBufferRange(gl.ARRAY_BUFFER, 0, len(data)*4, gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	err := utils.TransferVertexData(ptr, data)
	if !gl.UnmapBuffer(gl.ARRAY_BUFFER) && err == nil {
		err = errors.New("vertex buffer corrupted during upload")
	}
	return errors.Wrap(err, "upload vertices")
}

//Draw renders the surface with the given transforms
func Draw(dsl *DieselContext, model mgl32.Mat4, view mgl32.Mat4, proj mgl32.Mat4, pressure float32) {
	gl.ClearColor(0.9, 0.9, 0.9, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(dsl.Program)
	gl.UniformMatrix4fv(dsl.ModelLoc, 1, false, &model[0])
	gl.UniformMatrix4fv(dsl.ViewLoc, 1, false, &view[0])
	gl.UniformMatrix4fv(dsl.ProjLoc, 1, false, &proj[0])
	gl.Uniform3f(dsl.LightLoc, -0.4, -1.0, -0.6)
	gl.Uniform1f(dsl.PressureLoc, pressure*PressureTint)

	gl.BindVertexArray(dsl.VAO)
	gl.DrawElements(gl.TRIANGLES, dsl.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	dsl.Frames++
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(info))
		gl.DeleteShader(shader)
		return 0, errors.Errorf("GLSL shader failed to compile: %v", info)
	}
	return shader, nil
}

func linkProgram(shaders ...uint32) (uint32, error) {
	prog := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(prog, sh)
	}
	gl.LinkProgram(prog)
	for _, sh := range shaders {
		gl.DeleteShader(sh)
	}

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)

		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(info))
		return 0, errors.Errorf("GLSL program failed to link: %v", info)
	}
	return prog, nil
}
