package gldevice

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/solar-nl/wgpu-spielerei/graphics"
	"github.com/solar-nl/wgpu-spielerei/shader"
)

type pipeline struct {
	label         string
	program       uint32
	resolutionLoc int32
	timeLoc       int32
	passLoc       int32
	debugLoc      int32
	channelLocs   []int32
}

func newPipeline(desc graphics.PipelineDesc) (*pipeline, error) {
	program, err := newProgram(desc.VertexSource, desc.FragmentSource)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline %s", desc.Label)
	}
	p := &pipeline{label: desc.Label, program: program}

	loc := func(name string) int32 {
		mapped, ok := desc.UniformNames[name]
		if !ok {
			mapped = name
		}
		return gl.GetUniformLocation(program, gl.Str(mapped+"\x00"))
	}
	p.resolutionLoc = loc(shader.UniformResolution)
	p.timeLoc = loc(shader.UniformTime)
	p.passLoc = loc(shader.UniformPass)
	p.debugLoc = loc(shader.UniformDebug)
	for i := 0; i < desc.Channels; i++ {
		p.channelLocs = append(p.channelLocs, loc(shader.ChannelName(i)))
	}
	return p, nil
}

// setUniforms uploads the block; uniforms the compiler dropped are skipped.
func (p *pipeline) setUniforms(b graphics.UniformBlock) {
	if p.resolutionLoc != -1 {
		gl.Uniform2f(p.resolutionLoc, b.Resolution.X(), b.Resolution.Y())
	}
	if p.timeLoc != -1 {
		gl.Uniform1f(p.timeLoc, b.Time)
	}
	if p.passLoc != -1 {
		gl.Uniform1i(p.passLoc, b.Pass)
	}
	if p.debugLoc != -1 {
		var debug int32
		if b.Debug {
			debug = 1
		}
		gl.Uniform1i(p.debugLoc, debug)
	}
}

func (p *pipeline) Destroy() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, errors.Errorf("failed to link program: %v", logText)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(logText))
		gl.DeleteShader(sh)
		return 0, errors.Errorf("failed to compile shader: %v", logText)
	}
	return sh, nil
}
