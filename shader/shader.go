package shader

import (
	_ "embed"
	"fmt"
	"strings"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

// The full-screen triangle is generated from gl_VertexID alone, so draws
// need no vertex buffer: vertices 0,1,2 land on (-1,-1), (3,-1), (-1,3).
const vertexShaderSourceGL = `#version 410 core
out vec2 frag_uv;
void main() {
    vec2 pos = vec2(float((gl_VertexID << 1) & 2), float(gl_VertexID & 2));
    frag_uv = pos;
    gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

//go:embed demo.glsl
var demoFragmentSource string

// Uniform names shared by the preamble and the renderer.
const (
	UniformResolution = "iResolution"
	UniformTime       = "iTime"
	UniformPass       = "iPass"
	UniformDebug      = "iDebug"
)

// ChannelName is the sampler uniform for slot i.
func ChannelName(i int) string {
	return fmt.Sprintf("iChannel%d", i)
}

// UniformNames lists every uniform the preamble declares for the given
// number of sampler slots.
func UniformNames(channels int) []string {
	names := []string{UniformResolution, UniformTime, UniformPass, UniformDebug}
	for i := 0; i < channels; i++ {
		names = append(names, ChannelName(i))
	}
	return names
}

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader() string {
	return vertexShaderSourceGL
}

// DemoFragmentShader returns the built-in two-pass shader body.
func DemoFragmentShader() string {
	return demoFragmentSource
}

// ────────────────────── Dynamic preamble / user code glue ──────────────────────

// GeneratePreamble declares the standard uniforms and one sampler2D per slot.
// Slot 0 is the static logo, slots 1.. are feedback images newest first.
func GeneratePreamble(channels int) string {
	var b strings.Builder
	b.WriteString(`#version 300 es
precision highp float;
precision highp int;

uniform vec2  iResolution;
uniform float iTime;
uniform int   iPass;
uniform bool  iDebug;
`)
	for i := 0; i < channels; i++ {
		fmt.Fprintf(&b, "uniform sampler2D %s;\n", ChannelName(i))
	}
	fmt.Fprintf(&b, "#define FEEDBACK_IMAGES %d\n", channels-1)
	b.WriteString(`
out vec4 fragColor;
`)
	return b.String()
}

func GetMain() string {
	return `
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy);
}
`
}

// GetFragmentShader combines preamble + user code + wrapper.
func GetFragmentShader(channels int, user string) string {
	return GeneratePreamble(channels) + user + GetMain()
}
