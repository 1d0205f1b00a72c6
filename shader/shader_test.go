package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreambleDeclaresChannels(t *testing.T) {
	src := GeneratePreamble(5)
	for i := 0; i < 5; i++ {
		assert.Contains(t, src, "uniform sampler2D "+ChannelName(i)+";")
	}
	assert.NotContains(t, src, "iChannel5")
	assert.Contains(t, src, "#define FEEDBACK_IMAGES 4")
	assert.True(t, strings.HasPrefix(src, "#version 300 es"))
}

func TestFragmentShaderWrapsUserCode(t *testing.T) {
	src := GetFragmentShader(3, DemoFragmentShader())
	assert.Contains(t, src, "void mainImage(")
	assert.Contains(t, src, "mainImage(fragColor, gl_FragCoord.xy);")
	assert.Less(t, strings.Index(src, "uniform int   iPass;"), strings.Index(src, "void mainImage("))
}

func TestUniformNames(t *testing.T) {
	assert.Equal(t,
		[]string{"iResolution", "iTime", "iPass", "iDebug", "iChannel0", "iChannel1"},
		UniformNames(2))
}

func TestVertexShaderHasNoInputs(t *testing.T) {
	src := GenerateVertexShader()
	assert.NotContains(t, src, " in ")
	assert.Contains(t, src, "gl_VertexID")
}
