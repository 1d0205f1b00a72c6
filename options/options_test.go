package options

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	o := Default()
	require.NoError(t, o.Validate())
	assert.Equal(t, "Solar Assembly 2024 Winner Demo", o.Title)
	assert.Equal(t, 960, o.Width)
	assert.Equal(t, 540, o.Height)
	assert.Equal(t, 16*time.Millisecond, o.Step)
	assert.Equal(t, "music.mp3", o.Music)
	assert.Equal(t, [2]mgl32.Vec4{{0, 0, 1, 1}, {0, 0, 0, 1}}, o.ClearColors())
	assert.Equal(t, graphics.FormatRGBA8, o.Format())
}

func TestParseWithoutConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")
	o, err := Parse(newFlagSet(), []string{"-config", missing, "-width", "1280", "-feedback", "3", "-mute"})
	require.NoError(t, err)
	assert.Equal(t, 1280, o.Width)
	assert.Equal(t, 540, o.Height)
	assert.Equal(t, 3, o.FeedbackImages)
	assert.True(t, o.Mute)
}

func TestConfigOverridesFlags(t *testing.T) {
	path := writeFile(t, `
width: 640
feedback_images: 2
step: 20ms
clear:
  feedback: [1, 0, 0, 1]
record:
  fps: 30
`)
	o, err := Parse(newFlagSet(), []string{"-config", path, "-width", "1280", "-height", "720"})
	require.NoError(t, err)
	assert.Equal(t, 640, o.Width, "file wins over flag")
	assert.Equal(t, 720, o.Height, "flag kept where the file is silent")
	assert.Equal(t, 2, o.FeedbackImages)
	assert.Equal(t, 20*time.Millisecond, o.Step)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, o.ClearColors()[0])
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, o.ClearColors()[1])
	assert.Equal(t, 30, o.Record.FPS)
	assert.Equal(t, "output.mp4", o.Record.Output)
}

func TestParseRejectsBrokenFile(t *testing.T) {
	path := writeFile(t, "width: [\n")
	_, err := Parse(newFlagSet(), []string{"-config", path})
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	o := Default()
	o.Shader = "feedback.glsl"
	o.Record.Enabled = true
	require.NoError(t, Save(path, o))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"one feedback image", func(o *Options) { o.FeedbackImages = 1 }},
		{"five feedback images", func(o *Options) { o.FeedbackImages = 5 }},
		{"zero step", func(o *Options) { o.Step = 0 }},
		{"odd bit depth", func(o *Options) { o.BitDepth = 10 }},
		{"short clear colour", func(o *Options) { o.Clear.Composite = []float32{1, 1} }},
		{"record without fps", func(o *Options) { o.Record.Enabled, o.Record.FPS = true, 0 }},
		{"record without duration", func(o *Options) { o.Record.Enabled, o.Record.Duration = true, 0 }},
		{"record without output", func(o *Options) { o.Record.Enabled, o.Record.Output = true, "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.mutate(o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestDerivedValues(t *testing.T) {
	o := Default()
	o.BitDepth = 16
	o.Record.FPS = 50
	assert.Equal(t, graphics.FormatRGBA16F, o.Format())
	assert.Equal(t, 20*time.Millisecond, o.FrameStep())
	assert.Equal(t, graphics.SamplerDesc{Filter: "linear", Wrap: "repeat"}, o.Sampler())
}
