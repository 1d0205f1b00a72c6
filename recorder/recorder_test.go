package recorder

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct {
	bytes.Buffer
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func TestWriteFrame(t *testing.T) {
	sink := &nopCloser{}
	r := newRecorder(Config{Width: 2, Height: 2, FPS: 30}, sink)
	r.done <- nil

	require.NoError(t, r.WriteFrame(make([]byte, 16)))
	require.NoError(t, r.WriteFrame(bytes.Repeat([]byte{1}, 16)))
	assert.Error(t, r.WriteFrame(make([]byte, 15)), "short frame")
	assert.EqualValues(t, 2, r.Frames())
	assert.Equal(t, 32, sink.Len())

	require.NoError(t, r.Close())
	assert.True(t, sink.closed)
	assert.Error(t, r.WriteFrame(make([]byte, 16)))
	assert.NoError(t, r.Close())
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	_, err := Start(Config{Width: 0, Height: 10, FPS: 30})
	assert.Error(t, err)
	_, err = Start(Config{Width: 10, Height: 10})
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	cfg := Config{Width: 960, Height: 540, FPS: 60, Output: "demo.mp4", Codec: "hevc"}
	in := cfg.inputArgs()
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "960x540", in["s"])
	assert.Equal(t, "60", in["framerate"])

	out := cfg.outputArgs()
	assert.Equal(t, "hvc1", out["tag:v"])
	if runtime.GOOS != "darwin" {
		assert.Equal(t, "libx265", out["c:v"])
	}
	assert.NotContains(t, out, "c:a")
	assert.NotContains(t, out, "t")

	cfg.Codec, cfg.Audio, cfg.Duration = "h264", "music.mp3", 12.5
	out = cfg.outputArgs()
	assert.NotContains(t, out, "tag:v")
	assert.Equal(t, "aac", out["c:a"])
	assert.Equal(t, "12.5", out["t"])
}
