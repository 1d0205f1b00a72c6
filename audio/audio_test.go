package audio

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeF32LE(t *testing.T) {
	want := []float32{0, 1, -0.5, 0.25}
	b := make([]byte, len(want)*4+2)
	for i, v := range want {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	assert.Equal(t, want, decodeF32LE(b))
}

func TestSharedAudioBufferFIFO(t *testing.T) {
	b := NewSharedAudioBuffer(16)
	require.True(t, b.Write([]float32{1, 2, 3}))
	require.True(t, b.Write([]float32{4, 5}))
	assert.Equal(t, 5, b.AvailableSamples())

	out := make([]float32, 4)
	assert.Equal(t, 4, b.ReadInto(out))
	assert.Equal(t, []float32{1, 2, 3, 4}, out)

	out = []float32{9, 9, 9}
	assert.Equal(t, 1, b.ReadInto(out))
	assert.Equal(t, []float32{5, 9, 9}, out)
	assert.Zero(t, b.AvailableSamples())
	assert.EqualValues(t, 5, b.TotalSamplesWritten())
}

func TestSharedAudioBufferBlocksWhenFull(t *testing.T) {
	b := NewSharedAudioBuffer(4)
	require.True(t, b.Write([]float32{1, 2, 3}))

	written := make(chan bool)
	go func() { written <- b.Write([]float32{4, 5}) }()

	select {
	case <-written:
		t.Fatal("write should wait for room")
	case <-time.After(20 * time.Millisecond):
	}

	out := make([]float32, 3)
	b.ReadInto(out)
	assert.True(t, <-written)
	assert.Equal(t, 2, b.AvailableSamples())
}

func TestSharedAudioBufferCloseReleasesWriters(t *testing.T) {
	b := NewSharedAudioBuffer(2)
	require.True(t, b.Write([]float32{1, 2}))

	written := make(chan bool)
	go func() { written <- b.Write([]float32{3}) }()
	b.Close()
	assert.False(t, <-written)
	assert.False(t, b.Write([]float32{4}))
}

func TestSharedAudioBufferOversizedChunk(t *testing.T) {
	b := NewSharedAudioBuffer(2)
	assert.True(t, b.Write([]float32{1, 2, 3, 4}), "an empty buffer accepts any chunk")
}

func TestNullDevice(t *testing.T) {
	d := NewNullDevice(DefaultSampleRate, DefaultChannels)
	ch, err := d.Start()
	require.NoError(t, err)
	assert.Nil(t, ch)
	assert.Equal(t, 44100, d.SampleRate())
	assert.Equal(t, 2, d.Channels())
	assert.NoError(t, d.Stop())
}

func TestMissingMusicIsSilent(t *testing.T) {
	m := PlayMusic(filepath.Join(t.TempDir(), "missing.mp3"), "")
	assert.False(t, m.Playing())
	m.Close()

	_, err := NewFileDecoder(filepath.Join(t.TempDir(), "missing.mp3"), "")
	assert.Error(t, err)
}

func TestDecoderArgs(t *testing.T) {
	d := &FileDecoder{sampleRate: 48000, channels: 2}
	args := d.outputArgs()
	assert.Equal(t, "f32le", args["f"])
	assert.Equal(t, "48000", args["ar"])
	assert.Equal(t, "2", args["ac"])
}
