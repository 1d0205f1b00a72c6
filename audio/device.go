package audio

// We'll be using portaudio for audio output.
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio

// AudioDevice is a producer of interleaved float32 sample chunks.
type AudioDevice interface {
	// Start begins producing and returns a receive-only channel of chunks.
	// The channel is closed when the source is exhausted or stopped.
	Start() (<-chan []float32, error)
	// Stop terminates the stream.
	Stop() error
	SampleRate() int
	Channels() int
}

// NullDevice produces silence: its channel never delivers.
type NullDevice struct {
	rate     int
	channels int
}

func NewNullDevice(sampleRate, channels int) *NullDevice {
	return &NullDevice{rate: sampleRate, channels: channels}
}

// Start returns a nil channel, which blocks forever on receive.
func (d *NullDevice) Start() (<-chan []float32, error) {
	return nil, nil
}

func (d *NullDevice) Stop() error { return nil }

func (d *NullDevice) SampleRate() int { return d.rate }

func (d *NullDevice) Channels() int { return d.channels }
