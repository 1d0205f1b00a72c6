package audio

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Output format of the decoder.
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	chunkFrames       = 1024
)

// FileDecoder decodes an audio file with the ffmpeg executable into
// interleaved float32 chunks.
type FileDecoder struct {
	path       string
	ffmpegPath string
	sampleRate int
	channels   int

	mu     sync.Mutex
	cmd    *exec.Cmd
	reader *io.PipeReader
}

// NewFileDecoder checks that path exists and prepares a decoder for it.
// ffmpegPath may be empty to use ffmpeg from PATH.
func NewFileDecoder(path, ffmpegPath string) (*FileDecoder, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "music file")
	}
	return &FileDecoder{
		path:       path,
		ffmpegPath: ffmpegPath,
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
	}, nil
}

func (d *FileDecoder) SampleRate() int { return d.sampleRate }

func (d *FileDecoder) Channels() int { return d.channels }

// outputArgs asks ffmpeg for raw little-endian float PCM on stdout.
func (d *FileDecoder) outputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":        "f32le",
		"acodec":   "pcm_f32le",
		"ac":       strconv.Itoa(d.channels),
		"ar":       strconv.Itoa(d.sampleRate),
		"loglevel": "error",
	}
}

// Start launches ffmpeg and a goroutine that slices its output into
// chunks of chunkFrames frames.
func (d *FileDecoder) Start() (<-chan []float32, error) {
	pipeReader, pipeWriter := io.Pipe()

	stream := ffmpeg.Input(d.path).
		Output("pipe:", d.outputArgs()).
		WithOutput(pipeWriter)
	if d.ffmpegPath != "" {
		stream = stream.SetFfmpegPath(d.ffmpegPath)
	}
	cmd := stream.Compile()
	if err := cmd.Start(); err != nil {
		pipeWriter.Close()
		return nil, errors.Wrap(err, "start ffmpeg decoder")
	}

	d.mu.Lock()
	d.cmd, d.reader = cmd, pipeReader
	d.mu.Unlock()

	go func() {
		err := cmd.Wait()
		pipeWriter.CloseWithError(err)
	}()

	out := make(chan []float32, 8)
	go func() {
		defer close(out)
		r := bufio.NewReader(pipeReader)
		buf := make([]byte, chunkFrames*d.channels*4)
		for {
			n, err := io.ReadFull(r, buf)
			if n >= 4 {
				out <- decodeF32LE(buf[:n])
			}
			if err != nil {
				if err != io.EOF && err != io.ErrUnexpectedEOF && err != io.ErrClosedPipe {
					log.Warn().Err(err).Str("path", d.path).Msg("audio decoder stopped")
				}
				return
			}
		}
	}()

	log.Info().Str("path", d.path).Int("sample_rate", d.sampleRate).Int("channels", d.channels).Msg("decoding music")
	return out, nil
}

// Stop kills ffmpeg and unblocks the reader.
func (d *FileDecoder) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.reader != nil {
		d.reader.Close()
	}
	if d.cmd != nil && d.cmd.Process != nil {
		if err := d.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
	}
	return nil
}
