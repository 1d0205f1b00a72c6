// Package recorder encodes rendered frames into a video file by piping
// raw RGBA frames into ffmpeg.
package recorder

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Config describes the produced video.
type Config struct {
	Width  int
	Height int
	FPS    int
	Output string
	// Codec is "h264" or "hevc".
	Codec string
	// FFmpeg is the ffmpeg executable; empty uses PATH.
	FFmpeg string
	// Audio, when set, is muxed in as the soundtrack.
	Audio string
	// Duration in seconds caps the output; zero leaves it open.
	Duration float64
}

// Recorder accepts frames from the render thread and feeds them to a
// running ffmpeg process.
type Recorder struct {
	cfg       Config
	w         io.WriteCloser
	done      chan error
	frameSize int
	frames    int64
	closed    bool
}

func (c Config) inputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", c.Width, c.Height),
		"framerate": strconv.Itoa(c.FPS),
	}
}

func (c Config) outputArgs() ffmpeg.KwArgs {
	outputArgs := ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	hevc := c.Codec == "hevc"
	switch runtime.GOOS {
	case "darwin":
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if hevc {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}
	if hevc && strings.HasSuffix(c.Output, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	if c.Audio != "" {
		outputArgs["c:a"] = "aac"
	}
	if c.Duration > 0 {
		outputArgs["t"] = strconv.FormatFloat(c.Duration, 'f', -1, 64)
	}
	return outputArgs
}

// stream builds the ffmpeg graph reading video from r.
func (c Config) stream(r io.Reader) *ffmpeg.Stream {
	video := ffmpeg.Input("pipe:", c.inputArgs())
	var out *ffmpeg.Stream
	if c.Audio != "" {
		audio := ffmpeg.Input(c.Audio)
		out = ffmpeg.Output([]*ffmpeg.Stream{video, audio}, c.Output, c.outputArgs())
	} else {
		out = video.Output(c.Output, c.outputArgs())
	}
	out = out.OverWriteOutput().WithInput(r).ErrorToStdOut()
	if c.FFmpeg != "" {
		out = out.SetFfmpegPath(c.FFmpeg)
	}
	return out
}

// Start launches ffmpeg.
func Start(cfg Config) (*Recorder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, errors.Errorf("invalid recording %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	pipeReader, pipeWriter := io.Pipe()
	r := newRecorder(cfg, pipeWriter)

	cmd := cfg.stream(pipeReader)
	go func() {
		err := cmd.Run()
		// unblock a writer if ffmpeg died early
		pipeReader.CloseWithError(errors.New("ffmpeg exited"))
		r.done <- err
	}()
	log.Info().Str("output", cfg.Output).Int("width", cfg.Width).Int("height", cfg.Height).
		Int("fps", cfg.FPS).Str("codec", cfg.Codec).Msg("recording")
	return r, nil
}

func newRecorder(cfg Config, w io.WriteCloser) *Recorder {
	return &Recorder{
		cfg:       cfg,
		w:         w,
		done:      make(chan error, 1),
		frameSize: cfg.Width * cfg.Height * 4,
	}
}

// WriteFrame sends one frame of tightly packed RGBA rows, top row first.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.closed {
		return errors.New("recorder closed")
	}
	if len(pixels) != r.frameSize {
		return errors.Errorf("frame is %d bytes, want %d", len(pixels), r.frameSize)
	}
	if _, err := r.w.Write(pixels); err != nil {
		return errors.Wrapf(err, "frame %d", r.frames)
	}
	r.frames++
	return nil
}

// Frames counts the frames written so far.
func (r *Recorder) Frames() int64 { return r.frames }

// Close ends the input stream and waits for ffmpeg to finish the file.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.w.Close(); err != nil {
		return err
	}
	if err := <-r.done; err != nil {
		return errors.Wrap(err, "ffmpeg")
	}
	log.Info().Int64("frames", r.frames).Str("output", r.cfg.Output).Msg("recording finished")
	return nil
}
