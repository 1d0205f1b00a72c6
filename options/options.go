// Package options holds the player configuration. Command-line flags are
// parsed first; a YAML file, when present, overrides every field it sets.
package options

import (
	"flag"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

// DefaultConfigPath is read when -config is not given. It may be absent.
const DefaultConfigPath = "demo.yaml"

// Clear holds the clear colours of the two passes as RGBA in 0..1.
type Clear struct {
	Feedback  []float32 `yaml:"feedback,omitempty"`
	Composite []float32 `yaml:"composite,omitempty"`
}

// Record configures the headless record mode.
type Record struct {
	Enabled  bool    `yaml:"enabled"`
	Output   string  `yaml:"output,omitempty"`
	FPS      int     `yaml:"fps,omitempty"`
	Duration float64 `yaml:"duration,omitempty"`
	Codec    string  `yaml:"codec,omitempty"`
}

// Options is the complete player configuration.
type Options struct {
	Title          string        `yaml:"title,omitempty"`
	Width          int           `yaml:"width,omitempty"`
	Height         int           `yaml:"height,omitempty"`
	BitDepth       int           `yaml:"bit_depth,omitempty"`
	FeedbackImages int           `yaml:"feedback_images,omitempty"`
	Step           time.Duration `yaml:"step,omitempty"`
	MaxBacklog     time.Duration `yaml:"max_backlog,omitempty"`
	Logo           string        `yaml:"logo,omitempty"`
	LogoMaxSize    int           `yaml:"logo_max_size,omitempty"`
	Shader         string        `yaml:"shader,omitempty"`
	Filter         string        `yaml:"filter,omitempty"`
	Wrap           string        `yaml:"wrap,omitempty"`
	Music          string        `yaml:"music,omitempty"`
	Mute           bool          `yaml:"mute,omitempty"`
	FFmpeg         string        `yaml:"ffmpeg,omitempty"`
	LogLevel       string        `yaml:"log_level,omitempty"`
	Clear          Clear         `yaml:"clear,omitempty"`
	Record         Record        `yaml:"record,omitempty"`
}

// Default returns the demo's built-in configuration.
func Default() *Options {
	return &Options{
		Title:          "Solar Assembly 2024 Winner Demo",
		Width:          960,
		Height:         540,
		BitDepth:       8,
		FeedbackImages: 4,
		Step:           16 * time.Millisecond,
		MaxBacklog:     250 * time.Millisecond,
		Logo:           "logo.png",
		LogoMaxSize:    1024,
		Filter:         "linear",
		Wrap:           "repeat",
		Music:          "music.mp3",
		LogLevel:       "info",
		Clear: Clear{
			Feedback:  []float32{0, 0, 1, 1},
			Composite: []float32{0, 0, 0, 1},
		},
		Record: Record{
			Output:   "output.mp4",
			FPS:      60,
			Duration: 10,
			Codec:    "h264",
		},
	}
}

// Load reads a YAML file into a zero Options.
func Load(path string) (*Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var o Options
	if err := yaml.Unmarshal(b, &o); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &o, nil
}

// Save writes o as YAML.
func Save(path string, o *Options) error {
	b, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Bind registers one flag per option on fs, defaulting to the current
// values of o, and returns the -config path flag.
func (o *Options) Bind(fs *flag.FlagSet) *string {
	configPath := fs.String("config", DefaultConfigPath, "path to a YAML config file (optional)")
	fs.StringVar(&o.Title, "title", o.Title, "window title")
	fs.IntVar(&o.Width, "width", o.Width, "width of the window or recording")
	fs.IntVar(&o.Height, "height", o.Height, "height of the window or recording")
	fs.IntVar(&o.BitDepth, "bitdepth", o.BitDepth, "8 for RGBA8 feedback images, 16 for RGBA16F")
	fs.IntVar(&o.FeedbackImages, "feedback", o.FeedbackImages, "number of feedback images (2-4)")
	fs.DurationVar(&o.Step, "step", o.Step, "fixed simulation step")
	fs.DurationVar(&o.MaxBacklog, "max-backlog", o.MaxBacklog, "maximum real time carried between ticks")
	fs.StringVar(&o.Logo, "logo", o.Logo, "static image bound to iChannel0")
	fs.IntVar(&o.LogoMaxSize, "logo-max-size", o.LogoMaxSize, "downscale the logo to fit this many pixels")
	fs.StringVar(&o.Shader, "shader", o.Shader, "fragment shader file replacing the built-in one")
	fs.StringVar(&o.Filter, "filter", o.Filter, "sampler filter: linear | nearest")
	fs.StringVar(&o.Wrap, "wrap", o.Wrap, "sampler wrap: repeat | clamp | mirror")
	fs.StringVar(&o.Music, "music", o.Music, "music file played at start")
	fs.BoolVar(&o.Mute, "mute", o.Mute, "do not play music")
	fs.StringVar(&o.FFmpeg, "ffmpeg", o.FFmpeg, "path to the ffmpeg executable")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "debug | info | warn | error")
	fs.BoolVar(&o.Record.Enabled, "record", o.Record.Enabled, "render headless into a video file")
	fs.StringVar(&o.Record.Output, "output", o.Record.Output, "output file for -record")
	fs.IntVar(&o.Record.FPS, "fps", o.Record.FPS, "frames per second for -record")
	fs.Float64Var(&o.Record.Duration, "duration", o.Record.Duration, "seconds to record")
	fs.StringVar(&o.Record.Codec, "codec", o.Record.Codec, "h264 | hevc")
	return configPath
}

// Override copies every field set in file over o.
func (o *Options) Override(file *Options) {
	if file == nil {
		return
	}
	o.Title = firstNonEmpty(file.Title, o.Title)
	o.Width = firstPositive(file.Width, o.Width)
	o.Height = firstPositive(file.Height, o.Height)
	o.BitDepth = firstPositive(file.BitDepth, o.BitDepth)
	o.FeedbackImages = firstPositive(file.FeedbackImages, o.FeedbackImages)
	if file.Step > 0 {
		o.Step = file.Step
	}
	if file.MaxBacklog > 0 {
		o.MaxBacklog = file.MaxBacklog
	}
	o.Logo = firstNonEmpty(file.Logo, o.Logo)
	o.LogoMaxSize = firstPositive(file.LogoMaxSize, o.LogoMaxSize)
	o.Shader = firstNonEmpty(file.Shader, o.Shader)
	o.Filter = firstNonEmpty(file.Filter, o.Filter)
	o.Wrap = firstNonEmpty(file.Wrap, o.Wrap)
	o.Music = firstNonEmpty(file.Music, o.Music)
	o.Mute = o.Mute || file.Mute
	o.FFmpeg = firstNonEmpty(file.FFmpeg, o.FFmpeg)
	o.LogLevel = firstNonEmpty(file.LogLevel, o.LogLevel)
	if len(file.Clear.Feedback) > 0 {
		o.Clear.Feedback = file.Clear.Feedback
	}
	if len(file.Clear.Composite) > 0 {
		o.Clear.Composite = file.Clear.Composite
	}
	o.Record.Enabled = o.Record.Enabled || file.Record.Enabled
	o.Record.Output = firstNonEmpty(file.Record.Output, o.Record.Output)
	o.Record.FPS = firstPositive(file.Record.FPS, o.Record.FPS)
	if file.Record.Duration > 0 {
		o.Record.Duration = file.Record.Duration
	}
	o.Record.Codec = firstNonEmpty(file.Record.Codec, o.Record.Codec)
}

// Parse builds the effective options from args: defaults, then flags, then
// the config file. A missing config file is not an error.
func Parse(fs *flag.FlagSet, args []string) (*Options, error) {
	o := Default()
	configPath := o.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	file, err := Load(*configPath)
	switch {
	case err == nil:
		log.Info().Str("path", *configPath).Msg("config loaded")
		o.Override(file)
	case os.IsNotExist(err):
		log.Debug().Str("path", *configPath).Msg("no config file; using flags")
	default:
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate rejects configurations the player cannot run with.
func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Errorf("invalid size %dx%d", o.Width, o.Height)
	}
	if o.FeedbackImages < 2 || o.FeedbackImages > 4 {
		return errors.Errorf("feedback images must be between 2 and 4, got %d", o.FeedbackImages)
	}
	if o.Step <= 0 {
		return errors.Errorf("step must be positive, got %v", o.Step)
	}
	if o.BitDepth != 8 && o.BitDepth != 16 {
		return errors.Errorf("bit depth must be 8 or 16, got %d", o.BitDepth)
	}
	if n := len(o.Clear.Feedback); n != 0 && n != 4 {
		return errors.Errorf("feedback clear colour needs 4 components, got %d", n)
	}
	if n := len(o.Clear.Composite); n != 0 && n != 4 {
		return errors.Errorf("composite clear colour needs 4 components, got %d", n)
	}
	if o.Record.Enabled {
		if o.Record.FPS <= 0 {
			return errors.Errorf("record fps must be positive, got %d", o.Record.FPS)
		}
		if o.Record.Duration <= 0 {
			return errors.Errorf("record duration must be positive, got %v", o.Record.Duration)
		}
		if o.Record.Output == "" {
			return errors.New("record output file is empty")
		}
	}
	return nil
}

// Format is the pixel format of the feedback images.
func (o *Options) Format() graphics.PixelFormat {
	if o.BitDepth > 8 {
		return graphics.FormatRGBA16F
	}
	return graphics.FormatRGBA8
}

// ClearColors returns the clear colours of the feedback and composite
// passes; unset entries are zero and replaced by the renderer defaults.
func (o *Options) ClearColors() [2]mgl32.Vec4 {
	var out [2]mgl32.Vec4
	for i, c := range [][]float32{o.Clear.Feedback, o.Clear.Composite} {
		if len(c) == 4 {
			out[i] = mgl32.Vec4{c[0], c[1], c[2], c[3]}
		}
	}
	return out
}

// FrameStep is the simulated time between recorded frames.
func (o *Options) FrameStep() time.Duration {
	return time.Duration(float64(time.Second) / float64(o.Record.FPS))
}

// Sampler returns the sampler description for every binding set.
func (o *Options) Sampler() graphics.SamplerDesc {
	return graphics.SamplerDesc{Filter: o.Filter, Wrap: o.Wrap}
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func firstPositive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
