package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/solar-nl/wgpu-spielerei/audio"
	"github.com/solar-nl/wgpu-spielerei/gldevice"
	"github.com/solar-nl/wgpu-spielerei/glfwcontext"
	"github.com/solar-nl/wgpu-spielerei/graphics"
	"github.com/solar-nl/wgpu-spielerei/inputs"
	"github.com/solar-nl/wgpu-spielerei/options"
	"github.com/solar-nl/wgpu-spielerei/player"
	"github.com/solar-nl/wgpu-spielerei/recorder"
	"github.com/solar-nl/wgpu-spielerei/renderer"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

// frameLimit ends a recording once total frames have been ticked.
type frameLimit struct {
	player.EventSource
	polls int
	total int
}

func (f *frameLimit) PollEvents() {
	f.polls++
	f.EventSource.PollEvents()
}

func (f *frameLimit) ShouldClose() bool {
	return f.polls >= f.total || f.EventSource.ShouldClose()
}

// steppedClock returns a time source that advances by step on every call,
// so each tick of a recording consumes exactly one simulation step.
func steppedClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func main() {
	os.Exit(run())
}

func run() int {
	setupLogging("info")
	o, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 2
	}
	setupLogging(o.LogLevel)

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Error().Err(err).Msg("graphics init failed")
		return 1
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(o, !o.Record.Enabled)
	if err != nil {
		log.Error().Err(err).Msg("window creation failed")
		return 1
	}
	defer win.Shutdown()

	dev, err := gldevice.New(win)
	if err != nil {
		log.Error().Err(err).Msg("device creation failed")
		return 1
	}
	defer dev.Destroy()

	var (
		surface graphics.Surface
		rec     *recorder.Recorder
	)
	width, height := o.Width, o.Height
	if o.Record.Enabled {
		music := o.Music
		if o.Mute {
			music = ""
		}
		rec, err = recorder.Start(recorder.Config{
			Width:    width,
			Height:   height,
			FPS:      o.Record.FPS,
			Output:   o.Record.Output,
			Codec:    o.Record.Codec,
			FFmpeg:   o.FFmpeg,
			Audio:    music,
			Duration: o.Record.Duration,
		})
		if err != nil {
			log.Error().Err(err).Msg("recorder start failed")
			return 1
		}
		rs := gldevice.NewRecordSurface(rec)
		defer rs.Destroy()
		surface = rs
	} else {
		// HiDPI displays hand out a larger framebuffer than the window.
		width, height = win.GetFramebufferSize()
		surface = gldevice.NewWindowSurface(win, o.Format())
	}

	var fragment string
	if o.Shader != "" {
		b, err := os.ReadFile(o.Shader)
		if err != nil {
			log.Error().Err(err).Str("path", o.Shader).Msg("cannot read shader")
			return 1
		}
		fragment = string(b)
	}

	logo, err := inputs.NewLogo(dev, o.Logo, o.LogoMaxSize)
	if err != nil {
		log.Error().Err(err).Msg("logo upload failed")
		return 1
	}

	cfg := renderer.Config{
		Device:         dev,
		Surface:        surface,
		Logo:           logo,
		FragmentSource: fragment,
		Width:          width,
		Height:         height,
		FeedbackImages: o.FeedbackImages,
		ClearColors:    o.ClearColors(),
		Sampler:        o.Sampler(),
	}
	if !o.Record.Enabled {
		cfg.WindowSize = win.GetFramebufferSize
	}
	// The renderer owns the logo from here on.
	r, err := renderer.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("renderer setup failed")
		return 1
	}
	defer r.Destroy()

	clock := &player.Clock{Step: o.Step, MaxBacklog: o.MaxBacklog}
	p := player.New(player.Config{
		Clock:     clock,
		Renderer:  r,
		Observers: []player.Observer{player.LogObserver},
	})
	win.OnCommand(p.Enqueue)
	win.OnResize(r.Resize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		events player.EventSource = win
		now                       = time.Now
	)
	if o.Record.Enabled {
		step := o.FrameStep()
		clock.Step = step
		events = &frameLimit{EventSource: win, total: int(o.Record.Duration * float64(o.Record.FPS))}
		now = steppedClock(step)
		log.Info().Str("output", o.Record.Output).Int("fps", o.Record.FPS).
			Float64("duration", o.Record.Duration).Msg("recording")
	} else if !o.Mute {
		music := audio.PlayMusic(o.Music, o.FFmpeg)
		defer music.Close()
	}

	err = p.Run(ctx, events, now)
	if rec != nil {
		if cerr := rec.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("recording failed")
			if err == nil {
				return 1
			}
		} else {
			log.Info().Int64("frames", rec.Frames()).Str("output", o.Record.Output).Msg("recording written")
		}
	}
	if err != nil {
		if errors.Cause(err) == renderer.ErrFatal {
			log.Error().Err(err).Msg("unrecoverable GPU error")
		} else {
			log.Error().Err(err).Msg("playback failed")
		}
		return 1
	}
	return 0
}
