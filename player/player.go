// Package player drives playback: once per iteration it drains the command
// queue into the playback state machine, advances simulation time on a
// fixed step and renders a frame.
package player

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solar-nl/wgpu-spielerei/command"
	"github.com/solar-nl/wgpu-spielerei/playback"
	"github.com/solar-nl/wgpu-spielerei/renderer"
)

// FrameRenderer renders one frame. A returned error is fatal.
type FrameRenderer interface {
	RenderFrame(renderer.Frame) (renderer.Status, error)
}

// EventSource is the window side of the loop.
type EventSource interface {
	PollEvents()
	ShouldClose() bool
}

// Event describes one applied command.
type Event struct {
	Command command.Command
	From    playback.State
	To      playback.State
}

// Observer is told about every dequeued command after it is applied.
type Observer func(Event)

// LogObserver logs every applied command.
func LogObserver(ev Event) {
	log.Info().
		Stringer("command", ev.Command).
		Stringer("from", ev.From).
		Stringer("to", ev.To).
		Msg("command applied")
}

// Config wires a Player. Nil fields get defaults, except Renderer.
type Config struct {
	Queue     *command.Queue
	Machine   *playback.Machine
	Clock     *Clock
	Renderer  FrameRenderer
	Observers []Observer
}

// Player owns the queue, the state machine and the simulation clock. All
// of its methods must be called from the control thread.
type Player struct {
	queue     *command.Queue
	machine   *playback.Machine
	clock     *Clock
	renderer  FrameRenderer
	observers []Observer
	done      bool
	ticks     uint64
}

// New creates a player.
func New(cfg Config) *Player {
	p := &Player{
		queue:     cfg.Queue,
		machine:   cfg.Machine,
		clock:     cfg.Clock,
		renderer:  cfg.Renderer,
		observers: cfg.Observers,
	}
	if p.queue == nil {
		p.queue = command.NewQueue()
	}
	if p.machine == nil {
		p.machine = playback.New()
	}
	if p.clock == nil {
		p.clock = NewClock()
	}
	return p
}

// Enqueue adds a command for the next tick.
func (p *Player) Enqueue(c command.Command) { p.queue.Enqueue(c) }

// State returns the playback state.
func (p *Player) State() playback.State { return p.machine.State() }

// Clock returns the simulation clock.
func (p *Player) Clock() *Clock { return p.clock }

// Done reports whether the loop has terminated.
func (p *Player) Done() bool { return p.done }

// Ticks counts executed iterations.
func (p *Player) Ticks() uint64 { return p.ticks }

// drain applies queued commands in order. It stops at Quit and reports
// whether Quit was reached.
func (p *Player) drain() bool {
	for {
		c, ok := p.queue.Next()
		if !ok {
			return false
		}
		from := p.machine.State()
		to := p.machine.Apply(c)
		for _, o := range p.observers {
			o(Event{Command: c, From: from, To: to})
		}
		if to == playback.Quit {
			return true
		}
	}
}

// Tick runs one iteration at real time now. It reports whether the loop is
// finished; the error is non-nil only when rendering failed fatally. Once
// finished, Tick does nothing.
func (p *Player) Tick(now time.Time) (bool, error) {
	if p.done {
		return true, nil
	}
	quit := p.drain()
	p.clock.Advance(now, p.machine.Rate())

	status, err := p.renderer.RenderFrame(renderer.Frame{
		Time:  p.clock.Seconds(),
		Debug: p.machine.State() == playback.DebugDraw,
	})
	p.ticks++
	if err != nil {
		p.done = true
		return true, err
	}
	if status != renderer.StatusPresented {
		log.Debug().Stringer("status", status).Uint64("tick", p.ticks).Msg("frame not presented")
	}
	if quit {
		p.done = true
	}
	return p.done, nil
}

// Run ticks until Quit is applied, the window closes, ctx is cancelled or
// rendering fails. Closing the window and cancelling ctx both act as Quit.
func (p *Player) Run(ctx context.Context, events EventSource, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	p.clock.Start(now())
	quitSent := false
	for {
		events.PollEvents()
		if !quitSent {
			select {
			case <-ctx.Done():
				log.Info().Err(ctx.Err()).Msg("context done, quitting")
				p.Enqueue(command.Quit)
				quitSent = true
			default:
				if events.ShouldClose() {
					p.Enqueue(command.Quit)
					quitSent = true
				}
			}
		}
		done, err := p.Tick(now())
		if err != nil {
			return err
		}
		if done {
			log.Info().Uint64("ticks", p.ticks).Dur("sim_time", p.clock.Time()).Msg("playback finished")
			return nil
		}
	}
}
