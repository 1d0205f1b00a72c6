package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const framesPerBuffer = 512

// Speaker plays an AudioDevice's chunks on the default output device.
type Speaker struct {
	device      AudioDevice
	buffer      *SharedAudioBuffer
	stream      *portaudio.Stream
	isStreaming bool
	underruns   int64
	wg          sync.WaitGroup
}

// NewSpeaker initialises portaudio for device.
func NewSpeaker(device AudioDevice) (*Speaker, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, errors.Wrap(err, "initialize portaudio")
	}
	return &Speaker{
		device: device,
		// one second of audio
		buffer: NewSharedAudioBuffer(device.SampleRate() * device.Channels()),
	}, nil
}

// audioCallback runs on the portaudio thread; it must not block.
func (s *Speaker) audioCallback(out []float32) {
	n := s.buffer.ReadInto(out)
	if n < len(out) {
		fillSilence(out[n:])
		if n > 0 {
			s.underruns++
		}
	}
}

// Start opens the output stream and pumps the device into it.
func (s *Speaker) Start() error {
	chunks, err := s.device.Start()
	if err != nil {
		portaudio.Terminate()
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, s.device.Channels(), float64(s.device.SampleRate()), framesPerBuffer, s.audioCallback)
	if err != nil {
		s.device.Stop()
		portaudio.Terminate()
		return errors.Wrap(err, "open audio stream")
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		s.device.Stop()
		portaudio.Terminate()
		return errors.Wrap(err, "start audio stream")
	}
	s.stream = stream
	s.isStreaming = true

	if chunks == nil {
		return nil
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// keep draining after Close so the producer can exit
		for chunk := range chunks {
			s.buffer.Write(chunk)
		}
		log.Debug().Msg("music finished")
	}()
	return nil
}

// Stop closes the stream and the device.
func (s *Speaker) Stop() error {
	if !s.isStreaming {
		return nil
	}
	s.isStreaming = false
	s.buffer.Close()
	derr := s.device.Stop()
	s.wg.Wait()
	if err := s.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	if s.underruns > 0 {
		log.Debug().Int64("underruns", s.underruns).Msg("audio underruns")
	}
	if err := portaudio.Terminate(); err != nil {
		return err
	}
	return derr
}
