package audio

import (
	"github.com/rs/zerolog/log"
)

// Music is the soundtrack started once at launch. Playback is independent
// of rendering: failures are logged and the demo runs silently.
type Music struct {
	speaker *Speaker
}

// PlayMusic starts playing path in the background. The returned value is
// never nil.
func PlayMusic(path, ffmpegPath string) *Music {
	m := &Music{}
	if path == "" {
		return m
	}
	dec, err := NewFileDecoder(path, ffmpegPath)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("music disabled")
		return m
	}
	sp, err := NewSpeaker(dec)
	if err != nil {
		log.Warn().Err(err).Msg("no audio output; music disabled")
		return m
	}
	if err := sp.Start(); err != nil {
		log.Warn().Err(err).Msg("music playback failed to start")
		return m
	}
	m.speaker = sp
	return m
}

// Playing reports whether music was started.
func (m *Music) Playing() bool { return m.speaker != nil }

// Close stops playback.
func (m *Music) Close() {
	if m.speaker == nil {
		return
	}
	if err := m.speaker.Stop(); err != nil {
		log.Warn().Err(err).Msg("stopping music")
	}
	m.speaker = nil
}
