// Package speaker plays the feedback tone on the local audio device. It
// links the platform audio driver (cgo on Linux), so the web server must not
// import it.
package speaker

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	device "github.com/gopxl/beep/speaker"

	"storefloor/internal/feedback"
)

// Speaker is a feedback.Player backed by the sound card.
type Speaker struct {
	tone feedback.Tone
}

// New opens the audio device. It fails on machines without one, in which
// case callers fall back to another Player.
func New(tone feedback.Tone) (*Speaker, error) {
	if _, err := feedback.Streamer(tone); err != nil {
		return nil, fmt.Errorf("opening speaker: %w", err)
	}
	sr := beep.SampleRate(tone.SampleRate)
	if err := device.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("opening speaker: %w", err)
	}
	return &Speaker{tone: tone}, nil
}

func (s *Speaker) Play() error {
	streamer, err := feedback.Streamer(s.tone)
	if err != nil {
		return err
	}
	device.Play(streamer)
	return nil
}

func (s *Speaker) Close() {
	device.Close()
}
