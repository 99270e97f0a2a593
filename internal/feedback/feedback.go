package feedback

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

var (
	ErrUnavailable = errors.New("audio feedback unavailable")
	ErrNoListener  = errors.New("no client connected to play the cue")
)

// Player plays a short audible cue. Callers never wait on the sound itself.
type Player interface {
	Play() error
}

type PlayerFunc func() error

func (f PlayerFunc) Play() error { return f() }

type Nop struct{}

func (Nop) Play() error { return nil }

// Fallback plays through the first player and, if that fails, the second.
func Fallback(primary, secondary Player) Player {
	return PlayerFunc(func() error {
		if err := primary.Play(); err == nil {
			return nil
		}
		return secondary.Play()
	})
}

// Tone describes the cue played for each recorded event.
type Tone struct {
	Frequency  float64
	Duration   time.Duration
	Gain       float64
	SampleRate int
}

// DefaultTone is a quiet 1.2 kHz buzz.
var DefaultTone = Tone{
	Frequency:  1200,
	Duration:   150 * time.Millisecond,
	Gain:       0.05,
	SampleRate: 44100,
}

// Synthesize renders the tone as a 16-bit stereo WAV file.
func Synthesize(tone Tone) ([]byte, error) {
	streamer, err := Streamer(tone)
	if err != nil {
		return nil, fmt.Errorf("synthesizing cue: %w", err)
	}

	var buf writeSeeker
	format := beep.Format{SampleRate: beep.SampleRate(tone.SampleRate), NumChannels: 2, Precision: 2}
	if err := wav.Encode(&buf, streamer, format); err != nil {
		return nil, fmt.Errorf("encoding cue: %w", err)
	}
	return buf.data, nil
}

// Streamer generates one play of the tone at its sample rate.
func Streamer(tone Tone) (beep.Streamer, error) {
	if tone.Duration <= 0 {
		return nil, fmt.Errorf("duration %v must be positive", tone.Duration)
	}
	if tone.Gain <= 0 {
		return nil, fmt.Errorf("gain %v must be positive", tone.Gain)
	}
	sr := beep.SampleRate(tone.SampleRate)
	sine, err := generators.SineTone(sr, tone.Frequency)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(sr.N(tone.Duration), sine),
		Base:     2,
		Volume:   math.Log2(tone.Gain),
	}, nil
}

// Notifier asks the connected browser to play the synthesized cue.
type Notifier struct {
	available bool
	send      func() bool
}

// NewNotifier returns a Notifier that calls send for every cue. send reports
// whether a client took the message.
func NewNotifier(available bool, send func() bool) *Notifier {
	return &Notifier{available: available, send: send}
}

func (n *Notifier) Play() error {
	if !n.available {
		return ErrUnavailable
	}
	if n.send == nil || !n.send() {
		return ErrNoListener
	}
	return nil
}

// writeSeeker is the in-memory io.WriteSeeker the wav encoder needs to
// patch its header after streaming.
type writeSeeker struct {
	data []byte
	pos  int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.data) {
		w.data = append(w.data, make([]byte, end-len(w.data))...)
	}
	n := copy(w.data[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.data)) + offset
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("seek: negative position %d", abs)
	}
	w.pos = int(abs)
	return abs, nil
}
