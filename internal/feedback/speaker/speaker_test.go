package speaker

import (
	"testing"

	"storefloor/internal/feedback"
)

var _ feedback.Player = (*Speaker)(nil)

// An invalid tone is rejected before the audio device is touched.
func TestNew_InvalidTone(t *testing.T) {
	for _, tone := range []feedback.Tone{
		{Frequency: 1200, Duration: 0, Gain: 0.05, SampleRate: 44100},
		{Frequency: 1200, Duration: feedback.DefaultTone.Duration, Gain: 0, SampleRate: 44100},
	} {
		if _, err := New(tone); err == nil {
			t.Errorf("New(%+v) should fail", tone)
		}
	}
}
