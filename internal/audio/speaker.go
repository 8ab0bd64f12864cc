package audio

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DeviceSampleRate is the fixed rate the output device is initialized at.
// Streams with a different rate are resampled on submission.
const DeviceSampleRate beep.SampleRate = 44100

// deviceBufferLen trades latency for underrun resistance.
const deviceBufferLen = 200 * time.Millisecond

// resampleQuality balances CPU cost against artifacts; 4 is the beep
// recommendation for real-time use.
const resampleQuality = 4

// Speaker is the audio output peripheral backed by the beep speaker.
// Initialize it once per process; the underlying device is a singleton.
type Speaker struct {
	sampleRate beep.SampleRate
	playing    atomic.Bool
}

// NewSpeaker initializes the audio output device.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(DeviceSampleRate, DeviceSampleRate.N(deviceBufferLen)); err != nil {
		return nil, fmt.Errorf("audio device init: %w", err)
	}
	return &Speaker{sampleRate: DeviceSampleRate}, nil
}

// Play submits a decoded stream to the device and returns immediately.
// Poll IsPlaying to wait for completion.
func (sp *Speaker) Play(s *Stream) error {
	if sp.playing.Load() {
		return fmt.Errorf("output device busy")
	}

	var streamer beep.Streamer = s.Streamer
	if s.Format.SampleRate != sp.sampleRate {
		streamer = beep.Resample(resampleQuality, s.Format.SampleRate, sp.sampleRate, s.Streamer)
	}

	sp.playing.Store(true)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		sp.playing.Store(false)
	})))
	return nil
}

// Stop halts the current stream and drops any buffered audio.
func (sp *Speaker) Stop() {
	speaker.Clear()
	sp.playing.Store(false)
}

// IsPlaying reports whether the device is still producing audio.
func (sp *Speaker) IsPlaying() bool {
	return sp.playing.Load()
}
