package audio

import (
	"fmt"
	"io"

	"music-player/internal/library"

	"github.com/gopxl/beep/v2"
)

// StreamInfo describes a decoded stream. The player consumes it read-only
// for logging; it never drives control decisions.
type StreamInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int // 0 when the codec does not expose it (MP3)
}

// String formats the stream info the way it is printed next to the track.
func (i StreamInfo) String() string {
	if i.BitDepth > 0 {
		return fmt.Sprintf("%dHz, %dch, %dbit", i.SampleRate, i.Channels, i.BitDepth)
	}
	return fmt.Sprintf("%dHz, %dch", i.SampleRate, i.Channels)
}

// Stream is a decoded audio stream ready for submission to an Output.
// Close releases the decoder context and must be called on every path.
type Stream struct {
	Streamer beep.StreamSeekCloser
	Format   beep.Format
	Info     StreamInfo
}

// Close releases the underlying decoder.
func (s *Stream) Close() error {
	if s.Streamer != nil {
		return s.Streamer.Close()
	}
	return nil
}

// Decoder turns a raw file stream into a decoded audio stream.
type Decoder interface {
	Decode(format library.Format, r io.ReadCloser) (*Stream, error)
}

// Output is the audio output peripheral. The player treats it as
// exclusively owned for the duration of one track: no concurrent
// submissions.
type Output interface {
	// Play submits a decoded stream and returns immediately.
	Play(s *Stream) error
	// Stop halts the current stream.
	Stop()
	// IsPlaying reports whether the device is still producing audio.
	IsPlaying() bool
}
