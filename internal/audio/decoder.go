package audio

import (
	"fmt"
	"io"

	"music-player/internal/library"

	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// BeepDecoder decodes WAV and MP3 files using the beep codecs.
type BeepDecoder struct{}

// Decode selects a codec by format tag and initializes it on the raw
// stream. There is no content sniffing: a file with the wrong extension
// fails here with a codec error.
func (BeepDecoder) Decode(format library.Format, r io.ReadCloser) (*Stream, error) {
	switch format {
	case library.FormatWAV:
		streamer, f, err := wav.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("wav decoder: %w", err)
		}
		return &Stream{
			Streamer: streamer,
			Format:   f,
			Info: StreamInfo{
				SampleRate: int(f.SampleRate),
				Channels:   f.NumChannels,
				BitDepth:   f.Precision * 8,
			},
		}, nil

	case library.FormatMP3:
		streamer, f, err := mp3.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("mp3 decoder: %w", err)
		}
		return &Stream{
			Streamer: streamer,
			Format:   f,
			Info: StreamInfo{
				SampleRate: int(f.SampleRate),
				Channels:   f.NumChannels,
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
