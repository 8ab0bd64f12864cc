// Package audio abstracts the audio output peripheral and the format
// decoders behind small interfaces the player polls cooperatively.
//
// The production implementations are built on the beep audio library:
// BeepDecoder wraps the wav and mp3 codecs, and Speaker wraps the beep
// speaker (one output device per process, fixed device sample rate with
// on-the-fly resampling).
package audio
