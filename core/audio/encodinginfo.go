// Package audio describes the PCM encodings shared between capture,
// playback, and transcription.
package audio

const (
	DefaultSampleRate = 16000
	DefaultFormat     = EncodingLinear16
)

const (
	EncodingLinear16 Format = "linear16"
	EncodingMulaw    Format = "mulaw"
	EncodingALaw     Format = "alaw"
)

// EncodingInfo describes a raw audio stream well enough to feed it to a
// transcription endpoint or a playback device.
type EncodingInfo struct {
	SampleRate int
	Format     Format
}

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: DefaultFormat}
}

// SilenceValue is the sample byte that represents silence in the stream's
// format. Companded formats do not use zero for silence.
func (e EncodingInfo) SilenceValue() byte {
	return formatTraits[e.Format].silence
}

type Format string

func (f Format) Name() string { return string(f) }

// ByteSize returns the width of a single sample in bytes, or -1 for an
// unknown format.
func (f Format) ByteSize() int {
	if traits, ok := formatTraits[f]; ok {
		return traits.byteSize
	}
	return -1
}

var formatTraits = map[Format]struct {
	byteSize int
	silence  byte
}{
	EncodingLinear16: {byteSize: 2, silence: 0x00},
	EncodingMulaw:    {byteSize: 1, silence: 0xFF},
	EncodingALaw:     {byteSize: 1, silence: 0x55},
}
