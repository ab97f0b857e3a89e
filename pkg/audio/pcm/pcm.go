package pcm

import (
	"fmt"
	"time"
)

// Depth is the bit depth of every format in this package.
const Depth = 16

// Format describes little-endian signed 16-bit PCM audio.
type Format struct {
	SampleRate int
	Channels   int
}

// Common formats.
var (
	L16Mono8K  = L16Mono(8000)
	L16Mono16K = L16Mono(16000)
	L16Mono48K = L16Mono(48000)
)

// L16Mono returns the mono format at the given sample rate.
func L16Mono(sampleRate int) Format {
	return Format{SampleRate: sampleRate, Channels: 1}
}

// Validate reports whether f can describe audio.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("pcm: invalid sample rate %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("pcm: invalid channel count %d", f.Channels)
	}
	return nil
}

// FrameSize returns the number of bytes in one sample across all channels.
func (f Format) FrameSize() int {
	return f.Channels * Depth / 8
}

// Samples returns the number of samples in the given number of bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes / int64(f.FrameSize())
}

// SamplesInDuration returns the number of samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * int64(f.FrameSize())
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.SampleRate)
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate * f.FrameSize()
}

// Silence returns zeroed audio of the given duration.
func (f Format) Silence(d time.Duration) []byte {
	return make([]byte, f.BytesInDuration(d))
}

// String returns the media type of the format.
func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate, f.Channels)
}
