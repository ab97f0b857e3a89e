// Package audio groups audio format helpers.
//
// Sub-packages:
//
//   - pcm: 16-bit PCM formats, duration arithmetic and chunked reading
//
// Example usage:
//
//	import "github.com/haivivi/vosk/pkg/audio/pcm"
//
//	format := pcm.L16Mono16K
//	for chunk, err := range pcm.ReadChunks(r, format, 100*time.Millisecond) {
//	    ...
//	}
package audio
