// Package pcm provides helpers for raw little-endian 16-bit PCM audio, the
// only input format the recognizer accepts.
//
// Key types and functions:
//   - Format: sample rate and channel count, with byte/duration arithmetic
//   - ReadChunks: iterate a reader in fixed-duration, frame-aligned chunks
//   - FromFloat32: convert normalized float samples to s16le
//
// Example usage:
//
//	format := pcm.L16Mono16K
//
//	// Bytes in 100ms of audio
//	n := format.BytesInDuration(100 * time.Millisecond)
//
//	for chunk, err := range pcm.ReadChunks(r, format, 100*time.Millisecond) {
//		if err != nil {
//			return err
//		}
//		rec.AcceptWaveform(chunk)
//	}
package pcm
