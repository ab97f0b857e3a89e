package pcm

import (
	"errors"
	"io"
	"iter"
	"time"
)

// ReadChunks reads r in chunks holding d of audio. Every chunk except the
// last is exactly BytesInDuration(d) long; the last may be shorter but is
// always a whole number of frames, any trailing partial frame is dropped.
// A read error other than EOF is yielded once and ends the sequence.
//
// The yielded slice is reused between iterations.
func ReadChunks(r io.Reader, f Format, d time.Duration) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		size := int(f.BytesInDuration(d))
		if size < f.FrameSize() {
			size = f.FrameSize()
		}
		buf := make([]byte, size)
		for {
			n, err := io.ReadFull(r, buf)
			n -= n % f.FrameSize()
			if n > 0 {
				if !yield(buf[:n], nil) {
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return
				}
				yield(nil, err)
				return
			}
		}
	}
}

// FromFloat32 converts normalized samples in [-1, 1] to s16le bytes. Values
// outside the range are clamped.
func FromFloat32(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		v := int16(s * 32767)
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}
