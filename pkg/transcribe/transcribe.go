// Package transcribe drives a recognizer over a PCM stream and turns its
// endpoint signals into a sequence of partial and final events.
package transcribe

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/haivivi/vosk/pkg/audio/pcm"
	"github.com/haivivi/vosk/pkg/vosk"
)

// DefaultChunk is the amount of audio fed per AcceptWaveform call when
// Options.Chunk is zero.
const DefaultChunk = 100 * time.Millisecond

// Recognizer is the subset of *vosk.Recognizer used by Stream.
type Recognizer interface {
	AcceptWaveform(data []byte) (bool, error)
	Result() (*vosk.Result, error)
	PartialResult() (*vosk.PartialResult, error)
	FinalResult() (*vosk.Result, error)
}

var _ Recognizer = (*vosk.Recognizer)(nil)

// EventKind distinguishes partial from final events.
type EventKind int

const (
	// EventPartial carries the hypothesis of the utterance in progress.
	EventPartial EventKind = iota + 1
	// EventFinal carries a finalized utterance.
	EventFinal
)

func (k EventKind) String() string {
	switch k {
	case EventPartial:
		return "partial"
	case EventFinal:
		return "final"
	}
	return "unknown"
}

// Event is one recognition event.
type Event struct {
	Kind EventKind

	// Seq numbers final events from zero.
	Seq int

	// Offset is the amount of audio consumed when the event was produced.
	Offset time.Duration

	// Partial is set for EventPartial.
	Partial *vosk.PartialResult

	// Result is set for EventFinal.
	Result *vosk.Result

	// Last marks the final event produced by FinalResult at end of stream.
	Last bool
}

// Text returns the transcript carried by the event.
func (e Event) Text() string {
	if e.Kind == EventPartial {
		return e.Partial.Partial
	}
	return e.Result.Best()
}

// Options configures Stream.
type Options struct {
	// Format of the input. Defaults to pcm.L16Mono16K.
	Format pcm.Format

	// Chunk is the audio duration per AcceptWaveform call. Defaults to
	// DefaultChunk.
	Chunk time.Duration

	// Partials enables EventPartial. Consecutive identical partials are
	// reported once.
	Partials bool

	// Logger for debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.Format.SampleRate == 0 {
		out.Format = pcm.L16Mono16K
	}
	if out.Chunk <= 0 {
		out.Chunk = DefaultChunk
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return out
}

// Stream feeds r to rec chunk by chunk and yields an event for every
// endpoint, and for partial hypotheses when enabled. At end of input it
// yields the FinalResult with Last set. Iteration stops at the first error;
// a cancelled ctx yields ctx.Err().
func Stream(ctx context.Context, rec Recognizer, r io.Reader, opts *Options) iter.Seq2[Event, error] {
	o := opts.withDefaults()
	return func(yield func(Event, error) bool) {
		if err := o.Format.Validate(); err != nil {
			yield(Event{}, err)
			return
		}

		var (
			consumed    int64
			seq         int
			lastPartial string
		)
		for chunk, err := range pcm.ReadChunks(r, o.Format, o.Chunk) {
			if err != nil {
				yield(Event{}, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(Event{}, err)
				return
			}

			consumed += int64(len(chunk))
			endpoint, err := rec.AcceptWaveform(chunk)
			if err != nil {
				yield(Event{}, err)
				return
			}
			offset := o.Format.Duration(consumed)

			if endpoint {
				res, err := rec.Result()
				if err != nil {
					yield(Event{}, err)
					return
				}
				o.Logger.Debug("transcribe: endpoint", "seq", seq, "offset", offset, "text", res.Best())
				lastPartial = ""
				if !yield(Event{Kind: EventFinal, Seq: seq, Offset: offset, Result: res}, nil) {
					return
				}
				seq++
				continue
			}

			if !o.Partials {
				continue
			}
			p, err := rec.PartialResult()
			if err != nil {
				yield(Event{}, err)
				return
			}
			if p.Partial == lastPartial {
				continue
			}
			lastPartial = p.Partial
			if !yield(Event{Kind: EventPartial, Seq: seq, Offset: offset, Partial: p}, nil) {
				return
			}
		}

		res, err := rec.FinalResult()
		if err != nil {
			yield(Event{}, err)
			return
		}
		offset := o.Format.Duration(consumed)
		o.Logger.Debug("transcribe: end of stream", "seq", seq, "offset", offset, "text", res.Best())
		yield(Event{Kind: EventFinal, Seq: seq, Offset: offset, Result: res, Last: true}, nil)
	}
}

// Collect runs Stream without partials and returns every final result with
// a non-empty transcript.
func Collect(ctx context.Context, rec Recognizer, r io.Reader, opts *Options) ([]*vosk.Result, error) {
	o := opts.withDefaults()
	o.Partials = false

	var results []*vosk.Result
	for ev, err := range Stream(ctx, rec, r, &o) {
		if err != nil {
			return results, err
		}
		if ev.Result.Best() != "" {
			results = append(results, ev.Result)
		}
	}
	return results, nil
}
