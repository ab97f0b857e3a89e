package vosk

import (
	"fmt"
	"unsafe"
)

// Recognizer is a streaming recognition session. Create with [NewRecognizer].
// A Recognizer must be used from a single goroutine at a time and be released
// with Free.
type Recognizer struct {
	lib        library
	handle     unsafe.Pointer
	kind       RecognizerKind
	sampleRate float64

	// Back-references only; never freed by the Recognizer.
	model *Model
	spk   *SpeakerModel
}

// NewRecognizer creates a recognizer for cfg. The configuration is validated
// before the native layer is touched; see [RecognizerConfig.Kind].
func NewRecognizer(cfg RecognizerConfig) (*Recognizer, error) {
	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}
	if cfg.Model.handle == nil {
		return nil, fmt.Errorf("%w: model %s", ErrFreed, cfg.Model.path)
	}

	lib := cfg.Model.lib
	rate := float32(cfg.SampleRate)
	var h unsafe.Pointer
	switch kind {
	case KindGrammar:
		grammar, err := grammarJSON(cfg.Grammar)
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("encode grammar: %v", err)}
		}
		h = lib.recognizerNewGrm(cfg.Model.handle, rate, NullTerminated(string(grammar)))
	case KindSpeaker:
		if cfg.SpeakerModel.handle == nil {
			return nil, fmt.Errorf("%w: speaker model %s", ErrFreed, cfg.SpeakerModel.path)
		}
		h = lib.recognizerNewSpk(cfg.Model.handle, rate, cfg.SpeakerModel.handle)
	default:
		h = lib.recognizerNew(cfg.Model.handle, rate)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: %s recognizer at %v Hz", ErrRecognizerCreate, kind, cfg.SampleRate)
	}

	return &Recognizer{
		lib:        lib,
		handle:     h,
		kind:       kind,
		sampleRate: cfg.SampleRate,
		model:      cfg.Model,
		spk:        cfg.SpeakerModel,
	}, nil
}

// Kind returns the variant the recognizer was constructed as.
func (r *Recognizer) Kind() RecognizerKind { return r.kind }

// SampleRate returns the configured sample rate in Hz.
func (r *Recognizer) SampleRate() float64 { return r.sampleRate }

// Model returns the model the recognizer was built from.
func (r *Recognizer) Model() *Model { return r.model }

// SpeakerModel returns the attached speaker model, or nil.
func (r *Recognizer) SpeakerModel() *SpeakerModel { return r.spk }

func (r *Recognizer) live() error {
	if r.handle == nil {
		return ErrFreed
	}
	return nil
}

// SetWords enables word-level timing and confidence ("result") in Result
// and FinalResult.
func (r *Recognizer) SetWords(words bool) error {
	if err := r.live(); err != nil {
		return err
	}
	r.lib.recognizerSetWords(r.handle, words)
	return nil
}

// SetPartialWords enables word-level details ("partial_result") in
// PartialResult.
func (r *Recognizer) SetPartialWords(partialWords bool) error {
	if err := r.live(); err != nil {
		return err
	}
	r.lib.recognizerSetPartialWords(r.handle, partialWords)
	return nil
}

// SetMaxAlternatives bounds the number of alternative transcriptions. Zero
// returns the single best result; n > 0 switches results to the
// "alternatives" shape.
func (r *Recognizer) SetMaxAlternatives(n int) error {
	if n < 0 {
		return &ConfigError{Reason: fmt.Sprintf("max alternatives must not be negative, got %d", n)}
	}
	if err := r.live(); err != nil {
		return err
	}
	r.lib.recognizerSetMaxAlternatives(r.handle, n)
	return nil
}

// SetSpkModel attaches or replaces the speaker model used for embeddings.
func (r *Recognizer) SetSpkModel(spk *SpeakerModel) error {
	if spk == nil {
		return &ConfigError{Reason: "speaker model is nil"}
	}
	if err := r.live(); err != nil {
		return err
	}
	if spk.handle == nil {
		return fmt.Errorf("%w: speaker model %s", ErrFreed, spk.path)
	}
	r.lib.recognizerSetSpkModel(r.handle, spk.handle)
	r.spk = spk
	return nil
}

// AcceptWaveform feeds raw little-endian 16-bit mono PCM. It reports true when
// an utterance boundary was reached and Result holds the finalized utterance;
// false means only PartialResult is meaningful yet.
func (r *Recognizer) AcceptWaveform(data []byte) (endpoint bool, err error) {
	if err := r.live(); err != nil {
		return false, err
	}
	status := r.lib.recognizerAcceptWaveform(r.handle, data)
	if status < 0 {
		return false, fmt.Errorf("%w: status %d", ErrWaveform, status)
	}
	return status != 0, nil
}

// Result returns the utterance finalized by the last endpoint.
func (r *Recognizer) Result() (*Result, error) {
	if err := r.live(); err != nil {
		return nil, err
	}
	return parseResult("result", r.lib.recognizerResult(r.handle))
}

// PartialResult returns the transcript of the utterance in progress.
func (r *Recognizer) PartialResult() (*PartialResult, error) {
	if err := r.live(); err != nil {
		return nil, err
	}
	return parsePartialResult("partial_result", r.lib.recognizerPartialResult(r.handle))
}

// FinalResult flushes any buffered audio and returns its result regardless of
// endpoint detection. Use it at end of stream.
func (r *Recognizer) FinalResult() (*Result, error) {
	if err := r.live(); err != nil {
		return nil, err
	}
	return parseResult("final_result", r.lib.recognizerFinalResult(r.handle))
}

// Reset discards decoding state so the next audio starts a fresh stream. The
// native handle is kept.
func (r *Recognizer) Reset() error {
	if err := r.live(); err != nil {
		return err
	}
	r.lib.recognizerReset(r.handle)
	return nil
}

// Free releases the native recognizer. The models it was built from are not
// freed. Calling Free again is a no-op.
func (r *Recognizer) Free() {
	if r.handle != nil {
		r.lib.recognizerFree(r.handle)
		r.handle = nil
	}
}
