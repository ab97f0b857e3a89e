package vosk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// RecognizerKind identifies which native constructor a RecognizerConfig
// selects.
type RecognizerKind int

const (
	// KindPlain recognizes the full model vocabulary.
	KindPlain RecognizerKind = iota
	// KindGrammar restricts recognition to a word/phrase list.
	KindGrammar
	// KindSpeaker adds speaker embeddings (spk, spk_frames) to results.
	KindSpeaker
)

func (k RecognizerKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindGrammar:
		return "grammar"
	case KindSpeaker:
		return "speaker"
	}
	return fmt.Sprintf("RecognizerKind(%d)", int(k))
}

// RecognizerConfig holds the construction parameters of a Recognizer.
// At most one of Grammar and SpeakerModel may be set.
type RecognizerConfig struct {
	// Model is required.
	Model *Model

	// SampleRate of the audio that will be fed, in Hz.
	SampleRate float64

	// Grammar restricts the vocabulary. A nil slice means no grammar; an
	// empty non-nil slice is passed through as "[]". Phrases may contain
	// several words; "[unk]" matches out-of-grammar speech.
	Grammar []string

	// SpeakerModel enables speaker embeddings in results.
	SpeakerModel *SpeakerModel
}

// Kind validates c and reports which recognizer variant it selects. Errors
// are *ConfigError values.
func (c RecognizerConfig) Kind() (RecognizerKind, error) {
	if c.Model == nil {
		return 0, &ConfigError{Reason: "model is required"}
	}
	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 1) {
		return 0, &ConfigError{Reason: fmt.Sprintf("sample rate must be positive and finite, got %v", c.SampleRate)}
	}
	switch {
	case c.Grammar != nil && c.SpeakerModel != nil:
		return 0, ErrGrammarWithSpeaker
	case c.Grammar != nil:
		return KindGrammar, nil
	case c.SpeakerModel != nil:
		return KindSpeaker, nil
	default:
		return KindPlain, nil
	}
}

// grammarJSON serializes a grammar as a JSON array of strings. HTML escaping
// is off so phrases reach the native layer byte for byte.
func grammarJSON(grammar []string) ([]byte, error) {
	if grammar == nil {
		grammar = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(grammar); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
