package vosk

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrLibrary is wrapped by every error caused by loading libvosk.
	ErrLibrary = errors.New("vosk: library unavailable")

	// ErrModelLoad is returned when the native layer fails to load a model.
	ErrModelLoad = errors.New("vosk: model load failed")

	// ErrRecognizerCreate is returned when the native layer returns no recognizer.
	ErrRecognizerCreate = errors.New("vosk: recognizer create failed")

	// ErrFreed is returned by operations on an object after its Free.
	ErrFreed = errors.New("vosk: use after free")

	// ErrWaveform is returned when the native layer rejects audio data.
	ErrWaveform = errors.New("vosk: accept waveform failed")

	// ErrGrammarWithSpeaker is returned when a RecognizerConfig carries both a
	// grammar and a speaker model.
	ErrGrammarWithSpeaker = &ConfigError{Reason: "grammar and speaker model cannot be used together"}
)

// ConfigError reports an invalid recognizer configuration. It is always
// returned before any native call is made.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "vosk: invalid recognizer config: " + e.Reason
}

// ParseError reports result JSON from the native layer that is not valid JSON
// or does not match the expected result shape.
type ParseError struct {
	// Call is the native call that produced the text, e.g. "result".
	Call string

	// JSON is the offending text.
	JSON string

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vosk: malformed %s JSON: %v", e.Call, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
