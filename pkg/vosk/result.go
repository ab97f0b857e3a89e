package vosk

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// Word is one recognized word with its confidence and time span in seconds.
// Present when SetWords (or SetPartialWords for partials) is enabled.
type Word struct {
	Conf  float64 `json:"conf"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Alternative is one hypothesis when SetMaxAlternatives(n > 0) is in effect.
type Alternative struct {
	Confidence float64 `json:"confidence"`
	Text       string  `json:"text"`
	Words      []Word  `json:"result,omitempty"`
}

// Result is a finalized utterance as returned by Result and FinalResult.
//
// With SetMaxAlternatives(n > 0) the native layer reports Alternatives
// instead of Text and Words. Speaker recognizers add Spk and SpkFrames.
type Result struct {
	Text         string        `json:"text"`
	Words        []Word        `json:"result,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	Spk          []float64     `json:"spk,omitempty"`
	SpkFrames    int           `json:"spk_frames,omitempty"`
}

// SpeakerResult is the speaker embedding attached to a Result.
type SpeakerResult struct {
	// Vector is the x-vector embedding; its length is fixed by the speaker
	// model.
	Vector []float64
	// Frames is the number of frames the embedding was computed over.
	Frames int
}

// Speaker returns the speaker embedding when the result carries one.
func (r *Result) Speaker() (SpeakerResult, bool) {
	if len(r.Spk) == 0 {
		return SpeakerResult{}, false
	}
	return SpeakerResult{Vector: r.Spk, Frames: r.SpkFrames}, true
}

// Best returns the top transcript, taking the first alternative when the
// result is in alternatives form.
func (r *Result) Best() string {
	if r.Text == "" && len(r.Alternatives) > 0 {
		return r.Alternatives[0].Text
	}
	return r.Text
}

// PartialResult is the transcript of an utterance still in progress.
type PartialResult struct {
	Partial string `json:"partial"`
	Words   []Word `json:"partial_result,omitempty"`
}

// ParseResult decodes and validates Vosk result JSON.
func ParseResult(data []byte) (*Result, error) {
	return parseResult("result", string(data))
}

// ParsePartialResult decodes and validates Vosk partial result JSON.
func ParsePartialResult(data []byte) (*PartialResult, error) {
	return parsePartialResult("partial_result", string(data))
}

var (
	resultSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		s, err := jsonschema.For[Result](nil)
		if err != nil {
			return nil, err
		}
		relaxSchema(s)
		// Either the single-best form or the alternatives form.
		s.Required = nil
		s.AnyOf = []*jsonschema.Schema{
			{Required: []string{"text"}},
			{Required: []string{"alternatives"}},
		}
		return s.Resolve(nil)
	})

	partialSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		s, err := jsonschema.For[PartialResult](nil)
		if err != nil {
			return nil, err
		}
		relaxSchema(s)
		return s.Resolve(nil)
	})
)

// relaxSchema admits properties the Go types do not model, so newer native
// versions that add fields still validate.
func relaxSchema(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	s.AdditionalProperties = nil
	for _, p := range s.Properties {
		relaxSchema(p)
	}
	relaxSchema(s.Items)
}

func parseResult(call, text string) (*Result, error) {
	var r Result
	if err := decodeValidated(call, text, resultSchema, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func parsePartialResult(call, text string) (*PartialResult, error) {
	var r PartialResult
	if err := decodeValidated(call, text, partialSchema, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func decodeValidated(call, text string, schema func() (*jsonschema.Resolved, error), v any) error {
	resolved, err := schema()
	if err != nil {
		return fmt.Errorf("vosk: %s schema: %w", call, err)
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return &ParseError{Call: call, JSON: text, Err: err}
	}
	if err := resolved.Validate(doc); err != nil {
		return &ParseError{Call: call, JSON: text, Err: err}
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &ParseError{Call: call, JSON: text, Err: err}
	}
	return nil
}
