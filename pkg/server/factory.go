package server

import (
	"errors"
	"fmt"

	"github.com/haivivi/vosk/pkg/transcribe"
	"github.com/haivivi/vosk/pkg/vosk"
)

// SessionConfig holds the recognizer settings of one connection.
type SessionConfig struct {
	SampleRate      float64  `json:"sample_rate"`
	Words           bool     `json:"words,omitempty"`
	PartialWords    bool     `json:"partial_words,omitempty"`
	MaxAlternatives int      `json:"max_alternatives,omitempty"`
	Grammar         []string `json:"grammar,omitempty"`
	Speaker         bool     `json:"speaker,omitempty"`
}

// Recognizer is a per-connection recognizer.
type Recognizer interface {
	transcribe.Recognizer
	Free()
}

var _ Recognizer = (*vosk.Recognizer)(nil)

// Factory creates recognizers for new sessions. It is called from many
// connection goroutines at once.
type Factory interface {
	NewRecognizer(cfg SessionConfig) (Recognizer, error)
}

// ErrNoSpeakerModel is returned when a session asks for speaker
// identification but the server has no speaker model.
var ErrNoSpeakerModel = errors.New("server: speaker model not loaded")

// VoskFactory creates native recognizers over shared models.
type VoskFactory struct {
	model *vosk.Model
	spk   *vosk.SpeakerModel
}

// NewVoskFactory returns a Factory over model and, optionally, spk. The
// models are borrowed and must outlive the factory's recognizers.
func NewVoskFactory(model *vosk.Model, spk *vosk.SpeakerModel) *VoskFactory {
	return &VoskFactory{model: model, spk: spk}
}

// NewRecognizer builds and configures a recognizer for cfg.
func (f *VoskFactory) NewRecognizer(cfg SessionConfig) (Recognizer, error) {
	rc := vosk.RecognizerConfig{
		Model:      f.model,
		SampleRate: cfg.SampleRate,
		Grammar:    cfg.Grammar,
	}
	if cfg.Speaker {
		if f.spk == nil {
			return nil, ErrNoSpeakerModel
		}
		rc.SpeakerModel = f.spk
	}

	rec, err := vosk.NewRecognizer(rc)
	if err != nil {
		return nil, err
	}
	if err := configure(rec, cfg); err != nil {
		rec.Free()
		return nil, err
	}
	return rec, nil
}

func configure(rec *vosk.Recognizer, cfg SessionConfig) error {
	if err := rec.SetWords(cfg.Words); err != nil {
		return fmt.Errorf("set words: %w", err)
	}
	if err := rec.SetPartialWords(cfg.PartialWords); err != nil {
		return fmt.Errorf("set partial words: %w", err)
	}
	if cfg.MaxAlternatives > 0 {
		if err := rec.SetMaxAlternatives(cfg.MaxAlternatives); err != nil {
			return fmt.Errorf("set max alternatives: %w", err)
		}
	}
	return nil
}
