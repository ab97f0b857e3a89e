package vosk

import (
	"errors"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, r *Result)
	}{
		{
			name:  "empty text",
			input: `{"text": ""}`,
			check: func(t *testing.T, r *Result) {
				if r.Text != "" || r.Best() != "" {
					t.Errorf("text = %q", r.Text)
				}
				if _, ok := r.Speaker(); ok {
					t.Error("unexpected speaker data")
				}
			},
		},
		{
			name:  "words",
			input: `{"result":[{"conf":1.0,"end":0.81,"start":0.3,"word":"one"},{"conf":0.92,"end":1.2,"start":0.9,"word":"two"}],"text":"one two"}`,
			check: func(t *testing.T, r *Result) {
				if r.Text != "one two" {
					t.Errorf("text = %q", r.Text)
				}
				if len(r.Words) != 2 {
					t.Fatalf("len(Words) = %d, want 2", len(r.Words))
				}
				want := Word{Conf: 0.92, Start: 0.9, End: 1.2, Word: "two"}
				if r.Words[1] != want {
					t.Errorf("Words[1] = %+v, want %+v", r.Words[1], want)
				}
			},
		},
		{
			name:  "alternatives",
			input: `{"alternatives":[{"confidence":228.4,"text":"one two"},{"confidence":225.1,"text":"one too"}]}`,
			check: func(t *testing.T, r *Result) {
				if len(r.Alternatives) != 2 {
					t.Fatalf("len(Alternatives) = %d, want 2", len(r.Alternatives))
				}
				if r.Best() != "one two" {
					t.Errorf("Best() = %q", r.Best())
				}
			},
		},
		{
			name:  "speaker",
			input: `{"spk":[-0.5,0.25,1.0],"spk_frames":141,"text":"hello"}`,
			check: func(t *testing.T, r *Result) {
				spk, ok := r.Speaker()
				if !ok {
					t.Fatal("Speaker() not present")
				}
				if len(spk.Vector) != 3 || spk.Vector[0] != -0.5 {
					t.Errorf("Vector = %v", spk.Vector)
				}
				if spk.Frames != 141 {
					t.Errorf("Frames = %d, want 141", spk.Frames)
				}
			},
		},
		{
			name:  "unknown field",
			input: `{"text":"hi","lattice":"x"}`,
			check: func(t *testing.T, r *Result) {
				if r.Text != "hi" {
					t.Errorf("text = %q", r.Text)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseResult([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseResult: %v", err)
			}
			tt.check(t, r)
		})
	}
}

func TestParseResultInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", `{"text": "unterminated`},
		{"empty", ``},
		{"text not string", `{"text": 5}`},
		{"missing text", `{}`},
		{"array", `["text"]`},
		{"bad word", `{"text":"a","result":[{"word":7}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult([]byte(tt.input))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.JSON != tt.input {
				t.Errorf("JSON = %q, want %q", pe.JSON, tt.input)
			}
			if pe.Call != "result" {
				t.Errorf("Call = %q", pe.Call)
			}
		})
	}
}

func TestParsePartialResult(t *testing.T) {
	r, err := ParsePartialResult([]byte(`{"partial":"one tw","partial_result":[{"conf":1,"end":0.5,"start":0.1,"word":"one"}]}`))
	if err != nil {
		t.Fatalf("ParsePartialResult: %v", err)
	}
	if r.Partial != "one tw" {
		t.Errorf("Partial = %q", r.Partial)
	}
	if len(r.Words) != 1 || r.Words[0].Word != "one" {
		t.Errorf("Words = %+v", r.Words)
	}

	empty, err := ParsePartialResult([]byte(`{"partial" : ""}`))
	if err != nil {
		t.Fatalf("ParsePartialResult(empty): %v", err)
	}
	if empty.Partial != "" {
		t.Errorf("Partial = %q", empty.Partial)
	}
}

func TestParsePartialResultInvalid(t *testing.T) {
	for _, input := range []string{`{}`, `{"partial":null}`, `nope`, `{"text":"final"}`} {
		_, err := ParsePartialResult([]byte(input))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParsePartialResult(%q) err = %v, want *ParseError", input, err)
		}
	}
}
