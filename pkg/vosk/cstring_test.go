package vosk

import (
	"bytes"
	"testing"
)

func TestNullTerminated(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"ascii", "Hello, World!"},
		{"empty", ""},
		{"path", "/opt/models/vosk-model-small-en-us-0.15"},
		{"utf8", "héllo 世界"},
		{"json", `["yes","no","[unk]"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NullTerminated(tt.in)
			if len(got) != len(tt.in)+1 {
				t.Fatalf("len = %d, want %d", len(got), len(tt.in)+1)
			}
			if got[len(tt.in)] != 0 {
				t.Errorf("byte %d = %#x, want 0x00", len(tt.in), got[len(tt.in)])
			}
			if !bytes.Equal(got[:len(tt.in)], []byte(tt.in)) {
				t.Errorf("prefix = %q, want %q", got[:len(tt.in)], tt.in)
			}
		})
	}
}

func TestNullTerminatedMatchesLiteral(t *testing.T) {
	want := []byte("Hello, World!\x00")
	if got := NullTerminated("Hello, World!"); !bytes.Equal(got, want) {
		t.Errorf("NullTerminated = %q, want %q", got, want)
	}
}

func TestNullTerminatedFreshBuffer(t *testing.T) {
	s := "model"
	a := NullTerminated(s)
	b := NullTerminated(s)
	a[0] = 'X'
	if b[0] != 'm' {
		t.Error("buffers share storage")
	}
	if s != "model" {
		t.Errorf("input changed to %q", s)
	}
}
