package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Text  string `json:"text" yaml:"text"`
	Count int    `json:"count" yaml:"count"`
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer

	err := Output(sample{Text: "<unk> & co", Count: 3}, OutputOptions{
		Format: FormatJSON,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if result["text"] != "<unk> & co" {
		t.Errorf("text = %v", result["text"])
	}
	if !strings.Contains(buf.String(), "<unk> & co") {
		t.Errorf("HTML escaped output: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Errorf("expected indented output: %s", buf.String())
	}
}

func TestOutput_JSONCompact(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sample{Text: "a"}, OutputOptions{Format: FormatJSON, Indent: "-", Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"text\":\"a\",\"count\":0}\n" {
		t.Errorf("compact output = %q", got)
	}
}

func TestOutput_YAML(t *testing.T) {
	var buf bytes.Buffer

	err := Output(map[string]any{"name": "test", "value": 123}, OutputOptions{
		Format: FormatYAML,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "name: test") {
		t.Errorf("Output should contain 'name: test', got: %s", buf.String())
	}
}

func TestOutput_DefaultFormat(t *testing.T) {
	var buf bytes.Buffer

	if err := Output(map[string]string{"key": "value"}, OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "key: value") {
		t.Errorf("Default format should be YAML, got: %s", buf.String())
	}
}

func TestOutput_Raw(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "hello world", "hello world"},
		{"bytes", []byte{'o', 'k'}, "ok"},
		{"struct", map[string]int{"n": 1}, "n: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(tt.input, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("raw = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutput_Msgpack(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sample{Text: "hi", Count: 2}, OutputOptions{Format: FormatMsgpack, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var got map[string]any
	if err := msgpack.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid msgpack: %v", err)
	}
	if got["text"] != "hi" {
		t.Errorf("decoded = %v, want json field names", got)
	}
}

func TestOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Output(sample{Text: "file"}, OutputOptions{Format: FormatJSON, File: path}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"file"`) {
		t.Errorf("file content = %s", data)
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	if err := Output("x", OutputOptions{Format: "table", Writer: &bytes.Buffer{}}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"raw", FormatRaw, false},
		{"msgpack", FormatMsgpack, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

// capture redirects os.Stdout and os.Stderr while fn runs.
func capture(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	oldOut, oldErr := os.Stdout, os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout, os.Stderr = wOut, wErr

	fn()

	wOut.Close()
	wErr.Close()
	os.Stdout, os.Stderr = oldOut, oldErr

	var outBuf, errBuf bytes.Buffer
	outBuf.ReadFrom(rOut)
	errBuf.ReadFrom(rErr)
	return outBuf.String(), errBuf.String()
}

func TestPrintHelpers(t *testing.T) {
	stdout, stderr := capture(t, func() {
		PrintSuccess("added %q", "en")
		PrintInfo("stored as %s", "s1")
		PrintWarning("ignored %s", "--partials")
		PrintError("failed: %d", 3)
	})
	if stdout != "✓ added \"en\"\n" {
		t.Errorf("stdout = %q", stdout)
	}
	for _, want := range []string{"ℹ stored as s1\n", "⚠ ignored --partials\n", "Error: failed: 3\n"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr = %q, missing %q", stderr, want)
		}
	}
}
