package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseRequest parses request data based on file extension or content
func ParseRequest(data []byte, filename string, v any) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, v); err != nil {
			if err2 := json.Unmarshal(data, v); err2 != nil {
				return fmt.Errorf("failed to parse file (tried YAML and JSON)")
			}
		}
	}

	return nil
}

// LoadRequestFromStdin loads a request from stdin
func LoadRequestFromStdin(v any) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	// Try JSON first for stdin, then YAML
	if err := json.Unmarshal(data, v); err != nil {
		if err2 := yaml.Unmarshal(data, v); err2 != nil {
			return fmt.Errorf("failed to parse input (tried JSON and YAML)")
		}
	}

	return nil
}

// GrammarFile is the structured form of a grammar file.
type GrammarFile struct {
	Grammar []string `yaml:"grammar" json:"grammar"`
}

// LoadGrammar reads a phrase list. A .txt file holds one phrase per line,
// blank lines and lines starting with '#' are skipped. YAML and JSON files
// hold either a list of phrases or a GrammarFile. The path "-" reads JSON or
// YAML from stdin.
func LoadGrammar(path string) ([]string, error) {
	if path == "-" {
		return loadGrammarFromStdin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}
	return ParseGrammar(data, path)
}

// ParseGrammar parses grammar data; see LoadGrammar.
func ParseGrammar(data []byte, filename string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".txt") {
		var phrases []string
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			phrases = append(phrases, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read grammar: %w", err)
		}
		if phrases == nil {
			phrases = []string{}
		}
		return phrases, nil
	}

	var list []string
	if err := ParseRequest(data, filename, &list); err == nil && list != nil {
		return list, nil
	}
	var gf GrammarFile
	if err := ParseRequest(data, filename, &gf); err != nil {
		return nil, err
	}
	if gf.Grammar == nil {
		return nil, fmt.Errorf("grammar file %s has no phrases", filename)
	}
	return gf.Grammar, nil
}

func loadGrammarFromStdin() ([]string, error) {
	var v any
	if err := LoadRequestFromStdin(&v); err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}
	return ParseGrammar(data, "stdin.json")
}
