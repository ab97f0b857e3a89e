// Package cli provides common CLI utilities for the vosk command-line tools.
//
// This package includes:
//   - Configuration management (contexts naming models, library and recognizer defaults)
//   - Output formatting (YAML, JSON, raw, msgpack) and jq filtering
//   - Request and grammar file loading (YAML/JSON/text)
//   - Terminal styles for transcripts
//
// Configuration is stored in ~/.vosk/<app>/ directory, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	// Initialize config for your app
//	cfg, err := cli.LoadConfigWithPath("vosk", "")
//
//	// Get current context
//	ctx, err := cfg.GetCurrentContext()
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
