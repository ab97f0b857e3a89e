// Package main provides the vosk CLI tool.
//
// Usage:
//
//	vosk [flags] <command> [args]
//
// Commands:
//
//	transcribe   - Transcribe raw PCM audio from a file or stdin
//	serve        - Run the WebSocket recognition server
//	transcripts  - Browse and delete stored transcripts
//	symbols      - Show the native library location and entry points
//	config       - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.vosk/vosk/
//	Use 'vosk config' commands to manage contexts.
package main

import (
	"os"

	"github.com/haivivi/vosk/cmd/vosk/commands"
	"github.com/haivivi/vosk/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
