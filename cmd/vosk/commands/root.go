package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/vosk/pkg/cli"
	"github.com/haivivi/vosk/pkg/vosk"
)

const appName = "vosk"

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	outputJSON  bool
	formatName  string
	verbose     bool
	libraryPath string

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vosk",
	Short: "Offline speech recognition with Vosk",
	Long: `vosk - A command line interface for the Vosk speech recognition library.

This tool loads libvosk at runtime and lets you:
  - Transcribe raw 16-bit PCM audio from files or stdin
  - Serve recognition sessions over WebSocket
  - Keep transcripts in a local database and browse them

Configuration is stored in ~/.vosk/vosk/ and supports multiple contexts,
similar to kubectl's context management. A context names the model, the
optional speaker model and library, and recognizer defaults.

Examples:
  # Set up a new context
  vosk config add-context en --model vosk-model-small-en-us-0.15

  # Transcribe a recording
  vosk transcribe speech.pcm

  # Stream from a microphone
  arecord -f S16_LE -r 16000 -c 1 -t raw | vosk transcribe -

  # Pipe results to another command
  vosk transcribe speech.pcm --json | jq '.[].text'
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := outputFormat()
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.vosk/vosk/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().StringVar(&formatName, "format", "", "structured output format: yaml, json, raw or msgpack")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&libraryPath, "library", "", "libvosk path (default is $"+vosk.LibraryPathEnv+" or lib/ next to the executable)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(transcriptsCmd)
	rootCmd.AddCommand(symbolsCmd)
}

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'vosk config use-context'")
		}
		return nil, err
	}
	return ctx, nil
}

// getOutputFile returns the output file path
func getOutputFile() string {
	return outputFile
}

// isJSONOutput returns whether output should be JSON
func isJSONOutput() bool {
	return outputJSON
}

// outputFormat returns the structured output format: JSON with --json,
// otherwise --format, YAML by default.
func outputFormat() (cli.OutputFormat, error) {
	if isJSONOutput() {
		return cli.FormatJSON, nil
	}
	return cli.ParseOutputFormat(formatName)
}

// isStructuredOutput reports whether results should be written as records
// rather than styled terminal lines.
func isStructuredOutput() bool {
	return isJSONOutput() || formatName != "" || getOutputFile() != ""
}

// outputResult writes result to -o, or to the command's output, in the
// selected output format.
func outputResult(cmd *cobra.Command, result any) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   getOutputFile(),
		Writer: writerUnlessFile(cmd.OutOrStdout()),
	})
}
