package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/vosk/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

A context names the acoustic model and, optionally, a speaker model,
the libvosk path and recognizer defaults, similar to kubectl's context
management.

Configuration is stored in ~/.vosk/vosk/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name. Adding a context with an
existing name replaces it. The first context added becomes current.

Model names that are not paths are looked up in ~/.vosk/models.

Example:
  vosk config add-context en --model vosk-model-small-en-us-0.15
  vosk config add-context spk --model /opt/models/en --speaker-model /opt/models/spk --words
  vosk config add-context yesno --model en --grammar yes --grammar no --grammar "[unk]"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := contextFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := getConfig().AddContext(args[0], ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q added successfully", args[0])
		return nil
	},
}

// contextFromFlags builds a context from the add-context flags.
func contextFromFlags(cmd *cobra.Command) (*cli.Context, error) {
	flags := cmd.Flags()
	ctx := &cli.Context{}
	var err error

	if ctx.Model, err = flags.GetString("model"); err != nil {
		return nil, fmt.Errorf("failed to read 'model' flag: %w", err)
	}
	if ctx.Model == "" {
		return nil, fmt.Errorf("--model is required")
	}
	if ctx.SpeakerModel, err = flags.GetString("speaker-model"); err != nil {
		return nil, fmt.Errorf("failed to read 'speaker-model' flag: %w", err)
	}
	if ctx.Library, err = flags.GetString("library-path"); err != nil {
		return nil, fmt.Errorf("failed to read 'library-path' flag: %w", err)
	}
	if ctx.SampleRate, err = flags.GetInt("sample-rate"); err != nil {
		return nil, fmt.Errorf("failed to read 'sample-rate' flag: %w", err)
	}
	if flags.Changed("log-level") {
		level, err := flags.GetInt("log-level")
		if err != nil {
			return nil, fmt.Errorf("failed to read 'log-level' flag: %w", err)
		}
		ctx.LogLevel = &level
	}
	if ctx.Words, err = flags.GetBool("words"); err != nil {
		return nil, fmt.Errorf("failed to read 'words' flag: %w", err)
	}
	if ctx.PartialWords, err = flags.GetBool("partial-words"); err != nil {
		return nil, fmt.Errorf("failed to read 'partial-words' flag: %w", err)
	}
	if ctx.MaxAlternatives, err = flags.GetInt("max-alternatives"); err != nil {
		return nil, fmt.Errorf("failed to read 'max-alternatives' flag: %w", err)
	}
	if ctx.Grammar, err = grammarFromFlags(cmd); err != nil {
		return nil, err
	}
	if ctx.Listen, err = flags.GetString("listen"); err != nil {
		return nil, fmt.Errorf("failed to read 'listen' flag: %w", err)
	}
	if ctx.StoreDir, err = flags.GetString("store-dir"); err != nil {
		return nil, fmt.Errorf("failed to read 'store-dir' flag: %w", err)
	}
	return ctx, nil
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context [name]",
	Short: "Display a context (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := contextName
		if len(args) == 1 {
			name = args[0]
		}
		ctx, err := getConfig().ResolveContext(name)
		if err != nil {
			return err
		}
		return outputResult(cmd, ctx)
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		out := cmd.OutOrStdout()

		if len(cfg.Contexts) == 0 {
			fmt.Fprintln(out, "No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tMODEL\tSPEAKER_MODEL\tSAMPLE_RATE")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			spk := ctx.SpeakerModel
			if spk == "" {
				spk = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", current, name, ctx.Model, spk, ctx.Rate())
		}
		return w.Flush()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Config file: %s\n", cfg.Path())
		fmt.Fprintf(out, "Current context: %s\n", cfg.CurrentContext)
		fmt.Fprintf(out, "Contexts: %d\n", len(cfg.Contexts))

		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			fmt.Fprintf(out, "\n  %s:\n", name)
			fmt.Fprintf(out, "    Model: %s\n", ctx.Model)
			if ctx.SpeakerModel != "" {
				fmt.Fprintf(out, "    Speaker Model: %s\n", ctx.SpeakerModel)
			}
			if ctx.Library != "" {
				fmt.Fprintf(out, "    Library: %s\n", ctx.Library)
			}
			fmt.Fprintf(out, "    Sample Rate: %d\n", ctx.Rate())
			if len(ctx.Grammar) > 0 {
				fmt.Fprintf(out, "    Grammar: %d phrases\n", len(ctx.Grammar))
			}
			if ctx.MaxAlternatives > 0 {
				fmt.Fprintf(out, "    Max Alternatives: %d\n", ctx.MaxAlternatives)
			}
		}
		return nil
	},
}

// addContextFlags registers the add-context flags on cmd.
func addContextFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("model", "", "acoustic model directory or name (required)")
	f.String("speaker-model", "", "speaker model directory or name")
	f.String("library-path", "", "libvosk path")
	f.Int("sample-rate", 0, "input sample rate in Hz (default 16000)")
	f.Int("log-level", 0, "native log level (-1 silent, 0 default, 1 verbose)")
	f.Bool("words", false, "include word timings in results")
	f.Bool("partial-words", false, "include word timings in partial results")
	f.Int("max-alternatives", 0, "number of n-best alternatives")
	addGrammarFlags(cmd)
	f.String("listen", "", "server listen address (default "+cli.DefaultListen+")")
	f.String("store-dir", "", "transcript database directory")
}

func init() {
	addContextFlags(configAddContextCmd)

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
