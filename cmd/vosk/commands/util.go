package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/vosk/pkg/cli"
	"github.com/haivivi/vosk/pkg/transcript"
	"github.com/haivivi/vosk/pkg/vosk"
)

// addGrammarFlags registers --grammar and --grammar-file on cmd.
func addGrammarFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("grammar", nil, "restrict recognition to this phrase (repeatable)")
	cmd.Flags().String("grammar-file", "", "read grammar phrases from a .txt, YAML or JSON file (\"-\" for stdin)")
}

// grammarFromFlags returns the grammar given on the command line, or nil if
// neither grammar flag was used.
func grammarFromFlags(cmd *cobra.Command) ([]string, error) {
	phrases, err := cmd.Flags().GetStringArray("grammar")
	if err != nil {
		return nil, fmt.Errorf("failed to read 'grammar' flag: %w", err)
	}
	file, err := cmd.Flags().GetString("grammar-file")
	if err != nil {
		return nil, fmt.Errorf("failed to read 'grammar-file' flag: %w", err)
	}
	switch {
	case len(phrases) > 0 && file != "":
		return nil, errors.New("--grammar and --grammar-file are mutually exclusive")
	case file != "":
		return cli.LoadGrammar(file)
	case len(phrases) > 0:
		return phrases, nil
	}
	return nil, nil
}

// resolveLibrary returns the libvosk path from --library, then the context,
// then the default search location.
func resolveLibrary(ctx *cli.Context) string {
	if libraryPath != "" {
		return libraryPath
	}
	if ctx != nil && ctx.Library != "" {
		return ctx.Library
	}
	return vosk.DefaultLibraryPath()
}

// loadLibrary binds libvosk and applies the native log level. A load failure
// is final for the process.
func loadLibrary(ctx *cli.Context) error {
	path := resolveLibrary(ctx)
	slog.Debug("loading libvosk", "path", path)
	if err := vosk.Load(path); err != nil {
		return err
	}

	level := vosk.LogLevelSilent
	if verbose {
		level = vosk.LogLevelDefault
	}
	if ctx != nil && ctx.LogLevel != nil {
		level = *ctx.LogLevel
	}
	return vosk.SetLogLevel(level)
}

// models holds the models loaded for one command.
type models struct {
	model *vosk.Model
	spk   *vosk.SpeakerModel
}

// openModels loads the acoustic model of ctx and, when spkName is not empty,
// a speaker model. Names that are not paths resolve under ~/.vosk/models.
func openModels(ctx *cli.Context, spkName string) (*models, error) {
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, err
	}

	modelPath := paths.ModelPath(ctx.Model)
	slog.Debug("loading model", "path", modelPath)
	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, err
	}
	m := &models{model: model}

	if spkName != "" {
		spkPath := paths.ModelPath(spkName)
		slog.Debug("loading speaker model", "path", spkPath)
		m.spk, err = vosk.NewSpeakerModel(spkPath)
		if err != nil {
			model.Free()
			return nil, err
		}
	}
	return m, nil
}

func (m *models) Free() {
	if m.spk != nil {
		m.spk.Free()
	}
	m.model.Free()
}

// openStore opens the transcript database of ctx, or the default one under
// ~/.vosk/vosk/data.
func openStore(ctx *cli.Context) (*transcript.Badger, error) {
	var dir string
	if ctx != nil && ctx.StoreDir != "" {
		dir = ctx.StoreDir
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	} else {
		paths, err := cli.NewPaths(appName)
		if err != nil {
			return nil, err
		}
		if err := paths.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dir = paths.TranscriptsDir()
	}
	return transcript.NewBadger(transcript.BadgerOptions{Dir: dir})
}
