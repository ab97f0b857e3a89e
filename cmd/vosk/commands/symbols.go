package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/vosk/pkg/cli"
	"github.com/haivivi/vosk/pkg/vosk"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Show the native library location and entry points",
	Long: `Print the libvosk path the binding would load and the entry points it
resolves from it. With --check the library is loaded, which fails if the
file is missing or any entry point cannot be resolved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		check, _ := cmd.Flags().GetBool("check")

		info := libraryInfo{
			Library: resolveLibrary(storeContext()),
			Env:     vosk.LibraryPathEnv,
			Symbols: vosk.Symbols(),
		}
		if fi, err := os.Stat(info.Library); err == nil {
			info.Size = fi.Size()
		}
		if check {
			err := vosk.Load(info.Library)
			loaded := err == nil
			info.Loaded = &loaded
			if err != nil {
				info.Error = err.Error()
			}
		}

		if isStructuredOutput() {
			if err := outputResult(cmd, info); err != nil {
				return err
			}
		} else {
			printLibraryInfo(cmd, info)
		}
		if info.Error != "" {
			return fmt.Errorf("library check failed")
		}
		return nil
	},
}

// libraryInfo is the output of the symbols command.
type libraryInfo struct {
	Library string   `json:"library" yaml:"library"`
	Size    int64    `json:"size,omitempty" yaml:"size,omitempty"`
	Env     string   `json:"env" yaml:"env"`
	Symbols []string `json:"symbols" yaml:"symbols"`
	Loaded  *bool    `json:"loaded,omitempty" yaml:"loaded,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func printLibraryInfo(cmd *cobra.Command, info libraryInfo) {
	styles := cli.NewStyles(cli.DefaultTheme)
	rows := [][2]string{
		{"Library", info.Library},
		{"Size", librarySize(info)},
		{"Override", "$" + info.Env},
		{"Entry points", strconv.Itoa(len(info.Symbols))},
	}
	if info.Loaded != nil {
		status := "ok"
		if !*info.Loaded {
			status = styles.Error.Render(info.Error)
		}
		rows = append(rows, [2]string{"Load", status})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.KeyValues(rows))
	fmt.Fprintln(out)
	for i, name := range info.Symbols {
		fmt.Fprintf(out, "  %2d  %s\n", i, name)
	}
}

func librarySize(info libraryInfo) string {
	if info.Size == 0 {
		return "not found"
	}
	return cli.FormatBytes(info.Size)
}

func init() {
	symbolsCmd.Flags().Bool("check", false, "load the library and report the result")
}
