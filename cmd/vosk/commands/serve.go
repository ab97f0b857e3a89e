package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haivivi/vosk/pkg/cli"
	"github.com/haivivi/vosk/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WebSocket recognition server",
	Long: `Serve recognition sessions over WebSocket using the Vosk server protocol.

Each connection gets its own recognizer over the context's models. The
context's recognizer settings are the session defaults; clients may
override them with a {"config": {...}} message before sending audio.

Final results are saved to the transcript database under the session id
returned in the X-Vosk-Session response header, unless --no-store is set.

Examples:
  vosk serve
  vosk -c en serve --listen 0.0.0.0:2700`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = ctx.Addr()
		}
		noStore, _ := cmd.Flags().GetBool("no-store")
		maxSize, _ := cmd.Flags().GetInt64("max-message-size")

		if err := ctx.Validate(); err != nil {
			return err
		}
		if err := loadLibrary(ctx); err != nil {
			return err
		}
		m, err := openModels(ctx, ctx.SpeakerModel)
		if err != nil {
			return err
		}
		defer m.Free()

		srv := &server.Server{
			Factory:        server.NewVoskFactory(m.model, m.spk),
			Defaults:       sessionDefaults(ctx),
			MaxMessageSize: maxSize,
			Logger:         slog.Default(),
		}
		if !noStore {
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			srv.Store = s
		}

		sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(sigCtx, listen)
	},
}

// sessionDefaults maps a context to the server's per-session defaults.
func sessionDefaults(ctx *cli.Context) server.SessionConfig {
	return server.SessionConfig{
		SampleRate:      float64(ctx.Rate()),
		Words:           ctx.Words,
		PartialWords:    ctx.PartialWords,
		MaxAlternatives: ctx.MaxAlternatives,
		Grammar:         ctx.Grammar,
		Speaker:         ctx.SpeakerModel != "",
	}
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default: context listen or "+cli.DefaultListen+")")
	serveCmd.Flags().Bool("no-store", false, "do not save transcripts")
	serveCmd.Flags().Int64("max-message-size", server.DefaultMaxMessageSize, "largest accepted WebSocket frame in bytes")
}
