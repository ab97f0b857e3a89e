package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/vosk/pkg/cli"
	"github.com/haivivi/vosk/pkg/transcript"
)

var transcriptsCmd = &cobra.Command{
	Use:     "transcripts",
	Aliases: []string{"tx"},
	Short:   "Browse stored transcripts",
	Long: `Browse and delete transcripts saved by 'vosk transcribe --store' and
'vosk serve'.

The database is the context's store_dir, or ~/.vosk/vosk/data/transcripts.`,
}

// sessionSummary is one row of 'transcripts list'.
type sessionSummary struct {
	Session    string        `json:"session" yaml:"session"`
	Utterances int           `json:"utterances" yaml:"utterances"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	CreatedAt  time.Time     `json:"created_at" yaml:"created_at"`
}

// summarize reports the utterance count, the last offset and the earliest
// creation time of a session.
func summarize(session string, utts []*transcript.Utterance) sessionSummary {
	s := sessionSummary{Session: session, Utterances: len(utts)}
	for _, u := range utts {
		s.Duration = max(s.Duration, u.Offset)
		if s.CreatedAt.IsZero() || u.CreatedAt.Before(s.CreatedAt) {
			s.CreatedAt = u.CreatedAt
		}
	}
	return s
}

// storeContext returns the context whose store to open. Browsing works
// without any context configured.
func storeContext() *cli.Context {
	ctx, err := getContext()
	if err != nil {
		return nil
	}
	return ctx
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transcript sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(storeContext())
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.Sessions(cmd.Context())
		if err != nil {
			return err
		}
		summaries := make([]sessionSummary, 0, len(sessions))
		for _, session := range sessions {
			utts, err := store.List(cmd.Context(), session)
			if err != nil {
				return err
			}
			summaries = append(summaries, summarize(session, utts))
		}

		if isStructuredOutput() {
			return outputResult(cmd, summaries)
		}
		out := cmd.OutOrStdout()
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No transcripts stored")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tUTTERANCES\tDURATION\tCREATED")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Session, s.Utterances, cli.FormatDuration(s.Duration), s.CreatedAt.Local().Format(time.DateTime))
		}
		return w.Flush()
	},
}

var transcriptsShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show the utterances of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, _ := cmd.Flags().GetString("jq")
		query, err := cli.ParseQuery(expr)
		if err != nil {
			return err
		}

		store, err := openStore(storeContext())
		if err != nil {
			return err
		}
		defer store.Close()

		utts, err := store.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(utts) == 0 {
			return fmt.Errorf("session %q not found", args[0])
		}

		o := &transcribeOptions{query: query}
		w := newTranscriptWriter(cmd.OutOrStdout(), o)
		for _, u := range utts {
			if err := w.final(u); err != nil {
				return err
			}
		}
		return w.flush()
	},
}

var transcriptsDeleteCmd = &cobra.Command{
	Use:   "delete <session>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(storeContext())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Session %q deleted", args[0])
		return nil
	},
}

func init() {
	transcriptsShowCmd.Flags().String("jq", "", "jq expression applied to each utterance")

	transcriptsCmd.AddCommand(transcriptsListCmd)
	transcriptsCmd.AddCommand(transcriptsShowCmd)
	transcriptsCmd.AddCommand(transcriptsDeleteCmd)
}
