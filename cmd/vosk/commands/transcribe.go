package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haivivi/vosk/pkg/audio/pcm"
	"github.com/haivivi/vosk/pkg/cli"
	"github.com/haivivi/vosk/pkg/transcribe"
	"github.com/haivivi/vosk/pkg/transcript"
	"github.com/haivivi/vosk/pkg/vosk"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <pcm-file|->",
	Short: "Transcribe raw PCM audio",
	Long: `Transcribe little-endian 16-bit mono PCM audio from a file, or from
stdin when the argument is "-".

By default utterances are printed as they are finalized. With --json,
--format, -o or --jq the utterances are emitted as structured records
instead; --format raw writes one transcript line per utterance.

Examples:
  vosk transcribe speech.pcm
  vosk transcribe speech.pcm --words --json
  ffmpeg -i talk.mp3 -f s16le -ac 1 -ar 16000 - | vosk transcribe - --partials
  vosk transcribe speech.pcm --jq '.text'
  vosk transcribe cmd.pcm --grammar "turn on" --grammar "turn off" --grammar "[unk]"
  vosk transcribe meeting.pcm --speaker-model vosk-model-spk-0.4 --store`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

// transcribeOptions are the recognizer settings after merging the context
// with command-line overrides.
type transcribeOptions struct {
	grammar         []string
	speakerModel    string
	sampleRate      int
	words           bool
	partialWords    bool
	maxAlternatives int
	chunk           time.Duration
	partials        bool
	store           bool
	session         string
	query           *cli.Query
}

func transcribeOptionsFromFlags(cmd *cobra.Command, ctx *cli.Context) (*transcribeOptions, error) {
	flags := cmd.Flags()
	o := &transcribeOptions{
		grammar:         ctx.Grammar,
		speakerModel:    ctx.SpeakerModel,
		sampleRate:      ctx.Rate(),
		words:           ctx.Words,
		partialWords:    ctx.PartialWords,
		maxAlternatives: ctx.MaxAlternatives,
	}

	grammar, err := grammarFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	if grammar != nil {
		// A command-line grammar replaces the context's speaker model.
		o.grammar, o.speakerModel = grammar, ""
	}
	if flags.Changed("speaker-model") {
		o.speakerModel, _ = flags.GetString("speaker-model")
	}
	if flags.Changed("sample-rate") {
		o.sampleRate, _ = flags.GetInt("sample-rate")
	}
	if flags.Changed("words") {
		o.words, _ = flags.GetBool("words")
	}
	if flags.Changed("partial-words") {
		o.partialWords, _ = flags.GetBool("partial-words")
	}
	if flags.Changed("max-alternatives") {
		o.maxAlternatives, _ = flags.GetInt("max-alternatives")
	}
	o.chunk, _ = flags.GetDuration("chunk")
	o.partials, _ = flags.GetBool("partials")
	o.store, _ = flags.GetBool("store")
	o.session, _ = flags.GetString("session")

	expr, _ := flags.GetString("jq")
	if o.query, err = cli.ParseQuery(expr); err != nil {
		return nil, err
	}

	if o.grammar != nil && o.speakerModel != "" {
		return nil, vosk.ErrGrammarWithSpeaker
	}
	if o.maxAlternatives < 0 {
		return nil, &vosk.ConfigError{Reason: fmt.Sprintf("max alternatives must not be negative, got %d", o.maxAlternatives)}
	}
	if err := pcm.L16Mono(o.sampleRate).Validate(); err != nil {
		return nil, err
	}
	if o.session == "" {
		o.session = uuid.NewString()
	}
	return o, nil
}

// structured reports whether output goes to records rather than styled lines.
func (o *transcribeOptions) structured() bool {
	return isStructuredOutput() || o.query != nil
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	if grammarFile, _ := cmd.Flags().GetString("grammar-file"); args[0] == "-" && grammarFile == "-" {
		return fmt.Errorf("audio and --grammar-file cannot both be read from stdin")
	}
	ctx, err := getContext()
	if err != nil {
		return err
	}
	o, err := transcribeOptionsFromFlags(cmd, ctx)
	if err != nil {
		return err
	}

	var input io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open audio: %w", err)
		}
		defer f.Close()
		input = f
	}

	if err := loadLibrary(ctx); err != nil {
		return err
	}
	m, err := openModels(ctx, o.speakerModel)
	if err != nil {
		return err
	}
	defer m.Free()

	rec, err := vosk.NewRecognizer(vosk.RecognizerConfig{
		Model:        m.model,
		SampleRate:   float64(o.sampleRate),
		Grammar:      o.grammar,
		SpeakerModel: m.spk,
	})
	if err != nil {
		return err
	}
	defer rec.Free()
	if err := rec.SetWords(o.words); err != nil {
		return err
	}
	if err := rec.SetPartialWords(o.partialWords); err != nil {
		return err
	}
	if o.maxAlternatives > 0 {
		if err := rec.SetMaxAlternatives(o.maxAlternatives); err != nil {
			return err
		}
	}

	var store transcript.Store
	if o.store {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	if o.partials && o.structured() {
		cli.PrintWarning("--partials is ignored with structured output")
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w := newTranscriptWriter(cmd.OutOrStdout(), o)
	events := transcribe.Stream(sigCtx, rec, input, &transcribe.Options{
		Format:   pcm.L16Mono(o.sampleRate),
		Chunk:    o.chunk,
		Partials: o.partials && !o.structured(),
	})
	for ev, err := range events {
		if err != nil {
			return err
		}
		if ev.Kind == transcribe.EventPartial {
			w.partial(ev)
			continue
		}
		if ev.Text() == "" {
			continue
		}
		u := transcript.FromResult(o.session, ev.Seq, ev.Offset, ev.Result)
		if store != nil {
			if err := store.Append(sigCtx, u); err != nil {
				return err
			}
		}
		if err := w.final(u); err != nil {
			return err
		}
	}

	if err := w.flush(); err != nil {
		return err
	}
	if store != nil {
		cli.PrintInfo("Stored as session %s", o.session)
	}
	return nil
}

// transcriptWriter renders transcription events in the selected mode.
type transcriptWriter struct {
	out     io.Writer
	opts    *transcribeOptions
	styles  cli.Styles
	pending bool
	records []*transcript.Utterance
}

func newTranscriptWriter(out io.Writer, o *transcribeOptions) *transcriptWriter {
	return &transcriptWriter{out: out, opts: o, styles: cli.NewStyles(cli.DefaultTheme)}
}

func (w *transcriptWriter) partial(ev transcribe.Event) {
	if ev.Text() == "" {
		return
	}
	fmt.Fprint(w.out, "\r\x1b[K"+w.styles.PartialLine(cli.FormatOffset(ev.Offset), ev.Text()))
	w.pending = true
}

func (w *transcriptWriter) final(u *transcript.Utterance) error {
	switch {
	case w.opts.query != nil:
		values, err := w.opts.query.Run(u)
		if err != nil {
			return err
		}
		for _, v := range values {
			if s, ok := v.(string); ok {
				fmt.Fprintln(w.out, s)
				continue
			}
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(w.out, string(data))
		}
	case w.opts.structured():
		w.records = append(w.records, u)
	default:
		if w.pending {
			fmt.Fprint(w.out, "\r\x1b[K")
			w.pending = false
		}
		fmt.Fprintln(w.out, w.styles.FinalLine(cli.FormatOffset(u.Offset), u.Text))
	}
	return nil
}

func (w *transcriptWriter) flush() error {
	if w.pending {
		fmt.Fprintln(w.out)
	}
	if w.opts.query != nil || !w.opts.structured() {
		return nil
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}
	var result any = w.records
	switch {
	case format == cli.FormatRaw:
		var sb strings.Builder
		for _, u := range w.records {
			sb.WriteString(u.Text)
			sb.WriteByte('\n')
		}
		result = sb.String()
	case w.records == nil:
		result = []*transcript.Utterance{}
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   getOutputFile(),
		Writer: writerUnlessFile(w.out),
	})
}

// writerUnlessFile returns w when -o is not set, so output goes to the file
// when it is.
func writerUnlessFile(w io.Writer) io.Writer {
	if getOutputFile() != "" {
		return nil
	}
	return w
}

// addTranscribeFlags registers the transcribe flags on cmd.
func addTranscribeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	addGrammarFlags(cmd)
	f.String("speaker-model", "", "speaker model directory or name (overrides context)")
	f.Int("sample-rate", 0, "input sample rate in Hz (overrides context)")
	f.Bool("words", false, "include word timings in results")
	f.Bool("partial-words", false, "include word timings in partial results")
	f.Int("max-alternatives", 0, "number of n-best alternatives")
	f.Duration("chunk", transcribe.DefaultChunk, "audio fed per recognizer call")
	f.Bool("partials", false, "show partial hypotheses while decoding")
	f.Bool("store", false, "save utterances to the transcript database")
	f.String("session", "", "session id for --store (default: random UUID)")
	f.String("jq", "", "jq expression applied to each utterance")
}

func init() {
	addTranscribeFlags(transcribeCmd)
}
