package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"humanizer/internal/humanize"
	"humanizer/internal/ingest"
	"humanizer/internal/journal"
	"humanizer/internal/logging"
)

var (
	rewriteText     string
	rewriteRepeat   int
	rewriteDryRun   bool
	rewriteOutput   string
	rewritePersonas []string
	rewriteNoLog    bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [file|-]...",
	Short: "Humanize one or more passages",
	Long: `Loads each passage (plain text, Markdown, HTML or PDF; "-" reads stdin),
runs the mangling pipeline and asks the configured model to rewrite it in the voice
of a persona not yet used for that passage in this session.

Passages longer than the configured cap (10,000 characters by default) are
truncated and a warning is printed.

Examples:
  humanize rewrite essay.txt
  humanize rewrite --text "Paste a paragraph here."
  humanize rewrite --repeat 3 essay.md     # three takes, three different personas
  humanize rewrite --dry-run essay.md      # show the prompt, make no call`,
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteText, "text", "t", "", "Passage text (instead of files)")
	rewriteCmd.Flags().IntVarP(&rewriteRepeat, "repeat", "n", 1, "Humanize each passage this many times in one session")
	rewriteCmd.Flags().BoolVar(&rewriteDryRun, "dry-run", false, "Print the assembled prompt without calling the model")
	rewriteCmd.Flags().StringVarP(&rewriteOutput, "output", "o", "", "Write rewritten text to this file instead of stdout")
	rewriteCmd.Flags().StringSliceVar(&rewritePersonas, "persona", nil, "Restrict the persona table to these labels")
	rewriteCmd.Flags().BoolVar(&rewriteNoLog, "no-journal", false, "Do not record this run in the journal")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if rewriteRepeat < 1 {
		return fmt.Errorf("--repeat must be at least 1")
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}

	docs, err := gatherInputs(ctx, env, cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	set, err := env.personaSet("", rewritePersonas)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if rewriteDryRun {
		h, err := env.newSession(nil, set)
		if err != nil {
			return err
		}
		return dryRun(h, docs, out, errOut)
	}

	client, err := newClient(env.cfg)
	if err != nil {
		return err
	}
	h, err := env.newSession(client, set)
	if err != nil {
		return err
	}

	var store *journal.Store
	if !rewriteNoLog {
		store, err = env.openJournal()
		if err != nil {
			logger.Warn("journal unavailable", zap.Error(err))
			store = nil
		}
		if store != nil {
			defer store.Close()
		}
	}

	var rewritten []string
	for _, doc := range docs {
		for take := 1; take <= rewriteRepeat; take++ {
			res, err := h.Humanize(ctx, doc.Text)
			if err != nil {
				return fmt.Errorf("%s: %w", doc.Path, err)
			}
			if res.Truncated && take == 1 {
				warnTruncated(errOut, doc.Path, res.InputChars)
			}
			recordResult(ctx, store, doc.Path, res)

			if rewriteOutput != "" {
				rewritten = append(rewritten, res.Text)
				fmt.Fprintf(out, "%s %s\n", titleStyle.Render(header(doc.Path, take, res.Persona)), statsLine(res.OutputWords, res.OutputChars, res.Readability))
				continue
			}
			printResult(out, doc.Path, take, res)
		}
	}

	if rewriteOutput != "" {
		path := inWorkspace(env.workspace, rewriteOutput)
		if err := os.WriteFile(path, []byte(strings.Join(rewritten, "\n\n")+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "wrote %d rewrite(s) to %s\n", len(rewritten), path)
	}
	return nil
}

// gatherInputs resolves --text, stdin and file arguments into documents.
func gatherInputs(ctx context.Context, env *appEnv, stdin io.Reader, args []string) ([]*ingest.Document, error) {
	if rewriteText != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("use either --text or file arguments, not both")
		}
		return []*ingest.Document{{Path: "text", Title: "text", Format: ingest.FormatText, Text: rewriteText}}, nil
	}
	if len(args) == 0 {
		args = []string{"-"}
	}

	var docs []*ingest.Document
	var files []string
	for _, a := range args {
		if a == "-" {
			doc, err := ingest.Read(stdin, "stdin")
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}
		files = append(files, inWorkspace(env.workspace, a))
	}
	if len(files) > 0 {
		loaded, err := ingest.LoadAll(ctx, files, env.cfg.Ingest.MaxConcurrency)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	logger.Debug("inputs loaded", zap.Int("count", len(docs)))
	return docs, nil
}

func dryRun(h *humanize.Humanizer, docs []*ingest.Document, out, errOut io.Writer) error {
	for _, doc := range docs {
		for take := 1; take <= rewriteRepeat; take++ {
			prep, err := h.Prepare(doc.Text)
			if err != nil {
				return fmt.Errorf("%s: %w", doc.Path, err)
			}
			if prep.Passage.Truncated && take == 1 {
				warnTruncated(errOut, doc.Path, prep.Passage.Chars)
			}
			fmt.Fprintln(out, titleStyle.Render(header(doc.Path, take, prep.Persona.Label)))
			fmt.Fprintln(out, mutedStyle.Render("fingerprint "+prep.Fingerprint.Short()))
			fmt.Fprintln(out, boldStyle.Render("system:"))
			fmt.Fprintln(out, prep.Prompt.System)
			fmt.Fprintln(out, boldStyle.Render("user:"))
			fmt.Fprintln(out, prep.Prompt.User)
			fmt.Fprintln(out)
		}
	}
	return nil
}

func header(source string, take int, personaLabel string) string {
	if rewriteRepeat > 1 {
		return fmt.Sprintf("== %s [take %d/%d] as %s ==", source, take, rewriteRepeat, personaLabel)
	}
	return fmt.Sprintf("== %s as %s ==", source, personaLabel)
}

func printResult(out io.Writer, source string, take int, res *humanize.Result) {
	fmt.Fprintln(out, titleStyle.Render(header(source, take, res.Persona)))
	fmt.Fprintln(out, res.Text)
	fmt.Fprintln(out)
	fmt.Fprintln(out, statsLine(res.OutputWords, res.OutputChars, res.Readability))
	fmt.Fprintln(out)
}

func warnTruncated(w io.Writer, source string, chars int) {
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("warning: %s was truncated to its first %d characters", source, chars)))
}

func recordResult(ctx context.Context, store *journal.Store, source string, res *humanize.Result) {
	if store == nil {
		return
	}
	if _, err := store.Record(ctx, journal.EntryFromResult(source, res)); err != nil {
		logging.JournalError("record %s: %v", res.ID, err)
		logger.Warn("journal write failed", zap.Error(err))
	}
}
