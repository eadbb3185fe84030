package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"humanizer/internal/humanize"
	"humanizer/internal/ingest"
	"humanizer/internal/journal"
	"humanizer/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-humanize a file every time it is saved",
	Long: `Humanizes the file once, then again after every save. Each rewrite is written
next to the source as <name>.humanized<ext>. Saving the same text again is ignored;
saving new text picks the next unused persona for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := loadEnv()
	if err != nil {
		return err
	}
	set, err := env.personaSet("", nil)
	if err != nil {
		return err
	}
	client, err := newClient(env.cfg)
	if err != nil {
		return err
	}
	h, err := env.newSession(client, set)
	if err != nil {
		return err
	}

	store, err := env.openJournal()
	if err != nil {
		logger.Warn("journal unavailable", zap.Error(err))
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	path := inWorkspace(env.workspace, args[0])
	handle := watchHandler(h, store, cmd.OutOrStdout(), cmd.ErrOrStderr())

	w, err := watch.New(path, watch.DefaultDebounce, handle)
	if err != nil {
		return err
	}
	defer w.Stop()

	doc, err := ingest.Load(path)
	if err != nil {
		return err
	}
	if err := handle(ctx, doc); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err))
	} else {
		w.Prime(doc)
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("watching "+w.Path()+" (Ctrl+C to stop)"))
	<-ctx.Done()
	return nil
}

// humanizedPath names the output file written next to the source.
func humanizedPath(path string) string {
	ext := filepath.Ext(path)
	if ext == ".pdf" || ext == ".html" || ext == ".htm" {
		ext = ".txt"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".humanized" + ext
}

func watchHandler(h *humanize.Humanizer, store *journal.Store, out, errOut io.Writer) watch.Handler {
	return func(ctx context.Context, doc *ingest.Document) error {
		res, err := h.Humanize(ctx, doc.Text)
		if err != nil {
			fmt.Fprintln(errOut, describeError(err))
			return err
		}
		if res.Truncated {
			warnTruncated(errOut, doc.Path, res.InputChars)
		}
		recordResult(ctx, store, doc.Path, res)

		target := humanizedPath(doc.Path)
		if err := os.WriteFile(target, []byte(res.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		fmt.Fprintf(out, "%s %s\n", titleStyle.Render(fmt.Sprintf("%s -> %s as %s", filepath.Base(doc.Path), filepath.Base(target), res.Persona)),
			statsLine(res.OutputWords, res.OutputChars, res.Readability))
		return nil
	}
}
