package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	journalLimit   int
	journalSession string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recently journaled rewrites",
	RunE:  runJournal,
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "l", 20, "Number of entries to show")
	journalCmd.Flags().StringVar(&journalSession, "session", "", "Show every entry of one session instead")
}

func runJournal(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := loadEnv()
	if err != nil {
		return err
	}
	if !env.cfg.Journal.Enabled {
		return fmt.Errorf("the journal is disabled (journal.enabled: false)")
	}
	store, err := env.openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, journalLimit)
	if journalSession != "" {
		entries, err = store.Session(ctx, journalSession)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No rewrites journaled yet.")
		return nil
	}

	t := newTable(fmt.Sprintf("%d rewrites", len(entries)), "When", "Source", "Persona", "Words in/out", "Ease", "Session")
	for _, e := range entries {
		source := clip(e.Source, 28)
		if e.Truncated {
			source += " (truncated)"
		}
		t.addRow(
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			source,
			e.Persona,
			strconv.Itoa(e.InputWords)+"/"+strconv.Itoa(e.OutputWords),
			strconv.FormatFloat(e.ReadingEase, 'f', 1, 64),
			clip(e.SessionID, 8),
		)
	}
	fmt.Fprint(out, t.render())
	return nil
}
