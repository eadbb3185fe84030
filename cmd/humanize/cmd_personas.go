package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	personasFile string
	personasFull bool
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the persona table",
	RunE:  runPersonas,
}

func init() {
	personasCmd.Flags().StringVarP(&personasFile, "file", "f", "", "Persona table YAML file (default: config or built-in)")
	personasCmd.Flags().BoolVar(&personasFull, "full", false, "Print full instructions")
}

func runPersonas(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	set, err := env.personaSet(personasFile, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if personasFull {
		for i, p := range set.All() {
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d. %s", i, p.Label)))
			fmt.Fprintln(out, p.Instruction)
			fmt.Fprintln(out)
		}
		return nil
	}

	t := newTable(fmt.Sprintf("%d personas", set.Len()), "#", "Label", "Citations", "Instruction")
	for i, p := range set.All() {
		citations := "preserve"
		if !p.PreserveCitations {
			citations = "paraphrase"
		}
		t.addRow(strconv.Itoa(i), p.Label, citations, clip(p.Instruction, 60))
	}
	fmt.Fprint(out, t.render())
	return nil
}
