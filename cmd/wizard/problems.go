package main

import (
	"github.com/olegiv/skripsi-ai-go/internal/wizard"
	"github.com/spf13/cobra"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Generate problem statements for a thesis title",
	RunE:  runProblems,
}

func init() {
	problemsCmd.Flags().String("title", "", "Selected thesis title")
	rootCmd.AddCommand(problemsCmd)
}

func runProblems(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")

	runner, err := newRunner(cmd, wizard.WithInitialState(wizard.State{
		SelectedTitle: wizard.SanitizeInput(title),
	}))
	if err != nil {
		return err
	}

	effect := runner.Run(cmd.Context(), wizard.GenerateProblems{})
	return effectError(effect)
}
