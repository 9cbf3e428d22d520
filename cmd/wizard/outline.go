package main

import (
	"fmt"
	"os"

	"github.com/olegiv/skripsi-ai-go/internal/wizard"
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Generate a chapter-one outline for a title and its problem statements",
	RunE:  runOutline,
}

func init() {
	outlineCmd.Flags().String("title", "", "Selected thesis title")
	outlineCmd.Flags().String("problems", "", "Problem statements text")
	outlineCmd.Flags().String("problems-file", "", "Read problem statements from a file")
	outlineCmd.MarkFlagsMutuallyExclusive("problems", "problems-file")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	problems, _ := cmd.Flags().GetString("problems")
	problemsFile, _ := cmd.Flags().GetString("problems-file")

	if problemsFile != "" {
		data, err := os.ReadFile(problemsFile)
		if err != nil {
			return fmt.Errorf("read problems file: %w", err)
		}
		problems = string(data)
	}

	runner, err := newRunner(cmd, wizard.WithInitialState(wizard.State{
		SelectedTitle: wizard.SanitizeInput(title),
		Problems:      wizard.SanitizeText(problems),
	}))
	if err != nil {
		return err
	}

	effect := runner.Run(cmd.Context(), wizard.GenerateOutline{})
	return effectError(effect)
}
