package main

import (
	"github.com/olegiv/skripsi-ai-go/internal/wizard"
	"github.com/spf13/cobra"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Generate thesis title ideas",
	RunE:  runTitles,
}

func init() {
	titlesCmd.Flags().String("program", "", "Study program, e.g. \"Informatics\"")
	titlesCmd.Flags().String("interest", "", "Topic of interest, e.g. \"machine learning for agriculture\"")
	rootCmd.AddCommand(titlesCmd)
}

func runTitles(cmd *cobra.Command, args []string) error {
	program, _ := cmd.Flags().GetString("program")
	interest, _ := cmd.Flags().GetString("interest")

	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}

	effect := runner.Run(cmd.Context(), wizard.GenerateTitles{Program: program, Interest: interest})
	return effectError(effect)
}
