package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olegiv/skripsi-ai-go/internal/wizard"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through all three steps interactively",
	RunE:  runInteractive,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}

	if err := interact(cmd, runner); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func interact(cmd *cobra.Command, runner *wizard.Runner) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	// Step 1: titles. Retry until the user gets a list to choose from.
	for len(runner.State().Titles) == 0 {
		program, err := ask(in, out, "Study program: ")
		if err != nil {
			return err
		}
		interest, err := ask(in, out, "Topic of interest: ")
		if err != nil {
			return err
		}
		runner.Run(ctx, wizard.GenerateTitles{Program: program, Interest: interest})
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// Step 2: pick a title and generate its problem statements.
	for runner.State().Problems == "" {
		answer, err := ask(in, out, "Title number: ")
		if err != nil {
			return err
		}
		index, convErr := strconv.Atoi(answer)
		if convErr != nil {
			_, _ = fmt.Fprintln(out, "Error: "+wizard.MsgInvalidSelection)
			continue
		}
		if _, ok := runner.Run(ctx, wizard.SelectTitle{Index: index - 1}).(wizard.ShowError); ok {
			continue
		}
		runner.Run(ctx, wizard.GenerateProblems{})
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// Step 3: outline.
	for runner.State().Outline == "" {
		answer, err := ask(in, out, "Generate the chapter-one outline? [Y/n]: ")
		if err != nil {
			return err
		}
		if strings.EqualFold(answer, "n") {
			return nil
		}
		runner.Run(ctx, wizard.GenerateOutline{})
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

// ask prints prompt and reads one trimmed line. EOF without input ends the
// session.
func ask(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			_, _ = fmt.Fprintln(out)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
