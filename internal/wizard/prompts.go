package wizard

import (
	"fmt"
	"strings"
)

// BuildTitlesPrompt asks for 5-7 numbered thesis title ideas.
func BuildTitlesPrompt(program, interest string) string {
	return fmt.Sprintf(
		"Generate 5-7 interesting and relevant undergraduate thesis title ideas for a student majoring in %q "+
			"with a focus on the topic %q. Make sure each title is specific and has good research potential. "+
			"Present the result as a numbered list (example: 1. Title A).",
		SanitizeInput(program), SanitizeInput(interest))
}

// BuildProblemsPrompt asks for 3-5 numbered problem statements for a title.
func BuildProblemsPrompt(title string) string {
	return fmt.Sprintf(
		"Based on the thesis title: %q, write 3-5 sharp, specific and testable research problem statements. "+
			"Present the result as a numbered list.",
		SanitizeInput(title))
}

// BuildOutlinePrompt asks for a chapter 1 proposal outline covering the
// title and the previously generated problem statements.
func BuildOutlinePrompt(title, problems string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an academic assistant. Draft a comprehensive Chapter 1 proposal outline ")
	prompt.WriteString("for a thesis with the following details:\n")
	prompt.WriteString(fmt.Sprintf("- Title: %q\n", SanitizeInput(title)))
	prompt.WriteString("- Research problems to be answered:\n")
	prompt.WriteString(SanitizeText(problems))
	prompt.WriteString("\n\n")

	prompt.WriteString("The output must cover the following points, each with a short explanation:\n")
	prompt.WriteString("A. Background of the Problem (describe the context, the phenomenon, supporting data if any, ")
	prompt.WriteString("and the urgency of the problem that leads to the title)\n")
	prompt.WriteString("B. Problem Statement (restate the research problems given above)\n")
	prompt.WriteString("C. Research Objectives (aligned with the problem statement)\n")
	prompt.WriteString("D. Research Benefits (describe the theoretical and practical benefits)\n\n")
	prompt.WriteString("Use formal, academic language.")

	return prompt.String()
}
