package wizard

import (
	"regexp"
	"strings"
	"unicode"
)

// promptInjectionPatterns contains regex patterns for common prompt injection attempts
var promptInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+a`),
	regexp.MustCompile(`(?i)new\s+instructions?:`),
	regexp.MustCompile(`(?i)system\s*prompt\s*:`),
	regexp.MustCompile(`(?i)\bASSISTANT\s*:`),
	regexp.MustCompile(`(?i)\bSYSTEM\s*:`),
}

var excessiveNewlines = regexp.MustCompile(`\n{4,}`)

// maxInputLength bounds a single free-text field.
const maxInputLength = 500

// SanitizeInput cleans a single-line form field (study program, topic,
// title): control characters and line breaks become spaces, injection
// phrases are filtered, runs of whitespace collapse and the result is
// capped at maxInputLength runes.
func SanitizeInput(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}

	result := filterInjections(b.String())
	result = strings.Join(strings.Fields(result), " ")

	if runes := []rune(result); len(runes) > maxInputLength {
		result = string(runes[:maxInputLength])
	}
	return result
}

// SanitizeText cleans multi-line text that is fed back into a later prompt,
// such as generated problem statements. Line structure is kept.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}

	result := filterInjections(b.String())
	result = excessiveNewlines.ReplaceAllString(result, "\n\n\n")
	return strings.TrimSpace(result)
}

func filterInjections(s string) string {
	for _, pattern := range promptInjectionPatterns {
		s = pattern.ReplaceAllString(s, "[FILTERED]")
	}
	return s
}
