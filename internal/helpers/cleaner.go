package helpers

import (
	"regexp"
	"strings"
)

// Boilerplate lines that extraction tends to leave behind in both
// Arabic and English article bodies.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)اقرأ أيضا[^\n]*`),
	regexp.MustCompile(`(?im)اقرأ أيضًا[^\n]*`),
	regexp.MustCompile(`(?im)Read also[^\n]*`),
	regexp.MustCompile(`(?im)شارك المقال[^\n]*`),
	regexp.MustCompile(`(?im)Share this article[^\n]*`),
	regexp.MustCompile(`(?im)المصدر:[^\n]*`),
	regexp.MustCompile(`(?im)Source:[^\n]*`),
	regexp.MustCompile(`(?m)^\s*https?://\S+\s*$`),
}

var blankLines = regexp.MustCompile(`\n\s*\n`)

// CleanText strips boilerplate noise from extracted article text.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	cleaned := text
	for _, pattern := range noisePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	cleaned = blankLines.ReplaceAllString(cleaned, "\n")
	return strings.TrimSpace(cleaned)
}
