package acquire

import (
	"regexp"
	"strings"
)

// Fixed removals for navigation boilerplate in scraped markdown/text.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`),       // markdown links
	regexp.MustCompile(`(?m)^- \[[^\]]*\].*\n?`),    // navigation items
	regexp.MustCompile(`(?m)^!\[[^\]]*\].*\n?`),     // images
	regexp.MustCompile(`(?m)^Copyright ©.*\n?`),     // copyright lines
	regexp.MustCompile(`(?m)^Share.*\n?`),           // share buttons
	regexp.MustCompile(`(?m)^Follow Us.*\n?`),       // social links
	regexp.MustCompile(`(?m)^Click to.*\n?`),        // UI instructions
	regexp.MustCompile(`(?m)^Sign in.*\n?`),         // sign-in elements
	regexp.MustCompile(`(?m)^Subscribe.*\n?`),       // subscription prompts
	regexp.MustCompile(`(?m)^More from.*\n?`),       // related-content sections
	regexp.MustCompile(`(?m)^Explore.*\n?`),         // exploration sections
	regexp.MustCompile(`(?m)^Get Current Updates.*\n?`),
}

// CleanContent strips navigation boilerplate from extracted text and
// collapses blank lines.
func CleanContent(content string) string {
	cleaned := content
	for _, pattern := range boilerplatePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
