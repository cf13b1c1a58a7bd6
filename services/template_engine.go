package services

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// placeholderRegex matches {{name}} (inner spaces allowed) or {name}
var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}|\{([A-Za-z0-9_.]+)\}`)

// placeholderName returns the variable name captured by one placeholderRegex match
func placeholderName(text string, loc []int) string {
	if loc[2] >= 0 {
		return text[loc[2]:loc[3]]
	}
	return text[loc[4]:loc[5]]
}

// Resolve replaces placeholders whose name is in vars. Unknown placeholders are left
// verbatim and substituted values are never scanned again.
func Resolve(text string, vars map[string]string) string {
	matches := placeholderRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range matches {
		value, ok := vars[placeholderName(text, loc)]
		if !ok {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(value)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// ExtractVariables lists distinct placeholder names in order of first appearance
func ExtractVariables(texts ...string) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, text := range texts {
		for _, loc := range placeholderRegex.FindAllStringSubmatchIndex(text, -1) {
			name := placeholderName(text, loc)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// HasUnresolved reports whether any placeholder token remains in text
func HasUnresolved(text string) bool {
	return placeholderRegex.MatchString(text)
}

var templatePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Email layouts rely on inline styles
	p.AllowAttrs("style").Globally()
	return p
}()

// SanitizeTemplateHTML strips scripts and unsafe markup from user-authored template
// content. Plain text content is returned unchanged.
func SanitizeTemplateHTML(content string) string {
	if !strings.Contains(content, "<") {
		return content
	}
	return templatePolicy.Sanitize(content)
}
