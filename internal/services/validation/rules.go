package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	// conjunctionPattern splits free text on natural-language
	// conjunctions: commas, semicolons, newlines, slashes, ampersands
	// and the words "and"/"or".
	conjunctionPattern = regexp.MustCompile(`(?i)(?:,|;|\r?\n|&|/|\band\b|\bor\b)`)

	// urlishPattern flags URL-like substrings inside a name.
	urlishPattern = regexp.MustCompile(`(?i)(?:https?://|www\.|\.[a-z]{2,4}/|\.com|\.net|\.org)`)

	// linkedinPattern is the tighter platform-profile grammar.
	linkedinPattern = regexp.MustCompile(`(?i)^https?://(?:[a-z]{2,3}\.)?linkedin\.com/in/[A-Za-z0-9\-_%.]+/?$`)
)

// splitConjunctions splits free text into trimmed, non-empty parts.
func splitConjunctions(text string) []string {
	var parts []string
	for _, part := range conjunctionPattern.Split(text, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// splitURLCandidates splits free text into URL candidates. URLs can
// legally contain slashes and ampersands, so only commas, semicolons
// and whitespace separate, and bare connector words are dropped.
func splitURLCandidates(text string) []string {
	var parts []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	}) {
		switch strings.ToLower(part) {
		case "and", "or", "&":
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

// normalizeSpaces folds unicode space variants (non-breaking spaces and
// friends) to ASCII space and collapses runs.
func normalizeSpaces(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// validFullName checks the name-shape rule: at least two tokens, each
// at least two characters, letters plus spaces, hyphens and
// apostrophes, and nothing URL-like anywhere.
func validFullName(name string) bool {
	name = normalizeSpaces(name)

	if urlishPattern.MatchString(name) {
		return false
	}

	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return false
	}

	for _, token := range tokens {
		runes := []rune(token)
		if len(runes) < 2 {
			return false
		}
		for _, r := range runes {
			if unicode.IsLetter(r) || r == '-' || r == '\'' || r == '’' {
				continue
			}
			return false
		}
	}
	return true
}

// validURL checks a candidate against the generic URL grammar: an
// absolute http(s) URL with a dotted host.
func validURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToLower(raw), "http://") &&
		!strings.HasPrefix(strings.ToLower(raw), "https://") {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	return host != "" && strings.Contains(host, ".")
}

// validLinkedInProfile checks the platform-specific profile grammar.
func validLinkedInProfile(raw string) bool {
	return linkedinPattern.MatchString(strings.TrimSpace(raw))
}

// looksGibberish flags answers that are structurally nonsense: one
// character repeated, or a long run drawn from fewer than three
// distinct characters.
func looksGibberish(text string) bool {
	var runes []rune
	for _, r := range text {
		if !unicode.IsSpace(r) {
			runes = append(runes, unicode.ToLower(r))
		}
	}
	if len(runes) < 2 {
		return false
	}

	distinct := make(map[rune]bool, len(runes))
	for _, r := range runes {
		distinct[r] = true
	}

	if len(distinct) == 1 {
		return true
	}
	if len(runes) > 8 && len(distinct) < 3 {
		return true
	}
	return false
}

// dedupePreserveOrder removes duplicates, keeping first occurrences.
// Comparison is case-insensitive; the first casing wins.
func dedupePreserveOrder(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
