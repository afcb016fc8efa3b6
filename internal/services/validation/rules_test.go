package validation

import (
	"reflect"
	"testing"
)

func TestValidFullName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple name", "Max Doe", true},
		{"hyphenated", "Mary-Jane O'Brien", true},
		{"unicode letters", "José García", true},
		{"curly apostrophe", "D’Angelo Russell", true},
		{"extra spaces collapse", "  Max   Doe  ", true},
		{"single token", "Max", false},
		{"one-letter token", "M Doe", false},
		{"digits", "Max Do3", false},
		{"url inside", "Max www.doe.com", false},
		{"email-ish", "max@doe.com here", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validFullName(tt.input); got != tt.want {
				t.Errorf("validFullName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"https", "https://example.com/page", true},
		{"http", "http://example.com", true},
		{"surrounding spaces", "  https://example.com  ", true},
		{"no scheme", "example.com", false},
		{"wrong scheme", "ftp://example.com", false},
		{"no dot in host", "https://localhost", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validURL(tt.input); got != tt.want {
				t.Errorf("validURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLinkedInProfile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"profile url", "https://linkedin.com/in/max-doe", true},
		{"www subdomain", "https://www.linkedin.com/in/maxdoe/", true},
		{"country subdomain", "https://uk.linkedin.com/in/max.doe", true},
		{"company page", "https://linkedin.com/company/acme", false},
		{"generic url", "https://example.com/in/max", false},
		{"bare host", "https://linkedin.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validLinkedInProfile(tt.input); got != tt.want {
				t.Errorf("validLinkedInProfile(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitConjunctions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"commas", "go, rust, zig", []string{"go", "rust", "zig"}},
		{"and word", "hiring and retention", []string{"hiring", "retention"}},
		{"mixed separators", "a; b / c & d", []string{"a", "b", "c", "d"}},
		{"newlines", "first\nsecond", []string{"first", "second"}},
		{"single value", "just one", []string{"just one"}},
		{"empty parts dropped", "a,, ,b", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitConjunctions(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitConjunctions(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitURLCandidates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated", "https://a.com/x, https://b.com/y", []string{"https://a.com/x", "https://b.com/y"}},
		{"and connector", "https://a.com/x and https://b.com/y", []string{"https://a.com/x", "https://b.com/y"}},
		{"query string survives", "https://a.com/x?b=1&c=2", []string{"https://a.com/x?b=1&c=2"}},
		{"whitespace separated", "https://a.com https://b.com", []string{"https://a.com", "https://b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitURLCandidates(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitURLCandidates(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksGibberish(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"repeated char", "aaaaaaa", true},
		{"two chars long run", "ababababab", true},
		{"repeated with spaces", "aa aa aa aa aa", true},
		{"real word", "engineering", false},
		{"short answer", "ok", false},
		{"single char", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksGibberish(tt.input); got != tt.want {
				t.Errorf("looksGibberish(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDedupePreserveOrder(t *testing.T) {
	got := dedupePreserveOrder([]string{"Go", "Rust", "go", "GO", "Zig", "rust"})
	want := []string{"Go", "Rust", "Zig"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupePreserveOrder = %v, want %v", got, want)
	}
}

func TestNormalizeSpaces(t *testing.T) {
	got := normalizeSpaces("Max  Doe\t Smith")
	if got != "Max Doe Smith" {
		t.Errorf("normalizeSpaces = %q, want %q", got, "Max Doe Smith")
	}
}
