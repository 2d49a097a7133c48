package utils

import "strings"

func NormalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}

func NormalizeDifficulty(difficulty string) string {
	return strings.ToLower(strings.TrimSpace(difficulty))
}

// NormalizeRole collapses whitespace and lowercases a job title for lookups
func NormalizeRole(role string) string {
	return strings.Join(strings.Fields(strings.ToLower(role)), " ")
}

// StripFences removes a surrounding markdown code fence, which models often
// wrap JSON in even when asked not to
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the outermost {...} span of s, or s unchanged
func ExtractJSONObject(s string) string {
	s = StripFences(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// ResumeMentionsName reports whether every part of name occurs in resume, ignoring case
func ResumeMentionsName(name, resume string) bool {
	parts := strings.Fields(strings.ToLower(name))
	if len(parts) == 0 {
		return false
	}
	lower := strings.ToLower(resume)
	for _, part := range parts {
		if !strings.Contains(lower, part) {
			return false
		}
	}
	return true
}
