package interview

import "strings"

var skipWords = map[string]struct{}{
	"skip": {},
	"pass": {},
}

// IsNoResponse reports whether an answer is blank or an explicit skip
func IsNoResponse(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return true
	}
	_, ok := skipWords[a]
	return ok
}
