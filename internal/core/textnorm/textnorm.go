// Package textnorm holds the text normalisation shared by writes and searches.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)+$`)

// TitleCase normalises human-entered text the way it is stored.
// A cases.Caser is stateful, so one is built per call.
func TitleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	return cases.Title(language.English).String(s)
}

// TitleCasePtr applies TitleCase to an optional value, turning blanks into nil.
func TitleCasePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := TitleCase(*s)
	if v == "" {
		return nil
	}
	return &v
}

// LooksLikeCode reports whether token resembles a task number or project code
// such as TASK-000042. The token is compared in upper case.
func LooksLikeCode(token string) bool {
	upper := strings.ToUpper(strings.TrimSpace(token))
	return codePattern.MatchString(upper) && strings.ContainsAny(upper, "0123456789")
}
