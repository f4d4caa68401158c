package core

import (
	"regexp"
	"strings"
)

// noqaPattern matches `# noqa` and `# noqa: BWR001,BWR002` comments.
var noqaPattern = regexp.MustCompile(`(?i)#\s*noqa(?::\s?([A-Z]+[0-9]*(?:[,\s]+[A-Z]+[0-9]*)*))?`)

// noqa reports whether line carries a suppression comment covering code. A
// bare `# noqa` covers every code; a code list covers the listed codes and
// the codes they prefix.
func noqa(line, code string) bool {
	m := noqaPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if m[1] == "" {
		return true
	}
	for _, listed := range strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if strings.HasPrefix(code, strings.ToUpper(listed)) {
			return true
		}
	}
	return false
}
