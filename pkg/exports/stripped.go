package exports

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var strippedChars = regexp.MustCompile(`["'{}]`)

// StrippedJSON renders data as two-space indented JSON with quote,
// apostrophe and brace characters removed and blank lines dropped. Brackets
// survive. Downstream display consumes this shape verbatim, so the output
// must stay byte-stable for a given input.
func StrippedJSON(data interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return "", err
	}

	stripped := strippedChars.ReplaceAllString(buf.String(), "")

	lines := make([]string, 0)
	for _, line := range strings.Split(stripped, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
