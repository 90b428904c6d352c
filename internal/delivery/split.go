package delivery

import (
	"strings"
	"unicode/utf8"
)

// SplitText breaks text into chunks of at most maxLen runes, preferring line
// boundaries. Lines longer than maxLen are cut at rune boundaries.
func SplitText(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if chunk := strings.TrimRight(cur.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n <= maxLen {
			cur.WriteString(line)
			curLen += n
			continue
		}
		flush()
		for n > maxLen {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:maxLen]))
			line = string(runes[maxLen:])
			n -= maxLen
		}
		cur.WriteString(line)
		curLen = n
	}
	flush()

	return chunks
}
