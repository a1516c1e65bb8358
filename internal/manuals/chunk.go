package manuals

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxChunkChars bounds a packed chunk, counted in characters.
const maxChunkChars = 2000

var blankLine = regexp.MustCompile(`\n\s*\n`)

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range blankLine.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// chunkText greedily packs paragraphs into chunks of at most limit characters.
// A paragraph longer than limit becomes its own chunk.
func chunkText(text string, limit int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, p := range splitParagraphs(text) {
		pLen := utf8.RuneCountInString(p)
		if currentLen > 0 && currentLen+2+pLen > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(p)
		currentLen += pLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
