package manuals

import (
	"fmt"
	"strings"
)

const previewChars = 200

func buildExtractionPrompt(name string, chunk string, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are organizing an operations manual named %q for customer support agents.\n", name)
	fmt.Fprintf(&b, "This is part %d of %d.\n\n", index, total)
	b.WriteString("Extract one structured section from the text below: give it a short title, ")
	b.WriteString("keep the procedural content, assign a category, list search keywords, ")
	b.WriteString("and rate its priority for agents handling live tickets.\n\n")
	b.WriteString("Text:\n")
	b.WriteString(chunk)
	b.WriteString("\n")
	return b.String()
}

func buildRankingPrompt(sections []Section, q SearchQuery) string {
	var b strings.Builder
	b.WriteString("Find the manual sections most relevant to a support agent's query.\n\n")
	fmt.Fprintf(&b, "Query: %s\n", q.Query)
	if tc := q.TicketContext; tc != nil {
		b.WriteString("\nTicket Context:\n")
		fmt.Fprintf(&b, "- Subject: %s\n", tc.Subject)
		fmt.Fprintf(&b, "- Description: %s\n", tc.Description)
		fmt.Fprintf(&b, "- Sentiment: %s\n", tc.Sentiment)
		fmt.Fprintf(&b, "- Urgency: %s\n", tc.Urgency)
	}

	b.WriteString("\nSections:\n")
	for i, s := range sections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Title)
		fmt.Fprintf(&b, "   Category: %s | Priority: %s | Keywords: %s\n", s.Category, s.Priority, strings.Join(s.Keywords, ", "))
		fmt.Fprintf(&b, "   Content: %s\n", preview(s.Content, previewChars))
	}

	b.WriteString("\nReturn up to 5 section numbers, most relevant first, as a comma-separated list (for example: 3, 1, 7).")
	return b.String()
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
