package recommendations

import (
	"fmt"
	"strings"

	"support-backend/internal/manuals"
)

const guidancePreviewChars = 300

const alternativeInstruction = `

Provide an ALTERNATIVE approach that differs strategically from the standard
resolution path. Consider a different communication style, a different order
of investigation, or a proactive remedy the customer would not expect.`

func buildPlanPrompt(rc Context, guidance []manuals.SearchResult) string {
	var b strings.Builder
	b.WriteString("You are a senior customer support lead. Create an actionable plan an agent can follow step by step.\n\n")

	writeTicket(&b, rc)

	a := rc.SentimentAnalysis
	b.WriteString("\nSentiment Analysis:\n")
	fmt.Fprintf(&b, "- Sentiment: %s (score %.2f, confidence %.2f)\n", a.Sentiment, a.Score, a.Confidence)
	fmt.Fprintf(&b, "- Urgency: %s\n", a.Urgency)
	if len(a.Emotions) > 0 {
		fmt.Fprintf(&b, "- Emotions: %s\n", strings.Join(a.Emotions, ", "))
	}
	if len(a.KeyPhrases) > 0 {
		fmt.Fprintf(&b, "- Key phrases: %s\n", strings.Join(a.KeyPhrases, ", "))
	}

	if history := strings.TrimSpace(rc.CustomerHistory); history != "" {
		fmt.Fprintf(&b, "\nCustomer History:\n%s\n", history)
	}

	if len(guidance) > 0 {
		b.WriteString("\nRelevant Manual Sections:\n")
		for i, g := range guidance {
			fmt.Fprintf(&b, "%d. %s [%s, relevance %.2f]\n", i+1, g.Section.Title, g.Section.Category, g.RelevanceScore)
			fmt.Fprintf(&b, "   %s\n", truncate(g.Section.Content, guidancePreviewChars))
		}
		b.WriteString("Reference the sections you rely on by title in manualReferences.\n")
	}

	b.WriteString("\nEach step must be concrete, typed, and marked required or optional. ")
	b.WriteString("Match the priority to the urgency and the tone to the customer's sentiment.")
	return b.String()
}

func buildEscalationPrompt(rc Context) string {
	var b strings.Builder
	b.WriteString("A frustrated customer needs urgent attention. Create an escalation plan that hands the ticket to a senior agent or manager.\n\n")
	writeTicket(&b, rc)
	fmt.Fprintf(&b, "\nSentiment: %s, Urgency: %s\n", rc.SentimentAnalysis.Sentiment, rc.SentimentAnalysis.Urgency)
	b.WriteString("\nFocus on de-escalation, ownership, and a clear follow-up commitment.")
	return b.String()
}

func writeTicket(b *strings.Builder, rc Context) {
	t := rc.Ticket
	b.WriteString("Ticket:\n")
	fmt.Fprintf(b, "- ID: %s\n", t.ID)
	fmt.Fprintf(b, "- Subject: %s\n", t.Subject)
	fmt.Fprintf(b, "- Description: %s\n", t.Description)
	if t.Priority != "" {
		fmt.Fprintf(b, "- Priority: %s\n", t.Priority)
	}
	if t.Status != "" {
		fmt.Fprintf(b, "- Status: %s\n", t.Status)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
