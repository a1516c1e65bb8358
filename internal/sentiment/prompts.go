package sentiment

import (
	"fmt"
	"strings"
)

const sentimentInstructions = `Analyze the sentiment of this customer support ticket.

Classify the overall sentiment, score it from 0 (very negative) to 1 (very positive),
list the emotions the customer expresses, judge how urgently the ticket needs
attention, and extract the key phrases that drove your judgment.`

func buildSentimentPrompt(subject, description, customerHistory string) string {
	var b strings.Builder
	b.WriteString(sentimentInstructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Description: %s\n", description)
	if history := strings.TrimSpace(customerHistory); history != "" {
		fmt.Fprintf(&b, "\nCustomer History:\n%s\n", history)
	}
	return b.String()
}
