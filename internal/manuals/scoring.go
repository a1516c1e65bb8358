package manuals

import (
	"strings"

	"support-backend/internal/sentiment"
)

// relevanceScore is additive and capped at 1. The priority boost applies
// regardless of textual match.
func relevanceScore(s Section, query string, tc *TicketContext) float64 {
	q := strings.ToLower(query)
	title := strings.ToLower(s.Title)
	content := strings.ToLower(s.Content)

	score := 0.0
	if strings.Contains(title, q) {
		score += 0.4
	}

	if words := strings.Fields(q); len(words) > 0 {
		hits := 0
		for _, w := range words {
			if strings.Contains(content, w) {
				hits++
			}
		}
		score += 0.3 * float64(hits) / float64(len(words))
	}

	matched := len(matchedKeywords(s, query))
	score += 0.2 * float64(matched) / float64(max(len(s.Keywords), 1))

	switch s.Priority {
	case PriorityHigh:
		score += 0.1
	case PriorityMedium:
		score += 0.05
	}

	if tc != nil {
		if tc.Urgency == sentiment.UrgencyUrgent && s.Priority == PriorityHigh {
			score += 0.1
		}
		if tc.Sentiment == sentiment.Negative && s.Category == "Escalation" {
			score += 0.1
		}
	}

	return min(score, 1.0)
}

// matchedKeywords returns the section keywords contained in the query.
func matchedKeywords(s Section, query string) []string {
	q := strings.ToLower(query)
	out := []string{}
	for _, k := range s.Keywords {
		if k == "" {
			continue
		}
		if strings.Contains(q, strings.ToLower(k)) {
			out = append(out, k)
		}
	}
	return out
}
