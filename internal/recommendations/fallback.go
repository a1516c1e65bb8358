package recommendations

import (
	"fmt"
	"time"

	"support-backend/internal/sentiment"
)

// fallbackRecommendation is the fixed plan used when nothing could be generated.
func fallbackRecommendation(rc Context, now time.Time) Recommendation {
	var steps []Step
	if rc.SentimentAnalysis.Sentiment == sentiment.Negative {
		steps = append(steps, Step{
			Title:             "Priority handling",
			Description:       "The customer is unhappy. Respond promptly and acknowledge their frustration.",
			Type:              StepCommunication,
			IsRequired:        true,
			EstimatedDuration: "5 minutes",
		})
	}
	steps = append(steps,
		Step{
			Title:             "Acknowledge the customer",
			Description:       "Confirm receipt of the ticket and set expectations for the next update.",
			Type:              StepCommunication,
			IsRequired:        true,
			EstimatedDuration: "5 minutes",
		},
		Step{
			Title:             "Investigate the issue",
			Description:       "Review the ticket details, reproduce the problem, and gather the information needed to resolve it.",
			Type:              StepInvestigation,
			IsRequired:        true,
			EstimatedDuration: "15-30 minutes",
		},
	)
	numberSteps(steps)

	priority := PriorityMedium
	if rc.SentimentAnalysis.Urgency == sentiment.UrgencyUrgent {
		priority = PriorityUrgent
	}

	return Recommendation{
		ID:               recommendationID(rc.Ticket.ID, "fallback", now),
		Title:            "Standard support response",
		Description:      "Acknowledge the customer and investigate the reported issue.",
		Priority:         priority,
		Category:         CategoryImmediate,
		Steps:            steps,
		EstimatedTime:    "20-40 minutes",
		RequiredSkills:   []string{"Customer communication", "Troubleshooting"},
		SuccessMetrics:   []string{"Customer acknowledged", "Root cause identified"},
		Reasoning:        "Standard playbook used because no tailored plan could be generated.",
		Confidence:       0.6,
		ManualReferences: []string{},
		CreatedAt:        now,
	}
}

func numberSteps(steps []Step) {
	for i := range steps {
		steps[i].ID = fmt.Sprintf("step-%d", i+1)
		steps[i].Order = i + 1
	}
}

func recommendationID(ticketID, variant string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d", ticketID, variant, now.UnixMilli())
}
