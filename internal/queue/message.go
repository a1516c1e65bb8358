package queue

import "encoding/json"

// MessageVersion is bumped when FeedbackMessage changes shape.
const MessageVersion = 1

// FeedbackMessage carries agent feedback on a recommendation to downstream
// consumers.
type FeedbackMessage struct {
	TicketID             string `json:"ticketId"`
	RecommendationID     string `json:"recommendationId"`
	Effectiveness        int    `json:"effectiveness"`
	TimeToComplete       *int   `json:"timeToComplete,omitempty"`
	CustomerSatisfaction *int   `json:"customerSatisfaction,omitempty"`
	Notes                string `json:"notes,omitempty"`
	SubmittedAt          string `json:"submittedAt"`
	Version              int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg FeedbackMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a FeedbackMessage.
func DecodeMessage(payload []byte) (FeedbackMessage, error) {
	var msg FeedbackMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return FeedbackMessage{}, err
	}
	return msg, nil
}
