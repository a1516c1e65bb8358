package helpdesk

import (
	"strconv"
	"time"
)

// Ticket is a helpdesk ticket as served to the dashboard.
type Ticket struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Priority    string    `json:"priority,omitempty"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags"`
	RequesterID string    `json:"requesterId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// wireTicket is the ticket shape returned by the helpdesk REST API.
type wireTicket struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Priority    *string   `json:"priority"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w wireTicket) toTicket() Ticket {
	t := Ticket{
		ID:          strconv.FormatInt(w.ID, 10),
		Subject:     w.Subject,
		Description: w.Description,
		Status:      w.Status,
		Tags:        w.Tags,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if w.Priority != nil {
		t.Priority = *w.Priority
	}
	if w.RequesterID != 0 {
		t.RequesterID = strconv.FormatInt(w.RequesterID, 10)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

type ticketListResponse struct {
	Tickets  []wireTicket `json:"tickets"`
	NextPage *string      `json:"next_page"`
}

type ticketResponse struct {
	Ticket wireTicket `json:"ticket"`
}
