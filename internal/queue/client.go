package queue

import "context"

// Client sends feedback messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg FeedbackMessage) error
}

// Delivery is one received message awaiting acknowledgement.
type Delivery struct {
	ID            string
	Body          string
	ReceiptHandle string
	ReceiveCount  int
}

// Receiver pulls messages and acknowledges the ones that should not be
// redelivered.
type Receiver interface {
	Receive(ctx context.Context) ([]Delivery, error)
	Ack(ctx context.Context, d Delivery) error
}
