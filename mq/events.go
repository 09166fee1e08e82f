package mq

import "time"

const (
	MailOrderConfirmation = "order_confirmation"
	MailStatusUpdate      = "status_update"
	MailBackInStock       = "back_in_stock"
	MailBroadcast         = "broadcast"
)

// MailEvent is the message placed on the mail queue for the worker to send.
type MailEvent struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name,omitempty"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	OrderID string    `json:"orderId,omitempty"`
	SentAt  time.Time `json:"sentAt"`
}
