package controllers

import (
	"log"

	"lensbox/mq"
	"lensbox/payment"
)

var (
	mailPublisher *mq.Publisher
	gateway       *payment.Client
)

// Init wires the payment gateway client and the mail publisher into the
// handlers. Called once from main before routes are served.
func Init(g *payment.Client, p *mq.Publisher) {
	gateway = g
	mailPublisher = p
}

// publishMail is best-effort: a full queue or broker outage must not fail
// the request that triggered the mail.
func publishMail(event mq.MailEvent) {
	if mailPublisher == nil {
		return
	}
	if err := mailPublisher.PublishMail(event); err != nil {
		log.Printf("Failed to publish %s mail for %s: %v", event.Kind, event.To, err)
	}
}
