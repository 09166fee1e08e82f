// Package worker drains the mail queue and hands each event to the mailer.
package worker

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"lensbox/mailer"
	"lensbox/mq"
)

type Worker struct {
	workerID  int
	channel   *amqp.Channel
	queueName string
	mailer    *mailer.Mailer
}

func NewWorker(workerID int, conn *amqp.Connection, queueName string, m *mailer.Mailer) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for worker %d: %w", workerID, err)
	}

	// One in-flight message per worker.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS for worker %d: %w", workerID, err)
	}

	return &Worker{
		workerID:  workerID,
		channel:   ch,
		queueName: queueName,
		mailer:    m,
	}, nil
}

func (w *Worker) Start(wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.channel.Close()

	msgs, err := w.channel.Consume(
		w.queueName,
		fmt.Sprintf("mail-worker-%d", w.workerID),
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Worker %d failed to register consumer: %v", w.workerID, err)
		return
	}

	log.Printf("Worker %d started and waiting for mail events", w.workerID)

	for msg := range msgs {
		w.processMessage(msg)
	}

	log.Printf("Worker %d stopped", w.workerID)
}

func (w *Worker) processMessage(msg amqp.Delivery) {
	var event mq.MailEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Worker %d: Failed to unmarshal mail event: %v", w.workerID, err)
		// Malformed, do not requeue.
		msg.Nack(false, false)
		return
	}

	if err := w.mailer.Send(event); err != nil {
		log.Printf("Worker %d: %v", w.workerID, err)
		// Transient delivery failure, requeue for another attempt.
		msg.Nack(false, true)
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Printf("Worker %d: Failed to acknowledge message: %v", w.workerID, err)
	} else {
		log.Printf("Worker %d: Sent %s mail to %s", w.workerID, event.Kind, event.To)
	}
}

func (w *Worker) Stop() {
	if w.channel != nil {
		w.channel.Close()
	}
}
