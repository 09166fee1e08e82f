package mq

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestChannelPoolClosedGuards(t *testing.T) {
	pool := &ChannelPool{channels: make(chan *amqp.Channel, 2)}

	pool.Close()

	assert.NotPanics(t, pool.Close, "closing an already-closed pool must be a no-op")

	_, err := pool.GetChannel()
	assert.EqualError(t, err, "channel pool is closed")

	assert.NotPanics(t, func() { pool.ReturnChannel(nil) })
}
