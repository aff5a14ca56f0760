package events

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitConfirmSkipsStaleTags(t *testing.T) {
	acks := make(chan amqp.Confirmation, 3)
	acks <- amqp.Confirmation{DeliveryTag: 1, Ack: false}
	acks <- amqp.Confirmation{DeliveryTag: 2, Ack: true}
	acks <- amqp.Confirmation{DeliveryTag: 3, Ack: true}

	require.NoError(t, awaitConfirm(context.Background(), acks, 3))
	assert.Empty(t, acks)
}

func TestAwaitConfirmNack(t *testing.T) {
	acks := make(chan amqp.Confirmation, 1)
	acks <- amqp.Confirmation{DeliveryTag: 4, Ack: false}

	err := awaitConfirm(context.Background(), acks, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected delivery 4")
}

func TestAwaitConfirmClosedChannel(t *testing.T) {
	acks := make(chan amqp.Confirmation)
	close(acks)

	assert.ErrorIs(t, awaitConfirm(context.Background(), acks, 1), errConfirmsClosed)
}

func TestAwaitConfirmTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, awaitConfirm(ctx, make(chan amqp.Confirmation), 1), context.DeadlineExceeded)
}
