package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusConfirmed, StatusShipped},
		{StatusConfirmed, StatusCancelled},
		{StatusShipped, StatusDelivered},
		{StatusShipped, StatusCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		{StatusConfirmed, StatusDelivered}, // cannot skip shipped
		{StatusShipped, StatusConfirmed},   // no going back
		{StatusDelivered, StatusShipped},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		{StatusCancelled, StatusShipped},
		{StatusConfirmed, StatusConfirmed}, // no self transition
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	assert.Empty(t, NextStatuses(StatusDelivered))
	assert.Empty(t, NextStatuses(StatusCancelled))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("pending"))
	assert.False(t, IsValidStatus(""))
}
