package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_HappyPath(t *testing.T) {
	o := &Order{Status: StatusPendingConfirmation}
	assert.True(t, o.CanTransitionTo(StatusConfirmed))

	o.Status = StatusConfirmed
	assert.True(t, o.CanTransitionTo(StatusPreparing))

	o.Status = StatusPreparing
	assert.True(t, o.CanTransitionTo(StatusReadyForPickup))

	o.Status = StatusReadyForPickup
	assert.True(t, o.CanTransitionTo(StatusOutForDelivery))

	o.Status = StatusOutForDelivery
	assert.True(t, o.CanTransitionTo(StatusDelivered))
}

func TestCanTransitionTo_SkippingStagesRejected(t *testing.T) {
	o := &Order{Status: StatusPendingConfirmation}
	assert.False(t, o.CanTransitionTo(StatusPreparing))
	assert.False(t, o.CanTransitionTo(StatusDelivered))

	o.Status = StatusConfirmed
	assert.False(t, o.CanTransitionTo(StatusOutForDelivery))
}

func TestCanTransitionTo_TerminalStatesFrozen(t *testing.T) {
	for _, terminal := range []string{StatusDelivered, StatusCancelled, StatusFailed} {
		o := &Order{Status: terminal}
		for _, next := range ValidStatuses() {
			assert.False(t, o.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestCanTransitionTo_BackwardsRejected(t *testing.T) {
	o := &Order{Status: StatusPreparing}
	assert.False(t, o.CanTransitionTo(StatusConfirmed))
	assert.False(t, o.CanTransitionTo(StatusPendingConfirmation))
}

func TestIsActive(t *testing.T) {
	active := []string{StatusPendingConfirmation, StatusConfirmed, StatusPreparing, StatusReadyForPickup, StatusOutForDelivery}
	for _, s := range active {
		assert.True(t, (&Order{Status: s}).IsActive(), s)
	}

	done := []string{StatusDelivered, StatusCancelled, StatusFailed}
	for _, s := range done {
		assert.False(t, (&Order{Status: s}).IsActive(), s)
	}
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, (&Order{Status: StatusPendingConfirmation}).IsCancellable())
	assert.True(t, (&Order{Status: StatusConfirmed}).IsCancellable())
	assert.True(t, (&Order{Status: StatusPreparing}).IsCancellable())

	assert.False(t, (&Order{Status: StatusReadyForPickup}).IsCancellable())
	assert.False(t, (&Order{Status: StatusOutForDelivery}).IsCancellable())
	assert.False(t, (&Order{Status: StatusDelivered}).IsCancellable())
	assert.False(t, (&Order{Status: StatusCancelled}).IsCancellable())
}

func TestNextStatus_Progression(t *testing.T) {
	assert.Equal(t, StatusConfirmed, (&Order{Status: StatusPendingConfirmation}).NextStatus())
	assert.Equal(t, StatusPreparing, (&Order{Status: StatusConfirmed}).NextStatus())
	assert.Equal(t, StatusReadyForPickup, (&Order{Status: StatusPreparing}).NextStatus())
	assert.Equal(t, StatusOutForDelivery, (&Order{Status: StatusReadyForPickup}).NextStatus())
	assert.Equal(t, StatusDelivered, (&Order{Status: StatusOutForDelivery}).NextStatus())
}

func TestNextStatus_TerminalReturnsEmpty(t *testing.T) {
	assert.Empty(t, (&Order{Status: StatusDelivered}).NextStatus())
	assert.Empty(t, (&Order{Status: StatusCancelled}).NextStatus())
	assert.Empty(t, (&Order{Status: StatusFailed}).NextStatus())
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses() {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("shipped"))
	assert.False(t, IsValidStatus(""))
}
