package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPlacedPayload struct {
	OrderID string `json:"order_id"`
	Total   int64  `json:"total"`
}

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	event, err := NewEvent("foodfleet.order.placed", "order-001", "order", "foodfleet-api",
		orderPlacedPayload{OrderID: "order-001", Total: 3953})

	require.NoError(t, err)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "foodfleet.order.placed", event.EventType)
	assert.Equal(t, "order-001", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, "foodfleet-api", event.Source)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("foodfleet.order.placed", "order-001", "order", "foodfleet-api", make(chan int))
	assert.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("foodfleet.cart.updated", "sess-001", "cart", "foodfleet-api",
		orderPlacedPayload{OrderID: "order-001", Total: 3953})
	require.NoError(t, err)

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, event.EventType, decoded.EventType)

	var payload orderPlacedPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "order-001", payload.OrderID)
	assert.Equal(t, int64(3953), payload.Total)
}

func TestEvent_WithCorrelationIDAndMetadata(t *testing.T) {
	event, err := NewEvent("foodfleet.cart.cleared", "sess-001", "cart", "foodfleet-api", nil)
	require.NoError(t, err)

	event.WithCorrelationID("corr-123").WithMetadata("attempt", "1")

	assert.Equal(t, "corr-123", event.CorrelationID)
	assert.Equal(t, "1", event.Metadata["attempt"])
}
