package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventPaymentCaptured(t *testing.T) {
	body := []byte(`{"id":"evt_1","event":"payment.captured","payload":{"payment":{"id":"pay_1","order_id":"order_1","amount":60180,"currency":"INR","method":"upi","status":"captured"}}}`)
	ev, err := ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, ev.Kind)
	assert.Equal(t, "evt_1", ev.ID)
	require.NotNil(t, ev.Payment)
	assert.Equal(t, "order_1", ev.Payment.OrderID)
	assert.Equal(t, int64(60180), ev.Payment.AmountPaise)
	assert.Nil(t, ev.Refund)
}

func TestParseEventRefundProcessed(t *testing.T) {
	body := []byte(`{"id":"evt_2","event":"refund.processed","payload":{"refund":{"id":"rfnd_1","payment_id":"pay_1","amount":60180}}}`)
	ev, err := ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventRefundProcessed, ev.Kind)
	require.NotNil(t, ev.Refund)
	assert.Equal(t, "rfnd_1", ev.Refund.ID)
}

func TestParseEventUnknownType(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"id":"evt_3","event":"subscription.charged","payload":{}}`))
	require.NoError(t, err)
	assert.Equal(t, EventUnknown, ev.Kind)
	assert.Equal(t, "subscription.charged", ev.Type)
}

func TestParseEventMissingEntityDowngrades(t *testing.T) {
	// A known event name without its entity cannot be applied safely.
	ev, err := ParseEvent([]byte(`{"id":"evt_4","event":"payment.captured","payload":{}}`))
	require.NoError(t, err)
	assert.Equal(t, EventUnknown, ev.Kind)
}

func TestParseEventMalformedJSON(t *testing.T) {
	_, err := ParseEvent([]byte(`{"id":`))
	require.Error(t, err)
}
