package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"courtside/internal/domain"
	"courtside/internal/metrics"
	"courtside/internal/models"
	"courtside/internal/service"
	"courtside/pkg/gateway"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingStore records whether any storage method ran. The webhook contract
// requires signature rejection to happen before storage is touched.
type trackingStore struct {
	touched bool
	events  map[string]*models.WebhookEvent
	nextID  uint
}

func newTrackingStore() *trackingStore {
	return &trackingStore{events: map[string]*models.WebhookEvent{}}
}

func (s *trackingStore) Record(_ context.Context, ev *models.WebhookEvent) (bool, error) {
	s.touched = true
	if _, ok := s.events[ev.EventID]; ok {
		return false, nil
	}
	s.nextID++
	ev.ID = s.nextID
	s.events[ev.EventID] = ev
	return true, nil
}

func (s *trackingStore) GetByEventID(_ context.Context, eventID string) (*models.WebhookEvent, error) {
	s.touched = true
	ev, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s not recorded", eventID)
	}
	return ev, nil
}

func (s *trackingStore) MarkProcessed(_ context.Context, id uint, status, note string) error {
	s.touched = true
	for _, ev := range s.events {
		if ev.ID == id {
			ev.Status = status
			ev.Note = note
		}
	}
	return nil
}

func (s *trackingStore) GetByID(context.Context, uint) (*models.Payment, error) {
	s.touched = true
	return nil, domain.ErrPaymentNotFound
}

func (s *trackingStore) GetByBookingID(context.Context, uint) (*models.Payment, error) {
	s.touched = true
	return nil, domain.ErrPaymentNotFound
}

func (s *trackingStore) GetByOrderID(context.Context, string) (*models.Payment, error) {
	s.touched = true
	return nil, domain.ErrPaymentNotFound
}

func (s *trackingStore) SetGatewayOrder(context.Context, uint, string) error {
	s.touched = true
	return nil
}

func (s *trackingStore) Capture(context.Context, string, string, string) (*models.Payment, bool, error) {
	s.touched = true
	return nil, false, domain.ErrPaymentNotFound
}

func (s *trackingStore) Fail(context.Context, string) (*models.Payment, bool, error) {
	s.touched = true
	return nil, false, domain.ErrPaymentNotFound
}

func (s *trackingStore) FailByBooking(context.Context, uint) error {
	s.touched = true
	return nil
}

func (s *trackingStore) CreateChecked(context.Context, *models.Refund) error {
	s.touched = true
	return domain.ErrPaymentNotFound
}

func (s *trackingStore) GetRefundByID(context.Context, uint) (*models.Refund, error) {
	s.touched = true
	return nil, domain.ErrRefundNotFound
}

func (s *trackingStore) ListByPayment(context.Context, uint) ([]models.Refund, error) {
	s.touched = true
	return nil, nil
}

func (s *trackingStore) SetGatewayRef(context.Context, uint, string) error {
	s.touched = true
	return nil
}

func (s *trackingStore) MarkFailed(context.Context, uint) error {
	s.touched = true
	return nil
}

func (s *trackingStore) Settle(context.Context, string, bool) (*models.Refund, bool, error) {
	s.touched = true
	return nil, false, domain.ErrRefundNotFound
}

type refundStoreView struct{ *trackingStore }

func (v refundStoreView) GetByID(ctx context.Context, id uint) (*models.Refund, error) {
	return v.GetRefundByID(ctx, id)
}

const testSecret = "whsec_test"

func newWebhookRouter(store *trackingStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()
	m := metrics.New(prometheus.NewRegistry())
	reconciler := service.NewReconciler(store, store, refundStoreView{store}, nil, m, logger)
	h := NewWebhookHandler(reconciler, testSecret, logger)
	r := gin.New()
	r.POST("/api/v1/webhooks/gateway", h.Handle)
	return r
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/gateway", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsBadSignatureBeforeStorage(t *testing.T) {
	store := newTrackingStore()
	r := newWebhookRouter(store)
	body := []byte(`{"id":"evt_1","event":"payment.captured","payload":{"payment":{"id":"pay_1","order_id":"order_1","amount":100}}}`)

	w := postWebhook(r, body, gateway.Sign("wrong-secret", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, store.touched, "storage must not be touched on signature failure")

	w = postWebhook(r, body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, store.touched)
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	store := newTrackingStore()
	r := newWebhookRouter(store)
	body := []byte(`{"id":`)

	w := postWebhook(r, body, gateway.Sign(testSecret, body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, store.touched)
}

func TestWebhookAcknowledgesValidDelivery(t *testing.T) {
	store := newTrackingStore()
	r := newWebhookRouter(store)
	// Unknown order: the event is recorded and flagged, delivery acked.
	body := []byte(`{"id":"evt_1","event":"payment.captured","payload":{"payment":{"id":"pay_1","order_id":"order_nope","amount":100}}}`)

	w := postWebhook(r, body, gateway.Sign(testSecret, body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.touched)
	require.Contains(t, store.events, "evt_1")
	assert.Equal(t, "FLAGGED", store.events["evt_1"].Status)
}
