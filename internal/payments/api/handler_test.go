package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/payments"
	"temple-portal/internal/payments/api"
	"temple-portal/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// In-memory stand-ins for the storage and event layers
type stubPaymentDB struct {
	payment *models.Payment
}

func (s *stubPaymentDB) GetPayment(eventID, userID string) (*models.Payment, error) {
	return s.payment, nil
}

func (s *stubPaymentDB) UpsertPayment(payment models.Payment) error {
	s.payment = &payment
	return nil
}

type stubAttendees struct {
	attendee *models.Attendee
}

func (s *stubAttendees) GetAttendee(eventID, userID string) (*models.Attendee, error) {
	return s.attendee, nil
}

type stubEvents struct{}

func (s *stubEvents) Get(id string) (*models.Event, error) {
	return &models.Event{ID: id, Name: "Diwali Celebration", EventDate: time.Now().Add(72 * time.Hour)}, nil
}

func newRouter(attendee *models.Attendee) *chi.Mux {
	svc := payments.NewService(&stubPaymentDB{}, &stubAttendees{attendee: attendee}, &stubEvents{}, nil, 25, logger.NewLogger())
	handler := api.NewHandler(svc, logger.NewLogger())

	r := chi.NewRouter()
	r.Route("/api/events/{eventId}/payment", func(r chi.Router) {
		r.Get("/", handler.GetPayment)
		r.Post("/", handler.SubmitPayment)
	})
	return r
}

func TestGetPaymentRedirectsUnregisteredActor(t *testing.T) {
	r := newRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/events/event1/payment/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/events/event1/registration", rec.Header().Get("Location"))
}

func TestSubmitPaymentRedirectsUnregisteredActor(t *testing.T) {
	r := newRouter(nil)

	body := strings.NewReader(`{"payment_method":"cash"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/api/events/event1/payment/", body))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/events/event1/registration", rec.Header().Get("Location"))
}

func TestSubmitPaymentCashMessage(t *testing.T) {
	registered := &models.Attendee{ID: "att1", EventID: "event1", UserID: "", NumberOfFamilyMembers: 2}
	r := newRouter(registered)

	body := strings.NewReader(`{"payment_method":"cash"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/api/events/event1/payment/", body))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp utils.APIResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Your cash payment will be collected at the event. Thank you!", resp.Message)
}
