package payments_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/payments"
	paymentdb "temple-portal/internal/payments/db"
	"temple-portal/internal/registration"
	registrationdb "temple-portal/internal/registration/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetPayment(eventID, userID string) (*models.Payment, error) {
	args := m.Called(eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockDBLayer) UpsertPayment(payment models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

type MockAttendeeGetter struct {
	mock.Mock
}

func (m *MockAttendeeGetter) GetAttendee(eventID, userID string) (*models.Attendee, error) {
	args := m.Called(eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attendee), args.Error(1)
}

type MockEventGetter struct {
	mock.Mock
}

func (m *MockEventGetter) Get(id string) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func newService(db *MockDBLayer, attendees *MockAttendeeGetter, events *MockEventGetter) *payments.Service {
	return payments.NewService(db, attendees, events, nil, 25, logger.NewLogger())
}

func testEvent() *models.Event {
	return &models.Event{ID: "event1", Name: "Diwali Celebration", EventDate: time.Now().Add(72 * time.Hour), Location: "Main Hall"}
}

func testAttendee(familyMembers int) *models.Attendee {
	return &models.Attendee{ID: "att1", EventID: "event1", UserID: "user1", NumberOfFamilyMembers: familyMembers}
}

func TestSuggestedAmount(t *testing.T) {
	svc := newService(new(MockDBLayer), new(MockAttendeeGetter), new(MockEventGetter))

	// amount = base price x (1 + family members)
	assert.Equal(t, 25.0, svc.SuggestedAmount(0))
	assert.Equal(t, 75.0, svc.SuggestedAmount(2))
	assert.Equal(t, 100.0, svc.SuggestedAmount(3))
}

func TestLoadWithoutRegistrationRedirects(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockAttendees := new(MockAttendeeGetter)
	mockEvents := new(MockEventGetter)
	svc := newService(mockDB, mockAttendees, mockEvents)

	mockEvents.On("Get", "event1").Return(testEvent(), nil)
	mockAttendees.On("GetAttendee", "event1", "user1").Return(nil, nil)

	_, err := svc.Load("event1", "user1")
	assert.True(t, errors.Is(err, models.ErrNotRegistered))
	mockDB.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
}

func TestLoadPrefillsAmount(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockAttendees := new(MockAttendeeGetter)
	mockEvents := new(MockEventGetter)
	svc := newService(mockDB, mockAttendees, mockEvents)

	mockEvents.On("Get", "event1").Return(testEvent(), nil)
	mockAttendees.On("GetAttendee", "event1", "user1").Return(testAttendee(2), nil)
	mockDB.On("GetPayment", "event1", "user1").Return(nil, nil)

	state, err := svc.Load("event1", "user1")
	assert.NoError(t, err)
	assert.Equal(t, 75.0, state.SuggestedAmount)
	assert.False(t, state.AlreadyPaid)
	assert.Nil(t, state.Payment)
}

func TestLoadLockedWhenCompleted(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockAttendees := new(MockAttendeeGetter)
	mockEvents := new(MockEventGetter)
	svc := newService(mockDB, mockAttendees, mockEvents)

	completed := &models.Payment{ID: "pay1", EventID: "event1", UserID: "user1", Status: models.StatusCompleted, Amount: 75}
	mockEvents.On("Get", "event1").Return(testEvent(), nil)
	mockAttendees.On("GetAttendee", "event1", "user1").Return(testAttendee(2), nil)
	mockDB.On("GetPayment", "event1", "user1").Return(completed, nil)

	state, err := svc.Load("event1", "user1")
	assert.NoError(t, err)
	assert.True(t, state.AlreadyPaid)
}

func TestRecordStatusByMethod(t *testing.T) {
	cases := []struct {
		method models.PaymentMethod
		status models.PaymentStatus
	}{
		{models.MethodCash, models.StatusPending},
		{models.MethodCreditCard, models.StatusCompleted},
		{models.MethodDebitCard, models.StatusCompleted},
		{models.MethodPaypal, models.StatusCompleted},
		{models.MethodBankTransfer, models.StatusCompleted},
	}

	for _, tc := range cases {
		mockDB := new(MockDBLayer)
		mockAttendees := new(MockAttendeeGetter)
		svc := newService(mockDB, mockAttendees, new(MockEventGetter))

		mockAttendees.On("GetAttendee", "event1", "user1").Return(testAttendee(1), nil)
		mockDB.On("GetPayment", "event1", "user1").Return(nil, nil)

		var recorded models.Payment
		mockDB.On("UpsertPayment", mock.AnythingOfType("models.Payment")).Run(func(args mock.Arguments) {
			recorded = args.Get(0).(models.Payment)
		}).Return(nil)

		_, err := svc.Record("event1", "user1", models.PaymentRequest{PaymentMethod: tc.method})
		assert.NoError(t, err)
		assert.Equal(t, tc.status, recorded.Status, "method %s", tc.method)
	}
}

func TestRecordRejectsUnknownMethod(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := newService(mockDB, new(MockAttendeeGetter), new(MockEventGetter))

	_, err := svc.Record("event1", "user1", models.PaymentRequest{PaymentMethod: "bitcoin"})
	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	mockDB.AssertNotCalled(t, "UpsertPayment", mock.Anything)
}

func TestRecordWithoutRegistration(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockAttendees := new(MockAttendeeGetter)
	svc := newService(mockDB, mockAttendees, new(MockEventGetter))

	mockAttendees.On("GetAttendee", "event1", "user1").Return(nil, nil)

	_, err := svc.Record("event1", "user1", models.PaymentRequest{PaymentMethod: models.MethodCash})
	assert.True(t, errors.Is(err, models.ErrNotRegistered))
}

func TestRecordLockedAfterCompletion(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockAttendees := new(MockAttendeeGetter)
	svc := newService(mockDB, mockAttendees, new(MockEventGetter))

	completed := &models.Payment{ID: "pay1", Status: models.StatusCompleted}
	mockAttendees.On("GetAttendee", "event1", "user1").Return(testAttendee(2), nil)
	mockDB.On("GetPayment", "event1", "user1").Return(completed, nil)

	_, err := svc.Record("event1", "user1", models.PaymentRequest{PaymentMethod: models.MethodPaypal})
	assert.True(t, errors.Is(err, models.ErrAlreadyPaid))
	mockDB.AssertNotCalled(t, "UpsertPayment", mock.Anything)
}

func TestRecordDerivesAmountWhenOmitted(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockAttendees := new(MockAttendeeGetter)
	svc := newService(mockDB, mockAttendees, new(MockEventGetter))

	mockAttendees.On("GetAttendee", "event1", "user1").Return(testAttendee(3), nil)
	mockDB.On("GetPayment", "event1", "user1").Return(nil, nil)

	var recorded models.Payment
	mockDB.On("UpsertPayment", mock.AnythingOfType("models.Payment")).Run(func(args mock.Arguments) {
		recorded = args.Get(0).(models.Payment)
	}).Return(nil)

	_, err := svc.Record("event1", "user1", models.PaymentRequest{PaymentMethod: models.MethodCash})
	assert.NoError(t, err)
	assert.Equal(t, 100.0, recorded.Amount)
}

func TestRecordAcceptsSuppliedAmount(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockAttendees := new(MockAttendeeGetter)
	svc := newService(mockDB, mockAttendees, new(MockEventGetter))

	mockAttendees.On("GetAttendee", "event1", "user1").Return(testAttendee(2), nil)
	mockDB.On("GetPayment", "event1", "user1").Return(nil, nil)

	var recorded models.Payment
	mockDB.On("UpsertPayment", mock.AnythingOfType("models.Payment")).Run(func(args mock.Arguments) {
		recorded = args.Get(0).(models.Payment)
	}).Return(nil)

	_, err := svc.Record("event1", "user1", models.PaymentRequest{PaymentMethod: models.MethodBankTransfer, Amount: 150})
	assert.NoError(t, err)
	assert.Equal(t, 150.0, recorded.Amount)
}

// Full workflow over real storage: register with two family members, load the
// payment form, pay cash, and end up with a pending payment of 75.
func TestRegistrationToCashPaymentWorkflow(t *testing.T) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	defer bunDB.Close()

	for _, model := range []interface{}{(*models.Attendee)(nil), (*models.Payment)(nil)} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(context.Background()); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	// The natural-key uniqueness the upserts rely on
	for name, model := range map[string]interface{}{
		"idx_attendees_event_user": (*models.Attendee)(nil),
		"idx_payments_event_user":  (*models.Payment)(nil),
	} {
		if _, err := bunDB.NewCreateIndex().
			Model(model).
			Index(name).
			Unique().
			Column("event_id", "user_id").
			Exec(context.Background()); err != nil {
			t.Fatalf("Failed to create unique index: %v", err)
		}
	}

	mockEvents := new(MockEventGetter)
	mockEvents.On("Get", "event1").Return(testEvent(), nil)

	attendeeDB := &registrationdb.DB{Bun: bunDB}
	log := logger.NewLogger()
	regSvc := registration.NewService(attendeeDB, mockEvents, nil, log)
	paySvc := payments.NewService(&paymentdb.DB{Bun: bunDB}, attendeeDB, mockEvents, nil, 25, log)

	_, err = regSvc.Submit("event1", "user1", models.RegistrationRequest{NumberOfFamilyMembers: 2})
	assert.NoError(t, err)

	state, err := paySvc.Load("event1", "user1")
	assert.NoError(t, err)
	assert.Equal(t, 75.0, state.SuggestedAmount)
	assert.False(t, state.AlreadyPaid)

	payment, err := paySvc.Record("event1", "user1", models.PaymentRequest{PaymentMethod: models.MethodCash})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, payment.Status)
	assert.Equal(t, 75.0, payment.Amount)

	state, err = paySvc.Load("event1", "user1")
	assert.NoError(t, err)
	assert.NotNil(t, state.Payment)
	assert.False(t, state.AlreadyPaid)
}
