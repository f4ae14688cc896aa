package events_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"temple-portal/internal/events"
	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) ListEvents(filter models.EventFilter, now time.Time) ([]models.Event, error) {
	args := m.Called(filter, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockDBLayer) GetEventByID(id string) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockDBLayer) CreateEvent(event models.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockDBLayer) UpdateEvent(event models.Event, columns []string) error {
	args := m.Called(event, columns)
	return args.Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, path string, content io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, path, content, contentType)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(topic string, key string, value []byte) error {
	args := m.Called(topic, key, value)
	return args.Error(0)
}

func newService(db *MockDBLayer, blob *MockBlobStore) *events.Service {
	return events.NewService(db, blob, policy.NewRolePolicy(), nil, logger.NewLogger())
}

func adminRoles() []string {
	return []string{policy.AdminRole}
}

func TestCreateEventRequiresAdminRole(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := newService(mockDB, new(MockBlobStore))

	input := models.EventInput{Name: "Diwali", Date: "2026-10-20", Time: "18:00", Location: "Main Hall"}

	_, err := svc.Create(context.Background(), "user1", []string{"member"}, input, nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPermissionDenied))
	mockDB.AssertNotCalled(t, "CreateEvent", mock.Anything)
}

func TestCreateEventValidation(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := newService(mockDB, new(MockBlobStore))

	_, err := svc.Create(context.Background(), "user1", adminRoles(), models.EventInput{Date: "2026-10-20", Location: "Hall"}, nil)
	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "name", validationErr.Field)

	_, err = svc.Create(context.Background(), "user1", adminRoles(), models.EventInput{Name: "Diwali", Location: "Hall"}, nil)
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "date", validationErr.Field)
}

func TestCreateEventAssemblesDate(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := newService(mockDB, new(MockBlobStore))

	var created models.Event
	mockDB.On("CreateEvent", mock.AnythingOfType("models.Event")).Run(func(args mock.Arguments) {
		created = args.Get(0).(models.Event)
	}).Return(nil)

	input := models.EventInput{Name: "Diwali", Date: "2026-10-20", Time: "18:30", Location: "Main Hall"}
	event, err := svc.Create(context.Background(), "user1", adminRoles(), input, nil)
	assert.NoError(t, err)

	expected, _ := time.Parse("2006-01-02 15:04", "2026-10-20 18:30")
	assert.Equal(t, expected, event.EventDate)
	assert.Equal(t, expected, created.EventDate)
	assert.Equal(t, "user1", created.CreatedBy)
	assert.Equal(t, "user1", created.UpdatedBy)
	mockDB.AssertExpectations(t)
}

func TestCreateEventUploadsImage(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockBlob := new(MockBlobStore)
	svc := newService(mockDB, mockBlob)

	mockBlob.On("Upload", mock.Anything, mock.Anything, mock.Anything, "image/png").
		Return("https://cdn.example.com/event-images/abc.png", nil)
	mockDB.On("CreateEvent", mock.MatchedBy(func(e models.Event) bool {
		return e.ImageURL == "https://cdn.example.com/event-images/abc.png"
	})).Return(nil)

	input := models.EventInput{Name: "Ugadi", Date: "2026-03-28", Location: "Community Center"}
	image := &events.ImageUpload{Filename: "flyer.png", Content: strings.NewReader("png-bytes"), ContentType: "image/png"}

	event, err := svc.Create(context.Background(), "admin1", adminRoles(), input, image)
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/event-images/abc.png", event.ImageURL)
	mockDB.AssertExpectations(t)
	mockBlob.AssertExpectations(t)
}

func TestUpdateEventPartialSemantics(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := newService(mockDB, new(MockBlobStore))

	existing := &models.Event{
		ID:        "event1",
		Name:      "Old Name",
		EventDate: time.Date(2026, 10, 20, 18, 0, 0, 0, time.UTC),
		Location:  "Main Hall",
		ImageURL:  "https://cdn.example.com/old.png",
	}
	mockDB.On("GetEventByID", "event1").Return(existing, nil)

	var columns []string
	mockDB.On("UpdateEvent", mock.AnythingOfType("models.Event"), mock.Anything).Run(func(args mock.Arguments) {
		columns = args.Get(1).([]string)
	}).Return(nil)

	// Only the name changes; image_url must not be in the column list
	updated, err := svc.Update(context.Background(), "event1", "admin1", adminRoles(), models.EventInput{Name: "New Name"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "https://cdn.example.com/old.png", updated.ImageURL)
	assert.Contains(t, columns, "name")
	assert.NotContains(t, columns, "image_url")
	assert.NotContains(t, columns, "event_date")
}

func TestUpdateEventNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := newService(mockDB, new(MockBlobStore))

	mockDB.On("GetEventByID", "missing").Return(nil, models.ErrNotFound)

	_, err := svc.Update(context.Background(), "missing", "admin1", adminRoles(), models.EventInput{Name: "X"}, nil)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
