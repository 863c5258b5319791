package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/docbooking/internal/domain"
	"github.com/mkravets/docbooking/internal/service/booking"
)

type MockLifecycleUseCase struct {
	mock.Mock
}

func (m *MockLifecycleUseCase) Pay(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockLifecycleUseCase) Cancel(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockLifecycleUseCase) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:          "appt-1",
		DoctorID:    4,
		UserID:      "user-1",
		SlotDate:    "2026-09-01",
		SlotTime:    "10:30",
		AmountCents: 15000,
	}
}

func TestAppointmentHandler_book(t *testing.T) {
	mockEngine := &MockBookingUseCase{}
	handler := NewAppointmentHandler(mockEngine, &MockLifecycleUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/user/book-appointment", bookAppointmentRequest{
		DoctorID: 4, UserID: "user-1", SlotDate: "2026-09-01", SlotTime: "10:30",
	})

	mockEngine.On("Book", c.Request.Context(), booking.BookInput{
		DoctorID: 4, UserID: "user-1", SlotDate: "2026-09-01", SlotTime: "10:30",
	}).Return(testAppointment(), nil)

	handler.book(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp appointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "appt-1", resp.ID)
	assert.Equal(t, "PENDING", resp.Status)

	mockEngine.AssertExpectations(t)
}

func TestAppointmentHandler_book_SlotUnavailable(t *testing.T) {
	mockEngine := &MockBookingUseCase{}
	handler := NewAppointmentHandler(mockEngine, &MockLifecycleUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/user/book-appointment", bookAppointmentRequest{
		DoctorID: 4, UserID: "user-1", SlotDate: "2026-09-01", SlotTime: "10:30",
	})

	mockEngine.On("Book", c.Request.Context(), mock.Anything).Return(nil, domain.ErrSlotUnavailable)

	handler.book(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAppointmentHandler_book_InvalidSlot(t *testing.T) {
	mockEngine := &MockBookingUseCase{}
	handler := NewAppointmentHandler(mockEngine, &MockLifecycleUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/user/book-appointment", bookAppointmentRequest{
		DoctorID: 4, UserID: "user-1", SlotDate: "2026-09-01", SlotTime: "10:15",
	})

	mockEngine.On("Book", c.Request.Context(), mock.Anything).Return(nil, domain.ErrInvalidSlot)

	handler.book(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentHandler_list(t *testing.T) {
	mockLifecycle := &MockLifecycleUseCase{}
	handler := NewAppointmentHandler(&MockBookingUseCase{}, mockLifecycle)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/user/appointments?user_id=user-1", nil)

	mockLifecycle.On("ListByUser", c.Request.Context(), "user-1").
		Return([]domain.Appointment{*testAppointment()}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Appointments []appointmentResponse `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "appt-1", resp.Appointments[0].ID)
}

func TestAppointmentHandler_list_MissingUserID(t *testing.T) {
	handler := NewAppointmentHandler(&MockBookingUseCase{}, &MockLifecycleUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/user/appointments", nil)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentHandler_pay(t *testing.T) {
	mockLifecycle := &MockLifecycleUseCase{}
	handler := NewAppointmentHandler(&MockBookingUseCase{}, mockLifecycle)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/user/make-payment", appointmentIDRequest{AppointmentID: "appt-1"})

	paid := testAppointment()
	paid.Payment = true
	mockLifecycle.On("Pay", c.Request.Context(), "appt-1").Return(paid, nil)

	handler.pay(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp appointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAID", resp.Status)
}

func TestAppointmentHandler_pay_AlreadyCancelled(t *testing.T) {
	mockLifecycle := &MockLifecycleUseCase{}
	handler := NewAppointmentHandler(&MockBookingUseCase{}, mockLifecycle)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/user/make-payment", appointmentIDRequest{AppointmentID: "appt-1"})

	mockLifecycle.On("Pay", c.Request.Context(), "appt-1").Return(nil, domain.ErrAlreadyCancelled)

	handler.pay(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAppointmentHandler_cancel(t *testing.T) {
	mockLifecycle := &MockLifecycleUseCase{}
	handler := NewAppointmentHandler(&MockBookingUseCase{}, mockLifecycle)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/user/cancel-appointment", appointmentIDRequest{AppointmentID: "appt-1"})

	cancelled := testAppointment()
	cancelled.Cancelled = true
	mockLifecycle.On("Cancel", c.Request.Context(), "appt-1").Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp appointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.True(t, resp.Cancelled)
}

func TestAppointmentHandler_cancel_NotFound(t *testing.T) {
	mockLifecycle := &MockLifecycleUseCase{}
	handler := NewAppointmentHandler(&MockBookingUseCase{}, mockLifecycle)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/user/cancel-appointment", appointmentIDRequest{AppointmentID: "missing"})

	mockLifecycle.On("Cancel", c.Request.Context(), "missing").Return(nil, domain.ErrAppointmentNotFound)

	handler.cancel(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
