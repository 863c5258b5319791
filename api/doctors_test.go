package api

import (
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

type MockDoctorUseCase struct {
	mock.Mock
}

func (m *MockDoctorUseCase) List(ctx context.Context) ([]domain.Doctor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Doctor), args.Error(1)
}

func (m *MockDoctorUseCase) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Book(ctx context.Context, input booking.BookInput) (*domain.Appointment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockBookingUseCase) Availability(ctx context.Context, doctorID int64, date string) ([]string, error) {
	args := m.Called(ctx, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestDoctorHandler_list(t *testing.T) {
	mockDoctors := &MockDoctorUseCase{}
	handler := NewDoctorHandler(mockDoctors, &MockBookingUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/doctor/list", nil)

	doctorList := []domain.Doctor{
		{ID: 1, Name: "Dr. Sarah Johnson", Speciality: "Cardiologist", FeesCents: 15000,
			Window: domain.ScheduleWindow{Start: "10:00", End: "21:00", SlotMinutes: 30}},
	}
	mockDoctors.On("List", c.Request.Context()).Return(doctorList, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Doctors []doctorResponse `json:"doctors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Doctors, 1)
	assert.Equal(t, "Dr. Sarah Johnson", resp.Doctors[0].Name)
	assert.Equal(t, int64(15000), resp.Doctors[0].FeesCents)

	mockDoctors.AssertExpectations(t)
}

func TestDoctorHandler_get_NotFound(t *testing.T) {
	mockDoctors := &MockDoctorUseCase{}
	handler := NewDoctorHandler(mockDoctors, &MockBookingUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("GET", "/api/doctor/99", nil)

	mockDoctors.On("GetByID", c.Request.Context(), int64(99)).Return(nil, domain.ErrDoctorNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDoctorHandler_slots(t *testing.T) {
	mockScheduler := &MockBookingUseCase{}
	handler := NewDoctorHandler(&MockDoctorUseCase{}, mockScheduler)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/doctor/1/slots?date=2026-09-01", nil)

	mockScheduler.On("Availability", c.Request.Context(), int64(1), "2026-09-01").
		Return([]string{"10:00", "11:00", "11:30"}, nil)

	handler.slots(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Slots []string `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"10:00", "11:00", "11:30"}, resp.Slots)

	mockScheduler.AssertExpectations(t)
}

func TestDoctorHandler_slots_MissingDate(t *testing.T) {
	handler := NewDoctorHandler(&MockDoctorUseCase{}, &MockBookingUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/doctor/1/slots", nil)

	handler.slots(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
