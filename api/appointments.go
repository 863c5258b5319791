package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/docbooking/internal/domain"
	"github.com/mkravets/docbooking/internal/service/booking"
	"github.com/mkravets/docbooking/internal/service/lifecycle"
)

type AppointmentHandler struct {
	engine    booking.BookingUseCase
	lifecycle lifecycle.LifecycleUseCase
}

type bookAppointmentRequest struct {
	DoctorID int64  `json:"doctor_id"`
	UserID   string `json:"user_id"`
	SlotDate string `json:"slot_date"`
	SlotTime string `json:"slot_time"`
}

type appointmentIDRequest struct {
	AppointmentID string `json:"appointment_id"`
}

type appointmentResponse struct {
	ID          string `json:"id"`
	DoctorID    int64  `json:"doctor_id"`
	UserID      string `json:"user_id"`
	SlotDate    string `json:"slot_date"`
	SlotTime    string `json:"slot_time"`
	AmountCents int64  `json:"amount_cents"`
	Payment     bool   `json:"payment"`
	Cancelled   bool   `json:"cancelled"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func NewAppointmentHandler(engine booking.BookingUseCase, lifecycleSvc lifecycle.LifecycleUseCase) *AppointmentHandler {
	return &AppointmentHandler{engine: engine, lifecycle: lifecycleSvc}
}

func (h *AppointmentHandler) Register(router *gin.RouterGroup) {
	router.POST("/book-appointment", h.book)
	router.GET("/appointments", h.list)
	router.POST("/make-payment", h.pay)
	router.POST("/cancel-appointment", h.cancel)
}

func (h *AppointmentHandler) book(c *gin.Context) {
	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.engine.Book(c.Request.Context(), booking.BookInput{
		DoctorID: req.DoctorID,
		UserID:   req.UserID,
		SlotDate: req.SlotDate,
		SlotTime: req.SlotTime,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAppointmentResponse(appt))
}

func (h *AppointmentHandler) list(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	appointments, err := h.lifecycle.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]appointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		resp = append(resp, toAppointmentResponse(&a))
	}
	c.JSON(http.StatusOK, gin.H{"appointments": resp})
}

func (h *AppointmentHandler) pay(c *gin.Context) {
	var req appointmentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.lifecycle.Pay(c.Request.Context(), req.AppointmentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (h *AppointmentHandler) cancel(c *gin.Context) {
	var req appointmentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.lifecycle.Cancel(c.Request.Context(), req.AppointmentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		UserID:      a.UserID,
		SlotDate:    a.SlotDate,
		SlotTime:    a.SlotTime,
		AmountCents: a.AmountCents,
		Payment:     a.Payment,
		Cancelled:   a.Cancelled,
		Status:      string(a.Status()),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}
