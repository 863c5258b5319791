package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/docbooking/internal/domain"
	"github.com/mkravets/docbooking/internal/service/booking"
	"github.com/mkravets/docbooking/internal/service/doctors"
)

type DoctorHandler struct {
	doctors   doctors.DoctorUseCase
	scheduler booking.BookingUseCase
}

type doctorResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Speciality  string `json:"speciality"`
	FeesCents   int64  `json:"fees_cents"`
	WorkStart   string `json:"work_start"`
	WorkEnd     string `json:"work_end"`
	SlotMinutes int    `json:"slot_minutes"`
}

func NewDoctorHandler(doctorSvc doctors.DoctorUseCase, scheduler booking.BookingUseCase) *DoctorHandler {
	return &DoctorHandler{doctors: doctorSvc, scheduler: scheduler}
}

func (h *DoctorHandler) Register(router *gin.RouterGroup) {
	router.GET("/list", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/slots", h.slots)
}

func (h *DoctorHandler) list(c *gin.Context) {
	doctorList, err := h.doctors.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]doctorResponse, 0, len(doctorList))
	for _, d := range doctorList {
		resp = append(resp, toDoctorResponse(&d))
	}
	c.JSON(http.StatusOK, gin.H{"doctors": resp})
}

func (h *DoctorHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return
	}
	doctor, err := h.doctors.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDoctorResponse(doctor))
}

// slots answers "what's free" for a doctor on a date.
func (h *DoctorHandler) slots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	free, err := h.scheduler.Availability(c.Request.Context(), id, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor_id": id, "date": date, "slots": free})
}

func toDoctorResponse(d *domain.Doctor) doctorResponse {
	return doctorResponse{
		ID:          d.ID,
		Name:        d.Name,
		Speciality:  d.Speciality,
		FeesCents:   d.FeesCents,
		WorkStart:   d.Window.Start,
		WorkEnd:     d.Window.End,
		SlotMinutes: d.Window.SlotMinutes,
	}
}
