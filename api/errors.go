package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/docbooking/internal/domain"
)

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDoctorNotFound),
		errors.Is(err, domain.ErrAppointmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSlotUnavailable),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrAlreadyPaid):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
