package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mkravets/docbooking/api"
	"github.com/mkravets/docbooking/config"
	"github.com/mkravets/docbooking/internal/service/booking"
	"github.com/mkravets/docbooking/internal/service/doctors"
	"github.com/mkravets/docbooking/internal/service/lifecycle"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	doctorSvc doctors.DoctorUseCase,
	engine booking.BookingUseCase,
	lifecycleSvc lifecycle.LifecycleUseCase,
	log zerolog.Logger,
) error {
	router := NewRouter(doctorSvc, engine, lifecycleSvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("address", cfg.HTTP.Address).Msg("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine with all handlers registered.
func NewRouter(
	doctorSvc doctors.DoctorUseCase,
	engine booking.BookingUseCase,
	lifecycleSvc lifecycle.LifecycleUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	doctorHandler := api.NewDoctorHandler(doctorSvc, engine)
	doctorHandler.Register(router.Group("/api/doctor"))

	appointmentHandler := api.NewAppointmentHandler(engine, lifecycleSvc)
	appointmentHandler.Register(router.Group("/api/user"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
