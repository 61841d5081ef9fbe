package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medifront/frontdesk-backend/internal/admission"
	admissionHttp "github.com/medifront/frontdesk-backend/internal/admission/http"
	"github.com/medifront/frontdesk-backend/internal/appointment"
	appointmentHttp "github.com/medifront/frontdesk-backend/internal/appointment/http"
	"github.com/medifront/frontdesk-backend/internal/labtest"
	labtestHttp "github.com/medifront/frontdesk-backend/internal/labtest/http"
	"github.com/medifront/frontdesk-backend/internal/patient"
	patientHttp "github.com/medifront/frontdesk-backend/internal/patient/http"
	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/schedule"
	scheduleHttp "github.com/medifront/frontdesk-backend/internal/schedule/http"
)

// Config carries everything the router needs to assemble middleware and
// module routes.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	Logger             *zap.Logger
	Clock              clock.Clock
	PatientService     patient.Service
	AdmissionService   admission.Service
	AppointmentService appointment.Service
	LabTestService     labtest.Service
	ScheduleService    schedule.Service
}

// NewRouter initializes the HTTP router engine: recovery, request logging,
// CORS, and the /v1 routes of every front-desk module.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(cfg.Logger))

	// Configure CORS for the browser forms. Local dev allows the usual
	// frontend dev server ports; production uses the configured origins.
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081",
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	patientHandler := patientHttp.NewHandler(cfg.PatientService)
	admissionHandler := admissionHttp.NewHandler(cfg.AdmissionService)
	appointmentHandler := appointmentHttp.NewHandler(cfg.AppointmentService)
	labtestHandler := labtestHttp.NewHandler(cfg.LabTestService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService, cfg.Clock)

	v1 := r.Group("/v1")
	{
		patientHttp.RegisterRoutes(v1, patientHandler)
		admissionHttp.RegisterRoutes(v1, admissionHandler)
		appointmentHttp.RegisterRoutes(v1, appointmentHandler)
		labtestHttp.RegisterRoutes(v1, labtestHandler)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler)
	}

	return r
}

// RequestLogger is the structured replacement for gin.Logger.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
