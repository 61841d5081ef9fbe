package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medifront/frontdesk-backend/internal/admission"
	"github.com/medifront/frontdesk-backend/internal/allocator"
	"github.com/medifront/frontdesk-backend/internal/api"
	"github.com/medifront/frontdesk-backend/internal/appointment"
	"github.com/medifront/frontdesk-backend/internal/bedpool"
	"github.com/medifront/frontdesk-backend/internal/labtest"
	"github.com/medifront/frontdesk-backend/internal/patient"
	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/schedule"
	"github.com/medifront/frontdesk-backend/internal/store"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Store        store.Store
	Clock        clock.Clock
	Logger       *zap.Logger
	BedIDs       []string
	SlotGranules []string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine

	PatientService     patient.Service
	AdmissionService   admission.Service
	AppointmentService appointment.Service
	LabTestService     labtest.Service
	ScheduleService    schedule.Service
}

// NewContainer initializes all modules, loads persisted state, and returns
// the container.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	pool, err := bedpool.New(cfg.BedIDs)
	if err != nil {
		return nil, fmt.Errorf("invalid bed catalogue: %w", err)
	}

	alloc := allocator.New()

	// Patient module
	patientRepo := patient.NewSnapshotRepository(cfg.Store)
	patientService := patient.NewService(patientRepo, cfg.Clock)

	// Admission module (bed ledger)
	admissionRepo := admission.NewSnapshotRepository(cfg.Store)
	admissionService := admission.NewService(admissionRepo, pool, alloc, patientService, cfg.Clock)

	// Deleting a patient is refused while they occupy a bed; wired late to
	// keep the dependency one-way at construction time.
	patientService.SetAdmissionGuard(admissionService)

	// Appointment module (slot book)
	appointmentRepo := appointment.NewSnapshotRepository(cfg.Store)
	appointmentService := appointment.NewService(appointmentRepo, patientService, cfg.Clock)

	// Lab test module
	labtestRepo := labtest.NewSnapshotRepository(cfg.Store)
	labtestService := labtest.NewService(labtestRepo, patientService, cfg.Clock)

	// Schedule module (read-only facade)
	scheduleService := schedule.NewService(admissionService, appointmentService, pool, cfg.SlotGranules)

	// Load persisted state before serving.
	loaders := []func(context.Context) error{
		patientService.Load,
		admissionService.Load,
		appointmentService.Load,
		labtestService.Load,
	}
	for _, load := range loaders {
		if err := load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load persisted state: %w", err)
		}
	}

	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             cfg.Logger,
		Clock:              cfg.Clock,
		PatientService:     patientService,
		AdmissionService:   admissionService,
		AppointmentService: appointmentService,
		LabTestService:     labtestService,
		ScheduleService:    scheduleService,
	})

	return &Container{
		Router:             router,
		PatientService:     patientService,
		AdmissionService:   admissionService,
		AppointmentService: appointmentService,
		LabTestService:     labtestService,
		ScheduleService:    scheduleService,
	}, nil
}
