package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	"github.com/BruksfildServices01/reservas-api/internal/config"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/handlers"
	"github.com/BruksfildServices01/reservas-api/internal/infra/storage"
	"github.com/BruksfildServices01/reservas-api/internal/logger"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	ucReservation "github.com/BruksfildServices01/reservas-api/internal/usecase/reservation"
)

// SlotsCache is the available-slots cache shared by the use cases and the
// location handler.
type SlotsCache interface {
	ucReservation.SlotCache
	handlers.LocationCache
}

// Deps are the singletons built by main. Store may be nil when S3 is not
// configured.
type Deps struct {
	Config *config.Config
	Log    *logger.Logger
	Clock  clock.Clock
	Audit  *audit.Dispatcher

	Reservations domain.Repository
	Locations    domain.LocationRepository
	Users        handlers.UserStore
	AuditLogs    handlers.AuditLogLister

	Cache SlotsCache
	Store storage.ObjectStore
}

func RegisterRoutes(r *gin.Engine, d Deps) error {

	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	granularity := domain.ParseGranularity(d.Config.BillingGranularity)

	// ======================================================
	// USE CASES
	// ======================================================
	createReservationUC := ucReservation.NewCreateReservation(
		d.Reservations,
		d.Clock,
		d.Cache,
		d.Audit,
		granularity,
	)

	cancelReservationUC := ucReservation.NewCancelReservation(
		d.Reservations,
		d.Clock,
		d.Cache,
		d.Audit,
	)

	updatePaymentStatusUC := ucReservation.NewUpdatePaymentStatus(
		d.Reservations,
		d.Clock,
		d.Audit,
	)

	getAvailabilityUC := ucReservation.NewGetAvailability(
		d.Reservations,
		d.Cache,
		granularity,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Users, d.Config, d.Clock)
	meHandler := handlers.NewMeHandler(d.Users)

	reservationHandler := handlers.NewReservationHandler(
		createReservationUC,
		cancelReservationUC,
		ucReservation.NewGetReservation(d.Reservations),
		ucReservation.NewListReservations(d.Reservations),
	)

	paymentHandler := handlers.NewPaymentHandler(updatePaymentStatusUC)
	dashboardHandler := handlers.NewDashboardHandler(
		ucReservation.NewOwnerDashboard(d.Reservations, d.Clock),
	)

	locationHandler := handlers.NewLocationHandler(
		d.Locations,
		LocationDefaults(d.Config.LocationDefaults),
		d.Cache,
		d.Audit,
	)
	locationImageHandler := handlers.NewLocationImageHandler(d.Locations, d.Store, d.Audit)

	publicHandler := handlers.NewPublicHandler(d.Locations, getAvailabilityUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogs)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PÚBLICO
		// ------------------------------
		api.GET("/locations", publicHandler.ListLocations)
		api.GET("/locations/:id", publicHandler.GetLocation)
		api.GET("/locations/:id/available-slots", publicHandler.AvailableSlots)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// WEBHOOK DE PAGAMENTO
		// ------------------------------
		webhooks := api.Group("/payments")
		webhooks.Use(middleware.WebhookSecret(d.Config.PaymentWebhookSecret, d.Log))
		{
			webhooks.POST("/:id/status", paymentHandler.UpdateStatus)
		}

		// ------------------------------
		// PRIVADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/audit-logs", auditLogsHandler.List)
			secured.GET("/auth/user-type", authHandler.UserType)
			secured.POST("/auth/refresh", authHandler.Refresh)

			secured.POST("/locations", locationHandler.Create)
			secured.PATCH("/locations/:id", locationHandler.Update)
			secured.DELETE("/locations/:id", locationHandler.Deactivate)
			secured.POST("/locations/:id/images", locationImageHandler.Upload)
			secured.DELETE("/locations/:id/images/:imageId", locationImageHandler.Delete)

			secured.GET("/owner/locations", locationHandler.ListMine)
			secured.GET("/owner/dashboard", dashboardHandler.Owner)

			secured.POST("/reservations", reservationHandler.Create)
			secured.GET("/reservations", reservationHandler.List)
			secured.GET("/reservations/:id", reservationHandler.Get)
			secured.PATCH("/reservations/:id/cancel", reservationHandler.Cancel)

			secured.GET("/customer/reservations", reservationHandler.CustomerHistory)
		}
	}

	return nil
}

// LocationDefaults converts the configured defaults. Unparseable hours fall
// back to 08:00-18:00.
func LocationDefaults(cfg config.LocationDefaults) domain.LocationDefaults {
	opening, err := models.ParseTimeOfDay(cfg.Opening)
	if err != nil {
		opening = models.NewTimeOfDay(8, 0)
	}
	closing, err := models.ParseTimeOfDay(cfg.Closing)
	if err != nil {
		closing = models.NewTimeOfDay(18, 0)
	}

	return domain.LocationDefaults{
		Opening:           opening,
		Closing:           closing,
		CancellationHours: cfg.CancellationHours,
		MaxDuration:       cfg.MaxDuration,
		Timezone:          cfg.Timezone,
	}
}
