// Package http serves the calendar UI's JSON API with Echo.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"minibizz/planning/internal/domain"
	"minibizz/planning/internal/service/scheduling"
)

type schedulingService interface {
	Location() *time.Location
	ListAppointments(ctx context.Context, owner string) ([]domain.Appointment, error)
	SaveAppointment(ctx context.Context, owner string, in scheduling.SaveInput) (domain.Appointment, error)
	DeleteAppointment(ctx context.Context, owner, id string) error
	SetStatus(ctx context.Context, owner, id string, status domain.Status) (domain.Appointment, error)
	ListBlocks(ctx context.Context, owner string) ([]domain.UnavailabilityBlock, error)
	SaveBlock(ctx context.Context, owner string, in scheduling.BlockInput) (domain.UnavailabilityBlock, error)
	DeleteBlock(ctx context.Context, owner, id string) error
	GenerateDeadlines(ctx context.Context, owner string) ([]domain.Deadline, error)
	FindFreeSlots(ctx context.Context, owner string, day time.Time, minutes int) ([]domain.FreeSlot, error)
	Agenda(ctx context.Context, owner string, q domain.AgendaQuery) ([]domain.Item, error)
	SyncQuote(ctx context.Context, owner string, q domain.Quote) error
	SyncInvoice(ctx context.Context, owner string, inv domain.Invoice) error
	SyncClient(ctx context.Context, owner string, c domain.Client) error
	ListClients(ctx context.Context, owner string) ([]domain.Client, error)
}

type Handler struct {
	svc schedulingService
	log *slog.Logger
	now func() time.Time
}

func NewHandler(svc schedulingService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		svc: svc,
		log: log.With(slog.String("component", "http.scheduling")),
		now: time.Now,
	}
}

// NewServer builds the Echo instance with every route mounted. Routes under
// /api require an owner resolved by auth.
func NewServer(h *Handler, auth echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", auth)
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
	api.PATCH("/appointments/:id/status", h.SetStatus)

	api.GET("/unavailability", h.ListBlocks)
	api.POST("/unavailability", h.CreateBlock)
	api.PUT("/unavailability/:id", h.UpdateBlock)
	api.DELETE("/unavailability/:id", h.DeleteBlock)

	api.GET("/deadlines", h.Deadlines)
	api.GET("/free-slots", h.FreeSlots)
	api.GET("/agenda", h.Agenda)
	api.GET("/agenda/export.xlsx", h.ExportAgenda)
	api.GET("/grid", h.Grid)

	api.GET("/clients", h.ListClients)
	api.PUT("/clients/:id", h.SyncClient)
	api.PUT("/quotes/:id", h.SyncQuote)
	api.PUT("/invoices/:id", h.SyncInvoice)

	return e
}
