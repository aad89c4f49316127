package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"minibizz/planning/internal/calendar"
	"minibizz/planning/internal/domain"
	"minibizz/planning/internal/service/scheduling"
	"minibizz/planning/internal/store"
)

const defaultSlotMinutes = 60

type appointmentRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	Notes       string           `json:"notes"`
	ClientID    string           `json:"clientId"`
	Start       *time.Time       `json:"start"`
	End         *time.Time       `json:"end"`
	Kind        domain.Kind      `json:"kind"`
	Status      domain.Status    `json:"status"`
	Priority    domain.Priority  `json:"priority"`
	Reminder    *domain.Reminder `json:"reminder"`
}

type statusRequest struct {
	Status domain.Status `json:"status"`
}

type blockRequest struct {
	Start        *time.Time          `json:"start"`
	End          *time.Time          `json:"end"`
	Availability domain.Availability `json:"availability"`
	Reason       string              `json:"reason"`
	Recurrence   *domain.Recurrence  `json:"recurrence"`
}

// fail maps service errors onto HTTP status codes and logs them at the
// matching level.
func fail(log *slog.Logger, op string, err error, attrs ...any) error {
	var vErr *scheduling.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, attrs...)...)
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.Is(err, store.ErrNotFound):
		log.Info(op+" not found", attrs...)
		return echo.NewHTTPError(http.StatusNotFound, op+" not found")
	default:
		log.Error(op+" failed", append([]any{slog.Any("err", err)}, attrs...)...)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func invalid(log *slog.Logger, reason, msg string, attrs ...any) error {
	log.Warn("invalid request", append([]any{slog.String("reason", reason)}, attrs...)...)
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func (h *Handler) logger(route string) *slog.Logger {
	return h.log.With(slog.String("route", route))
}

func (h *Handler) ListAppointments(c echo.Context) error {
	log := h.logger("appointments.list")
	owner := ownerFrom(c)

	appts, err := h.svc.ListAppointments(c.Request().Context(), owner)
	if err != nil {
		return fail(log, "appointments list", err, slog.String("owner_id", owner))
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}
	log.Debug("appointments listed", slog.String("owner_id", owner), slog.Int("count", len(appts)))
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	return h.saveAppointment(c, "", http.StatusCreated)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	return h.saveAppointment(c, c.Param("id"), http.StatusOK)
}

func (h *Handler) saveAppointment(c echo.Context, id string, code int) error {
	log := h.logger("appointments.save")
	owner := ownerFrom(c)

	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return invalid(log, "bad_body", "invalid request body", slog.String("owner_id", owner))
	}
	if req.Start == nil || req.End == nil {
		return invalid(log, "missing_times", "start and end are required", slog.String("owner_id", owner))
	}

	appt, err := h.svc.SaveAppointment(c.Request().Context(), owner, scheduling.SaveInput{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Notes:          req.Notes,
		ClientID:       req.ClientID,
		Start:          *req.Start,
		End:            *req.End,
		Kind:           req.Kind,
		Status:         req.Status,
		Priority:       req.Priority,
		Reminder:       req.Reminder,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return fail(log, "appointment save", err, slog.String("owner_id", owner))
	}

	log.Info(
		"appointment saved",
		slog.String("appointment_id", appt.ID),
		slog.String("owner_id", owner),
		slog.Time("start", appt.Start),
		slog.Time("end", appt.End),
	)
	return c.JSON(code, appt)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	log := h.logger("appointments.delete")
	owner := ownerFrom(c)
	id := c.Param("id")

	if err := h.svc.DeleteAppointment(c.Request().Context(), owner, id); err != nil {
		return fail(log, "appointment delete", err, slog.String("owner_id", owner), slog.String("appointment_id", id))
	}
	log.Info("appointment deleted", slog.String("owner_id", owner), slog.String("appointment_id", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetStatus(c echo.Context) error {
	log := h.logger("appointments.status")
	owner := ownerFrom(c)
	id := c.Param("id")

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return invalid(log, "bad_body", "invalid request body", slog.String("owner_id", owner))
	}

	appt, err := h.svc.SetStatus(c.Request().Context(), owner, id, req.Status)
	if err != nil {
		return fail(log, "appointment", err, slog.String("owner_id", owner), slog.String("appointment_id", id))
	}
	log.Info("appointment status changed", slog.String("appointment_id", id), slog.String("status", string(appt.Status)))
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListBlocks(c echo.Context) error {
	log := h.logger("unavailability.list")
	owner := ownerFrom(c)

	blocks, err := h.svc.ListBlocks(c.Request().Context(), owner)
	if err != nil {
		return fail(log, "blocks list", err, slog.String("owner_id", owner))
	}
	if blocks == nil {
		blocks = []domain.UnavailabilityBlock{}
	}
	log.Debug("blocks listed", slog.String("owner_id", owner), slog.Int("count", len(blocks)))
	return c.JSON(http.StatusOK, blocks)
}

func (h *Handler) CreateBlock(c echo.Context) error {
	return h.saveBlock(c, "", http.StatusCreated)
}

func (h *Handler) UpdateBlock(c echo.Context) error {
	return h.saveBlock(c, c.Param("id"), http.StatusOK)
}

func (h *Handler) saveBlock(c echo.Context, id string, code int) error {
	log := h.logger("unavailability.save")
	owner := ownerFrom(c)

	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return invalid(log, "bad_body", "invalid request body", slog.String("owner_id", owner))
	}
	if req.Start == nil || req.End == nil {
		return invalid(log, "missing_times", "start and end are required", slog.String("owner_id", owner))
	}

	b, err := h.svc.SaveBlock(c.Request().Context(), owner, scheduling.BlockInput{
		ID:             id,
		Start:          *req.Start,
		End:            *req.End,
		Availability:   req.Availability,
		Reason:         req.Reason,
		Recurrence:     req.Recurrence,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return fail(log, "block save", err, slog.String("owner_id", owner))
	}
	log.Info("block saved", slog.String("block_id", b.ID), slog.String("owner_id", owner))
	return c.JSON(code, b)
}

func (h *Handler) DeleteBlock(c echo.Context) error {
	log := h.logger("unavailability.delete")
	owner := ownerFrom(c)
	id := c.Param("id")

	if err := h.svc.DeleteBlock(c.Request().Context(), owner, id); err != nil {
		return fail(log, "block delete", err, slog.String("owner_id", owner), slog.String("block_id", id))
	}
	log.Info("block deleted", slog.String("owner_id", owner), slog.String("block_id", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Deadlines(c echo.Context) error {
	log := h.logger("deadlines")
	owner := ownerFrom(c)

	deadlines, err := h.svc.GenerateDeadlines(c.Request().Context(), owner)
	if err != nil {
		return fail(log, "deadlines", err, slog.String("owner_id", owner))
	}
	items := make([]domain.Item, 0, len(deadlines))
	for _, d := range deadlines {
		items = append(items, d.Item())
	}
	log.Debug("deadlines generated", slog.String("owner_id", owner), slog.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) FreeSlots(c echo.Context) error {
	log := h.logger("free-slots")
	owner := ownerFrom(c)

	day, err := h.parseDay(c.QueryParam("day"))
	if err != nil {
		return invalid(log, "bad_day", "day must be YYYY-MM-DD", slog.String("owner_id", owner))
	}
	minutes := defaultSlotMinutes
	if raw := c.QueryParam("minutes"); raw != "" {
		minutes, err = strconv.Atoi(raw)
		if err != nil {
			return invalid(log, "bad_minutes", "minutes must be an integer", slog.String("owner_id", owner))
		}
	}

	slots, err := h.svc.FindFreeSlots(c.Request().Context(), owner, day, minutes)
	if err != nil {
		return fail(log, "free slots", err, slog.String("owner_id", owner))
	}
	if slots == nil {
		slots = []domain.FreeSlot{}
	}
	log.Debug("free slots found", slog.String("owner_id", owner), slog.Int("count", len(slots)))
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) Agenda(c echo.Context) error {
	log := h.logger("agenda")
	owner := ownerFrom(c)

	items, _, err := h.agenda(c, log, owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

type gridDay struct {
	Date  string        `json:"date"`
	Today bool          `json:"today"`
	Items []domain.Item `json:"items"`
}

type gridResponse struct {
	View     calendar.View `json:"view"`
	Date     string        `json:"date"`
	Previous string        `json:"previous"`
	Next     string        `json:"next"`
	Days     []gridDay     `json:"days"`
}

// Grid lays the agenda of the period out day by day, with the dates of the
// neighbouring periods for navigation.
func (h *Handler) Grid(c echo.Context) error {
	log := h.logger("grid")
	owner := ownerFrom(c)

	items, q, err := h.agenda(c, log, owner)
	if err != nil {
		return err
	}

	loc := h.svc.Location()
	today := h.now().In(loc)
	days := calendar.PeriodDays(q.View, q.Date)
	resp := gridResponse{
		View:     q.View,
		Date:     q.Date.Format(time.DateOnly),
		Previous: calendar.Step(q.View, q.Date, -1).Format(time.DateOnly),
		Next:     calendar.Step(q.View, q.Date, 1).Format(time.DateOnly),
		Days:     make([]gridDay, 0, len(days)),
	}
	for _, d := range days {
		gd := gridDay{
			Date:  d.Format(time.DateOnly),
			Today: calendar.IsSameDay(d, today),
			Items: []domain.Item{},
		}
		for _, it := range items {
			if calendar.IsSameDay(d, it.Start) {
				gd.Items = append(gd.Items, it)
			}
		}
		resp.Days = append(resp.Days, gd)
	}
	return c.JSON(http.StatusOK, resp)
}

// agenda reads the period query shared by the agenda, export and grid routes.
func (h *Handler) agenda(c echo.Context, log *slog.Logger, owner string) ([]domain.Item, domain.AgendaQuery, error) {
	view, err := calendar.ParseView(c.QueryParam("view"))
	if err != nil {
		return nil, domain.AgendaQuery{}, invalid(log, "bad_view", "view must be day, week or month", slog.String("owner_id", owner))
	}
	date, err := h.parseDay(c.QueryParam("date"))
	if err != nil {
		return nil, domain.AgendaQuery{}, invalid(log, "bad_date", "date must be YYYY-MM-DD", slog.String("owner_id", owner))
	}
	q := domain.AgendaQuery{
		View:     view,
		Date:     date,
		Search:   c.QueryParam("q"),
		Kind:     domain.Kind(c.QueryParam("kind")),
		Priority: domain.Priority(c.QueryParam("priority")),
	}

	items, err := h.svc.Agenda(c.Request().Context(), owner, q)
	if err != nil {
		return nil, q, fail(log, "agenda", err, slog.String("owner_id", owner))
	}
	if items == nil {
		items = []domain.Item{}
	}
	log.Debug("agenda composed", slog.String("owner_id", owner), slog.String("view", string(view)), slog.Int("count", len(items)))
	return items, q, nil
}

// parseDay reads a YYYY-MM-DD date in the service location; empty means today.
func (h *Handler) parseDay(raw string) (time.Time, error) {
	loc := h.svc.Location()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return calendar.StartOfDay(h.now().In(loc)), nil
	}
	return time.ParseInLocation(time.DateOnly, raw, loc)
}

func (h *Handler) ListClients(c echo.Context) error {
	log := h.logger("clients.list")
	owner := ownerFrom(c)

	clients, err := h.svc.ListClients(c.Request().Context(), owner)
	if err != nil {
		return fail(log, "clients list", err, slog.String("owner_id", owner))
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *Handler) SyncClient(c echo.Context) error {
	log := h.logger("clients.sync")
	owner := ownerFrom(c)

	var client domain.Client
	if err := c.Bind(&client); err != nil {
		return invalid(log, "bad_body", "invalid request body", slog.String("owner_id", owner))
	}
	client.ID = c.Param("id")
	if err := h.svc.SyncClient(c.Request().Context(), owner, client); err != nil {
		return fail(log, "client sync", err, slog.String("owner_id", owner), slog.String("client_id", client.ID))
	}
	log.Info("client synced", slog.String("owner_id", owner), slog.String("client_id", client.ID))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SyncQuote(c echo.Context) error {
	log := h.logger("quotes.sync")
	owner := ownerFrom(c)

	var q domain.Quote
	if err := c.Bind(&q); err != nil {
		return invalid(log, "bad_body", "invalid request body", slog.String("owner_id", owner))
	}
	q.ID = c.Param("id")
	if err := h.svc.SyncQuote(c.Request().Context(), owner, q); err != nil {
		return fail(log, "quote sync", err, slog.String("owner_id", owner), slog.String("quote_id", q.ID))
	}
	log.Info("quote synced", slog.String("owner_id", owner), slog.String("quote_id", q.ID))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SyncInvoice(c echo.Context) error {
	log := h.logger("invoices.sync")
	owner := ownerFrom(c)

	var inv domain.Invoice
	if err := c.Bind(&inv); err != nil {
		return invalid(log, "bad_body", "invalid request body", slog.String("owner_id", owner))
	}
	inv.ID = c.Param("id")
	if err := h.svc.SyncInvoice(c.Request().Context(), owner, inv); err != nil {
		return fail(log, "invoice sync", err, slog.String("owner_id", owner), slog.String("invoice_id", inv.ID))
	}
	log.Info("invoice synced", slog.String("owner_id", owner), slog.String("invoice_id", inv.ID))
	return c.NoContent(http.StatusNoContent)
}
