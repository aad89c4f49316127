package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"minibizz/planning/internal/auth"
	"minibizz/planning/internal/calendar"
	"minibizz/planning/internal/domain"
	"minibizz/planning/internal/service/scheduling"
	"minibizz/planning/internal/store"
)

type SchedulingServer struct {
	svc schedulingService
	log *slog.Logger
}

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
}

func NewSchedulingServer(svc schedulingService, log *slog.Logger) *SchedulingServer {
	if log == nil {
		log = slog.Default()
	}
	return &SchedulingServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.scheduling")),
	}
}

// fail maps service errors onto gRPC status codes and logs them at the
// matching level.
func fail(log *slog.Logger, op string, err error, attrs ...any) error {
	var vErr *scheduling.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.Is(err, store.ErrNotFound):
		log.Info(op+" not found", attrs...)
		return status.Error(codes.NotFound, op+" not found")
	default:
		log.Error(op+" failed", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.Internal, "internal error")
	}
}

// owner returns the caller resolved by OwnerInterceptor. A request naming a
// different owner is refused.
func (s *SchedulingServer) owner(ctx context.Context, log *slog.Logger, requested string) (string, error) {
	owner, ok := auth.OwnerFrom(ctx)
	if !ok {
		log.Warn("unauthenticated request")
		return "", status.Error(codes.Unauthenticated, "missing credentials")
	}
	if r := strings.TrimSpace(requested); r != "" && r != owner {
		log.Warn("owner mismatch", slog.String("owner_id", owner), slog.String("requested_owner_id", r))
		return "", status.Error(codes.PermissionDenied, "owner_id does not match the caller")
	}
	return owner, nil
}

func invalid(log *slog.Logger, reason, msg string, attrs ...any) error {
	log.Warn("invalid request", append([]any{slog.String("reason", reason)}, attrs...)...)
	return status.Error(codes.InvalidArgument, msg)
}

func (s *SchedulingServer) SaveAppointment(ctx context.Context, req *SaveAppointmentRequest) (*SaveAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "SaveAppointment"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if req.Start == nil || req.End == nil {
		return nil, invalid(log, "missing_times", "start and end are required", slog.String("owner_id", owner))
	}

	appt, err := s.svc.SaveAppointment(ctx, owner, scheduling.SaveInput{
		ID:             req.ID,
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
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, fail(log, "appointment save", err, slog.String("owner_id", owner))
	}

	log.Info(
		"appointment saved",
		slog.String("appointment_id", appt.ID),
		slog.String("owner_id", owner),
		slog.Time("start", appt.Start),
		slog.Time("end", appt.End),
	)
	return &SaveAppointmentResponse{Appointment: appt}, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (s *SchedulingServer) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}

	appts, err := s.svc.ListAppointments(ctx, owner)
	if err != nil {
		return nil, fail(log, "appointments list", err, slog.String("owner_id", owner))
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}

	log.Debug("appointments listed", slog.String("owner_id", owner), slog.Int("count", len(appts)))
	return &ListAppointmentsResponse{Appointments: appts}, nil
}

func (s *SchedulingServer) DeleteAppointment(ctx context.Context, req *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "DeleteAppointment"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.svc.DeleteAppointment(ctx, owner, req.AppointmentID); err != nil {
		return nil, fail(log, "appointment delete", err,
			slog.String("appointment_id", req.AppointmentID), slog.String("owner_id", owner))
	}

	log.Info("appointment deleted", slog.String("appointment_id", req.AppointmentID), slog.String("owner_id", owner))
	return &DeleteAppointmentResponse{}, nil
}

func (s *SchedulingServer) SetAppointmentStatus(ctx context.Context, req *SetAppointmentStatusRequest) (*SetAppointmentStatusResponse, error) {
	log := s.log.With(slog.String("rpc", "SetAppointmentStatus"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}

	appt, err := s.svc.SetStatus(ctx, owner, req.AppointmentID, req.Status)
	if err != nil {
		return nil, fail(log, "appointment", err,
			slog.String("appointment_id", req.AppointmentID), slog.String("owner_id", owner))
	}

	log.Info(
		"appointment status changed",
		slog.String("appointment_id", appt.ID),
		slog.String("owner_id", owner),
		slog.String("status", string(appt.Status)),
	)
	return &SetAppointmentStatusResponse{Appointment: appt}, nil
}

func (s *SchedulingServer) SaveBlock(ctx context.Context, req *SaveBlockRequest) (*SaveBlockResponse, error) {
	log := s.log.With(slog.String("rpc", "SaveBlock"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if req.Start == nil || req.End == nil {
		return nil, invalid(log, "missing_times", "start and end are required", slog.String("owner_id", owner))
	}

	b, err := s.svc.SaveBlock(ctx, owner, scheduling.BlockInput{
		ID:             req.ID,
		Start:          *req.Start,
		End:            *req.End,
		Availability:   req.Availability,
		Reason:         req.Reason,
		Recurrence:     req.Recurrence,
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, fail(log, "block save", err, slog.String("owner_id", owner))
	}

	log.Info("block saved", slog.String("block_id", b.ID), slog.String("owner_id", owner))
	return &SaveBlockResponse{Block: b}, nil
}

func (s *SchedulingServer) ListBlocks(ctx context.Context, req *ListBlocksRequest) (*ListBlocksResponse, error) {
	log := s.log.With(slog.String("rpc", "ListBlocks"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}

	blocks, err := s.svc.ListBlocks(ctx, owner)
	if err != nil {
		return nil, fail(log, "blocks list", err, slog.String("owner_id", owner))
	}
	if blocks == nil {
		blocks = []domain.UnavailabilityBlock{}
	}

	log.Debug("blocks listed", slog.String("owner_id", owner), slog.Int("count", len(blocks)))
	return &ListBlocksResponse{Blocks: blocks}, nil
}

func (s *SchedulingServer) DeleteBlock(ctx context.Context, req *DeleteBlockRequest) (*DeleteBlockResponse, error) {
	log := s.log.With(slog.String("rpc", "DeleteBlock"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.svc.DeleteBlock(ctx, owner, req.BlockID); err != nil {
		return nil, fail(log, "block delete", err, slog.String("block_id", req.BlockID), slog.String("owner_id", owner))
	}

	log.Info("block deleted", slog.String("block_id", req.BlockID), slog.String("owner_id", owner))
	return &DeleteBlockResponse{}, nil
}

func (s *SchedulingServer) GenerateDeadlines(ctx context.Context, req *GenerateDeadlinesRequest) (*GenerateDeadlinesResponse, error) {
	log := s.log.With(slog.String("rpc", "GenerateDeadlines"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}

	deadlines, err := s.svc.GenerateDeadlines(ctx, owner)
	if err != nil {
		return nil, fail(log, "deadlines", err, slog.String("owner_id", owner))
	}

	out := make([]domain.Item, 0, len(deadlines))
	for _, d := range deadlines {
		out = append(out, d.Item())
	}

	log.Debug("deadlines generated", slog.String("owner_id", owner), slog.Int("count", len(out)))
	return &GenerateDeadlinesResponse{Deadlines: out}, nil
}

func (s *SchedulingServer) FindFreeSlots(ctx context.Context, req *FindFreeSlotsRequest) (*FindFreeSlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "FindFreeSlots"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(req.Day), s.svc.Location())
	if err != nil {
		return nil, invalid(log, "invalid_day", "day must be YYYY-MM-DD", slog.String("owner_id", owner))
	}

	slots, err := s.svc.FindFreeSlots(ctx, owner, day, req.Minutes)
	if err != nil {
		return nil, fail(log, "free slots", err, slog.String("owner_id", owner))
	}
	if slots == nil {
		slots = []domain.FreeSlot{}
	}

	log.Debug(
		"free slots found",
		slog.String("owner_id", owner),
		slog.String("day", req.Day),
		slog.Int("minutes", req.Minutes),
		slog.Int("count", len(slots)),
	)
	return &FindFreeSlotsResponse{Slots: slots}, nil
}

func (s *SchedulingServer) Agenda(ctx context.Context, req *AgendaRequest) (*AgendaResponse, error) {
	log := s.log.With(slog.String("rpc", "Agenda"))

	if req == nil {
		return nil, invalid(log, "nil_request", "request is required")
	}
	owner, err := s.owner(ctx, log, req.OwnerID)
	if err != nil {
		return nil, err
	}
	view, err := calendar.ParseView(req.View)
	if err != nil {
		return nil, invalid(log, "invalid_view", "view must be day, week or month", slog.String("owner_id", owner))
	}
	var date time.Time
	if d := strings.TrimSpace(req.Date); d != "" {
		date, err = time.ParseInLocation(time.DateOnly, d, s.svc.Location())
		if err != nil {
			return nil, invalid(log, "invalid_date", "date must be YYYY-MM-DD", slog.String("owner_id", owner))
		}
	}

	items, err := s.svc.Agenda(ctx, owner, domain.AgendaQuery{
		View:     view,
		Date:     date,
		Search:   req.Search,
		Kind:     req.Kind,
		Priority: req.Priority,
	})
	if err != nil {
		return nil, fail(log, "agenda", err, slog.String("owner_id", owner))
	}
	if items == nil {
		items = []domain.Item{}
	}

	log.Debug("agenda listed", slog.String("owner_id", owner), slog.String("view", string(view)), slog.Int("count", len(items)))
	return &AgendaResponse{Items: items}, nil
}
