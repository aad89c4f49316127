package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"minibizz/planning/internal/domain"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type AppointmentStore interface {
	List(ctx context.Context, owner string) ([]domain.Appointment, error)
	Get(ctx context.Context, owner, id string) (domain.Appointment, error)
	Save(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error)
	Delete(ctx context.Context, owner, id string) error
}

type BlockStore interface {
	List(ctx context.Context, owner string) ([]domain.UnavailabilityBlock, error)
	Save(ctx context.Context, owner string, b domain.UnavailabilityBlock) (domain.UnavailabilityBlock, error)
	Delete(ctx context.Context, owner, id string) error
}

type DocumentStore interface {
	ListQuotes(ctx context.Context, owner string) ([]domain.Quote, error)
	ListInvoices(ctx context.Context, owner string) ([]domain.Invoice, error)
	ListClients(ctx context.Context, owner string) ([]domain.Client, error)
	SaveQuote(ctx context.Context, owner string, q domain.Quote) error
	SaveInvoice(ctx context.Context, owner string, inv domain.Invoice) error
	SaveClient(ctx context.Context, owner string, c domain.Client) error
}

type Options struct {
	// Location is the zone in which days and working hours are read.
	Location         *time.Location
	Hours            domain.WorkingHours
	ExpandRecurrence bool
	Now              func() time.Time
}

type Service struct {
	appts  AppointmentStore
	blocks BlockStore
	docs   DocumentStore

	loc    *time.Location
	hours  domain.WorkingHours
	expand bool
	now    func() time.Time
}

func NewService(appts AppointmentStore, blocks BlockStore, docs DocumentStore, opts Options) *Service {
	s := &Service{
		appts:  appts,
		blocks: blocks,
		docs:   docs,
		loc:    opts.Location,
		hours:  opts.Hours,
		expand: opts.ExpandRecurrence,
		now:    opts.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.hours.End <= s.hours.Start {
		s.hours = domain.DefaultWorkingHours
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Location is the zone used to interpret calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return validationError("owner_id is required")
	}
	return nil
}

// dayIn returns midnight of t's calendar date in loc.
func dayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func (s *Service) entries(ctx context.Context, owner string) ([]domain.Entry, error) {
	appts, err := s.appts.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	deadlines, err := s.deadlines(ctx, owner)
	if err != nil {
		return nil, err
	}
	return domain.Entries(appts, deadlines), nil
}

func (s *Service) deadlines(ctx context.Context, owner string) ([]domain.Deadline, error) {
	quotes, err := s.docs.ListQuotes(ctx, owner)
	if err != nil {
		return nil, err
	}
	invoices, err := s.docs.ListInvoices(ctx, owner)
	if err != nil {
		return nil, err
	}
	return domain.SynthesizeDeadlines(quotes, invoices, s.now()), nil
}

// GenerateDeadlines rebuilds the deadline entries from the owner's current
// quotes and invoices.
func (s *Service) GenerateDeadlines(ctx context.Context, owner string) ([]domain.Deadline, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.deadlines(ctx, owner)
}

// FindFreeSlots searches the working hours of day's calendar date in the
// service location.
func (s *Service) FindFreeSlots(ctx context.Context, owner string, day time.Time, minutes int) ([]domain.FreeSlot, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if minutes <= 0 {
		return nil, validationError("minutes must be positive")
	}

	entries, err := s.entries(ctx, owner)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blocks.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	slots, err := domain.FindFreeSlots(domain.SlotRequest{
		Day:              dayIn(day, s.loc),
		Minutes:          minutes,
		Hours:            s.hours,
		ExpandRecurrence: s.expand,
	}, entries, blocks)
	if errors.Is(err, domain.ErrInvalidDuration) {
		return nil, validationError(err.Error())
	}
	return slots, err
}

func (s *Service) Agenda(ctx context.Context, owner string, q domain.AgendaQuery) ([]domain.Item, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if q.Kind != "" && !q.Kind.Valid() {
		return nil, validationError("invalid kind")
	}
	if q.Priority != "" && !q.Priority.Valid() {
		return nil, validationError("invalid priority")
	}
	if q.Date.IsZero() {
		q.Date = s.now()
	}
	q.Date = dayIn(q.Date, s.loc)

	entries, err := s.entries(ctx, owner)
	if err != nil {
		return nil, err
	}
	return domain.Agenda(q, entries), nil
}

// DueReminders lists reminders firing in (from, to].
func (s *Service) DueReminders(ctx context.Context, owner string, from, to time.Time) ([]domain.DueReminder, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, validationError("window end must be after window start")
	}
	appts, err := s.appts.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return domain.DueReminders(appts, from, to), nil
}

func newID(owner, operation, idempotencyKey string) (string, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return uuid.NewString(), nil
	}
	if len(key) > 256 {
		return "", validationError("idempotency_key too long")
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("planning:"+operation+":"+owner+":"+key)).String(), nil
}
