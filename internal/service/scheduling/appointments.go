package scheduling

import (
	"context"
	"strings"
	"time"

	"minibizz/planning/internal/domain"
)

type SaveInput struct {
	// ID is empty for a new appointment.
	ID          string
	Title       string
	Description string
	Location    string
	Notes       string
	ClientID    string
	Start       time.Time
	End         time.Time
	Kind        domain.Kind
	Status      domain.Status
	Priority    domain.Priority
	Reminder    *domain.Reminder

	// IdempotencyKey derives a stable id for new appointments.
	IdempotencyKey string
}

func (s *Service) ListAppointments(ctx context.Context, owner string) ([]domain.Appointment, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.appts.List(ctx, owner)
}

// SaveAppointment creates or replaces a stored appointment. Deadline ids and
// kinds are refused since deadlines are rebuilt from documents.
func (s *Service) SaveAppointment(ctx context.Context, owner string, in SaveInput) (domain.Appointment, error) {
	if err := requireOwner(owner); err != nil {
		return domain.Appointment{}, err
	}
	id := strings.TrimSpace(in.ID)
	if domain.IsSynthesizedID(id) {
		return domain.Appointment{}, validationError("deadlines are generated from documents and cannot be saved")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Appointment{}, validationError("title is required")
	}

	start := in.Start.UTC()
	end := in.End.UTC()
	if !end.After(start) {
		return domain.Appointment{}, validationError("end must be after start")
	}

	kind := in.Kind
	if kind == "" {
		kind = domain.KindAppointment
	}
	if !kind.Valid() {
		return domain.Appointment{}, validationError("invalid kind")
	}
	if !kind.Persistable() {
		return domain.Appointment{}, validationError("deadlines are generated from documents and cannot be saved")
	}

	status := in.Status
	if status == "" {
		status = domain.StatusScheduled
	}
	if !status.Valid() {
		return domain.Appointment{}, validationError("invalid status")
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !priority.Valid() {
		return domain.Appointment{}, validationError("invalid priority")
	}

	var reminder *domain.Reminder
	if in.Reminder != nil {
		if in.Reminder.LeadMinutes < 0 {
			return domain.Appointment{}, validationError("reminder lead must not be negative")
		}
		if in.Reminder.Enabled && in.Reminder.LeadMinutes == 0 {
			return domain.Appointment{}, validationError("enabled reminder needs a positive lead")
		}
		r := *in.Reminder
		reminder = &r
	}

	client, err := s.resolveClient(ctx, owner, in.ClientID)
	if err != nil {
		return domain.Appointment{}, err
	}

	if id == "" {
		id, err = newID(owner, "save_appointment", in.IdempotencyKey)
		if err != nil {
			return domain.Appointment{}, err
		}
	}

	return s.appts.Save(ctx, owner, domain.Appointment{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Notes:       in.Notes,
		Client:      client,
		Start:       start,
		End:         end,
		Kind:        kind,
		Status:      status,
		Priority:    priority,
		Reminder:    reminder,
	})
}

// resolveClient snapshots the client's contact details onto the appointment.
func (s *Service) resolveClient(ctx context.Context, owner, clientID string) (domain.ClientRef, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.Unassigned{}, nil
	}
	clients, err := s.docs.ListClients(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		if c.ID == clientID {
			return c.Ref(), nil
		}
	}
	return nil, validationError("unknown client")
}

func (s *Service) DeleteAppointment(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("appointment_id is required")
	}
	if domain.IsSynthesizedID(id) {
		return validationError("deadlines are generated from documents and cannot be deleted")
	}
	return s.appts.Delete(ctx, owner, id)
}

// SetStatus moves a stored appointment to status. Missing appointments
// surface the store's not-found error.
func (s *Service) SetStatus(ctx context.Context, owner, id string, status domain.Status) (domain.Appointment, error) {
	if err := requireOwner(owner); err != nil {
		return domain.Appointment{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	if domain.IsSynthesizedID(id) {
		return domain.Appointment{}, validationError("deadlines are generated from documents and have no status")
	}
	if !status.Valid() {
		return domain.Appointment{}, validationError("invalid status")
	}

	appt, err := s.appts.Get(ctx, owner, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	appt.Status = status
	return s.appts.Save(ctx, owner, appt)
}
