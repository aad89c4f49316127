package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindAppointment     Kind = "appointment"
	KindQuoteDeadline   Kind = "quote_deadline"
	KindInvoiceDeadline Kind = "invoice_deadline"
	KindUnavailability  Kind = "unavailability"
)

// Persistable reports whether records of this kind may be stored. Deadline
// kinds are always synthesized.
func (k Kind) Persistable() bool {
	return k == KindAppointment || k == KindUnavailability
}

func (k Kind) Valid() bool {
	switch k {
	case KindAppointment, KindQuoteDeadline, KindInvoiceDeadline, KindUnavailability:
		return true
	}
	return false
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusPostponed Status = "postponed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusPostponed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

var (
	ErrInvalidSpan     = errors.New("end must be after start")
	ErrInvalidDuration = errors.New("duration must be positive")
)

type ClientSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// ClientRef is either WithClient or Unassigned.
type ClientRef interface {
	clientRef()
}

type WithClient struct {
	ID       string
	Snapshot ClientSnapshot
}

type Unassigned struct{}

func (WithClient) clientRef() {}
func (Unassigned) clientRef() {}

// ClientName is the display name used by searches and exports.
func ClientName(ref ClientRef) string {
	switch c := ref.(type) {
	case WithClient:
		return c.Snapshot.Name
	default:
		return ""
	}
}

type Reminder struct {
	Enabled     bool `json:"enabled"`
	LeadMinutes int  `json:"leadMinutes"`
}

// Appointment is a user-entered calendar record.
type Appointment struct {
	ID          string
	Title       string
	Description string
	Location    string
	Notes       string
	Client      ClientRef
	Start       time.Time
	End         time.Time
	Kind        Kind
	Status      Status
	Priority    Priority
	Reminder    *Reminder
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the invariants a stored appointment must hold.
func (a Appointment) Validate() error {
	if !a.End.After(a.Start) {
		return ErrInvalidSpan
	}
	return nil
}

func (a Appointment) Item() Item {
	client := a.Client
	if client == nil {
		client = Unassigned{}
	}
	var reminder *Reminder
	if a.Reminder != nil {
		r := *a.Reminder
		reminder = &r
	}
	return Item{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		Client:      client,
		Start:       a.Start,
		End:         a.End,
		Kind:        a.Kind,
		Status:      a.Status,
		Priority:    a.Priority,
		Reminder:    reminder,
	}
}

func (Appointment) isEntry() {}

type appointmentJSON struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	ClientID    string          `json:"clientId,omitempty"`
	Client      *ClientSnapshot `json:"client,omitempty"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Kind        Kind            `json:"kind"`
	Status      Status          `json:"status"`
	Priority    Priority        `json:"priority"`
	Reminder    *Reminder       `json:"reminder,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (a Appointment) MarshalJSON() ([]byte, error) {
	out := appointmentJSON{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		Notes:       a.Notes,
		Start:       a.Start,
		End:         a.End,
		Kind:        a.Kind,
		Status:      a.Status,
		Priority:    a.Priority,
		Reminder:    a.Reminder,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if c, ok := a.Client.(WithClient); ok {
		snap := c.Snapshot
		out.ClientID = c.ID
		out.Client = &snap
	}
	return json.Marshal(out)
}

func (a *Appointment) UnmarshalJSON(b []byte) error {
	var in appointmentJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.Kind != "" && !in.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", in.Kind)
	}
	*a = Appointment{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Notes:       in.Notes,
		Client:      Unassigned{},
		Start:       in.Start,
		End:         in.End,
		Kind:        in.Kind,
		Status:      in.Status,
		Priority:    in.Priority,
		Reminder:    in.Reminder,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
	if strings.TrimSpace(in.ClientID) != "" {
		var snap ClientSnapshot
		if in.Client != nil {
			snap = *in.Client
		}
		a.Client = WithClient{ID: in.ClientID, Snapshot: snap}
	}
	return nil
}
