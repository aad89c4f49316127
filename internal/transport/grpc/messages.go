package grpc

import (
	"time"

	"minibizz/planning/internal/domain"
)

type SaveAppointmentRequest struct {
	OwnerID     string           `json:"ownerId"`
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	ClientID    string           `json:"clientId,omitempty"`
	Start       *time.Time       `json:"start"`
	End         *time.Time       `json:"end"`
	Kind        domain.Kind      `json:"kind,omitempty"`
	Status      domain.Status    `json:"status,omitempty"`
	Priority    domain.Priority  `json:"priority,omitempty"`
	Reminder    *domain.Reminder `json:"reminder,omitempty"`
}

type SaveAppointmentResponse struct {
	Appointment domain.Appointment `json:"appointment"`
}

type ListAppointmentsRequest struct {
	OwnerID string `json:"ownerId"`
}

type ListAppointmentsResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
}

type DeleteAppointmentRequest struct {
	OwnerID       string `json:"ownerId"`
	AppointmentID string `json:"appointmentId"`
}

type DeleteAppointmentResponse struct{}

type SetAppointmentStatusRequest struct {
	OwnerID       string        `json:"ownerId"`
	AppointmentID string        `json:"appointmentId"`
	Status        domain.Status `json:"status"`
}

type SetAppointmentStatusResponse struct {
	Appointment domain.Appointment `json:"appointment"`
}

type SaveBlockRequest struct {
	OwnerID      string              `json:"ownerId"`
	ID           string              `json:"id,omitempty"`
	Start        *time.Time          `json:"start"`
	End          *time.Time          `json:"end"`
	Availability domain.Availability `json:"availability,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Recurrence   *domain.Recurrence  `json:"recurrence,omitempty"`
}

type SaveBlockResponse struct {
	Block domain.UnavailabilityBlock `json:"block"`
}

type ListBlocksRequest struct {
	OwnerID string `json:"ownerId"`
}

type ListBlocksResponse struct {
	Blocks []domain.UnavailabilityBlock `json:"blocks"`
}

type DeleteBlockRequest struct {
	OwnerID string `json:"ownerId"`
	BlockID string `json:"blockId"`
}

type DeleteBlockResponse struct{}

type GenerateDeadlinesRequest struct {
	OwnerID string `json:"ownerId"`
}

type GenerateDeadlinesResponse struct {
	Deadlines []domain.Item `json:"deadlines"`
}

type FindFreeSlotsRequest struct {
	OwnerID string `json:"ownerId"`
	// Day is a calendar date, YYYY-MM-DD, in the server's time zone.
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

type FindFreeSlotsResponse struct {
	Slots []domain.FreeSlot `json:"slots"`
}

type AgendaRequest struct {
	OwnerID  string          `json:"ownerId"`
	View     string          `json:"view,omitempty"`
	Date     string          `json:"date,omitempty"`
	Search   string          `json:"search,omitempty"`
	Kind     domain.Kind     `json:"kind,omitempty"`
	Priority domain.Priority `json:"priority,omitempty"`
}

type AgendaResponse struct {
	Items []domain.Item `json:"items"`
}
