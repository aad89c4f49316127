package store

import (
	"context"
	"fmt"
	"time"

	"minibizz/planning/internal/domain"
)

// AppointmentRepo stores persisted appointments. Synthesized deadlines are a
// different type and cannot be passed here.
type AppointmentRepo struct {
	c     Collections
	now   func() time.Time
	locks ownerLocks
}

func NewAppointmentRepo(c Collections) *AppointmentRepo {
	return &AppointmentRepo{c: c, now: time.Now}
}

func appointmentID(a domain.Appointment) string { return a.ID }

// List returns the owner's appointments in insertion order.
func (r *AppointmentRepo) List(ctx context.Context, owner string) ([]domain.Appointment, error) {
	return loadRecords[domain.Appointment](ctx, r.c, CollectionName(owner, AppointmentsCollection))
}

func (r *AppointmentRepo) Get(ctx context.Context, owner, id string) (domain.Appointment, error) {
	appts, err := r.List(ctx, owner)
	if err != nil {
		return domain.Appointment{}, err
	}
	for _, a := range appts {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
}

// Save replaces the appointment with the same id or appends it. The creation
// stamp of a replaced record is kept and the update stamp is refreshed.
func (r *AppointmentRepo) Save(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error) {
	if err := appt.Validate(); err != nil {
		return domain.Appointment{}, err
	}

	unlock := r.locks.lock(owner)
	defer unlock()

	name := CollectionName(owner, AppointmentsCollection)
	appts, err := loadRecords[domain.Appointment](ctx, r.c, name)
	if err != nil {
		return domain.Appointment{}, err
	}

	now := r.now().UTC()
	appt.CreatedAt = now
	for _, a := range appts {
		if a.ID == appt.ID && !a.CreatedAt.IsZero() {
			appt.CreatedAt = a.CreatedAt
			break
		}
	}
	appt.UpdatedAt = now

	appts = upsert(appts, appt, appointmentID)
	if err := saveRecords(ctx, r.c, name, appts); err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

// Delete removes the appointment. Unknown ids are ignored.
func (r *AppointmentRepo) Delete(ctx context.Context, owner, id string) error {
	unlock := r.locks.lock(owner)
	defer unlock()

	name := CollectionName(owner, AppointmentsCollection)
	appts, err := loadRecords[domain.Appointment](ctx, r.c, name)
	if err != nil {
		return err
	}
	appts, ok := remove(appts, id, appointmentID)
	if !ok {
		return nil
	}
	return saveRecords(ctx, r.c, name, appts)
}
