package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"minibizz/planning/internal/domain"
	"minibizz/planning/internal/store"
	"minibizz/planning/internal/store/memory"
)

func newTestService(appts AppointmentStore, blocks BlockStore, docs DocumentStore) *Service {
	return NewService(appts, blocks, docs, Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) },
	})
}

func TestService_RequiresOwner(t *testing.T) {
	svc := newTestService(&fakeAppointments{}, &fakeBlocks{}, &fakeDocuments{})
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	calls := map[string]func() error{
		"ListAppointments": func() error { _, err := svc.ListAppointments(ctx, ""); return err },
		"SaveAppointment":  func() error { _, err := svc.SaveAppointment(ctx, " ", SaveInput{Title: "x"}); return err },
		"DeleteAppointment": func() error { return svc.DeleteAppointment(ctx, "", "a1") },
		"SetStatus": func() error {
			_, err := svc.SetStatus(ctx, "", "a1", domain.StatusConfirmed)
			return err
		},
		"ListBlocks":        func() error { _, err := svc.ListBlocks(ctx, ""); return err },
		"GenerateDeadlines": func() error { _, err := svc.GenerateDeadlines(ctx, ""); return err },
		"FindFreeSlots":     func() error { _, err := svc.FindFreeSlots(ctx, "", day, 60); return err },
		"Agenda":            func() error { _, err := svc.Agenda(ctx, "", domain.AgendaQuery{}); return err },
		"DueReminders":      func() error { _, err := svc.DueReminders(ctx, "", day, day.Add(time.Hour)); return err },
		"ListClients":       func() error { _, err := svc.ListClients(ctx, ""); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if vErr.Error() != "owner_id is required" {
				t.Fatalf("error = %q, want %q", vErr.Error(), "owner_id is required")
			}
		})
	}
}

func TestServiceSaveAppointment_NormalizesAndDefaults(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	var got domain.Appointment
	svc := newTestService(&fakeAppointments{
		saveFn: func(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error) {
			got = appt
			return appt, nil
		},
	}, &fakeBlocks{}, &fakeDocuments{})

	_, err = svc.SaveAppointment(context.Background(), "u1", SaveInput{
		Title: "  Kickoff  ",
		Start: time.Date(2026, 3, 10, 10, 0, 0, 0, loc),
		End:   time.Date(2026, 3, 10, 11, 0, 0, 0, loc),
	})
	if err != nil {
		t.Fatalf("SaveAppointment error: %v", err)
	}
	if got.Title != "Kickoff" {
		t.Fatalf("title = %q, want %q", got.Title, "Kickoff")
	}
	if got.Start.Location() != time.UTC || got.End.Location() != time.UTC {
		t.Fatalf("expected UTC times, got start=%v end=%v", got.Start, got.End)
	}
	if got.ID == "" {
		t.Fatalf("expected generated id")
	}
	if got.Kind != domain.KindAppointment || got.Status != domain.StatusScheduled || got.Priority != domain.PriorityNormal {
		t.Fatalf("defaults = %s/%s/%s", got.Kind, got.Status, got.Priority)
	}
	if _, ok := got.Client.(domain.Unassigned); !ok {
		t.Fatalf("client = %#v, want Unassigned", got.Client)
	}
}

func TestServiceSaveAppointment_Validation(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	valid := SaveInput{Title: "t", Start: start, End: start.Add(time.Hour)}

	tests := []struct {
		name    string
		mutate  func(in *SaveInput)
		wantErr string
	}{
		{"missing title", func(in *SaveInput) { in.Title = "  " }, "title is required"},
		{"end before start", func(in *SaveInput) { in.End = start.Add(-time.Minute) }, "end must be after start"},
		{"equal bounds", func(in *SaveInput) { in.End = start }, "end must be after start"},
		{"synthesized id", func(in *SaveInput) { in.ID = domain.QuoteDeadlineID("q1") }, "deadlines are generated from documents and cannot be saved"},
		{"deadline kind", func(in *SaveInput) { in.Kind = domain.KindInvoiceDeadline }, "deadlines are generated from documents and cannot be saved"},
		{"unknown kind", func(in *SaveInput) { in.Kind = "holiday" }, "invalid kind"},
		{"unknown status", func(in *SaveInput) { in.Status = "done" }, "invalid status"},
		{"unknown priority", func(in *SaveInput) { in.Priority = "meh" }, "invalid priority"},
		{"negative lead", func(in *SaveInput) { in.Reminder = &domain.Reminder{Enabled: true, LeadMinutes: -5} }, "reminder lead must not be negative"},
		{"enabled reminder without lead", func(in *SaveInput) { in.Reminder = &domain.Reminder{Enabled: true} }, "enabled reminder needs a positive lead"},
		{"unknown client", func(in *SaveInput) { in.ClientID = "ghost" }, "unknown client"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeAppointments{}, &fakeBlocks{}, &fakeDocuments{})
			in := valid
			tt.mutate(&in)

			_, err := svc.SaveAppointment(context.Background(), "u1", in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v (%T), want *ValidationError", err, err)
			}
			if vErr.Error() != tt.wantErr {
				t.Fatalf("error = %q, want %q", vErr.Error(), tt.wantErr)
			}
		})
	}
}

func TestServiceSaveAppointment_SnapshotsClient(t *testing.T) {
	docs := &fakeDocuments{clients: []domain.Client{{ID: "c1", Name: "Acme", Email: "a@acme.test", Phone: "0102"}}}
	svc := newTestService(&fakeAppointments{saveFn: echoSave}, &fakeBlocks{}, docs)

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	got, err := svc.SaveAppointment(context.Background(), "u1", SaveInput{Title: "t", ClientID: "c1", Start: start, End: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("SaveAppointment error: %v", err)
	}
	c, ok := got.Client.(domain.WithClient)
	if !ok {
		t.Fatalf("client = %#v, want WithClient", got.Client)
	}
	if c.ID != "c1" || c.Snapshot.Email != "a@acme.test" || c.Snapshot.Phone != "0102" {
		t.Fatalf("snapshot = %+v", c)
	}
}

func TestServiceSaveAppointment_IdempotencyKeyDeterministicID(t *testing.T) {
	var ids []string
	svc := newTestService(&fakeAppointments{
		saveFn: func(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error) {
			ids = append(ids, appt.ID)
			return appt, nil
		},
	}, &fakeBlocks{}, &fakeDocuments{})

	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, key := range []string{"k1", "k1", "k2"} {
		_, err := svc.SaveAppointment(context.Background(), "u1", SaveInput{
			Title:          "t",
			Start:          start,
			End:            start.Add(time.Hour),
			IdempotencyKey: key,
		})
		if err != nil {
			t.Fatalf("SaveAppointment error: %v", err)
		}
	}

	if len(ids) != 3 {
		t.Fatalf("captured ids = %d, want 3", len(ids))
	}
	if ids[0] != ids[1] {
		t.Fatalf("ids differ: %s vs %s", ids[0], ids[1])
	}
	if ids[0] == ids[2] {
		t.Fatalf("expected different ids, got %s", ids[0])
	}
}

func TestServiceSaveAppointment_PropagatesStoreErrors(t *testing.T) {
	svc := newTestService(&fakeAppointments{
		saveFn: func(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrCorrupt
		},
	}, &fakeBlocks{}, &fakeDocuments{})

	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.SaveAppointment(context.Background(), "u1", SaveInput{Title: "t", Start: start, End: start.Add(time.Hour)})
	if !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("error = %v, want %v", err, store.ErrCorrupt)
	}
}

func TestServiceDeleteAppointment_RefusesDeadlines(t *testing.T) {
	svc := newTestService(&fakeAppointments{}, &fakeBlocks{}, &fakeDocuments{})

	err := svc.DeleteAppointment(context.Background(), "u1", domain.InvoiceDeadlineID("i1"))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}

func TestServiceSetStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(store.NewAppointmentRepo(memory.New()), &fakeBlocks{}, &fakeDocuments{})

	if _, err := svc.SetStatus(ctx, "u1", "missing", domain.StatusConfirmed); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	created, err := svc.SaveAppointment(ctx, "u1", SaveInput{Title: "t", Start: start, End: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("SaveAppointment error: %v", err)
	}

	updated, err := svc.SetStatus(ctx, "u1", created.ID, domain.StatusCancelled)
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if updated.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", updated.Status)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	var vErr *ValidationError
	if _, err := svc.SetStatus(ctx, "u1", created.ID, "archived"); !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if _, err := svc.SetStatus(ctx, "u1", domain.QuoteDeadlineID("q1"), domain.StatusConfirmed); !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}
