package scheduling

import (
	"context"

	"minibizz/planning/internal/domain"
)

type fakeAppointments struct {
	listFn   func(ctx context.Context, owner string) ([]domain.Appointment, error)
	getFn    func(ctx context.Context, owner, id string) (domain.Appointment, error)
	saveFn   func(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error)
	deleteFn func(ctx context.Context, owner, id string) error
}

func (f *fakeAppointments) List(ctx context.Context, owner string) ([]domain.Appointment, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, owner)
}

func (f *fakeAppointments) Get(ctx context.Context, owner, id string) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, owner, id)
}

func (f *fakeAppointments) Save(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error) {
	if f.saveFn == nil {
		panic("Save not configured")
	}
	return f.saveFn(ctx, owner, appt)
}

func (f *fakeAppointments) Delete(ctx context.Context, owner, id string) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, owner, id)
}

type fakeBlocks struct {
	listFn func(ctx context.Context, owner string) ([]domain.UnavailabilityBlock, error)
	saveFn func(ctx context.Context, owner string, b domain.UnavailabilityBlock) (domain.UnavailabilityBlock, error)
}

func (f *fakeBlocks) List(ctx context.Context, owner string) ([]domain.UnavailabilityBlock, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, owner)
}

func (f *fakeBlocks) Save(ctx context.Context, owner string, b domain.UnavailabilityBlock) (domain.UnavailabilityBlock, error) {
	if f.saveFn == nil {
		panic("Save not configured")
	}
	return f.saveFn(ctx, owner, b)
}

func (f *fakeBlocks) Delete(ctx context.Context, owner, id string) error {
	panic("Delete not configured")
}

type fakeDocuments struct {
	quotes   []domain.Quote
	invoices []domain.Invoice
	clients  []domain.Client
}

func (f *fakeDocuments) ListQuotes(ctx context.Context, owner string) ([]domain.Quote, error) {
	return f.quotes, nil
}

func (f *fakeDocuments) ListInvoices(ctx context.Context, owner string) ([]domain.Invoice, error) {
	return f.invoices, nil
}

func (f *fakeDocuments) ListClients(ctx context.Context, owner string) ([]domain.Client, error) {
	return f.clients, nil
}

func (f *fakeDocuments) SaveQuote(ctx context.Context, owner string, q domain.Quote) error {
	f.quotes = append(f.quotes, q)
	return nil
}

func (f *fakeDocuments) SaveInvoice(ctx context.Context, owner string, inv domain.Invoice) error {
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeDocuments) SaveClient(ctx context.Context, owner string, c domain.Client) error {
	f.clients = append(f.clients, c)
	return nil
}

func echoSave(ctx context.Context, owner string, appt domain.Appointment) (domain.Appointment, error) {
	return appt, nil
}
