package store

import (
	"context"

	"minibizz/planning/internal/domain"
)

// DocumentRepo holds the read copies of the documents collaborator's quotes,
// invoices and clients.
type DocumentRepo struct {
	c     Collections
	locks ownerLocks
}

func NewDocumentRepo(c Collections) *DocumentRepo {
	return &DocumentRepo{c: c}
}

func (r *DocumentRepo) ListQuotes(ctx context.Context, owner string) ([]domain.Quote, error) {
	return loadRecords[domain.Quote](ctx, r.c, CollectionName(owner, QuotesCollection))
}

func (r *DocumentRepo) ListInvoices(ctx context.Context, owner string) ([]domain.Invoice, error) {
	return loadRecords[domain.Invoice](ctx, r.c, CollectionName(owner, InvoicesCollection))
}

func (r *DocumentRepo) ListClients(ctx context.Context, owner string) ([]domain.Client, error) {
	return loadRecords[domain.Client](ctx, r.c, CollectionName(owner, ClientsCollection))
}

func (r *DocumentRepo) SaveQuote(ctx context.Context, owner string, q domain.Quote) error {
	return upsertInto(ctx, r, owner, QuotesCollection, q, func(q domain.Quote) string { return q.ID })
}

func (r *DocumentRepo) SaveInvoice(ctx context.Context, owner string, inv domain.Invoice) error {
	return upsertInto(ctx, r, owner, InvoicesCollection, inv, func(inv domain.Invoice) string { return inv.ID })
}

func (r *DocumentRepo) SaveClient(ctx context.Context, owner string, c domain.Client) error {
	return upsertInto(ctx, r, owner, ClientsCollection, c, func(c domain.Client) string { return c.ID })
}

func upsertInto[T any](ctx context.Context, r *DocumentRepo, owner, collection string, rec T, id func(T) string) error {
	unlock := r.locks.lock(owner + "/" + collection)
	defer unlock()

	name := CollectionName(owner, collection)
	records, err := loadRecords[T](ctx, r.c, name)
	if err != nil {
		return err
	}
	records = upsert(records, rec, id)
	return saveRecords(ctx, r.c, name, records)
}
