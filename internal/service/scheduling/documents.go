package scheduling

import (
	"context"
	"strings"

	"minibizz/planning/internal/domain"
)

// The documents collaborator pushes its quotes, invoices and clients here so
// deadlines and client snapshots can be derived locally.

func (s *Service) SyncQuote(ctx context.Context, owner string, q domain.Quote) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if strings.TrimSpace(q.ID) == "" {
		return validationError("quote_id is required")
	}
	switch q.Status {
	case domain.QuoteStatusDraft, domain.QuoteStatusSent, domain.QuoteStatusAccepted,
		domain.QuoteStatusRejected, domain.QuoteStatusInvoiced:
	default:
		return validationError("invalid quote status")
	}
	if q.Client == nil {
		q.Client = domain.Unassigned{}
	}
	return s.docs.SaveQuote(ctx, owner, q)
}

func (s *Service) SyncInvoice(ctx context.Context, owner string, inv domain.Invoice) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if strings.TrimSpace(inv.ID) == "" {
		return validationError("invoice_id is required")
	}
	switch inv.Status {
	case domain.InvoiceStatusDraft, domain.InvoiceStatusSent, domain.InvoiceStatusPaid, domain.InvoiceStatusLate:
	default:
		return validationError("invalid invoice status")
	}
	if inv.Client == nil {
		inv.Client = domain.Unassigned{}
	}
	return s.docs.SaveInvoice(ctx, owner, inv)
}

func (s *Service) SyncClient(ctx context.Context, owner string, c domain.Client) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return validationError("client_id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return validationError("client name is required")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	return s.docs.SaveClient(ctx, owner, c)
}

func (s *Service) ListClients(ctx context.Context, owner string) ([]domain.Client, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.docs.ListClients(ctx, owner)
}
