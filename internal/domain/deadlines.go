package domain

import (
	"encoding/json"
	"time"
)

type DocumentKind string

const (
	DocumentQuote   DocumentKind = "quote"
	DocumentInvoice DocumentKind = "invoice"
)

type DocumentRef struct {
	Kind DocumentKind `json:"kind"`
	ID   string       `json:"id"`
}

// Deadline is a calendar entry derived from an outstanding quote or invoice.
// It is rebuilt on every load and never stored.
type Deadline struct {
	ID          string
	Title       string
	Description string
	Client      ClientRef
	Start       time.Time
	End         time.Time
	Kind        Kind
	Source      DocumentRef
}

func (d Deadline) Item() Item {
	client := d.Client
	if client == nil {
		client = Unassigned{}
	}
	src := d.Source
	return Item{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Client:      client,
		Start:       d.Start,
		End:         d.End,
		Kind:        d.Kind,
		Status:      StatusScheduled,
		Priority:    PriorityHigh,
		Source:      &src,
		Synthesized: true,
	}
}

func (Deadline) isEntry() {}

// MarshalJSON encodes a deadline in the same shape as any calendar item.
func (d Deadline) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Item())
}

const deadlineLead = 24 * time.Hour

func QuoteDeadlineID(quoteID string) string {
	return SynthesizedIDPrefix + "devis-" + quoteID
}

func InvoiceDeadlineID(invoiceID string) string {
	return SynthesizedIDPrefix + "facture-" + invoiceID
}

// SynthesizeDeadlines returns one entry per sent quote whose validity date is
// after now and one per sent invoice whose due date is after now. Each entry
// spans the last day before the date. Passed dates produce nothing.
func SynthesizeDeadlines(quotes []Quote, invoices []Invoice, now time.Time) []Deadline {
	out := make([]Deadline, 0, len(quotes)+len(invoices))

	for _, q := range quotes {
		if q.Status != QuoteStatusSent || !q.ValidUntil.After(now) {
			continue
		}
		out = append(out, Deadline{
			ID:          QuoteDeadlineID(q.ID),
			Title:       "Quote " + q.Number + " expires",
			Description: "Quote validity deadline",
			Client:      q.Client,
			Start:       q.ValidUntil.Add(-deadlineLead),
			End:         q.ValidUntil,
			Kind:        KindQuoteDeadline,
			Source:      DocumentRef{Kind: DocumentQuote, ID: q.ID},
		})
	}

	for _, inv := range invoices {
		if inv.Status != InvoiceStatusSent || !inv.DueDate.After(now) {
			continue
		}
		out = append(out, Deadline{
			ID:          InvoiceDeadlineID(inv.ID),
			Title:       "Invoice " + inv.Number + " due",
			Description: "Payment deadline",
			Client:      inv.Client,
			Start:       inv.DueDate.Add(-deadlineLead),
			End:         inv.DueDate,
			Kind:        KindInvoiceDeadline,
			Source:      DocumentRef{Kind: DocumentInvoice, ID: inv.ID},
		})
	}

	return out
}
