package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Quotes, invoices and clients belong to the documents collaborator. The
// scheduling engine only reads them.

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusInvoiced QuoteStatus = "invoiced"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusLate  InvoiceStatus = "late"
)

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Client) Ref() ClientRef {
	return WithClient{ID: c.ID, Snapshot: ClientSnapshot{Name: c.Name, Email: c.Email, Phone: c.Phone}}
}

type Quote struct {
	ID         string
	Number     string
	Client     ClientRef
	Status     QuoteStatus
	IssuedAt   time.Time
	ValidUntil time.Time
}

type Invoice struct {
	ID       string
	Number   string
	QuoteID  string
	Client   ClientRef
	Status   InvoiceStatus
	IssuedAt time.Time
	DueDate  time.Time
	PaidAt   *time.Time
}

type quoteJSON struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	ClientID   string          `json:"clientId,omitempty"`
	Client     *ClientSnapshot `json:"client,omitempty"`
	Status     QuoteStatus     `json:"status"`
	IssuedAt   time.Time       `json:"issuedAt"`
	ValidUntil time.Time       `json:"validUntil"`
}

func (q Quote) MarshalJSON() ([]byte, error) {
	id, snap := splitClient(q.Client)
	return json.Marshal(quoteJSON{
		ID:         q.ID,
		Number:     q.Number,
		ClientID:   id,
		Client:     snap,
		Status:     q.Status,
		IssuedAt:   q.IssuedAt,
		ValidUntil: q.ValidUntil,
	})
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var in quoteJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*q = Quote{
		ID:         in.ID,
		Number:     in.Number,
		Client:     joinClient(in.ClientID, in.Client),
		Status:     in.Status,
		IssuedAt:   in.IssuedAt,
		ValidUntil: in.ValidUntil,
	}
	return nil
}

type invoiceJSON struct {
	ID       string          `json:"id"`
	Number   string          `json:"number"`
	QuoteID  string          `json:"quoteId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Client   *ClientSnapshot `json:"client,omitempty"`
	Status   InvoiceStatus   `json:"status"`
	IssuedAt time.Time       `json:"issuedAt"`
	DueDate  time.Time       `json:"dueDate"`
	PaidAt   *time.Time      `json:"paidAt,omitempty"`
}

func (inv Invoice) MarshalJSON() ([]byte, error) {
	id, snap := splitClient(inv.Client)
	return json.Marshal(invoiceJSON{
		ID:       inv.ID,
		Number:   inv.Number,
		QuoteID:  inv.QuoteID,
		ClientID: id,
		Client:   snap,
		Status:   inv.Status,
		IssuedAt: inv.IssuedAt,
		DueDate:  inv.DueDate,
		PaidAt:   inv.PaidAt,
	})
}

func (inv *Invoice) UnmarshalJSON(b []byte) error {
	var in invoiceJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*inv = Invoice{
		ID:       in.ID,
		Number:   in.Number,
		QuoteID:  in.QuoteID,
		Client:   joinClient(in.ClientID, in.Client),
		Status:   in.Status,
		IssuedAt: in.IssuedAt,
		DueDate:  in.DueDate,
		PaidAt:   in.PaidAt,
	}
	return nil
}

func splitClient(ref ClientRef) (string, *ClientSnapshot) {
	c, ok := ref.(WithClient)
	if !ok {
		return "", nil
	}
	snap := c.Snapshot
	return c.ID, &snap
}

func joinClient(id string, snap *ClientSnapshot) ClientRef {
	if strings.TrimSpace(id) == "" {
		return Unassigned{}
	}
	c := WithClient{ID: id}
	if snap != nil {
		c.Snapshot = *snap
	}
	return c
}
